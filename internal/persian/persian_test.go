package persian

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"persian digits", "۵۰۰۰۰۰", "500000"},
		{"arabic-indic digits", "٢٥٠", "250"},
		{"latin thousands", "۲۵,۰۰۰", "25000"},
		{"arabic comma thousands", "۱،۲۰۰،۰۰۰", "1200000"},
		{"arabic thousands sign", "۳٬۵۰۰", "3500"},
		{"decimal separator", "۲٫۵", "2.5"},
		{"arabic yeh and kaf", "كيك", "کیک"},
		{"comma between words kept", "نان، پنیر", "نان، پنیر"},
		{"tatweel dropped", "مبلـــغ", "مبلغ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, Fold("علی آقا"), Fold("علی‌آقا"))
	assert.Equal(t, Fold("علي  آقا"), Fold("علی آقا"))
	assert.Equal(t, "total", Fold("TOTAL"))
}

func TestTokens(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"پرداخت ۵۰۰۰۰۰ تومان", []string{"پرداخت", "500000", "تومان"}},
		{"۵۰۰هزار", []string{"500", "هزار"}},
		{"۲٫۵ میلیون", []string{"2.5", "میلیون"}},
		{"مبلغ: ۲۵,۰۰۰ ریال", []string{"مبلغ", "25000", "ریال"}},
		{"به علی‌آقا", []string{"به", "علی‌آقا"}},
		{"", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tokens(tt.input), "Tokens(%q)", tt.input)
	}
}

func TestIsNumber(t *testing.T) {
	assert.True(t, IsNumber("2.5"))
	assert.False(t, IsNumber("هزار"))
	assert.False(t, IsNumber(""))
}
