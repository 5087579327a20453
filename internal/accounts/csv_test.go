package accounts

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/sanad/internal/model"
)

func TestChartRoundTrip(t *testing.T) {
	chart := []ChartEntry{
		{Code: "1", Name: "دارایی‌ها", Type: model.AccountTypeAsset},
		{Code: "11", Name: "صندوق", Type: model.AccountTypeAsset, ParentCode: "1", Description: "وجه نقد"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteChart(&buf, chart))

	got, err := ReadChart(&buf)
	require.NoError(t, err)
	assert.Equal(t, chart, got)
}

func TestReadChart_Empty(t *testing.T) {
	got, err := ReadChart(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadChart_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"wrong field count", "code,name,type,parent_code,description\n1,x,asset\n"},
		{"unknown type", "code,name,type,parent_code,description\n1,x,bank,,\n"},
		{"empty code", "code,name,type,parent_code,description\n,x,asset,,\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadChart(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestExportedChartSeedsIdenticalRegistry(t *testing.T) {
	r := seeded(t)
	path := filepath.Join(t.TempDir(), "chart-of-accounts.csv")

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteChart(f, r.Chart()))
	require.NoError(t, f.Close())

	chart, err := LoadChartFile(path)
	require.NoError(t, err)

	again := NewRegistry()
	_, err = again.Seed(chart, nil)
	require.NoError(t, err)
	assert.Equal(t, r.Chart(), again.Chart())
}

func TestLoadChartFile_Missing(t *testing.T) {
	_, err := LoadChartFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
