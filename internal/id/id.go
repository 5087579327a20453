package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const entryPrefix = "JE-"

// New returns a random identifier for accounts, entries and lines.
func New() string {
	return uuid.NewString()
}

// FormatEntryNumber returns a display number like "JE-000042".
func FormatEntryNumber(n int64) string {
	return fmt.Sprintf("%s%06d", entryPrefix, n)
}

// ParseEntryNumber accepts "JE-000042", "JE-42" or "42" and returns 42.
func ParseEntryNumber(s string) (int64, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), entryPrefix)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid entry number %q: %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid entry number %q: must be positive", s)
	}
	return n, nil
}
