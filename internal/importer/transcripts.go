package importer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TranscriptParser reads one transcribed command per line. Blank lines and
// lines starting with # are skipped.
type TranscriptParser struct{}

// Format returns the parser name.
func (p *TranscriptParser) Format() string { return "transcripts" }

// Extension returns the file extension the parser handles.
func (p *TranscriptParser) Extension() string { return ".txt" }

// Parse reads transcripts. The account lookup is unused.
func (p *TranscriptParser) Parse(r io.Reader, _ CodeLookup) ([]Item, error) {
	var items []Item
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		items = append(items, Item{Line: line, Transcript: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading transcripts: %w", err)
	}
	return items, nil
}
