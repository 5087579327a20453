// Package importer reads batch intake files dropped into a ledger's import
// directory: transcript lists for the voice resolver and journal CSVs.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/sanad/internal/model"
)

// Item is one unit of work from an import file. Exactly one of Transcript,
// Draft and Err is set; Err marks an item the parser could not read.
type Item struct {
	Line       int // first source line, 1-based
	Transcript string
	Draft      *model.DraftEntry
	Err        error
}

// CodeLookup resolves account codes to accounts.
type CodeLookup interface {
	GetByCode(code string) (model.Account, bool)
}

// Parser converts an import file into Items. Errors that affect a single
// item are reported on that Item; the returned error means the file as a
// whole could not be read.
type Parser interface {
	Parse(r io.Reader, accts CodeLookup) ([]Item, error)
	Format() string
	Extension() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
	byExt   map[string]Parser
}

// FileInfo describes a file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser), byExt: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format or extension.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	ext := strings.ToLower(p.Extension())
	if _, ok := r.byExt[ext]; ok {
		panic("duplicate parser extension: " + ext)
	}
	r.parsers[key] = p
	r.byExt[ext] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// ForFile returns the parser for a file name's extension, or nil.
func (r *Registry) ForFile(name string) Parser {
	return r.byExt[strings.ToLower(filepath.Ext(name))]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&TranscriptParser{})
	r.Register(&JournalParser{})
	return r
}

// Dir is the subdirectory for import files.
const Dir = "import"

// ProcessedDir is the subdirectory for processed files.
const ProcessedDir = "import/processed"

// Scan returns the files in <root>/import/ that some parser in r accepts,
// ordered by name.
func (r *Registry) Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, Dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || r.ForFile(e.Name()) == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, Dir, fileName)
	dstDir := filepath.Join(root, ProcessedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
