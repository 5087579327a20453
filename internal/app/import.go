package app

import (
	"context"
	"fmt"
	"os"

	"github.com/cleared-dev/sanad/internal/importer"
)

// ImportFailure is an item that could not be committed.
type ImportFailure struct {
	File string
	Line int
	Err  error
}

// ImportSummary reports a batch import.
type ImportSummary struct {
	Files     []string
	Committed []int64
	Failed    []ImportFailure
}

// ImportDir commits every item in the files under <root>/import/ and moves
// each file to import/processed/ once read. A failing item is reported with
// its file and line and does not stop the batch. A file that cannot be read
// at all is reported with line 0 and left in place.
func (a *App) ImportDir(ctx context.Context) (ImportSummary, error) {
	reg := importer.DefaultRegistry()
	files, err := reg.Scan(a.root)
	if err != nil {
		return ImportSummary{}, err
	}

	var sum ImportSummary
	for _, f := range files {
		items, err := parseImportFile(reg.ForFile(f.Name), f.Path, a.registry)
		if err != nil {
			a.log.Warn().Err(err).Str("file", f.Name).Msg("import file unreadable")
			sum.Failed = append(sum.Failed, ImportFailure{File: f.Name, Err: err})
			continue
		}

		failedBefore := len(sum.Failed)
		for _, item := range items {
			number, err := a.importItem(ctx, item)
			if err != nil {
				sum.Failed = append(sum.Failed, ImportFailure{File: f.Name, Line: item.Line, Err: err})
				continue
			}
			sum.Committed = append(sum.Committed, number)
		}

		if err := importer.MarkProcessed(a.root, f.Name); err != nil {
			return sum, err
		}
		sum.Files = append(sum.Files, f.Name)
		a.log.Info().
			Str("file", f.Name).
			Int("items", len(items)).
			Int("failed", len(sum.Failed)-failedBefore).
			Msg("import file processed")
	}
	return sum, nil
}

func (a *App) importItem(ctx context.Context, item importer.Item) (int64, error) {
	switch {
	case item.Err != nil:
		return 0, item.Err
	case item.Draft != nil:
		entry, err := a.ledger.Commit(ctx, *item.Draft)
		return entry.Number, err
	default:
		out, err := a.ResolveVoiceCommand(ctx, item.Transcript, true)
		if err != nil {
			return 0, err
		}
		return out.Entry.Number, nil
	}
}

func parseImportFile(p importer.Parser, path string, accts importer.CodeLookup) ([]importer.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()
	return p.Parse(f, accts)
}
