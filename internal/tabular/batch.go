package tabular

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// File is one uploaded file awaiting parsing.
type File struct {
	Name string
	Data []byte
}

// FileError records a per-file parse failure. A failed file does not abort
// the batch; the remaining files are still parsed.
type FileError struct {
	FileName string `json:"file_name"`
	Message  string `json:"message"`
}

type fileResult struct {
	records [][]string
	header  []string
	err     error
}

// ParseBatch parses every file concurrently and joins the results in
// file-selection order, so the combined table is independent of which parse
// finishes first. Rows carry their source file name and a (file, row)
// position. A batch with zero resulting rows returns ErrNoRows alongside the
// per-file errors collected so far.
func ParseBatch(ctx context.Context, files []File, hasHeader bool) (*Table, []FileError, error) {
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no files selected")
	}

	results := make([]fileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, header, err := ParseFile(f, hasHeader)
			results[i] = fileResult{records: records, header: header, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	table := &Table{}
	var fileErrs []FileError
	for i, res := range results {
		if res.err != nil {
			fileErrs = append(fileErrs, FileError{FileName: files[i].Name, Message: res.err.Error()})
			continue
		}
		table.addColumns(res.header)
		for rowIdx, rec := range res.records {
			cells := make(map[string]string, len(res.header))
			for col, name := range res.header {
				if name == "" {
					continue
				}
				if col < len(rec) {
					cells[name] = rec[col]
				} else {
					cells[name] = ""
				}
			}
			table.Rows = append(table.Rows, Row{
				SourceFile: files[i].Name,
				FileIndex:  i,
				RowIndex:   rowIdx,
				Cells:      cells,
			})
		}
	}

	if len(table.Rows) == 0 {
		return nil, fileErrs, ErrNoRows
	}
	return table, fileErrs, nil
}

// ParseFile dispatches on the file extension: .xlsx/.xls go through the
// spreadsheet reader, everything else is treated as delimited text.
func ParseFile(f File, hasHeader bool) ([][]string, []string, error) {
	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".xlsx", ".xls":
		return ParseSpreadsheet(f.Data, hasHeader)
	default:
		return ParseDelimited(f.Data, hasHeader)
	}
}
