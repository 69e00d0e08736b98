package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ParseDelimited parses a .dat or .csv export. The delimiter is sniffed from
// the first line (semicolon, tab or comma, whichever occurs most). When
// hasHeader is true the first record supplies the column names; otherwise
// names col1..colN are synthesized. Empty records are skipped.
func ParseDelimited(data []byte, hasHeader bool) ([][]string, []string, error) {
	text := string(data)
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var header []string
	var records [][]string
	lineNum := 0

	for {
		lineNum++
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if isEmptyRecord(rec) {
			continue
		}
		if hasHeader && header == nil {
			header = make([]string, len(rec))
			for i, h := range rec {
				header[i] = strings.TrimSpace(h)
			}
			continue
		}
		records = append(records, rec)
	}

	if header == nil {
		width := 0
		for _, rec := range records {
			if len(rec) > width {
				width = len(rec)
			}
		}
		header = make([]string, width)
		for i := range header {
			header[i] = fmt.Sprintf("col%d", i+1)
		}
	}

	return records, header, nil
}

func sniffDelimiter(text string) rune {
	line := text
	if idx := strings.IndexAny(text, "\r\n"); idx >= 0 {
		line = text[:idx]
	}
	best := ';'
	bestCount := strings.Count(line, ";")
	for _, cand := range []rune{'\t', ','} {
		if c := strings.Count(line, string(cand)); c > bestCount {
			best = cand
			bestCount = c
		}
	}
	return best
}

func isEmptyRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
