package report

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind identifies a report type for download naming.
type Kind string

const (
	KindShift       Kind = "skiftrapport"
	KindSalary      Kind = "lonnsrapport"
	KindTransaction Kind = "oppgjorsrapport"
)

// FileName builds the deterministic download name for an export: the report
// kind, the subject ("unknown" when no driver is attached), and either the
// period label or the given date.
func FileName(kind Kind, subject, period string, fallback time.Time) string {
	if subject == "" {
		subject = "unknown"
	}
	if period == "" {
		period = fallback.Format("2006-01-02")
	}
	return fmt.Sprintf("%s_%s_%s.pdf", kind, sanitize(subject), sanitize(period))
}

// sanitize keeps the name filesystem- and header-safe: spaces become
// underscores and path separators are dropped.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "_")
	for _, c := range []string{"/", "\\", ":", "\"", "*", "?", "<", ">", "|"} {
		s = strings.ReplaceAll(s, c, "")
	}
	return s
}

func sortedCardTypes(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
