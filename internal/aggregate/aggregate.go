// Package aggregate reduces parsed upload rows to the numeric summaries the
// reports print. All sums follow the coerce-or-zero rule: a blank or garbage
// cell contributes zero, so aggregation is total over any input and
// commutative over row order.
package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/vosstaxi/taxirapport/internal/columns"
	"github.com/vosstaxi/taxirapport/internal/domain"
	"github.com/vosstaxi/taxirapport/internal/tabular"
)

// unknownCardType keys card-type breakdown entries for rows whose card type
// column is absent or blank.
const unknownCardType = "UNKNOWN"

// ShiftSummary sums the cash, credit and toll columns of a shift upload.
// GrandTotal is kontant + kreditt; bomtur is informational and excluded.
func ShiftSummary(t *tabular.Table, res columns.Resolved, fileCount int) domain.ShiftSummary {
	s := domain.ShiftSummary{FileCount: fileCount, RowCount: len(t.Rows)}
	s.TotalKontant = sumColumn(t, res.Column(columns.RoleKontant))
	s.TotalKreditt = sumColumn(t, res.Column(columns.RoleKreditt))
	s.TotalBomtur = sumColumn(t, res.Column(columns.RoleBomtur))
	s.GrandTotal = s.TotalKontant + s.TotalKreditt
	return s
}

// SalarySummary sums pay, tax, net and tips columns independently. Net is
// read from its own resolved column, never derived from lønn minus skatt:
// the three figures come from unrelated columns in the source files and are
// reported as-is.
func SalarySummary(t *tabular.Table, res columns.Resolved, fileCount int) domain.SalarySummary {
	return domain.SalarySummary{
		TotalLonn:  sumColumn(t, res.Column(columns.RoleLonn)),
		TotalSkatt: sumColumn(t, res.Column(columns.RoleSkatt)),
		TotalNetto: sumColumn(t, res.Column(columns.RoleNetto)),
		TotalTips:  sumColumn(t, res.Column(columns.RoleTips)),
		FileCount:  fileCount,
		RowCount:   len(t.Rows),
	}
}

func sumColumn(t *tabular.Table, col string) float64 {
	if col == "" {
		return 0
	}
	var sum float64
	for _, row := range t.Rows {
		sum += columns.Number(row.Get(col))
	}
	return sum
}

// payoutGroup accumulates one settlement day while rows are assigned. The
// raw timestamps are kept so that range extension is order-independent; the
// display strings are rendered once at the end.
type payoutGroup struct {
	key      string
	date     time.Time
	dateOK   bool
	group    domain.PayoutGroup
	from, to time.Time
	fromRaw  string
	toRaw    string
}

// GroupByPayoutDate buckets transaction rows by the calendar day of their
// payout date and returns the groups in ascending date order. Rows without a
// payout date value are skipped. Per group it sums brutto/avgifter/netto,
// tracks the earliest and latest transaction timestamp, and breaks netto
// down by card type.
func GroupByPayoutDate(t *tabular.Table, res columns.Resolved) []domain.PayoutGroup {
	payoutCol := res.Column(columns.RolePayoutDate)
	if payoutCol == "" {
		return nil
	}
	bruttoCol := res.Column(columns.RoleBrutto)
	avgifterCol := res.Column(columns.RoleAvgifter)
	nettoCol := res.Column(columns.RoleNetto)
	cardCol := res.Column(columns.RoleCardType)
	fraCol := res.Column(columns.RoleFra)
	tilCol := res.Column(columns.RoleTil)
	if fraCol == "" {
		fraCol = res.Column(columns.RoleDato)
	}

	groups := make(map[string]*payoutGroup)
	for _, row := range t.Rows {
		raw := strings.TrimSpace(row.Get(payoutCol))
		if raw == "" {
			continue
		}
		key := columns.DayKey(raw)

		g, ok := groups[key]
		if !ok {
			g = &payoutGroup{
				key:   key,
				group: domain.PayoutGroup{PayoutDate: key, CardTypes: map[string]float64{}},
			}
			g.date, g.dateOK = columns.Date(raw)
			groups[key] = g
		}

		g.group.Rows = append(g.group.Rows, row.Cells)

		netto := columns.Number(row.Get(nettoCol))
		g.group.Brutto += columns.Number(row.Get(bruttoCol))
		g.group.Avgifter += columns.Number(row.Get(avgifterCol))
		g.group.Netto += netto

		card := strings.TrimSpace(row.Get(cardCol))
		if card == "" {
			card = unknownCardType
		}
		g.group.CardTypes[card] += netto

		if fraCol != "" {
			g.extendRange(row.Get(fraCol), true)
		}
		if tilCol != "" {
			g.extendRange(row.Get(tilCol), false)
		}
	}

	out := make([]*payoutGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.dateOK && b.dateOK && !a.date.Equal(b.date) {
			return a.date.Before(b.date)
		}
		if a.dateOK != b.dateOK {
			return a.dateOK
		}
		return a.key < b.key
	})

	result := make([]domain.PayoutGroup, len(out))
	for i, g := range out {
		if !g.from.IsZero() {
			g.group.FromDate = g.from.Format("02.01.2006 15:04")
		} else {
			g.group.FromDate = g.fromRaw
		}
		if !g.to.IsZero() {
			g.group.ToDate = g.to.Format("02.01.2006 15:04")
		} else {
			g.group.ToDate = g.toRaw
		}
		result[i] = g.group
	}
	return result
}

// extendRange widens the group's seen timestamp range. A start value can
// extend both ends (a lone generic date column serves as both); an end value
// only pushes the upper bound. Undecodable values are tracked as the
// lexicographic min/max raw string, so the fallback display never depends on
// row order.
func (g *payoutGroup) extendRange(val string, isStart bool) {
	raw := strings.TrimSpace(val)
	if raw == "" {
		return
	}
	ts, ok := columns.Date(raw)
	if !ok {
		if isStart && (g.fromRaw == "" || raw < g.fromRaw) {
			g.fromRaw = raw
		}
		if g.toRaw == "" || raw > g.toRaw {
			g.toRaw = raw
		}
		return
	}
	if isStart && (g.from.IsZero() || ts.Before(g.from)) {
		g.from = ts
	}
	if g.to.IsZero() || ts.After(g.to) {
		g.to = ts
	}
}
