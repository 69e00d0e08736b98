package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vosstaxi/taxirapport/internal/columns"
	"github.com/vosstaxi/taxirapport/internal/tabular"
)

func tableOf(cols []string, cells ...map[string]string) *tabular.Table {
	t := &tabular.Table{Columns: cols}
	for i, c := range cells {
		t.Rows = append(t.Rows, tabular.Row{SourceFile: "test", RowIndex: i, Cells: c})
	}
	return t
}

func TestShiftSummary(t *testing.T) {
	tbl := tableOf(
		[]string{"Dato", "Kontant", "Kreditt", "Kreditt Utlegg", "Bomtur"},
		map[string]string{"Kontant": "100,00", "Kreditt": "50", "Kreditt Utlegg": "999", "Bomtur": "10"},
		map[string]string{"Kontant": "25", "Kreditt": "garbage", "Bomtur": ""},
	)
	res := columns.Resolve(tbl.Columns)

	s := ShiftSummary(tbl, res, 3)
	assert.Equal(t, 125.00, s.TotalKontant)
	assert.Equal(t, 50.00, s.TotalKreditt)
	assert.Equal(t, 10.00, s.TotalBomtur)
	assert.Equal(t, 175.00, s.GrandTotal)
	assert.Equal(t, 3, s.FileCount)
	assert.Equal(t, 2, s.RowCount)
}

func TestShiftSummaryMissingColumns(t *testing.T) {
	tbl := tableOf(
		[]string{"Dato", "Tur"},
		map[string]string{"Dato": "2024-01-05", "Tur": "1"},
	)
	s := ShiftSummary(tbl, columns.Resolve(tbl.Columns), 1)
	assert.Zero(t, s.TotalKontant)
	assert.Zero(t, s.TotalKreditt)
	assert.Zero(t, s.GrandTotal)
	assert.Equal(t, 1, s.RowCount)
}

func TestSalarySummaryIndependentSums(t *testing.T) {
	// Netto comes from its own column; it is never lønn minus skatt.
	tbl := tableOf(
		[]string{"Lønn", "Skatt", "Netto", "Tips"},
		map[string]string{"Lønn": "30000", "Skatt": "9000", "Netto": "22000", "Tips": "150"},
		map[string]string{"Lønn": "1000", "Skatt": "", "Netto": "abc", "Tips": "50"},
	)
	s := SalarySummary(tbl, columns.Resolve(tbl.Columns), 2)

	assert.Equal(t, 31000.0, s.TotalLonn)
	assert.Equal(t, 9000.0, s.TotalSkatt)
	assert.Equal(t, 22000.0, s.TotalNetto)
	assert.Equal(t, 200.0, s.TotalTips)
	assert.Equal(t, 2, s.FileCount)
	assert.Equal(t, 2, s.RowCount)
}

func TestGroupByPayoutDate(t *testing.T) {
	cols := []string{"Payout date", "Fra", "Til", "Brutto", "Avgifter", "Netto", "Kort type"}
	tbl := tableOf(cols,
		map[string]string{"Payout date": "2024-01-06", "Fra": "2024-01-05 18:00:00", "Til": "2024-01-06 02:00:00",
			"Brutto": "200", "Avgifter": "20", "Netto": "180", "Kort type": "VISA"},
		map[string]string{"Payout date": "2024-01-05", "Fra": "2024-01-04 08:00:00", "Til": "2024-01-04 16:00:00",
			"Brutto": "100", "Avgifter": "10", "Netto": "90", "Kort type": "Mastercard"},
		map[string]string{"Payout date": "2024-01-06", "Fra": "2024-01-05 06:00:00", "Til": "2024-01-05 14:00:00",
			"Brutto": "50", "Avgifter": "5", "Netto": "45"},
	)
	res := columns.Resolve(cols)

	groups := GroupByPayoutDate(tbl, res)
	require.Len(t, groups, 2)

	// Ascending payout date order regardless of row order.
	assert.Equal(t, "2024-01-05", groups[0].PayoutDate)
	assert.Equal(t, "2024-01-06", groups[1].PayoutDate)

	assert.Equal(t, 100.0, groups[0].Brutto)
	assert.Equal(t, map[string]float64{"Mastercard": 90}, groups[0].CardTypes)

	g := groups[1]
	assert.Equal(t, 250.0, g.Brutto)
	assert.Equal(t, 25.0, g.Avgifter)
	assert.Equal(t, 225.0, g.Netto)
	assert.Len(t, g.Rows, 2)

	// Blank card type buckets under the UNKNOWN key.
	assert.Equal(t, map[string]float64{"VISA": 180, "UNKNOWN": 45}, g.CardTypes)

	// Range spans the earliest fra and latest til in the group.
	assert.Equal(t, "05.01.2024 06:00", g.FromDate)
	assert.Equal(t, "06.01.2024 02:00", g.ToDate)
}

func TestGroupByPayoutDateSkipsBlankAndNoColumn(t *testing.T) {
	cols := []string{"Payout date", "Netto"}
	tbl := tableOf(cols,
		map[string]string{"Payout date": "", "Netto": "10"},
		map[string]string{"Payout date": "2024-01-05", "Netto": "20"},
	)
	groups := GroupByPayoutDate(tbl, columns.Resolve(cols))
	require.Len(t, groups, 1)
	assert.Equal(t, 20.0, groups[0].Netto)

	// Without a payout column there is nothing to group.
	noCol := tableOf([]string{"Netto"}, map[string]string{"Netto": "10"})
	assert.Nil(t, GroupByPayoutDate(noCol, columns.Resolve(noCol.Columns)))
}

func TestGroupByPayoutDateUnparsableKey(t *testing.T) {
	cols := []string{"Payout date", "Netto"}
	tbl := tableOf(cols,
		map[string]string{"Payout date": "ukjent dato", "Netto": "10"},
		map[string]string{"Payout date": "2024-01-05", "Netto": "20"},
	)
	groups := GroupByPayoutDate(tbl, columns.Resolve(cols))
	require.Len(t, groups, 2)

	// Parsed dates sort before raw-string keys.
	assert.Equal(t, "2024-01-05", groups[0].PayoutDate)
	assert.Equal(t, "ukjent dato", groups[1].PayoutDate)
}

func TestGroupRangeUndecodableFallback(t *testing.T) {
	cols := []string{"Payout date", "Fra", "Til", "Netto"}
	rows := []map[string]string{
		{"Payout date": "2024-01-05", "Fra": "skift B", "Til": "slutt B", "Netto": "10"},
		{"Payout date": "2024-01-05", "Fra": "skift A", "Til": "slutt C", "Netto": "20"},
	}
	reversed := []map[string]string{rows[1], rows[0]}
	res := columns.Resolve(cols)

	ga := GroupByPayoutDate(tableOf(cols, rows...), res)
	gb := GroupByPayoutDate(tableOf(cols, reversed...), res)
	require.Len(t, ga, 1)
	require.Len(t, gb, 1)

	// Undecodable range values fall back to the lexicographic min and max
	// raw strings, so the displayed range ignores row order.
	assert.Equal(t, "skift A", ga[0].FromDate)
	assert.Equal(t, "slutt C", ga[0].ToDate)
	assert.Equal(t, ga[0].FromDate, gb[0].FromDate)
	assert.Equal(t, ga[0].ToDate, gb[0].ToDate)
}

func TestAggregationCommutesOverRowOrder(t *testing.T) {
	cols := []string{"Payout date", "Kontant", "Kreditt", "Netto", "Kort type"}
	rows := []map[string]string{
		{"Payout date": "2024-01-05", "Kontant": "10", "Kreditt": "1", "Netto": "9", "Kort type": "VISA"},
		{"Payout date": "2024-01-06", "Kontant": "20", "Kreditt": "2", "Netto": "18"},
		{"Payout date": "2024-01-05", "Kontant": "30", "Kreditt": "3", "Netto": "27", "Kort type": "VISA"},
	}
	reversed := []map[string]string{rows[2], rows[1], rows[0]}

	res := columns.Resolve(cols)
	a := tableOf(cols, rows...)
	b := tableOf(cols, reversed...)

	assert.Equal(t, ShiftSummary(a, res, 1), ShiftSummary(b, res, 1))

	// Group totals and order are row-order independent; only the member row
	// listing follows input order.
	ga := GroupByPayoutDate(a, res)
	gb := GroupByPayoutDate(b, res)
	require.Len(t, gb, len(ga))
	for i := range ga {
		ga[i].Rows, gb[i].Rows = nil, nil
	}
	assert.Equal(t, ga, gb)
}
