package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vosstaxi/taxirapport/internal/domain"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 60)
	got := Truncate(long, 50)
	assert.Len(t, got, 50)
	assert.Equal(t, strings.Repeat("x", 47)+"...", got)

	got = Truncate(strings.Repeat("y", 25), 20)
	assert.Len(t, got, 20)
	assert.Equal(t, strings.Repeat("y", 17)+"...", got)

	// At or under the cap the value passes through untouched.
	assert.Equal(t, "short", Truncate("short", 20))
	assert.Equal(t, strings.Repeat("z", 20), Truncate(strings.Repeat("z", 20), 20))
}

func TestTruncateMultibyte(t *testing.T) {
	s := strings.Repeat("ø", 30)
	got := Truncate(s, 20)
	assert.Equal(t, strings.Repeat("ø", 17)+"...", got)
}

func TestFileName(t *testing.T) {
	fallback := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "skiftrapport_Ola_Nordmann_2024-03-15.pdf",
		FileName(KindShift, "Ola Nordmann", "", fallback))
	assert.Equal(t, "lonnsrapport_Kari_2024-02.pdf",
		FileName(KindSalary, "Kari", "2024-02", fallback))
	assert.Equal(t, "oppgjorsrapport_unknown_2024-03-15.pdf",
		FileName(KindTransaction, "", "", fallback))

	// Path and header characters are stripped.
	assert.Equal(t, "skiftrapport_ab_x.pdf", FileName(KindShift, `a/b:"`, "x", fallback))
}

func TestShiftPDF(t *testing.T) {
	b := &Builder{Now: fixedNow}
	rep := &domain.ShiftReport{
		ID:       "r1",
		FileName: "skift.dat",
		Columns:  []string{"Dato", "Kontant", "Kreditt"},
		Data: []map[string]string{
			{"Dato": "2024-01-05", "Kontant": "100", "Kreditt": "50"},
		},
		Summary:   domain.ShiftSummary{TotalKontant: 100, TotalKreditt: 50, GrandTotal: 150, RowCount: 1},
		CreatedAt: fixedNow(),
	}
	driver := &domain.Driver{Name: "Ola Nordmann", DriverID: "0042"}
	company := &domain.Company{Name: "Voss Taxi AS", OrgNumber: "987654321"}

	data, err := b.ShiftPDF(rep, driver, company)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestSalaryPDFWithoutDriver(t *testing.T) {
	b := &Builder{Now: fixedNow}
	rep := &domain.SalaryReport{
		ID:           "r2",
		ReportPeriod: "2024-02",
		Columns:      []string{"Lønn", "Skatt", "Netto"},
		Data:         []map[string]string{{"Lønn": "30000", "Skatt": "9000", "Netto": "22000"}},
		Summary:      domain.SalarySummary{TotalLonn: 30000, TotalSkatt: 9000, TotalNetto: 22000, FileCount: 1, RowCount: 1},
		CreatedAt:    fixedNow(),
	}

	data, err := b.SalaryPDF(rep, nil, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestTransactionPDF(t *testing.T) {
	b := &Builder{Now: fixedNow}
	rep := &domain.TransactionReport{
		ID:          "r3",
		ReportMonth: "2024-01",
		AccountInfo: domain.AccountInfo{Firmanavn: "Voss Taxi AS", KontoID: "K-1"},
		Groups: []domain.PayoutGroup{
			{
				PayoutDate: "2024-01-05",
				FromDate:   "04.01.2024 08:00",
				ToDate:     "04.01.2024 16:00",
				Brutto:     100, Avgifter: 10, Netto: 90,
				CardTypes: map[string]float64{"VISA": 60, "UNKNOWN": 30},
			},
			{PayoutDate: "2024-01-06", Brutto: 50, Avgifter: 5, Netto: 45,
				CardTypes: map[string]float64{"Mastercard": 45}},
		},
		TotalBrutto: 150, TotalAvgifter: 15, TotalNetto: 135,
		CreatedAt: fixedNow(),
	}

	data, err := b.TransactionPDF(rep)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestShiftPDFManyColumnsAndRows(t *testing.T) {
	// More than ten columns and enough rows to spill onto a second page.
	cols := make([]string, 14)
	row := map[string]string{}
	for i := range cols {
		cols[i] = strings.Repeat("k", i+15)
		row[cols[i]] = strings.Repeat("v", 60)
	}
	data := make([]map[string]string, 80)
	for i := range data {
		data[i] = row
	}

	b := &Builder{Now: fixedNow}
	rep := &domain.ShiftReport{ID: "r4", FileName: "big.csv", Columns: cols, Data: data, CreatedAt: fixedNow()}

	out, err := b.ShiftPDF(rep, nil, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}
