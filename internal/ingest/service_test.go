package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vosstaxi/taxirapport/internal/domain"
	"github.com/vosstaxi/taxirapport/internal/repository"
	"github.com/vosstaxi/taxirapport/internal/tabular"
)

func testService(t *testing.T) (*Service, *repository.DriverRepo) {
	t.Helper()
	db, err := repository.InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	drivers := repository.NewDriverRepo(db)
	svc := NewService(
		drivers,
		repository.NewShiftReportRepo(db),
		repository.NewSalaryReportRepo(db),
		repository.NewTransactionReportRepo(db),
	)
	svc.Now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	return svc, drivers
}

func seedDriver(t *testing.T, drivers *repository.DriverRepo) string {
	t.Helper()
	d := &domain.Driver{ID: "d1", Name: "Ola Nordmann", DriverID: "0042",
		CommissionPercentage: 45, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	require.NoError(t, drivers.Insert(d))
	return d.ID
}

func TestCreateShiftReport(t *testing.T) {
	svc, drivers := testService(t)
	driverID := seedDriver(t, drivers)

	files := []tabular.File{
		{Name: "skift.dat", Data: []byte("Dato;Kontant;Kreditt;Kreditt Utlegg\n2024-01-05;100;50;999\n2024-01-06;25;abc;1\n")},
	}
	rep, fileErrs, err := svc.CreateShiftReport(context.Background(), files, driverID, true)
	require.NoError(t, err)
	assert.Empty(t, fileErrs)

	assert.Equal(t, 125.0, rep.Summary.TotalKontant)
	assert.Equal(t, 50.0, rep.Summary.TotalKreditt)
	assert.Equal(t, 175.0, rep.Summary.GrandTotal)
	assert.Equal(t, 1, rep.Summary.FileCount)
	assert.Equal(t, 2, rep.Summary.RowCount)
	assert.Equal(t, driverID, rep.DriverID)
	assert.NotEmpty(t, rep.ID)

	// A second upload creates a distinct record rather than amending.
	second, _, err := svc.CreateShiftReport(context.Background(), files, "", true)
	require.NoError(t, err)
	assert.NotEqual(t, rep.ID, second.ID)
}

func TestCreateShiftReportValidation(t *testing.T) {
	svc, _ := testService(t)

	_, _, err := svc.CreateShiftReport(context.Background(), nil, "", true)
	assert.ErrorIs(t, err, ErrNoFiles)

	files := []tabular.File{{Name: "a.csv", Data: []byte("Kontant\n1\n")}}
	_, _, err = svc.CreateShiftReport(context.Background(), files, "ghost", true)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateShiftReportNoRowsPersistsNothing(t *testing.T) {
	svc, _ := testService(t)

	files := []tabular.File{{Name: "empty.csv", Data: []byte("Kontant;Kreditt\n")}}
	_, _, err := svc.CreateShiftReport(context.Background(), files, "", true)
	assert.ErrorIs(t, err, tabular.ErrNoRows)

	_, _, err = svc.ParsePreview(context.Background(), files, true)
	assert.ErrorIs(t, err, tabular.ErrNoRows)
}

func TestCreateShiftReportAllFilesBadKeepsFileErrors(t *testing.T) {
	svc, _ := testService(t)

	// A batch where every file fails still names the offenders.
	files := []tabular.File{{Name: "odelagt.xlsx", Data: []byte("ikke et regneark")}}
	_, fileErrs, err := svc.CreateShiftReport(context.Background(), files, "", true)
	assert.ErrorIs(t, err, tabular.ErrNoRows)
	require.Len(t, fileErrs, 1)
	assert.Equal(t, "odelagt.xlsx", fileErrs[0].FileName)

	_, fileErrs, err = svc.ParsePreview(context.Background(), files, true)
	assert.ErrorIs(t, err, tabular.ErrNoRows)
	require.Len(t, fileErrs, 1)
	assert.Equal(t, "odelagt.xlsx", fileErrs[0].FileName)
}

func TestCreateSalaryReport(t *testing.T) {
	svc, drivers := testService(t)
	driverID := seedDriver(t, drivers)

	files := []tabular.File{
		{Name: "uke1.csv", Data: []byte("Lønn;Skatt;Netto\n15000;4500;11000\n")},
		{Name: "uke2.csv", Data: []byte("Lønn;Skatt;Netto\n16000;4800;11700\n")},
	}
	rep, fileErrs, err := svc.CreateSalaryReport(context.Background(), files, driverID, "2024-02", true)
	require.NoError(t, err)
	assert.Empty(t, fileErrs)

	assert.Equal(t, []string{"uke1.csv", "uke2.csv"}, rep.FileNames)
	assert.Equal(t, 31000.0, rep.Summary.TotalLonn)
	assert.Equal(t, 9300.0, rep.Summary.TotalSkatt)
	assert.Equal(t, 22700.0, rep.Summary.TotalNetto)
	assert.Equal(t, 2, rep.Summary.FileCount)
	assert.Equal(t, "2024-02", rep.ReportPeriod)
}

func TestCreateSalaryReportRequiresDriver(t *testing.T) {
	svc, _ := testService(t)
	files := []tabular.File{{Name: "a.csv", Data: []byte("Lønn\n100\n")}}
	_, _, err := svc.CreateSalaryReport(context.Background(), files, "", "2024-02", true)
	assert.ErrorIs(t, err, ErrNoDriver)
}

func TestCreateTransactionReport(t *testing.T) {
	svc, _ := testService(t)

	data := []byte("Payout date;Brutto;Avgifter;Netto;Kort type\n" +
		"2024-01-05;100;10;90;VISA\n" +
		"2024-01-06;50;5;45;\n")
	files := []tabular.File{{Name: "trans.csv", Data: data}}
	info := domain.AccountInfo{Firmanavn: "Voss Taxi AS"}

	rep, fileErrs, err := svc.CreateTransactionReport(context.Background(), files, info, "2024-01")
	require.NoError(t, err)
	assert.Empty(t, fileErrs)

	require.Len(t, rep.Groups, 2)
	assert.Equal(t, 150.0, rep.TotalBrutto)
	assert.Equal(t, 15.0, rep.TotalAvgifter)
	assert.Equal(t, 135.0, rep.TotalNetto)
	assert.Equal(t, map[string]float64{"UNKNOWN": 45}, rep.Groups[1].CardTypes)
	assert.Equal(t, "2024-01", rep.ReportMonth)
	assert.Equal(t, info, rep.AccountInfo)
}

func TestParsePreview(t *testing.T) {
	svc, _ := testService(t)

	files := []tabular.File{{Name: "a.csv", Data: []byte("Kontant;Kreditt\n1;2\n3;4\n")}}
	preview, fileErrs, err := svc.ParsePreview(context.Background(), files, true)
	require.NoError(t, err)
	assert.Empty(t, fileErrs)

	assert.Equal(t, []string{"Kontant", "Kreditt"}, preview.Columns)
	assert.Equal(t, 2, preview.RowCount)
	require.Len(t, preview.Rows, 2)
	assert.Equal(t, "1", preview.Rows[0]["Kontant"])
}
