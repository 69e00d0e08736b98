// Package report renders persisted report records to paginated A4 PDF
// documents: a title, a metadata block, the summary figures and the row data
// as bordered tables with repeated headers and localized page footers.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/vosstaxi/taxirapport/internal/domain"
)

const (
	// Display caps for table rendering. Content beyond a cap is cut and the
	// tail replaced with the ellipsis marker inside the cap, so a truncated
	// header shows 17 visible characters and a truncated cell 47.
	maxHeaderLen = 20
	maxCellLen   = 50
	ellipsis     = "..."

	// Tables print at most the first columns of the upload; anything past
	// this is dropped from the PDF (the full data stays on the record).
	maxTableColumns = 10
)

// Builder renders report PDFs. The zero value is ready to use; Now is
// replaceable in tests to pin the generation timestamp.
type Builder struct {
	Now func() time.Time
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// Truncate caps s at max characters, replacing the cut tail with "..." so
// the rendered width never exceeds the cap.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-len(ellipsis)]) + ellipsis
}

// newDoc creates a page with the shared footer ("Side X av Y") and a cp1252
// translator for the Norwegian labels.
func newDoc(orientation string) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New(orientation, "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Side %d av {nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	return pdf, tr
}

func (b *Builder) output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// companyBlock prints the company letterhead when company data exists.
func companyBlock(pdf *fpdf.Fpdf, tr func(string) string, company *domain.Company) {
	if company == nil || company.Name == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 7, tr(company.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if company.OrgNumber != "" {
		pdf.CellFormat(0, 6, tr("Org.nr: "+company.OrgNumber), "", 1, "L", false, 0, "")
	}
	if company.Address != "" {
		pdf.CellFormat(0, 6, tr(company.Address), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func metaLine(pdf *fpdf.Fpdf, tr func(string) string, label, value string) {
	if value == "" {
		return
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, tr(label+": "+value), "", 1, "L", false, 0, "")
}

func summaryLine(pdf *fpdf.Fpdf, tr func(string) string, label string, amount float64) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s: %.2f kr", label, amount)), "", 1, "L", false, 0, "")
}

// renderTable prints the row data restricted to the first columns, with the
// header row repeated at the top of every page the table spills onto.
func renderTable(pdf *fpdf.Fpdf, tr func(string) string, cols []string, rows []map[string]string) {
	if len(cols) == 0 || len(rows) == 0 {
		return
	}
	if len(cols) > maxTableColumns {
		cols = cols[:maxTableColumns]
	}

	pageW, pageH := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(cols))
	limitY := pageH - bottom - 12

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(240, 240, 240)
		for _, c := range cols {
			pdf.CellFormat(colW, 7, tr(Truncate(c, maxHeaderLen)), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}

	header()
	for _, row := range rows {
		if pdf.GetY() > limitY {
			pdf.AddPage()
			header()
		}
		for _, c := range cols {
			pdf.CellFormat(colW, 6, tr(Truncate(row[c], maxCellLen)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// ShiftPDF renders a shift report: summary block plus one flat table over
// the uploaded rows.
func (b *Builder) ShiftPDF(rep *domain.ShiftReport, driver *domain.Driver, company *domain.Company) ([]byte, error) {
	pdf, tr := newDoc("L")
	companyBlock(pdf, tr, company)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Skiftrapport"), "", 1, "L", false, 0, "")

	metaLine(pdf, tr, "Fil", rep.FileName)
	if driver != nil {
		metaLine(pdf, tr, "Sjåfør", fmt.Sprintf("%s (%s)", driver.Name, driver.DriverID))
	}
	metaLine(pdf, tr, "Opprettet", rep.CreatedAt.Format("02.01.2006"))
	metaLine(pdf, tr, "Generert", b.now().Format("02.01.2006 15:04"))
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Sammendrag:"), "", 1, "L", false, 0, "")
	summaryLine(pdf, tr, "Total Kontant", rep.Summary.TotalKontant)
	summaryLine(pdf, tr, "Total Kreditt", rep.Summary.TotalKreditt)
	summaryLine(pdf, tr, "Total Bomtur", rep.Summary.TotalBomtur)
	summaryLine(pdf, tr, "Totalt", rep.Summary.GrandTotal)
	pdf.Ln(5)

	renderTable(pdf, tr, rep.Columns, rep.Data)

	return b.output(pdf)
}

// SalaryPDF renders a salary report. The net figure printed is the
// independently summed netto column, not lønn minus skatt.
func (b *Builder) SalaryPDF(rep *domain.SalaryReport, driver *domain.Driver, company *domain.Company) ([]byte, error) {
	pdf, tr := newDoc("L")
	companyBlock(pdf, tr, company)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Lønnsrapport"), "", 1, "L", false, 0, "")

	if driver != nil {
		metaLine(pdf, tr, "Sjåfør", fmt.Sprintf("%s (%s)", driver.Name, driver.DriverID))
		metaLine(pdf, tr, "Provisjon", fmt.Sprintf("%.0f%%", driver.CommissionPercentage))
	}
	metaLine(pdf, tr, "Periode", rep.ReportPeriod)
	metaLine(pdf, tr, "Opprettet", rep.CreatedAt.Format("02.01.2006"))
	metaLine(pdf, tr, "Generert", b.now().Format("02.01.2006 15:04"))
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Sammendrag:"), "", 1, "L", false, 0, "")
	summaryLine(pdf, tr, "Total lønn", rep.Summary.TotalLonn)
	summaryLine(pdf, tr, "Total skatt", rep.Summary.TotalSkatt)
	summaryLine(pdf, tr, "Netto lønn", rep.Summary.TotalNetto)
	summaryLine(pdf, tr, "Tips", rep.Summary.TotalTips)
	pdf.Ln(5)

	renderTable(pdf, tr, rep.Columns, rep.Data)

	return b.output(pdf)
}

// TransactionPDF renders a settlement report: the account metadata block
// followed by one section per payout day, each with its totals row and a
// card-type breakdown.
func (b *Builder) TransactionPDF(rep *domain.TransactionReport) ([]byte, error) {
	pdf, tr := newDoc("P")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr("Oppgjørsrapport"), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	accountInfoBlock(pdf, tr, rep.AccountInfo)
	metaLine(pdf, tr, "Rapportmåned", rep.ReportMonth)
	metaLine(pdf, tr, "Generert", b.now().Format("02.01.2006 15:04"))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Sammendrag:"), "", 1, "L", false, 0, "")
	summaryLine(pdf, tr, "Total Brutto", rep.TotalBrutto)
	summaryLine(pdf, tr, "Total Avgifter", rep.TotalAvgifter)
	summaryLine(pdf, tr, "Total Netto", rep.TotalNetto)
	pdf.Ln(4)

	for _, group := range rep.Groups {
		groupSection(pdf, tr, group)
	}

	return b.output(pdf)
}

func accountInfoBlock(pdf *fpdf.Fpdf, tr func(string) string, info domain.AccountInfo) {
	pdf.SetFont("Helvetica", "", 9)
	pairs := [][2]string{
		{"Konto ID", info.KontoID},
		{"Innehaver ID", info.InnehaverID},
		{"Fornavn", info.Fornavn},
		{"Etternavn", info.Etternavn},
		{"Firmanavn", info.Firmanavn},
		{"Markedsnavn", info.Markedsnavn},
		{"Telefon", info.Telefon},
		{"Email", info.Email},
		{"Adresse", info.Adresse},
	}
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		pdf.CellFormat(35, 5, tr(p[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, tr(p[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
}

var groupHeader = []string{"Payout Date", "Fra", "Til", "Val", "Brutto", "Avgifter", "Netto utbetalt"}

func groupSection(pdf *fpdf.Fpdf, tr func(string) string, g domain.PayoutGroup) {
	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY() > pageH-bottom-50 {
		pdf.AddPage()
	}

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(groupHeader))

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(240, 240, 240)
	for _, h := range groupHeader {
		pdf.CellFormat(colW, 7, tr(Truncate(h, maxHeaderLen)), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	cells := []string{
		g.PayoutDate,
		orDash(g.FromDate),
		orDash(g.ToDate),
		"NOK",
		fmt.Sprintf("%.2f", g.Brutto),
		fmt.Sprintf("%.2f", g.Avgifter),
		fmt.Sprintf("%.2f", g.Netto),
	}
	for i, c := range cells {
		align := "L"
		if i >= 4 {
			align = "R"
		}
		pdf.CellFormat(colW, 6, tr(Truncate(c, maxCellLen)), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	if len(g.CardTypes) > 0 {
		pdf.Ln(1)
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(colW, 6, tr("Kort typer"), "", 0, "L", false, 0, "")
		pdf.CellFormat(colW, 6, tr("Netto"), "", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		for _, card := range sortedCardTypes(g.CardTypes) {
			pdf.CellFormat(colW, 5, tr(Truncate(card, maxCellLen)), "", 0, "L", false, 0, "")
			pdf.CellFormat(colW, 5, fmt.Sprintf("%.2f", g.CardTypes[card]), "", 1, "R", false, 0, "")
		}
	}
	pdf.Ln(4)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
