package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vosstaxi/taxirapport/internal/domain"
	"github.com/vosstaxi/taxirapport/internal/ingest"
	"github.com/vosstaxi/taxirapport/internal/report"
	"github.com/vosstaxi/taxirapport/internal/repository"
	"github.com/vosstaxi/taxirapport/internal/tabular"
)

const maxUploadMemory = 32 << 20

// formFiles collects every uploaded file from the "files" and "file"
// multipart fields, in form order.
func formFiles(r *http.Request) ([]tabular.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var files []tabular.File
	for _, field := range []string{"files", "file"} {
		for _, fh := range r.MultipartForm.File[field] {
			f, err := fh.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
			}
			files = append(files, tabular.File{Name: fh.Filename, Data: data})
		}
	}
	return files, nil
}

// hasHeaderField reads the has_header form value; the header row is assumed
// present unless the form explicitly says otherwise.
func hasHeaderField(r *http.Request) bool {
	return r.FormValue("has_header") != "false"
}

// writeUploadError maps ingest failures: selection problems are the
// caller's fault (400), a missing driver is 404, a batch that parsed to zero
// rows is 422. The per-file errors collected before the batch gave up ride
// along in the body, so the user sees which files failed and why. Nothing
// was persisted on any of these paths.
func writeUploadError(w http.ResponseWriter, err error, fileErrs []tabular.FileError) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ingest.ErrNoFiles), errors.Is(err, ingest.ErrNoDriver):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "driver not found")
		return
	case errors.Is(err, tabular.ErrNoRows):
		status = http.StatusUnprocessableEntity
	}
	body := map[string]any{"error": err.Error()}
	if len(fileErrs) > 0 {
		body["file_errors"] = fileErrs
	}
	writeJSON(w, status, body)
}

// --- uploads ---

func (h *Handlers) CreateShiftReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	files, err := formFiles(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, fileErrs, err := h.ingestSvc.CreateShiftReport(r.Context(), files, r.FormValue("driver_id"), hasHeaderField(r))
	if err != nil {
		writeUploadError(w, err, fileErrs)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"report": rep, "file_errors": fileErrs})
}

func (h *Handlers) CreateSalaryReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	files, err := formFiles(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, fileErrs, err := h.ingestSvc.CreateSalaryReport(r.Context(), files,
		r.FormValue("driver_id"), r.FormValue("report_period"), hasHeaderField(r))
	if err != nil {
		writeUploadError(w, err, fileErrs)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"report": rep, "file_errors": fileErrs})
}

func (h *Handlers) CreateTransactionReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	files, err := formFiles(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	info := domain.AccountInfo{
		KontoID:     r.FormValue("konto_id"),
		InnehaverID: r.FormValue("innehaver_id"),
		Fornavn:     r.FormValue("fornavn"),
		Etternavn:   r.FormValue("etternavn"),
		Firmanavn:   r.FormValue("firmanavn"),
		Markedsnavn: r.FormValue("markedsnavn"),
		Telefon:     r.FormValue("telefon"),
		Email:       r.FormValue("email"),
		Adresse:     r.FormValue("adresse"),
	}

	rep, fileErrs, err := h.ingestSvc.CreateTransactionReport(r.Context(), files, info, r.FormValue("report_month"))
	if err != nil {
		writeUploadError(w, err, fileErrs)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"report": rep, "file_errors": fileErrs})
}

func (h *Handlers) ParseUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	files, err := formFiles(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	preview, fileErrs, err := h.ingestSvc.ParsePreview(r.Context(), files, hasHeaderField(r))
	if err != nil {
		writeUploadError(w, err, fileErrs)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// --- listing / retrieval / deletion ---

func (h *Handlers) ListShiftReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.shiftReports.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (h *Handlers) GetShiftReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.shiftReports.GetByID(urlID(r))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handlers) DeleteShiftReport(w http.ResponseWriter, r *http.Request) {
	if err := h.shiftReports.Delete(urlID(r)); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListSalaryReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.salaryReports.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (h *Handlers) GetSalaryReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.salaryReports.GetByID(urlID(r))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handlers) DeleteSalaryReport(w http.ResponseWriter, r *http.Request) {
	if err := h.salaryReports.Delete(urlID(r)); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListTransactionReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.txReports.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (h *Handlers) GetTransactionReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.txReports.GetByID(urlID(r))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handlers) DeleteTransactionReport(w http.ResponseWriter, r *http.Request) {
	if err := h.txReports.Delete(urlID(r)); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- shift report edits ---

// CreateShiftEdit appends a correction entry to a shift report's audit
// trail. The report's stored data and summary are left untouched.
func (h *Handlers) CreateShiftEdit(w http.ResponseWriter, r *http.Request) {
	rep, err := h.shiftReports.GetByID(urlID(r))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	var edit domain.ShiftEdit
	if err := decodeJSON(r, &edit); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if edit.ColumnName == "" {
		writeError(w, http.StatusBadRequest, "column_name is required")
		return
	}
	if edit.RowIndex < 0 || edit.RowIndex >= len(rep.Data) {
		writeError(w, http.StatusBadRequest, "row_index out of range")
		return
	}

	edit.ID = uuid.NewString()
	edit.ReportID = rep.ID
	edit.CreatedAt = time.Now().UTC()
	if err := h.shiftEdits.Insert(&edit); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, edit)
}

func (h *Handlers) ListShiftEdits(w http.ResponseWriter, r *http.Request) {
	if _, err := h.shiftReports.GetByID(urlID(r)); err != nil {
		writeRepoError(w, err)
		return
	}
	edits, err := h.shiftEdits.ListByReport(urlID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"edits": edits})
}

// --- PDF downloads ---

// reportDriver looks up the driver attached to a report; a blank id means no
// driver was selected at upload time.
func (h *Handlers) reportDriver(id string) *domain.Driver {
	if id == "" {
		return nil
	}
	d, err := h.drivers.GetByID(id)
	if err != nil {
		return nil
	}
	return d
}

// letterheadCompany returns the first registered company for the report
// header, or nil when none exists.
func (h *Handlers) letterheadCompany() *domain.Company {
	companies, err := h.companies.List()
	if err != nil || len(companies) == 0 {
		return nil
	}
	return &companies[0]
}

func writePDF(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handlers) ShiftReportPDF(w http.ResponseWriter, r *http.Request) {
	rep, err := h.shiftReports.GetByID(urlID(r))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	driver := h.reportDriver(rep.DriverID)

	data, err := h.builder.ShiftPDF(rep, driver, h.letterheadCompany())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	subject := ""
	if driver != nil {
		subject = driver.Name
	}
	writePDF(w, report.FileName(report.KindShift, subject, "", rep.CreatedAt), data)
}

func (h *Handlers) SalaryReportPDF(w http.ResponseWriter, r *http.Request) {
	rep, err := h.salaryReports.GetByID(urlID(r))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	driver := h.reportDriver(rep.DriverID)

	data, err := h.builder.SalaryPDF(rep, driver, h.letterheadCompany())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	subject := ""
	if driver != nil {
		subject = driver.Name
	}
	writePDF(w, report.FileName(report.KindSalary, subject, rep.ReportPeriod, rep.CreatedAt), data)
}

func (h *Handlers) TransactionReportPDF(w http.ResponseWriter, r *http.Request) {
	rep, err := h.txReports.GetByID(urlID(r))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	data, err := h.builder.TransactionPDF(rep)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	subject := rep.AccountInfo.Markedsnavn
	if subject == "" {
		subject = rep.AccountInfo.Firmanavn
	}
	writePDF(w, report.FileName(report.KindTransaction, subject, rep.ReportMonth, rep.CreatedAt), data)
}
