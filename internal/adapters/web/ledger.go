package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"mandi-billing/internal/core"

	"github.com/xuri/excelize/v2"
)

// getLedger handles GET /api/parties/{id}/ledger?from&to.
// format=csv streams the statement as CSV, format=xlsx as a spreadsheet;
// the default is JSON. Entries arrive most recent day first.
func (h *Handler) getLedger(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, "invalid party id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	q := r.URL.Query()

	stmt, err := h.svc.GetLedger(r.Context(), id, q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	switch q.Get("format") {
	case "csv":
		h.writeLedgerCSV(w, stmt)
	case "xlsx":
		h.writeLedgerXLSX(w, r, stmt)
	default:
		writeJSON(w, stmt)
	}
}

func ledgerFilename(stmt *core.LedgerStatement, ext string) string {
	name := strings.ReplaceAll(strings.TrimSpace(stmt.PartyName), " ", "-")
	if name == "" {
		name = "ledger"
	}
	return name + "-ledger." + ext
}

// writeLedgerCSV streams the statement with one row per day plus a summary row.
// The outflow cell carries the payment methods seen that day.
func (h *Handler) writeLedgerCSV(w http.ResponseWriter, stmt *core.LedgerStatement) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ledgerFilename(stmt, "csv")+`"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Date", "Opening Balance", "Inflow", "Outflow", "Closing Balance"})
	for _, e := range stmt.Entries {
		outflow := e.Outflow.StringFixed(2)
		if len(e.PaymentMethods) > 0 {
			outflow += " (" + strings.Join(e.PaymentMethods, ", ") + ")"
		}
		_ = cw.Write([]string{
			e.Date,
			e.Opening.StringFixed(2),
			e.Inflow.StringFixed(2),
			csvSafe(outflow),
			e.Closing.StringFixed(2),
		})
	}
	_ = cw.Write([]string{
		"Summary",
		stmt.OpeningBalance.StringFixed(2),
		stmt.TotalIn.StringFixed(2),
		stmt.TotalOut.StringFixed(2),
		stmt.ClosingBalance.StringFixed(2),
	})
	cw.Flush()
}

// writeLedgerXLSX streams the statement as an Excel workbook.
func (h *Handler) writeLedgerXLSX(w http.ResponseWriter, r *http.Request, stmt *core.LedgerStatement) {
	f := excelize.NewFile()
	const sheet = "Ledger"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		writeError(w, r, err.Error(), "EXPORT_FAILED", http.StatusInternalServerError)
		return
	}

	headers := []string{"Date", "Opening Balance", "Inflow", "Outflow", "Payment Methods", "Closing Balance"}
	for i, hdr := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, hdr)
	}

	for i, e := range stmt.Entries {
		row := i + 2
		values := []any{
			e.Date,
			e.Opening.StringFixed(2),
			e.Inflow.StringFixed(2),
			e.Outflow.StringFixed(2),
			strings.Join(e.PaymentMethods, ", "),
			e.Closing.StringFixed(2),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	summaryRow := len(stmt.Entries) + 2
	summary := []any{
		"Summary",
		stmt.OpeningBalance.StringFixed(2),
		stmt.TotalIn.StringFixed(2),
		stmt.TotalOut.StringFixed(2),
		"",
		stmt.ClosingBalance.StringFixed(2),
	}
	for col, v := range summary {
		cell, _ := excelize.CoordinatesToCellName(col+1, summaryRow)
		_ = f.SetCellValue(sheet, cell, v)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ledgerFilename(stmt, "xlsx")+`"`)
	if err := f.Write(w); err != nil {
		http.Error(w, fmt.Sprintf("failed to write file: %v", err), http.StatusInternalServerError)
	}
}

// csvSafe prevents CSV formula injection by prefixing cells that begin with a
// formula-triggering character with a single quote.
func csvSafe(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
