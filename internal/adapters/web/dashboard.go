package web

import "net/http"

// dailySummary handles GET /api/summary/daily?from&to.
func (h *Handler) dailySummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.GetDailySummaries(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

// reconciliation handles GET /api/reconciliation — reports parties whose
// snapshot due amount drifted from the transaction log.
func (h *Handler) reconciliation(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Reconcile(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}
