package web

import (
	"net/http"
	"strconv"

	"mandi-billing/internal/config"
	"mandi-billing/internal/core"

	"github.com/sirupsen/logrus"
)

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := core.TransactionFilter{
		Kind:     core.TransactionKind(q.Get("kind")),
		FromDate: q.Get("from"),
		ToDate:   q.Get("to"),
	}
	if p := q.Get("party_id"); p != "" {
		id, err := strconv.Atoi(p)
		if err != nil {
			writeError(w, r, "invalid party_id", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		filter.PartyID = id
	}

	result, err := h.svc.ListTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) appendTransaction(w http.ResponseWriter, r *http.Request) {
	var input core.TransactionInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.svc.AppendTransaction(r.Context(), input)
	if err != nil {
		writeError(w, r, err.Error(), "APPEND_FAILED", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result)
}

func (h *Handler) getSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, "invalid party id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	snapshot, err := h.svc.GetSnapshot(r.Context(), id)
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	if snapshot == nil {
		writeError(w, r, "snapshot not found", "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, snapshot)
}

func (h *Handler) adjustSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, "invalid party id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var adj core.SnapshotAdjustment
	if !decodeJSON(w, r, &adj) {
		return
	}
	if err := validate.Struct(adj); err != nil {
		writeError(w, r, err.Error(), "VALIDATION_FAILED", http.StatusBadRequest)
		return
	}

	snapshot, err := h.svc.AdjustSnapshot(r.Context(), id, adj)
	if err != nil {
		writeError(w, r, err.Error(), "ADJUST_FAILED", http.StatusBadRequest)
		return
	}

	// Manual adjustments bypass the transaction log, so leave a trace.
	fields := logrus.Fields{
		"party_id":   id,
		"reason":     adj.Reason,
		"request_id": requestIDFromContext(r.Context()),
	}
	if claims := authFromContext(r.Context()); claims != nil {
		fields["user_id"] = claims.UserID
	}
	config.Logger().WithFields(fields).Warn("snapshot manually adjusted")

	writeJSON(w, snapshot)
}
