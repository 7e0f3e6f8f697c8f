package web

import (
	"net/http"
	"strings"

	"mandi-billing/internal/core"
)

// assistantInterpret handles POST /api/assistant/interpret. The response is
// either a transaction proposal awaiting confirmation or a clarification
// question; nothing is written until the operator commits.
func (h *Handler) assistantInterpret(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, r, "text is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.InterpretEntry(r.Context(), req.Text)
	if err != nil {
		writeError(w, r, err.Error(), "ASSISTANT_FAILED", http.StatusBadGateway)
		return
	}
	writeJSON(w, result)
}

// assistantCommit handles POST /api/assistant/commit — appends a proposal the
// operator has approved.
func (h *Handler) assistantCommit(w http.ResponseWriter, r *http.Request) {
	var input core.TransactionInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.svc.CommitProposal(r.Context(), input)
	if err != nil {
		writeError(w, r, err.Error(), "COMMIT_FAILED", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result)
}
