package web

import (
	"net/http"

	"mandi-billing/internal/core"
)

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	h.listParties(w, r, core.RoleCustomer)
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	h.listParties(w, r, core.RoleSupplier)
}

func (h *Handler) listParties(w http.ResponseWriter, r *http.Request, role core.PartyRole) {
	result, err := h.svc.ListParties(r.Context(), role)
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	h.createParty(w, r, core.RoleCustomer)
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	h.createParty(w, r, core.RoleSupplier)
}

func (h *Handler) createParty(w http.ResponseWriter, r *http.Request, role core.PartyRole) {
	var input core.PartyInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if err := validate.Struct(input); err != nil {
		writeError(w, r, err.Error(), "VALIDATION_FAILED", http.StatusBadRequest)
		return
	}

	result, err := h.svc.CreateParty(r.Context(), role, input)
	if err != nil {
		writeError(w, r, err.Error(), "CREATE_FAILED", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	h.updateParty(w, r, core.RoleCustomer)
}

func (h *Handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	h.updateParty(w, r, core.RoleSupplier)
}

func (h *Handler) updateParty(w http.ResponseWriter, r *http.Request, role core.PartyRole) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, "invalid party id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var input core.PartyInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if err := validate.Struct(input); err != nil {
		writeError(w, r, err.Error(), "VALIDATION_FAILED", http.StatusBadRequest)
		return
	}

	result, err := h.svc.UpdateParty(r.Context(), role, id, input)
	if err != nil {
		writeError(w, r, err.Error(), "UPDATE_FAILED", http.StatusBadRequest)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) deactivateCustomer(w http.ResponseWriter, r *http.Request) {
	h.deactivateParty(w, r, core.RoleCustomer)
}

func (h *Handler) deactivateSupplier(w http.ResponseWriter, r *http.Request) {
	h.deactivateParty(w, r, core.RoleSupplier)
}

func (h *Handler) deactivateParty(w http.ResponseWriter, r *http.Request, role core.PartyRole) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, "invalid party id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeactivateParty(r.Context(), role, id); err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getParty(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, "invalid party id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.GetParty(r.Context(), id)
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	if result.Party == nil {
		writeError(w, r, "party not found", "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result)
}
