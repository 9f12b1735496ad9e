package httpapi

import (
	"net/http"
	"strings"

	"github.com/staynest/listing_layer/internal/app/facade"
)

func (h *handler) users(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		if !requireAdmin(w, r) {
			return
		}
		var payload facade.CreateUserInput
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		created, err := h.app.Facade.CreateUser(r.Context(), payload)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created.Record())

	case http.MethodGet:
		if !requireAdmin(w, r) {
			return
		}
		users, err := h.app.Facade.ListUsers(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		records := make([]map[string]interface{}, 0, len(users))
		for _, u := range users {
			records = append(records, u.Record())
		}
		writeJSON(w, http.StatusOK, records)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) userResource(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/users"), "/")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if !callerOwns(r, id) {
			if !requireAdmin(w, r) {
				return
			}
		}
		u, err := h.app.Facade.GetUser(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, u.Record())

	case http.MethodPut:
		if !callerOwns(r, id) {
			if !requireAdmin(w, r) {
				return
			}
		}
		var payload facade.UpdateUserInput
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		updated, err := h.app.Facade.UpdateUser(r.Context(), id, payload)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated.Record())

	case http.MethodDelete:
		if !requireAdmin(w, r) {
			return
		}
		if err := h.app.Facade.DeleteUser(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
