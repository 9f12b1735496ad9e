package httpapi

import (
	"net/http"
	"strings"

	"github.com/staynest/listing_layer/internal/app/facade"
)

func (h *handler) amenities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		if !requireAdmin(w, r) {
			return
		}
		var payload facade.CreateAmenityInput
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		created, err := h.app.Facade.CreateAmenity(r.Context(), payload)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created.Record())

	case http.MethodGet:
		amenities, err := h.app.Facade.ListAmenities(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		records := make([]map[string]interface{}, 0, len(amenities))
		for _, a := range amenities {
			records = append(records, a.Record())
		}
		writeJSON(w, http.StatusOK, records)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) amenityResource(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/amenities"), "/")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		a, err := h.app.Facade.GetAmenity(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a.Record())

	case http.MethodPut:
		if !requireAdmin(w, r) {
			return
		}
		var payload facade.UpdateAmenityInput
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		updated, err := h.app.Facade.UpdateAmenity(r.Context(), id, payload)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated.Record())

	case http.MethodDelete:
		if !requireAdmin(w, r) {
			return
		}
		if err := h.app.Facade.DeleteAmenity(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
