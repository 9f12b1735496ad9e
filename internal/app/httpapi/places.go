package httpapi

import (
	"net/http"
	"strings"

	"github.com/staynest/listing_layer/internal/app/facade"
	"github.com/staynest/listing_layer/internal/errors"
	"github.com/staynest/listing_layer/internal/middleware"
)

func (h *handler) places(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var payload facade.CreatePlaceInput
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		// Non-admins always create places under their own account.
		if !middleware.IsAdmin(r.Context()) || payload.OwnerID == "" {
			payload.OwnerID = middleware.GetUserID(r.Context())
		}
		created, err := h.app.Facade.CreatePlace(r.Context(), payload)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created.Record())

	case http.MethodGet:
		places, err := h.app.Facade.ListPlaces(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		records := make([]map[string]interface{}, 0, len(places))
		for _, p := range places {
			records = append(records, p.Record())
		}
		writeJSON(w, http.StatusOK, records)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) placeResource(w http.ResponseWriter, r *http.Request) {
	trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/places"), "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) == 0 || parts[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	placeID := parts[0]

	if len(parts) == 1 {
		h.placeByID(w, r, placeID)
		return
	}

	switch parts[1] {
	case "reviews":
		h.placeReviews(w, r, placeID)
	case "amenities":
		if len(parts) != 3 || parts[2] == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.placeAmenity(w, r, placeID, parts[2])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *handler) placeByID(w http.ResponseWriter, r *http.Request, placeID string) {
	switch r.Method {
	case http.MethodGet:
		detail, err := h.app.Facade.GetPlaceDetail(r.Context(), placeID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, placeDetailRecord(detail))

	case http.MethodPut:
		if ok := h.authorizePlaceWrite(w, r, placeID); !ok {
			return
		}
		var payload facade.UpdatePlaceInput
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		updated, err := h.app.Facade.UpdatePlace(r.Context(), placeID, payload)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated.Record())

	case http.MethodDelete:
		if ok := h.authorizePlaceWrite(w, r, placeID); !ok {
			return
		}
		if err := h.app.Facade.DeletePlace(r.Context(), placeID); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) placeReviews(w http.ResponseWriter, r *http.Request, placeID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	reviews, err := h.app.Facade.ListReviewsForPlace(r.Context(), placeID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	records := make([]map[string]interface{}, 0, len(reviews))
	for _, rv := range reviews {
		records = append(records, rv.Record())
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *handler) placeAmenity(w http.ResponseWriter, r *http.Request, placeID, amenityID string) {
	if ok := h.authorizePlaceWrite(w, r, placeID); !ok {
		return
	}

	switch r.Method {
	case http.MethodPut:
		p, err := h.app.Facade.AttachAmenity(r.Context(), placeID, amenityID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p.Record())

	case http.MethodDelete:
		p, err := h.app.Facade.DetachAmenity(r.Context(), placeID, amenityID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p.Record())

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// authorizePlaceWrite allows the place owner or an admin to mutate the
// place. The lookup happens first so a missing place reads as 404.
func (h *handler) authorizePlaceWrite(w http.ResponseWriter, r *http.Request, placeID string) bool {
	p, err := h.app.Facade.GetPlace(r.Context(), placeID)
	if err != nil {
		writeDomainError(w, err)
		return false
	}
	if !callerOwns(r, p.OwnerID) {
		writeDomainError(w, errors.Forbidden("not the owner of this place"))
		return false
	}
	return true
}

func placeDetailRecord(detail facade.PlaceDetail) map[string]interface{} {
	record := detail.Place.Record()
	record["owner"] = detail.Owner.Record()

	amenities := make([]map[string]interface{}, 0, len(detail.Amenities))
	for _, a := range detail.Amenities {
		amenities = append(amenities, a.Record())
	}
	record["amenities"] = amenities

	reviews := make([]map[string]interface{}, 0, len(detail.Reviews))
	for _, rv := range detail.Reviews {
		reviews = append(reviews, rv.Record())
	}
	record["reviews"] = reviews
	return record
}
