package httpapi

import (
	"net/http"
	"strings"

	"github.com/staynest/listing_layer/internal/app/facade"
	"github.com/staynest/listing_layer/internal/errors"
	"github.com/staynest/listing_layer/internal/middleware"
)

func (h *handler) reviews(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var payload facade.CreateReviewInput
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		// Reviews are always written in the caller's name.
		payload.UserID = middleware.GetUserID(r.Context())
		created, err := h.app.Facade.CreateReview(r.Context(), payload)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created.Record())

	case http.MethodGet:
		reviews, err := h.app.Facade.ListReviews(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		records := make([]map[string]interface{}, 0, len(reviews))
		for _, rv := range reviews {
			records = append(records, rv.Record())
		}
		writeJSON(w, http.StatusOK, records)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) reviewResource(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/reviews"), "/")
	if id == "" || strings.Contains(id, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		rv, err := h.app.Facade.GetReview(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rv.Record())

	case http.MethodPut:
		if ok := h.authorizeReviewWrite(w, r, id); !ok {
			return
		}
		var payload facade.UpdateReviewInput
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		updated, err := h.app.Facade.UpdateReview(r.Context(), id, payload)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated.Record())

	case http.MethodDelete:
		if ok := h.authorizeReviewWrite(w, r, id); !ok {
			return
		}
		if err := h.app.Facade.DeleteReview(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// authorizeReviewWrite allows the review author or an admin to mutate
// the review.
func (h *handler) authorizeReviewWrite(w http.ResponseWriter, r *http.Request, reviewID string) bool {
	rv, err := h.app.Facade.GetReview(r.Context(), reviewID)
	if err != nil {
		writeDomainError(w, err)
		return false
	}
	if !callerOwns(r, rv.UserID) {
		writeDomainError(w, errors.Forbidden("not the author of this review"))
		return false
	}
	return true
}
