// Package httpapi exposes the facade over REST. Routes live under
// /api/v1; authentication is handled by the middleware chain, while
// per-resource authorization happens here.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	app "github.com/staynest/listing_layer/internal/app"
	"github.com/staynest/listing_layer/internal/errors"
	"github.com/staynest/listing_layer/internal/logging"
	"github.com/staynest/listing_layer/internal/middleware"
	"github.com/staynest/listing_layer/internal/security"
)

// handler bundles the HTTP endpoints over the application facade.
type handler struct {
	app    *app.Application
	tokens *security.TokenManager
	log    *logging.Logger
}

// NewHandler returns a mux exposing the REST API.
func NewHandler(application *app.Application, tokens *security.TokenManager) http.Handler {
	h := &handler{app: application, tokens: tokens, log: application.Log()}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.health)
	mux.HandleFunc("/api/v1/auth/login", h.login)
	mux.HandleFunc("/api/v1/users", h.users)
	mux.HandleFunc("/api/v1/users/", h.userResource)
	mux.HandleFunc("/api/v1/amenities", h.amenities)
	mux.HandleFunc("/api/v1/amenities/", h.amenityResource)
	mux.HandleFunc("/api/v1/places", h.places)
	mux.HandleFunc("/api/v1/places/", h.placeResource)
	mux.HandleFunc("/api/v1/reviews", h.reviews)
	mux.HandleFunc("/api/v1/reviews/", h.reviewResource)
	return mux
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	u, err := h.app.Facade.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, err := h.tokens.Issue(u.ID, u.IsAdmin)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": token})
}

// callerOwns reports whether the authenticated caller is the named user
// or an admin.
func callerOwns(r *http.Request, userID string) bool {
	return middleware.IsAdmin(r.Context()) || middleware.GetUserID(r.Context()) == userID
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !middleware.IsAdmin(r.Context()) {
		writeDomainError(w, errors.Forbidden("admin privileges required"))
		return false
	}
	return true
}

// decodeJSON reads a request body. Unknown fields are dropped so typed
// inputs act as allow-lists.
func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	return json.NewDecoder(body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// writeDomainError maps the error taxonomy onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.IsValidationError(err):
		writeError(w, http.StatusBadRequest, err)
	case errors.IsNotFound(err):
		writeError(w, http.StatusNotFound, err)
	case errors.IsConflict(err):
		writeError(w, http.StatusConflict, err)
	case errors.IsUnauthorized(err):
		writeError(w, http.StatusUnauthorized, err)
	case errors.IsForbidden(err):
		writeError(w, http.StatusForbidden, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
