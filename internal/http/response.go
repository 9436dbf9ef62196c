package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"insaka-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Message: message})
}

// WriteServiceError maps a service error to its HTTP status; anything
// unrecognized becomes a 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	status, message := services.StatusOf(err)
	WriteError(w, status, message)
}

func readJSON(r *http.Request, dest interface{}) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(dest)
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// pathID reads a numeric chi URL parameter; 0 means absent or invalid.
func pathID(r *http.Request, name string) int64 {
	value, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0
	}
	return value
}
