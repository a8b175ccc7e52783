package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/inventory/internal/domain"
	"github.com/MrSnakeDoc/inventory/internal/inventory"
	"github.com/MrSnakeDoc/inventory/internal/sources/importfile"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, importfile.ErrInvalidFormat), errors.Is(err, importfile.ErrParse):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// filterFromQuery reads the list selection from ?q=&type=&status=.
func filterFromQuery(r *http.Request) domain.Filter {
	q := r.URL.Query()
	return domain.Filter{
		Query:  q.Get("q"),
		Type:   q.Get("type"),
		Status: q.Get("status"),
	}
}
