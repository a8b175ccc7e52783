package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/inventory/internal/domain"
)

type labelsResponse struct {
	Types    []string `json:"types"`
	Statuses []string `json:"statuses"`
}

// Labels lists the type and status labels for form pickers.
func Labels() http.HandlerFunc {
	body := labelsResponse{
		Types:    domain.Types(),
		Statuses: domain.Statuses(),
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, body)
	}
}
