package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/inventory/internal/domain"
	"github.com/MrSnakeDoc/inventory/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inventory/internal/logger"
)

// maxRecordBytes bounds the body of a single add or update.
const maxRecordBytes = 64 << 10

type listResponse struct {
	Count int                 `json:"count"`
	Items []*domain.Equipment `json:"items"`
}

// ListEquipment returns the records matching ?q=, ?type= and ?status=.
func ListEquipment(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := d.Inventory.Filter(r.Context(), filterFromQuery(r))
		if err != nil {
			d.Logger.Error("failed to list equipment", logger.Error(err))
			writeError(w, errorStatus(err), "failed to list equipment")
			return
		}
		writeJSON(w, http.StatusOK, listResponse{Count: len(items), Items: items})
	}
}

// CreateEquipment adds one record from a JSON body.
func CreateEquipment(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.EquipmentInput
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRecordBytes)).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid equipment body")
			return
		}

		e, err := d.Inventory.Add(r.Context(), in)
		if err != nil {
			d.Logger.Error("failed to add equipment", logger.Error(err))
			writeError(w, errorStatus(err), "failed to add equipment")
			return
		}
		writeJSON(w, http.StatusCreated, e)
	}
}

// UpdateEquipment applies a partial update to the record named in the path.
func UpdateEquipment(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var patch domain.EquipmentPatch
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRecordBytes)).Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid equipment patch")
			return
		}
		if patch.IsEmpty() {
			writeError(w, http.StatusBadRequest, "patch changes nothing")
			return
		}

		e, err := d.Inventory.Update(r.Context(), id, patch)
		if err != nil {
			status := errorStatus(err)
			if status == http.StatusInternalServerError {
				d.Logger.Error("failed to update equipment",
					logger.String("id", id), logger.Error(err))
			}
			writeError(w, status, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// DeleteEquipment removes every record carrying the id in the path.
func DeleteEquipment(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := d.Inventory.Delete(r.Context(), id); err != nil {
			status := errorStatus(err)
			if status == http.StatusInternalServerError {
				d.Logger.Error("failed to delete equipment",
					logger.String("id", id), logger.Error(err))
			}
			writeError(w, status, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
