package handlers

import (
	"io"
	"mime"
	"net/http"

	"github.com/MrSnakeDoc/inventory/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inventory/internal/logger"
	"github.com/MrSnakeDoc/inventory/internal/sources/importfile"
)

type importResponse struct {
	Imported int `json:"imported"`
}

// ImportEquipment appends every item of a JSON or YAML array body.
// The format comes from ?format=, then the Content-Type, defaulting to JSON.
func ImportEquipment(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := requestFormat(r)

		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, d.MaxImportBytes))
		if err != nil {
			writeError(w, errorStatus(err), "failed to read import body")
			return
		}

		n, err := d.Inventory.Import(r.Context(), data, format)
		if err != nil {
			status := errorStatus(err)
			if status == http.StatusInternalServerError {
				d.Logger.Error("import failed", logger.Error(err))
				writeError(w, status, "import failed")
				return
			}
			d.Logger.Warn("import rejected",
				logger.String("format", string(format)),
				logger.Error(err))
			writeError(w, status, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, importResponse{Imported: n})
	}
}

func requestFormat(r *http.Request) importfile.Format {
	if f := r.URL.Query().Get("format"); f != "" {
		return importfile.ParseFormat(f)
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return importfile.ParseFormat(mediaType)
}
