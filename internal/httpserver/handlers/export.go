package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/inventory/internal/domain"
	"github.com/MrSnakeDoc/inventory/internal/export"
	"github.com/MrSnakeDoc/inventory/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inventory/internal/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportCSV downloads the filtered records as CSV.
func ExportCSV(d deps.Deps) http.HandlerFunc {
	return exportHandler(d, "csv", "text/csv; charset=utf-8", export.WriteCSV)
}

// ExportXLSX downloads the filtered records as a spreadsheet.
func ExportXLSX(d deps.Deps) http.HandlerFunc {
	return exportHandler(d, "xlsx", xlsxContentType, export.WriteXLSX)
}

func exportHandler(
	d deps.Deps,
	ext, contentType string,
	write func(io.Writer, []*domain.Equipment) error,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := d.Inventory.Filter(r.Context(), filterFromQuery(r))
		if err != nil {
			d.Logger.Error("failed to read equipment for export", logger.Error(err))
			writeError(w, errorStatus(err), "export failed")
			return
		}

		// Render fully before sending headers so a failure still gets a JSON error.
		var buf bytes.Buffer
		if err := write(&buf, records); err != nil {
			d.Logger.Error("failed to render export",
				logger.String("format", ext), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "export failed")
			return
		}

		name := export.FileName(d.Now(), ext)
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			d.Logger.Debug("failed to write response", logger.Error(err))
		}
	}
}
