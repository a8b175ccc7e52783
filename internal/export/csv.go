// Package export renders equipment records for download.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrSnakeDoc/inventory/internal/domain"
)

// Header is the fixed column set of every export.
var Header = []string{
	"Type", "Service", "Dept", "Status", "Name", "Serial",
	"Due Date", "Issue Date", "EmpID", "Assignee", "Location", "Remarks",
}

// Row returns the export columns of e, in Header order.
func Row(e *domain.Equipment) []string {
	return []string{
		e.Type,
		e.Service,
		e.Department,
		e.Status,
		e.Name,
		e.SerialNumber,
		e.DueDate,
		e.IssueDate,
		e.EmpID,
		e.AssigneeName,
		e.Location,
		e.Remarks,
	}
}

// WriteCSV writes the header line followed by one line per record.
// Every data field is double-quoted with embedded quotes doubled.
func WriteCSV(w io.Writer, records []*domain.Equipment) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(Header, ",") + "\n"); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	quoted := make([]string, len(Header))
	for _, e := range records {
		if e == nil {
			continue
		}
		for i, v := range Row(e) {
			quoted[i] = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
		}
		if _, err := bw.WriteString(strings.Join(quoted, ",") + "\n"); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", e.ID, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// FileName returns the download name for an export taken at now.
// Example: inventory_export_2025-05-10.csv
func FileName(now time.Time, ext string) string {
	return fmt.Sprintf("inventory_export_%s.%s", now.Format("2006-01-02"), ext)
}
