package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/MrSnakeDoc/inventory/internal/domain"
)

// SheetName is the worksheet holding the export.
const SheetName = "Inventory"

// WriteXLSX writes the same columns as WriteCSV into a spreadsheet.
func WriteXLSX(w io.Writer, records []*domain.Equipment) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, h := range Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write xlsx header: %w", err)
		}
	}

	r := 2
	for _, e := range records {
		if e == nil {
			continue
		}
		for col, v := range Row(e) {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			if err := f.SetCellStr(SheetName, cell, v); err != nil {
				return fmt.Errorf("failed to write xlsx row %s: %w", e.ID, err)
			}
		}
		r++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}
