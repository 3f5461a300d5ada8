package storage

import (
	"context"
	"fmt"

	"cherdak-bot/internal/catalog"

	"github.com/xuri/excelize/v2"
)

// sheetNames maps categories to workbook sheets, in the order they are written.
var sheetNames = map[catalog.Category]string{
	catalog.Tobacco: "Табак",
	catalog.Tea:     "Чай",
}

// ExportCatalog renders both catalogs into an xlsx workbook and returns its bytes.
func ExportCatalog(ctx context.Context, store catalog.Store) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, category := range catalog.Categories {
		items, err := store.List(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", category, err)
		}

		sheet := sheetNames[category]
		if i == 0 {
			// a new workbook starts with "Sheet1"; reuse it for the first category
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet: %w", err)
		}

		headers := []interface{}{"ID", "Название", category.DetailTitle(), "В наличии"}
		if err := writeRow(f, sheet, 1, headers); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, "A1", "D1", style); err != nil {
			return nil, fmt.Errorf("failed to style header of %s: %w", sheet, err)
		}

		for i, item := range items {
			available := "Нет"
			if item.Available {
				available = "Да"
			}
			row := []interface{}{item.ID, item.Name, item.Detail, available}
			if err := writeRow(f, sheet, i+2, row); err != nil {
				return nil, err
			}
		}
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to address cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
