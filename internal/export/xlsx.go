package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

const xlsxSheet = "Results"

// writeXLSX renders the result as a single-sheet workbook with a bold header
// row. NULL cells are left empty.
func writeXLSX(w io.Writer, result *core.QueryResult) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	header := make([]interface{}, len(result.Columns))
	for i, col := range result.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(result.Columns), 1)
		_ = f.SetCellStyle(xlsxSheet, "A1", last, boldStyle)
	}

	for r, row := range result.Rows {
		cells := make([]interface{}, len(result.Columns))
		for i := range cells {
			if i < len(row) && row[i] != nil {
				cells[i] = *row[i]
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
