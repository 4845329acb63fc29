// Package export produces downloadable artifacts from report rows. Both
// writers receive the complete row set regardless of the on-screen window.
package export

import (
	"fmt"
	"io"

	"github.com/minasamy417/resultsboard/report"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Details"

// columnHeaders matches the dashboard's export layout.
var columnHeaders = []string{"الكود", "الاسم", "الخدمة", "الكورس", "الدرجة", "الحضور"}

// WriteXLSX writes rows as a spreadsheet.
func WriteXLSX(rows []report.Row, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, h := range columnHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	for rowIdx, row := range rows {
		values := []interface{}{
			row.Code,
			row.Name,
			row.Group,
			row.Course,
			row.Score,
			fmt.Sprintf("%d%%", row.AttendancePercent),
		}
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}
