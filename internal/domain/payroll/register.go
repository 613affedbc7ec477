package payroll

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// RenderRegister writes the month's payroll register as an XLSX workbook.
func RenderRegister(year, month int, rows []RegisterRow) ([]byte, error) {
	file := excelize.NewFile()
	sheet := "Register"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Employee ID", "First Name", "Last Name", "Gross", "SGK", "Tax", "Net"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		values := []any{
			row.EmployeeID,
			row.FirstName,
			row.LastName,
			row.Gross.StringFixed(2),
			row.SGK.StringFixed(2),
			row.Tax.StringFixed(2),
			row.Net.StringFixed(2),
		}
		for j, value := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	title, err := excelize.CoordinatesToCellName(1, len(rows)+3)
	if err != nil {
		return nil, err
	}
	if err := file.SetCellValue(sheet, title, fmt.Sprintf("Payroll register %04d-%02d", year, month)); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
