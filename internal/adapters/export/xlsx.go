// Package export writes club finances to spreadsheet workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the expense lines.
const SheetName = "Expenses"

var header = []any{"Date", "Expense", "Amount", "Event"}

// ExpenseLine is one row of the expense sheet.
type ExpenseLine struct {
	Date   time.Time
	Name   string
	Amount float64
	Event  string
}

// Workbook renders expense lines as an .xlsx file.
type Workbook struct{}

// NewWorkbook creates a workbook writer.
func NewWorkbook() *Workbook {
	return &Workbook{}
}

// WriteExpenses writes a title row, a header, one row per line and a total.
// PRE: lines are in display order
// POST: w holds a complete workbook with a single sheet named SheetName
func (wb *Workbook) WriteExpenses(w io.Writer, title string, lines []ExpenseLine) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("money style: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := f.SetCellValue(SheetName, "A1", title); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, "A2", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetName, 2, 2, bold); err != nil {
		return err
	}

	total := 0.0
	for i, l := range lines {
		axis, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		row := []any{l.Date.Format(time.DateOnly), l.Name, l.Amount, l.Event}
		if err := f.SetSheetRow(SheetName, axis, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
		total += l.Amount
	}

	last := len(lines) + 3
	totalRow := []any{"", "Total", total}
	if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", last), &totalRow); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "C3", fmt.Sprintf("C%d", last), money); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "A", "D", 20); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
