package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mtlprog/sipplan/internal/domain"
)

const (
	yearlySheet     = "Yearly"
	categoriesSheet = "Categories"
)

// WritePortfolioXLSX renders a portfolio projection as a workbook with a Yearly
// breakdown sheet and a Categories totals sheet.
func WritePortfolioXLSX(w io.Writer, pf domain.Portfolio) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", yearlySheet); err != nil {
		return fmt.Errorf("renaming default sheet: %w", err)
	}
	if _, err := f.NewSheet(categoriesSheet); err != nil {
		return fmt.Errorf("creating %s sheet: %w", categoriesSheet, err)
	}

	if err := writeSheet(f, yearlySheet, yearlyRows(pf), 2); err != nil {
		return err
	}
	if err := writeSheet(f, categoriesSheet, categoryRows(pf), 3); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func yearlyRows(pf domain.Portfolio) [][]any {
	rows := [][]any{{"Year", "Invested", "Value", "Gains"}}
	for _, p := range pf.Yearly {
		rows = append(rows, []any{p.Year, money(p.Invested), money(p.Value), money(p.Gains)})
	}
	return rows
}

func categoryRows(pf domain.Portfolio) [][]any {
	rows := [][]any{{"Category", "Streams", "Invested", "Final Value", "Gains", "Monthly (End)"}}
	streams := 0
	for _, c := range pf.Categories {
		streams += c.StreamCount
		rows = append(rows, []any{
			c.DisplayName, c.StreamCount,
			money(c.TotalInvested), money(c.FinalValue), money(c.Gains), money(c.FinalMonthlyContribution),
		})
	}
	t := pf.Total
	rows = append(rows, []any{
		"TOTAL", streams,
		money(t.TotalInvested), money(t.FinalValue), money(t.Gains), money(t.FinalMonthlyContribution),
	})
	return rows
}

// writeSheet writes rows from A1, bolds and freezes the header and formats the
// columns from amountCol (1-based) onwards as #,##0.00.
func writeSheet(f *excelize.File, sheet string, rows [][]any, amountCol int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}

	cols := len(rows[0])
	lastCol, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9EAD3"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", header); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}

	// Built-in number format 4 is #,##0.00.
	amount, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("creating amount style: %w", err)
	}
	if len(rows) > 1 && cols >= amountCol {
		first, err := excelize.CoordinatesToCellName(amountCol, 2)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, first, fmt.Sprintf("%s%d", lastCol, len(rows)), amount); err != nil {
			return fmt.Errorf("styling %s amounts: %w", sheet, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("sizing %s columns: %w", sheet, err)
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
