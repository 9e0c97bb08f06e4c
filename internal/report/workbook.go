package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

const (
	bankSheet     = "BankMonthly"
	cardSheet     = "CardMonthly"
	categorySheet = "TopCategories"
)

// writeWorkbook lays out the monthly series on their own sheets, each with a
// line chart, plus the bank top categories.
func writeWorkbook(path string, summary models.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", bankSheet); err != nil {
		return err
	}
	for _, name := range []string{cardSheet, categorySheet} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	if err := monthlySheet(f, bankSheet, summary.Bank.MonthlyBreakdown, "Bank Monthly Income vs Expense", true); err != nil {
		return err
	}
	if err := monthlySheet(f, cardSheet, summary.CreditCard.MonthlySpend, "Credit Card Monthly Spend", false); err != nil {
		return err
	}

	if err := f.SetSheetRow(categorySheet, "A1", &[]interface{}{"Category", "Amount"}); err != nil {
		return err
	}
	for i, c := range summary.Bank.TopCategories {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(categorySheet, cell, &[]interface{}{string(c.Category), c.Amount}); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %q: %w", path, err)
	}
	return nil
}

func monthlySheet(f *excelize.File, sheet string, rows []models.MonthlyTotal, title string, withIncome bool) error {
	header := []interface{}{"Month", "Expense"}
	if withIncome {
		header = []interface{}{"Month", "Expense", "Income"}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, m := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{m.Month, m.Expense}
		if withIncome {
			values = append(values, m.Income)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	if len(rows) == 0 {
		return nil
	}

	last := len(rows) + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", sheet, last)
	series := []excelize.ChartSeries{{
		Name:       sheet + "!$B$1",
		Categories: categories,
		Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheet, last),
		Marker:     excelize.ChartMarker{Symbol: "circle"},
	}}
	if withIncome {
		series = append(series, excelize.ChartSeries{
			Name:       sheet + "!$C$1",
			Categories: categories,
			Values:     fmt.Sprintf("%s!$C$2:$C$%d", sheet, last),
			Marker:     excelize.ChartMarker{Symbol: "circle"},
		})
	}

	return f.AddChart(sheet, "E2", &excelize.Chart{
		Type:   excelize.Line,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: title}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Month"}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Amount (INR)"}}},
	})
}
