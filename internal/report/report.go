// Package report writes analysis artifacts: the JSON summary, CSV series and
// a workbook with trend charts.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// Artifacts lists the files written for one report. Series files are only
// written when they have rows, so their paths may be empty.
type Artifacts struct {
	Summary           string `json:"summary"`
	BankMonthly       string `json:"bank_monthly,omitempty"`
	BankTopCategories string `json:"bank_top_categories,omitempty"`
	CCSpendByCategory string `json:"cc_spend_by_category,omitempty"`
	CCMonthly         string `json:"cc_monthly,omitempty"`
	Workbook          string `json:"workbook,omitempty"`
}

// Writer saves reports into one directory.
type Writer struct {
	dir string
	log zerolog.Logger
}

// NewWriter returns a Writer rooted at dir.
func NewWriter(dir string, log zerolog.Logger) *Writer {
	return &Writer{dir: dir, log: log}
}

// Write saves every artifact for summary under name.
func (w *Writer) Write(name string, summary models.Summary) (Artifacts, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return Artifacts{}, fmt.Errorf("failed to create %q: %w", w.dir, err)
	}

	var a Artifacts
	a.Summary = filepath.Join(w.dir, name+".json")
	if err := writeJSON(a.Summary, summary); err != nil {
		return a, err
	}

	series := []struct {
		path *string
		file string
		rows interface{}
		n    int
	}{
		{&a.BankMonthly, name + "_bank_monthly.csv", summary.Bank.MonthlyBreakdown, len(summary.Bank.MonthlyBreakdown)},
		{&a.BankTopCategories, name + "_bank_top_categories.csv", summary.Bank.TopCategories, len(summary.Bank.TopCategories)},
		{&a.CCSpendByCategory, name + "_cc_spend_by_category.csv", summary.CreditCard.TotalSpendByCategory, len(summary.CreditCard.TotalSpendByCategory)},
		{&a.CCMonthly, name + "_cc_monthly.csv", summary.CreditCard.MonthlySpend, len(summary.CreditCard.MonthlySpend)},
	}
	for _, s := range series {
		if s.n == 0 {
			continue
		}
		path := filepath.Join(w.dir, s.file)
		if err := writeCSV(path, s.rows); err != nil {
			return a, err
		}
		*s.path = path
	}

	if len(summary.Bank.MonthlyBreakdown) > 0 || len(summary.CreditCard.MonthlySpend) > 0 {
		a.Workbook = filepath.Join(w.dir, name+"_trend.xlsx")
		if err := writeWorkbook(a.Workbook, summary); err != nil {
			return a, err
		}
	}

	w.log.Info().Str("name", name).Str("summary", a.Summary).Msg("saved analysis report")
	return a, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}

func writeCSV(path string, rows interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.Marshal(rows, f); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}
