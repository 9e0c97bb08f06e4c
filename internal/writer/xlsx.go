package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// TransactionsSheet is the worksheet XLSXWriter fills.
const TransactionsSheet = "Transactions"

var xlsxHeaders = []string{
	"transaction_id", "date", "description", "description_clean", "category", "type",
	"amount", "amount_value", "amount_display", "balance", "reference",
	"account_type", "source", "is_credit_card",
}

// XLSXWriter writes canonical transactions to a single-sheet workbook.
type XLSXWriter struct{}

// WriteToFile writes transactions to an xlsx file at the given path.
func (w *XLSXWriter) WriteToFile(path string, rows []models.CanonicalTransaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, rows)
}

// Write encodes transactions as an xlsx workbook to out.
func (w *XLSXWriter) Write(out io.Writer, rows []models.CanonicalTransaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TransactionsSheet); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	if err := f.SetSheetRow(TransactionsSheet, "A1", &xlsxHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, tx := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			tx.TransactionID, tx.Date, tx.Description, tx.DescriptionClean,
			string(tx.Category), tx.Type, tx.Amount, tx.AmountValue, tx.AmountDisplay,
			tx.Balance, tx.Reference, string(tx.AccountType), tx.Source, tx.IsCreditCard,
		}
		if err := f.SetSheetRow(TransactionsSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	f.SetColWidth(TransactionsSheet, "C", "D", 40)
	f.SetColWidth(TransactionsSheet, "I", "I", 16)

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
