package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// CSVWriter writes canonical transactions as CSV, one header row followed by
// one row per transaction.
type CSVWriter struct{}

// WriteToFile writes transactions to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, rows []models.CanonicalTransaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, rows)
}

// Write writes transactions in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, rows []models.CanonicalTransaction) error {
	if rows == nil {
		rows = []models.CanonicalTransaction{}
	}
	if err := gocsv.Marshal(&rows, out); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// ReadCSV loads canonical transactions previously written by CSVWriter.
func ReadCSV(in io.Reader) ([]models.CanonicalTransaction, error) {
	var rows []models.CanonicalTransaction
	if err := gocsv.Unmarshal(in, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

// LoadCSV reads a processed CSV file from disk.
func LoadCSV(path string) ([]models.CanonicalTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f)
}
