package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow/go/v15/arrow"
	"github.com/apache/arrow/go/v15/arrow/array"
	"github.com/apache/arrow/go/v15/arrow/memory"
	"github.com/apache/arrow/go/v15/parquet"
	"github.com/apache/arrow/go/v15/parquet/pqarrow"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// transactionSchema mirrors the CSV column set.
var transactionSchema = arrow.NewSchema([]arrow.Field{
	{Name: "transaction_id", Type: arrow.BinaryTypes.String},
	{Name: "date", Type: arrow.BinaryTypes.String},
	{Name: "description", Type: arrow.BinaryTypes.String},
	{Name: "description_clean", Type: arrow.BinaryTypes.String},
	{Name: "category", Type: arrow.BinaryTypes.String},
	{Name: "type", Type: arrow.BinaryTypes.String},
	{Name: "amount", Type: arrow.PrimitiveTypes.Float64},
	{Name: "amount_value", Type: arrow.PrimitiveTypes.Float64},
	{Name: "amount_display", Type: arrow.BinaryTypes.String},
	{Name: "balance", Type: arrow.BinaryTypes.String},
	{Name: "reference", Type: arrow.BinaryTypes.String},
	{Name: "account_type", Type: arrow.BinaryTypes.String},
	{Name: "source", Type: arrow.BinaryTypes.String},
	{Name: "is_credit_card", Type: arrow.FixedWidthTypes.Boolean},
}, nil)

// ParquetWriter writes canonical transactions as a single-row-group parquet file.
type ParquetWriter struct{}

// WriteToFile writes transactions to a parquet file at the given path.
func (w *ParquetWriter) WriteToFile(path string, rows []models.CanonicalTransaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, rows)
}

// Write encodes transactions as parquet to out.
func (w *ParquetWriter) Write(out io.Writer, rows []models.CanonicalTransaction) error {
	b := array.NewRecordBuilder(memory.DefaultAllocator, transactionSchema)
	defer b.Release()

	str := func(i int) *array.StringBuilder { return b.Field(i).(*array.StringBuilder) }
	num := func(i int) *array.Float64Builder { return b.Field(i).(*array.Float64Builder) }

	for _, tx := range rows {
		str(0).Append(tx.TransactionID)
		str(1).Append(tx.Date)
		str(2).Append(tx.Description)
		str(3).Append(tx.DescriptionClean)
		str(4).Append(string(tx.Category))
		str(5).Append(tx.Type)
		num(6).Append(tx.Amount)
		num(7).Append(tx.AmountValue)
		str(8).Append(tx.AmountDisplay)
		str(9).Append(tx.Balance)
		str(10).Append(tx.Reference)
		str(11).Append(string(tx.AccountType))
		str(12).Append(tx.Source)
		b.Field(13).(*array.BooleanBuilder).Append(tx.IsCreditCard)
	}

	rec := b.NewRecord()
	defer rec.Release()

	fw, err := pqarrow.NewFileWriter(transactionSchema, out, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}
