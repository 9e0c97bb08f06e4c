package writer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v15/arrow/memory"
	"github.com/apache/arrow/go/v15/parquet"
	"github.com/apache/arrow/go/v15/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParquetWriter_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.parquet")
	require.NoError(t, (&ParquetWriter{}).WriteToFile(path, sampleRows()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	table, err := pqarrow.ReadTable(context.Background(), f, parquet.NewReaderProperties(memory.DefaultAllocator),
		pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	require.NoError(t, err)
	defer table.Release()

	assert.EqualValues(t, 2, table.NumRows())
	assert.EqualValues(t, len(transactionSchema.Fields()), table.NumCols())
	assert.Equal(t, "amount_value", table.Schema().Field(7).Name)
}

func TestXLSXWriter_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.xlsx")
	require.NoError(t, (&XLSXWriter{}).WriteToFile(path, sampleRows()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(TransactionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, xlsxHeaders, rows[0])
	assert.Equal(t, "Fuel Trxn Onus", rows[1][2])
	assert.Equal(t, "Axis Bank", rows[2][12])
}
