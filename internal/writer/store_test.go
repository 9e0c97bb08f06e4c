package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"Parquet", FormatParquet, false},
		{" xlsx ", FormatXLSX, false},
		{"json", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "icici_credit_card_aug.csv", OutputName("ICICI Credit Card Aug.pdf", FormatCSV))
	assert.Equal(t, "combined.parquet", OutputName("combined", FormatParquet))
	assert.Equal(t, "transactions.xlsx", OutputName("", FormatXLSX))
}

func TestStore_SaveWritesFileAndManifest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "processed")
	s := NewStore(dir, zerolog.New(io.Discard))
	s.now = func() time.Time { return time.Date(2025, 9, 1, 10, 30, 0, 0, time.UTC) }

	rows := sampleRows()
	rows = append(rows, models.CanonicalTransaction{Date: "sometime", AmountValue: 100})

	path, err := s.Save(rows, "ICICI_CreditCard", "Aug Statement.pdf", FormatCSV, "/in/Aug Statement.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "aug_statement.csv"), path)
	assert.FileExists(t, path)

	entries, err := ReadManifest(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ManifestEntry{
		Filename:     "aug_statement.csv",
		Source:       "ICICI_CreditCard",
		Rows:         3,
		AmountSum:    -1121.25,
		DateMin:      "2025-08-02",
		DateMax:      "2025-08-10",
		SavedAt:      "2025-09-01T10:30:00Z",
		OriginalPath: "/in/Aug Statement.pdf",
	}, entries[0])
}

func TestStore_SaveEveryFormat(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, zerolog.New(io.Discard))

	for _, f := range []Format{FormatCSV, FormatParquet, FormatXLSX} {
		path, err := s.Save(sampleRows(), "Axis Bank", "axis", f, "")
		require.NoError(t, err)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	entries, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestStore_UnsupportedFormat(t *testing.T) {
	_, err := NewStore(t.TempDir(), zerolog.New(io.Discard)).Save(nil, "x", "y", Format("json"), "")
	assert.Error(t, err)
}

func TestStore_ConcurrentManifestAppends(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, zerolog.New(io.Discard))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Save(sampleRows(), "Axis Bank", fmt.Sprintf("file_%d", i), FormatCSV, "")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	entries, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}

func TestReadManifest_Missing(t *testing.T) {
	entries, err := ReadManifest(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
