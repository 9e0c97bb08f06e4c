// Package writer persists canonical transactions and keeps the manifest of
// everything saved to the processed directory.
package writer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// Format is a persistence encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatXLSX    Format = "xlsx"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatParquet, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use csv, parquet, or xlsx", s)
	}
}

// ManifestFile is the JSON-lines log kept in the processed directory.
const ManifestFile = "manifest.jsonl"

// ManifestEntry describes one saved file.
type ManifestEntry struct {
	Filename     string  `json:"filename"`
	Source       string  `json:"source"`
	Rows         int     `json:"rows"`
	AmountSum    float64 `json:"amount_sum"`
	DateMin      string  `json:"date_min,omitempty"`
	DateMax      string  `json:"date_max,omitempty"`
	SavedAt      string  `json:"saved_at"`
	OriginalPath string  `json:"original_path,omitempty"`
}

type rowsWriter interface {
	WriteToFile(path string, rows []models.CanonicalTransaction) error
}

// Store saves transaction tables under dir.
type Store struct {
	dir string
	log zerolog.Logger
	now func() time.Time

	mu sync.Mutex // guards manifest appends
}

// NewStore returns a Store rooted at dir. The directory is created on first save.
func NewStore(dir string, log zerolog.Logger) *Store {
	return &Store{dir: dir, log: log, now: time.Now}
}

// OutputName normalizes a desired file name: lowercase, spaces to
// underscores, extension replaced by the format's.
func OutputName(filename string, format Format) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(base)), " ", "_")
	if base == "" || base == "." {
		base = "transactions"
	}
	return base + "." + string(format)
}

// Save writes rows in format under the processed directory, appends a
// manifest entry, and returns the stored path.
func (s *Store) Save(rows []models.CanonicalTransaction, source, filename string, format Format, originalPath string) (string, error) {
	var w rowsWriter
	switch format {
	case FormatCSV:
		w = &CSVWriter{}
	case FormatParquet:
		w = &ParquetWriter{}
	case FormatXLSX:
		w = &XLSXWriter{}
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %q: %w", s.dir, err)
	}

	name := OutputName(filename, format)
	path := filepath.Join(s.dir, name)
	if err := w.WriteToFile(path, rows); err != nil {
		return "", err
	}

	entry := newManifestEntry(rows, name, source, originalPath, s.now())
	if err := s.appendManifest(entry); err != nil {
		return "", err
	}

	s.log.Info().
		Str("path", path).
		Str("source", source).
		Int("rows", len(rows)).
		Msg("saved transactions")
	return path, nil
}

func newManifestEntry(rows []models.CanonicalTransaction, name, source, originalPath string, at time.Time) ManifestEntry {
	sum := decimal.Zero
	var dateMin, dateMax string
	for _, tx := range rows {
		sum = sum.Add(decimal.NewFromFloat(tx.AmountValue))
		d, ok := tx.ParsedDate()
		if !ok {
			continue
		}
		day := d.Format(models.DateLayout)
		if dateMin == "" || day < dateMin {
			dateMin = day
		}
		if day > dateMax {
			dateMax = day
		}
	}

	return ManifestEntry{
		Filename:     name,
		Source:       source,
		Rows:         len(rows),
		AmountSum:    sum.Round(2).InexactFloat64(),
		DateMin:      dateMin,
		DateMax:      dateMax,
		SavedAt:      at.UTC().Format(time.RFC3339),
		OriginalPath: originalPath,
	}
}

func (s *Store) appendManifest(entry ManifestEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode manifest entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, ManifestFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open manifest: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("failed to append manifest: %w", err)
	}
	return f.Close()
}

// ReadManifest returns every entry recorded in dir, oldest first.
func ReadManifest(dir string) ([]ManifestEntry, error) {
	f, err := os.Open(filepath.Join(dir, ManifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []ManifestEntry{}, nil
		}
		return nil, err
	}
	defer f.Close()

	entries := []ManifestEntry{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e ManifestEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return nil, fmt.Errorf("corrupt manifest line: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}
