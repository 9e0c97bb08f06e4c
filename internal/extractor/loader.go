// Package extractor turns statement files into text for the line grammars.
package extractor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// Extractor is the PDF text-extraction collaborator.
type Extractor interface {
	ExtractText(pdfPath string) (string, error)
}

// StatementReadError reports that a statement file could not be read or its
// text could not be extracted.
type StatementReadError struct {
	Path string
	Err  error
}

func (e *StatementReadError) Error() string {
	return fmt.Sprintf("read statement %s: %v", e.Path, e.Err)
}

func (e *StatementReadError) Unwrap() error {
	return e.Err
}

var pdfSuffix = regexp.MustCompile(`(?i)\.pdf$`)

// ExtractedTextPath is the sibling cache file for a PDF: "x.pdf" -> "x_extracted.txt".
func ExtractedTextPath(pdfPath string) string {
	dir, name := filepath.Split(pdfPath)
	return filepath.Join(dir, pdfSuffix.ReplaceAllString(name, "")+"_extracted.txt")
}

// IsPDF reports whether path has a .pdf extension, in any case.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Loader reads statement text, extracting PDFs once and caching the result
// next to the source file.
type Loader struct {
	extractor Extractor
	log       zerolog.Logger
}

// NewLoader returns a Loader that uses e for PDFs.
func NewLoader(e Extractor, log zerolog.Logger) *Loader {
	return &Loader{extractor: e, log: log}
}

// Load returns the statement text for path. For a PDF the sibling
// _extracted.txt is authoritative once it exists.
func (l *Loader) Load(path string) (string, error) {
	if !IsPDF(path) {
		return readText(path)
	}

	cachePath := ExtractedTextPath(path)
	text, err := readText(cachePath)
	if err == nil {
		l.log.Debug().Str("cache", cachePath).Msg("using extracted text cache")
		return text, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	if _, err := os.Stat(path); err != nil {
		return "", &StatementReadError{Path: path, Err: err}
	}

	text, err = l.extractor.ExtractText(path)
	if err != nil {
		return "", &StatementReadError{Path: path, Err: err}
	}

	if err := os.WriteFile(cachePath, []byte(text), 0o644); err != nil {
		l.log.Warn().Err(err).Str("cache", cachePath).Msg("could not persist extracted text")
	} else {
		l.log.Info().Str("cache", cachePath).Int("bytes", len(text)).Msg("saved extracted text")
	}
	return text, nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &StatementReadError{Path: path, Err: err}
	}
	return string(data), nil
}
