package extractor

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) ExtractText(string) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestExtractedTextPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/data/stmt.pdf", "/data/stmt_extracted.txt"},
		{"/data/Amex Statement.PDF", "/data/Amex Statement_extracted.txt"},
		{"stmt.pdf", "stmt_extracted.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractedTextPath(tt.input))
		})
	}
}

func TestLoader_TextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stmt.txt")
	require.NoError(t, os.WriteFile(path, []byte("10-08-2025 line"), 0o644))

	fake := &fakeExtractor{}
	text, err := NewLoader(fake, zerolog.New(io.Discard)).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "10-08-2025 line", text)
	assert.Zero(t, fake.calls)
}

func TestLoader_PDFIsExtractedOnceAndCached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stmt.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	fake := &fakeExtractor{text: "extracted body"}
	loader := NewLoader(fake, zerolog.New(io.Discard))

	text, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "extracted body", text)

	cached, err := os.ReadFile(filepath.Join(dir, "stmt_extracted.txt"))
	require.NoError(t, err)
	assert.Equal(t, "extracted body", string(cached))

	fake.text = "should not be used"
	text, err = loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "extracted body", text)
	assert.Equal(t, 1, fake.calls)
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing text file", func(t *testing.T) {
		_, err := NewLoader(&fakeExtractor{}, zerolog.New(io.Discard)).Load(filepath.Join(dir, "nope.txt"))
		var readErr *StatementReadError
		require.True(t, errors.As(err, &readErr))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("missing pdf", func(t *testing.T) {
		fake := &fakeExtractor{}
		_, err := NewLoader(fake, zerolog.New(io.Discard)).Load(filepath.Join(dir, "nope.pdf"))
		var readErr *StatementReadError
		require.True(t, errors.As(err, &readErr))
		assert.Zero(t, fake.calls)
	})

	t.Run("extraction failure", func(t *testing.T) {
		path := filepath.Join(dir, "broken.pdf")
		require.NoError(t, os.WriteFile(path, []byte("junk"), 0o644))

		boom := errors.New("boom")
		_, err := NewLoader(&fakeExtractor{err: boom}, zerolog.New(io.Discard)).Load(path)
		var readErr *StatementReadError
		require.True(t, errors.As(err, &readErr))
		assert.ErrorIs(t, err, boom)
		assert.NoFileExists(t, filepath.Join(dir, "broken_extracted.txt"))
	})
}

func TestIsReadableText(t *testing.T) {
	assert.False(t, isReadableText([]string{"short"}))
	assert.True(t, isReadableText([]string{"Statement of account for the period 01-08-2025 to 31-08-2025 balance"}))
	assert.False(t, isReadableText([]string{"ÿþýüûúùø÷öõôóòñðïîíìëêéèçæåäãâáàßÞÝÜÛÚÙØ×ÖÕÔÓÒÑÐÏÎÍÌ"}))
}

func TestPDFExtractor_MissingFile(t *testing.T) {
	_, err := PDFExtractor{}.ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}
