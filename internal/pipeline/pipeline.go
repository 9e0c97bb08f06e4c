// Package pipeline runs statement files through detection, extraction,
// parsing and standardization.
package pipeline

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-analyzer/internal/extractor"
	"github.com/insightdelivered/statement-analyzer/internal/models"
	"github.com/insightdelivered/statement-analyzer/internal/parser"
	"github.com/insightdelivered/statement-analyzer/internal/standardizer"
)

// FileResult is the standardized output of one statement file.
type FileResult struct {
	Path         string                        `json:"path"`
	Bank         models.BankType               `json:"bank"`
	Metadata     models.SourceMetadata         `json:"metadata"`
	Transactions []models.CanonicalTransaction `json:"transactions"`
	Warnings     []standardizer.Warning        `json:"warnings"`
}

// FileFailure records a file that was skipped during a batch run.
type FileFailure struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

func (f FileFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

// BatchResult holds per-file results, failures, and the combined rows
// de-duplicated by transaction ID.
type BatchResult struct {
	Files        []*FileResult
	Failures     []FileFailure
	Transactions []models.CanonicalTransaction
}

// Pipeline parses statement files one at a time.
type Pipeline struct {
	loader       *extractor.Loader
	standardizer *standardizer.Standardizer
	parserOpts   []parser.Option
	log          zerolog.Logger
}

// New wires a Pipeline from its collaborators.
func New(loader *extractor.Loader, std *standardizer.Standardizer, log zerolog.Logger, opts ...parser.Option) *Pipeline {
	return &Pipeline{
		loader:       loader,
		standardizer: std,
		parserOpts:   opts,
		log:          log,
	}
}

// ParseFile detects the institution from path, reads the statement and
// returns its canonical rows. It fails with *parser.UnrecognizedStatementError
// or *extractor.StatementReadError.
func (p *Pipeline) ParseFile(path string) (*FileResult, error) {
	bank, err := parser.Detect(path)
	if err != nil {
		return nil, err
	}

	sp, err := parser.New(bank, path, p.parserOpts...)
	if err != nil {
		return nil, err
	}

	text, err := p.loader.Load(path)
	if err != nil {
		return nil, err
	}

	rows, meta := sp.Parse(text)
	res, err := p.standardizer.Standardize(rows, meta)
	if err != nil {
		return nil, fmt.Errorf("standardize %s: %w", path, err)
	}

	p.log.Info().
		Str("file", path).
		Str("bank", sp.BankName()).
		Int("rows", len(res.Transactions)).
		Int("warnings", len(res.Warnings)).
		Msg("parsed statement")

	return &FileResult{
		Path:         path,
		Bank:         bank,
		Metadata:     meta,
		Transactions: res.Transactions,
		Warnings:     res.Warnings,
	}, nil
}

// Batch parses every path in order. A failing file is logged and recorded,
// never fatal to the batch.
func (p *Pipeline) Batch(paths []string) *BatchResult {
	out := &BatchResult{
		Files:        []*FileResult{},
		Failures:     []FileFailure{},
		Transactions: []models.CanonicalTransaction{},
	}
	seen := make(map[string]bool)

	for _, path := range paths {
		res, err := p.ParseFile(path)
		if err != nil {
			p.log.Error().Err(err).Str("file", path).Msg("skipping statement")
			out.Failures = append(out.Failures, FileFailure{Path: path, Err: err})
			continue
		}
		out.Files = append(out.Files, res)
		for _, tx := range res.Transactions {
			if tx.TransactionID != "" && seen[tx.TransactionID] {
				continue
			}
			seen[tx.TransactionID] = true
			out.Transactions = append(out.Transactions, tx)
		}
	}

	p.log.Info().
		Int("succeeded", len(out.Files)).
		Int("failed", len(out.Failures)).
		Int("rows", len(out.Transactions)).
		Msg("batch complete")
	return out
}

// CollectStatements returns every PDF under dir, recursively, in lexical order.
func CollectStatements(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && extractor.IsPDF(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}
