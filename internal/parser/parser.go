package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-analyzer/internal/categorizer"
	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// Parser is implemented by each institution's statement grammar.
type Parser interface {
	// Parse turns extracted statement text into raw rows. Lines that do not fit
	// the grammar are skipped, never reported as errors.
	Parse(text string) ([]models.RawTransaction, models.SourceMetadata)
	// BankName returns the human-readable institution name.
	BankName() string
}

// Option customizes a parser built by New.
type Option func(*options)

type options struct {
	categorizer *categorizer.Categorizer
}

// WithCategorizer replaces the default keyword rules.
func WithCategorizer(c *categorizer.Categorizer) Option {
	return func(o *options) {
		o.categorizer = c
	}
}

// New returns the parser for bankType. path is the statement file; the Amex
// grammar reads the statement year from its name.
func New(bankType models.BankType, path string, opts ...Option) (Parser, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.categorizer == nil {
		o.categorizer = categorizer.Default()
	}

	switch bankType {
	case models.BankICICICreditCard:
		return &ICICICreditCardParser{categorizer: o.categorizer}, nil
	case models.BankICICISavings:
		return &ICICISavingsParser{categorizer: o.categorizer}, nil
	case models.BankAxis:
		return &AxisParser{categorizer: o.categorizer}, nil
	case models.BankAmex:
		return &AmexParser{categorizer: o.categorizer, year: yearFromFileName(path)}, nil
	default:
		return nil, fmt.Errorf("unsupported bank type: %q", bankType)
	}
}

// mustMetadata builds a parser's fixed SourceMetadata and panics if it is
// incomplete.
func mustMetadata(source, parserName string, isCreditCard bool) models.SourceMetadata {
	m, err := models.NewSourceMetadata(source, parserName, isCreditCard)
	if err != nil {
		panic(err)
	}
	return m
}

// UnrecognizedStatementError is returned when no institution can be read from a path.
type UnrecognizedStatementError struct {
	FileName string
	Folders  []string
}

func (e *UnrecognizedStatementError) Error() string {
	return fmt.Sprintf("unrecognized statement: no supported bank detected in file name %q or folders %q",
		e.FileName, e.Folders)
}

// detectionOrder is the fallback table, tried in declaration order.
var detectionOrder = []models.BankType{
	models.BankICICICreditCard,
	models.BankICICISavings,
	models.BankAxis,
	models.BankAmex,
}

var (
	iciciPattern      = regexp.MustCompile(`icici`)
	creditCardPattern = regexp.MustCompile(`credit\s*card`)
	savingsPattern    = regexp.MustCompile(`bank|savings|statement`)
	separatorPattern  = regexp.MustCompile(`[_\-]`)
)

// Detect selects the statement grammar from the file name and its folders.
// Statement content is never inspected.
func Detect(path string) (models.BankType, error) {
	fileName, folders := pathTokens(path)

	anyToken := func(re *regexp.Regexp) bool {
		if re.MatchString(fileName) {
			return true
		}
		for _, f := range folders {
			if re.MatchString(f) {
				return true
			}
		}
		return false
	}

	if anyToken(iciciPattern) {
		switch {
		case anyToken(creditCardPattern):
			return models.BankICICICreditCard, nil
		case anyToken(savingsPattern):
			return models.BankICICISavings, nil
		}
	}

	for _, bank := range detectionOrder {
		key := strings.ReplaceAll(string(bank), "_", " ")
		if strings.Contains(fileName, key) {
			return bank, nil
		}
		for _, f := range folders {
			if strings.Contains(f, key) {
				return bank, nil
			}
		}
	}

	return "", &UnrecognizedStatementError{FileName: fileName, Folders: folders}
}

// pathTokens normalizes the file name and each containing folder: lowercase,
// with underscores and hyphens replaced by spaces.
func pathTokens(path string) (string, []string) {
	clean := filepath.Clean(path)
	fileName := separatorPattern.ReplaceAllString(strings.ToLower(filepath.Base(clean)), " ")

	var folders []string
	for _, part := range strings.Split(filepath.Dir(clean), string(os.PathSeparator)) {
		if part == "" || part == "." {
			continue
		}
		folders = append(folders, separatorPattern.ReplaceAllString(strings.ToLower(part), " "))
	}
	return fileName, folders
}
