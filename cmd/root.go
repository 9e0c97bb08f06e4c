package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-analyzer/internal/categorizer"
	"github.com/insightdelivered/statement-analyzer/internal/config"
	"github.com/insightdelivered/statement-analyzer/internal/extractor"
	"github.com/insightdelivered/statement-analyzer/internal/logger"
	"github.com/insightdelivered/statement-analyzer/internal/parser"
	"github.com/insightdelivered/statement-analyzer/internal/pipeline"
	"github.com/insightdelivered/statement-analyzer/internal/standardizer"
)

var configPath string

// env is built once per invocation from the loaded configuration.
type env struct {
	cfg *config.Config
	log zerolog.Logger
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "statement-analyzer",
	Short: "Parse Indian bank and credit card statements and analyze spending",
	Long: `Parses ICICI Credit Card, ICICI Savings, Axis Bank and American Express
statements (PDF or extracted text) into one canonical transaction table,
saves it, and summarizes income, expenses, categories and recurring payments.

The bank is detected from the file name and its folders, for example
data/raw/icici/credit_card/aug.pdf or data/raw/axis/bank/statement.pdf.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML config file")
	RootCmd.AddCommand(parseCmd, analyzeCmd, serveCmd, versionCmd)
}

func loadEnv() (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: logger.New(cfg.Log.Level)}, nil
}

// pipeline shares one keyword matcher between the parsers and the
// standardizer.
func (e *env) pipeline() *pipeline.Pipeline {
	rules := categorizer.Default()
	return pipeline.New(
		extractor.NewLoader(extractor.PDFExtractor{}, e.log),
		standardizer.New(rules, e.log, standardizer.WithCurrency(e.cfg.Currency)),
		e.log,
		parser.WithCategorizer(rules),
	)
}
