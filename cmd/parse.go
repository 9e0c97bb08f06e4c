package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-analyzer/internal/analyzer"
	"github.com/insightdelivered/statement-analyzer/internal/models"
	"github.com/insightdelivered/statement-analyzer/internal/pipeline"
	"github.com/insightdelivered/statement-analyzer/internal/report"
	"github.com/insightdelivered/statement-analyzer/internal/writer"
)

var (
	runAnalysis bool
	runCombined bool
	outputFmt   string
)

var parseCmd = &cobra.Command{
	Use:   "parse <file-or-directory>",
	Short: "Parse statements, standardize and save them",
	Long: `Parses one statement file, or every PDF under a directory, and saves the
standardized transactions to the processed directory.

Examples:
  statement-analyzer parse "data/raw/ICICI Credit Card Aug.pdf" --analyze
  statement-analyzer parse data/raw/2025/08/ --analyze --combined --fmt parquet`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&runAnalysis, "analyze", false, "Run financial analysis and save the report")
	parseCmd.Flags().BoolVar(&runCombined, "combined", false, "Merge every statement under the directory into one file")
	parseCmd.Flags().StringVar(&outputFmt, "fmt", string(writer.FormatCSV), "Output format: csv, parquet or xlsx")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := writer.ParseFormat(outputFmt)
	if err != nil {
		return err
	}
	e, err := loadEnv()
	if err != nil {
		return err
	}

	input := args[0]
	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("input not found: %w", err)
	}

	r := &parseRun{
		env:     e,
		out:     cmd.OutOrStdout(),
		format:  format,
		pipe:    e.pipeline(),
		store:   writer.NewStore(e.cfg.Data.ProcessedDir, e.log),
		reports: report.NewWriter(e.cfg.Data.ReportsDir, e.log),
	}

	if !info.IsDir() {
		return r.single(input)
	}

	paths, err := pipeline.CollectStatements(input)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDF statements found under %s", input)
	}
	if runCombined {
		return r.combined(input, paths)
	}
	return r.each(paths)
}

type parseRun struct {
	*env
	out     io.Writer
	format  writer.Format
	pipe    *pipeline.Pipeline
	store   *writer.Store
	reports *report.Writer
}

func (r *parseRun) single(path string) error {
	fmt.Fprintf(r.out, "Processing: %s\n", path)

	res, err := r.pipe.ParseFile(path)
	if err != nil {
		return err
	}
	return r.saveFile(res)
}

func (r *parseRun) saveFile(res *pipeline.FileResult) error {
	fmt.Fprintf(r.out, "  Bank: %s (%s)\n", res.Metadata.Source, res.Bank)
	fmt.Fprintf(r.out, "  Found %d transaction(s)\n", len(res.Transactions))
	if len(res.Warnings) > 0 {
		fmt.Fprintf(r.out, "  %d field warning(s) during standardization\n", len(res.Warnings))
	}
	if len(res.Transactions) == 0 {
		fmt.Fprintln(r.out, "  Warning: No transactions found. The statement layout may not match the expected patterns.")
		return nil
	}

	stored, err := r.store.Save(res.Transactions, res.Metadata.Source, filepath.Base(res.Path), r.format, res.Path)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "  Output: %s\n", stored)

	if runAnalysis {
		return r.analyze(report.Name(res.Path, res.Bank), res.Transactions)
	}
	return nil
}

func (r *parseRun) each(paths []string) error {
	var ok, failed int
	for _, path := range paths {
		fmt.Fprintf(r.out, "Processing: %s\n", path)
		res, err := r.pipe.ParseFile(path)
		if err == nil {
			err = r.saveFile(res)
		}
		if err != nil {
			r.log.Error().Err(err).Str("file", path).Msg("skipping statement")
			fmt.Fprintf(r.out, "  Failed: %v\n", err)
			failed++
			continue
		}
		ok++
	}
	fmt.Fprintf(r.out, "Processed %d file(s): %d succeeded, %d failed\n", len(paths), ok, failed)
	return nil
}

func (r *parseRun) combined(dir string, paths []string) error {
	batch := r.pipe.Batch(paths)
	fmt.Fprintf(r.out, "Processed %d file(s): %d succeeded, %d failed\n", len(paths), len(batch.Files), len(batch.Failures))
	for _, f := range batch.Failures {
		fmt.Fprintf(r.out, "  Failed: %s: %v\n", f.Path, f.Err)
	}
	if len(batch.Transactions) == 0 {
		fmt.Fprintln(r.out, "No valid statement files found or parsed in directory.")
		return nil
	}

	dirName := filepath.Base(filepath.Clean(dir))
	stored, err := r.store.Save(batch.Transactions, "Combined", dirName+"_combined", r.format, dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Saved combined processed file: %s (%d rows)\n", stored, len(batch.Transactions))

	if runAnalysis {
		return r.analyze(report.CombinedName(dir), batch.Transactions)
	}
	return nil
}

func (r *parseRun) analyze(name string, rows []models.CanonicalTransaction) error {
	return writeReport(r.out, r.reports, name, rows)
}

func writeReport(out io.Writer, reports *report.Writer, name string, rows []models.CanonicalTransaction) error {
	summary := analyzer.Analyze(rows)
	a, err := reports.Write(name, summary)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "  Bank: income %.2f, expenses %.2f, savings %.2f\n",
		summary.Bank.TotalIncome, summary.Bank.TotalExpenses, summary.Bank.TotalSavings)
	fmt.Fprintf(out, "  Credit card: expenses %.2f, payments %.2f, average monthly spend %.2f\n",
		summary.CreditCard.TotalExpenses, summary.CreditCard.Payments, summary.CreditCard.AverageMonthlySpend)
	fmt.Fprintf(out, "  Saved analysis report: %s\n", a.Summary)
	if a.Workbook != "" {
		fmt.Fprintf(out, "  Saved trend workbook: %s\n", a.Workbook)
	}
	return nil
}
