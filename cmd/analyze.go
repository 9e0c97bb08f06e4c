package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-analyzer/internal/report"
	"github.com/insightdelivered/statement-analyzer/internal/writer"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <processed.csv>",
	Short: "Analyze a previously processed CSV without re-parsing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}

		rows, err := writer.LoadCSV(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d transaction(s) from %s\n", len(rows), args[0])

		base := filepath.Base(args[0])
		name := strings.TrimSuffix(base, filepath.Ext(base))
		return writeReport(cmd.OutOrStdout(), report.NewWriter(e.cfg.Data.ReportsDir, e.log), name, rows)
	},
}
