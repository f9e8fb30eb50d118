// Command convert runs the conversion pipeline against a file on disk,
// without the HTTP service. Useful for batch jobs and for checking an
// export before filing.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/garyjia/coretax-converter/internal/config"
	"github.com/garyjia/coretax-converter/internal/converter"
	"github.com/garyjia/coretax-converter/pkg/utils"
)

const version = "1.0.0"

var (
	cfgFile string
	outPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert ERP sales spreadsheets to the DJP Core Tax import format",
	Long: `convert reads an ERP sales export (.xlsx), computes DPP and PPN per
line, groups the lines into tax invoices, and writes the four-sheet Core Tax
import workbook.

Example:
  convert run Sales.xlsx -o CoreTax_Import.xlsx`,
}

var runCmd = &cobra.Command{
	Use:   "run <input.xlsx>",
	Short: "Convert a single spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(args[0])
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the converter version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("coretax-converter %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "configs/config.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	runCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file path (default: <input>_coretax.xlsx)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func runConvert(inputPath string) error {
	_ = gotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.Logger.Level
	if verbose {
		level = "debug"
	}
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      level,
		OutputPath: "stderr",
		Format:     "console",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	if !utils.IsExcelFile(inputPath) {
		return fmt.Errorf("input must be an Excel file (.xlsx or .xls): %s", inputPath)
	}

	input, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	pipeline := converter.NewPipeline(cfg.Converter(), logger)
	output, report, err := pipeline.Convert(input)
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "_coretax.xlsx"
	}
	if err := os.WriteFile(outPath, output, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Info("Conversion written",
		zap.String("output", outPath),
		zap.Int("invoices", report.InvoiceCount),
		zap.Int("converted_rows", report.ConvertedRows),
		zap.Int("skipped_rows", len(report.SkippedRows)))

	for _, s := range report.SkippedRows {
		fmt.Fprintf(os.Stderr, "skipped row %d: %s\n", s.Row, s.Reason)
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
