package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/resumia/extracto-converter/internal/api"
	"github.com/resumia/extracto-converter/internal/config"
	"github.com/resumia/extracto-converter/internal/engine"
	"github.com/resumia/extracto-converter/internal/extractor"
	"github.com/resumia/extracto-converter/internal/models"
	"github.com/resumia/extracto-converter/internal/render"
	"github.com/resumia/extracto-converter/internal/writer"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "extracto-converter",
	Short: "Convert bank statement PDFs into reconciled Excel reports",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <statement.pdf>...",
	Short: "Convert statement PDFs to reconciled .xlsx reports",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)

		bankFlag, _ := cmd.Flags().GetString("bank")
		outputFlag, _ := cmd.Flags().GetString("output")
		csvFlag, _ := cmd.Flags().GetBool("csv")

		var bankType models.BankType
		if bankFlag != "" {
			found := false
			for _, p := range engine.Banks() {
				if strings.EqualFold(bankFlag, string(p.Bank)) || strings.EqualFold(bankFlag, p.Name) {
					bankType = p.Bank
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("unknown bank %q", bankFlag)
			}
		}

		for _, path := range args {
			if err := processFile(logger, path, bankType, outputFlag, csvFlag); err != nil {
				return fmt.Errorf("processing %s: %w", path, err)
			}
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP conversion service",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger(cmd)

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		app := fiber.New(fiber.Config{
			BodyLimit:             32 << 20,
			DisableStartupMessage: true,
		})
		app.Use(recover.New())
		app.Use(func(c *fiber.Ctx) error {
			logger.Debug("http request", "method", c.Method(), "path", c.Path(), "remote", c.IP())
			return c.Next()
		})

		api.New(logger).Register(app)

		logger.Info("listening", "addr", cfg.Listen)
		return app.Listen(cfg.Listen)
	},
}

func processFile(logger *log.Logger, inputPath string, bankType models.BankType, outputPath string, alsoCSV bool) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	pages, err := extractor.ExtractText(inputPath)
	if err != nil {
		return fmt.Errorf("PDF extraction failed: %w", err)
	}
	logger.Info("extracted text", "file", inputPath, "pages", len(pages))

	effectiveBank := bankType
	if effectiveBank == "" {
		detected, err := engine.AutoDetect(pages)
		if err != nil {
			return err
		}
		effectiveBank = detected
		logger.Info("auto-detected bank", "bank", effectiveBank)
	}

	eng, err := engine.New(effectiveBank, logger)
	if err != nil {
		return err
	}

	st, err := eng.Parse(pages)
	if err != nil {
		return err
	}

	total := 0
	for _, acct := range st.Accounts {
		total += len(acct.Transactions)
	}
	if total == 0 {
		logger.Warn("no transactions reconciled; the PDF layout may not match the bank profile", "file", inputPath)
	}

	outPath := outputPath
	if outPath == "" {
		outPath = strings.ReplaceAll(eng.BankName(), " ", "_") + "_procesado.xlsx"
	}

	renderer := &render.Renderer{}
	if err := renderer.WriteFile(outPath, st); err != nil {
		return fmt.Errorf("report write failed: %w", err)
	}
	fmt.Printf("%s: %d cuenta(s), %d movimiento(s) -> %s\n", inputPath, len(st.Accounts), total, outPath)

	if alsoCSV {
		csvPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".csv"
		w := &writer.CSVWriter{IncludeHeader: true}
		if err := w.WriteToFile(csvPath, st); err != nil {
			return fmt.Errorf("CSV write failed: %w", err)
		}
		fmt.Printf("%s: ledger CSV -> %s\n", inputPath, csvPath)
	}
	return nil
}

func newLogger(cmd *cobra.Command) *log.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          "extracto",
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
	}
	return log.NewWithOptions(os.Stderr, opts)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	convertCmd.Flags().String("bank", "", "Bank profile (auto-detected if omitted)")
	convertCmd.Flags().StringP("output", "o", "", "Output .xlsx path")
	convertCmd.Flags().Bool("csv", false, "Also write the ledger as CSV")

	serveCmd.Flags().String("listen", ":8080", "Listen address")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
