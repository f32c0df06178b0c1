// Command drawcheck verifies a fabrication drawing's BOM table against the
// callouts on the drawing body and prints a per-row report.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fusiengineers/drawcheck"
	"github.com/fusiengineers/drawcheck/ingest"
	"github.com/fusiengineers/drawcheck/model"
	"github.com/fusiengineers/drawcheck/ocr"
)

var (
	flagConfig    string
	flagTolerance float64
	flagWorkers   int
	flagSections  []string
	flagOCR       bool
	flagLanguage  string
	flagVerbose   bool
)

func main() {
	root := &cobra.Command{
		Use:   "drawcheck <drawing.pdf | page.png...>",
		Short: "Verify BOM table rows against drawing callouts",
		Long: `drawcheck extracts the bill-of-materials table from a fabrication
drawing PDF, locates each row's callout on the drawing body, and checks that
the called-out length (and thickness, when declared) matches the table.

Scanned drawings without a text layer can be checked by passing page images
instead of a PDF; with --ocr the pages are read through Tesseract.`,
		Args: cobra.MinimumNArgs(1),
		RunE: run,

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().StringVar(&flagConfig, "config", "", "path to drawcheck.yaml (default: ./drawcheck.yaml)")
	root.Flags().Float64Var(&flagTolerance, "tolerance", 0, "numeric match tolerance in mm (default 0.5)")
	root.Flags().IntVar(&flagWorkers, "workers", 0, "per-item lookup parallelism (default 1)")
	root.Flags().StringSliceVar(&flagSections, "section-keywords", nil, "only accept tables on pages mentioning one of these words")
	root.Flags().BoolVar(&flagOCR, "ocr", false, "read page-image arguments through OCR")
	root.Flags().StringVar(&flagLanguage, "language", "", "Tesseract language for OCR input (default eng)")
	root.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(flagConfig)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Tolerance = flagTolerance
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if cmd.Flags().Changed("section-keywords") {
		cfg.SectionKeywords = flagSections
	}
	if flagOCR {
		cfg.OCREnabled = true
	}
	if cmd.Flags().Changed("language") {
		cfg.Language = flagLanguage
	}
	if flagVerbose {
		cfg.Verbose = true
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	logger.Debug("loading drawing", "args", args)
	doc, err := loadDocument(cfg, args)
	if err != nil {
		return err
	}
	logger.Debug("loaded drawing", "pages", doc.PageCount())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	checker := drawcheck.New(doc).
		Tolerance(cfg.Tolerance).
		Workers(cfg.Workers)
	if len(cfg.SectionKeywords) > 0 {
		checker = checker.SectionKeywords(cfg.SectionKeywords...)
	}

	report, warnings, err := checker.Check(ctx)
	if errors.Is(err, drawcheck.ErrNoRows) {
		for _, w := range warnings {
			logger.Warn(w.Message, "code", w.Code, "page", w.Page)
		}
		return fmt.Errorf("no BOM rows found in %s", args[0])
	}
	if err != nil {
		return err
	}

	for _, w := range warnings {
		logger.Warn(w.Message, "code", w.Code, "page", w.Page)
	}

	fmt.Print(drawcheck.FormatReport(report))

	if report.Summary.FailCount > 0 {
		os.Exit(2)
	}
	return nil
}

// loadDocument reads the input into a Document. A single .pdf argument goes
// through the text-layer extractor; anything else is treated as pre-rendered
// page images and requires OCR. Rasterizing a scanned PDF into page images
// is left to external tooling.
func loadDocument(cfg Config, args []string) (*model.Document, error) {
	if len(args) == 1 && strings.EqualFold(filepath.Ext(args[0]), ".pdf") {
		return ingest.Load(args[0])
	}
	for _, a := range args {
		if strings.EqualFold(filepath.Ext(a), ".pdf") {
			return nil, fmt.Errorf("mixed input: pass one PDF or a list of page images, not both")
		}
	}
	if !cfg.OCREnabled {
		return nil, fmt.Errorf("page-image input requires OCR; pass --ocr or set ocr_enabled")
	}

	client, err := ocr.New()
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}
	defer client.Close()
	if cfg.Language != "" {
		if err := client.SetLanguage(cfg.Language); err != nil {
			return nil, fmt.Errorf("ocr language %q: %w", cfg.Language, err)
		}
	}
	// Drawing sheets scatter callouts around the views; sparse-text mode
	// finds them where the default layout analysis gives up.
	if err := client.SetPageSegMode(ocr.PSM_SPARSE_TEXT); err != nil {
		return nil, fmt.Errorf("ocr page segmentation: %w", err)
	}

	images := make([][]byte, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		images = append(images, data)
	}
	return ingest.FromImages(images, client)
}
