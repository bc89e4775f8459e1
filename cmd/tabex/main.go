// Command tabex extracts tables from PDF and image files with a generative
// model, or re-parses saved model output with -raw.
//
//	tabex [flags] FILE...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leofalp/tabex/core/extract"
	"github.com/leofalp/tabex/core/parse"
	"github.com/leofalp/tabex/core/table"
	"github.com/leofalp/tabex/internal/config"
	"github.com/leofalp/tabex/internal/utils"
)

const defaultConcurrency = 4

// Output formats accepted by -format.
const (
	formatJSON     = "json"
	formatProtocol = "protocol"
)

var errExtractionFailed = errors.New("extraction failed")

type options struct {
	configPath  string
	dialect     string
	model       string
	format      string
	raw         bool
	concurrency int
	files       []string
}

// fileResult pairs an input path with its extraction result.
type fileResult struct {
	File   string                   `json:"file"`
	Result extract.ExtractionResult `json:"result"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "tabex: %v\n", err)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("tabex", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: tabex [flags] FILE...")
		fs.PrintDefaults()
	}

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (default $TABEX_CONFIG)")
	fs.StringVar(&opts.dialect, "dialect", "", "prompt dialect: pipe or json (overrides config)")
	fs.StringVar(&opts.model, "model", "", "model name (overrides config)")
	fs.StringVar(&opts.format, "format", formatJSON, "output format: json or protocol")
	fs.BoolVar(&opts.raw, "raw", false, "treat inputs as saved model output and only parse them")
	fs.IntVar(&opts.concurrency, "concurrency", defaultConcurrency, "files processed at once")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.files = fs.Args()

	switch {
	case len(opts.files) == 0:
		fs.Usage()
		return opts, errors.New("no input files")
	case opts.format != formatJSON && opts.format != formatProtocol:
		return opts, fmt.Errorf("unknown format %q", opts.format)
	case opts.concurrency < 1:
		return opts, fmt.Errorf("concurrency must be at least 1, got %d", opts.concurrency)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.dialect != "" {
		cfg.Dialect = opts.dialect
	}
	if opts.model != "" {
		cfg.Model = opts.model
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cfg.Logger()

	var process func(context.Context, string) (extract.ExtractionResult, error)
	if opts.raw {
		process = parseRaw
	} else {
		if !cfg.Provider().HasAPIKey() {
			return fmt.Errorf("no API key: set %s or api_key in the config file", config.EnvAPIKey)
		}
		process = extractFile(cfg.Extractor(logger))
	}

	results := make([]fileResult, len(opts.files))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency)
	for i, path := range opts.files {
		g.Go(func() error {
			result, err := process(gCtx, path)
			if err != nil {
				logger.WarnContext(gCtx, "File could not be processed",
					slog.String("file", path),
					slog.String("error", err.Error()),
				)
				result = fileError(err)
			}
			results[i] = fileResult{File: path, Result: result}

			logger.InfoContext(gCtx, "File processed",
				slog.String("file", path),
				slog.String("status", string(result.Debug.Status)),
				slog.Int("tables", len(result.Tables)),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	write(stdout, opts.format, results)

	failed := 0
	for _, r := range results {
		if !r.Result.Success {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w for %d of %d files", errExtractionFailed, failed, len(results))
	}
	return nil
}

// fileError reports a file that never reached the extractor, so one bad
// input does not cancel the others.
func fileError(err error) extract.ExtractionResult {
	return extract.ExtractionResult{
		Success: false,
		Tables:  []table.Table{},
		Debug: extract.DebugInfo{
			Status: extract.StatusError,
			Error:  err.Error(),
		},
	}
}

func parseRaw(_ context.Context, path string) (extract.ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return extract.ExtractionResult{}, err
	}
	return extract.ParseText(parse.DefaultChain(), string(data)), nil
}

func extractFile(e *extract.Extractor) func(context.Context, string) (extract.ExtractionResult, error) {
	return func(ctx context.Context, path string) (extract.ExtractionResult, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return extract.ExtractionResult{}, err
		}

		doc := &extract.Document{
			Name:     filepath.Base(path),
			MimeType: detectType(path, data),
			Data:     data,
		}
		result, err := e.Extract(ctx, doc)
		if err != nil {
			return extract.ExtractionResult{}, err
		}
		return *result, nil
	}
}

// detectType prefers the file extension and sniffs the content otherwise.
func detectType(path string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

func write(w io.Writer, format string, results []fileResult) {
	if format == formatJSON {
		fmt.Fprintln(w, utils.JSONToString(results, true))
		return
	}

	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "# %s (%s)\n", r.File, r.Result.Debug.Status)
		fmt.Fprint(w, parse.FormatProtocol(r.Result.Tables))
	}
}
