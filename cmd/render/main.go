package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/canonical/docwiki/internal/config"
	"github.com/canonical/docwiki/internal/logging"
	"github.com/canonical/docwiki/internal/transform"
)

type options struct {
	configPath  string
	input       string
	output      string
	locale      string
	documentURL string
	section     string
	meta        bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", config.DefaultPath(), "Path to config file (JSON or YAML)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error); overrides the config")
	flag.StringVar(&opts.input, "in", "", "Revision HTML to render (default stdin)")
	flag.StringVar(&opts.output, "out", "", "Output file (default stdout)")
	flag.StringVar(&opts.locale, "locale", "", "Document locale (default from config)")
	flag.StringVar(&opts.documentURL, "doc-url", "", "Document path, enables section edit links")
	flag.StringVar(&opts.section, "section", "", "Only output the section with this id")
	flag.BoolVar(&opts.meta, "meta", false, "Prepend TOC, summary and sections as a META comment")
	flag.Parse()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		logging.BuildLogger(*logLevel).Error("render failed", "error", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	logger := cfg.Logger()

	if err := render(logger, cfg, opts); err != nil {
		logger.Error("render failed", "error", err)
		os.Exit(1)
	}
}

func render(logger *slog.Logger, cfg *config.Config, opts options) error {
	raw, err := readInput(opts.input)
	if err != nil {
		return err
	}

	index, err := cfg.OpenIndex()
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	var oracle transform.ExistenceOracle
	if index != nil {
		defer func() { _ = index.Close() }()
		oracle = index
	}

	pipelineOpts, err := cfg.PipelineOptions(opts.locale, oracle, logger)
	if err != nil {
		return err
	}
	pipelineOpts.DocumentURL = opts.documentURL

	doc, err := transform.Pipeline(context.Background(), string(raw), pipelineOpts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if opts.section != "" {
		doc.ExtractSection(opts.section, false)
		if len(doc.Tokens) == 0 {
			return fmt.Errorf("section %q not found", opts.section)
		}
	}

	var out []byte
	if opts.meta {
		out, err = doc.Fragment()
		if err != nil {
			return fmt.Errorf("build fragment: %w", err)
		}
	} else {
		out = []byte(doc.Serialize())
	}

	logger.Info("rendered document", "locale", pipelineOpts.Locale, "sections", len(doc.Sections), "bytes", len(out))
	return writeOutput(opts.output, out)
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return raw, nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
