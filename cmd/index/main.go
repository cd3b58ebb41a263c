package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/canonical/docwiki/internal/config"
	"github.com/canonical/docwiki/internal/docindex"
	"github.com/canonical/docwiki/internal/logging"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Path to config file (JSON or YAML)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	input := flag.String("in", "", "Tab separated locale, slug and optional title per line (default stdin)")
	remove := flag.Bool("delete", false, "Remove the listed documents instead of adding them")
	flag.Parse()

	logger := logging.BuildLogger(*logLevel)

	if err := run(logger, *configPath, *input, *remove); err != nil {
		logger.Error("index failed", "error", err)
		os.Exit(1)
	}
}

var errNoIndex = errors.New("config index_path is required")

func run(logger *slog.Logger, configPath, input string, remove bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, err := cfg.OpenIndex()
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	if store == nil {
		return errNoIndex
	}
	defer func() { _ = store.Close() }()

	r := io.Reader(os.Stdin)
	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	ctx := context.Background()
	count := 0
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		doc, err := parseLine(text)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if remove {
			err = store.Delete(ctx, doc.Locale, doc.Slug)
		} else {
			err = store.Put(ctx, doc)
		}
		if err != nil {
			return err
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if err := store.Flush(); err != nil {
		return err
	}

	logger.Info("index updated", "documents", count, "deleted", remove, "path", cfg.IndexPath)
	return nil
}

var errBadLine = errors.New("expected locale<TAB>slug[<TAB>title]")

func parseLine(text string) (docindex.Document, error) {
	fields := strings.Split(text, "\t")
	if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
		return docindex.Document{}, errBadLine
	}
	doc := docindex.Document{Locale: fields[0], Slug: strings.Trim(fields[1], "/")}
	if len(fields) > 2 {
		doc.Title = fields[2]
	}
	return doc, nil
}
