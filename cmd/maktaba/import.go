package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hazyhaar/maktaba/pkg/catalog"
)

// cmdImport bulk-loads catalog rows from a CSV of scholar;title;url lines.
// Duplicate rows are skipped, everything else aborts the import.
func cmdImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	file := fs.String("file", "", "CSV file with scholar;title;url rows")
	delimiter := fs.String("delimiter", ";", "CSV field delimiter")
	hasHeader := fs.Bool("header", false, "skip the first row")
	fs.Parse(args)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: maktaba import --file <csv> [--config <path>] [--delimiter <c>] [--header]")
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg := loadConfig(*cfgPath, logger)

	store, err := catalog.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open catalog", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	f, err := os.Open(*file)
	if err != nil {
		logger.Error("open csv", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = []rune(*delimiter)[0]
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	if *hasHeader {
		if _, err := r.Read(); err != nil {
			logger.Error("read header", "error", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	var inserted, skipped int
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Error("read row", "error", err)
			os.Exit(1)
		}
		if len(record) < 3 {
			logger.Warn("short row skipped", "row", record)
			skipped++
			continue
		}

		b := catalog.Book{
			Scholar: strings.TrimSpace(record[0]),
			Title:   strings.TrimSpace(record[1]),
			URL:     strings.TrimSpace(record[2]),
		}
		if b.Scholar == "" || b.Title == "" || b.URL == "" {
			logger.Warn("incomplete row skipped", "row", record)
			skipped++
			continue
		}

		switch err := store.Insert(ctx, b); {
		case errors.Is(err, catalog.ErrDuplicate):
			skipped++
		case err != nil:
			logger.Error("insert", "scholar", b.Scholar, "title", b.Title, "error", err)
			os.Exit(1)
		default:
			inserted++
		}
	}

	logger.Info("import finished", "inserted", inserted, "skipped", skipped)
}
