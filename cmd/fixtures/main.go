// Command fixtures writes deterministic sample CSV files for manual testing
// and load testing of the upload endpoint. The same seed always produces the
// same files.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

func main() {
	var (
		out         = flag.String("out", "testdata/fixtures", "output directory")
		seed        = flag.Uint64("seed", 42, "random seed")
		withMillion = flag.Bool("with-million", false, "also write the 1M row stress file")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := os.MkdirAll(*out, 0o755); err != nil {
		logger.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	gen := NewGenerator(*seed)

	files := []struct {
		name  string
		rows  int
		delim rune
	}{
		{"sales_small.csv", 200, ','},
		{"sales_medium.csv", 20_000, ','},
		{"sales_large.csv", 200_000, ','},
		{"sales_semicolon.csv", 200, ';'},
		{"sales_tab.csv", 200, '\t'},
	}
	if *withMillion {
		files = append(files, struct {
			name  string
			rows  int
			delim rune
		}{"sales_million.csv", 1_000_000, ','})
	}

	for _, f := range files {
		path := filepath.Join(*out, f.name)
		if err := gen.WriteCSV(path, f.rows, f.delim); err != nil {
			logger.Error("failed to write fixture", "file", f.name, "error", err)
			os.Exit(1)
		}
		logger.Info("fixture written", "file", path, "rows", f.rows)
	}

	badPath := filepath.Join(*out, "sales_broken_quote.csv")
	if err := gen.WriteBrokenQuoteCSV(badPath); err != nil {
		logger.Error("failed to write fixture", "file", badPath, "error", err)
		os.Exit(1)
	}
	logger.Info("fixture written", "file", badPath)

	fmt.Println("done")
}
