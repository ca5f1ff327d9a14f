package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hazyhaar/ingredient-registry/pkg/lookup"
	"github.com/hazyhaar/ingredient-registry/pkg/report"
	"github.com/hazyhaar/ingredient-registry/pkg/source"
)

// cmdQuery runs a batch lookup from a file or stdin: one query per line,
// blank lines ignored. Found records print vertically (field per line);
// -report additionally writes the two-sheet xlsx workbook.
func cmdQuery(args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	inPath := fs.String("in", "", "input file with one query per line (default: stdin)")
	reportPath := fs.String("report", "", "write an xlsx report to this path")
	noLog := fs.Bool("no-log", false, "skip recording the run in the run log")
	fs.Parse(args)

	logger := newLogger(os.Stderr)
	cfg := loadConfig(*cfgPath, logger)

	cat := source.NewCatalog(cfg.ReferenceDir, cfg.AliasDir, logger)
	if err := cat.Load(); err != nil {
		if errors.Is(err, source.ErrSourceMissing) {
			fmt.Fprintln(os.Stderr, "No database available: put the reference table in place and retry.")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error loading sources: %v\n", err)
		os.Exit(1)
	}

	input, err := readInput(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	queries := lookup.SplitQueries(input)
	if len(queries) == 0 {
		fmt.Fprintln(os.Stderr, "No queries given: one ingredient name or registry number per line.")
		os.Exit(1)
	}

	batch := cat.SearchBatch(queries)
	printBatch(os.Stdout, batch, cat.Columns())

	if !*noLog && cfg.RunLogPath != "" {
		if runLog := openRunLog(cfg.RunLogPath, logger); runLog != nil {
			if _, err := runLog.Record(batch); err != nil {
				logger.Warn("could not record run", "error", err)
			}
			runLog.Close()
		}
	}

	if *reportPath != "" {
		if err := writeReportFile(*reportPath, batch, cat.Columns()); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", *reportPath)
	}

	if len(batch.NotFound) > 0 {
		os.Exit(2)
	}
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func printBatch(w io.Writer, batch *lookup.BatchResult, columns []string) {
	fmt.Fprintf(w, "%d queries: %d found, %d not found (%d matching records)\n",
		batch.Queries(), len(batch.Found), len(batch.NotFound), batch.Matches())

	for _, qr := range batch.Found {
		for _, rec := range qr.Records {
			fmt.Fprintf(w, "\n%s -> %s\n", qr.Query, rec.Name)
			for _, col := range columns {
				if v := rec.Fields[col]; v != "" {
					fmt.Fprintf(w, "  %-12s %s\n", col, v)
				}
			}
		}
	}

	if len(batch.NotFound) > 0 {
		fmt.Fprintf(w, "\nNot found:\n")
		for _, q := range batch.NotFound {
			fmt.Fprintf(w, "  %s  (%s)\n", q, report.NotFoundHint)
		}
	}
}

func writeReportFile(path string, batch *lookup.BatchResult, columns []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.Write(f, batch, columns); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
