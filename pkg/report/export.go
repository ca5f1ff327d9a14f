// Package report serializes batch results as a downloadable two-sheet
// workbook: one sheet for found queries, one for not-found queries.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/hazyhaar/ingredient-registry/pkg/lookup"
)

const (
	// FoundSheet lists one row per (query, matched record) pair.
	FoundSheet = "Found"
	// NotFoundSheet lists one row per unmatched query with a remediation hint.
	NotFoundSheet = "Not Found"
)

// NotFoundHint is the remediation hint attached to every unmatched query.
const NotFoundHint = "Check the spelling, or add this name to the alias table."

// Write serializes a batch result to w as an xlsx workbook. The found sheet
// carries the query text followed by the reference table's columns; the
// not-found sheet carries the query text and a remediation hint. The two
// collections stay distinct: consumers depend on that split.
func Write(w io.Writer, batch *lookup.BatchResult, columns []string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", FoundSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, 0, len(columns)+1)
	header = append(header, "Query")
	for _, col := range columns {
		header = append(header, col)
	}
	if err := setRow(f, FoundSheet, 1, header); err != nil {
		return err
	}

	rowN := 2
	for _, qr := range batch.Found {
		for _, rec := range qr.Records {
			row := make([]any, 0, len(columns)+1)
			row = append(row, qr.Query)
			for _, col := range columns {
				row = append(row, rec.Fields[col])
			}
			if err := setRow(f, FoundSheet, rowN, row); err != nil {
				return err
			}
			rowN++
		}
	}

	if _, err := f.NewSheet(NotFoundSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := setRow(f, NotFoundSheet, 1, []any{"Query", "Hint"}); err != nil {
		return err
	}
	for i, q := range batch.NotFound {
		if err := setRow(f, NotFoundSheet, i+2, []any{q, NotFoundHint}); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("set row %d on %s: %w", row, sheet, err)
	}
	return nil
}
