package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/hazyhaar/ingredient-registry/pkg/lookup"
)

// LoadTable reads the manifest's data file from dir into a lookup.Table.
// The format is chosen by file extension: .xlsx goes through excelize,
// anything else is treated as CSV.
func LoadTable(dir string, m *Manifest) (*lookup.Table, error) {
	path := filepath.Join(dir, m.DataFile)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadXLSX(path, m.Sheet)
	}
	return loadCSV(path, m)
}

func loadCSV(path string, m *Manifest) (*lookup.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	// Transcode non-UTF-8 encodings declared in the manifest.
	var reader io.Reader = f
	if enc := m.Format.Encoding; enc != "" && !isUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return nil, fmt.Errorf("unsupported encoding %q: %w", enc, err)
		}
		reader = transform.NewReader(f, e.NewDecoder())
	}

	r := csv.NewReader(reader)
	if delim := m.Format.Delimiter; delim != "" {
		r.Comma = []rune(delim)[0]
	}
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	table := &lookup.Table{}
	if m.Format.HasHeader {
		header, err := r.Read()
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
		table.Columns = header
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if table.Columns == nil {
			// Headerless source: synthesize positional column names.
			table.Columns = make([]string, len(record))
			for i := range record {
				table.Columns[i] = fmt.Sprintf("col%d", i)
			}
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

func loadXLSX(path, sheet string) (*lookup.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &lookup.Table{}, nil
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := &lookup.Table{Columns: header}
	for _, row := range rows[1:] {
		// GetRows trims trailing empty cells; pad to the header width so
		// column positions stay aligned.
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
