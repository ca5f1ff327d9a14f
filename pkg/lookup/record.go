package lookup

// Table is a loaded tabular source: ordered column names plus rows of cells.
// Cells are plain strings; the loader is responsible for any transcoding.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of a column by exact name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Record is one reference-table row with its cached canonical keys.
// Records are immutable after BuildIndex; descriptive columns are carried
// opaquely in Fields and never interpreted by the matcher.
type Record struct {
	Name     string
	Registry string // empty when the source has no registry column
	Fields   map[string]string

	nameKey     string
	registryKey string
}

// NameKey returns the canonical key derived from the ingredient name.
func (r *Record) NameKey() string { return r.nameKey }

// RegistryKey returns the canonical key derived from the registry number,
// or the empty string when the record has none.
func (r *Record) RegistryKey() string { return r.registryKey }

func cell(row []string, i int) string {
	if i >= 0 && i < len(row) {
		return row[i]
	}
	return ""
}
