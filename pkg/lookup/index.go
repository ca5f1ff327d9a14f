package lookup

import "fmt"

// Default column names, matching the reference tables shipped with the tool.
const (
	DefaultNameColumn     = "Ingredient"
	DefaultRegistryColumn = "CAS"
)

// SchemaError reports that the mandatory ingredient-name column is absent
// from the reference table. It is fatal: the tool cannot match without it.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("reference table: missing mandatory column %q", e.Column)
}

// Options select which reference-table columns carry the matching keys.
// Zero values fall back to the defaults.
type Options struct {
	NameColumn     string
	RegistryColumn string
}

// Index is the immutable in-memory reference index. Records keep the source
// table's row order; all keys are precomputed at build time, so the index
// may be shared across concurrent searches without locking.
type Index struct {
	Columns []string
	Records []*Record

	hasRegistry bool
}

// BuildIndex computes canonical name and registry keys for every row of the
// table. The caller's table is not modified. A missing name column yields a
// SchemaError; a missing registry column just disables registry matching.
func BuildIndex(t *Table, opts Options) (*Index, error) {
	if opts.NameColumn == "" {
		opts.NameColumn = DefaultNameColumn
	}
	if opts.RegistryColumn == "" {
		opts.RegistryColumn = DefaultRegistryColumn
	}

	nameIdx := t.ColumnIndex(opts.NameColumn)
	if nameIdx < 0 {
		return nil, &SchemaError{Column: opts.NameColumn}
	}
	regIdx := t.ColumnIndex(opts.RegistryColumn)

	idx := &Index{
		Columns:     append([]string(nil), t.Columns...),
		Records:     make([]*Record, 0, len(t.Rows)),
		hasRegistry: regIdx >= 0,
	}
	for _, row := range t.Rows {
		rec := &Record{
			Name:   cell(row, nameIdx),
			Fields: make(map[string]string, len(t.Columns)),
		}
		for i, col := range t.Columns {
			rec.Fields[col] = cell(row, i)
		}
		rec.nameKey = Normalize(rec.Name)
		if regIdx >= 0 {
			rec.Registry = cell(row, regIdx)
			rec.registryKey = Normalize(rec.Registry)
		}
		idx.Records = append(idx.Records, rec)
	}
	return idx, nil
}

// HasRegistry reports whether the source table had a registry-number column.
func (idx *Index) HasRegistry() bool { return idx.hasRegistry }

// Len returns the number of indexed records.
func (idx *Index) Len() int { return len(idx.Records) }
