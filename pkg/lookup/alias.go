package lookup

import "strings"

// Default alias-table column names.
const (
	DefaultAliasColumn    = "Alias"
	DefaultOfficialColumn = "Official"
)

// AliasEntry pairs an alternate spelling with the official reference name it
// redirects to. Aliases are not required to be unique, and an alias whose
// official key matches no record is inert rather than an error.
type AliasEntry struct {
	Alias    string
	Official string

	aliasKey    string
	officialKey string
}

// AliasKey returns the canonical key of the alias text.
func (e *AliasEntry) AliasKey() string { return e.aliasKey }

// OfficialKey returns the canonical key of the official name.
func (e *AliasEntry) OfficialKey() string { return e.officialKey }

// AliasIndex maps canonical alias keys to canonical official-name keys.
// An empty index is a valid, degraded-but-functional state.
type AliasIndex struct {
	Entries []AliasEntry
}

// AliasOptions select the alias-table columns. Zero values fall back to the
// defaults.
type AliasOptions struct {
	AliasColumn    string
	OfficialColumn string
}

// BuildAliasIndex never fails: a nil table, or one lacking the alias or
// official column, yields an empty index.
func BuildAliasIndex(t *Table, opts AliasOptions) *AliasIndex {
	out := &AliasIndex{}
	if t == nil {
		return out
	}
	if opts.AliasColumn == "" {
		opts.AliasColumn = DefaultAliasColumn
	}
	if opts.OfficialColumn == "" {
		opts.OfficialColumn = DefaultOfficialColumn
	}

	aliasIdx := t.ColumnIndex(opts.AliasColumn)
	officialIdx := t.ColumnIndex(opts.OfficialColumn)
	if aliasIdx < 0 || officialIdx < 0 {
		return out
	}

	out.Entries = make([]AliasEntry, 0, len(t.Rows))
	for _, row := range t.Rows {
		e := AliasEntry{
			Alias:    cell(row, aliasIdx),
			Official: cell(row, officialIdx),
		}
		e.aliasKey = Normalize(e.Alias)
		e.officialKey = Normalize(e.Official)
		out.Entries = append(out.Entries, e)
	}
	return out
}

// Empty reports whether the index holds no entries.
func (a *AliasIndex) Empty() bool { return a == nil || len(a.Entries) == 0 }

// officialsFor collects the distinct canonical official keys of every entry
// whose canonical alias key contains q. Resolution is one hop: the returned
// keys are compared against record name keys by exact membership, never
// chained through a second alias.
func (a *AliasIndex) officialsFor(q string) map[string]struct{} {
	if a.Empty() {
		return nil
	}
	var officials map[string]struct{}
	for i := range a.Entries {
		e := &a.Entries[i]
		if e.aliasKey == "" || !strings.Contains(e.aliasKey, q) {
			continue
		}
		if officials == nil {
			officials = make(map[string]struct{})
		}
		officials[e.officialKey] = struct{}{}
	}
	return officials
}
