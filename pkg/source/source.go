package source

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hazyhaar/ingredient-registry/pkg/lookup"
)

// ErrSourceMissing reports that a source directory or its data file does not
// exist. For the reference table this means "no database available": callers
// must refuse queries but should not treat it as a crash.
var ErrSourceMissing = errors.New("source missing")

// LoadReference loads the reference table under dir (manifest.yaml + data
// file) and builds the index. A missing directory, manifest, or data file
// yields ErrSourceMissing; a table without the mandatory name column yields
// a *lookup.SchemaError.
func LoadReference(dir string) (*lookup.Index, error) {
	m, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, dir)
		}
		return nil, err
	}

	table, err := LoadTable(dir, m)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, filepath.Join(dir, m.DataFile))
		}
		return nil, err
	}

	return lookup.BuildIndex(table, lookup.Options{
		NameColumn:     m.NameColumn,
		RegistryColumn: m.RegistryColumn,
	})
}

// LoadAliases loads the alias table under dir. It never fails: a missing
// directory, manifest, data file, or column degrades to an empty index. The
// returned flag reports that degraded state for status surfaces.
func LoadAliases(dir string) (aliases *lookup.AliasIndex, degraded bool) {
	empty := &lookup.AliasIndex{}

	m, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return empty, true
	}

	table, err := LoadTable(dir, m)
	if err != nil {
		return empty, true
	}

	opts := lookup.AliasOptions{AliasColumn: m.AliasColumn, OfficialColumn: m.OfficialColumn}
	aliasCol := opts.AliasColumn
	if aliasCol == "" {
		aliasCol = lookup.DefaultAliasColumn
	}
	officialCol := opts.OfficialColumn
	if officialCol == "" {
		officialCol = lookup.DefaultOfficialColumn
	}
	if table.ColumnIndex(aliasCol) < 0 || table.ColumnIndex(officialCol) < 0 {
		return empty, true
	}

	return lookup.BuildAliasIndex(table, opts), false
}

// snapshotPath is where LoadReferenceCached keeps the gob snapshot.
func snapshotPath(dir string) string {
	return filepath.Join(dir, "index.gob")
}

// LoadReferenceCached loads the reference index from a gob snapshot when one
// is newer than both the manifest and the data file, rebuilding and
// re-snapshotting otherwise. Snapshot failures fall back to a plain load.
func LoadReferenceCached(dir string, logger *slog.Logger) (*lookup.Index, error) {
	snap := snapshotPath(dir)
	if fresh, err := snapshotFresh(dir, snap); err == nil && fresh {
		idx, err := lookup.LoadGob(snap)
		if err == nil {
			return idx, nil
		}
		logger.Warn("stale or corrupt index snapshot, rebuilding", "path", snap, "error", err)
	}

	idx, err := LoadReference(dir)
	if err != nil {
		return nil, err
	}
	if err := idx.SaveGob(snap); err != nil {
		logger.Warn("could not write index snapshot", "path", snap, "error", err)
	}
	return idx, nil
}

// snapshotFresh reports whether the snapshot is newer than the manifest and
// the data file it was built from.
func snapshotFresh(dir, snap string) (bool, error) {
	si, err := os.Stat(snap)
	if err != nil {
		return false, err
	}

	m, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return false, err
	}
	for _, p := range []string{filepath.Join(dir, "manifest.yaml"), filepath.Join(dir, m.DataFile)} {
		fi, err := os.Stat(p)
		if err != nil {
			return false, err
		}
		if fi.ModTime().After(si.ModTime()) {
			return false, nil
		}
	}
	return true, nil
}
