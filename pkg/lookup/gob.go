package lookup

import (
	"encoding/gob"
	"fmt"
	"os"
)

// Snapshot types keep the gob wire format independent of the Record
// internals. Canonical keys are recomputed on load: they are deterministic,
// and this keeps stale snapshots from resurrecting keys produced by an
// older pipeline.

type recordSnapshot struct {
	Name     string
	Registry string
	Fields   map[string]string
}

type indexSnapshot struct {
	Columns     []string
	HasRegistry bool
	Records     []recordSnapshot
}

// SaveGob writes a snapshot of the index for fast reload of large tables.
func (idx *Index) SaveGob(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gob file: %w", err)
	}
	defer f.Close()

	snap := indexSnapshot{
		Columns:     idx.Columns,
		HasRegistry: idx.hasRegistry,
		Records:     make([]recordSnapshot, len(idx.Records)),
	}
	for i, rec := range idx.Records {
		snap.Records[i] = recordSnapshot{Name: rec.Name, Registry: rec.Registry, Fields: rec.Fields}
	}
	if err := gob.NewEncoder(f).Encode(&snap); err != nil {
		return fmt.Errorf("encode gob: %w", err)
	}
	return nil
}

// LoadGob reads a snapshot written by SaveGob and rebuilds the index,
// recomputing every canonical key.
func LoadGob(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gob file: %w", err)
	}
	defer f.Close()

	var snap indexSnapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode gob: %w", err)
	}

	idx := &Index{
		Columns:     snap.Columns,
		Records:     make([]*Record, len(snap.Records)),
		hasRegistry: snap.HasRegistry,
	}
	for i, rs := range snap.Records {
		rec := &Record{Name: rs.Name, Registry: rs.Registry, Fields: rs.Fields}
		rec.nameKey = Normalize(rec.Name)
		if snap.HasRegistry {
			rec.registryKey = Normalize(rec.Registry)
		}
		idx.Records[i] = rec
	}
	return idx, nil
}
