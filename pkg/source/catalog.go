package source

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/hazyhaar/ingredient-registry/pkg/lookup"
)

// Catalog owns the loaded indexes and serves queries against them. The
// indexes themselves are immutable; Reload swaps whole pointers under the
// lock, so searches in flight keep the snapshot they started with.
type Catalog struct {
	mu       sync.RWMutex
	refDir   string
	aliasDir string
	logger   *slog.Logger

	idx           *lookup.Index
	aliases       *lookup.AliasIndex
	aliasDegraded bool
}

// NewCatalog creates an empty catalog for the given source directories.
func NewCatalog(refDir, aliasDir string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{refDir: refDir, aliasDir: aliasDir, logger: logger}
}

// Load builds both indexes from disk. ErrSourceMissing for the reference
// table leaves the catalog not ready but is returned so the caller can
// decide whether that is fatal (CLI) or a degraded start (server). A missing
// alias source is never an error, only an observable degraded mode.
func (c *Catalog) Load() error {
	idx, err := LoadReferenceCached(c.refDir, c.logger)
	if err != nil {
		if errors.Is(err, ErrSourceMissing) {
			c.mu.Lock()
			c.idx = nil
			c.mu.Unlock()
		}
		return err
	}

	aliases, degraded := LoadAliases(c.aliasDir)
	if degraded {
		c.logger.Info("alias table unavailable, continuing without aliases", "dir", c.aliasDir)
	}

	c.mu.Lock()
	c.idx = idx
	c.aliases = aliases
	c.aliasDegraded = degraded
	c.mu.Unlock()

	c.logger.Info("sources loaded",
		"records", idx.Len(), "registry", idx.HasRegistry(), "aliases", len(aliases.Entries))
	return nil
}

// Reload rebuilds both indexes from disk (hot reload).
func (c *Catalog) Reload() error {
	return c.Load()
}

// Ready reports whether the reference index is loaded.
func (c *Catalog) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.idx != nil
}

// Search resolves one query. It returns nil when the catalog is not ready.
func (c *Catalog) Search(query string) []*lookup.Record {
	c.mu.RLock()
	idx, aliases := c.idx, c.aliases
	c.mu.RUnlock()
	if idx == nil {
		return nil
	}
	return idx.Search(aliases, query)
}

// SearchBatch classifies each query as found or not found.
func (c *Catalog) SearchBatch(queries []string) *lookup.BatchResult {
	c.mu.RLock()
	idx, aliases := c.idx, c.aliases
	c.mu.RUnlock()
	if idx == nil {
		return &lookup.BatchResult{}
	}
	return idx.SearchBatch(aliases, queries)
}

// Columns returns the reference table's column names in source order.
func (c *Catalog) Columns() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.idx == nil {
		return nil
	}
	return c.idx.Columns
}

// Status is the catalog's health summary for status surfaces.
type Status struct {
	ReferenceLoaded bool `json:"reference_loaded"`
	Records         int  `json:"records"`
	Registry        bool `json:"registry"`
	AliasEntries    int  `json:"alias_entries"`
	AliasDegraded   bool `json:"alias_degraded"`
}

// Status reports what is loaded and whether alias matching is degraded.
func (c *Catalog) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Status{AliasDegraded: c.aliasDegraded}
	if c.idx != nil {
		s.ReferenceLoaded = true
		s.Records = c.idx.Len()
		s.Registry = c.idx.HasRegistry()
	}
	if c.aliases != nil {
		s.AliasEntries = len(c.aliases.Entries)
	}
	return s
}
