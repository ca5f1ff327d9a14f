package lookup

import "strings"

// Search resolves one query against the index and returns every matching
// record in the reference table's original row order. Three paths select
// records: the canonical name key containing the canonical query as a
// substring, the canonical registry key containing it, and alias redirection
// (entries whose alias key contains the query select records whose name key
// equals the entry's official key). A record reachable through more than one
// path appears once.
//
// Substring containment is deliberately loose: a one-letter query matches
// every record containing that letter. This mirrors the reference data's
// qualifier-heavy names, where either side may carry extra text.
func (idx *Index) Search(aliases *AliasIndex, query string) []*Record {
	q := Normalize(query)
	if q == "" {
		return nil
	}

	var officials map[string]struct{}
	if aliases != nil {
		officials = aliases.officialsFor(q)
	}

	var hits []*Record
	for _, rec := range idx.Records {
		if !idx.matches(rec, q, officials) {
			continue
		}
		hits = append(hits, rec)
	}
	return hits
}

func (idx *Index) matches(rec *Record, q string, officials map[string]struct{}) bool {
	if rec.nameKey != "" && strings.Contains(rec.nameKey, q) {
		return true
	}
	if idx.hasRegistry && rec.registryKey != "" && strings.Contains(rec.registryKey, q) {
		return true
	}
	if officials != nil {
		if _, ok := officials[rec.nameKey]; ok {
			return true
		}
	}
	return false
}
