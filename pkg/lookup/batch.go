package lookup

import "strings"

// QueryResult is the outcome of one query: the original text and the records
// it selected, in reference-table row order.
type QueryResult struct {
	Query   string
	Records []*Record
}

// Found reports whether the query selected at least one record.
func (q QueryResult) Found() bool { return len(q.Records) > 0 }

// BatchResult partitions a batch into found and not-found queries. The two
// collections are distinct on purpose: display and export consumers render
// them as separate tables. Query order is preserved within each collection.
type BatchResult struct {
	Found    []QueryResult
	NotFound []string
}

// Matches returns the total number of records selected across all found
// queries (records selected by several queries are counted per query).
func (b *BatchResult) Matches() int {
	n := 0
	for _, q := range b.Found {
		n += len(q.Records)
	}
	return n
}

// Queries returns the number of queries processed in the batch.
func (b *BatchResult) Queries() int { return len(b.Found) + len(b.NotFound) }

// SplitQueries turns free-form multi-line input into individual queries,
// one per line, with surrounding whitespace trimmed and blank lines dropped.
func SplitQueries(input string) []string {
	var queries []string
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		queries = append(queries, line)
	}
	return queries
}

// SearchBatch runs Search once per query and classifies each as found or
// not found. Whitespace-only queries are skipped before reaching the
// matcher. Each query is independent; evaluation order does not affect
// results.
func (idx *Index) SearchBatch(aliases *AliasIndex, queries []string) *BatchResult {
	res := &BatchResult{}
	for _, query := range queries {
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		recs := idx.Search(aliases, query)
		if len(recs) > 0 {
			res.Found = append(res.Found, QueryResult{Query: query, Records: recs})
		} else {
			res.NotFound = append(res.NotFound, query)
		}
	}
	return res
}
