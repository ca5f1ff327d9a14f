// Package api exposes the lookup catalog over HTTP and as MCP tools. Both
// transports dispatch to the same kit.Endpoints.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/ingredient-registry/pkg/kit"
	"github.com/hazyhaar/ingredient-registry/pkg/lookup"
	"github.com/hazyhaar/ingredient-registry/pkg/report"
	"github.com/hazyhaar/ingredient-registry/pkg/source"
	"github.com/hazyhaar/ingredient-registry/pkg/store"
)

// ErrUnavailable is returned while the reference table is not loaded.
// Handlers map it to 503: the service refuses queries but stays up.
var ErrUnavailable = errors.New("no database available")

const maxBatchTerms = 100

// Shared request/response types used by both HTTP and MCP transports.

type searchTermReq struct {
	Term string
}

type searchBatchReq struct {
	Terms []string
}

type searchResponse struct {
	Query      string              `json:"query"`
	Normalized string              `json:"normalized"`
	Found      bool                `json:"found"`
	Records    []map[string]string `json:"records,omitempty"`
	Hint       string              `json:"hint,omitempty"`
}

type notFoundItem struct {
	Query string `json:"query"`
	Hint  string `json:"hint"`
}

type batchResponse struct {
	Found    []searchResponse `json:"found"`
	NotFound []notFoundItem   `json:"not_found"`
}

func recordsPayload(recs []*lookup.Record, columns []string) []map[string]string {
	out := make([]map[string]string, len(recs))
	for i, rec := range recs {
		fields := make(map[string]string, len(columns))
		for _, col := range columns {
			fields[col] = rec.Fields[col]
		}
		out[i] = fields
	}
	return out
}

func searchResponseFor(cat *source.Catalog, query string) searchResponse {
	recs := cat.Search(query)
	resp := searchResponse{
		Query:      query,
		Normalized: lookup.Normalize(query),
		Found:      len(recs) > 0,
	}
	if len(recs) > 0 {
		resp.Records = recordsPayload(recs, cat.Columns())
	} else {
		resp.Hint = report.NotFoundHint
	}
	return resp
}

func searchTermEndpoint(cat *source.Catalog) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		if !cat.Ready() {
			return nil, ErrUnavailable
		}
		req := request.(*searchTermReq)
		return searchResponseFor(cat, req.Term), nil
	}
}

func searchBatchEndpoint(cat *source.Catalog, runLog *store.RunLog) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		if !cat.Ready() {
			return nil, ErrUnavailable
		}
		req := request.(*searchBatchReq)
		if len(req.Terms) == 0 {
			return nil, fmt.Errorf("terms array is empty")
		}
		if len(req.Terms) > maxBatchTerms {
			return nil, fmt.Errorf("too many terms (max %d, got %d)", maxBatchTerms, len(req.Terms))
		}

		batch := cat.SearchBatch(req.Terms)
		if runLog != nil {
			if _, err := runLog.Record(batch); err != nil {
				slog.Warn("could not record batch run", "error", err)
			}
		}

		resp := batchResponse{
			Found:    make([]searchResponse, 0, len(batch.Found)),
			NotFound: make([]notFoundItem, 0, len(batch.NotFound)),
		}
		columns := cat.Columns()
		for _, qr := range batch.Found {
			resp.Found = append(resp.Found, searchResponse{
				Query:      qr.Query,
				Normalized: lookup.Normalize(qr.Query),
				Found:      true,
				Records:    recordsPayload(qr.Records, columns),
			})
		}
		for _, q := range batch.NotFound {
			resp.NotFound = append(resp.NotFound, notFoundItem{Query: q, Hint: report.NotFoundHint})
		}
		return resp, nil
	}
}

func statusEndpoint(cat *source.Catalog) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return cat.Status(), nil
	}
}
