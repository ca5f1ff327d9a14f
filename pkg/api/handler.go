package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hazyhaar/ingredient-registry/pkg/kit"
	"github.com/hazyhaar/ingredient-registry/pkg/report"
	"github.com/hazyhaar/ingredient-registry/pkg/source"
	"github.com/hazyhaar/ingredient-registry/pkg/store"
)

// NewRouter returns an http.Handler with all lookup API routes. runLog may
// be nil, which disables run recording and the /v1/runs listing.
func NewRouter(cat *source.Catalog, runLog *store.RunLog) http.Handler {
	mux := http.NewServeMux()
	logger := slog.Default()
	h := &handler{
		searchTerm:  instrument(logger, "search_term")(searchTermEndpoint(cat)),
		searchBatch: instrument(logger, "search_batch")(searchBatchEndpoint(cat, runLog)),
		status:      instrument(logger, "status")(statusEndpoint(cat)),
		cat:         cat,
		runLog:      runLog,
	}

	mux.HandleFunc("GET /v1/search/batch", methodNotAllowed) // prevent GET on batch
	mux.HandleFunc("POST /v1/search/batch", h.handleSearchBatch)
	mux.HandleFunc("GET /v1/search/{term}", h.handleSearchTerm)
	mux.HandleFunc("POST /v1/report", h.handleReport)
	mux.HandleFunc("GET /v1/status", h.handleStatus)
	mux.HandleFunc("GET /v1/runs", h.handleRuns)
	mux.HandleFunc("POST /v1/reload", h.handleReload)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	return cors(httpRequestID(mux))
}

type handler struct {
	searchTerm  kit.Endpoint
	searchBatch kit.Endpoint
	status      kit.Endpoint
	cat         *source.Catalog
	runLog      *store.RunLog
}

// --- search single term ---

func (h *handler) handleSearchTerm(w http.ResponseWriter, r *http.Request) {
	term := r.PathValue("term")
	if term == "" {
		writeError(w, http.StatusBadRequest, "missing term")
		return
	}

	resp, err := h.searchTerm(r.Context(), &searchTermReq{Term: term})
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- search batch ---

type httpBatchRequest struct {
	Terms []string `json:"terms"`
}

func (h *handler) handleSearchBatch(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBatch(w, r)
	if !ok {
		return
	}

	resp, err := h.searchBatch(r.Context(), &searchBatchReq{Terms: req.Terms})
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- xlsx report download ---

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBatch(w, r)
	if !ok {
		return
	}
	if !h.cat.Ready() {
		writeError(w, http.StatusServiceUnavailable, ErrUnavailable.Error())
		return
	}
	if len(req.Terms) == 0 {
		writeError(w, http.StatusBadRequest, "terms array is empty")
		return
	}

	batch := h.cat.SearchBatch(req.Terms)

	// Buffer the workbook so a serialization failure still yields a clean
	// JSON error instead of a truncated download.
	var buf bytes.Buffer
	if err := report.Write(&buf, batch, h.cat.Columns()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="lookup-report.xlsx"`)
	w.Write(buf.Bytes())
}

// --- status / runs / reload / health ---

func (h *handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := h.status(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleRuns(w http.ResponseWriter, r *http.Request) {
	if h.runLog == nil {
		writeError(w, http.StatusNotFound, "run log not configured")
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	runs, err := h.runLog.Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (h *handler) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.cat.Reload(); err != nil {
		if errors.Is(err, source.ErrSourceMissing) {
			writeError(w, http.StatusServiceUnavailable, ErrUnavailable.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.cat.Status())
}

type healthResponse struct {
	Status        string `json:"status"`
	Records       int    `json:"records"`
	AliasEntries  int    `json:"alias_entries"`
	AliasDegraded bool   `json:"alias_degraded"`
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	st := h.cat.Status()
	status := "ok"
	if !st.ReferenceLoaded {
		status = "unavailable"
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        status,
		Records:       st.Records,
		AliasEntries:  st.AliasEntries,
		AliasDegraded: st.AliasDegraded,
	})
}

// --- helpers ---

func decodeBatch(w http.ResponseWriter, r *http.Request) (*httpBatchRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024) // 64 KiB max
	var req httpBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	return &req, true
}

func writeEndpointError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrUnavailable) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
