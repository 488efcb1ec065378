package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ndc-analytics/ndcsearch/internal/domain"
	domcatalog "github.com/ndc-analytics/ndcsearch/internal/domain/catalog"
	domchat "github.com/ndc-analytics/ndcsearch/internal/domain/chat"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/engine"
	"github.com/ndc-analytics/ndcsearch/internal/domain/search/result"
	"github.com/ndc-analytics/ndcsearch/internal/feed"
	"github.com/ndc-analytics/ndcsearch/internal/refdata"
	"github.com/ndc-analytics/ndcsearch/internal/session"
	chatuc "github.com/ndc-analytics/ndcsearch/internal/usecase/chat"
	healthuc "github.com/ndc-analytics/ndcsearch/internal/usecase/health"
	searchuc "github.com/ndc-analytics/ndcsearch/internal/usecase/search"

	dompanel "github.com/ndc-analytics/ndcsearch/internal/domain/panel"
)

// Error codes returned to clients.
const (
	codeBadRequest         = "bad_request"
	codeInvalidRequest     = "invalid_request"
	codeSessionNotFound    = "session_not_found"
	codeBackendUnavailable = "backend_unavailable"
	codeInternalError      = "internal_error"
)

// SearchService runs aggregated document searches.
type SearchService interface {
	Search(ctx context.Context, params searchuc.Params) ([]result.Aggregated, error)
}

// PanelService builds dense country-by-year panels.
type PanelService interface {
	Build(ctx context.Context, params searchuc.Params) ([]dompanel.Row, error)
}

// CatalogService provides the corpus catalog.
type CatalogService interface {
	Metadata(ctx context.Context) (domcatalog.Metadata, error)
}

// ChatService answers conversation turns.
type ChatService interface {
	Respond(ctx context.Context, history domchat.History, question string) chatuc.Reply
}

// SessionStore manages conversations.
type SessionStore interface {
	Create() *session.Session
	Get(id string) (*session.Session, error)
	AppendTurn(id, question, answer string) error
}

// FeedClient fetches the registry news feed.
type FeedClient interface {
	Fetch(ctx context.Context) ([]feed.Item, error)
}

// HealthService runs component health checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API surface.
type Server struct {
	search        SearchService
	panel         PanelService
	catalog       CatalogService
	chat          ChatService
	sessions      SessionStore
	feed          FeedClient
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search SearchService,
	panel PanelService,
	catalog CatalogService,
	chat ChatService,
	sessions SessionStore,
	feedClient FeedClient,
	health HealthService,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:   search,
		panel:    panel,
		catalog:  catalog,
		chat:     chat,
		sessions: sessions,
		feed:     feedClient,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeInvalidRequest),
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, codeSessionNotFound),
		sentinelHandler(domain.ErrBackendUnavailable, http.StatusBadGateway, codeBackendUnavailable),
	}
	return s
}

// Mount registers all API routes on the router.
func Mount(r chi.Router, s *Server) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.Search)
		r.Post("/panel", s.Panel)
		r.Get("/metadata", s.Metadata)
		r.Get("/engines", s.Engines)
		r.Get("/feed", s.Feed)
		r.Post("/sessions", s.CreateSession)
		r.Post("/sessions/{id}/ask", s.Ask)
	})
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params, ok := s.decodeSearchParams(w, r)
	if !ok {
		return
	}

	results, err := s.search.Search(r.Context(), params)
	if errors.Is(err, domain.ErrBackendUnavailable) {
		// The index being down must not take the UI with it.
		s.logger.Warn("Search degraded, index unavailable", zap.Error(err))
		writeJSON(w, http.StatusOK, searchResponse{
			Results:  []searchResultItem{},
			Degraded: true,
		})
		return
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]searchResultItem, len(results))
	for i := range results {
		items[i] = searchResultToItem(&results[i])
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: items, Total: len(items)})
}

// Panel handles POST /api/v1/panel.
func (s *Server) Panel(w http.ResponseWriter, r *http.Request) {
	params, ok := s.decodeSearchParams(w, r)
	if !ok {
		return
	}

	rows, err := s.panel.Build(r.Context(), params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]panelRowItem, len(rows))
	for i, row := range rows {
		items[i] = panelRowToItem(row)
	}
	writeJSON(w, http.StatusOK, panelResponse{Rows: items})
}

// Metadata handles GET /api/v1/metadata.
func (s *Server) Metadata(w http.ResponseWriter, r *http.Request) {
	meta, err := s.catalog.Metadata(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metadataToResponse(meta))
}

// Engines handles GET /api/v1/engines.
func (s *Server) Engines(w http.ResponseWriter, _ *http.Request) {
	engines := engine.All()
	items := make([]engineItem, len(engines))
	for i, e := range engines {
		items[i] = engineItem{ID: e.ID(), Name: e.String()}
	}
	writeJSON(w, http.StatusOK, enginesResponse{Engines: items})
}

// Feed handles GET /api/v1/feed. A feed outage degrades to an empty list
// with a notice instead of an error.
func (s *Server) Feed(w http.ResponseWriter, r *http.Request) {
	items, err := s.feed.Fetch(r.Context())
	if err != nil {
		s.logger.Warn("Feed unavailable", zap.Error(err))
		writeJSON(w, http.StatusOK, feedResponse{
			Items:  []feedItem{},
			Notice: "The news feed is temporarily unavailable.",
		})
		return
	}

	out := make([]feedItem, len(items))
	for i, item := range items {
		out[i] = feedItem{
			GUID:        item.GUID,
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
			Date:        item.Date,
			Creator:     item.Creator,
		}
	}
	writeJSON(w, http.StatusOK, feedResponse{Items: out})
}

// CreateSession handles POST /api/v1/sessions.
func (s *Server) CreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID: sess.ID,
		CreatedAt: sess.CreatedAt,
	})
}

// Ask handles POST /api/v1/sessions/{id}/ask. The reply streams as
// server-sent events: one "delta" event per text chunk, then a final
// "done" event carrying the reply kind.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "Question is required")
		return
	}

	sess, err := s.sessions.Get(id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	reply := s.chat.Respond(r.Context(), sess.History, req.Question)
	defer reply.Stream.Close()

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, codeInternalError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	answer := s.drainStream(w, flusher, reply)

	// Substitute replies are part of the transcript too, so the model sees
	// what the user saw on the next turn.
	if err := s.sessions.AppendTurn(id, req.Question, answer); err != nil {
		s.logger.Warn("Failed to record conversation turn",
			zap.String("session_id", id), zap.Error(err))
	}
}

// drainStream forwards the reply stream as SSE and returns the full text.
func (s *Server) drainStream(w http.ResponseWriter, flusher http.Flusher, reply chatuc.Reply) string {
	var answer []byte
	for {
		chunk, err := reply.Stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.logger.Error("Reply stream interrupted", zap.Error(err))
			writeEvent(w, "error", errorResponse{
				Code:    codeInternalError,
				Message: "answer stream interrupted",
			})
			flusher.Flush()
			break
		}
		answer = append(answer, chunk...)
		writeEvent(w, "delta", deltaEvent{Text: chunk})
		flusher.Flush()
	}

	writeEvent(w, "done", doneEvent{Kind: string(reply.Kind)})
	flusher.Flush()
	return string(answer)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeSearchParams parses the shared search/panel request body. Writes the
// error response itself and returns false when the body is invalid.
func (s *Server) decodeSearchParams(w http.ResponseWriter, r *http.Request) (searchuc.Params, bool) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return searchuc.Params{}, false
	}

	eng, err := engine.Parse(req.Engine)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return searchuc.Params{}, false
	}

	from, err := parseDate(req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "Invalid from date: "+err.Error())
		return searchuc.Params{}, false
	}
	to, err := parseDate(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "Invalid to date: "+err.Error())
		return searchuc.Params{}, false
	}

	return searchuc.Params{
		Engine:    eng,
		Query:     req.Query,
		Geography: req.Geography,
		Category:  req.Category,
		Version:   req.Version,
		From:      from,
		To:        to,
	}, true
}

// parseDate parses an ISO date (YYYY-MM-DD); empty means unset.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// writeEvent emits one server-sent event with a JSON payload.
func writeEvent(w http.ResponseWriter, event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrSessionNotFound,
		domain.ErrBackendUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func searchResultToItem(r *result.Aggregated) searchResultItem {
	matches := make([]matchItem, len(r.Matches))
	for i, m := range r.Matches {
		matches[i] = matchItem{Pages: displayPages(m.Pages), Text: m.Text, Score: m.Score}
	}
	return searchResultItem{
		FileName: r.FileName,
		Language: refdata.LanguageName(r.Language),
		ISO:      r.ISO,
		Party:    r.Party,
		Date:     r.Date,
		Version:  r.Version,
		Title:    r.Title,
		Type:     string(r.Type),
		URL:      r.URL,
		Matches:  matches,
		Count:    r.Count,
		Score:    r.Score,
	}
}

// displayPages converts zero-indexed stored pages to the printed numbering.
func displayPages(pages []int) []int {
	if len(pages) == 0 {
		return nil
	}
	out := make([]int, len(pages))
	for i, p := range pages {
		out[i] = p + 1
	}
	return out
}

func panelRowToItem(row dompanel.Row) panelRowItem {
	item := panelRowItem{
		ISO:         row.ISO,
		Party:       row.Party,
		Year:        row.Year,
		Title:       row.Title,
		Version:     row.Version,
		HasDocument: row.HasDocument,
		Count:       row.Count,
	}
	if !row.Date.IsZero() {
		d := row.Date
		item.Date = &d
	}
	return item
}

func metadataToResponse(meta domcatalog.Metadata) metadataResponse {
	categories := make([]categoryCountItem, len(meta.Categories))
	for i, c := range meta.Categories {
		categories[i] = categoryCountItem{Category: c.Category, Count: c.Count}
	}
	versions := make([]versionCountItem, len(meta.Versions))
	for i, v := range meta.Versions {
		versions[i] = versionCountItem{Version: v.Version, Parties: v.Parties}
	}
	documents := make([]documentItem, len(meta.Documents))
	for i, d := range meta.Documents {
		documents[i] = documentItem{
			URL:      d.URL,
			ISO:      d.ISO,
			Party:    d.Party,
			Version:  d.Version,
			Language: d.Language,
			Date:     d.Date,
			Title:    d.Title,
			Type:     d.Type,
		}
	}
	return metadataResponse{
		From:       meta.From,
		To:         meta.To,
		Categories: categories,
		Versions:   versions,
		Documents:  documents,
	}
}
