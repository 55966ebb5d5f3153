package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/ficfetch"
	"github.com/google/uuid"
)

// ShutdownTimeout bounds how long ListenAndServe waits for in-flight
// requests after its context is cancelled.
const ShutdownTimeout = 5 * time.Second

// Server exposes an ArchiveService as a JSON API.
type Server struct {
	mux    *http.ServeMux
	svc    ficfetch.ArchiveService
	logger *slog.Logger

	// Stats reports cache counters for /health. Optional.
	Stats func() ficfetch.CacheStats
}

// NewServer wires handlers onto an HTTP mux.
func NewServer(svc ficfetch.ArchiveService, logger *slog.Logger) *Server {
	s := &Server{
		mux:    http.NewServeMux(),
		svc:    svc,
		logger: logger,
	}
	s.routes()
	return s
}

// ServeHTTP satisfies the http.Handler interface. Every response carries
// CORS headers and an X-Request-ID; preflight requests are answered
// directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	begin := time.Now()

	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	h := w.Header()
	h.Set("X-Request-ID", requestID)
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "*")
	h.Set("Access-Control-Expose-Headers", "X-Request-ID")

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	if r.Method == http.MethodOptions {
		rec.WriteHeader(http.StatusNoContent)
	} else {
		s.mux.ServeHTTP(rec, r)
	}

	s.logger.Info("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(begin),
		"request_id", requestID,
	)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /story/{id}", s.handleStory)
	s.mux.HandleFunc("GET /search", s.handleSearch)
	s.mux.HandleFunc("GET /trending", s.handleTrending)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok"}
	if s.Stats != nil {
		body["cache"] = s.Stats()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleStory(w http.ResponseWriter, r *http.Request) {
	story, err := s.svc.FindStory(r.Context(), r.PathValue("id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, story)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := ficfetch.SearchFilters{
		Tag:    q.Get("tag"),
		Fandom: q.Get("fandom"),
		Rating: ficfetch.RatingLabel(q.Get("rating")),
		Sort:   q.Get("sort"),
	}

	var err error
	if filters.CompletedOnly, err = boolParam(q.Get("complete")); err != nil {
		s.Error(w, r, err)
		return
	}
	if filters.Page, err = pageParam(q.Get("page")); err != nil {
		s.Error(w, r, err)
		return
	}

	hits, err := s.svc.Search(r.Context(), filters)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeHits(w, hits)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r.URL.Query().Get("page"))
	if err != nil {
		s.Error(w, r, err)
		return
	}

	hits, err := s.svc.Trending(r.Context(), page)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeHits(w, hits)
}

// Error writes err as a JSON error body with the status its code maps to.
// Messages of internal errors are not exposed.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, status := ficfetch.ErrorCode(err), ErrorStatus(err)

	msg := ficfetch.ErrorMessage(err)
	if code == ficfetch.EINTERNAL {
		msg = "Internal error."
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", code,
			"err", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

// ErrorStatus maps an application error to an HTTP status. An upstream
// 404 stays a 404; other upstream failures are reported as 502.
func ErrorStatus(err error) int {
	switch ficfetch.ErrorCode(err) {
	case ficfetch.EINVALID:
		return http.StatusBadRequest
	case ficfetch.ENOTFOUND:
		return http.StatusNotFound
	case ficfetch.EUPSTREAM:
		if ficfetch.UpstreamStatus(err) == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	case ficfetch.EEXTRACT:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, ficfetch.Errorf(ficfetch.EINVALID, "complete must be true or false")
	}
	return b, nil
}

// pageParam parses a 1-based page number; empty means the first page.
func pageParam(v string) (int, error) {
	if v == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, ficfetch.Errorf(ficfetch.EINVALID, "page must be a positive integer")
	}
	return n, nil
}

// writeHits encodes an empty listing as [] rather than null.
func writeHits(w http.ResponseWriter, hits []*ficfetch.SearchHit) {
	if hits == nil {
		hits = []*ficfetch.SearchHit{}
	}
	writeJSON(w, http.StatusOK, hits)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
