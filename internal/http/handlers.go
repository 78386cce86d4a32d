package http

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"drspecialist/internal/core"
	"drspecialist/internal/logger"
	"drspecialist/pkg"
)

//go:embed templates/*.html
var templateFS embed.FS

// StatsSource aggregates the inquiry log.
type StatsSource interface {
	SpecialistStats(ctx context.Context, limit int) ([]pkg.SpecialistCount, error)
}

// Options configures a Server.
type Options struct {
	// CookieName names the session cookie.  Defaults to "drs_session".
	CookieName string
	// QueryTimeout bounds one symptom analysis.  Zero means no extra bound.
	QueryTimeout time.Duration
	// Stats serves /api/inquiries/stats; nil when the inquiry log is off.
	Stats StatsSource
}

// Server bundles together the dependencies required by HTTP handlers.  It
// implements http.Handler so it can be passed to http.Server.
type Server struct {
	Controller *core.Controller
	Analyzer   core.Analyzer
	Stats      StatsSource
	Templates  *template.Template

	cookieName   string
	queryTimeout time.Duration
	logger       logger.Logger
	router       *mux.Router
}

// NewServer constructs a Server and its routes.  Templates are compiled
// into the binary.
func NewServer(ctrl *core.Controller, analyzer core.Analyzer, log logger.Logger, opts Options) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	if opts.CookieName == "" {
		opts.CookieName = "drs_session"
	}
	s := &Server{
		Controller:   ctrl,
		Analyzer:     analyzer,
		Stats:        opts.Stats,
		Templates:    tmpl,
		cookieName:   opts.CookieName,
		queryTimeout: opts.QueryTimeout,
		logger:       log.With(map[string]interface{}{"component": "http"}),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/analyze", s.handleAnalyzeAPI).Methods(http.MethodPost)
	api.HandleFunc("/directory", s.handleDirectoryAPI).Methods(http.MethodGet)
	api.HandleFunc("/inquiries/stats", s.handleStatsAPI).Methods(http.MethodGet)

	pages := r.NewRoute().Subrouter()
	pages.Use(s.withSession)
	pages.HandleFunc("/", s.handlePage(pkg.ViewHome)).Methods(http.MethodGet)
	pages.HandleFunc("/search", s.handlePage(pkg.ViewSearch)).Methods(http.MethodGet)
	pages.HandleFunc("/search", s.handleSubmit).Methods(http.MethodPost)
	pages.HandleFunc("/reset", s.handleReset).Methods(http.MethodPost)
	pages.HandleFunc("/browse", s.handlePage(pkg.ViewBrowse)).Methods(http.MethodGet)
	pages.HandleFunc("/about", s.handlePage(pkg.ViewAbout)).Methods(http.MethodGet)
	return r
}

// ServeHTTP dispatches to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type pageData struct {
	View       pkg.View
	State      *core.ViewState
	QuickPicks []string
	Popular    []pkg.DirectoryEntry
	Directory  []pkg.DirectoryEntry
	Disclaimer string
}

// handlePage switches the session to view and renders it.
func (s *Server) handlePage(view pkg.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := s.Controller.Navigate(r.Context(), sessionID(r.Context()), view)
		if err != nil {
			s.serverError(w, "navigate", err)
			return
		}
		s.render(w, r, st)
	}
}

// handleSubmit runs the symptom query from the form and renders the search
// view.  A blank query just re-renders the current state.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ctx, cancel := s.queryContext(r.Context())
	defer cancel()

	st, err := s.Controller.Submit(ctx, sessionID(r.Context()), r.FormValue("query"))
	if err != nil {
		s.serverError(w, "submit", err)
		return
	}
	s.render(w, r, st)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	st, err := s.Controller.Reset(r.Context(), sessionID(r.Context()))
	if err != nil {
		s.serverError(w, "reset", err)
		return
	}
	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, st)
}

// render writes the full page, or only the main region for HTMX requests.
func (s *Server) render(w http.ResponseWriter, r *http.Request, st *core.ViewState) {
	data := pageData{
		View:       st.View,
		State:      st,
		QuickPicks: core.QuickPicks,
		Popular:    core.Popular(8),
		Directory:  core.Directory(),
		Disclaimer: core.Disclaimer,
	}
	name := "layout.html"
	if isHTMX(r) {
		name = "main"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("failed to render template", map[string]interface{}{"template": name, "error": err.Error()})
	}
}

type analyzeRequest struct {
	Query string `json:"query"`
}

// handleAnalyzeAPI is the stateless JSON form of a symptom query.
func (s *Server) handleAnalyzeAPI(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query must not be empty")
		return
	}

	ctx, cancel := s.queryContext(r.Context())
	defer cancel()
	res, err := s.Analyzer.Analyze(ctx, req.Query)
	switch {
	case errors.Is(err, core.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, "query must not be empty")
	case err != nil:
		writeError(w, http.StatusBadGateway, core.FailureMessage)
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleDirectoryAPI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.Directory())
}

func (s *Server) handleStatsAPI(w http.ResponseWriter, r *http.Request) {
	if s.Stats == nil {
		writeJSON(w, http.StatusOK, []pkg.SpecialistCount{})
		return
	}
	stats, err := s.Stats.SpecialistStats(r.Context(), 20)
	if err != nil {
		s.logger.Error("failed to load inquiry stats", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "stats unavailable")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// serverError logs err and answers with a generic 500.  Internal error text
// never reaches the page.
func (s *Server) serverError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("request failed", map[string]interface{}{"op": op, "error": err.Error()})
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
