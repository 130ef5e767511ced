package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/conorfennell/trivia/internal/domain"
	"github.com/conorfennell/trivia/internal/middleware"
	"github.com/conorfennell/trivia/internal/session"
	"github.com/conorfennell/trivia/internal/view"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

// Options configures the server beyond its view.
type Options struct {
	SecureCookies  bool
	AllowedOrigins []string
	// Health reports whether the server's dependencies are usable.
	Health func(ctx context.Context) error
}

// Server is the HTTP frontend of the question browser.
type Server struct {
	view      *view.QuestionView
	router    chi.Router
	templates *template.Template
	logger    *slog.Logger
	opts      Options
}

// NewServer creates and configures a new server.
func NewServer(qv *view.QuestionView, logger *slog.Logger, opts Options) (*Server, error) {
	tpl, err := template.New("trivia").Funcs(template.FuncMap{
		"difficulties": func() []int { return []int{1, 2, 3, 4, 5} },
	}).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		view:      qv,
		router:    chi.NewRouter(),
		templates: tpl,
		logger:    logger,
		opts:      opts,
	}
	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the middleware stack and routing for the server.
func (s *Server) routes() error {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to create sub-filesystem for static assets: %w", err)
	}

	r := s.router
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(s.logger))
	if len(s.opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   s.opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Content-Type", "HX-Request", "HX-Target", "HX-Current-URL"},
			AllowCredentials: true,
		}).Handler)
	}
	r.Use(chimiddleware.Recoverer)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.sessions)

		r.Get("/", s.handleIndex)
		r.Get("/questions", s.handleSelectPage)
		r.Get("/categories/{id}/questions", s.handleCategory)
		r.Post("/questions/search", s.handleSearch)
		r.Post("/questions/{id}/answer", s.handleToggleAnswer)
		r.Get("/questions/{id}/delete", s.handleConfirmDelete)
		r.Post("/questions/{id}/delete", s.handleDelete)
		r.Get("/questions/new", s.handleNewQuestion)
		r.Post("/questions", s.handleCreateQuestion)
	})
	return nil
}

type sessionKey struct{}

// sessions makes sure every request carries a session id.
func (s *Server) sessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := session.FromRequest(r)
		if id == "" {
			id = session.NewID()
			http.SetCookie(w, session.Cookie(id, s.opts.SecureCookies))
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

// toasts collects the alerts raised while serving one request.
type toasts struct {
	mu       sync.Mutex
	messages []string
}

func (t *toasts) Alert(_ context.Context, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, message)
}

func (t *toasts) list() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.messages...)
}

func viewerFor(r *http.Request) (view.Viewer, *toasts) {
	id, _ := r.Context().Value(sessionKey{}).(string)
	t := &toasts{}
	return view.Viewer{SessionID: id, Alerts: t}, t
}

type viewData struct {
	view.Snapshot
	Toasts []string
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// respond renders the question view after an operation. Request failures
// were already turned into toasts; anything else is a server error.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, who view.Viewer, t *toasts, opErr error) {
	if opErr != nil && !errors.Is(opErr, domain.ErrRequestFailed) {
		s.serverError(w, r, opErr)
		return
	}

	snap, err := s.view.Snapshot(r.Context(), who)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	name := "index"
	if isHTMX(r) {
		name = "question_view"
	}
	s.render(w, r, name, viewData{Snapshot: snap, Toasts: t.list()})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		middleware.GetLogger(r.Context()).Error("Error rendering template", "template", name, "error", err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	middleware.GetLogger(r.Context()).Error("Internal error", "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := domain.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// handleHealth reports whether the frontend can serve requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Health != nil {
		if err := s.opts.Health(r.Context()); err != nil {
			middleware.GetLogger(r.Context()).Error("Health check failed", "error", err)
			http.Error(w, "Health check failed", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleIndex renders the whole page. A browser load starts over from page 1
// with every answer hidden; htmx requests keep the current view.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	who, t := viewerFor(r)
	var err error
	if isHTMX(r) {
		err = s.view.Mount(r.Context(), who)
	} else {
		err = s.view.Reload(r.Context(), who)
	}
	s.respond(w, r, who, t, err)
}

// handleSelectPage switches to ?page=n.
func (s *Server) handleSelectPage(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "Invalid page", http.StatusBadRequest)
			return
		}
		page = n
	}

	who, t := viewerFor(r)
	err := s.view.SelectPage(r.Context(), who, page)
	s.respond(w, r, who, t, err)
}

// handleCategory shows the questions of one category.
func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	who, t := viewerFor(r)
	err := s.view.LoadCategory(r.Context(), who, id)
	s.respond(w, r, who, t, err)
}

// handleSearch shows the questions matching the submitted term.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := r.PostFormValue("search_term")
	who, t := viewerFor(r)
	err := s.view.Search(r.Context(), who, term)
	s.respond(w, r, who, t, err)
}

// handleToggleAnswer shows or hides one answer and re-renders its card.
func (s *Server) handleToggleAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	who, t := viewerFor(r)
	c, err := s.view.ToggleAnswer(r.Context(), who, id)
	if errors.Is(err, domain.ErrQuestionNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil || !isHTMX(r) {
		s.respond(w, r, who, t, err)
		return
	}
	s.render(w, r, "question", c)
}

// handleConfirmDelete asks the user to confirm a delete.
func (s *Server) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.render(w, r, "confirm_delete", map[string]any{
		"ID":     id,
		"Prompt": view.DeletePrompt,
	})
}

// handleDelete carries out the user's answer to the delete confirmation.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	confirmed := r.PostFormValue("confirm") == "yes"

	who, t := viewerFor(r)
	err := s.view.DeleteQuestion(r.Context(), who, id, view.Confirmed(confirmed))
	s.respond(w, r, who, t, err)
}

type formData struct {
	Categories domain.Categories
	Values     domain.NewQuestion
	Errors     map[string]string
	Toasts     []string
	Created    bool
}

// handleNewQuestion renders the add-question form.
func (s *Server) handleNewQuestion(w http.ResponseWriter, r *http.Request) {
	who, t := viewerFor(r)
	if err := s.view.Mount(r.Context(), who); err != nil && !errors.Is(err, domain.ErrRequestFailed) {
		s.serverError(w, r, err)
		return
	}
	s.renderForm(w, r, who, formData{Toasts: t.list()}, http.StatusOK)
}

// handleCreateQuestion validates and submits the add-question form.
func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	who, t := viewerFor(r)

	q := domain.NewQuestion{
		Question: r.PostFormValue("question"),
		Answer:   r.PostFormValue("answer"),
	}
	// Unparseable numbers stay zero and fail validation.
	q.Category, _ = strconv.Atoi(r.PostFormValue("category"))
	q.Difficulty, _ = strconv.Atoi(r.PostFormValue("difficulty"))

	err := s.view.CreateQuestion(r.Context(), who, q)

	var verr *view.ValidationError
	switch {
	case err == nil:
		s.renderForm(w, r, who, formData{Created: true}, http.StatusOK)
	case errors.As(err, &verr):
		s.renderForm(w, r, who, formData{Values: q, Errors: verr.Fields}, http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrRequestFailed):
		s.renderForm(w, r, who, formData{Values: q, Toasts: t.list()}, http.StatusOK)
	default:
		s.serverError(w, r, err)
	}
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, who view.Viewer, data formData, status int) {
	cats, err := s.view.Categories(r.Context(), who)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	data.Categories = cats

	name := "new_question"
	if isHTMX(r) {
		name = "new_question_form"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		middleware.GetLogger(r.Context()).Error("Error rendering template", "template", name, "error", err)
	}
}
