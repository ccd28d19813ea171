package web

import (
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"insurance-dashboard/internal/app"
	"insurance-dashboard/internal/metrics"
	"insurance-dashboard/internal/presentation"
	webui "insurance-dashboard/web"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// Config carries the transport settings for NewHandler.
type Config struct {
	AllowedOrigins string // comma-separated; empty disables CORS
	SessionSecret  string // HMAC key for the session cookie
	SessionTTL     time.Duration
	CookieSecure   bool
	Logger         logrus.FieldLogger
	Metrics        *metrics.Metrics // optional
	Now            func() time.Time // defaults to time.Now
}

// Handler holds the ApplicationService, session cookie settings, and the page templates.
type Handler struct {
	svc          app.ApplicationService
	log          logrus.FieldLogger
	secret       []byte
	sessionTTL   time.Duration
	cookieSecure bool
	fileServer   http.Handler
	pages        *template.Template
	now          func() time.Time
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, cfg Config) http.Handler {
	staticFS, err := fs.Sub(webui.Static, "static")
	if err != nil {
		panic("web/static embed sub-FS failed: " + err.Error())
	}
	pages, err := template.New("pages").Funcs(templateFuncs).ParseFS(webui.Templates, "templates/*.html")
	if err != nil {
		panic("web/templates parse failed: " + err.Error())
	}

	h := &Handler{
		svc:          svc,
		log:          cfg.Logger,
		secret:       []byte(cfg.SessionSecret),
		sessionTTL:   cfg.SessionTTL,
		cookieSecure: cfg.CookieSecure,
		fileServer:   http.FileServer(http.FS(staticFS)),
		pages:        pages,
		now:          cfg.Now,
	}
	if h.now == nil {
		h.now = time.Now
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(Logger(h.log))
	r.Use(Recoverer(h.log))
	r.Use(CORS(cfg.AllowedOrigins))

	// ── Public ───────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Get("/api/presentation/schema", h.displayConfigSchema)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	r.Get("/static/*", func(w http.ResponseWriter, req *http.Request) {
		http.StripPrefix("/static", h.fileServer).ServeHTTP(w, req)
	})

	// ── Browser routes (a visitor without a session gets a fresh one) ────────
	r.Get("/", h.dashboardPage)
	r.Post("/session/end", h.endSessionPage)

	// ── Session API (401 JSON without a valid session cookie) ────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireSession)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/session", h.apiSessionState)
		r.Delete("/api/session", h.apiEndSession)
		r.Post("/api/session/elements", h.apiEmitElement)
		r.Post("/api/session/presentation", h.apiConfigurePresentation)
	})

	return r
}

// health returns service status and the number of live sessions.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}
	writeJSON(w, http.StatusOK, response{Status: "ok", Sessions: h.svc.ActiveSessions()})
}

// displayConfigSchema handles GET /api/presentation/schema.
func (h *Handler) displayConfigSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := h.svc.DisplayConfigSchema()
	if err != nil {
		writeError(w, r, "schema generation failed", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(schema)
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware, HTTP 400 INVALID_CONFIG for an unknown layout or
// sidebar state, and HTTP 400 BAD_REQUEST for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		if errors.Is(err, presentation.ErrInvalidConfig) {
			writeError(w, r, err.Error(), "INVALID_CONFIG", http.StatusBadRequest)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
