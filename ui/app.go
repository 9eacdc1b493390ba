package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"

	"govista/app"
	"govista/internal"
)

//go:embed templates/* about.md
var embeddedFiles embed.FS

// App is the dashboard HTTP application: a JSON API over the analytics
// service plus a minimal HTML index. All chart rendering happens client
// side; the server only ever returns computed data.
type App struct {
	router    *chi.Mux
	service   *app.AnalyticsService
	templates *template.Template
	aboutHTML template.HTML
	port      string
	log       *internal.Logger
}

// Config holds UI application configuration
type Config struct {
	Port string
}

// NewApp creates the dashboard application over a wired analytics service
func NewApp(config Config, service *app.AnalyticsService) (*App, error) {
	templates, err := template.New("").ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	aboutSrc, err := embeddedFiles.ReadFile("about.md")
	if err != nil {
		return nil, fmt.Errorf("failed to read about text: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		templates: templates,
		aboutHTML: template.HTML(markdown.ToHTML(aboutSrc, nil, nil)),
		port:      config.Port,
		log:       internal.DefaultLogger,
	}

	a.setupMiddleware()
	a.setupRoutes()
	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/healthz", a.handleHealth)

	a.router.Get("/api/indicators", a.handleIndicators)
	a.router.Get("/api/observations", a.handleObservations)
	a.router.Get("/api/series/{indicator}", a.handleSeries)
	a.router.Get("/api/pivot", a.handlePivot)
	a.router.Get("/api/correlation", a.handleCorrelation)
	a.router.Get("/api/compare", a.handleCompare)
	a.router.Get("/api/summary", a.handleSummary)
	a.router.Get("/api/distribution/{indicator}", a.handleDistribution)
}

// Router exposes the configured router, mainly for tests
func (a *App) Router() http.Handler {
	return a.router
}

// Start runs the HTTP server until it fails
func (a *App) Start() error {
	a.log.Info("dashboard API listening on :%s", a.port)
	return http.ListenAndServe(":"+a.port, a.router)
}
