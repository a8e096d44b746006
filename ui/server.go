package ui

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"winesense/adapters/excel"
	"winesense/app"
	"winesense/internal"
	"winesense/ports"

	"github.com/gin-gonic/gin"
)

// Server represents the web server for the prediction UI
type Server struct {
	router        *gin.Engine
	service       *app.InferenceService
	history       ports.PredictionRepository
	exporter      *excel.Exporter
	templates     *template.Template
	embeddedFiles fs.FS
	modelCardPath string
	logger        *internal.Logger
}

// NewServer creates a new web server instance
func NewServer(embeddedFiles fs.FS) *Server {
	return &Server{
		router:        gin.Default(),
		embeddedFiles: embeddedFiles,
		exporter:      excel.NewExporter(),
		logger:        internal.DefaultLogger,
	}
}

// Initialize sets up the server with dependencies. history may be nil,
// which disables the history pages.
func (s *Server) Initialize(service *app.InferenceService, history ports.PredictionRepository, modelCardPath string) error {
	s.service = service
	s.history = history
	s.modelCardPath = modelCardPath

	funcMap := template.FuncMap{
		// Confidence display rounding lives here, not in the inference
		// service: the service hands out raw probabilities.
		"pct": func(v float64) string { return fmt.Sprintf("%.2f", v*100) },
		"mul": func(a, b float64) float64 { return a * b },
		"add": func(a, b int) int { return a + b },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(s.embeddedFiles, "ui/templates/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = templates

	s.setupStatic()
	s.setupRoutes()
	return nil
}

func (s *Server) setupStatic() {
	staticFS, err := fs.Sub(s.embeddedFiles, "ui/static")
	if err != nil {
		s.logger.Warn("static assets unavailable: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/predict", s.handlePredict)
	s.router.GET("/about", s.handleAbout)
	s.router.GET("/history", s.handleHistory)
	s.router.GET("/history/export", s.handleHistoryExport)

	// JSON API
	s.router.GET("/healthz", s.handleHealth)
	s.router.POST("/api/predict", s.handleAPIPredict)
	s.router.GET("/api/importances", s.handleAPIImportances)
	s.router.GET("/api/presets", s.handleAPIPresets)
}

// Start runs the HTTP server on addr
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the underlying engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(c.Writer, templateName, data); err != nil {
		s.logger.Error("template %s failed: %v", templateName, err)
		c.String(http.StatusInternalServerError, "template rendering failed")
	}
}
