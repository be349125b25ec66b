// Package dashboard serves the order analysis dashboard over HTTP and websockets.
package dashboard

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rajanjha2004/HotelData/internal/analysis"
	"github.com/rajanjha2004/HotelData/internal/config"
	"github.com/rajanjha2004/HotelData/internal/forecast"
	"github.com/rajanjha2004/HotelData/internal/ingredients"
	"github.com/rajanjha2004/HotelData/internal/loader"
	"github.com/rajanjha2004/HotelData/internal/monitoring"
	"github.com/rajanjha2004/HotelData/internal/notify"
	"github.com/rajanjha2004/HotelData/internal/session"
)

//go:embed templates/*.html
var templates embed.FS

// Server handles dashboard requests
type Server struct {
	router   *gin.Engine
	cfg      *config.Config
	store    *session.Store
	loader   *loader.Loader
	pipeline *analysis.Pipeline
	monitor  *monitoring.Monitor
	sender   notify.Sender
	recipes  ingredients.Recipes
	now      func() time.Time
}

// Option customizes a Server, mainly for tests
type Option func(*Server)

// WithSender replaces the Slack sender
func WithSender(sender notify.Sender) Option {
	return func(s *Server) { s.sender = sender }
}

// WithLoader replaces the data loader
func WithLoader(l *loader.Loader) Option {
	return func(s *Server) { s.loader = l }
}

// WithClock fixes the time used for demo data
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer creates a new dashboard server instance
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	recipes := ingredients.Recipes{}
	if cfg.Ingredients.RecipesFile != "" {
		var err error
		if recipes, err = ingredients.LoadRecipes(cfg.Ingredients.RecipesFile); err != nil {
			return nil, err
		}
		log.Printf("Loaded recipes for %d items from %s", len(recipes), cfg.Ingredients.RecipesFile)
	}

	monitor := monitoring.NewMonitor().WithCollector(monitoring.NewMetricsCollector())
	server := &Server{
		router: gin.Default(),
		cfg:    cfg,
		store:  session.NewStore(),
		loader: loader.New(loader.Options{
			Location: cfg.Location(),
			SQLTable: cfg.Data.SQLTable,
			S3Region: cfg.S3.Region,
		}),
		pipeline: analysis.NewPipeline(forecast.New(), monitor, analysis.Options{
			HourlyRates: cfg.HourlyRates(),
			ShiftHours:  cfg.Staffing.ShiftHours,
			Thresholds:  cfg.Ingredients.Thresholds,
		}),
		monitor: monitor,
		recipes: recipes,
		now:     time.Now,
	}
	if cfg.Notify.Slack.Enabled() {
		server.sender = notify.NewSlackSender(cfg.Notify.Slack)
	}
	for _, opt := range opts {
		opt(server)
	}

	server.setupRoutes()
	return server, nil
}

// setupRoutes configures the dashboard routes
func (s *Server) setupRoutes() {
	s.router.MaxMultipartMemory = s.cfg.Server.MaxUploadMB << 20
	s.router.SetHTMLTemplate(template.Must(template.ParseFS(templates, "templates/*.html")))

	s.router.GET("/", s.handleHome)
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(s.monitor.Collector().Handler()))
	s.router.GET("/ws/sessions/:id", s.handleWebSocket)

	api := s.router.Group("/api")
	{
		api.GET("/stats", s.handleStats)

		api.POST("/sessions", s.handleCreateSession)
		api.GET("/sessions/:id", s.handleGetSession)
		api.DELETE("/sessions/:id", s.handleDeleteSession)

		api.GET("/sessions/:id/report", s.handleReport)
		api.GET("/sessions/:id/overview", s.handleOverview)
		api.GET("/sessions/:id/aggregate", s.handleAggregate)
		api.GET("/sessions/:id/forecast", s.handleForecast)
		api.GET("/sessions/:id/staffing", s.handleStaffing)
		api.GET("/sessions/:id/ingredients", s.handleIngredients)
		api.GET("/sessions/:id/revenue", s.handleRevenue)
		api.POST("/sessions/:id/alerts", s.handleAlerts)
	}
}

// Router returns the Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Store returns the session store
func (s *Server) Store() *session.Store {
	return s.store
}

func (s *Server) handleHome(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"title":       "Hotel Order Analysis",
		"granularity": s.cfg.Forecast.Granularity,
		"horizon":     s.cfg.Forecast.Horizon,
		"confidence":  s.cfg.Forecast.Confidence,
		"ratio":       s.cfg.Staffing.Ratio,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.store.Len()})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.GetMetrics())
}
