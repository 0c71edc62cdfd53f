package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"seoAnalyzerGO/internal/analyzer"
	"seoAnalyzerGO/internal/config"
	"seoAnalyzerGO/internal/metrics"
	"seoAnalyzerGO/internal/middleware"
	"seoAnalyzerGO/internal/models"
	"seoAnalyzerGO/internal/repository"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// Services are the collaborators the HTTP handlers delegate to.
// A nil Repo disables the history endpoints and a nil Metrics disables exposition.
type Services struct {
	Analyzer *analyzer.Analyzer
	Batch    *analyzer.BatchAnalyzer
	Repo     repository.Repository
	Metrics  *metrics.Metrics
}

// Server represents the HTTP server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	analyzer   *analyzer.Analyzer
	batch      *analyzer.BatchAnalyzer
	repo       repository.Repository
	auth       *middleware.KeycloakAuth
	logger     *slog.Logger
	config     *config.Config
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, svc Services, logger *slog.Logger) *Server {
	if cfg.LogLevel > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logging(logger))
	if svc.Metrics != nil && cfg.Metrics.Enabled {
		router.Use(middleware.Metrics(svc.Metrics))
		router.GET(cfg.Metrics.Path, gin.WrapH(svc.Metrics.Handler()))
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{
		router: router,
		httpServer: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		analyzer: svc.Analyzer,
		batch:    svc.Batch,
		repo:     svc.Repo,
		auth:     middleware.NewKeycloakAuth(cfg.Keycloak, logger),
		logger:   logger,
		config:   cfg,
	}

	s.registerRoutes()

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// registerRoutes sets up all the routes for the server
func (s *Server) registerRoutes() {
	s.router.GET("/health", s.healthHandler)

	public := s.router.Group("/api")
	if rps := s.config.Server.RateLimitRPS; rps > 0 {
		public.Use(middleware.NewRateLimiter(rps, s.config.Server.RateLimitBurst).RateLimit())
	}
	{
		public.POST("/analyze", s.analyzeURLHandler)
		public.POST("/analyze/html", s.analyzeHTMLHandler)
		public.POST("/analyze/batch", s.analyzeBatchHandler)

		public.GET("/reports", s.getReportsHandler)
		public.GET("/reports/:id", s.getReportHandler)
	}

	admin := s.router.Group("/api/admin")
	admin.Use(s.auth.Authenticate(), s.auth.RequireRoles("admin"))
	{
		admin.DELETE("/cache", s.clearCacheHandler)
		admin.GET("/stats", s.getStatsHandler)
	}
}

func (s *Server) errorJSON(c *gin.Context, status int, message string, err error) {
	resp := models.ErrorResponse{StatusCode: status, Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}

// analysisStatus maps an analysis failure to an HTTP status
func analysisStatus(err error) int {
	var retrievalErr *analyzer.RetrievalError
	switch {
	case errors.Is(err, analyzer.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.As(err, &retrievalErr):
		if retrievalErr.Timeout() {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// healthHandler handles health check requests
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"history": s.repo != nil,
		"time":    time.Now().Format(time.RFC3339),
	})
}

// analyzeURLHandler fetches and analyzes a URL
func (s *Server) analyzeURLHandler(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorJSON(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	s.logger.Info("Analyzing URL", "url", req.URL)
	report, err := s.analyzer.Analyze(c.Request.Context(), req.URL)
	if err != nil {
		status := analysisStatus(err)
		s.logger.Warn("Failed to analyze URL", "url", req.URL, "status", status, "error", err)
		s.errorJSON(c, status, "Failed to analyze URL: "+req.URL, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// analyzeHTMLHandler analyzes HTML supplied by the caller
func (s *Server) analyzeHTMLHandler(c *gin.Context) {
	var req models.AnalyzeHTMLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorJSON(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	report, err := s.analyzer.AnalyzeHTML(c.Request.Context(), req.URL, req.HTML)
	if err != nil {
		s.errorJSON(c, analysisStatus(err), "Failed to analyze HTML", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// analyzeBatchHandler analyzes several URLs, reporting per-URL failures in the body
func (s *Server) analyzeBatchHandler(c *gin.Context) {
	var req models.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorJSON(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	s.logger.Info("Analyzing batch", "urls", len(req.URLs))
	result, err := s.batch.AnalyzeURLs(c.Request.Context(), req.URLs)
	if err != nil {
		s.errorJSON(c, http.StatusServiceUnavailable, "Batch analysis interrupted", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) historyEnabled(c *gin.Context) bool {
	if s.repo == nil {
		s.errorJSON(c, http.StatusServiceUnavailable, "Report history is disabled", nil)
		return false
	}
	return true
}

// getReportHandler returns one stored report
func (s *Server) getReportHandler(c *gin.Context) {
	if !s.historyEnabled(c) {
		return
	}

	id := c.Param("id")
	report, err := s.repo.GetReport(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			s.errorJSON(c, http.StatusBadRequest, "Invalid report ID", err)
			return
		}
		s.logger.Error("Failed to get report", "id", id, "error", err)
		s.errorJSON(c, http.StatusInternalServerError, "Failed to get report", err)
		return
	}

	if report == nil {
		s.errorJSON(c, http.StatusNotFound, "Report not found", nil)
		return
	}

	c.JSON(http.StatusOK, report)
}

// getReportsHandler returns recent reports, optionally for one URL
func (s *Server) getReportsHandler(c *gin.Context) {
	if !s.historyEnabled(c) {
		return
	}

	limit := defaultHistoryLimit
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		limit = min(n, maxHistoryLimit)
	}

	ctx := c.Request.Context()
	var (
		reports []*models.SEOAnalysis
		err     error
	)
	if rawURL := c.Query("url"); rawURL != "" {
		pageURL, normErr := analyzer.NormalizeURL(rawURL)
		if normErr != nil {
			s.errorJSON(c, http.StatusBadRequest, "Invalid URL", normErr)
			return
		}
		reports, err = s.repo.GetReportsByURL(ctx, pageURL, limit)
	} else {
		reports, err = s.repo.GetRecentReports(ctx, limit)
	}
	if err != nil {
		s.logger.Error("Failed to get reports", "error", err)
		s.errorJSON(c, http.StatusInternalServerError, "Failed to get reports", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(reports),
		"reports": reports,
	})
}

// clearCacheHandler drops one cached report, or all of them when no url is given
func (s *Server) clearCacheHandler(c *gin.Context) {
	ctx := c.Request.Context()
	rawURL := c.Query("url")

	var err error
	if rawURL != "" {
		err = s.analyzer.Invalidate(ctx, rawURL)
	} else {
		err = s.analyzer.ClearCache(ctx)
	}
	if err != nil {
		if errors.Is(err, analyzer.ErrInvalidURL) {
			s.errorJSON(c, http.StatusBadRequest, "Invalid URL", err)
			return
		}
		s.logger.Error("Failed to clear cache", "url", rawURL, "error", err)
		s.errorJSON(c, http.StatusInternalServerError, "Failed to clear cache", err)
		return
	}

	s.logger.Info("Cache cleared", "url", rawURL)
	c.Status(http.StatusNoContent)
}

// getStatsHandler handles requests to get admin stats
func (s *Server) getStatsHandler(c *gin.Context) {
	if !s.historyEnabled(c) {
		return
	}

	stats, err := s.repo.GetStats(c.Request.Context())
	if err != nil {
		s.logger.Error("Failed to get stats", "error", err)
		s.errorJSON(c, http.StatusInternalServerError, "Failed to get stats", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
