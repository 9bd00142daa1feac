package http

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-explorer/internal/infra/config"
)

//go:embed templates/*.html
var templatesFS embed.FS

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		errorHandlingMiddleware(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", handler.Health)
	router.GET("/", handler.Console)
	router.POST("/", handler.ConsoleSubmit)

	api := router.Group("/api/v1")
	{
		api.GET("/endpoints", handler.Endpoints)
		api.GET("/weather", handler.Weather)
		api.GET("/trending", handler.Trending)
		api.GET("/lookups/recent", handler.RecentLookups)
		api.GET("/session", handler.Session)
		api.POST("/session/submit", handler.SubmitSession)
		api.DELETE("/session", handler.ResetSession)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
