package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/kochwerk/kitchenplan/backend/config"
	"github.com/kochwerk/kitchenplan/backend/internal/api"
	"github.com/kochwerk/kitchenplan/backend/internal/middleware"
	"github.com/kochwerk/kitchenplan/backend/internal/service"
)

// Server wires the HTTP surface over the aggregation engine.
type Server struct {
	router *gin.Engine
	http   *http.Server
	cfg    *config.Config
}

// New builds the router: CORS, the optional Redis-backed sheet cache and
// rate limiter, and every handler group under /api/v1. A nil Redis client
// runs the server without caching or rate limiting.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	router := gin.Default()
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	cache := api.NewSheetCache(redisClient, 15*time.Minute)
	reader := service.NewCatalogService(db)
	production := service.NewProductionService(reader)
	invoice := service.NewInvoiceService(reader)

	v1 := router.Group("/api/v1")
	if redisClient != nil {
		limiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     120,
			KeyPrefix: "ratelimit:api",
		})
		v1.Use(limiter.RateLimitMiddleware())
	}

	api.NewCatalogHandler(db, cache).RegisterRoutes(v1)
	api.NewMenuHandler(db, cache).RegisterRoutes(v1)
	api.NewOrderHandler(db, cache, cfg.OrderCutoffDays).RegisterRoutes(v1)
	api.NewReportHandler(production, invoice, cache).RegisterRoutes(v1)

	return &Server{router: router, cfg: cfg}
}

// Start runs the server until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    s.cfg.ServerHost + ":" + s.cfg.ServerPort,
		Handler: s.router,
	}

	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("listening on %s", s.http.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
