package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alimgiray/userfinder/internal/handlers"
	"github.com/alimgiray/userfinder/internal/middleware"
	"github.com/alimgiray/userfinder/internal/services"
	"github.com/alimgiray/userfinder/pkg/config"
	"github.com/alimgiray/userfinder/pkg/logger"
	"github.com/alimgiray/userfinder/web"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.AppConfig

	logger.Init(cfg.Log.Level)
	gin.SetMode(cfg.Server.Mode)

	// Initialize GitHub client
	directory, err := services.NewGitHubService(cfg.GitHub.APIURL, nil)
	if err != nil {
		logger.Fatalf("Failed to create GitHub client: %v", err)
	}

	// Card fetches live until the server stops
	serverCtx, stopCards := context.WithCancel(context.Background())
	defer stopCards()

	registry := services.NewPanelRegistry(time.Duration(cfg.Session.TTLHours)*time.Hour, newPanelFactory(serverCtx, cfg, directory))
	defer registry.Close()

	router, err := setupRouter(cfg, directory, registry)
	if err != nil {
		logger.Fatalf("Failed to set up router: %v", err)
	}

	// Setup server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down server...")
	stopCards()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
	logger.Infof("Server stopped")
}

// newPanelFactory builds the panels handed out per viewer; their cards are
// cancelled once ctx ends
func newPanelFactory(ctx context.Context, cfg *config.Config, directory services.UserDirectory) func() *services.SearchPanel {
	return func() *services.SearchPanel {
		return services.NewSearchPanel(directory,
			services.WithStaleSuppression(cfg.Search.SuppressStaleResponses),
			services.WithCardContext(ctx),
		)
	}
}

func setupRouter(cfg *config.Config, directory services.UserDirectory, registry *services.PanelRegistry) (*gin.Engine, error) {
	router := gin.Default()

	templates, err := web.Templates()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(templates)

	router.Use(middleware.SessionMiddleware())

	setupRoutes(router, cfg, directory, registry)
	return router, nil
}

func setupRoutes(router *gin.Engine, cfg *config.Config, directory services.UserDirectory, registry *services.PanelRegistry) {
	renderWait := time.Duration(cfg.Search.RenderWaitMS) * time.Millisecond

	// Initialize handlers
	finderHandler := handlers.NewFinderHandler(registry, renderWait)
	apiHandler := handlers.NewAPIHandler(registry, directory)
	exportHandler := handlers.NewExportHandler(registry, services.NewExportService(), renderWait)
	healthHandler := handlers.NewHealthHandler()
	notFoundHandler := handlers.NewNotFoundHandler()

	// Finder page
	router.GET("/", finderHandler.Index)
	router.POST("/search", finderHandler.Search)
	router.POST("/clear", finderHandler.Clear)
	router.GET("/export.xlsx", exportHandler.Workbook)

	api := router.Group("/api")
	api.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	{
		api.GET("/state", apiHandler.State)
		api.POST("/search", apiHandler.Search)
		api.POST("/clear", apiHandler.Clear)
		api.GET("/users/:login", apiHandler.UserCard)
		// Preflight requests only need the CORS middleware
		api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}

	// Health check endpoint
	router.GET("/health", healthHandler.HealthCheck)

	router.NoRoute(notFoundHandler.NotFound)
}
