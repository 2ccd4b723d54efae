package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"libraryhub/database"
	"libraryhub/internal/bridge"
	"libraryhub/internal/cache"
	"libraryhub/internal/config"
	"libraryhub/internal/docstore"
	"libraryhub/internal/microservices/http-api/handler"
	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/microservices/http-api/service"
	"libraryhub/internal/workerpool"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Relational store
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database_connect_failed", "error", err)
		os.Exit(1)
	}
	defer database.CloseDB(db)

	// Document store
	mongoClient, err := database.ConnectMongo(ctx, cfg, logger)
	if err != nil {
		logger.Error("mongo_connect_failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			logger.Warn("mongo_disconnect_failed", "error", err)
		}
	}()

	docs := docstore.New(mongoClient.Database(cfg.MongoDatabase))
	if err := docs.EnsureCollections(ctx); err != nil {
		logger.Error("ensure_collections_failed", "error", err)
		os.Exit(1)
	}
	if err := docs.EnsureIndexes(ctx); err != nil {
		logger.Warn("ensure_indexes_failed", "error", err)
	}

	// Report cache is optional
	reportCache, err := cache.NewReportCache(cfg.RedisURL, cfg.RedisPassword, cfg.CacheExpiry())
	if err != nil {
		logger.Warn("report_cache_disabled", "error", err)
	}
	defer reportCache.Close()

	pool := workerpool.New(cfg.IOWorkers, logger)
	pool.Start()
	defer pool.Shutdown()

	// Repositories
	linkRepo := repository.NewBookLinkRepository(db)
	officeRepo := repository.NewOfficeRepository(db)
	clientRepo := repository.NewClientRepository(db)
	copyRepo := repository.NewBookCopyRepository(db)
	operationRepo := repository.NewOperationRepository(db)
	reportRepo := repository.NewReportRepository(db)

	identity := bridge.NewIdentityBridge(linkRepo)

	// Services
	reportService := service.NewReportService(reportRepo, docs, identity, reportCache, logger)
	bookService := service.NewBookService(docs, identity, linkRepo, copyRepo, officeRepo, reportService, reportCache, logger)
	bookDocumentService := service.NewBookDocumentService(docs, identity, linkRepo, reportCache, logger)
	authorService := service.NewAuthorService(docs)
	officeService := service.NewOfficeService(officeRepo, reportCache, logger)
	clientService := service.NewClientService(clientRepo)
	operationService := service.NewOperationService(operationRepo, reportCache, logger)

	// Handlers
	bookHandler := handler.NewBookHandler(bookService, bookDocumentService, pool, cfg.RequestTimeout)
	authorHandler := handler.NewAuthorHandler(authorService, pool, cfg.RequestTimeout)
	officeHandler := handler.NewOfficeHandler(officeService, pool, cfg.RequestTimeout)
	clientHandler := handler.NewClientHandler(clientService, pool, cfg.RequestTimeout)
	operationHandler := handler.NewOperationHandler(operationService, pool, cfg.RequestTimeout)
	reportHandler := handler.NewReportHandler(reportService, pool, cfg.RequestTimeout)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.GET("/check-conn", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(pingCtx)
		}
		if err == nil {
			err = mongoClient.Ping(pingCtx, nil)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		bookHandler.RegisterRoutes(api.Group("/books"))
		authorHandler.RegisterRoutes(api.Group("/authors"))
		officeHandler.RegisterRoutes(api.Group("/offices"))
		clientHandler.RegisterRoutes(api.Group("/clients"))
		operationHandler.RegisterRoutes(api)
		reportHandler.RegisterRoutes(api.Group("/reports"))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting_http_server", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("received_shutdown_signal")
	case err := <-errChan:
		logger.Error("server_error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	logger.Info("server_stopped_gracefully")
}
