package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/rtnut/showcase-cms/internal/config"
	"github.com/rtnut/showcase-cms/internal/database"
	"github.com/rtnut/showcase-cms/internal/handler"
	"github.com/rtnut/showcase-cms/internal/media"
	"github.com/rtnut/showcase-cms/internal/middleware"
	"github.com/rtnut/showcase-cms/internal/repository"
	"github.com/rtnut/showcase-cms/internal/router"
	"github.com/rtnut/showcase-cms/internal/service"
	"github.com/rtnut/showcase-cms/internal/session"
	"github.com/rtnut/showcase-cms/internal/utils"
	"github.com/rtnut/showcase-cms/internal/view"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := utils.InitLogger(cfg.LogLevel, cfg.Debug)

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(bootCtx, db); err != nil {
		cancel()
		log.Fatalf("failed to migrate database: %v", err)
	}
	created, err := database.SeedAdmin(bootCtx, db, cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.BcryptCost)
	cancel()
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	if created {
		slog.Warn("created bootstrap admin; change its password", "username", cfg.Admin.Username)
	}

	rdb := config.NewRedisClient(cfg.Redis)
	var store session.Store
	if rdb != nil {
		defer rdb.Close()
		store = session.NewRedisStore(rdb)
	} else {
		slog.Warn("redis unavailable; using in-memory sessions and no rate limiting")
		store = session.NewMemoryStore()
	}
	sessions := &session.Manager{
		Store:      store,
		Secret:     cfg.SecretKey,
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	}

	files := media.New(cfg.Uploads)
	if err := files.EnsureDir(); err != nil {
		log.Fatalf("failed to create upload dir: %v", err)
	}

	banners := repository.NewBannerRepo(db)
	products := repository.NewProductRepo(db)
	factory := repository.NewFactoryRepo(db)
	messages := repository.NewMessageRepo(db)
	settings := repository.NewSettingRepo(db)
	admins := repository.NewAdminRepo(db)

	renderer, err := view.New()
	if err != nil {
		log.Fatalf("failed to parse templates: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.Debug
	e.Renderer = renderer
	e.HTTPErrorHandler = handler.ErrorHandler(cfg.Debug)
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLog())
	e.Use(echomw.BodyLimit(cfg.Uploads.MaxSize))
	e.Static("/uploads", cfg.Uploads.Dir)

	limit := middleware.NewTokenBucket(cfg.RateLimit, rdb)
	site := e.Group("", middleware.SiteSettings(settings))

	router.RegisterRoutes(e)
	router.RegisterPublic(site, handler.NewPublicHandler(banners, products, factory), handler.NewContactHandler(messages), limit)
	router.RegisterAdmin(site,
		handler.NewAuthHandler(service.NewAdminAuth(admins, cfg.Admin.BcryptCost), sessions),
		handler.NewAdminHandler(banners, products, factory, messages, settings, files),
		sessions, limit)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      e,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Addr(), "env", cfg.Env)
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")
	ctx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
