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
	"golang.org/x/sync/errgroup"

	"staybook/internal/app"
	"staybook/internal/config"
	"staybook/internal/metrics"
	"staybook/internal/ratelimit"
	"staybook/internal/server"
	"staybook/internal/session"
	"staybook/internal/store"
	"staybook/internal/util"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("SERVER_CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	sessionTTL, err := config.ParseSessionTTL(cfg.SessionTTL)
	if err != nil {
		log.Fatalf("failed to parse session TTL: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)
	metrics.Register()

	fileStore, err := store.NewFileStore(cfg.DataFile)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}
	// Seeding failure does not stop the server; persistence operations will
	// surface storage errors per request until the file becomes writable.
	if err := fileStore.InitializeIfAbsent(); err != nil {
		logger.Error("failed to seed data file", "path", cfg.DataFile, "err", err)
	}

	var revoker session.TokenRevoker
	if cfg.RedisAddr != "" {
		revoker = session.NewRedisTokenRevoker(cfg.RedisAddr, cfg.RedisPassword)
	} else {
		revoker = session.NewMemoryTokenRevoker()
	}
	sessions, err := session.NewManager(cfg.JWTSecret, sessionTTL, revoker)
	if err != nil {
		log.Fatalf("failed to init sessions: %v", err)
	}

	appCore, err := app.New(app.Config{
		Store:    fileStore,
		Sessions: sessions,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	trustedProxies, err := util.NewTrustedProxies(cfg.TrustedProxyCIDRs)
	if err != nil {
		log.Fatalf("failed to parse trusted proxies: %v", err)
	}

	registerLimiter, err := newLimiter(cfg, "register", cfg.RegisterRateLimitPerMinute, 5)
	if err != nil {
		log.Fatalf("failed to init register limiter: %v", err)
	}
	loginLimiter, err := newLimiter(cfg, "login", cfg.LoginRateLimitPerMinute, 10)
	if err != nil {
		log.Fatalf("failed to init login limiter: %v", err)
	}

	httpServer := server.New(server.Config{
		App:             appCore,
		CookieSecure:    cfg.CookieSecure,
		AllowedOrigin:   cfg.AllowedOrigin,
		TrustedProxies:  trustedProxies,
		RegisterLimiter: registerLimiter,
		LoginLimiter:    loginLimiter,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("server error", "err", err)
	}
}

func newLimiter(cfg config.FileConfig, name string, limit, fallback int) (*ratelimit.FixedWindowLimiter, error) {
	if limit <= 0 {
		limit = fallback
	}
	if cfg.RedisAddr != "" {
		return ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "staybook:ratelimit:"+name, limit, time.Minute)
	}
	return ratelimit.NewFixedWindowLimiter(limit, time.Minute)
}
