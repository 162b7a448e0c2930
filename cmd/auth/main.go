package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/voting_auth/internal/config"
	"github.com/Skotchmaster/voting_auth/internal/db"
	authhdl "github.com/Skotchmaster/voting_auth/internal/handlers/auth"
	"github.com/Skotchmaster/voting_auth/internal/hash"
	"github.com/Skotchmaster/voting_auth/internal/logging"
	authmw "github.com/Skotchmaster/voting_auth/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/voting_auth/internal/middleware/logging"
	"github.com/Skotchmaster/voting_auth/internal/mykafka"
	"github.com/Skotchmaster/voting_auth/internal/repo"
	"github.com/Skotchmaster/voting_auth/internal/revocation"
	"github.com/Skotchmaster/voting_auth/internal/service"
	"github.com/Skotchmaster/voting_auth/internal/session"
	"github.com/Skotchmaster/voting_auth/internal/tokens"
	httpserver "github.com/Skotchmaster/voting_auth/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	var (
		registry revocation.Registry
		rdb      *redis.Client
	)
	switch cfg.RevocationBackend {
	case config.BackendRedis:
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			log.Fatalf("redis ping error: %v", err)
		}
		registry = revocation.NewRedisRegistry(rdb)
	default:
		registry = revocation.NewGormRegistry(gdb)
	}

	hasher, err := hash.New(cfg.BcryptCost, cfg.HashConcurrency)
	if err != nil {
		log.Fatalf("hasher init error: %v", err)
	}

	keys := tokens.Keys{Access: []byte(cfg.JWTSecret), Refresh: []byte(cfg.RefreshSecret)}
	issuer := tokens.NewIssuer(keys, cfg.AccessTTL, cfg.RefreshTTL)
	verifier := tokens.NewVerifier(keys, registry)
	transport := session.New(cfg.CookieSecure)

	var publisher mykafka.Publisher = mykafka.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = mykafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	svc := &service.AuthService{
		Repo:        repo.New(gdb),
		Hasher:      hasher,
		Issuer:      issuer,
		Revocations: registry,
		Events:      publisher,
	}

	if cfg.AdminUsername != "" {
		adminCtx, adminCancel := context.WithTimeout(logging.IntoContext(context.Background(), logger), 10*time.Second)
		err := svc.EnsureAdmin(adminCtx, cfg.AdminUsername, cfg.AdminPassword)
		adminCancel()
		if err != nil {
			log.Fatalf("admin bootstrap error: %v", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := &httpserver.Deps{
		DB:          gdb,
		AuthHandler: &authhdl.AuthHandler{Service: svc, Transport: transport},
		Guard:       authmw.NewGuard(verifier, transport),
	}
	if cfg.CSRFEnabled {
		deps.CSRF = httpserver.CSRFConfig(cfg.CookieSecure)
	}
	httpserver.Register(e, deps)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	sweeper := &revocation.Sweeper{Registry: registry, Interval: cfg.SweepInterval, Logger: logger}
	go sweeper.Run(sweepCtx)

	go func() {
		logger.Info("auth_listen", "addr", cfg.AuthAddr, "revocation_backend", cfg.RevocationBackend)
		if err := e.Start(cfg.AuthAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	stopSweeper()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo_shutdown", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("kafka_close", "error", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis_close", "error", err)
		}
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close", "error", err)
	}
}
