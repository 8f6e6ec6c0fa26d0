// Command console serves the Kosalla support console.
//
// @title        Kosalla Console
// @version      1.0
// @description  JSON endpoints of the Kosalla support console.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/viriyakhulung/kosalla-new/internal/api"
	"github.com/viriyakhulung/kosalla-new/internal/api/handler"
	"github.com/viriyakhulung/kosalla-new/internal/api/metrics"
	"github.com/viriyakhulung/kosalla-new/internal/api/websession"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
	"github.com/viriyakhulung/kosalla-new/internal/core/service"
	"github.com/viriyakhulung/kosalla-new/internal/infrastructure/backend"
	mongodb "github.com/viriyakhulung/kosalla-new/internal/infrastructure/db/mongo"
	redisdb "github.com/viriyakhulung/kosalla-new/internal/infrastructure/db/redis"
	"github.com/viriyakhulung/kosalla-new/internal/infrastructure/queue"
	"github.com/viriyakhulung/kosalla-new/internal/pkg/config"
	"github.com/viriyakhulung/kosalla-new/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.OptionsFor(cfg.Env, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("console stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client := backend.New(backend.Config{
		BaseURL:  cfg.Backend.BaseURL,
		Timeout:  cfg.Backend.Timeout,
		AuthMode: cfg.Backend.AuthMode,
		Observe:  metrics.ObserveBackend,
	})
	checks := map[string]handler.Check{"backend": client.Ping}

	// --- Login throttle (optional) ---
	var throttle ports.LoginThrottle
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		throttle = redisdb.NewLoginThrottle(rdb, cfg.Redis.MaxAttempts, cfg.Redis.Window)
		checks["redis"] = handler.RedisCheck(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("login throttle enabled")
	} else {
		log.Warn().Msg("REDIS_ADDR not set, login throttle disabled")
	}

	// --- Access audit trail ---
	var repo ports.AuditRepository
	if cfg.Mongo.URI != "" {
		mc, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = mc.Disconnect(disconnectCtx)
		}()
		auditRepo := mongodb.NewAuditRepository(db)
		if err := auditRepo.EnsureIndexes(ctx, cfg.Mongo.Retention); err != nil {
			return err
		}
		repo = auditRepo
		checks["mongodb"] = handler.MongoCheck(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("audit trail stored in mongodb")
	} else {
		log.Warn().Msg("MONGO_URI not set, audit events are only logged")
	}

	// The dispatcher outlives the HTTP server so late events still drain.
	auditCtx, stopAudit := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Mongo.Workers, service.NewAuditService(repo, log), log, metrics.SetAuditDepth)
	dispatcher.Start(auditCtx)
	defer func() {
		stopAudit()
		dispatcher.Wait()
	}()

	resources := backend.NewResources(client)
	cookies := websession.Cookies{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL,
		Secure: cfg.Production(),
	}

	e := api.NewRouter(api.Deps{
		Sessions: service.NewSessionBridge(backend.NewAuthAPI(client), throttle, dispatcher, log),
		Cookies:  cookies,
		Clients: api.Clients{
			Organizations:  resources.Organizations,
			Locations:      resources.Locations,
			Engineers:      resources.Engineers,
			Contracts:      resources.Contracts,
			InventoryItems: resources.InventoryItems,
			ProductTypes:   resources.ProductTypes,
			TeamGroups:     resources.TeamGroups,
			TeamMembers:    resources.TeamMembers,
			Users:          resources.Users,
			Tickets:        resources.Tickets,
		},
		Audit:          dispatcher,
		Checks:         checks,
		PublicAPIURL:   cfg.Backend.PublicURL,
		TrustedProxies: cfg.ProxyRanges(),
		Log:            log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Backend.Timeout + 20*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("backend", client.BaseURL()).
			Str("auth_mode", cfg.Backend.AuthMode).
			Msg("console listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
