package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "ticket_hotels/internal/adapters/http_server"
	"ticket_hotels/internal/adapters/observability"
	redisad "ticket_hotels/internal/adapters/redis"
	"ticket_hotels/internal/app"
	"ticket_hotels/internal/domain"
	"ticket_hotels/internal/shared"
	"ticket_hotels/internal/storage/memory"
	mysqlrepo "ticket_hotels/internal/storage/mysql"
)

// store is everything the API reads from.
type store interface {
	domain.TicketRepository
	domain.HotelRepository
	domain.SessionRepository
}

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	var repo store
	switch cfg.Store {
	case "memory":
		log.Warn().Msg("using in-memory store; data is not persisted")
		repo = memory.New()
	default:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		repo = mysqlrepo.New(db)
	}

	// cache is optional; without Redis every catalog read hits the store
	var cache domain.Cache
	if cfg.RedisAddr != "" && cfg.CacheTTL > 0 {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, catalog cache disabled")
		} else {
			cache = rc
		}
		cancel()
	}

	access := app.NewAccessService(repo)
	q := app.NewHotelService(access, repo, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q}, server.Authenticate([]byte(cfg.JWTSecret), repo))

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
