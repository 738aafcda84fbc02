package main

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"ticket_hotels/internal/adapters/cupid"
	"ticket_hotels/internal/adapters/observability"
	"ticket_hotels/internal/app"
	"ticket_hotels/internal/shared"
	mysqlrepo "ticket_hotels/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.CupidBase).
		Int("workers", cfg.Workers).
		Int("properties", len(cfg.PropertyIDs)).
		Msg("importer starting")

	if len(cfg.PropertyIDs) == 0 {
		log.Fatal().Msg("IMPORT_PROPERTY_IDS is empty")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := cupid.New(cfg.CupidBase, cfg.CupidKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Cupid client")
	}

	imp := app.NewCatalogImporter(client, repo)

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, id := range cfg.PropertyIDs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(hotelID int64) {
			defer wg.Done()
			defer sem.Release(1)

			if err := imp.ImportHotel(ctx, hotelID); err != nil {
				failed.Add(1)
				log.Warn().Int64("id", hotelID).Err(err).Msg("import failed")
				return
			}
			log.Info().Int64("id", hotelID).Msg("import ok")
		}(id)
	}

	wg.Wait()
	log.Info().Int32("failed", failed.Load()).Msg("import completed")
}
