package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"ticket_hotels/internal/adapters/cupid"
	"ticket_hotels/internal/domain"
)

// CatalogImporter feeds the hotel catalog from the Cupid content API.
// Request paths stay read-only; cached reads follow the store version, so
// imports need no cache eviction.
type CatalogImporter struct {
	cupid domain.CupidClient
	repo  domain.CatalogWriter
}

func NewCatalogImporter(c domain.CupidClient, r domain.CatalogWriter) *CatalogImporter {
	return &CatalogImporter{cupid: c, repo: r}
}

func (s *CatalogImporter) ImportHotel(ctx context.Context, id int64) error {
	p, err := s.cupid.GetProperty(ctx, id)
	if err != nil {
		if status, reason, ok := missOf(err); ok {
			log.Warn().Int64("id", id).Int("status", status).Msg("property skipped: " + reason)
			if lerr := s.repo.LogMiss(ctx, id, status, reason); lerr != nil {
				log.Warn().Int64("id", id).Err(lerr).Msg("record import miss failed")
			}
			return nil
		}
		return err
	}

	h, rooms := mapProperty(id, p)
	if h.Name == "" {
		return fmt.Errorf("property %d has no name", id)
	}

	// hotel first so rooms satisfy the FK
	if err := s.repo.UpsertHotel(ctx, h); err != nil {
		return fmt.Errorf("upsert hotel %d: %w", id, err)
	}
	if err := s.repo.ReplaceRooms(ctx, h.ID, rooms); err != nil {
		return fmt.Errorf("replace rooms for %d: %w", id, err)
	}
	log.Debug().Int64("id", id).Int("rooms", len(rooms)).Msg("hotel imported")
	return nil
}

// missOf classifies upstream refusals that skip a property instead of
// failing the run.
func missOf(err error) (int, string, bool) {
	switch {
	case errors.Is(err, cupid.ErrNotFound):
		return http.StatusNotFound, "not found", true
	case errors.Is(err, cupid.ErrForbidden):
		return http.StatusForbidden, "inactive", true
	case errors.Is(err, cupid.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", true
	}
	return 0, "", false
}
