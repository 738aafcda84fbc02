package domain

import "context"

// TicketRepository returns the ticket attached to a user's enrollment,
// eagerly loading its TicketType. Missing tickets yield ErrNotFound.
type TicketRepository interface {
	FindTicketByUserID(ctx context.Context, userID int64) (Ticket, error)
}

// HotelRepository is the read side of the hotel catalog.
type HotelRepository interface {
	// FindHotels returns every hotel ordered by id, without rooms.
	FindHotels(ctx context.Context) ([]Hotel, error)
	// FindHotelByID returns the hotel with all of its rooms, or ErrNotFound.
	FindHotelByID(ctx context.Context, id int64) (Hotel, error)
	// CatalogVersion changes whenever any hotel or room is written,
	// whoever the writer is.
	CatalogVersion(ctx context.Context) (string, error)
}

// CatalogWriter is used by the importer only; request paths never write.
type CatalogWriter interface {
	UpsertHotel(ctx context.Context, h Hotel) error
	ReplaceRooms(ctx context.Context, hotelID int64, rooms []Room) error
	// LogMiss records a property the upstream refused to serve.
	LogMiss(ctx context.Context, propertyID int64, status int, reason string) error
}

type SessionRepository interface {
	FindSessionByToken(ctx context.Context, token string) (Session, error)
}

type CupidClient interface {
	GetProperty(ctx context.Context, id int64) (map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
}
