package app_test

import (
	"context"
	"errors"

	"ticket_hotels/internal/domain"
)

// ---- fakes ----

type fakeTickets struct {
	t     domain.Ticket
	err   error
	calls int
}

func (f *fakeTickets) FindTicketByUserID(ctx context.Context, userID int64) (domain.Ticket, error) {
	f.calls++
	if f.err != nil {
		return domain.Ticket{}, f.err
	}
	return f.t, nil
}

type fakeHotels struct {
	version string
	hs      []domain.Hotel
	byID    map[int64]domain.Hotel
	err     error
	listed  int
	fetched int
}

func (f *fakeHotels) FindHotels(ctx context.Context) ([]domain.Hotel, error) {
	f.listed++
	if f.err != nil {
		return nil, f.err
	}
	return f.hs, nil
}

func (f *fakeHotels) FindHotelByID(ctx context.Context, id int64) (domain.Hotel, error) {
	f.fetched++
	if f.err != nil {
		return domain.Hotel{}, f.err
	}
	h, ok := f.byID[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

func (f *fakeHotels) CatalogVersion(ctx context.Context) (string, error) {
	return f.version, nil
}

type fakeCache struct {
	store map[string]any
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.Hotel:
		*d = v.(domain.Hotel)
	case *[]domain.Hotel:
		*d = v.([]domain.Hotel)
	default:
		return false, errors.New("unexpected cache target")
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func paidHotelTicket() domain.Ticket {
	return domain.Ticket{
		ID:         1,
		Status:     domain.TicketPaid,
		TicketType: domain.TicketType{ID: 1, IncludesHotel: true},
	}
}
