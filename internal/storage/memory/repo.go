// Package memory is an in-process store implementing the same ports as the
// MySQL repo. It backs tests and STORE=memory local runs.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"ticket_hotels/internal/domain"
)

type Repo struct {
	mu       sync.RWMutex
	now      func() time.Time
	tickets  map[int64]domain.Ticket // by user id
	hotels   map[int64]domain.Hotel
	rooms    map[int64][]domain.Room // by hotel id
	sessions map[string]domain.Session
	misses   map[int64]Miss
	nextID   int64
	rev      int64 // bumped on every catalog write
}

// Miss is a property the importer had to skip.
type Miss struct {
	Status int
	Reason string
}

func New() *Repo {
	return &Repo{
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		tickets:  map[int64]domain.Ticket{},
		hotels:   map[int64]domain.Hotel{},
		rooms:    map[int64][]domain.Room{},
		sessions: map[string]domain.Session{},
		misses:   map[int64]Miss{},
	}
}

func (r *Repo) id() int64 {
	r.nextID++
	return r.nextID
}

// ---- seeding ----

// PutTicket attaches a ticket of type tt with the given status to userID,
// replacing any earlier one.
func (r *Repo) PutTicket(userID int64, status domain.TicketStatus, tt domain.TicketType) domain.Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if tt.ID == 0 {
		tt.ID = r.id()
	}
	if tt.CreatedAt.IsZero() {
		tt.CreatedAt, tt.UpdatedAt = now, now
	}
	t := domain.Ticket{
		ID:           r.id(),
		TicketTypeID: tt.ID,
		EnrollmentID: userID,
		Status:       status,
		TicketType:   tt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.tickets[userID] = t
	return t
}

func (r *Repo) PutSession(userID int64, token string) domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := domain.Session{ID: r.id(), UserID: userID, Token: token, CreatedAt: r.now()}
	r.sessions[token] = s
	return s
}

func (r *Repo) AddHotel(name, image string) domain.Hotel {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	h := domain.Hotel{ID: r.id(), Name: name, Image: image, CreatedAt: now, UpdatedAt: now}
	r.hotels[h.ID] = h
	r.rev++
	return h
}

// AddRoom returns false when the hotel does not exist.
func (r *Repo) AddRoom(hotelID int64, name string, capacity int) (domain.Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hotels[hotelID]; !ok {
		return domain.Room{}, false
	}
	now := r.now()
	rm := domain.Room{ID: r.id(), Name: name, Capacity: capacity, HotelID: hotelID, CreatedAt: now, UpdatedAt: now}
	r.rooms[hotelID] = append(r.rooms[hotelID], rm)
	r.rev++
	return rm, true
}

// ---- domain ports ----

func (r *Repo) FindTicketByUserID(_ context.Context, userID int64) (domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tickets[userID]
	if !ok {
		return domain.Ticket{}, domain.ErrNotFound
	}
	return t, nil
}

func (r *Repo) FindHotels(_ context.Context) ([]domain.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Hotel, 0, len(r.hotels))
	for _, h := range r.hotels {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repo) FindHotelByID(_ context.Context, id int64) (domain.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	h.Rooms = make([]domain.Room, len(r.rooms[id]))
	copy(h.Rooms, r.rooms[id])
	return h, nil
}

func (r *Repo) FindSessionByToken(_ context.Context, token string) (domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[token]
	if !ok {
		return domain.Session{}, domain.ErrNotFound
	}
	return s, nil
}

func (r *Repo) UpsertHotel(_ context.Context, h domain.Hotel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if old, ok := r.hotels[h.ID]; ok {
		h.CreatedAt = old.CreatedAt
	} else {
		h.CreatedAt = now
	}
	h.UpdatedAt = now
	h.Rooms = nil
	r.hotels[h.ID] = h
	if h.ID > r.nextID {
		r.nextID = h.ID
	}
	r.rev++
	return nil
}

func (r *Repo) ReplaceRooms(_ context.Context, hotelID int64, rooms []domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hotels[hotelID]; !ok {
		return domain.ErrNotFound
	}
	now := r.now()
	out := make([]domain.Room, 0, len(rooms))
	for _, rm := range rooms {
		rm.ID = r.id()
		rm.HotelID = hotelID
		rm.CreatedAt, rm.UpdatedAt = now, now
		out = append(out, rm)
	}
	r.rooms[hotelID] = out
	r.rev++
	return nil
}

func (r *Repo) CatalogVersion(_ context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return strconv.FormatInt(r.rev, 10), nil
}

func (r *Repo) LogMiss(_ context.Context, propertyID int64, status int, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses[propertyID] = Miss{Status: status, Reason: reason}
	return nil
}

// Misses returns a copy of the recorded import misses.
func (r *Repo) Misses() map[int64]Miss {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]Miss, len(r.misses))
	for id, m := range r.misses {
		out[id] = m
	}
	return out
}
