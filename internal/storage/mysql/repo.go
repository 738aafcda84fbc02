package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ticket_hotels/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) FindTicketByUserID(ctx context.Context, userID int64) (domain.Ticket, error) {
	var t domain.Ticket
	var status string
	err := r.db.QueryRowContext(ctx, findTicketByUserSQL, userID).Scan(
		&t.ID,
		&t.TicketTypeID,
		&t.EnrollmentID,
		&status,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.TicketType.ID,
		&t.TicketType.Name,
		&t.TicketType.Price,
		&t.TicketType.IsRemote,
		&t.TicketType.IncludesHotel,
		&t.TicketType.CreatedAt,
		&t.TicketType.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Ticket{}, domain.ErrNotFound
		}
		return domain.Ticket{}, fmt.Errorf("query ticket: %w", err)
	}
	t.Status = domain.TicketStatus(status)
	return t, nil
}

func (r *Repo) FindHotels(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, findHotelsSQL)
	if err != nil {
		return nil, fmt.Errorf("query hotels: %w", err)
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		var h domain.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Image, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hotels: %w", err)
	}
	return out, nil
}

func (r *Repo) FindHotelByID(ctx context.Context, id int64) (domain.Hotel, error) {
	var h domain.Hotel
	err := r.db.QueryRowContext(ctx, findHotelByIDSQL, id).
		Scan(&h.ID, &h.Name, &h.Image, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, fmt.Errorf("query hotel: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, findRoomsByHotelSQL, id)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	h.Rooms = []domain.Room{}
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.Capacity, &rm.HotelID, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return domain.Hotel{}, fmt.Errorf("scan room: %w", err)
		}
		h.Rooms = append(h.Rooms, rm)
	}
	if err := rows.Err(); err != nil {
		return domain.Hotel{}, fmt.Errorf("iterate rooms: %w", err)
	}
	return h, nil
}

func (r *Repo) CatalogVersion(ctx context.Context) (string, error) {
	var v string
	if err := r.db.QueryRowContext(ctx, catalogVersionSQL).Scan(&v); err != nil {
		return "", fmt.Errorf("query catalog version: %w", err)
	}
	return v, nil
}

func (r *Repo) FindSessionByToken(ctx context.Context, token string) (domain.Session, error) {
	var s domain.Session
	err := r.db.QueryRowContext(ctx, findSessionByTokenSQL, token).
		Scan(&s.ID, &s.UserID, &s.Token, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, domain.ErrNotFound
		}
		return domain.Session{}, fmt.Errorf("query session: %w", err)
	}
	return s, nil
}

func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	if _, err := r.db.ExecContext(ctx, upsertHotelSQL, h.ID, h.Name, h.Image); err != nil {
		return fmt.Errorf("upsert hotel: %w", err)
	}
	return nil
}

func (r *Repo) LogMiss(ctx context.Context, propertyID int64, status int, reason string) error {
	if _, err := r.db.ExecContext(ctx, insertMissSQL, propertyID, status, reason); err != nil {
		return fmt.Errorf("log import miss: %w", err)
	}
	return nil
}

// ReplaceRooms swaps the hotel's room set in one transaction so readers
// never see a partial list.
func (r *Repo) ReplaceRooms(ctx context.Context, hotelID int64, rooms []domain.Room) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rooms tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteRoomsByHotelSQL, hotelID); err != nil {
		return fmt.Errorf("delete rooms: %w", err)
	}
	if len(rooms) > 0 {
		values := make([]string, 0, len(rooms))
		args := make([]any, 0, len(rooms)*3)
		for _, rm := range rooms {
			values = append(values, "(?,?,?)")
			args = append(args, rm.Name, rm.Capacity, hotelID)
		}
		if _, err = tx.ExecContext(ctx, insertRoomsPrefix+strings.Join(values, ","), args...); err != nil {
			return fmt.Errorf("insert rooms: %w", err)
		}
	}
	return tx.Commit()
}
