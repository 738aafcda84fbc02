package domain

import "time"

type TicketStatus string

const (
	TicketReserved TicketStatus = "RESERVED"
	TicketPaid     TicketStatus = "PAID"
)

type TicketType struct {
	ID            int64
	Name          string
	Price         int
	IsRemote      bool
	IncludesHotel bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Ticket is a user's admission record. It is attached to the user through
// their enrollment and always carries its TicketType.
type Ticket struct {
	ID           int64
	TicketTypeID int64
	EnrollmentID int64
	Status       TicketStatus
	TicketType   TicketType
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HotelAccess reports whether the ticket grants access to hotel listings:
// it must be paid and its type must include hotel.
func (t Ticket) HotelAccess() bool {
	return t.Status == TicketPaid && t.TicketType.IncludesHotel
}

// Session is a login session issued to a user; a bearer token is only
// accepted while a session holding it exists.
type Session struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt time.Time
}
