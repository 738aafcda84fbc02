package app

import (
	"context"
	"errors"
	"fmt"

	"ticket_hotels/internal/adapters/observability"
	"ticket_hotels/internal/domain"
)

type AccessService struct {
	tickets domain.TicketRepository
}

func NewAccessService(t domain.TicketRepository) *AccessService {
	return &AccessService{tickets: t}
}

// CheckEligibility returns the user's ticket when it grants hotel access.
// Unpaid tickets and ticket types without hotel both yield ErrPaymentRequired.
func (s *AccessService) CheckEligibility(ctx context.Context, userID int64) (domain.Ticket, error) {
	t, err := s.tickets.FindTicketByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			observability.ObserveAccess("not_found")
			return domain.Ticket{}, domain.ErrNotFound
		}
		observability.ObserveAccess("error")
		return domain.Ticket{}, fmt.Errorf("find ticket for user %d: %w", userID, err)
	}
	if !t.HotelAccess() {
		observability.ObserveAccess("payment_required")
		return domain.Ticket{}, domain.ErrPaymentRequired
	}
	observability.ObserveAccess("granted")
	return t, nil
}
