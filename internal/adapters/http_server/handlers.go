package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"ticket_hotels/internal/domain"
)

// HotelReader is the ticket-gated hotel query surface the handlers need.
type HotelReader interface {
	ListHotels(ctx context.Context, userID int64) ([]domain.Hotel, error)
	GetHotelWithRooms(ctx context.Context, userID, hotelID int64) (domain.Hotel, error)
}

type Handlers struct{ Q HotelReader }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// MountHandlers registers the routes. Hotel routes sit behind auth.
func (s *Server) MountHandlers(h *Handlers, auth func(http.Handler) http.Handler) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Group(func(r chi.Router) {
		r.Use(auth)
		r.Get("/hotels", h.listHotels)
		r.Get("/hotels/{hotelId}", h.getHotelWithRooms)
	})
}

// ---- response shapes ----

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// isoTime renders UTC ISO-8601 with millisecond precision.
type isoTime time.Time

func (t isoTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).UTC().Format(isoMillis) + `"`), nil
}

type hotelJSON struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	CreatedAt isoTime `json:"createdAt"`
	UpdatedAt isoTime `json:"updatedAt"`
}

type roomJSON struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Capacity  int     `json:"capacity"`
	HotelID   int64   `json:"hotelId"`
	CreatedAt isoTime `json:"createdAt"`
	UpdatedAt isoTime `json:"updatedAt"`
}

type hotelWithRoomsJSON struct {
	hotelJSON
	Rooms []roomJSON `json:"Rooms"`
}

func toHotelJSON(h domain.Hotel) hotelJSON {
	return hotelJSON{
		ID:        h.ID,
		Name:      h.Name,
		Image:     h.Image,
		CreatedAt: isoTime(h.CreatedAt),
		UpdatedAt: isoTime(h.UpdatedAt),
	}
}

func toHotelWithRoomsJSON(h domain.Hotel) hotelWithRoomsJSON {
	out := hotelWithRoomsJSON{hotelJSON: toHotelJSON(h), Rooms: make([]roomJSON, 0, len(h.Rooms))}
	for _, rm := range h.Rooms {
		out.Rooms = append(out.Rooms, roomJSON{
			ID:        rm.ID,
			Name:      rm.Name,
			Capacity:  rm.Capacity,
			HotelID:   rm.HotelID,
			CreatedAt: isoTime(rm.CreatedAt),
			UpdatedAt: isoTime(rm.UpdatedAt),
		})
	}
	return out
}

// ---- helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeDomainError maps the error kinds onto status codes. Anything that is
// neither NotFound nor PaymentRequired is an internal failure.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "")
	case errors.Is(err, domain.ErrPaymentRequired):
		writeProblem(w, http.StatusPaymentRequired, "Payment Required", "ticket must be paid and include hotel")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("hotel query failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body, err := calcETagAndBody(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	w.Header().Set("ETag", etag)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// ---- handlers ----

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFrom(r.Context())
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	hs, err := h.Q.ListHotels(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]hotelJSON, 0, len(hs))
	for _, ht := range hs {
		out = append(out, toHotelJSON(ht))
	}
	writeJSON(w, r, out)
}

func (h *Handlers) getHotelWithRooms(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFrom(r.Context())
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	// An unparsable id names no hotel; 0 yields NotFound once eligibility passes.
	hotelID, err := strconv.ParseInt(chi.URLParam(r, "hotelId"), 10, 64)
	if err != nil {
		hotelID = 0
	}
	ht, err := h.Q.GetHotelWithRooms(r.Context(), userID, hotelID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, toHotelWithRoomsJSON(ht))
}
