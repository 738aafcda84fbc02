package app

import (
	"strconv"
	"strings"

	"ticket_hotels/internal/domain"
)

var hotelAliases = map[string][]string{
	"name":  {"hotel_name", "name", "property_name"},
	"image": {"main_image_th", "main_image", "image", "thumbnail"},
}

var roomAliases = map[string][]string{
	"name":     {"room_name", "name", "title"},
	"capacity": {"max_occupancy", "capacity", "occupancy", "max_adults"},
}

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func firstStr(m map[string]any, paths ...string) string {
	for _, p := range paths {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// firstInt64Flexible: int64 from several paths (float64/int/string).
func firstInt64Flexible(m map[string]any, paths ...string) *int64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int64(v)
			return &x
		case int:
			x := int64(v)
			return &x
		case int64:
			x := v
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

// firstSliceStrings: accept []any with either strings or {url/src}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		raw, ok := lookupAny(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if t != "" {
					out = append(out, t)
				}
			case map[string]any:
				if u, ok := t["url"].(string); ok && u != "" {
					out = append(out, u)
					continue
				}
				if u, ok := t["src"].(string); ok && u != "" {
					out = append(out, u)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// mapProperty turns a Cupid property payload into a hotel and its rooms.
// The Cupid property id becomes the hotel id so re-imports are idempotent.
func mapProperty(id int64, p map[string]any) (domain.Hotel, []domain.Room) {
	h := domain.Hotel{
		ID:    id,
		Name:  firstStr(p, hotelAliases["name"]...),
		Image: firstStr(p, hotelAliases["image"]...),
	}
	if h.Image == "" {
		if imgs := firstSliceStrings(p, "photos", "images"); len(imgs) > 0 {
			h.Image = imgs[0]
		}
	}
	return h, mapRooms(id, p)
}

func mapRooms(hotelID int64, p map[string]any) []domain.Room {
	raw, _ := lookupAny(p, "rooms").([]any)
	out := make([]domain.Room, 0, len(raw))
	for _, it := range raw {
		rm, ok := it.(map[string]any)
		if !ok {
			continue
		}
		name := firstStr(rm, roomAliases["name"]...)
		if name == "" {
			continue
		}
		capacity := 1
		if c := firstInt64Flexible(rm, roomAliases["capacity"]...); c != nil && *c > 0 {
			capacity = int(*c)
		}
		out = append(out, domain.Room{Name: name, Capacity: capacity, HotelID: hotelID})
	}
	return out
}
