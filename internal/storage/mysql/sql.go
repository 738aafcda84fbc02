package mysql

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// A user has at most one enrollment and an enrollment at most one ticket;
// ORDER BY/LIMIT only pin the result if that ever stops holding.
const findTicketByUserSQL = `
SELECT
  t.id,
  t.ticket_type_id,
  t.enrollment_id,
  t.status,
  t.created_at,
  t.updated_at,
  tt.id,
  tt.name,
  tt.price,
  tt.is_remote,
  tt.includes_hotel,
  tt.created_at,
  tt.updated_at
FROM tickets t
JOIN enrollments e   ON e.id = t.enrollment_id
JOIN ticket_types tt ON tt.id = t.ticket_type_id
WHERE e.user_id = ?
ORDER BY t.id
LIMIT 1
`

const findHotelsSQL = `
SELECT id, name, image, created_at, updated_at
FROM hotels
ORDER BY id
`

const findHotelByIDSQL = `
SELECT id, name, image, created_at, updated_at
FROM hotels
WHERE id = ?
`

const findRoomsByHotelSQL = `
SELECT id, name, capacity, hotel_id, created_at, updated_at
FROM rooms
WHERE hotel_id = ?
ORDER BY id
`

// Any insert, update or delete on hotels or rooms changes at least one of
// these aggregates.
const catalogVersionSQL = `
SELECT CONCAT_WS(':',
  (SELECT COUNT(*) FROM hotels),
  (SELECT COALESCE(MAX(id), 0) FROM hotels),
  (SELECT COALESCE(UNIX_TIMESTAMP(MAX(updated_at)), 0) FROM hotels),
  (SELECT COUNT(*) FROM rooms),
  (SELECT COALESCE(MAX(id), 0) FROM rooms),
  (SELECT COALESCE(UNIX_TIMESTAMP(MAX(updated_at)), 0) FROM rooms))
`

const findSessionByTokenSQL = `
SELECT id, user_id, token, created_at
FROM sessions
WHERE token = ?
`

// -----------------------------------------------------------------------------
// CATALOG WRITES (importer only)
// -----------------------------------------------------------------------------

const upsertHotelSQL = `
INSERT INTO hotels (id, name, image)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  name       = VALUES(name),
  image      = VALUES(image),
  updated_at = CURRENT_TIMESTAMP(3)
`

const deleteRoomsByHotelSQL = `DELETE FROM rooms WHERE hotel_id = ?`

const insertRoomsPrefix = "INSERT INTO rooms (name, capacity, hotel_id)\nVALUES "

const insertMissSQL = `
INSERT INTO import_misses (property_id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  http_status = VALUES(http_status),
  reason      = VALUES(reason),
  seen_at     = CURRENT_TIMESTAMP(3)
`
