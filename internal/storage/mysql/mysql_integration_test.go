//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"ticket_hotels/internal/domain"
	mysqlrepo "ticket_hotels/internal/storage/mysql"
)

// ---------- small helpers ----------

func migrationsDir(t *testing.T) string {
	t.Helper()
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	// Let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=ticket_hotels",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/ticket_hotels?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func mustExec(t *testing.T, db *sql.DB, q string, args ...any) int64 {
	t.Helper()
	res, err := db.Exec(q, args...)
	if err != nil {
		t.Fatalf("exec %q: %v", q, err)
	}
	id, _ := res.LastInsertId()
	return id
}

// seedTicket creates user -> enrollment -> ticket of a fresh ticket type.
func seedTicket(t *testing.T, db *sql.DB, email string, status domain.TicketStatus, includesHotel bool) int64 {
	t.Helper()
	userID := mustExec(t, db, `INSERT INTO users (email, password) VALUES (?, 'x')`, email)
	enrID := mustExec(t, db,
		`INSERT INTO enrollments (name, cpf, birthday, phone, user_id) VALUES (?, ?, '1990-01-01', '(21) 98999-9999', ?)`,
		"Enrollee "+email, fmt.Sprintf("%011d", userID), userID)
	typeID := mustExec(t, db,
		`INSERT INTO ticket_types (name, price, is_remote, includes_hotel) VALUES ('Presencial', 250, false, ?)`, includesHotel)
	mustExec(t, db, `INSERT INTO tickets (ticket_type_id, enrollment_id, status) VALUES (?, ?, ?)`, typeID, enrID, string(status))
	return userID
}

// ---------- the test ----------

func TestRepo_MySQL_TicketsHotelsSessions(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// tickets
	paid := seedTicket(t, db, "paid@example.com", domain.TicketPaid, true)
	reserved := seedTicket(t, db, "reserved@example.com", domain.TicketReserved, true)
	lonely := mustExec(t, db, `INSERT INTO users (email, password) VALUES ('lonely@example.com', 'x')`)

	tk, err := repo.FindTicketByUserID(ctx, paid)
	if err != nil {
		t.Fatalf("FindTicketByUserID: %v", err)
	}
	if tk.Status != domain.TicketPaid || !tk.TicketType.IncludesHotel || tk.TicketType.ID != tk.TicketTypeID || !tk.HotelAccess() {
		t.Fatalf("unexpected ticket: %+v", tk)
	}
	tk, err = repo.FindTicketByUserID(ctx, reserved)
	if err != nil || tk.HotelAccess() {
		t.Fatalf("reserved ticket: %+v err=%v", tk, err)
	}
	if _, err := repo.FindTicketByUserID(ctx, lonely); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for user without ticket, got %v", err)
	}

	// hotels: empty first
	v0, err := repo.CatalogVersion(ctx)
	if err != nil {
		t.Fatalf("CatalogVersion: %v", err)
	}
	hs, err := repo.FindHotels(ctx)
	if err != nil || hs == nil || len(hs) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v err=%v", hs, err)
	}

	h1 := mustExec(t, db, `INSERT INTO hotels (name, image) VALUES ('Marriott', 'https://img/m.png')`)
	h2 := mustExec(t, db, `INSERT INTO hotels (name, image) VALUES ('Hilton', 'https://img/h.png')`)
	mustExec(t, db, `INSERT INTO rooms (name, capacity, hotel_id) VALUES ('Suite 101', 2, ?)`, h1)
	mustExec(t, db, `INSERT INTO rooms (name, capacity, hotel_id) VALUES ('Suite 102', 3, ?)`, h1)

	v1, err := repo.CatalogVersion(ctx)
	if err != nil || v1 == v0 {
		t.Fatalf("version did not move on insert: %q -> %q err=%v", v0, v1, err)
	}
	mustExec(t, db, `DELETE FROM rooms WHERE name = 'Suite 102'`)
	if v2, _ := repo.CatalogVersion(ctx); v2 == v1 {
		t.Fatalf("version did not move on delete: %q", v2)
	}
	mustExec(t, db, `INSERT INTO rooms (name, capacity, hotel_id) VALUES ('Suite 102', 3, ?)`, h1)

	hs, err = repo.FindHotels(ctx)
	if err != nil {
		t.Fatalf("FindHotels: %v", err)
	}
	if len(hs) != 2 || hs[0].ID != h1 || hs[1].ID != h2 || hs[0].Rooms != nil {
		t.Fatalf("unexpected hotels: %+v", hs)
	}
	if hs[0].CreatedAt.IsZero() || hs[0].UpdatedAt.IsZero() {
		t.Fatalf("timestamps not scanned: %+v", hs[0])
	}

	h, err := repo.FindHotelByID(ctx, h1)
	if err != nil {
		t.Fatalf("FindHotelByID: %v", err)
	}
	if h.Name != "Marriott" || len(h.Rooms) != 2 || h.Rooms[0].Name != "Suite 101" || h.Rooms[0].Capacity != 2 || h.Rooms[1].HotelID != h1 {
		t.Fatalf("unexpected hotel: %+v", h)
	}
	h, err = repo.FindHotelByID(ctx, h2)
	if err != nil || h.Rooms == nil || len(h.Rooms) != 0 {
		t.Fatalf("hotel without rooms: %+v err=%v", h, err)
	}
	if _, err := repo.FindHotelByID(ctx, 0); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for id 0, got %v", err)
	}

	// sessions
	mustExec(t, db, `INSERT INTO sessions (user_id, token) VALUES (?, 'tok-1')`, paid)
	s, err := repo.FindSessionByToken(ctx, "tok-1")
	if err != nil || s.UserID != paid {
		t.Fatalf("FindSessionByToken: %+v err=%v", s, err)
	}
	if _, err := repo.FindSessionByToken(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown token, got %v", err)
	}
}

func TestRepo_MySQL_CatalogWrites(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.UpsertHotel(ctx, domain.Hotel{ID: 1641879, Name: "Old", Image: "a"}); err != nil {
		t.Fatalf("UpsertHotel: %v", err)
	}
	if err := repo.ReplaceRooms(ctx, 1641879, []domain.Room{{Name: "A", Capacity: 1}, {Name: "B", Capacity: 2}}); err != nil {
		t.Fatalf("ReplaceRooms: %v", err)
	}
	if err := repo.UpsertHotel(ctx, domain.Hotel{ID: 1641879, Name: "New", Image: "b"}); err != nil {
		t.Fatalf("UpsertHotel again: %v", err)
	}
	if err := repo.ReplaceRooms(ctx, 1641879, []domain.Room{{Name: "C", Capacity: 4}}); err != nil {
		t.Fatalf("ReplaceRooms again: %v", err)
	}

	h, err := repo.FindHotelByID(ctx, 1641879)
	if err != nil {
		t.Fatalf("FindHotelByID: %v", err)
	}
	if h.Name != "New" || h.Image != "b" || len(h.Rooms) != 1 || h.Rooms[0].Name != "C" {
		t.Fatalf("unexpected hotel after re-import: %+v", h)
	}

	if err := repo.LogMiss(ctx, 42, 404, "not found"); err != nil {
		t.Fatalf("LogMiss: %v", err)
	}
	if err := repo.LogMiss(ctx, 42, 403, "inactive"); err != nil {
		t.Fatalf("LogMiss again: %v", err)
	}
	var status int
	var reason string
	if err := db.QueryRow(`SELECT http_status, reason FROM import_misses WHERE property_id = 42`).Scan(&status, &reason); err != nil {
		t.Fatalf("read miss: %v", err)
	}
	if status != 403 || reason != "inactive" {
		t.Fatalf("unexpected miss: %d %q", status, reason)
	}

	// FK violation rolls the delete back too
	if err := repo.ReplaceRooms(ctx, 999, []domain.Room{{Name: "X", Capacity: 1}}); err == nil {
		t.Fatalf("expected FK error for unknown hotel")
	}
}
