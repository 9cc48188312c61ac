package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/hpungsan/aas/internal/errors"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  My   Session ", "my session"},
		{"ART\tWork", "art work"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUpsertSession_InsertThenReplace(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	s := &Session{NameRaw: " Weekend Sketches ", ImageCount: 2, CurrentKey: "cat", Payload: []byte("v1")}
	created, err := UpsertSession(ctx, db, s)
	if err != nil {
		t.Fatalf("UpsertSession() error = %v", err)
	}
	if !created {
		t.Error("first save should create")
	}
	if len(s.ID) != 26 {
		t.Errorf("ID = %q, want 26-char ULID", s.ID)
	}
	firstID, firstCreated := s.ID, s.CreatedAt

	s2 := &Session{NameRaw: "weekend   SKETCHES", ImageCount: 3, Payload: []byte("v2")}
	created, err = UpsertSession(ctx, db, s2)
	if err != nil {
		t.Fatalf("UpsertSession() error = %v", err)
	}
	if created {
		t.Error("second save under same normalized name should replace")
	}
	if s2.ID != firstID || s2.CreatedAt != firstCreated {
		t.Errorf("ID/CreatedAt changed on replace: %s/%d", s2.ID, s2.CreatedAt)
	}

	got, err := GetSessionByName(ctx, db, "WEEKEND sketches")
	if err != nil {
		t.Fatalf("GetSessionByName() error = %v", err)
	}
	if string(got.Payload) != "v2" || got.ImageCount != 3 || got.CurrentKey != "" {
		t.Errorf("got = %+v", got)
	}
	if got.NameRaw != "weekend   SKETCHES" {
		t.Errorf("NameRaw = %q, want latest raw name", got.NameRaw)
	}

	n, err := CountSessions(ctx, db)
	if err != nil || n != 1 {
		t.Errorf("CountSessions() = %d, %v; want 1", n, err)
	}
}

func TestUpsertSession_EmptyName(t *testing.T) {
	db := setupTestDB(t)
	_, err := UpsertSession(context.Background(), db, &Session{NameRaw: "   ", Payload: []byte("x")})
	if !errors.Is(err, errors.ErrInvalidParameter) {
		t.Errorf("error = %v, want INVALID_PARAMETER", err)
	}
}

func TestGetSessionByName_NotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := GetSessionByName(context.Background(), db, "nope")
	if !errors.Is(err, errors.ErrSessionNotFound) {
		t.Errorf("error = %v, want SESSION_NOT_FOUND", err)
	}
}

func TestListSessions_OrderAndPaging(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for i, name := range []string{"alpha", "beta", "gamma"} {
		if _, err := UpsertSession(ctx, db, &Session{NameRaw: name, ImageCount: i, Payload: []byte(name)}); err != nil {
			t.Fatalf("UpsertSession(%s) error = %v", name, err)
		}
		// force distinct updated_at ordering
		if _, err := db.Exec(`UPDATE sessions SET updated_at = ? WHERE name_norm = ?`, 1000+i, name); err != nil {
			t.Fatalf("Exec error = %v", err)
		}
	}

	all, err := ListSessions(ctx, db, 10, 0)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(all) != 3 || all[0].Name != "gamma" || all[2].Name != "alpha" {
		t.Fatalf("ListSessions() = %+v, want newest first", all)
	}

	page, err := ListSessions(ctx, db, 1, 1)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(page) != 1 || page[0].Name != "beta" {
		t.Errorf("page = %+v, want [beta]", page)
	}

	empty, err := ListSessions(ctx, db, 10, 50)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("past-the-end page = %v, want empty non-nil slice", empty)
	}
}

func TestDeleteSession(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := UpsertSession(ctx, db, &Session{NameRaw: "Temp", Payload: []byte("x")}); err != nil {
		t.Fatalf("UpsertSession() error = %v", err)
	}
	if err := DeleteSession(ctx, db, " temp "); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if err := DeleteSession(ctx, db, "temp"); !errors.Is(err, errors.ErrSessionNotFound) {
		t.Errorf("second delete error = %v, want SESSION_NOT_FOUND", err)
	}
}
