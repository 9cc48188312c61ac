package db

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/aas/internal/errors"
)

// Session is a saved studio payload.
type Session struct {
	ID         string
	NameRaw    string
	NameNorm   string
	ImageCount int
	CurrentKey string
	Payload    []byte
	CreatedAt  int64
	UpdatedAt  int64
}

// SessionSummary is a Session without its payload.
type SessionSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ImageCount int    `json:"image_count"`
	CurrentKey string `json:"current,omitempty"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at"`
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName trims, lowercases and collapses internal whitespace.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// UpsertSession stores s under its normalized name, replacing any session
// already saved under that name. ID and CreatedAt are kept on replace.
// s is updated with the stored ID and timestamps. Returns true if a new row was created.
func UpsertSession(ctx context.Context, db *sql.DB, s *Session) (bool, error) {
	s.NameRaw = strings.TrimSpace(s.NameRaw)
	s.NameNorm = NormalizeName(s.NameRaw)
	if s.NameNorm == "" {
		return false, errors.NewInvalidParameter("session name is required")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, errors.NewInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().Unix()
	var id string
	var createdAt int64
	err = tx.QueryRowContext(ctx,
		`SELECT id, created_at FROM sessions WHERE name_norm = ?`, s.NameNorm,
	).Scan(&id, &createdAt)

	created := false
	switch {
	case err == sql.ErrNoRows:
		id, err = newID()
		if err != nil {
			return false, err
		}
		createdAt = now
		created = true
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sessions (id, name_raw, name_norm, image_count, current_key, payload, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, s.NameRaw, s.NameNorm, s.ImageCount, toNullString(s.CurrentKey), s.Payload, createdAt, now,
		)
	case err != nil:
		return false, errors.NewInternal(err)
	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE sessions
			SET name_raw = ?, image_count = ?, current_key = ?, payload = ?, updated_at = ?
			WHERE id = ?`,
			s.NameRaw, s.ImageCount, toNullString(s.CurrentKey), s.Payload, now, id,
		)
	}
	if err != nil {
		return false, errors.NewInternal(err)
	}
	if err := tx.Commit(); err != nil {
		return false, errors.NewInternal(err)
	}

	s.ID = id
	s.CreatedAt = createdAt
	s.UpdatedAt = now
	return created, nil
}

// GetSessionByName retrieves a session by name (normalized before lookup).
func GetSessionByName(ctx context.Context, db *sql.DB, name string) (*Session, error) {
	norm := NormalizeName(name)
	row := db.QueryRowContext(ctx, `
		SELECT id, name_raw, name_norm, image_count, current_key, payload, created_at, updated_at
		FROM sessions
		WHERE name_norm = ?`, norm)

	var s Session
	var current sql.NullString
	err := row.Scan(&s.ID, &s.NameRaw, &s.NameNorm, &s.ImageCount, &current, &s.Payload, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewSessionNotFound(name)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	s.CurrentKey = current.String
	return &s, nil
}

// ListSessions returns summaries ordered by most recently updated.
func ListSessions(ctx context.Context, db *sql.DB, limit, offset int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, name_raw, image_count, current_key, created_at, updated_at
		FROM sessions
		ORDER BY updated_at DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	out := []SessionSummary{}
	for rows.Next() {
		var s SessionSummary
		var current sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &s.ImageCount, &current, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		s.CurrentKey = current.String
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// CountSessions returns the number of saved sessions.
func CountSessions(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// DeleteSession removes a session by name.
func DeleteSession(ctx context.Context, db *sql.DB, name string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE name_norm = ?`, NormalizeName(name))
	if err != nil {
		return errors.NewInternal(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewSessionNotFound(name)
	}
	return nil
}

func newID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to generate ID: %w", err))
	}
	return id.String(), nil
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
