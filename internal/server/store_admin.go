package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type adminDoc struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

type adminSessionDoc struct {
	ID      string `json:"id"`
	AdminID string `json:"adminId"`
	Email   string `json:"email"`
}

// AdminDocStore implements AdminStore over the admins and admin_sessions
// tables.
type AdminDocStore struct {
	db *sql.DB
}

func NewAdminDocStore(db *sql.DB) *AdminDocStore {
	return &AdminDocStore{db: db}
}

func (s *AdminDocStore) AdminByEmail(ctx context.Context, email string) (string, string, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM admins WHERE email = ?`, email).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	if err != nil {
		return "", "", fmt.Errorf("loading admin: %w", err)
	}
	var doc adminDoc
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return "", "", fmt.Errorf("decoding admin: %w", err)
	}
	return doc.ID, doc.PasswordHash, nil
}

// EnsureAdmin creates the admin if the email is not yet registered.
func (s *AdminDocStore) EnsureAdmin(ctx context.Context, email, passwordHash string) error {
	doc := adminDoc{ID: newID(), Email: email, PasswordHash: passwordHash}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO admins (id, email, data) VALUES (?, ?, ?)
		ON CONFLICT (email) DO NOTHING
	`, doc.ID, email, string(data))
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	return nil
}

func (s *AdminDocStore) CountAdmins(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting admins: %w", err)
	}
	return n, nil
}

func (s *AdminDocStore) CreateAdminSession(ctx context.Context, adminID, email string) (string, error) {
	doc := adminSessionDoc{ID: newToken(), AdminID: adminID, Email: email}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO admin_sessions (id, data) VALUES (?, ?)
	`, doc.ID, string(data))
	if err != nil {
		return "", fmt.Errorf("creating admin session: %w", err)
	}
	return doc.ID, nil
}

func (s *AdminDocStore) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, sessionID)
	return err
}

func (s *AdminDocStore) AdminFromSession(ctx context.Context, sessionID string) (adminSession, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM admin_sessions WHERE id = ?`, sessionID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, errNoAdminSession
	}
	if err != nil {
		return adminSession{}, fmt.Errorf("loading admin session: %w", err)
	}
	var doc adminSessionDoc
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return adminSession{}, fmt.Errorf("decoding admin session: %w", err)
	}
	return adminSession{AdminID: doc.AdminID, Email: doc.Email}, nil
}
