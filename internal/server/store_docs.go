package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// DocStore implements Store over the goose-managed tables, storing each
// game and session as a JSONB document.
type DocStore struct {
	db *sql.DB
}

func NewDocStore(db *sql.DB) *DocStore {
	return &DocStore{db: db}
}

func newID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func newToken() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func (s *DocStore) SaveGame(ctx context.Context, doc gameDoc, status string) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding game %s: %w", doc.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO games (id, status, created_at, data)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET status = excluded.status, data = excluded.data
	`, doc.ID, status, doc.CreatedAt, string(data))
	if err != nil {
		return fmt.Errorf("saving game %s: %w", doc.ID, err)
	}
	return nil
}

func (s *DocStore) GetGame(ctx context.Context, id string) (gameDoc, error) {
	var doc gameDoc
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM games WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return doc, ErrNotFound
	}
	if err != nil {
		return doc, fmt.Errorf("loading game %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return doc, fmt.Errorf("decoding game %s: %w", id, err)
	}
	return doc, nil
}

func (s *DocStore) ListGames(ctx context.Context) ([]gameDoc, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM games ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	var docs []gameDoc
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var doc gameDoc
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			return nil, fmt.Errorf("decoding game: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *DocStore) CreateSession(ctx context.Context, token string, sess sessionInfo) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO player_sessions (id, data) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data
	`, token, string(data))
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (s *DocStore) SessionFromToken(ctx context.Context, token string) (sessionInfo, error) {
	var sess sessionInfo
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM player_sessions WHERE id = ?`, token).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return sess, ErrNotFound
	}
	if err != nil {
		return sess, fmt.Errorf("loading session: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return sess, fmt.Errorf("decoding session: %w", err)
	}
	return sess, nil
}

func (s *DocStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
