package server

import (
	"context"
	"errors"

	"github.com/playperu/junta/internal/junta"
	"github.com/playperu/junta/internal/yield"
)

var ErrNotFound = errors.New("not found")

// sessionInfo resolves a player's bearer token to their game and identity.
type sessionInfo struct {
	Player string `json:"player"`
	GameID string `json:"gameId"`
}

// gameDoc is the persisted form of a game: metadata plus full snapshots of
// the engine and its simulated yield pool, written after every successful
// mutation so a restarted server can rehydrate live games.
type gameDoc struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt string          `json:"createdAt"`
	GateRoot  string          `json:"gateRoot,omitempty"`
	Game      *junta.Snapshot `json:"game"`
	Pool      *yield.Snapshot `json:"pool"`
}

type Store interface {
	SaveGame(ctx context.Context, doc gameDoc, status string) error
	GetGame(ctx context.Context, id string) (gameDoc, error)
	ListGames(ctx context.Context) ([]gameDoc, error)

	CreateSession(ctx context.Context, token string, sess sessionInfo) error
	SessionFromToken(ctx context.Context, token string) (sessionInfo, error)

	Ping(ctx context.Context) error
}

type AdminStore interface {
	AdminByEmail(ctx context.Context, email string) (adminID, passwordHash string, err error)
	EnsureAdmin(ctx context.Context, email, passwordHash string) error
	CountAdmins(ctx context.Context) (int, error)
	CreateAdminSession(ctx context.Context, adminID, email string) (sessionID string, err error)
	DeleteAdminSession(ctx context.Context, sessionID string) error
	AdminFromSession(ctx context.Context, sessionID string) (adminSession, error)
}
