package server

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/playperu/junta/internal/gate"
	"github.com/playperu/junta/internal/junta"
	"github.com/playperu/junta/internal/yield"
)

// GameHandle is a live game instance plus its simulated yield pool.
type GameHandle struct {
	ID        string
	Name      string
	CreatedAt string
	GateRoot  string
	Game      *junta.Game
	Pool      *yield.Sim
}

// Registry owns the live game instances, lazily rehydrated from the store.
// Every game is one independently addressable engine instance; the registry
// never reaches into their internals beyond snapshotting.
type Registry struct {
	store Store
	clock junta.Clock
	mu    sync.RWMutex
	games map[string]*GameHandle
}

func NewRegistry(store Store, clock junta.Clock) *Registry {
	return &Registry{
		store: store,
		clock: clock,
		games: make(map[string]*GameHandle),
	}
}

// Create builds a new game, persists the initial snapshot, and returns the
// live handle. gateRoot, when non-empty, is the hex Merkle root of the
// allow-list gating join and deposit.
func (r *Registry) Create(ctx context.Context, name string, cfg junta.Config, gateRoot string) (*GameHandle, error) {
	mg, err := buildGate(gateRoot)
	if err != nil {
		return nil, err
	}

	pool := yield.NewSim()
	game, err := junta.New(cfg, pool, mg, pool, r.clock)
	if err != nil {
		return nil, err
	}

	h := &GameHandle{
		ID:        newID(),
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
		GateRoot:  gateRoot,
		Game:      game,
		Pool:      pool,
	}
	if err := r.Save(ctx, h); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.games[h.ID] = h
	r.mu.Unlock()
	return h, nil
}

// Get returns the live handle, rehydrating it from the store if this is
// the first access since startup.
func (r *Registry) Get(ctx context.Context, id string) (*GameHandle, error) {
	r.mu.RLock()
	h, ok := r.games[id]
	r.mu.RUnlock()
	if ok {
		return h, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring the write lock.
	if h, ok := r.games[id]; ok {
		return h, nil
	}

	doc, err := r.store.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	h, err = r.restore(doc)
	if err != nil {
		return nil, fmt.Errorf("rehydrating game %s: %w", id, err)
	}
	r.games[id] = h
	return h, nil
}

func (r *Registry) restore(doc gameDoc) (*GameHandle, error) {
	mg, err := buildGate(doc.GateRoot)
	if err != nil {
		return nil, err
	}
	pool := yield.RestoreSim(doc.Pool)
	game, err := junta.Restore(doc.Game, pool, mg, pool, r.clock)
	if err != nil {
		return nil, err
	}
	return &GameHandle{
		ID:        doc.ID,
		Name:      doc.Name,
		CreatedAt: doc.CreatedAt,
		GateRoot:  doc.GateRoot,
		Game:      game,
		Pool:      pool,
	}, nil
}

// Save persists a full snapshot of the handle. Handlers call it after
// every successful mutation.
func (r *Registry) Save(ctx context.Context, h *GameHandle) error {
	doc := gameDoc{
		ID:        h.ID,
		Name:      h.Name,
		CreatedAt: h.CreatedAt,
		GateRoot:  h.GateRoot,
		Game:      h.Game.Snapshot(),
		Pool:      h.Pool.Snapshot(),
	}
	return r.store.SaveGame(ctx, doc, string(h.Game.Phase()))
}

// List returns every persisted game, newest first.
func (r *Registry) List(ctx context.Context) ([]gameDoc, error) {
	return r.store.ListGames(ctx)
}

func buildGate(root string) (junta.MembershipGate, error) {
	if root == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(root)
	if err != nil || len(b) != 32 {
		return nil, errors.New("gate root must be 32 hex-encoded bytes")
	}
	var r32 [32]byte
	copy(r32[:], b)
	return gate.NewMerkle(r32), nil
}
