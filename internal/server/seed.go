package server

import (
	"context"
	"log/slog"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/playperu/junta/internal/junta"
)

const (
	demoAdminEmail    = "admin@junta.local"
	demoAdminPassword = "admin"
)

// SeedDemo creates a demo admin and a demo game on an empty database.
// Idempotent: does nothing once an admin exists.
func SeedDemo(ctx context.Context, logger *slog.Logger, admin *AdminDocStore, games *Registry) error {
	n, err := admin.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := admin.EnsureAdmin(ctx, demoAdminEmail, string(hash)); err != nil {
		return err
	}

	cfg := junta.Config{
		SegmentCount:          4,
		SegmentLength:         24 * time.Hour,
		SegmentPayment:        big.NewInt(10_000_000),
		EarlyWithdrawalFeeBps: 100,
		AdminFeeBps:           300,
		MaxPlayers:            12,
		StartTime:             time.Now().UTC(),
	}
	if _, err := games.Create(ctx, "Demo junta", cfg, ""); err != nil {
		return err
	}

	logger.Info("demo admin and game seeded", "email", demoAdminEmail)
	return nil
}
