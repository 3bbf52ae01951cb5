package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, admin AdminStore, games *Registry, broker *Broker) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Junta API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, games.store))

	// Player routes, with {gameID} resolved by gameMiddleware. Joining returns
	// a bearer session token used by the per-game operations; settle is
	// deliberately unauthenticated, anyone may trigger it once the game is
	// over.
	r.Route("/api/games", func(r chi.Router) {
		r.Get("/", handleListGames(games))
		r.Route("/{gameID}", func(r chi.Router) {
			r.Use(gameMiddleware(games))
			r.Get("/", handleGetGame())
			r.Post("/join", handleJoin(games, broker))
			r.Post("/deposit", handleDeposit(games, broker))
			r.Post("/exit", handleEarlyExit(games, broker))
			r.Post("/withdraw", handleWithdraw(games, broker))
			r.Post("/settle", handleSettle(games, broker))
			r.Get("/state", handleGameState())
			r.Get("/events", handleEvents(broker))
		})
	})

	// Admin surface, cookie sessions.
	r.Post("/api/admin/login", handleAdminLogin(admin))
	r.Post("/api/admin/logout", handleAdminLogout(admin))
	r.Get("/api/admin/me", handleAdminMe(admin))

	r.Route("/api/admin/games", func(r chi.Router) {
		r.Use(adminAuthMiddleware(admin))
		r.Get("/", handleAdminListGames(games))
		r.Post("/", handleAdminCreateGame(games))
		r.Route("/{gameID}", func(r chi.Router) {
			r.Use(gameMiddleware(games))
			r.Get("/", handleAdminGetGame())
			r.Post("/pause", handleAdminPause(games, true))
			r.Post("/unpause", handleAdminPause(games, false))
			r.Post("/allow-renounce", handleAdminAllowRenounce(games))
			r.Post("/renounce", handleAdminRenounce(games))
			r.Post("/admin-fee", handleAdminFeeWithdraw(games))
			r.Post("/fund-incentive", handleAdminFundIncentive(games))
			r.Post("/value-share", handleAdminSetValueShare(games))
		})
	})
}
