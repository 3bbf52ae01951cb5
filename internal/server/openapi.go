package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Junta API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Junta pooled savings game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/games
	listGames, _ := r.NewOperationContext(http.MethodGet, "/api/games")
	listGames.SetSummary("List games")
	listGames.SetDescription("Returns every game, newest first.")
	listGames.AddRespStructure([]GameSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listGames)

	// GET /api/games/{gameID}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}")
	getGame.SetSummary("Get game")
	getGame.SetDescription("Returns the public view of a game.")
	getGame.AddRespStructure(GameView{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// POST /api/games/{gameID}/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/join")
	postJoin.SetSummary("Join a game")
	postJoin.SetDescription("Join during segment 0 by paying the first segment. Returns a session token. Gated games require a Merkle proof.")
	postJoin.AddReqStructure(JoinRequest{})
	postJoin.AddRespStructure(JoinResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postJoin)

	// POST /api/games/{gameID}/deposit
	postDeposit, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/deposit")
	postDeposit.SetSummary("Pay the current segment")
	postDeposit.SetDescription("Pay the exact segment payment for the current segment. Requires Bearer token. Contiguity is enforced: a missed segment is unrecoverable.")
	postDeposit.AddReqStructure(DepositRequest{})
	postDeposit.AddRespStructure(DepositResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postDeposit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postDeposit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postDeposit)

	// POST /api/games/{gameID}/exit
	postExit, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/exit")
	postExit.SetSummary("Early exit")
	postExit.SetDescription("Leave before the game completes, refunding paid principal minus the early withdrawal fee. Requires Bearer token.")
	postExit.AddRespStructure(ExitResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postExit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postExit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postExit)

	// POST /api/games/{gameID}/withdraw
	postWithdraw, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/withdraw")
	postWithdraw.SetSummary("Withdraw after the game")
	postWithdraw.SetDescription("Withdraw principal plus any winner share once the schedule has run out. Settles the game first if needed. Requires Bearer token.")
	postWithdraw.AddRespStructure(WithdrawResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postWithdraw.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postWithdraw.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postWithdraw.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(postWithdraw)

	// POST /api/games/{gameID}/settle
	postSettle, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/settle")
	postSettle.SetSummary("Settle the game")
	postSettle.SetDescription("Redeems the pool and fixes the interest, reward, and fee split. Anyone may call once all segments have elapsed.")
	postSettle.AddRespStructure(SettleResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSettle.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postSettle.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(postSettle)

	// GET /api/games/{gameID}/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/state")
	getState.SetSummary("Get full game state")
	getState.SetDescription("Returns the game view plus every account and the settlement figures.")
	getState.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getState)

	// GET /api/games/{gameID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of joins, deposits, exits, withdrawals, and settlement.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with email and password. Sets admin_session cookie.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.SetDescription("Clears admin session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/admin/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	getMe.SetSummary("Current admin")
	getMe.SetDescription("Returns the currently authenticated admin. Requires admin_session cookie.")
	getMe.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/admin/games
	adminListGames, _ := r.NewOperationContext(http.MethodGet, "/api/admin/games")
	adminListGames.SetSummary("List games (admin)")
	adminListGames.SetDescription("Returns every game. Requires admin_session cookie.")
	adminListGames.AddRespStructure([]GameSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	adminListGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminListGames)

	// POST /api/admin/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/admin/games")
	createGame.SetSummary("Create game")
	createGame.SetDescription("Creates a new game. Requires admin_session cookie.")
	createGame.AddReqStructure(AdminCreateGameRequest{})
	createGame.AddRespStructure(GameView{}, openapi.WithHTTPStatus(http.StatusCreated))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(createGame)

	// GET /api/admin/games/{gameID}
	adminGetGame, _ := r.NewOperationContext(http.MethodGet, "/api/admin/games/{gameID}")
	adminGetGame.SetSummary("Get game (admin)")
	adminGetGame.SetDescription("Returns the operator view including the fee ledger and pool balance. Requires admin_session cookie.")
	adminGetGame.AddRespStructure(AdminGameDetail{}, openapi.WithHTTPStatus(http.StatusOK))
	adminGetGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	adminGetGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminGetGame)

	// POST /api/admin/games/{gameID}/pause
	pauseGame, _ := r.NewOperationContext(http.MethodPost, "/api/admin/games/{gameID}/pause")
	pauseGame.SetSummary("Pause game")
	pauseGame.SetDescription("Blocks joins and deposits. Exits and withdrawals stay open. Requires admin_session cookie.")
	pauseGame.AddRespStructure(GameView{}, openapi.WithHTTPStatus(http.StatusOK))
	pauseGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	pauseGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(pauseGame)

	// POST /api/admin/games/{gameID}/unpause
	unpauseGame, _ := r.NewOperationContext(http.MethodPost, "/api/admin/games/{gameID}/unpause")
	unpauseGame.SetSummary("Unpause game")
	unpauseGame.SetDescription("Re-opens joins and deposits. Requires admin_session cookie.")
	unpauseGame.AddRespStructure(GameView{}, openapi.WithHTTPStatus(http.StatusOK))
	unpauseGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	unpauseGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(unpauseGame)

	// POST /api/admin/games/{gameID}/allow-renounce
	allowRenounce, _ := r.NewOperationContext(http.MethodPost, "/api/admin/games/{gameID}/allow-renounce")
	allowRenounce.SetSummary("Unlock ownership renounce")
	allowRenounce.SetDescription("First step of the two-step ownership renounce. Requires admin_session cookie.")
	allowRenounce.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	allowRenounce.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	allowRenounce.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(allowRenounce)

	// POST /api/admin/games/{gameID}/renounce
	renounce, _ := r.NewOperationContext(http.MethodPost, "/api/admin/games/{gameID}/renounce")
	renounce.SetSummary("Renounce ownership")
	renounce.SetDescription("Permanently disables the operator controls for this game. Requires the unlock step first. Requires admin_session cookie.")
	renounce.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	renounce.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	renounce.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(renounce)

	// POST /api/admin/games/{gameID}/admin-fee
	adminFee, _ := r.NewOperationContext(http.MethodPost, "/api/admin/games/{gameID}/admin-fee")
	adminFee.SetSummary("Withdraw admin fee")
	adminFee.SetDescription("One-shot withdrawal of the operator's settled fee. Requires admin_session cookie.")
	adminFee.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	adminFee.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	adminFee.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminFee)

	// POST /api/admin/games/{gameID}/fund-incentive
	fundIncentive, _ := r.NewOperationContext(http.MethodPost, "/api/admin/games/{gameID}/fund-incentive")
	fundIncentive.SetSummary("Fund incentive")
	fundIncentive.SetDescription("Donates a bonus balance that is split among winners at settlement. Requires admin_session cookie.")
	fundIncentive.AddReqStructure(AdminFundRequest{})
	fundIncentive.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	fundIncentive.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	fundIncentive.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(fundIncentive)

	// POST /api/admin/games/{gameID}/value-share
	valueShare, _ := r.NewOperationContext(http.MethodPost, "/api/admin/games/{gameID}/value-share")
	valueShare.SetSummary("Set simulated pool value")
	valueShare.SetDescription("Sets the simulated yield pool's redemption value in basis points of principal. Requires admin_session cookie.")
	valueShare.AddReqStructure(AdminValueShareRequest{})
	valueShare.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	valueShare.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	valueShare.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(valueShare)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
