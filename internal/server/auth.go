package server

import (
	"errors"
	"net/http"
	"strings"
)

var errNoSession = errors.New("no valid session")

// playerFromRequest resolves the Bearer token to a player session and
// checks it belongs to the requested game.
func playerFromRequest(r *http.Request, games *Registry) (sessionInfo, error) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return sessionInfo{}, errNoSession
	}
	return sessionForGame(r, games, token)
}

func sessionForGame(r *http.Request, games *Registry, token string) (sessionInfo, error) {
	sess, err := games.store.SessionFromToken(r.Context(), token)
	if err != nil {
		return sessionInfo{}, errNoSession
	}
	if sess.GameID != gameFrom(r).ID {
		return sessionInfo{}, errNoSession
	}
	return sess, nil
}
