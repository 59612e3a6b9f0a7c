package app

import (
	"net/http"

	"github.com/vancomm/recall-server/internal/handlers"
	"github.com/vancomm/recall-server/internal/middleware"
)

// Handler wires every route and wraps them in cors, logging and auth.
func (a *App) Handler(d Deps) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /status", handlers.Status(a.logger, d.DB))

	s := handlers.NewSettingsHandler(a.logger, d.PublicURL)
	router.HandleFunc("GET /presets", s.Presets)
	router.HandleFunc("GET /presets/{name}", s.Preset)
	router.HandleFunc("GET /settings/share", s.Share)
	router.HandleFunc("GET /settings/parse", s.Parse)

	game := handlers.NewGameHandler(a.logger, d.Games, d.WS, d.Seeds)
	router.HandleFunc("POST /game", game.NewGame)
	router.HandleFunc("GET /game/highscores", game.Highscores)
	router.HandleFunc("GET /game/{id}", game.Fetch)
	router.HandleFunc("POST /game/{id}/begin", game.Play(handlers.Begin))
	router.HandleFunc("POST /game/{id}/flash", game.Play(handlers.Flash))
	router.HandleFunc("POST /game/{id}/select", game.Play(handlers.Select))
	router.HandleFunc("POST /game/{id}/surrender", game.Play(handlers.Surrender))
	router.HandleFunc("GET /game/{id}/connect", game.ConnectWS)

	auth := handlers.NewAuth(a.logger, d.Players, d.Cookies, d.JWT)
	router.HandleFunc("GET /auth/status", auth.Status)
	router.HandleFunc("POST /register", auth.Register)
	router.HandleFunc("POST /login", auth.Login)
	router.HandleFunc("POST /logout", auth.Logout)

	return middleware.Wrap(
		router,
		middleware.Auth(a.logger, d.Cookies, d.JWT),
		middleware.Logging(a.logger),
		middleware.Cors(a.cfg.Origins),
	)
}
