package app

import (
	"net/http"

	"github.com/vancomm/treetop/internal/handlers"
	"github.com/vancomm/treetop/internal/repository"
)

func (a *App) loadRoutes() {
	survey := handlers.NewSurveyHandler(
		a.logger, repository.New(a.db), a.ws, a.maxGridBytes,
	)

	a.router.HandleFunc("POST /surveys", survey.Create)
	a.router.HandleFunc("GET /surveys", survey.List)
	a.router.HandleFunc("GET /surveys/connect", survey.ConnectWS)
	a.router.HandleFunc("GET /surveys/{id}", survey.Fetch)
	a.router.HandleFunc("GET /surveys/{id}/grid", survey.FetchGrid)
	a.router.HandleFunc("GET /healthz", a.healthz)
}

func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	if err := a.db.Ping(r.Context()); err != nil {
		a.logger.Warn("database ping failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
