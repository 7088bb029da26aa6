package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/treetop/internal/config"
	"github.com/vancomm/treetop/internal/forest"
	"github.com/vancomm/treetop/internal/repository"
)

type SurveyStore interface {
	CreateSurvey(ctx context.Context, params repository.CreateSurveyParams) (*repository.Survey, error)
	GetSurvey(ctx context.Context, surveyId int64) (*repository.Survey, error)
	GetSurveyByFingerprint(ctx context.Context, fingerprint []byte) (*repository.Survey, error)
	ListSurveys(ctx context.Context, filter repository.SurveyFilter) ([]repository.Survey, error)
}

type SurveyHandler struct {
	logger       *slog.Logger
	repo         SurveyStore
	ws           *config.WebSocket
	maxGridBytes int64
}

func NewSurveyHandler(
	logger *slog.Logger,
	repo SurveyStore,
	ws *config.WebSocket,
	maxGridBytes int64,
) *SurveyHandler {
	return &SurveyHandler{
		logger:       logger,
		repo:         repo,
		ws:           ws,
		maxGridBytes: maxGridBytes,
	}
}

func (h SurveyHandler) readGrid(w http.ResponseWriter, r *http.Request) (*forest.Grid, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxGridBytes))
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		sendStatusJSONOrLog(w, h.logger, http.StatusRequestEntityTooLarge, wrapError(err))
		return nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, false
	}

	grid, err := forest.Parse(string(data))
	if err != nil {
		sendStatusJSONOrLog(w, h.logger, http.StatusBadRequest, parseErrorDTO(err))
		return nil, false
	}
	return grid, true
}

func (h SurveyHandler) Create(w http.ResponseWriter, r *http.Request) {
	grid, ok := h.readGrid(w, r)
	if !ok {
		return
	}

	existing, err := h.repo.GetSurveyByFingerprint(r.Context(), grid.Fingerprint())
	if err == nil {
		h.logger.Debug("grid already surveyed", slog.Int64("surveyId", existing.SurveyId))
		sendJSONOrLog(w, h.logger, NewSurveyDTO(existing))
		return
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to look up survey", "error", err)
		return
	}

	survey, err := forest.Analyze(r.Context(), grid)
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		h.logger.Warn("survey interrupted", "error", err)
		return
	}

	stored, err := h.repo.CreateSurvey(r.Context(), repository.CreateSurveyParams{
		Grid:   grid,
		Survey: survey,
	})
	if errors.Is(err, repository.ErrDuplicateSurvey) {
		// lost a race with an identical upload
		stored, err = h.repo.GetSurveyByFingerprint(r.Context(), grid.Fingerprint())
		if err == nil {
			sendJSONOrLog(w, h.logger, NewSurveyDTO(stored))
			return
		}
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to store survey", "error", err)
		return
	}

	h.logger.Info(
		"created survey",
		slog.Int64("surveyId", stored.SurveyId),
		slog.Int("visible", stored.Visible),
		slog.Int64("scenicScore", stored.ScenicScore),
	)
	sendStatusJSONOrLog(w, h.logger, http.StatusCreated, NewSurveyDTO(stored))
}

func (h SurveyHandler) fetch(w http.ResponseWriter, r *http.Request) (*repository.Survey, bool) {
	surveyId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, false
	}

	survey, err := h.repo.GetSurvey(r.Context(), surveyId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to fetch survey from db", "error", err)
		return nil, false
	}
	return survey, true
}

func (h SurveyHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	if survey, ok := h.fetch(w, r); ok {
		sendJSONOrLog(w, h.logger, NewSurveyDTO(survey))
	}
}

func (h SurveyHandler) FetchGrid(w http.ResponseWriter, r *http.Request) {
	survey, ok := h.fetch(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, survey.Grid); err != nil {
		h.logger.Error("unable to send grid", "error", err)
	}
}

func (h SurveyHandler) List(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseListSurveysDTO(r.URL.Query())
	if err != nil {
		sendStatusJSONOrLog(w, h.logger, http.StatusBadRequest, wrapError(err))
		return
	}

	surveys, err := h.repo.ListSurveys(r.Context(), dto.Filter())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to list surveys", "error", err)
		return
	}

	dtos := make([]SurveyDTO, 0, len(surveys))
	for i := range surveys {
		dtos = append(dtos, NewSurveyDTO(&surveys[i]))
	}
	sendJSONOrLog(w, h.logger, dtos)
}
