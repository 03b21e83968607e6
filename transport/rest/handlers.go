package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/location"
)

type sessionService interface {
	Create(ctx context.Context, size int, firstPlayer string) (*entity.Session, error)
	Get(ctx context.Context, id string) (*entity.Session, error)
	Play(ctx context.Context, id string, row, col int) (*entity.Session, error)
	Reset(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error

	Scores(ctx context.Context, size int) (*entity.Score, error)
}

type locationResolver interface {
	Update(ctx context.Context, coords location.Coordinates) <-chan location.Result
}

type Handlers struct {
	logger   *slog.Logger
	sessions sessionService
	resolver locationResolver
}

func NewHandlers(logger *slog.Logger, sessions sessionService, resolver locationResolver) *Handlers {
	return &Handlers{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
		resolver: resolver,
	}
}

type createGameRequest struct {
	Size        int    `json:"size"`
	FirstPlayer string `json:"first_player"`
}

type turnRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type locationResponse struct {
	Label location.Label `json:"label"`
	City  string         `json:"city,omitempty"`
	Stale bool           `json:"stale,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var errBadRequest = errors.New("bad request")

func (that *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

func (that *Handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			that.writeError(w, fmt.Errorf("%w: %w", errBadRequest, err))
			return
		}
	}

	sess, err := that.sessions.Create(r.Context(), req.Size, req.FirstPlayer)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, sess)
}

func (that *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := that.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, sess)
}

func (that *Handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Handlers) MakeTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}

	if req.Row == nil || req.Col == nil {
		that.writeError(w, fmt.Errorf("%w: row and col are required", errBadRequest))
		return
	}

	sess, err := that.sessions.Play(r.Context(), chi.URLParam(r, "id"), *req.Row, *req.Col)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, sess)
}

func (that *Handlers) ResetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := that.sessions.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, sess)
}

func (that *Handlers) GetScores(w http.ResponseWriter, r *http.Request) {
	size, err := strconv.Atoi(chi.URLParam(r, "size"))
	if err != nil {
		that.writeError(w, fmt.Errorf("%w: size must be a number", errBadRequest))
		return
	}

	score, err := that.sessions.Scores(r.Context(), size)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, score)
}

func (that *Handlers) GetLocation(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		that.writeError(w, fmt.Errorf("%w: lat and lon must be numbers", apperror.ErrBadCoordinates))
		return
	}

	coords := location.Coordinates{Lat: lat, Lon: lon}
	if err := coords.Validate(); err != nil {
		that.writeError(w, err)
		return
	}

	select {
	case result := <-that.resolver.Update(r.Context(), coords):
		that.writeJSON(w, http.StatusOK, locationResponse{
			Label: result.Label,
			City:  result.City,
			Stale: result.Stale,
		})
	case <-r.Context().Done():
		that.writeError(w, r.Context().Err())
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrGameAlreadyOver):
		return http.StatusConflict
	case errors.Is(err, errBadRequest),
		errors.Is(err, apperror.ErrOutOfBounds),
		errors.Is(err, apperror.ErrInvalidBoardSize),
		errors.Is(err, apperror.ErrInvalidPlayer),
		errors.Is(err, apperror.ErrBadCoordinates):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (that *Handlers) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
		message = http.StatusText(status)
	}

	that.writeJSON(w, status, errorResponse{Error: message})
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
