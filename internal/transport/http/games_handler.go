package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"money-drop-service/internal/app"
	"money-drop-service/internal/domain"
	"money-drop-service/internal/view"
)

type GamesHandler struct {
	service *app.GameService
	logger  *slog.Logger
}

func NewGamesHandler(service *app.GameService, logger *slog.Logger) *GamesHandler {
	return &GamesHandler{service: service, logger: logger}
}

type createdGame struct {
	ID    string     `json:"id"`
	Board view.Board `json:"board"`
}

func (h *GamesHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, state, err := h.service.Create(r.Context())
	if err != nil {
		h.logger.Error("create game failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create game")
		return
	}
	writeJSON(w, http.StatusCreated, createdGame{ID: id, Board: view.Build(state, h.service.Rules())})
}

func (h *GamesHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.State(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrGameNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view.Build(state, h.service.Rules()))
}

func (h *GamesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.End(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrGameNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorPayload{Message: msg})
}
