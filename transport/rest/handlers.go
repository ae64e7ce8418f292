package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/view"
)

type modeRequest struct {
	Mode string `json:"mode"`
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var errMissingCell = errors.New("cell is required")

func (that *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	req := modeRequest{Mode: string(entity.ModeComputer)}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			that.writeError(w, r, err)
			return
		}
	}

	mode, err := entity.ParseMode(req.Mode)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	game, err := that.gameUseCase.NewGame(r.Context(), mode)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, view.Render(game))
}

// handleGetGame returns the game. A computer move left pending by another client is played first.
func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	game, err := that.gameUseCase.GetGame(r.Context(), id)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	if game.IsComputerTurn() {
		if game, err = that.gameUseCase.ComputerTurn(r.Context(), id); err != nil {
			that.writeError(w, r, err)
			return
		}
	}

	that.writeJSON(w, http.StatusOK, view.Render(game))
}

func (that *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.gameUseCase.DeleteGame(r.Context(), mux.Vars(r)["id"]); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleMove applies the human move and, against the computer, its reply right away.
func (that *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, r, err)
		return
	}

	if req.Cell == nil {
		that.writeError(w, r, errMissingCell)
		return
	}

	id := mux.Vars(r)["id"]

	game, err := that.gameUseCase.SelectCell(r.Context(), id, *req.Cell)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	if game.IsComputerTurn() {
		if game, err = that.gameUseCase.ComputerTurn(r.Context(), id); err != nil {
			that.writeError(w, r, err)
			return
		}
	}

	that.writeJSON(w, http.StatusOK, view.Render(game))
}

func (that *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameUseCase.Reset(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view.Render(game))
}

func (that *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, r, err)
		return
	}

	game, err := that.gameUseCase.SetMode(r.Context(), mux.Vars(r)["id"], entity.Mode(req.Mode))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view.Render(game))
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrNotYourTurn):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrUnknownMode),
		errors.Is(err, errMissingCell),
		errors.Is(err, io.EOF),
		errors.As(err, &syntaxErr),
		errors.As(err, &typeErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
