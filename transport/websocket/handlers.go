package websocket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/view"
	"nhooyr.io/websocket"
)

var (
	ErrMissingGameID = errors.New("missing game_id")
	ErrMissingCell   = errors.New("missing cell")
)

func (that *Server) handleNewGame(ctx context.Context, _ *websocket.Conn, req *RequestPayload) (*entity.Game, error) {
	mode := entity.ModeComputer
	if req.Mode != "" {
		parsed, err := entity.ParseMode(req.Mode)
		if err != nil {
			return nil, err
		}
		mode = parsed
	}

	return that.gameUseCase.NewGame(ctx, mode)
}

func (that *Server) handleState(ctx context.Context, conn *websocket.Conn, req *RequestPayload) (*entity.Game, error) {
	if req.GameID == "" {
		return nil, ErrMissingGameID
	}

	game, err := that.gameUseCase.GetGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}

	// a client coming back to a game whose computer move was never played
	if game.IsComputerTurn() {
		go that.scheduleComputerTurn(ctx, conn, game.ID)
	}

	return game, nil
}

func (that *Server) handleTurn(ctx context.Context, conn *websocket.Conn, req *RequestPayload) (*entity.Game, error) {
	if req.GameID == "" {
		return nil, ErrMissingGameID
	}

	if req.Cell == nil {
		return nil, ErrMissingCell
	}

	game, err := that.gameUseCase.SelectCell(ctx, req.GameID, *req.Cell)
	if err != nil {
		return nil, err
	}

	if game.IsComputerTurn() {
		go that.scheduleComputerTurn(ctx, conn, game.ID)
	}

	return game, nil
}

func (that *Server) handleReset(ctx context.Context, _ *websocket.Conn, req *RequestPayload) (*entity.Game, error) {
	if req.GameID == "" {
		return nil, ErrMissingGameID
	}

	return that.gameUseCase.Reset(ctx, req.GameID)
}

func (that *Server) handleMode(ctx context.Context, _ *websocket.Conn, req *RequestPayload) (*entity.Game, error) {
	if req.GameID == "" {
		return nil, ErrMissingGameID
	}

	mode, err := entity.ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}

	return that.gameUseCase.SetMode(ctx, req.GameID, mode)
}

// scheduleComputerTurn - waits computerDelay, plays the computer's move and pushes the new state.
// The move is played even if the connection goes away; only the push is skipped.
func (that *Server) scheduleComputerTurn(ctx context.Context, conn *websocket.Conn, gameID string) {
	log := that.logger.With("method", "scheduleComputerTurn", "game_id", gameID)

	time.Sleep(that.computerDelay)

	game, err := that.gameUseCase.ComputerTurn(context.WithoutCancel(ctx), gameID)
	if err != nil {
		if errors.Is(err, apperror.ErrGameNotFound) {
			log.Debug("game is gone, computer turn skipped")
			return
		}

		log.Error("failed to make computer turn", "error", err)
		return
	}

	if ctx.Err() != nil {
		log.Debug("connection is gone, update not pushed")
		return
	}

	if err = that.sendGame(ctx, conn, actionUpdate, game); err != nil {
		log.Debug("failed to push update", "error", err)
	}
}

func (that *Server) sendGame(ctx context.Context, conn *websocket.Conn, action string, game *entity.Game) error {
	gameView := view.Render(game)

	if err := that.send(ctx, conn, action, ResponsePayload{Game: &gameView}); err != nil {
		return fmt.Errorf("failed to send game: %w", err)
	}

	return nil
}
