package service

import (
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

type BotService interface {
	MakeTurn(game *entity.Game) (int, error)
}

type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

// MakeTurn plays the best move for the side to move and returns the chosen cell.
func (that *botService) MakeTurn(game *entity.Game) (int, error) {
	availableCells := game.Board.EmptyCells()
	if game.Over || len(availableCells) == 0 {
		return NoMove, apperror.ErrNoAvailableMoves
	}

	chosenCell := BestMove(&game.Board, game.Turn)
	if chosenCell == NoMove {
		chosenCell = availableCells[rand.Intn(len(availableCells))] //nolint: gosec // it's ok
	}

	if !game.CanPlay(chosenCell) {
		return NoMove, fmt.Errorf("bot failed to make turn: %w: cell %d", apperror.ErrInvalidCell, chosenCell)
	}

	game.ApplyMove(chosenCell)

	return chosenCell, nil
}
