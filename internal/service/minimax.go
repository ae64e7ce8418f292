package service

import (
	"math"

	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

// NoMove is returned by BestMove when the board has no empty cell.
const NoMove = -1

const (
	winScore  = 10
	lossScore = -10
	drawScore = 0
)

// BestMove returns the cell the given mark should play, assuming both sides
// play perfectly. Ties go to the lowest index. The board is restored before returning.
func BestMove(board *entity.Board, mark entity.Mark) int {
	bestScore := math.MinInt
	move := NoMove

	for i, cell := range board {
		if cell != entity.Empty {
			continue
		}

		board[i] = mark
		score := Minimax(board, mark.Opponent(), mark)
		board[i] = entity.Empty

		if score > bestScore {
			bestScore = score
			move = i
		}
	}

	return move
}

// Minimax scores the board for maximizer with turn to move. The whole game
// tree below the board is searched and every trial move is undone.
func Minimax(board *entity.Board, turn, maximizer entity.Mark) int {
	switch result := entity.EvaluateResult(board); {
	case result == entity.ResultDraw:
		return drawScore
	case result.Winner() == maximizer:
		return winScore
	case result.IsTerminal():
		return lossScore
	}

	best := math.MaxInt
	if turn == maximizer {
		best = math.MinInt
	}

	for i, cell := range board {
		if cell != entity.Empty {
			continue
		}

		board[i] = turn
		score := Minimax(board, turn.Opponent(), maximizer)
		board[i] = entity.Empty

		if turn == maximizer {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}

	return best
}
