package service

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBotService_MakeTurn(t *testing.T) {
	t.Run("Plays the winning cell", func(t *testing.T) {
		// Given: a game where O can complete the diagonal
		game := entity.NewGame("123", entity.ModeComputer)
		for _, cell := range []int{1, 0, 2, 4, 3} {
			game.ApplyMove(cell)
		}
		require.True(t, game.IsComputerTurn())

		// When: the bot makes its turn
		cell, err := NewBotService().MakeTurn(game)

		// Then: O wins on cell 8
		require.NoError(t, err)
		assert.Equal(t, 8, cell)
		assert.True(t, game.Over)
		assert.Equal(t, entity.ResultOWins, game.Result)
	})

	t.Run("Replies to an opening", func(t *testing.T) {
		// Given: X played a corner
		game := entity.NewGame("123", entity.ModeComputer)
		game.ApplyMove(0)

		// When: the bot makes its turn
		cell, err := NewBotService().MakeTurn(game)

		// Then: O takes the center and it is X's turn again
		require.NoError(t, err)
		assert.Equal(t, 4, cell)
		assert.Equal(t, entity.O, game.Board[4])
		assert.Equal(t, entity.X, game.Turn)
	})

	t.Run("Finished game has no moves", func(t *testing.T) {
		// Given: a game X has won
		game := entity.NewGame("123", entity.ModeComputer)
		for _, cell := range []int{0, 3, 1, 4, 2} {
			game.ApplyMove(cell)
		}
		before := *game

		// When: the bot is asked to play
		cell, err := NewBotService().MakeTurn(game)

		// Then: ErrNoAvailableMoves is returned and nothing changes
		require.ErrorIs(t, err, apperror.ErrNoAvailableMoves)
		assert.Equal(t, NoMove, cell)
		assert.Equal(t, before, *game)
	})
}
