package view

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	t.Run("Game in progress", func(t *testing.T) {
		// Given: X played the center
		game := entity.NewGame("123", entity.ModeComputer)
		game.ApplyMove(4)

		// When: rendering
		view := Render(game)

		// Then: only the played cell is disabled and O is to move
		assert.Equal(t, View{
			ID:       "123",
			Mode:     entity.ModeComputer,
			Cells:    [9]string{"", "", "", "", "X", "", "", "", ""},
			Disabled: [9]bool{false, false, false, false, true, false, false, false, false},
			Turn:     "O",
			Over:     false,
			Message:  "",
		}, view)
	})

	t.Run("Finished game disables every cell", func(t *testing.T) {
		// Given: X won on the top row
		game := entity.NewGame("123", entity.ModeHuman)
		for _, cell := range []int{0, 3, 1, 4, 2} {
			game.ApplyMove(cell)
		}

		// When: rendering
		view := Render(game)

		// Then: the outcome is shown and no cell is playable
		assert.True(t, view.Over)
		assert.Equal(t, "X wins", view.Message)
		for i, disabled := range view.Disabled {
			assert.True(t, disabled, "cell %d", i)
		}
	})

	t.Run("Render does not touch the game", func(t *testing.T) {
		// Given: a game in progress
		game := entity.NewGame("123", entity.ModeHuman)
		game.ApplyMove(0)
		before := *game

		// When: rendering twice
		first := Render(game)
		second := Render(game)

		// Then: output is stable and the game is unchanged
		assert.Equal(t, first, second)
		assert.Equal(t, before, *game)
	})
}
