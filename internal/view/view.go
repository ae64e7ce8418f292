// Package view turns a game into what a client draws. Render is pure: it never
// mutates the game and collaborators call it after every change.
package view

import "github.com/rocketscienceinc/tictactoe/internal/entity"

type View struct {
	ID       string                   `json:"id"`
	Mode     entity.Mode              `json:"mode"`
	Cells    [entity.BoardSize]string `json:"cells"`
	Disabled [entity.BoardSize]bool   `json:"disabled"`
	Turn     string                   `json:"turn"`
	Over     bool                     `json:"over"`
	Message  string                   `json:"message"`
}

func Render(game *entity.Game) View {
	view := View{
		ID:      game.ID,
		Mode:    game.Mode,
		Turn:    game.Turn.String(),
		Over:    game.Over,
		Message: game.Result.Outcome(),
	}

	for i, mark := range game.Board {
		view.Cells[i] = mark.String()
		view.Disabled[i] = !game.CanPlay(i)
	}

	return view
}
