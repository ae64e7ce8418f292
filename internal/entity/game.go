package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
)

type Mode string

const (
	// ModeHuman is human vs human on the same board.
	ModeHuman Mode = "pvp"
	// ModeComputer is human (X) vs computer (O).
	ModeComputer Mode = "pvc"
)

// ParseMode validates a mode received from a client.
func ParseMode(value string) (Mode, error) {
	switch mode := Mode(value); mode {
	case ModeHuman, ModeComputer:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownMode, value)
	}
}

// Toggle returns the other mode.
func (that Mode) Toggle() Mode {
	if that == ModeComputer {
		return ModeHuman
	}
	return ModeComputer
}

// Game is the state of one board: the cells, whose turn it is and whether it is over.
type Game struct {
	ID        string    `json:"id"`
	Mode      Mode      `json:"mode"`
	Board     Board     `json:"board"`
	Turn      Mark      `json:"turn"`
	Over      bool      `json:"over"`
	Result    Result    `json:"result"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewGame(id string, mode Mode) *Game {
	game := &Game{
		ID:   id,
		Mode: mode,
	}
	game.Reset()

	return game
}

// Reset returns the game to an empty board with X to move.
func (that *Game) Reset() {
	that.Board = Board{}
	that.Turn = X
	that.Over = false
	that.Result = ResultNone
}

// SetMode switches the mode. Changing the mode always starts a new game.
func (that *Game) SetMode(mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}

	that.Mode = mode
	that.Reset()

	return nil
}

// CanPlay reports whether a move at index would be accepted.
func (that *Game) CanPlay(index int) bool {
	return !that.Over && InRange(index) && that.Board[index] == Empty
}

// ApplyMove places the current mark at index. Moves on a finished game,
// an occupied cell or outside the board are ignored.
func (that *Game) ApplyMove(index int) {
	if !that.CanPlay(index) {
		return
	}

	that.Board[index] = that.Turn

	if result := EvaluateResult(&that.Board); result.IsTerminal() {
		that.Over = true
		that.Result = result
		return
	}

	that.Turn = that.Turn.Opponent()
}

// IsComputerTurn reports whether the computer should move next.
func (that *Game) IsComputerTurn() bool {
	return that.Mode == ModeComputer && !that.Over && that.Turn == ComputerMark
}
