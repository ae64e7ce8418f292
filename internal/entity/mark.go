package entity

import (
	"errors"
	"fmt"
)

var ErrUnknownMark = errors.New("unknown mark")

// Mark is the content of a board cell: Empty or a player's symbol.
type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

const (
	// HumanMark is the mark of the player who always moves first.
	HumanMark = X
	// ComputerMark is the mark played by the computer in ModeComputer.
	ComputerMark = O
)

func (that Mark) String() string {
	switch that {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other player's mark. Empty has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (that Mark) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Mark) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*that = Empty
	case "X":
		*that = X
	case "O":
		*that = O
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMark, text)
	}

	return nil
}
