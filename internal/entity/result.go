package entity

import (
	"errors"
	"fmt"
)

var ErrUnknownResult = errors.New("unknown result")

type Result uint8

const (
	ResultNone Result = iota
	ResultXWins
	ResultOWins
	ResultDraw
)

func resultFor(winner Mark) Result {
	switch winner {
	case X:
		return ResultXWins
	case O:
		return ResultOWins
	default:
		return ResultNone
	}
}

// IsTerminal reports whether no further moves are accepted.
func (that Result) IsTerminal() bool {
	return that != ResultNone
}

// Winner returns the winning mark, or Empty for a draw or a game in progress.
func (that Result) Winner() Mark {
	switch that {
	case ResultXWins:
		return X
	case ResultOWins:
		return O
	default:
		return Empty
	}
}

// Outcome is the human-readable end of game message, empty while in progress.
func (that Result) Outcome() string {
	switch that {
	case ResultXWins, ResultOWins:
		return that.Winner().String() + " wins"
	case ResultDraw:
		return "Draw"
	default:
		return ""
	}
}

func (that Result) String() string {
	switch that {
	case ResultXWins:
		return "x_wins"
	case ResultOWins:
		return "o_wins"
	case ResultDraw:
		return "draw"
	default:
		return ""
	}
}

func (that Result) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Result) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*that = ResultNone
	case "x_wins":
		*that = ResultXWins
	case "o_wins":
		*that = ResultOWins
	case "draw":
		*that = ResultDraw
	default:
		return fmt.Errorf("%w: %q", ErrUnknownResult, text)
	}

	return nil
}
