package apperror

import "errors"

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrUnknownMode      = errors.New("unknown game mode")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrNoAvailableMoves = errors.New("no available moves")
)
