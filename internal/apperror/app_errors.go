package apperror

import "errors"

var (
	ErrOutOfBounds      = errors.New("cell is out of bounds")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrGameAlreadyOver  = errors.New("game is already over")
	ErrInvalidBoardSize = errors.New("invalid board size")
	ErrInvalidPlayer    = errors.New("invalid player")

	ErrSessionNotFound = errors.New("session not found")
	ErrOutcomeNotFinal = errors.New("game outcome is not final")

	ErrCityNotFound   = errors.New("city not found")
	ErrLookupFailed   = errors.New("location lookup failed")
	ErrBadCoordinates = errors.New("invalid coordinates")
)
