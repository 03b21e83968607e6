package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	MinBoardSize = 3
	MaxBoardSize = 100
)

// BoardEngine holds the rules and state of one NxN game.
// It is not safe for concurrent use.
type BoardEngine struct {
	size        int
	firstPlayer PlayerID

	cells    []Cell // row-major
	filled   int
	current  PlayerID
	outcome  Outcome
	lastMove *Move
}

func NewBoardEngine(size int, firstPlayer PlayerID) (*BoardEngine, error) {
	if size < MinBoardSize || size > MaxBoardSize {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidBoardSize, size)
	}

	if !firstPlayer.Valid() {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidPlayer, uint8(firstPlayer))
	}

	engine := &BoardEngine{
		size:        size,
		firstPlayer: firstPlayer,
	}
	engine.Reset()

	return engine, nil
}

// Play - places the current player's mark at row, col.
func (that *BoardEngine) Play(row, col int) (GameState, error) {
	if !that.inBounds(row, col) {
		return GameState{}, fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfBounds, row, col)
	}

	if that.outcome.IsTerminal() {
		return GameState{}, apperror.ErrGameAlreadyOver
	}

	idx := that.index(row, col)
	if !that.cells[idx].IsEmpty() {
		return GameState{}, fmt.Errorf("%w: row %d, col %d", apperror.ErrCellOccupied, row, col)
	}

	that.cells[idx] = Owned(that.current)
	that.filled++
	that.lastMove = &Move{Coord: Coord{Row: row, Col: col}, Player: that.current}

	// win must be checked before draw: the last free cell can complete a line
	switch line := that.winningLine(row, col); {
	case line != nil:
		that.outcome = Outcome{Status: StatusWin, Winner: that.current, Line: line}
	case that.filled == len(that.cells):
		that.outcome = Outcome{Status: StatusDraw}
	default:
		that.current = that.current.Opponent()
	}

	return that.CurrentState(), nil
}

// Reset - restores the construction-time state.
func (that *BoardEngine) Reset() GameState {
	that.cells = make([]Cell, that.size*that.size)
	that.filled = 0
	that.current = that.firstPlayer
	that.outcome = Outcome{Status: StatusInProgress}
	that.lastMove = nil

	return that.CurrentState()
}

func (that *BoardEngine) CurrentState() GameState {
	board := make([][]Cell, that.size)
	for row := range board {
		board[row] = make([]Cell, that.size)
		copy(board[row], that.cells[row*that.size:(row+1)*that.size])
	}

	outcome := that.outcome
	if outcome.Line != nil {
		outcome.Line = append([]Coord(nil), that.outcome.Line...)
	}

	var lastMove *Move
	if that.lastMove != nil {
		move := *that.lastMove
		lastMove = &move
	}

	return GameState{
		Size:          that.size,
		Board:         board,
		CurrentPlayer: that.current,
		Outcome:       outcome,
		LastMove:      lastMove,
	}
}

func (that *BoardEngine) Size() int {
	return that.size
}

func (that *BoardEngine) inBounds(row, col int) bool {
	return row >= 0 && row < that.size && col >= 0 && col < that.size
}

func (that *BoardEngine) index(row, col int) int {
	return row*that.size + col
}

// winningLine - checks only the lines through row, col; a new win can't appear anywhere else.
func (that *BoardEngine) winningLine(row, col int) []Coord {
	candidates := [][]Coord{
		that.line(Coord{Row: row, Col: 0}, 0, 1),
		that.line(Coord{Row: 0, Col: col}, 1, 0),
	}

	if row == col {
		candidates = append(candidates, that.line(Coord{Row: 0, Col: 0}, 1, 1))
	}

	if row+col == that.size-1 {
		candidates = append(candidates, that.line(Coord{Row: 0, Col: that.size - 1}, 1, -1))
	}

	mark := that.cells[that.index(row, col)]
	for _, line := range candidates {
		if that.isComplete(line, mark) {
			return line
		}
	}

	return nil
}

func (that *BoardEngine) line(start Coord, dRow, dCol int) []Coord {
	line := make([]Coord, that.size)
	for i := range line {
		line[i] = Coord{Row: start.Row + i*dRow, Col: start.Col + i*dCol}
	}
	return line
}

func (that *BoardEngine) isComplete(line []Coord, mark Cell) bool {
	for _, coord := range line {
		if that.cells[that.index(coord.Row, coord.Col)] != mark {
			return false
		}
	}
	return true
}
