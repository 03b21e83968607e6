package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// PlayerID identifies one of the two players. The zero value is not a player.
type PlayerID uint8

const (
	PlayerX PlayerID = iota + 1
	PlayerO
)

const (
	markX = "X"
	markO = "O"
)

// ParsePlayerID - converts "X" or "O" into a PlayerID.
func ParsePlayerID(mark string) (PlayerID, error) {
	switch mark {
	case markX:
		return PlayerX, nil
	case markO:
		return PlayerO, nil
	default:
		return 0, fmt.Errorf("%w: %q", apperror.ErrInvalidPlayer, mark)
	}
}

func (that PlayerID) Valid() bool {
	return that == PlayerX || that == PlayerO
}

// Opponent - returns the player who moves after this one.
func (that PlayerID) Opponent() PlayerID {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that PlayerID) String() string {
	switch that {
	case PlayerX:
		return markX
	case PlayerO:
		return markO
	default:
		return fmt.Sprintf("PlayerID(%d)", uint8(that))
	}
}

func (that PlayerID) MarshalText() ([]byte, error) {
	if !that.Valid() {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidPlayer, uint8(that))
	}
	return []byte(that.String()), nil
}

func (that *PlayerID) UnmarshalText(text []byte) error {
	player, err := ParsePlayerID(string(text))
	if err != nil {
		return err
	}
	*that = player
	return nil
}

// Cell is either empty or owned by a player.
type Cell struct {
	owner PlayerID
}

// Empty is the state of every cell after construction or reset.
var Empty = Cell{}

// Owned - returns a cell owned by player.
func Owned(player PlayerID) Cell {
	return Cell{owner: player}
}

func (that Cell) IsEmpty() bool {
	return that.owner == 0
}

func (that Cell) Owner() (PlayerID, bool) {
	return that.owner, !that.IsEmpty()
}

// MarshalText renders an empty cell as "" and an owned one as its owner's mark.
func (that Cell) MarshalText() ([]byte, error) {
	if that.IsEmpty() {
		return []byte{}, nil
	}
	return that.owner.MarshalText()
}

func (that *Cell) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*that = Empty
		return nil
	}

	player, err := ParsePlayerID(string(text))
	if err != nil {
		return err
	}
	*that = Owned(player)
	return nil
}

// Coord is a zero-based board position.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Status uint8

const (
	StatusInProgress Status = iota
	StatusWin
	StatusDraw
)

var statusNames = map[Status]string{
	StatusInProgress: "in_progress",
	StatusWin:        "win",
	StatusDraw:       "draw",
}

func (that Status) String() string {
	if name, ok := statusNames[that]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", uint8(that))
}

func (that Status) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*that = status
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Outcome is InProgress, Win with the winner and its line, or Draw.
type Outcome struct {
	Status Status   `json:"status"`
	Winner PlayerID `json:"winner,omitempty"`
	Line   []Coord  `json:"line,omitempty"`
}

func (that Outcome) IsTerminal() bool {
	return that.Status != StatusInProgress
}

// Move is a cell and the player who took it.
type Move struct {
	Coord
	Player PlayerID `json:"player"`
}

// GameState is a snapshot of an engine. It shares no memory with the engine.
type GameState struct {
	Size          int      `json:"size"`
	Board         [][]Cell `json:"board"`
	CurrentPlayer PlayerID `json:"current_player"`
	Outcome       Outcome  `json:"outcome"`
	LastMove      *Move    `json:"last_move,omitempty"`
}

// Cell - returns the cell at row, col. Coordinates must be on the board.
func (that GameState) Cell(row, col int) Cell {
	return that.Board[row][col]
}
