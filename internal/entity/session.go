package entity

import (
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

// Session is one hosted game and its latest state.
type Session struct {
	ID        string              `json:"id"`
	State     tictactoe.GameState `json:"state"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func (that *Session) IsFinished() bool {
	return that.State.Outcome.IsTerminal()
}
