package entity

// Score tallies finished games of one board size.
type Score struct {
	Size  int `json:"size"`
	XWins int `json:"x_wins"`
	OWins int `json:"o_wins"`
	Draws int `json:"draws"`
}

func (that *Score) Total() int {
	return that.XWins + that.OWins + that.Draws
}
