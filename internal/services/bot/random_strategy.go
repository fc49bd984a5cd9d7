package bot

import (
	"github.com/tomkite/dropfour/internal/dependencies/random"
	"github.com/tomkite/dropfour/internal/model"
	"github.com/tomkite/dropfour/internal/services/board"
)

// RandomStrategy picks uniformly among columns with at least one empty cell.
// No look-ahead.
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// Ensure RandomStrategy implements Strategy
var _ Strategy = (*RandomStrategy)(nil)

// ChooseColumn picks a random non-full column
func (s *RandomStrategy) ChooseColumn(game *model.Game) int {
	cols := board.LegalColumns(game.Board)
	if len(cols) == 0 {
		return 0
	}
	return cols[s.random.Intn(len(cols))]
}
