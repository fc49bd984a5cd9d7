// Package bot provides move selection for computer-controlled players.
package bot

import "github.com/tomkite/dropfour/internal/model"

// Strategy defines how a computer player chooses its next column.
// Implementations must be synchronous and non-blocking; the coordinator
// invokes them inline within the move pipeline.
type Strategy interface {
	ChooseColumn(game *model.Game) int
}
