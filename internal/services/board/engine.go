// Package board implements the pure Connect-Four rules: drop validation,
// win and draw detection. It holds no state between calls.
package board

import "github.com/tomkite/dropfour/internal/model"

// WinLength is the number of aligned discs required to win
const WinLength = 4

// directions paired as (dRow, dCol); each line is scanned both ways
// through the last-placed cell
var directions = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal down-right
	{1, -1}, // diagonal down-left
}

// ValidateColumn checks that a column index is within [0, 6]
func ValidateColumn(col int) error {
	if col < 0 || col >= model.BoardCols {
		return model.ErrInvalidColumn
	}
	return nil
}

// Drop places a disc in the given column, filling the lowest empty row.
// It returns the landing row.
func Drop(b *model.Board, col int, disc model.Cell) (int, error) {
	if err := ValidateColumn(col); err != nil {
		return 0, err
	}
	for row := model.BoardRows - 1; row >= 0; row-- {
		if b.Cells[row][col] == model.CellEmpty {
			b.Cells[row][col] = disc
			return row, nil
		}
	}
	return 0, model.ErrColumnFull
}

// CheckWin reports whether the disc at (row, col) completes four in a row.
// Only the four lines through the just-placed cell are scanned, so the
// check is constant-time regardless of board fill.
func CheckWin(b *model.Board, row, col int) bool {
	disc := b.Get(row, col)
	if disc == model.CellEmpty {
		return false
	}

	for _, dir := range directions {
		count := 1 // The placed cell itself
		count += countRun(b, row, col, dir[0], dir[1], disc)
		count += countRun(b, row, col, -dir[0], -dir[1], disc)
		if count >= WinLength {
			return true
		}
	}
	return false
}

// countRun counts consecutive same-disc cells from (row, col) exclusive,
// stepping by (dRow, dCol)
func countRun(b *model.Board, row, col, dRow, dCol int, disc model.Cell) int {
	count := 0
	for {
		row += dRow
		col += dCol
		if row < 0 || row >= model.BoardRows || col < 0 || col >= model.BoardCols {
			return count
		}
		if b.Cells[row][col] != disc {
			return count
		}
		count++
	}
}

// CheckDraw reports whether all 42 cells are filled
func CheckDraw(b *model.Board) bool {
	return b.IsFull()
}

// LegalColumns returns the columns that still have at least one empty cell
func LegalColumns(b *model.Board) []int {
	var cols []int
	for col := 0; col < model.BoardCols; col++ {
		if !b.ColumnFull(col) {
			cols = append(cols, col)
		}
	}
	return cols
}
