package model

// Board dimensions for Connect Four
const (
	BoardRows = 6
	BoardCols = 7
)

// Cell is the contents of a single board cell
type Cell uint8

const (
	CellEmpty Cell = iota
	CellRed        // disc of the first-joined player
	CellYellow     // disc of the second player
)

// Board is the 6x7 Connect-Four grid. Row 0 is the top row; discs fall
// towards higher row indices.
type Board struct {
	Cells [][]Cell
}

// NewBoard creates an empty 6x7 board
func NewBoard() *Board {
	cells := make([][]Cell, BoardRows)
	for i := range cells {
		cells[i] = make([]Cell, BoardCols)
	}
	return &Board{Cells: cells}
}

// Get returns the cell at the given position, or CellEmpty out of bounds
func (b *Board) Get(row, col int) Cell {
	if row < 0 || row >= BoardRows || col < 0 || col >= BoardCols {
		return CellEmpty
	}
	return b.Cells[row][col]
}

// IsValidColumn returns true if the column index is within bounds
func (b *Board) IsValidColumn(col int) bool {
	return col >= 0 && col < BoardCols
}

// ColumnFull returns true if the column has no empty cell
func (b *Board) ColumnFull(col int) bool {
	return b.Cells[0][col] != CellEmpty
}

// IsFull returns true if all 42 cells are filled
func (b *Board) IsFull() bool {
	for col := 0; col < BoardCols; col++ {
		if b.Cells[0][col] == CellEmpty {
			return false
		}
	}
	return true
}

// Reset clears every cell
func (b *Board) Reset() {
	for row := range b.Cells {
		for col := range b.Cells[row] {
			b.Cells[row][col] = CellEmpty
		}
	}
}
