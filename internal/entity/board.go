package entity

// BoardSize is the number of cells on the board, indexed row-major.
const BoardSize = 9

// WinCombos lists every line in the order they are checked: rows, columns, diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type Board [BoardSize]Mark

// InRange reports whether index addresses a cell of the board.
func InRange(index int) bool {
	return index >= 0 && index < BoardSize
}

// EmptyCells returns the indexes of unplayed cells in ascending order.
func (that *Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == Empty {
			cells = append(cells, i)
		}
	}

	return cells
}

// IsFull reports whether no cell is Empty.
func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}

	return true
}

// EvaluateResult derives the result of a board. The first complete line wins.
func EvaluateResult(board *Board) Result {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != Empty && a == b && b == c {
			return resultFor(a)
		}
	}

	// the game continues until every cell is played
	if !board.IsFull() {
		return ResultNone
	}

	return ResultDraw
}
