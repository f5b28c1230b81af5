package board

// WinningLines returns the lines of a size x size board that are fully
// covered: rows first, then columns, then the two diagonals.
func WinningLines(size int, covered map[int]bool) [][]int {
	if size < 1 {
		return nil
	}

	var lines [][]int
	for _, line := range allLines(size) {
		if fullyCovered(line, covered) {
			lines = append(lines, line)
		}
	}
	return lines
}

func allLines(size int) [][]int {
	lines := make([][]int, 0, 2*size+2)

	for r := 0; r < size; r++ {
		row := make([]int, size)
		for c := range row {
			row[c] = r*size + c
		}
		lines = append(lines, row)
	}

	for c := 0; c < size; c++ {
		col := make([]int, size)
		for r := range col {
			col[r] = r*size + c
		}
		lines = append(lines, col)
	}

	diag := make([]int, size)
	anti := make([]int, size)
	for i := 0; i < size; i++ {
		diag[i] = i*size + i
		anti[i] = i*size + (size - 1 - i)
	}
	return append(lines, diag, anti)
}

func fullyCovered(line []int, covered map[int]bool) bool {
	for _, p := range line {
		if !covered[p] {
			return false
		}
	}
	return true
}
