// Package board converts between the 8x8 occupancy grid reported by the
// piece-detection cameras and the 1..32 checkers notation the rule engine
// speaks. Both physical boards are built identically, so each player sees
// their own near edge as row 0; player 2's orientation is the canonical one
// and player 1's notation is mirrored to line up with it.
package board

// Size is the edge length of the physical sensing grid.
const Size = 8

// Snapshot is a full occupancy reading of one physical board at one instant.
// Pieces are expected only on dark squares (row+col odd); callers own that
// invariant, the mapper does not re-check it.
type Snapshot [Size][Size]bool

// Pos is a grid coordinate on the sensing matrix.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// GridToNotation maps a dark-square grid coordinate to checkers notation
// (1..32) in the given player's frame.
func GridToNotation(row, col, player int) int {
	base := row*4 + 1
	if row%2 == 0 {
		col--
	}
	pos := base + col/2
	if player == 1 {
		return 33 - pos
	}
	return pos
}

// NotationToGrid is the exact inverse of GridToNotation for the same player.
func NotationToGrid(pos, player int) (row, col int) {
	if player == 1 {
		pos = 33 - pos
	}
	row = (pos - 1) / 4
	col = (pos - (row*4 + 1)) * 2
	if row%2 == 0 {
		col++
	}
	return row, col
}

// Diff scans two snapshots and reports the squares vacated (occupied in prev
// only) and filled (occupied in curr only), in row-major scan order.
func Diff(prev, curr Snapshot) (vacated, filled []Pos) {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			switch {
			case prev[r][c] && !curr[r][c]:
				vacated = append(vacated, Pos{Row: r, Col: c})
			case !prev[r][c] && curr[r][c]:
				filled = append(filled, Pos{Row: r, Col: c})
			}
		}
	}
	return vacated, filled
}
