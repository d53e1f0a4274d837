package game

// Point indexes a flattened row-major grid, 0..width*width-1.
type Point int

// Pass is the pass move. It doubles as "no point" for off-board neighbors and
// an unset ko point.
const Pass Point = -1

const offBoard = Pass

// MaxWidth is the widest board the coordinate letters can address.
const MaxWidth = 25

type Color uint8

const (
	Empty Color = iota
	Black
	White
)

// Opponent returns the other player. Empty has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "empty"
}

// pointState tags what a point currently holds. Chain aggregates are only
// meaningful at heads.
type pointState uint8

const (
	vacant pointState = iota
	member
	head
)
