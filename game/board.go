package game

import "fmt"

// Board holds a single Go position together with the incremental chain and
// liberty bookkeeping needed to test and commit moves cheaply.
type Board struct {
	width int
	area  int
	komi  float64

	playerToMove    Color
	koPoint         Point // point captured by a single-stone capture on the last move, or Pass
	lastMoveWasPass bool
	gameIsOver      bool

	color []Color
	state []pointState

	// next links the stones of a chain into a cycle; offBoard for empty points.
	next []Point

	// Pseudo-liberty aggregates, valid at chain heads only. Each counted
	// instance contributes 1, (p+1) and (p+1)^2 respectively.
	libCount     []int
	libSum       []int
	libSquareSum []int

	emptyPoints []Point
	emptyIndex  []int // position of a point in emptyPoints, -1 when occupied

	// Immutable after construction and shared between copies.
	neighbors [][4]Point
}

// NewBoard returns an empty board with Black to move.
func NewBoard(width int, komi float64) *Board {
	if width < 1 || width > MaxWidth {
		panic(fmt.Sprintf("invalid board width: %d", width))
	}

	area := width * width
	b := &Board{
		width:        width,
		area:         area,
		komi:         komi,
		playerToMove: Black,
		koPoint:      Pass,
		color:        make([]Color, area),
		state:        make([]pointState, area),
		next:         make([]Point, area),
		libCount:     make([]int, area),
		libSum:       make([]int, area),
		libSquareSum: make([]int, area),
		emptyPoints:  make([]Point, area),
		emptyIndex:   make([]int, area),
		neighbors:    make([][4]Point, area),
	}
	for p := 0; p < area; p++ {
		b.next[p] = offBoard
		b.emptyPoints[p] = Point(p)
		b.emptyIndex[p] = p
		// right, down, left, up
		b.neighbors[p] = [4]Point{
			b.pointRightOf(Point(p)),
			b.pointBelow(Point(p)),
			b.pointLeftOf(Point(p)),
			b.pointAbove(Point(p)),
		}
	}
	return b
}

// Copy returns a deep copy of the board.
func (b *Board) Copy() *Board {
	c := &Board{}
	c.copyFrom(b)
	return c
}

// CopyFrom makes the board a deep copy of that, reusing its storage. Boards of
// different widths cannot be combined.
func (b *Board) CopyFrom(that *Board) {
	if b.width != that.width {
		panic(fmt.Sprintf("cannot copy a %dx%d board into a %dx%d board", that.width, that.width, b.width, b.width))
	}
	b.copyFrom(that)
}

func (b *Board) copyFrom(that *Board) {
	b.width = that.width
	b.area = that.area
	b.komi = that.komi
	b.playerToMove = that.playerToMove
	b.koPoint = that.koPoint
	b.lastMoveWasPass = that.lastMoveWasPass
	b.gameIsOver = that.gameIsOver

	b.color = append(b.color[:0], that.color...)
	b.state = append(b.state[:0], that.state...)
	b.next = append(b.next[:0], that.next...)
	b.libCount = append(b.libCount[:0], that.libCount...)
	b.libSum = append(b.libSum[:0], that.libSum...)
	b.libSquareSum = append(b.libSquareSum[:0], that.libSquareSum...)
	b.emptyPoints = append(b.emptyPoints[:0], that.emptyPoints...)
	b.emptyIndex = append(b.emptyIndex[:0], that.emptyIndex...)

	b.neighbors = that.neighbors
}

func (b *Board) Width() int { return b.width }

func (b *Board) Area() int { return b.area }

func (b *Board) Komi() float64 { return b.komi }

func (b *Board) PlayerToMove() Color { return b.playerToMove }

func (b *Board) KoPoint() Point { return b.koPoint }

func (b *Board) LastMoveWasPass() bool { return b.lastMoveWasPass }

func (b *Board) GameIsOver() bool { return b.gameIsOver }

func (b *Board) ColorAt(p Point) Color { return b.color[p] }

// EmptyPoints returns a copy of the empty points, in no particular order.
func (b *Board) EmptyPoints() []Point {
	return append([]Point(nil), b.emptyPoints...)
}

func (b *Board) onBoard(p Point) bool {
	return p >= 0 && int(p) < b.area
}

func (b *Board) removeEmpty(p Point) {
	i := b.emptyIndex[p]
	last := b.emptyPoints[len(b.emptyPoints)-1]
	b.emptyPoints[i] = last
	b.emptyIndex[last] = i
	b.emptyPoints = b.emptyPoints[:len(b.emptyPoints)-1]
	b.emptyIndex[p] = -1
}

func (b *Board) addEmpty(p Point) {
	b.emptyIndex[p] = len(b.emptyPoints)
	b.emptyPoints = append(b.emptyPoints, p)
}

func (b *Board) pointAbove(p Point) Point {
	q := p - Point(b.width)
	if q < 0 {
		return offBoard
	}
	return q
}

func (b *Board) pointBelow(p Point) Point {
	q := p + Point(b.width)
	if int(q) >= b.area {
		return offBoard
	}
	return q
}

func (b *Board) pointLeftOf(p Point) Point {
	if int(p)%b.width == 0 {
		return offBoard
	}
	return p - 1
}

func (b *Board) pointRightOf(p Point) Point {
	if int(p)%b.width == b.width-1 {
		return offBoard
	}
	return p + 1
}

// neighborsAreAll reports whether every on-board neighbor of p has color c.
func (b *Board) neighborsAreAll(p Point, c Color) bool {
	for _, n := range b.neighbors[p] {
		if n != offBoard && b.color[n] != c {
			return false
		}
	}
	return true
}

// IsRealEye reports whether every orthogonal neighbor of p is a stone of c.
func (b *Board) IsRealEye(p Point, c Color) bool {
	return b.neighborsAreAll(p, c)
}
