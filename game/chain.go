package game

import "fmt"

// chainHead returns the head of the chain containing p, or offBoard if p is
// empty.
func (b *Board) chainHead(p Point) Point {
	if b.state[p] == vacant {
		return offBoard
	}
	for b.state[p] != head {
		p = b.next[p]
	}
	return p
}

// IsInAtari reports whether the chain containing p has exactly one distinct
// liberty. Over the multiset of counted liberty values, n*sum(x^2) == sum(x)^2
// holds iff all values are equal.
func (b *Board) IsInAtari(p Point) bool {
	if b.color[p] == Empty {
		return false
	}
	h := b.chainHead(p)
	return b.libCount[h]*b.libSquareSum[h] == b.libSum[h]*b.libSum[h]
}

// SoleLiberty returns the only liberty of the chain containing p, which must
// be in atari.
func (b *Board) SoleLiberty(p Point) Point {
	if !b.IsInAtari(p) {
		panic(fmt.Sprintf("chain at %s is not in atari", b.PointToString(p)))
	}
	h := b.chainHead(p)
	return Point(b.libSum[h]/b.libCount[h] - 1)
}

// CapturePoints returns the liberties of opponent chains in atari, one entry
// per opponent stone.
func (b *Board) CapturePoints() []Point {
	var points []Point
	enemy := b.playerToMove.Opponent()
	for p := 0; p < b.area; p++ {
		if b.color[p] == enemy && b.IsInAtari(Point(p)) {
			points = append(points, b.SoleLiberty(Point(p)))
		}
	}
	return points
}

func (b *Board) addLiberty(h, lib Point) {
	v := int(lib) + 1
	b.libCount[h]++
	b.libSum[h] += v
	b.libSquareSum[h] += v * v
}

func (b *Board) removeLiberty(h, lib Point) {
	v := int(lib) + 1
	b.libCount[h]--
	b.libSum[h] -= v
	b.libSquareSum[h] -= v * v
}

func (b *Board) clearAggregates(p Point) {
	b.libCount[p] = 0
	b.libSum[p] = 0
	b.libSquareSum[p] = 0
}

// connect splices the cycles through a and b into one by swapping their
// successors. a and b must belong to different chains.
func (b *Board) connect(a, c Point) {
	b.next[a], b.next[c] = b.next[c], b.next[a]
}

// merge absorbs the chain headed by h into the chain headed by into.
func (b *Board) merge(into, h, n Point) {
	b.libCount[into] += b.libCount[h]
	b.libSum[into] += b.libSum[h]
	b.libSquareSum[into] += b.libSquareSum[h]
	b.clearAggregates(h)
	b.state[h] = member
	b.connect(into, n)
}

// removeChain takes the chain containing p off the board and returns the
// number of stones removed. Every freed point becomes a liberty of the
// surrounding chains of the other color.
func (b *Board) removeChain(p Point) int {
	chainColor := b.color[p]
	count := 0
	x := p
	for b.color[x] != Empty {
		t := b.next[x]

		b.color[x] = Empty
		b.state[x] = vacant
		b.next[x] = offBoard
		b.clearAggregates(x)
		b.addEmpty(x)
		count++

		for _, n := range b.neighbors[x] {
			if n != offBoard && b.color[n] != Empty && b.color[n] != chainColor {
				b.addLiberty(b.chainHead(n), x)
			}
		}

		x = t
	}
	return count
}
