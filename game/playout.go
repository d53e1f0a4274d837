package game

import "golang.org/x/exp/rand"

// playoutLengthFactor bounds a playout to this many moves per point before
// the position is adjudicated as it stands.
const playoutLengthFactor = 3

// RandomPlayout plays random moves on a private copy of the board until both
// players pass and returns the winner.
func (b *Board) RandomPlayout(r *rand.Rand) Color {
	return NewPlayout(r).Run(b)
}

// Playout runs random games on a scratch board it owns, so repeated
// simulations from boards of the same width do not allocate.
type Playout struct {
	rand       *rand.Rand
	board      *Board
	candidates []Point
}

func NewPlayout(r *rand.Rand) *Playout {
	return &Playout{rand: r}
}

// Run simulates a random game from the given position and returns its
// winner. from is not modified.
func (p *Playout) Run(from *Board) Color {
	if p.board == nil {
		p.board = from.Copy()
	} else {
		p.board.CopyFrom(from)
	}

	b := p.board
	limit := playoutLengthFactor * b.area
	for moves := 0; !b.gameIsOver; moves++ {
		if moves >= limit {
			b.gameIsOver = true
			break
		}
		b.Play(p.randomMove())
	}
	return b.Winner()
}

// randomMove draws candidates uniformly from the empty points, discarding
// those that would fill an own eye or are illegal. It returns Pass once no
// candidate remains.
func (p *Playout) randomMove() Point {
	b := p.board
	p.candidates = append(p.candidates[:0], b.emptyPoints...)
	for len(p.candidates) > 0 {
		i := p.rand.Intn(len(p.candidates))
		pt := p.candidates[i]
		if !b.IsRealEye(pt, b.playerToMove) && b.IsLegal(pt) {
			return pt
		}
		last := len(p.candidates) - 1
		p.candidates[i] = p.candidates[last]
		p.candidates = p.candidates[:last]
	}
	return Pass
}
