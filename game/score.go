package game

import "fmt"

// Score counts the stones of c plus the empty points bordered only by c.
// Half the komi is taken from Black and given to White.
func (b *Board) Score(c Color) float64 {
	if c != Black && c != White {
		panic(fmt.Sprintf("invalid color: %s", c))
	}

	score := 0
	for p := 0; p < b.area; p++ {
		switch b.color[p] {
		case c:
			score++
		case Empty:
			if b.neighborsAreAll(Point(p), c) {
				score++
			}
		}
	}

	if c == Black {
		return float64(score) - b.komi/2
	}
	return float64(score) + b.komi/2
}

// Winner returns the winner of a finished game, or Empty while it is still
// being played. Black wins ties.
func (b *Board) Winner() Color {
	if !b.gameIsOver {
		return Empty
	}
	if b.Score(White) > b.Score(Black) {
		return White
	}
	return Black
}
