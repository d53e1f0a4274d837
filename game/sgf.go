package game

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// Record is the move sequence of one game from the empty board, Black first.
type Record struct {
	Width int
	Komi  float64
	Moves []Point
}

// Result formats the outcome of board as "B+2.5" or "W+0.5". Black wins
// ties.
func Result(b *Board) string {
	margin := b.Score(White) - b.Score(Black)
	if margin > 0 {
		return fmt.Sprintf("W+%g", margin)
	}
	return fmt.Sprintf("B+%g", math.Abs(margin))
}

// sgfPoint encodes p as column and row letters from the top left corner. A
// pass is the empty value.
func sgfPoint(width int, p Point) string {
	if p == Pass {
		return ""
	}
	return string([]byte{'a' + byte(int(p)%width), 'a' + byte(int(p)/width)})
}

// WriteSGF writes the record as a single variation SGF game. result is
// written to RE when not empty.
func (r Record) WriteSGF(w io.Writer, result string) error {
	var s strings.Builder
	fmt.Fprintf(&s, "(;FF[4]GM[1]CA[UTF-8]SZ[%d]KM[%g]", r.Width, r.Komi)
	if result != "" {
		fmt.Fprintf(&s, "RE[%s]", result)
	}
	c := Black
	for _, p := range r.Moves {
		if p != Pass && (p < 0 || int(p) >= r.Width*r.Width) {
			return fmt.Errorf("%w: point %d is off a %dx%d board", ErrInvalidCoordinate, p, r.Width, r.Width)
		}
		fmt.Fprintf(&s, "\n;%s[%s]", strings.ToUpper(c.String()[:1]), sgfPoint(r.Width, p))
		c = c.Opponent()
	}
	s.WriteString(")\n")

	_, err := io.WriteString(w, s.String())
	return err
}
