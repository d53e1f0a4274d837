package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// RowIndex returns the row of p counted from the bottom edge, starting at 0.
func (b *Board) RowIndex(p Point) int {
	return b.width - 1 - int(p)/b.width
}

func (b *Board) ColumnIndex(p Point) int {
	return int(p) % b.width
}

// PointAt returns the point in the given row (from the bottom) and column.
func (b *Board) PointAt(row, column int) Point {
	return Point((b.width-1-row)*b.width + column)
}

// columnLetter skips I, as is customary on Go boards.
func columnLetter(column int) byte {
	letter := byte('A' + column)
	if letter >= 'I' {
		letter++
	}
	return letter
}

func letterColumn(letter byte) int {
	column := int(letter - 'A')
	if letter > 'I' {
		column--
	}
	return column
}

// PointToString formats p as a coordinate such as "E5", or "PASS".
func (b *Board) PointToString(p Point) string {
	if p == Pass {
		return "PASS"
	}
	return fmt.Sprintf("%c%d", columnLetter(b.ColumnIndex(p)), b.RowIndex(p)+1)
}

// ParsePoint parses a coordinate such as "E5" or "pass".
func (b *Board) ParsePoint(s string) (Point, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "PASS" {
		return Pass, nil
	}
	if len(s) < 2 || s[0] < 'A' || s[0] > 'Z' || s[0] == 'I' {
		return Pass, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}

	column := letterColumn(s[0])
	row, err := strconv.Atoi(s[1:])
	if err != nil {
		return Pass, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	if column >= b.width || row < 1 || row > b.width {
		return Pass, fmt.Errorf("%w: %q is off a %dx%d board", ErrInvalidCoordinate, s, b.width, b.width)
	}
	return b.PointAt(row-1, column), nil
}

// String renders the board with coordinates: X for Black, O for White.
func (b *Board) String() string {
	var letters strings.Builder
	for c := 0; c < b.width; c++ {
		letters.WriteByte(columnLetter(c))
		letters.WriteByte(' ')
	}

	var s strings.Builder
	s.WriteString("   " + letters.String() + "\n")
	for r := 0; r < b.width; r++ {
		fmt.Fprintf(&s, "%2d ", b.width-r)
		for c := 0; c < b.width; c++ {
			switch b.color[r*b.width+c] {
			case Black:
				s.WriteString("X ")
			case White:
				s.WriteString("O ")
			default:
				s.WriteString(". ")
			}
		}
		fmt.Fprintf(&s, "%2d\n", b.width-r)
	}
	s.WriteString("   " + letters.String() + "\n")
	return s.String()
}
