package game

import "fmt"

// IsLegal reports whether the player to move may play at p. It does not
// modify the board.
func (b *Board) IsLegal(p Point) bool {
	if p == Pass {
		return true
	}
	return b.canPlace(p)
}

// Play commits a move for the player to move. It returns false, leaving the
// board untouched, when the move is illegal.
func (b *Board) Play(p Point) bool {
	if p == Pass {
		b.pass()
		return true
	}
	if !b.canPlace(p) {
		return false
	}
	b.place(p)
	return true
}

// MustPlay commits a move that the caller already knows to be legal.
func (b *Board) MustPlay(p Point) {
	if !b.Play(p) {
		panic(fmt.Sprintf("illegal move: %s", b.PointToString(p)))
	}
}

func (b *Board) pass() {
	b.playerToMove = b.playerToMove.Opponent()
	if b.lastMoveWasPass {
		b.gameIsOver = true
	}
	b.lastMoveWasPass = true
	b.koPoint = Pass
}

func (b *Board) canPlace(p Point) bool {
	if !b.onBoard(p) || p == b.koPoint || b.color[p] != Empty {
		return false
	}
	return !b.isSuicide(p)
}

// isSuicide reports whether a stone at p would be left without liberties: no
// neighbor is empty, no friendly neighbor chain keeps a liberty elsewhere and
// no enemy neighbor chain would be captured.
func (b *Board) isSuicide(p Point) bool {
	friend := b.playerToMove
	enemy := friend.Opponent()
	for _, n := range b.neighbors[p] {
		if n == offBoard {
			continue
		}
		switch b.color[n] {
		case Empty:
			return false
		case friend:
			if !b.IsInAtari(n) {
				return false
			}
		case enemy:
			if b.IsInAtari(n) {
				return false
			}
		}
	}
	return true
}

func (b *Board) place(p Point) {
	friend := b.playerToMove
	enemy := friend.Opponent()

	b.color[p] = friend
	b.removeEmpty(p)
	b.next[p] = p
	b.state[p] = head
	b.clearAggregates(p)
	for _, n := range b.neighbors[p] {
		if n != offBoard && b.color[n] == Empty {
			b.addLiberty(p, n)
		}
	}

	// p is no longer a liberty of the neighboring chains
	for _, n := range b.neighbors[p] {
		if n != offBoard && b.color[n] != Empty {
			b.removeLiberty(b.chainHead(n), p)
		}
	}

	for _, n := range b.neighbors[p] {
		if n == offBoard || b.color[n] != friend {
			continue
		}
		if h := b.chainHead(n); h != p {
			b.merge(p, h, n)
		}
	}

	captured := 0
	lastCaptured := Pass
	for _, n := range b.neighbors[p] {
		if n != offBoard && b.color[n] == enemy && b.libCount[b.chainHead(n)] == 0 {
			captured += b.removeChain(n)
			lastCaptured = n
		}
	}

	if captured == 1 {
		b.koPoint = lastCaptured
	} else {
		b.koPoint = Pass
	}

	b.lastMoveWasPass = false
	b.playerToMove = enemy
}
