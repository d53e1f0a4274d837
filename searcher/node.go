package searcher

import "destiny/game"

// noChild marks a child slot whose move is illegal.
const noChild int32 = -1

// node is one position in the tree. Nodes live in the tree's arena and refer
// to their children by arena index, one slot per board point.
type node struct {
	board    *game.Board
	children []int32 // nil until expanded
	visits   int
	wins     int // simulations won by the player who moved into this node
}

func (n *node) expanded() bool {
	return n.children != nil
}

// mover is the player whose move led to this node.
func (n *node) mover() game.Color {
	return n.board.PlayerToMove().Opponent()
}

func (n *node) update(winner game.Color) {
	if n.mover() == winner {
		n.wins++
	}
}

// MoveStat summarizes the root child reached by Move.
type MoveStat struct {
	Move   game.Point
	Wins   int
	Visits int
}

func (s MoveStat) WinRate() float64 {
	if s.Visits == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Visits)
}
