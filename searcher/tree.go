package searcher

import (
	"destiny/experiments/metrics"
	"destiny/game"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// root is always the first node of the arena.
const root int32 = 0

// Tree is a UCT search tree over Go positions. Its methods must not be called
// concurrently; Search parallelizes internally.
type Tree struct {
	mu    sync.Mutex // guards nodes while a search runs
	nodes []node

	seed            uint64
	goroutines      int
	iterations      int
	duration        time.Duration
	exploration     float64
	expandThreshold int

	rand    *rand.Rand
	worker  *worker   // sequential searches
	workers []*worker // parallel searches, created on first use

	metrics     metrics.Collector
	lastMetrics metrics.SearchMetric
}

// NewTree returns an unexpanded tree rooted at board. The tree owns the board
// from then on.
func NewTree(board *game.Board, options ...Option) *Tree {
	t := &Tree{ // Default values
		seed:            uint64(time.Now().UnixNano()),
		goroutines:      1,
		exploration:     Exploration,
		expandThreshold: ExpandThreshold,
		metrics:         metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(t)
	}
	t.rand = rand.New(rand.NewSource(t.seed))
	t.worker = newWorker(t.rand)
	t.nodes = []node{{board: board}}
	return t
}

// Board returns the position at the root. Callers must not modify it.
func (t *Tree) Board() *game.Board {
	return t.nodes[root].board
}

func (t *Tree) Visits() int {
	return t.nodes[root].visits
}

func (t *Tree) Wins() int {
	return t.nodes[root].wins
}

// Size returns the number of nodes in the tree.
func (t *Tree) Size() int {
	return len(t.nodes)
}

func (t *Tree) LastMetrics() metrics.SearchMetric {
	return t.lastMetrics
}

// Stats returns the statistics of every legal move at the root, in point
// order. It is empty until the root is expanded.
func (t *Tree) Stats() []MoveStat {
	var stats []MoveStat
	for p, c := range t.nodes[root].children {
		if c == noChild {
			continue
		}
		child := &t.nodes[c]
		stats = append(stats, MoveStat{Move: game.Point(p), Wins: child.wins, Visits: child.visits})
	}
	return stats
}

// Expand creates the root's children if it has none yet and the game is not
// over.
func (t *Tree) Expand() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.nodes[root].expanded() && !t.nodes[root].board.GameIsOver() {
		t.expand(root)
	}
}

// expand adds a child for every legal move from node i. Slots of illegal
// moves stay noChild.
func (t *Tree) expand(i int32) {
	board := t.nodes[i].board
	children := make([]int32, board.Area())
	for p := range children {
		children[p] = noChild
		if !board.IsLegal(game.Point(p)) {
			continue
		}
		child := board.Copy()
		child.MustPlay(game.Point(p))
		children[p] = int32(len(t.nodes))
		t.nodes = append(t.nodes, node{board: child})
	}
	t.nodes[i].children = children
}

// selectChild returns the child of i with the highest UCT value, or noChild
// if i has no legal children.
func (t *Tree) selectChild(i int32, r *rand.Rand) int32 {
	parent := &t.nodes[i]
	policy := newUCT(t.exploration, parent.visits)

	best := noChild
	bestValue := math.Inf(-1)
	for _, c := range parent.children {
		if c == noChild {
			continue
		}
		child := &t.nodes[c]
		if v := policy.evaluate(child.wins, child.visits, r.Float64()); v > bestValue {
			best = c
			bestValue = v
		}
	}
	return best
}

// descend selects from the root down to a leaf, expanding the leaf and
// stepping into one of its children once it has been visited often enough.
// It returns the visited nodes, root first.
func (t *Tree) descend(r *rand.Rand, path []int32) []int32 {
	curr := root
	path = append(path, curr)
	for t.nodes[curr].expanded() {
		next := t.selectChild(curr, r)
		if next == noChild {
			break
		}
		curr = next
		path = append(path, curr)
	}

	leaf := &t.nodes[curr]
	if !leaf.expanded() && leaf.visits > t.expandThreshold && !leaf.board.GameIsOver() {
		t.expand(curr)
		if next := t.selectChild(curr, r); next != noChild {
			path = append(path, next)
		}
	}
	return path
}

// SingleIteration runs one selection, expansion, simulation and
// backpropagation pass.
func (t *Tree) SingleIteration() {
	t.iterate(t.worker)
}

func (t *Tree) iterate(w *worker) {
	t.mu.Lock()
	w.path = t.descend(w.rand, w.path[:0])
	// Visits are counted before the simulation so that concurrent workers
	// spread over different paths; wins are settled afterwards.
	for _, i := range w.path {
		t.nodes[i].visits++
	}
	leaf := t.nodes[w.path[len(w.path)-1]].board
	t.mu.Unlock()

	winner := leaf.Winner()
	if winner == game.Empty {
		winner = w.playout.Run(leaf)
		t.metrics.AddFullPlayout()
	}

	t.mu.Lock()
	for _, i := range w.path {
		t.nodes[i].update(winner)
	}
	t.mu.Unlock()
	t.metrics.AddEpisode()
}

// FavoriteMove returns the root move with the most wins, preferring the
// lowest point on ties, or Pass if the root has no legal children.
func (t *Tree) FavoriteMove() game.Point {
	t.mu.Lock()
	defer t.mu.Unlock()

	favorite := game.Pass
	maxWins := -1
	for p, c := range t.nodes[root].children {
		if c == noChild {
			continue
		}
		if wins := t.nodes[c].wins; wins > maxWins {
			favorite = game.Point(p)
			maxWins = wins
		}
	}
	return favorite
}

// ChooseMove commits move to the game and advances the root. A pass resets
// the tree on the unchanged position; any other move keeps the subtree below
// it and discards the rest. The move must be legal.
func (t *Tree) ChooseMove(move game.Point) {
	t.mu.Lock()
	defer t.mu.Unlock()

	board := t.nodes[root].board
	if move == game.Pass {
		board.MustPlay(game.Pass)
		discarded := len(t.nodes)
		t.nodes = []node{{board: board}}
		if !board.GameIsOver() {
			t.expand(root)
		}
		t.metrics.SetTreeReused(false)
		log.Debug().Msgf("pass reset the tree, discarded %d nodes", discarded)
		return
	}

	if !board.IsLegal(move) {
		panic(fmt.Sprintf("illegal move: %s", board.PointToString(move)))
	}
	if !t.nodes[root].expanded() {
		t.expand(root)
	}

	before := len(t.nodes)
	t.reroot(t.nodes[root].children[move])
	t.metrics.SetTreeReused(t.nodes[root].visits > 0)
	log.Debug().Msgf("advanced tree to %s, kept %d of %d nodes", board.PointToString(move), len(t.nodes), before)
}

// reroot rebuilds the arena from the subtree at from, which becomes the root.
// Every node outside that subtree is dropped with the old arena.
func (t *Tree) reroot(from int32) {
	nodes := make([]node, 0, len(t.nodes))
	nodes = append(nodes, t.nodes[from])
	for i := 0; i < len(nodes); i++ {
		children := nodes[i].children
		if children == nil {
			continue
		}
		remapped := make([]int32, len(children))
		for p, c := range children {
			if c == noChild {
				remapped[p] = noChild
				continue
			}
			remapped[p] = int32(len(nodes))
			nodes = append(nodes, t.nodes[c])
		}
		nodes[i].children = remapped
	}
	t.nodes = nodes
}
