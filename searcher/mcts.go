package searcher

import (
	"context"
	"destiny/game"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Iterations is the search budget of Think when neither iterations nor a
// duration are configured.
const Iterations = 10000

// worker owns everything a search goroutine mutates outside the tree lock.
type worker struct {
	rand    *rand.Rand
	playout *game.Playout
	path    []int32
}

func newWorker(r *rand.Rand) *worker {
	return &worker{rand: r, playout: game.NewPlayout(r)}
}

// Search runs iterations until the given count is reached or ctx is done. A
// non-positive count searches until ctx is done.
func (t *Tree) Search(ctx context.Context, iterations int) {
	if iterations <= 0 && ctx.Done() == nil {
		panic("must specify search iterations or a cancellable context")
	}

	t.metrics.Start(t.goroutines)
	if t.goroutines == 1 {
		for i := 0; (iterations <= 0 || i < iterations) && ctx.Err() == nil; i++ {
			t.iterate(t.worker)
		}
	} else {
		t.searchParallel(ctx, iterations)
	}
	t.lastMetrics = t.metrics.Complete(len(t.nodes))
}

func (t *Tree) searchParallel(ctx context.Context, iterations int) {
	if len(t.workers) != t.goroutines {
		t.workers = make([]*worker, t.goroutines)
		for i := range t.workers {
			t.workers[i] = newWorker(rand.New(rand.NewSource(t.rand.Uint64())))
		}
	}

	var claimed atomic.Int64
	claim := func() bool {
		return iterations <= 0 || claimed.Add(1) <= int64(iterations)
	}

	var wg sync.WaitGroup
	for _, w := range t.workers {
		wg.Add(1)
		go func(w *worker) {
			defer wg.Done()

			for ctx.Err() == nil && claim() {
				t.iterate(w)
			}
		}(w)
	}

	wg.Wait()
}

// GenerateMove runs n iterations, then commits and returns the favorite move.
func (t *Tree) GenerateMove(n int) game.Point {
	if n > 0 {
		t.Search(context.Background(), n)
	}
	return t.commitFavorite()
}

// Think searches within the configured iterations and duration, then commits
// and returns the favorite move.
func (t *Tree) Think(ctx context.Context) game.Point {
	iterations := t.iterations
	if t.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.duration)
		defer cancel()
	} else if iterations <= 0 {
		iterations = Iterations
	}

	t.Search(ctx, iterations)
	return t.commitFavorite()
}

func (t *Tree) commitFavorite() game.Point {
	move := t.FavoriteMove()
	board := t.Board()
	if move != game.Pass {
		child := t.nodes[t.nodes[root].children[move]]
		log.Debug().Msgf("%s plays %s with %d/%d wins after %d visits at the root",
			board.PlayerToMove(), board.PointToString(move), child.wins, child.visits, t.Visits())
	} else {
		log.Debug().Msgf("%s passes after %d visits at the root", board.PlayerToMove(), t.Visits())
	}
	t.ChooseMove(move)
	return move
}
