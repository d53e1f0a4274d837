package searcher

import (
	"context"
	"destiny/game"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

/*
- sequential: fixed seed reproduces the search
- parallel: every claimed iteration is counted once, stats stay consistent
- bounds: iterations, deadline, neither panics
- move generation commits a legal move for the player to move
*/

func TestSearch(t *testing.T) {
	t.Run("fixed seed is reproducible", func(t *testing.T) {
		a := NewTree(game.NewBoard(7, 5.5), WithSeed(42))
		b := NewTree(game.NewBoard(7, 5.5), WithSeed(42))

		a.Search(context.Background(), 200)
		b.Search(context.Background(), 200)

		require.Equal(t, a.Stats(), b.Stats())
		require.Equal(t, a.Wins(), b.Wins())
		require.Equal(t, a.Size(), b.Size())
	})

	t.Run("parallel search counts every iteration", func(t *testing.T) {
		tr := NewTree(game.NewBoard(9, 7.5), WithSeed(7), WithGoroutines(4), WithMetrics())

		tr.Search(context.Background(), 400)

		require.Equal(t, 400, tr.Visits())
		childVisits := 0
		for _, stat := range tr.Stats() {
			childVisits += stat.Visits
		}
		require.Equal(t, 400-(ExpandThreshold+1), childVisits)
		requireValidStats(t, tr)

		metric := tr.LastMetrics()
		require.Equal(t, 4, metric.Goroutines)
		require.Equal(t, 400, metric.Episodes)
		require.Equal(t, 400, metric.FullPlayouts)
		require.Equal(t, tr.Size(), metric.TreeSize)
	})

	t.Run("parallel search accumulates across calls", func(t *testing.T) {
		tr := NewTree(game.NewBoard(5, 0.5), WithSeed(8), WithGoroutines(3))

		tr.Search(context.Background(), 50)
		tr.Search(context.Background(), 70)

		require.Equal(t, 120, tr.Visits())
		requireValidStats(t, tr)
	})

	t.Run("deadline bounds the search", func(t *testing.T) {
		tr := NewTree(game.NewBoard(9, 7.5), WithGoroutines(2))
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		tr.Search(ctx, 0)

		require.Less(t, time.Since(start), 2*time.Second)
		require.Greater(t, tr.Visits(), 0)
		requireValidStats(t, tr)
	})

	t.Run("cancelled context stops before the iteration count", func(t *testing.T) {
		tr := NewTree(game.NewBoard(9, 7.5))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		tr.Search(ctx, 1000)

		require.Equal(t, 0, tr.Visits())
	})

	t.Run("unbounded search panics", func(t *testing.T) {
		tr := NewTree(game.NewBoard(9, 7.5))

		require.Panics(t, func() { tr.Search(context.Background(), 0) })
	})
}

func TestGenerateMove(t *testing.T) {
	t.Run("commits a legal move", func(t *testing.T) {
		tr := NewTree(game.NewBoard(9, 7.5), WithSeed(9))

		move := tr.GenerateMove(300)

		require.NotEqual(t, game.Pass, move)
		require.Equal(t, game.Black, tr.Board().ColorAt(move))
		require.Equal(t, game.White, tr.Board().PlayerToMove())
	})

	t.Run("alternates players over a game", func(t *testing.T) {
		tr := NewTree(game.NewBoard(5, 0.5), WithSeed(10))

		for i := 0; i < 6; i++ {
			player := tr.Board().PlayerToMove()
			move := tr.GenerateMove(100)
			if move != game.Pass {
				require.Equal(t, player, tr.Board().ColorAt(move))
			}
			require.Equal(t, player.Opponent(), tr.Board().PlayerToMove())
			requireValidStats(t, tr)
		}
	})

	t.Run("no iterations passes", func(t *testing.T) {
		tr := NewTree(game.NewBoard(9, 7.5))

		require.Equal(t, game.Pass, tr.GenerateMove(0))
		require.True(t, tr.Board().LastMoveWasPass())
	})
}

func TestThink(t *testing.T) {
	t.Run("configured iterations", func(t *testing.T) {
		tr := NewTree(game.NewBoard(9, 7.5), WithSeed(11), WithIterations(150), WithMetrics())

		move := tr.Think(context.Background())

		require.Equal(t, game.Black, tr.Board().ColorAt(move))
		require.Equal(t, 150, tr.LastMetrics().Episodes)
	})

	t.Run("configured duration", func(t *testing.T) {
		tr := NewTree(game.NewBoard(9, 7.5), WithDuration(50*time.Millisecond), WithGoroutines(2), WithMetrics())

		start := time.Now()
		tr.Think(context.Background())

		require.Less(t, time.Since(start), 2*time.Second)
		require.Greater(t, tr.LastMetrics().Episodes, 0)
	})
}
