package engine

import (
	"context"
	"destiny/communication/client"
	"destiny/communication/server"
	"destiny/config"
	"destiny/game"
	"destiny/gtp"
	"destiny/searcher"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireFinished(t *testing.T, board *game.Board, result Result) {
	t.Helper()
	require.True(t, board.GameIsOver() || result.Game.TotalMoves == maxMoves(board))
	require.Len(t, result.Moves, result.Game.TotalMoves)
	require.Len(t, result.Record.Moves, result.Game.TotalMoves)
	require.Equal(t, board.Width(), result.Record.Width)
	require.Equal(t, result.Winner.String(), result.Game.Winner)
	if result.Winner == game.White {
		require.Greater(t, result.Game.WhiteScore, result.Game.BlackScore)
	} else {
		require.GreaterOrEqual(t, result.Game.BlackScore, result.Game.WhiteScore)
	}
	for i, move := range result.Moves {
		require.Equal(t, i+1, move.Step)
		player := game.Black
		if i%2 == 1 {
			player = game.White
		}
		require.Equal(t, player.String(), move.Player, "Players should alternate")
	}
}

func TestLocalEngine(t *testing.T) {
	t.Run("plays a full game", func(t *testing.T) {
		black := []searcher.Option{searcher.WithSeed(1), searcher.WithIterations(20), searcher.WithMetrics()}
		white := []searcher.Option{searcher.WithSeed(2), searcher.WithIterations(20), searcher.WithGoroutines(2)}
		e := LocalEngine(3, 0.5, black, white)

		result, err := e.Run(context.Background())

		require.NoError(t, err)
		requireFinished(t, e.Board(), result)
		require.Equal(t, 20, result.Moves[0].Episodes, "Black collects search metrics")
		if len(result.Moves) > 1 {
			require.Equal(t, 0, result.Moves[1].Episodes, "White runs without metrics")
		}
	})

	t.Run("trees follow the referee", func(t *testing.T) {
		options := []searcher.Option{searcher.WithSeed(3), searcher.WithIterations(20)}
		e := LocalEngine(3, 0.5, options, options)

		_, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, e.Board().String(), e.black.Board().String())
		require.Equal(t, e.Board().String(), e.white.Board().String())
	})

	t.Run("cancelled context", func(t *testing.T) {
		e := LocalEngine(9, 7.5, nil, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := e.Run(ctx)

		require.ErrorIs(t, err, context.Canceled)
	})
}

// fakePeer replays canned replies.
type fakePeer struct {
	commands []string
	genmove  string
}

func (p *fakePeer) Execute(ctx context.Context, command string) (string, error) {
	p.commands = append(p.commands, command)
	if strings.HasPrefix(command, "genmove") {
		return p.genmove, nil
	}
	return "", nil
}

func TestRemoteEngine(t *testing.T) {
	t.Run("plays against a served engine", func(t *testing.T) {
		c := config.Default()
		c.Search.Iterations = 20
		c.Search.Seed = 4
		srv := httptest.NewServer(server.NewServer(gtp.NewHandler(c)))
		defer srv.Close()
		peer := client.NewClient(srv.URL, srv.Client())
		e := RemoteEngine(3, 0.5, game.White, []searcher.Option{searcher.WithSeed(5), searcher.WithIterations(20)}, peer)

		result, err := e.Run(context.Background())

		require.NoError(t, err)
		requireFinished(t, e.board, result)
		remote, err := peer.Board(context.Background())
		require.NoError(t, err)
		require.Equal(t, e.board.String(), remote.Board, "Both sides should agree on the final position")
	})

	t.Run("sets up the remote game", func(t *testing.T) {
		peer := &fakePeer{genmove: "PASS"}
		e := RemoteEngine(5, 6.5, game.White, []searcher.Option{searcher.WithIterations(10)}, peer)

		_, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, []string{"boardsize 5", "komi 6.5", "clear_board", "genmove black"}, peer.commands[:4])
	})

	t.Run("illegal remote move", func(t *testing.T) {
		peer := &fakePeer{genmove: "Z9"}
		e := RemoteEngine(9, 7.5, game.White, nil, peer)

		_, err := e.Run(context.Background())

		require.ErrorIs(t, err, ErrIllegalRemoteMove)
	})

	t.Run("invalid color panics", func(t *testing.T) {
		require.Panics(t, func() { RemoteEngine(9, 7.5, game.Empty, nil, &fakePeer{}) })
	})
}
