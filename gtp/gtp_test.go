package gtp

import (
	"bytes"
	"context"
	"destiny/config"
	"destiny/game"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) *Handler {
	t.Helper()
	c := config.Default()
	c.Search.Iterations = 60
	c.Search.Seed = 1
	require.NoError(t, c.Validate())
	return NewHandler(c)
}

func execute(t *testing.T, h *Handler, line string) string {
	t.Helper()
	response, _ := h.Execute(context.Background(), line)
	return response
}

func TestParse(t *testing.T) {
	t.Run("blank lines and comments are skipped", func(t *testing.T) {
		for _, line := range []string{"", "   ", "# comment", "\t# indented comment"} {
			_, ok := parse(line)
			require.False(t, ok, "%q", line)
		}
	})

	t.Run("id and arguments", func(t *testing.T) {
		cmd, ok := parse("12 play black E5 # move")

		require.True(t, ok)
		require.Equal(t, "12", cmd.id)
		require.Equal(t, "play", cmd.name)
		require.Equal(t, []string{"black", "E5"}, cmd.args)
	})
}

func TestExecute(t *testing.T) {
	t.Run("identity commands", func(t *testing.T) {
		h := newHandler(t)

		require.Equal(t, "= 2\n\n", execute(t, h, "protocol_version"))
		require.Equal(t, "= Destiny\n\n", execute(t, h, "name"))
		require.Equal(t, "= 0.1\n\n", execute(t, h, "version"))
		require.Equal(t, "=7 Destiny\n\n", execute(t, h, "7 name"), "Response should echo the id")
	})

	t.Run("command discovery", func(t *testing.T) {
		h := newHandler(t)

		require.Equal(t, "= true\n\n", execute(t, h, "known_command genmove"))
		require.Equal(t, "= false\n\n", execute(t, h, "known_command resign"))
		list := execute(t, h, "list_commands")
		for _, name := range commands {
			require.Contains(t, list, name)
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		h := newHandler(t)

		response := execute(t, h, "3 undo")

		require.True(t, strings.HasPrefix(response, "?3 unknown command"), response)
	})

	t.Run("play commits the move", func(t *testing.T) {
		h := newHandler(t)

		require.Equal(t, "= \n\n", execute(t, h, "play black E5"))

		b := h.Board()
		require.Equal(t, game.Black, b.ColorAt(b.PointAt(4, 4)))
		require.Equal(t, game.White, b.PlayerToMove())
	})

	t.Run("moves out of turn are rejected", func(t *testing.T) {
		h := newHandler(t)
		execute(t, h, "play b C3")

		require.Equal(t, "? illegal move: white to move, not black\n\n", execute(t, h, "play b G7"))
		require.Equal(t, "? illegal move: white to move, not black\n\n", execute(t, h, "genmove black"))

		b := h.Board()
		require.Equal(t, game.Empty, b.ColorAt(b.PointAt(6, 6)), "Rejected stone should not be placed")
		require.Equal(t, game.White, b.PlayerToMove())
		require.Equal(t, "= \n\n", execute(t, h, "play w G7"))
		require.Equal(t, game.White, h.Board().ColorAt(b.PointAt(6, 6)))
	})

	t.Run("illegal and malformed moves", func(t *testing.T) {
		h := newHandler(t)
		execute(t, h, "play b E5")

		require.Equal(t, "? illegal move\n\n", execute(t, h, "play w E5"))
		require.True(t, strings.HasPrefix(execute(t, h, "play w Z5"), "? syntax error"))
		require.True(t, strings.HasPrefix(execute(t, h, "play red E4"), "? syntax error"))
		require.True(t, strings.HasPrefix(execute(t, h, "play E4"), "? syntax error"))
		require.Equal(t, game.White, h.Board().PlayerToMove(), "Failed commands should not change the game")
	})

	t.Run("play pass", func(t *testing.T) {
		h := newHandler(t)

		require.Equal(t, "= \n\n", execute(t, h, "play b pass"))
		require.True(t, h.Board().LastMoveWasPass())
	})

	t.Run("genmove answers a legal vertex", func(t *testing.T) {
		h := newHandler(t)

		response := execute(t, h, "genmove b")

		require.True(t, strings.HasPrefix(response, "= "))
		b := h.Board()
		move, err := b.ParsePoint(strings.TrimSpace(strings.TrimPrefix(response, "=")))
		require.NoError(t, err)
		require.NotEqual(t, game.Pass, move)
		require.Equal(t, game.Black, b.ColorAt(move))
	})

	t.Run("clear_board boardsize and komi start a new game", func(t *testing.T) {
		h := newHandler(t)
		execute(t, h, "play b E5")

		require.Equal(t, "= \n\n", execute(t, h, "clear_board"))
		require.Len(t, h.Board().EmptyPoints(), 81)

		require.Equal(t, "= \n\n", execute(t, h, "boardsize 13"))
		require.Equal(t, 13, h.Board().Width())

		require.Equal(t, "= \n\n", execute(t, h, "komi 6.5"))
		require.Equal(t, 6.5, h.Board().Komi())
		require.Equal(t, 13, h.Board().Width(), "Komi should keep the board size")

		require.True(t, strings.HasPrefix(execute(t, h, "boardsize 26"), "? unacceptable size"))
		require.True(t, strings.HasPrefix(execute(t, h, "komi much"), "? syntax error"))
		require.Equal(t, 13, h.Board().Width())
	})

	t.Run("showboard renders the position", func(t *testing.T) {
		h := newHandler(t)
		execute(t, h, "boardsize 3")
		execute(t, h, "play b B2")

		require.Equal(t, "= \n   A B C \n 3 . . .  3\n 2 . X .  2\n 1 . . .  1\n   A B C \n\n", execute(t, h, "showboard"))
	})

	t.Run("winrates lists visited moves", func(t *testing.T) {
		c := config.Default()
		c.Board.Width = 3
		c.Search.Iterations = 400
		c.Search.Seed = 2
		h := NewHandler(c)
		require.Equal(t, "= \n\n", execute(t, h, "winrates"), "Unsearched tree should list nothing")

		execute(t, h, "genmove b")
		response := execute(t, h, "winrates")

		require.True(t, strings.HasPrefix(response, "= "))
		lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(response, "=")), "\n")
		require.NotEmpty(t, lines)
		for _, line := range lines {
			require.Len(t, strings.Fields(line), 3, line)
		}
	})

	t.Run("winrates after the game ended lists nothing", func(t *testing.T) {
		h := newHandler(t)
		execute(t, h, "play b pass")
		execute(t, h, "play w pass")

		require.Equal(t, "= \n\n", execute(t, h, "winrates"))
		require.Equal(t, 1, h.tree.Size(), "Finished root should stay unexpanded")
	})

	t.Run("quit ends the session", func(t *testing.T) {
		h := newHandler(t)

		response, quit := h.Execute(context.Background(), "quit")

		require.Equal(t, "= \n\n", response)
		require.True(t, quit)
	})
}

func TestServe(t *testing.T) {
	h := newHandler(t)
	in := strings.NewReader("name\n\n# comment\n1 play b E5\nquit\nname\n")
	var out bytes.Buffer

	err := h.Serve(context.Background(), in, &out)

	require.NoError(t, err)
	require.Equal(t, "= Destiny\n\n=1 \n\n= \n\n", out.String(), "Serve should stop at quit")
}
