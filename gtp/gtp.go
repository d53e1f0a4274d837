package gtp

import (
	"bufio"
	"context"
	"destiny/config"
	"destiny/game"
	"destiny/meta"
	"destiny/searcher"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrSyntax         = errors.New("syntax error")
	ErrIllegalMove    = errors.New("illegal move")
)

var commands = []string{
	"boardsize",
	"clear_board",
	"genmove",
	"known_command",
	"komi",
	"list_commands",
	"name",
	"play",
	"protocol_version",
	"quit",
	"showboard",
	"version",
	"winrates",
}

// Handler answers protocol commands for one game. It is safe for concurrent
// use; commands are executed one at a time.
type Handler struct {
	mu     sync.Mutex
	config config.Config
	tree   *searcher.Tree
}

func NewHandler(c config.Config) *Handler {
	h := &Handler{config: c}
	h.reset()
	return h
}

// reset starts a new game with the configured board and search.
func (h *Handler) reset() {
	board := game.NewBoard(h.config.Board.Width, h.config.Board.Komi)
	h.tree = searcher.NewTree(board, h.config.SearchOptions()...)
}

// Board returns a copy of the current position.
func (h *Handler) Board() *game.Board {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.tree.Board().Copy()
}

type command struct {
	id   string
	name string
	args []string
}

// parse splits a line into an optional numeric id, the command name and its
// arguments. Comments and blank lines yield no command.
func parse(line string) (command, bool) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, false
	}

	var cmd command
	if _, err := strconv.Atoi(fields[0]); err == nil {
		cmd.id = fields[0]
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return cmd, true
	}
	cmd.name = fields[0]
	cmd.args = fields[1:]
	return cmd, true
}

// Execute runs one command line and returns the formatted response and
// whether the session should end. Lines without a command get no response.
func (h *Handler) Execute(ctx context.Context, line string) (string, bool) {
	cmd, ok := parse(line)
	if !ok {
		return "", false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	log.Debug().Msgf("executing %q", strings.TrimSpace(line))
	result, err := h.dispatch(ctx, cmd)
	if err != nil {
		log.Debug().Msgf("%s failed: %v", cmd.name, err)
		return fmt.Sprintf("?%s %s\n\n", cmd.id, err), false
	}
	return fmt.Sprintf("=%s %s\n\n", cmd.id, result), cmd.name == "quit"
}

func (h *Handler) dispatch(ctx context.Context, cmd command) (string, error) {
	switch cmd.name {
	case "protocol_version":
		return strconv.Itoa(meta.PROTOCOL_VERSION), nil
	case "name":
		return meta.NAME, nil
	case "version":
		return meta.VERSION, nil
	case "known_command":
		if len(cmd.args) != 1 {
			return "", fmt.Errorf("%w: known_command needs a command name", ErrSyntax)
		}
		return strconv.FormatBool(slices.Contains(commands, cmd.args[0])), nil
	case "list_commands":
		return strings.Join(commands, "\n"), nil
	case "boardsize":
		return "", h.boardsize(cmd.args)
	case "clear_board":
		h.reset()
		return "", nil
	case "komi":
		return "", h.komi(cmd.args)
	case "play":
		return "", h.play(cmd.args)
	case "genmove":
		return h.genmove(ctx, cmd.args)
	case "showboard":
		return "\n" + strings.TrimSuffix(h.tree.Board().String(), "\n"), nil
	case "winrates":
		return h.winrates(), nil
	case "quit":
		return "", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.name)
}

func (h *Handler) boardsize(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: boardsize needs a size", ErrSyntax)
	}
	width, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: boardsize needs an integer, got %q", ErrSyntax, args[0])
	}
	if width < 1 || width > game.MaxWidth {
		return fmt.Errorf("unacceptable size %d", width)
	}
	h.config.Board.Width = width
	h.reset()
	return nil
}

func (h *Handler) komi(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: komi needs a value", ErrSyntax)
	}
	komi, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("%w: komi needs a number, got %q", ErrSyntax, args[0])
	}
	h.config.Board.Komi = komi
	h.reset()
	return nil
}

// play commits a move for the given color, which must be the player to move.
func (h *Handler) play(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: play needs a color and a vertex", ErrSyntax)
	}
	color, err := parseColor(args[0])
	if err != nil {
		return err
	}
	board := h.tree.Board()
	move, err := board.ParsePoint(args[1])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	if err := h.checkToMove(color); err != nil {
		return err
	}
	if !board.IsLegal(move) {
		return ErrIllegalMove
	}
	h.tree.ChooseMove(move)
	return nil
}

// genmove searches for the given color, which must be the player to move,
// and commits the result.
func (h *Handler) genmove(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: genmove needs a color", ErrSyntax)
	}
	color, err := parseColor(args[0])
	if err != nil {
		return "", err
	}
	if err := h.checkToMove(color); err != nil {
		return "", err
	}
	move := h.tree.Think(ctx)
	return h.tree.Board().PointToString(move), nil
}

// winrates lists the visited root moves, most visited first.
func (h *Handler) winrates() string {
	h.tree.Expand()
	stats := h.tree.Stats()
	stats = slices.DeleteFunc(stats, func(s searcher.MoveStat) bool { return s.Visits == 0 })
	slices.SortStableFunc(stats, func(a, b searcher.MoveStat) int { return b.Visits - a.Visits })

	board := h.tree.Board()
	lines := make([]string, len(stats))
	for i, s := range stats {
		lines[i] = fmt.Sprintf("%s %d/%d %.3f", board.PointToString(s.Move), s.Wins, s.Visits, s.WinRate())
	}
	return strings.Join(lines, "\n")
}

// checkToMove rejects moves out of turn, such as handicap stones placed one
// color at a time.
func (h *Handler) checkToMove(color game.Color) error {
	if toMove := h.tree.Board().PlayerToMove(); color != toMove {
		return fmt.Errorf("%w: %s to move, not %s", ErrIllegalMove, toMove, color)
	}
	return nil
}

func parseColor(s string) (game.Color, error) {
	switch strings.ToLower(s) {
	case "b", "black":
		return game.Black, nil
	case "w", "white":
		return game.White, nil
	}
	return game.Empty, fmt.Errorf("%w: invalid color %q", ErrSyntax, s)
}

// Serve reads command lines from in and writes responses to out until quit,
// the end of input or ctx is done.
func (h *Handler) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		response, quit := h.Execute(ctx, scanner.Text())
		if response == "" {
			continue
		}
		if _, err := io.WriteString(out, response); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}
