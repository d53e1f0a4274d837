package engine

import (
	"context"
	"destiny/communication"
	"destiny/experiments/metrics"
	"destiny/game"
	"destiny/searcher"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrIllegalRemoteMove = errors.New("remote engine played an illegal move")

// Remote plays a local search tree against an engine reached through a
// Communicator, such as another instance's HTTP server.
type Remote struct {
	board *game.Board
	tree  *searcher.Tree
	color game.Color // played by the local tree
	peer  communication.Communicator
}

func RemoteEngine(width int, komi float64, color game.Color, options []searcher.Option, peer communication.Communicator) *Remote {
	if color != game.Black && color != game.White {
		panic(fmt.Sprintf("invalid color: %s", color))
	}
	return &Remote{
		board: game.NewBoard(width, komi),
		tree:  searcher.NewTree(game.NewBoard(width, komi), options...),
		color: color,
		peer:  peer,
	}
}

func (e *Remote) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	setup := []string{
		fmt.Sprintf("boardsize %d", e.board.Width()),
		fmt.Sprintf("komi %g", e.board.Komi()),
		"clear_board",
	}
	for _, command := range setup {
		if _, err := e.peer.Execute(ctx, command); err != nil {
			return Result{}, fmt.Errorf("failed to set up remote game: %w", err)
		}
	}
	log.Info().Msgf("playing %s against remote engine on %dx%d", e.color, e.board.Width(), e.board.Width())

	var moves []metrics.MoveMetric
	var played []game.Point
	for !e.board.GameIsOver() && len(moves) < maxMoves(e.board) {
		player := e.board.PlayerToMove()

		var move game.Point
		var metric metrics.SearchMetric
		if player == e.color {
			move = e.tree.Think(ctx)
			metric = e.tree.LastMetrics()
			command := fmt.Sprintf("play %s %s", player, e.board.PointToString(move))
			if _, err := e.peer.Execute(ctx, command); err != nil {
				return Result{}, fmt.Errorf("failed to send move: %w", err)
			}
		} else {
			var err error
			if move, err = e.requestMove(ctx, player); err != nil {
				return Result{}, err
			}
			e.tree.ChooseMove(move)
		}
		e.board.MustPlay(move)
		played = append(played, move)

		moves = append(moves, metrics.MoveMetric{
			Step:         len(moves) + 1,
			Player:       player.String(),
			Move:         e.board.PointToString(move),
			SearchMetric: metric,
		})
	}

	result := newResult(e.board, start, moves, played)
	log.Info().Msgf("%s wins %.1f to %.1f after %d moves", result.Winner, result.Game.BlackScore, result.Game.WhiteScore, len(moves))
	return result, nil
}

func (e *Remote) requestMove(ctx context.Context, player game.Color) (game.Point, error) {
	reply, err := e.peer.Execute(ctx, "genmove "+player.String())
	if err != nil {
		return game.Pass, fmt.Errorf("failed to request move: %w", err)
	}
	move, err := e.board.ParsePoint(reply)
	if err != nil {
		return game.Pass, fmt.Errorf("%w: %w", ErrIllegalRemoteMove, err)
	}
	if !e.board.IsLegal(move) {
		return game.Pass, fmt.Errorf("%w: %s", ErrIllegalRemoteMove, reply)
	}
	return move, nil
}
