package engine

import (
	"context"
	"destiny/experiments/metrics"
	"destiny/game"
	"destiny/searcher"
	"time"

	"github.com/rs/zerolog/log"
)

// Local plays two search trees against each other. Each tree keeps its own
// copy of the game, the referee board is the authoritative one.
type Local struct {
	board *game.Board
	black *searcher.Tree
	white *searcher.Tree
}

func LocalEngine(width int, komi float64, black, white []searcher.Option) *Local {
	return &Local{
		board: game.NewBoard(width, komi),
		black: searcher.NewTree(game.NewBoard(width, komi), black...),
		white: searcher.NewTree(game.NewBoard(width, komi), white...),
	}
}

// Board returns the referee board.
func (e *Local) Board() *game.Board {
	return e.board
}

func (e *Local) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	log.Info().Msgf("starting %dx%d game with komi %.1f", e.board.Width(), e.board.Width(), e.board.Komi())

	var moves []metrics.MoveMetric
	var played []game.Point
	for !e.board.GameIsOver() && len(moves) < maxMoves(e.board) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		player := e.board.PlayerToMove()
		mover, opponent := e.black, e.white
		if player == game.White {
			mover, opponent = e.white, e.black
		}

		move := mover.Think(ctx)
		opponent.ChooseMove(move)
		e.board.MustPlay(move)
		played = append(played, move)

		moves = append(moves, metrics.MoveMetric{
			Step:         len(moves) + 1,
			Player:       player.String(),
			Move:         e.board.PointToString(move),
			SearchMetric: mover.LastMetrics(),
		})
		log.Debug().Msgf("move %d: %s %s", len(moves), player, e.board.PointToString(move))
	}

	if !e.board.GameIsOver() {
		log.Warn().Msgf("stopped after %d moves without both players passing", len(moves))
	}
	result := newResult(e.board, start, moves, played)
	log.Info().Msgf("%s wins %.1f to %.1f after %d moves", result.Winner, result.Game.BlackScore, result.Game.WhiteScore, len(moves))
	return result, nil
}
