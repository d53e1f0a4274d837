package engine

import (
	"context"
	"destiny/experiments/metrics"
	"destiny/game"
	"time"
)

// MaxMovesPerPoint bounds a game to this many moves per board point. Search
// trees only pass without a legal stone move, so games need a cap.
const MaxMovesPerPoint = 3

func maxMoves(board *game.Board) int {
	return MaxMovesPerPoint * board.Area()
}

type Engine interface {
	// Run plays a game till both players pass or a max number of moves is reached
	Run(ctx context.Context) (Result, error)
}

type Result struct {
	Winner game.Color
	Game   metrics.GameMetric
	Moves  []metrics.MoveMetric
	Record game.Record
}

// newResult scores the final position. A game cut off at the move cap is scored
// as it stands.
func newResult(board *game.Board, start time.Time, moves []metrics.MoveMetric, played []game.Point) Result {
	end := time.Now()
	black := board.Score(game.Black)
	white := board.Score(game.White)
	winner := game.Black
	if white > black {
		winner = game.White
	}
	return Result{
		Winner: winner,
		Game: metrics.GameMetric{
			Winner:     winner.String(),
			StartTime:  start,
			EndTime:    end,
			Duration:   end.Sub(start),
			TotalMoves: len(moves),
			BlackScore: black,
			WhiteScore: white,
		},
		Moves: moves,
		Record: game.Record{
			Width: board.Width(),
			Komi:  board.Komi(),
			Moves: played,
		},
	}
}
