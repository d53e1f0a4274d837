package experiments

import (
	"context"
	"destiny/engine"
	"destiny/experiments/metrics"
	"destiny/game"
	"destiny/searcher"
	"fmt"

	"github.com/rs/zerolog/log"
)

// BaselineMatchUps pairs the first config against each of the others, once
// with each color. A single config plays itself.
func BaselineMatchUps(configs []metrics.AgentConfig) [][]metrics.AgentConfig {
	if len(configs) == 0 {
		return nil
	}
	baseline := configs[0]
	if len(configs) == 1 {
		return [][]metrics.AgentConfig{{baseline, baseline}}
	}

	matchUps := [][]metrics.AgentConfig{}
	for _, config := range configs[1:] {
		matchUps = append(matchUps,
			[]metrics.AgentConfig{baseline, config},
			[]metrics.AgentConfig{config, baseline},
		)
	}
	return matchUps
}

// RunSelfPlay plays every match up the given number of games on a fresh
// board, the first agent of a match up taking Black, and stores the records
// under dir. It returns the directory the records were written to.
func RunSelfPlay(ctx context.Context, name string, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig, numGames, width int, komi float64, dir string) (string, error) {
	// Run a number of games for each matchup
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	games := []gameLog{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchUp := range matchUps {
		config1 := matchUp[0]
		config2 := matchUp[1]

		log.Info().Msgf("starting matchup %d of %d between black=%+v and white=%+v...", mi+1, len(matchUps), config1, config2)

		for i := 0; i < numGames; i++ {
			log.Info().Msgf("starting matchup %d of %d game %d of %d...", mi+1, len(matchUps), i+1, numGames)

			e := engine.LocalEngine(width, komi, createOptions(config1), createOptions(config2))
			result, err := e.Run(ctx)
			if err != nil {
				return "", fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     config1.ID,
				Agent2:     config2.ID,
				GameMetric: result.Game,
			})
			games = append(games, gameLog{record: result.Record, result: game.Result(e.Board())})
			for _, mm := range result.Moves {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(matchUps), i+1, result.Winner)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}

	log.Info().Msgf("completed %s experiment", name)
	summaries := metrics.Summarize(gameRecords)
	for _, s := range summaries {
		log.Info().Msgf("black=%d white=%d: black won %d of %d, margin %.1f ± %.1f",
			s.Black, s.White, s.BlackWins, s.Games, s.MeanMargin, s.StdDevMargin)
	}
	return storeRecords(name, dir, configs, gameRecords, moveRecords, summaries, games)
}

// gameLog keeps what the SGF export of one game needs.
type gameLog struct {
	record game.Record
	result string
}

func storeRecords(name, dir string, configs []metrics.AgentConfig, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord, summaries []metrics.Summary, games []gameLog) (string, error) {
	writer, err := metrics.NewWriter(dir, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	if err := writer.WriteSummaries(summaries); err != nil {
		return "", fmt.Errorf("failed to write summaries: %w", err)
	}
	for i, g := range games {
		if err := writer.WriteSGF(i+1, g.record, g.result); err != nil {
			return "", fmt.Errorf("failed to write game %d: %w", i+1, err)
		}
	}
	log.Info().Msgf("stored summaries and games in %s", writer.Dir())
	return writer.Dir(), nil
}

func createOptions(config metrics.AgentConfig) []searcher.Option {
	options := []searcher.Option{
		searcher.WithGoroutines(config.Goroutines),
		searcher.WithIterations(config.Iterations),
		searcher.WithDuration(config.Duration),
		searcher.WithExploration(config.Exploration),
		searcher.WithExpandThreshold(config.ExpandThreshold),
		searcher.WithMetrics(),
	}
	if config.Seed != 0 {
		options = append(options, searcher.WithSeed(config.Seed))
	}
	return options
}
