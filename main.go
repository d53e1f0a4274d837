package main

import (
	"context"
	"destiny/communication/client"
	"destiny/communication/server"
	"destiny/config"
	"destiny/engine"
	"destiny/experiments"
	"destiny/experiments/metrics"
	"destiny/game"
	"destiny/gtp"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "YAML config file, defaults apply when empty")
	mode := flag.String("mode", "gtp", "gtp (stdin/stdout), serve (HTTP), selfplay or remote")
	url := flag.String("url", "http://localhost:8080", "Server of the remote engine")
	color := flag.String("color", "black", "Color played against the remote engine")
	flag.Parse()

	// Stdout belongs to the command protocol
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}
	}
	zerolog.SetGlobalLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *mode, cfg, *url, *color); err != nil {
		log.Error().Err(err).Msgf("%s failed", *mode)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, mode string, cfg config.Config, url, color string) error {
	switch mode {
	case "gtp":
		return gtp.NewHandler(cfg).Serve(ctx, os.Stdin, os.Stdout)
	case "serve":
		return server.NewServer(gtp.NewHandler(cfg)).ListenAndServe(ctx, cfg.Server.Addr)
	case "selfplay":
		return runSelfPlay(ctx, cfg)
	case "remote":
		return runRemote(ctx, cfg, url, color)
	}
	return fmt.Errorf("unknown mode %q", mode)
}

func runSelfPlay(ctx context.Context, cfg config.Config) error {
	agents := cfg.SelfPlay.Agents
	if len(agents) == 0 {
		agents = []config.SearchConfig{cfg.Search}
	}
	configs := make([]metrics.AgentConfig, len(agents))
	for i, agent := range agents {
		configs[i] = agent.AgentConfig(i + 1)
	}

	_, err := experiments.RunSelfPlay(ctx, cfg.SelfPlay.Name, configs, experiments.BaselineMatchUps(configs),
		cfg.SelfPlay.Games, cfg.Board.Width, cfg.Board.Komi, cfg.SelfPlay.Dir)
	return err
}

func runRemote(ctx context.Context, cfg config.Config, url, color string) error {
	var c game.Color
	switch color {
	case "b", "black":
		c = game.Black
	case "w", "white":
		c = game.White
	default:
		return fmt.Errorf("invalid color %q", color)
	}

	e := engine.RemoteEngine(cfg.Board.Width, cfg.Board.Komi, c, cfg.SearchOptions(), client.NewClient(url, nil))
	result, err := e.Run(ctx)
	if err != nil {
		return err
	}
	log.Info().Msgf("%s wins %.1f to %.1f", result.Winner, result.Game.BlackScore, result.Game.WhiteScore)
	return nil
}
