package config

import (
	"destiny/experiments/metrics"
	"destiny/game"
	"destiny/meta"
	"destiny/searcher"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel string         `yaml:"log_level"`
	Board    BoardConfig    `yaml:"board"`
	Search   SearchConfig   `yaml:"search"`
	Server   ServerConfig   `yaml:"server"`
	SelfPlay SelfPlayConfig `yaml:"selfplay"`
}

type BoardConfig struct {
	Width int     `yaml:"width"`
	Komi  float64 `yaml:"komi"`
}

// SearchConfig bounds the search behind each generated move. Iterations and
// Duration may be combined; the search stops at whichever comes first.
type SearchConfig struct {
	Goroutines      int           `yaml:"goroutines"`
	Iterations      int           `yaml:"iterations"`
	Duration        time.Duration `yaml:"duration"`
	Exploration     float64       `yaml:"exploration"`
	ExpandThreshold int           `yaml:"expand_threshold"`
	Seed            uint64        `yaml:"seed"` // 0 seeds from the clock
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type SelfPlayConfig struct {
	Name  string `yaml:"name"`
	Games int    `yaml:"games"` // per match up
	Dir   string `yaml:"dir"`
	// Agents play the baseline Search config in turn, or themselves when
	// empty.
	Agents []SearchConfig `yaml:"agents"`
}

func Default() Config {
	return Config{
		LogLevel: meta.LOG_LEVEL,
		Board: BoardConfig{
			Width: meta.BOARD_WIDTH,
			Komi:  meta.KOMI,
		},
		Search: DefaultSearch(),
		Server: ServerConfig{
			Addr: meta.SERVER_ADDR,
		},
		SelfPlay: SelfPlayConfig{
			Name:  "selfplay",
			Games: meta.GAMES,
			Dir:   meta.RECORDS_DIR,
		},
	}
}

func DefaultSearch() SearchConfig {
	return SearchConfig{
		Goroutines:      meta.GO_ROUTINES,
		Iterations:      meta.ITERATIONS,
		Exploration:     searcher.Exploration,
		ExpandThreshold: searcher.ExpandThreshold,
	}
}

// UnmarshalYAML overlays the document on the current values. A zero config,
// such as a new entry of the agents list, starts from DefaultSearch.
func (s *SearchConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain SearchConfig
	p := plain(*s)
	if *s == (SearchConfig{}) {
		p = plain(DefaultSearch())
	}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = SearchConfig(p)
	return nil
}

// Load reads the YAML file at path over the defaults. Keys missing from the
// file keep their default values.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.Board.Width < 1 || c.Board.Width > game.MaxWidth {
		return fmt.Errorf("%w: board width %d is outside 1..%d", ErrInvalidConfig, c.Board.Width, game.MaxWidth)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if c.SelfPlay.Games < 1 {
		return fmt.Errorf("%w: selfplay needs at least one game, got %d", ErrInvalidConfig, c.SelfPlay.Games)
	}
	for i, agent := range c.SelfPlay.Agents {
		if err := agent.Validate(); err != nil {
			return fmt.Errorf("agent %d: %w", i+1, err)
		}
	}
	return nil
}

func (s SearchConfig) Validate() error {
	switch {
	case s.Goroutines < 1:
		return fmt.Errorf("%w: goroutines must be positive, got %d", ErrInvalidConfig, s.Goroutines)
	case s.Iterations < 0:
		return fmt.Errorf("%w: iterations must not be negative, got %d", ErrInvalidConfig, s.Iterations)
	case s.Duration < 0:
		return fmt.Errorf("%w: duration must not be negative, got %s", ErrInvalidConfig, s.Duration)
	case s.Iterations == 0 && s.Duration == 0:
		return fmt.Errorf("%w: search needs iterations or a duration", ErrInvalidConfig)
	case s.Exploration < 0:
		return fmt.Errorf("%w: exploration must not be negative, got %g", ErrInvalidConfig, s.Exploration)
	case s.ExpandThreshold < 0:
		return fmt.Errorf("%w: expand threshold must not be negative, got %d", ErrInvalidConfig, s.ExpandThreshold)
	}
	return nil
}

// Level returns the configured log level, info if it is unset or does not
// parse.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// Options converts the search config into tree options.
func (s SearchConfig) Options() []searcher.Option {
	options := []searcher.Option{
		searcher.WithGoroutines(s.Goroutines),
		searcher.WithIterations(s.Iterations),
		searcher.WithDuration(s.Duration),
		searcher.WithExploration(s.Exploration),
		searcher.WithExpandThreshold(s.ExpandThreshold),
	}
	if s.Seed != 0 {
		options = append(options, searcher.WithSeed(s.Seed))
	}
	return options
}

// AgentConfig describes the search as a self-play agent with the given id.
func (s SearchConfig) AgentConfig(id int) metrics.AgentConfig {
	return metrics.AgentConfig{
		ID:              id,
		Goroutines:      s.Goroutines,
		Duration:        s.Duration,
		Iterations:      s.Iterations,
		Exploration:     s.Exploration,
		ExpandThreshold: s.ExpandThreshold,
		Seed:            s.Seed,
	}
}

func (c Config) SearchOptions() []searcher.Option {
	return c.Search.Options()
}
