package searcher

import (
	"destiny/experiments/metrics"
	"time"
)

// Hyperparameters for UCT

const Exploration = 0.2 // Exploration constant C

const ExpandThreshold = 4 // Visits a leaf needs before it is expanded

// Epsilon prevents division by zero and scales the tie-breaking jitter.
const Epsilon = 1e-6

type Option func(t *Tree)

func WithSeed(seed uint64) Option {
	return func(t *Tree) {
		t.seed = seed
	}
}

func WithGoroutines(goroutines int) Option {
	return func(t *Tree) {
		if goroutines > 0 {
			t.goroutines = goroutines
		}
	}
}

// WithIterations sets the number of iterations Think runs.
func WithIterations(iterations int) Option {
	return func(t *Tree) {
		if iterations > 0 {
			t.iterations = iterations
		}
	}
}

// WithDuration bounds Think by wall-clock time.
func WithDuration(duration time.Duration) Option {
	return func(t *Tree) {
		if duration > 0 {
			t.duration = duration
		}
	}
}

func WithExploration(c float64) Option {
	return func(t *Tree) {
		if c >= 0 {
			t.exploration = c
		}
	}
}

func WithExpandThreshold(visits int) Option {
	return func(t *Tree) {
		if visits >= 0 {
			t.expandThreshold = visits
		}
	}
}

func WithMetrics() Option {
	return func(t *Tree) {
		t.metrics = metrics.NewCollector()
	}
}
