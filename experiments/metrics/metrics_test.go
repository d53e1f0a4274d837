package metrics

import (
	"destiny/game"
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("counting concurrent episodes", func(t *testing.T) {
		c := NewCollector()
		c.Start(4)

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					c.AddEpisode()
					if j%2 == 0 {
						c.AddFullPlayout()
					}
				}
			}()
		}
		wg.Wait()
		c.SetTreeReused(true)

		got := c.Complete(42)
		require.Equal(t, 4, got.Goroutines)
		require.Equal(t, 400, got.Episodes)
		require.Equal(t, 200, got.FullPlayouts)
		require.Equal(t, 42, got.TreeSize)
		require.True(t, got.IsTreeReused)
	})

	t.Run("restarting clears the counters", func(t *testing.T) {
		c := NewCollector()
		c.Start(1)
		c.AddEpisode()
		c.Start(1)

		require.Zero(t, c.Complete(0).Episodes)
	})

	t.Run("dummy collector records nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(8)
		c.AddEpisode()

		require.Equal(t, SearchMetric{}, c.Complete(10))
	})
}

func TestWriter(t *testing.T) {
	t.Run("writing records as csv", func(t *testing.T) {
		w, err := NewWriter(t.TempDir(), "selfplay")
		require.NoError(t, err)

		require.NoError(t, w.WriteAgentConfigs([]AgentConfig{{ID: 1, Goroutines: 2, Iterations: 100, Exploration: 0.2, ExpandThreshold: 4, Seed: 9}}))
		require.NoError(t, w.WriteGameRecords([]GameRecord{{ID: 1, Agent1: 1, Agent2: 1, GameMetric: GameMetric{Winner: "white", TotalMoves: 3, Duration: time.Second}}}))
		require.NoError(t, w.WriteMoveRecords([]MoveRecord{
			{Game: 1, MoveMetric: MoveMetric{Step: 1, Player: "black", Move: "E5", SearchMetric: SearchMetric{Episodes: 100}}},
			{Game: 1, MoveMetric: MoveMetric{Step: 2, Player: "white", Move: "PASS"}},
		}))

		rows := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Len(t, rows, 3, "header and two moves")
		require.Equal(t, "game", rows[0][0])
		require.Equal(t, "E5", rows[1][3])
		require.Equal(t, "100", rows[1][6])

		rows = readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Equal(t, "white", rows[1][3])

		rows = readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
		require.Equal(t, []string{"1", "2", "0s", "100", "0.2", "4", "9"}, rows[1])
	})
}

func TestSummarize(t *testing.T) {
	records := []GameRecord{
		{ID: 1, Agent1: 1, Agent2: 2, GameMetric: GameMetric{Winner: "black", BlackScore: 45, WhiteScore: 40}},
		{ID: 2, Agent1: 2, Agent2: 1, GameMetric: GameMetric{Winner: "white", BlackScore: 30, WhiteScore: 50}},
		{ID: 3, Agent1: 1, Agent2: 2, GameMetric: GameMetric{Winner: "white", BlackScore: 40, WhiteScore: 41}},
		{ID: 4, Agent1: 1, Agent2: 2, GameMetric: GameMetric{Winner: "black", BlackScore: 42, WhiteScore: 39}},
	}

	got := Summarize(records)

	require.Len(t, got, 2)
	require.Equal(t, 1, got[0].Black, "Match ups should keep their first appearance order")
	require.Equal(t, 3, got[0].Games)
	require.Equal(t, 2, got[0].BlackWins)
	require.InDelta(t, 2.0/3, got[0].BlackWinRate(), 1e-9)
	require.InDelta(t, 7.0/3, got[0].MeanMargin, 1e-9)
	require.InDelta(t, 3.055050, got[0].StdDevMargin, 1e-6, "Spread should be the sample standard deviation")

	require.Equal(t, Summary{Black: 2, White: 1, Games: 1, MeanMargin: -20}, got[1], "A single game has no spread")
	require.Empty(t, Summarize(nil))
}

func TestWriterExtras(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "selfplay")
	require.NoError(t, err)

	require.NoError(t, w.WriteSummaries([]Summary{{Black: 1, White: 2, Games: 3, BlackWins: 2, MeanMargin: 2.5, StdDevMargin: 1}}))
	rows := readCSV(t, filepath.Join(w.Dir(), "summary.csv"))
	require.Equal(t, []string{"1", "2", "3", "2", "2.50", "1.00"}, rows[1])

	require.NoError(t, w.WriteSGF(7, game.Record{Width: 3, Komi: 0.5, Moves: []game.Point{4, game.Pass}}, "B+0.5"))
	data, err := os.ReadFile(filepath.Join(w.Dir(), "sgf", "7.sgf"))
	require.NoError(t, err)
	require.Equal(t, "(;FF[4]GM[1]CA[UTF-8]SZ[3]KM[0.5]RE[B+0.5]\n;B[bb]\n;W[])\n", string(data))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
