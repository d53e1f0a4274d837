package metrics

import "gonum.org/v1/gonum/stat"

// Summary aggregates the games of one match up. Margins are Black's score
// minus White's.
type Summary struct {
	Black        int // AgentConfig.ID
	White        int // AgentConfig.ID
	Games        int
	BlackWins    int
	MeanMargin   float64
	StdDevMargin float64
}

func (s Summary) BlackWinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.BlackWins) / float64(s.Games)
}

// Summarize groups game records by match up, in order of first appearance.
func Summarize(records []GameRecord) []Summary {
	type matchUp struct{ black, white int }
	var order []matchUp
	margins := map[matchUp][]float64{}
	wins := map[matchUp]int{}
	for _, r := range records {
		m := matchUp{r.Agent1, r.Agent2}
		if _, ok := margins[m]; !ok {
			order = append(order, m)
		}
		margins[m] = append(margins[m], r.BlackScore-r.WhiteScore)
		if r.Winner == "black" {
			wins[m]++
		}
	}

	summaries := make([]Summary, 0, len(order))
	for _, m := range order {
		s := Summary{Black: m.black, White: m.white, Games: len(margins[m]), BlackWins: wins[m]}
		if s.Games > 1 {
			s.MeanMargin, s.StdDevMargin = stat.MeanStdDev(margins[m], nil)
		} else {
			s.MeanMargin = margins[m][0]
		}
		summaries = append(summaries, s)
	}
	return summaries
}
