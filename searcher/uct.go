package searcher

import "math"

type uct struct {
	exploration float64
	logN        float64
}

// newUCT prepares the exploration term for a parent with N visits.
func newUCT(exploration float64, N int) uct {
	return uct{exploration: exploration, logN: math.Log(float64(N + 1))}
}

// evaluate scores a child with the given wins and visits. jitter in [0, 1)
// breaks exact ties.
func (u uct) evaluate(wins, visits int, jitter float64) float64 {
	// UCT = (w+1)/(n+2) + C*sqrt(ln(N+1)/n)
	w := float64(wins)
	n := float64(visits)
	return (w+1)/(n+2+Epsilon) + u.exploration*math.Sqrt(u.logN/(n+Epsilon)) + jitter*Epsilon
}
