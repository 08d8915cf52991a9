// Package fairness computes the interval-deviation fairness statistic and
// its normalized form, the F-value, over home/away sequences. Lower F-values
// are fairer; the perfectly alternating sequence attains the minimum.
package fairness

import (
	"fmt"
	"math"
	"strings"
)

// RankingHap is one team's ordered home/away outcomes against its opponents
// in ranking order, as a string over the alphabet {H, A}.
type RankingHap string

// Parse validates that s only contains H and A letters.
func Parse(s string) (RankingHap, error) {
	for i := 0; i < len(s); i++ {
		if s[i] != 'H' && s[i] != 'A' {
			return "", fmt.Errorf("invalid home/away letter %q at position %d", s[i], i)
		}
	}
	return RankingHap(s), nil
}

// Complement flips every letter. The F-value is invariant under this.
func (h RankingHap) Complement() RankingHap {
	var b strings.Builder
	b.Grow(len(h))
	for i := 0; i < len(h); i++ {
		if h[i] == 'H' {
			b.WriteByte('A')
		} else {
			b.WriteByte('H')
		}
	}
	return RankingHap(b.String())
}

// FMeasureCountedTwice sums |2*homes(i,j) - (j-i)| over every sub-interval
// [i, j) of length at least two. Doubling the home count keeps the sum
// integral and counts each deviation twice, which the complement symmetry of
// the measure makes harmless. Equals exactly 2 * IntervalDistance over the
// 0/1 indicators of the same sequence.
func (h RankingHap) FMeasureCountedTwice() int {
	m := len(h)

	// prefix[i] = homes in h[:i]
	prefix := make([]int, m+1)
	for i := 0; i < m; i++ {
		prefix[i+1] = prefix[i]
		if h[i] == 'H' {
			prefix[i+1]++
		}
	}

	r := 0
	for i := 0; i < m; i++ {
		for j := i + 2; j <= m; j++ {
			d := 2*(prefix[j]-prefix[i]) - (j - i)
			if d < 0 {
				d = -d
			}
			r += d
		}
	}
	return r
}

// DeltaT is the single-counted interval deviation.
func (h RankingHap) DeltaT() float64 {
	return float64(h.FMeasureCountedTwice()) / 2
}

// FValue normalizes DeltaT to a scale-free fairness score for a tournament
// of n = len(h)+1 teams: (DeltaT - (n-2)^2/8) / (n(n-1)(n-2)/24).
func (h RankingHap) FValue() float64 {
	n := float64(len(h) + 1)
	return (h.DeltaT() - (n-2)*(n-2)/8) / (n * (n - 1) * (n - 2) / 24)
}

// IntervalDistance is the interval-deviation sum over raw 0/1 indicators:
// the total over every sub-interval of length at least two of the absolute
// difference between its sum and half its length. Used for post-hoc analysis
// of externally supplied schedules; FMeasureCountedTwice(h) equals
// 2 * IntervalDistance(indicators(h)).
func IntervalDistance(s []int) float64 {
	m := len(s)

	prefix := make([]int, m+1)
	for i := 0; i < m; i++ {
		prefix[i+1] = prefix[i] + s[i]
	}

	r := 0.0
	for i := 0; i < m; i++ {
		for j := i + 2; j <= m; j++ {
			r += math.Abs(float64(prefix[j]-prefix[i]) - float64(j-i)/2)
		}
	}
	return r
}

// Indicators converts the sequence to 0/1 home indicators.
func (h RankingHap) Indicators() []int {
	s := make([]int, len(h))
	for i := 0; i < len(h); i++ {
		if h[i] == 'H' {
			s[i] = 1
		}
	}
	return s
}
