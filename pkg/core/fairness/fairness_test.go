package fairness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allHaps enumerates every H/A string of the given length.
func allHaps(length int) []RankingHap {
	haps := make([]RankingHap, 0, 1<<length)
	for mask := 0; mask < 1<<length; mask++ {
		b := make([]byte, length)
		for k := 0; k < length; k++ {
			if mask&(1<<k) != 0 {
				b[k] = 'H'
			} else {
				b[k] = 'A'
			}
		}
		haps = append(haps, RankingHap(b))
	}
	return haps
}

func alternating(length int, first byte) RankingHap {
	b := make([]byte, length)
	for i := range b {
		if i%2 == 0 {
			b[i] = first
		} else if first == 'H' {
			b[i] = 'A'
		} else {
			b[i] = 'H'
		}
	}
	return RankingHap(b)
}

func TestParse(t *testing.T) {
	h, err := Parse("HAHAH")
	require.NoError(t, err)
	assert.Equal(t, RankingHap("HAHAH"), h)

	_, err = Parse("HAXAH")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "position 2")
}

func TestComplement(t *testing.T) {
	assert.Equal(t, RankingHap("AHAHA"), RankingHap("HAHAH").Complement())
	assert.Equal(t, RankingHap("HHAA"), RankingHap("AAHH").Complement())
}

func TestFMeasureCountedTwice_SmallValues(t *testing.T) {
	// HAHAH: the four odd-length intervals each deviate by one.
	assert.Equal(t, 4, RankingHap("HAHAH").FMeasureCountedTwice())

	// HHHHH: interval [i,j) deviates by its full length.
	assert.Equal(t, 2+3+4+5+2+3+4+2+3+2, RankingHap("HHHHH").FMeasureCountedTwice())

	// Sequences shorter than two have no intervals.
	assert.Equal(t, 0, RankingHap("H").FMeasureCountedTwice())
	assert.Equal(t, 0, RankingHap("").FMeasureCountedTwice())
}

func TestFValue_ComplementInvariance(t *testing.T) {
	for length := 2; length <= 9; length++ {
		for _, h := range allHaps(length) {
			assert.InDelta(t, h.FValue(), h.Complement().FValue(), 1e-12,
				"length %d hap %s", length, h)
		}
	}
}

func TestFValue_AlternatingIsMinimal(t *testing.T) {
	for length := 3; length <= 9; length += 2 {
		alt := alternating(length, 'H')
		for _, h := range allHaps(length) {
			assert.LessOrEqual(t, alt.FValue(), h.FValue()+1e-12,
				"length %d hap %s", length, h)
		}
	}
}

func TestFValue_DocumentedFourteenTeamConstants(t *testing.T) {
	// n = 14: the alternating string scores zero, and the single-break
	// strings of the historical minimal catalogs score 6/91.
	const minBreakF = 0.06593406593406595

	assert.InDelta(t, 0.0, alternating(13, 'H').FValue(), 1e-9)
	assert.InDelta(t, 0.0, alternating(13, 'A').FValue(), 1e-9)

	for _, s := range []string{
		"AAHAHAHAHAHAH",
		"HHAHAHAHAHAHA",
		"AHAHAHAHAHAHH",
		"HAHAHAHAHAHAA",
	} {
		h, err := Parse(s)
		require.NoError(t, err)
		assert.InDelta(t, minBreakF, h.FValue(), 1e-9, "hap %s", s)
	}
}

func TestIntervalDistance_AlternatingLadder(t *testing.T) {
	// Over eight alternating indicators the twelve odd-length intervals
	// contribute a half each.
	assert.InDelta(t, 6.0, IntervalDistance([]int{1, 0, 1, 0, 1, 0, 1, 0}), 1e-12)
	assert.InDelta(t, 6.0, IntervalDistance([]int{0, 1, 0, 1, 0, 1, 0, 1}), 1e-12)
}

func TestIntervalDistance_MatchesFMeasure(t *testing.T) {
	// FMeasureCountedTwice counts every deviation twice.
	for length := 2; length <= 8; length++ {
		for _, h := range allHaps(length) {
			assert.InDelta(t, float64(h.FMeasureCountedTwice()), 2*IntervalDistance(h.Indicators()), 1e-12,
				"length %d hap %s", length, h)
		}
	}
}

func TestDeltaT(t *testing.T) {
	assert.InDelta(t, 2.0, RankingHap("HAHAH").DeltaT(), 1e-12)
}

func TestIndicators(t *testing.T) {
	assert.Equal(t, []int{1, 0, 0, 1}, RankingHap("HAAH").Indicators())
	assert.Empty(t, RankingHap("").Indicators())
}

func TestFValue_UniformSequenceIsWorst(t *testing.T) {
	worst := RankingHap(strings.Repeat("H", 7))
	for _, h := range allHaps(7) {
		assert.GreaterOrEqual(t, worst.FValue(), h.FValue()-1e-12)
	}
}
