package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fourTeamRounds is a played four-team SRR (circle-method shape):
//
//	R1: a-d  b-c
//	R2: d-c  a-b
//	R3: b-d  c-a
func fourTeamRounds() [][]Match {
	return [][]Match{
		{{Home: "a", Away: "d"}, {Home: "b", Away: "c"}},
		{{Home: "d", Away: "c"}, {Home: "a", Away: "b"}},
		{{Home: "b", Away: "d"}, {Home: "c", Away: "a"}},
	}
}

var ranking = []string{"a", "b", "c", "d"}

func TestNewTable_PlaysHome(t *testing.T) {
	table := NewTable(fourTeamRounds())

	assert.True(t, table.PlaysHome("a", "d"))
	assert.False(t, table.PlaysHome("d", "a"))
	assert.True(t, table.PlaysHome("c", "a"))

	// Absent pairs mean never played, which counts as not-at-home.
	assert.False(t, table.PlaysHome("a", "a"))
	assert.False(t, table.PlaysHome("a", "nobody"))
}

func TestTable_RankingHap(t *testing.T) {
	table := NewTable(fourTeamRounds())

	// a hosts b and d, travels to c.
	assert.Equal(t, []int{1, 0, 1}, table.RankingHap(ranking, "a"))
	// b travels to a, hosts c and d.
	assert.Equal(t, []int{0, 1, 1}, table.RankingHap(ranking, "b"))
}

func TestTable_LeftFairness(t *testing.T) {
	table := NewTable(fourTeamRounds())

	// a's staircase 1,1,2 tracks the ideal ladder 0.5,1,1.5 within the
	// alternating allowance, so it scores zero.
	f, err := table.LeftFairness(ranking, "a")
	require.NoError(t, err)
	assert.InDelta(t, 0.0, f, 1e-12)

	f, err = table.LeftFairness(ranking, "b")
	require.NoError(t, err)
	assert.InDelta(t, 0.0, f, 1e-12)
}

func TestTable_CountBreaks(t *testing.T) {
	table := NewTable(fourTeamRounds())

	b, err := table.CountBreaks(ranking, "a") // 1,0,1
	require.NoError(t, err)
	assert.Equal(t, 0, b)

	b, err = table.CountBreaks(ranking, "b") // 0,1,1
	require.NoError(t, err)
	assert.Equal(t, 1, b)
}

func TestTable_IntervalFairness(t *testing.T) {
	table := NewTable(fourTeamRounds())

	f, err := table.IntervalFairness(ranking, "a") // 1,0,1
	require.NoError(t, err)
	assert.InDelta(t, 0.0, f, 1e-12)

	f, err = table.IntervalFairness(ranking, "b") // 0,1,1
	require.NoError(t, err)
	assert.InDelta(t, 1.0, f, 1e-12)
}

func TestTable_TournamentAggregates(t *testing.T) {
	table := NewTable(fourTeamRounds())

	// Per team: a [1,0,1] and b [0,1,1] and c [1,0,0] score zero, zero
	// and zero; d [0,0,1] drifts below the ladder for one point.
	total, err := table.TournamentLeftFairness(ranking)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, total, 1e-12)

	breaks, err := table.TournamentBreaks(ranking)
	require.NoError(t, err)
	assert.Equal(t, 3, breaks)

	interval, err := table.TournamentIntervalFairness(ranking)
	require.NoError(t, err)
	// a=0, b=1, c=1, d=1.
	assert.InDelta(t, 3.0, interval, 1e-12)
}

func TestTable_ValidationErrors(t *testing.T) {
	table := NewTable(fourTeamRounds())

	_, err := table.LeftFairness([]string{"a", "b", "c", "x"}, "a")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown participant")

	_, err = table.CountBreaks([]string{"a", "b"}, "c")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not in the ranking")
}
