package circle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/fairsched/pkg/core/srr"
)

func TestCircleMethod_InvalidTeamCount(t *testing.T) {
	_, err := CircleMethod(0)
	assert.Error(t, err)

	_, err = CircleMethod(-2)
	assert.Error(t, err)

	_, err = CircleMethod(5)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "even")
}

func TestCircleMethod_SixTeams(t *testing.T) {
	rounds, err := CircleMethod(6)
	require.NoError(t, err)

	require.Len(t, rounds, 5)
	for _, matches := range rounds {
		assert.Len(t, matches, 3)
	}

	assert.Equal(t, []srr.Match{{Home: 0, Away: 5}, {Home: 1, Away: 4}, {Home: 2, Away: 3}}, rounds[0])
	assert.Equal(t, []srr.Match{{Home: 5, Away: 3}, {Home: 4, Away: 2}, {Home: 0, Away: 1}}, rounds[1])
}

func TestCircleMethod_HubAlternates(t *testing.T) {
	rounds, err := CircleMethod(8)
	require.NoError(t, err)

	hub := srr.Team(7)
	for r, matches := range rounds {
		m := matches[0]
		if r%2 == 0 {
			assert.Equal(t, hub, m.Away, "round %d", r)
		} else {
			assert.Equal(t, hub, m.Home, "round %d", r)
		}
	}
}

func TestCircleMethod_SingleRoundRobin(t *testing.T) {
	for _, n := range []int{2, 4, 6, 10, 14} {
		rounds, err := CircleMethod(n)
		require.NoError(t, err)
		require.Len(t, rounds, n-1)

		seen := make(map[[2]srr.Team]int)
		for r, matches := range rounds {
			require.Len(t, matches, n/2, "n=%d round %d", n, r)

			perRound := make(map[srr.Team]bool)
			for _, m := range matches {
				assert.NotEqual(t, m.Home, m.Away)
				assert.False(t, perRound[m.Home], "n=%d round %d team %d plays twice", n, r, m.Home)
				assert.False(t, perRound[m.Away], "n=%d round %d team %d plays twice", n, r, m.Away)
				perRound[m.Home] = true
				perRound[m.Away] = true

				i, j := m.Home, m.Away
				if i > j {
					i, j = j, i
				}
				seen[[2]srr.Team{i, j}]++
			}
			assert.Len(t, perRound, n)
		}

		// Every unordered pair meets exactly once.
		assert.Len(t, seen, n*(n-1)/2)
		for pair, count := range seen {
			assert.Equal(t, 1, count, "n=%d pair %v", n, pair)
		}
	}
}
