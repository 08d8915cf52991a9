// Package tournament analyzes finished schedules supplied by external
// collaborators: a played round list is ingested once into an immutable
// home/away table, from which per-team and tournament-level fairness
// statistics are computed against any participant ranking.
package tournament

import (
	"fmt"

	"github.com/jakechorley/fairsched/pkg/core/fairness"
)

// Match is one played game between named participants; Home hosted Away.
type Match struct {
	Home string
	Away string
}

// Table is the immutable home/away fact lookup built once during ingestion.
// An absent ordered pair means the two participants never met in that
// orientation, which counts as not-at-home.
type Table struct {
	playsHome map[[2]string]bool
	teams     map[string]bool
}

// NewTable ingests per-round match lists into a Table.
func NewTable(rounds [][]Match) *Table {
	t := &Table{
		playsHome: make(map[[2]string]bool),
		teams:     make(map[string]bool),
	}
	for _, round := range rounds {
		for _, m := range round {
			t.playsHome[[2]string{m.Home, m.Away}] = true
			t.teams[m.Home] = true
			t.teams[m.Away] = true
		}
	}
	return t
}

// PlaysHome reports whether p hosted q.
func (t *Table) PlaysHome(p, q string) bool {
	return t.playsHome[[2]string{p, q}]
}

// RankingHap extracts a team's 0/1 home indicators against every other
// participant in ranking order.
func (t *Table) RankingHap(ranking []string, team string) []int {
	hap := make([]int, 0, len(ranking)-1)
	for _, q := range ranking {
		if q == team {
			continue
		}
		if t.PlaysHome(team, q) {
			hap = append(hap, 1)
		} else {
			hap = append(hap, 0)
		}
	}
	return hap
}

// validate checks that the ranking covers the table's participants and
// contains the requested team.
func (t *Table) validate(ranking []string, team string) error {
	found := false
	for _, q := range ranking {
		if q == team {
			found = true
		}
		if !t.teams[q] {
			return fmt.Errorf("ranking names unknown participant %q", q)
		}
	}
	if !found {
		return fmt.Errorf("team %q is not in the ranking", team)
	}
	return nil
}

// LeftFairness measures how far a team's home-count staircase drifts from
// the ideal half-ladder: the sum over prefixes of |cumsum(hap) - k/2|,
// shifted by -n/4 so the alternating sequence scores zero.
func (t *Table) LeftFairness(ranking []string, team string) (float64, error) {
	if err := t.validate(ranking, team); err != nil {
		return 0, err
	}

	hap := t.RankingHap(ranking, team)
	n := float64(len(ranking))

	r := -n / 4
	cum := 0
	for k, h := range hap {
		cum += h
		d := float64(cum) - float64(k+1)/2
		if d < 0 {
			d = -d
		}
		r += d
	}
	return r, nil
}

// CountBreaks counts adjacent equal letters in the team's ranking HAP.
func (t *Table) CountBreaks(ranking []string, team string) (int, error) {
	if err := t.validate(ranking, team); err != nil {
		return 0, err
	}

	hap := t.RankingHap(ranking, team)
	breaks := 0
	for k := 1; k < len(hap); k++ {
		if hap[k] == hap[k-1] {
			breaks++
		}
	}
	return breaks, nil
}

// IntervalFairness is the interval-deviation statistic of the team's
// ranking HAP, shifted by -(n-2)^2/8 so the alternating sequence scores
// zero. It relates to fairness.RankingHap.FMeasureCountedTwice by the
// documented factor of two on the unshifted sum.
func (t *Table) IntervalFairness(ranking []string, team string) (float64, error) {
	if err := t.validate(ranking, team); err != nil {
		return 0, err
	}

	hap := t.RankingHap(ranking, team)
	n := float64(len(ranking))
	return fairness.IntervalDistance(hap) - (n-2)*(n-2)/8, nil
}

// TournamentLeftFairness sums LeftFairness over every ranked participant.
func (t *Table) TournamentLeftFairness(ranking []string) (float64, error) {
	total := 0.0
	for _, team := range ranking {
		f, err := t.LeftFairness(ranking, team)
		if err != nil {
			return 0, err
		}
		total += f
	}
	return total, nil
}

// TournamentBreaks sums CountBreaks over every ranked participant.
func (t *Table) TournamentBreaks(ranking []string) (int, error) {
	total := 0
	for _, team := range ranking {
		b, err := t.CountBreaks(ranking, team)
		if err != nil {
			return 0, err
		}
		total += b
	}
	return total, nil
}

// TournamentIntervalFairness sums IntervalFairness over every ranked
// participant.
func (t *Table) TournamentIntervalFairness(ranking []string) (float64, error) {
	total := 0.0
	for _, team := range ranking {
		f, err := t.IntervalFairness(ranking, team)
		if err != nil {
			return 0, err
		}
		total += f
	}
	return total, nil
}
