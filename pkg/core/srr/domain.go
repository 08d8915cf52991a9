// Package srr defines the index space and break-pattern catalog of a fair
// single round-robin instance: teams, rounds, break-gap sequences, and the
// deterministic expansion of break patterns into full home/away strings.
package srr

import "fmt"

// Domain is the immutable description of one SRR instance. It is built once
// by New and only queried afterwards.
type Domain struct {
	n         int
	breakGaps []int
}

// New validates the instance and returns its domain. The team count must be
// a positive even number. A break-gap sequence, when supplied, must contain
// n/2 gaps summing to n-1 (one break per pair of teams over n-1 rounds);
// a nil sequence leaves every round open as a break candidate.
func New(n int, breakGaps []int) (*Domain, error) {
	if n <= 0 {
		return nil, fmt.Errorf("number of teams must be positive, got %d", n)
	}
	if n%2 != 0 {
		return nil, fmt.Errorf("number of teams must be even, got %d", n)
	}

	if breakGaps != nil {
		if len(breakGaps) != n/2 {
			return nil, fmt.Errorf("break gaps must have length %d, got %d", n/2, len(breakGaps))
		}
		sum := 0
		for _, d := range breakGaps {
			sum += d
		}
		if sum != n-1 {
			return nil, fmt.Errorf("break gaps must sum to %d, got %d", n-1, sum)
		}
		breakGaps = append([]int(nil), breakGaps...)
	}

	return &Domain{n: n, breakGaps: breakGaps}, nil
}

// N returns the number of teams.
func (d *Domain) N() int { return d.n }

// BreakGaps returns the configured gap sequence, or nil when every round is
// a break candidate.
func (d *Domain) BreakGaps() []int {
	if d.breakGaps == nil {
		return nil
	}
	return append([]int(nil), d.breakGaps...)
}

// Teams returns all team indices in ranking order.
func (d *Domain) Teams() []Team {
	teams := make([]Team, d.n)
	for i := range teams {
		teams[i] = Team(i)
	}
	return teams
}

// Rounds returns all round indices.
func (d *Domain) Rounds() []Round {
	rounds := make([]Round, d.n-1)
	for r := range rounds {
		rounds[r] = Round(r)
	}
	return rounds
}

// Opponents returns every team other than i, in increasing index order.
func (d *Domain) Opponents(i Team) []Team {
	opps := make([]Team, 0, d.n-1)
	for j := 0; j < d.n; j++ {
		if Team(j) != i {
			opps = append(opps, Team(j))
		}
	}
	return opps
}

// BreakRounds returns the candidate break rounds. Without a gap sequence
// every round qualifies. With one, the first break is fixed on round 0 and
// the following break rounds are the running prefix sums of all but the
// last gap.
func (d *Domain) BreakRounds() []Round {
	if d.breakGaps == nil {
		return d.Rounds()
	}

	rounds := make([]Round, 0, len(d.breakGaps))
	r := 0
	rounds = append(rounds, Round(0))
	for _, g := range d.breakGaps[:len(d.breakGaps)-1] {
		r += g
		rounds = append(rounds, Round(r))
	}
	return rounds
}

// BreakPatterns returns the catalog: the cross product of BreakRounds and
// the two letters, home patterns first per round.
func (d *Domain) BreakPatterns() []BreakPattern {
	breakRounds := d.BreakRounds()
	patterns := make([]BreakPattern, 0, 2*len(breakRounds))
	for _, r := range breakRounds {
		patterns = append(patterns, BreakPattern{Round: r, Letter: Home}, BreakPattern{Round: r, Letter: Away})
	}
	return patterns
}

// Pattern expands a break pattern into its full home/away string of length
// n-1. The base motif is cyclic: two copies of the break letter, one copy of
// the other letter, then the break/other pair repeated n-4 times (length
// 2n-5). The motif is rotated right by breakRound-1 positions and truncated
// to n-1 letters. The off-by-one rotation places the double letter on rounds
// breakRound-1 and breakRound and must not be "fixed".
func (d *Domain) Pattern(p BreakPattern) string {
	other := p.Letter.Other()

	base := make([]byte, 0, 3+2*max(d.n-4, 0))
	base = append(base, byte(p.Letter), byte(p.Letter), byte(other))
	for k := 0; k < d.n-4; k++ {
		base = append(base, byte(p.Letter), byte(other))
	}

	shift := int(p.Round) - 1
	out := make([]byte, d.n-1)
	m := len(base)
	for i := range out {
		out[i] = base[((i-shift)%m+m)%m]
	}
	return string(out)
}

// PlaysHome reports whether a team holding pattern p hosts in round r.
func (d *Domain) PlaysHome(p BreakPattern, r Round) bool {
	return d.Pattern(p)[r] == byte(Home)
}

// TightOrderBreakPatterns assigns one break pattern per team without any
// optimization: it walks the break rounds twice against the gap deltas
// (0-prefixed, gap sequence repeated), flipping the polarity whenever the
// delta is odd. The result is a canonical minimal-break assignment used to
// cross-check the catalog. It requires a gap sequence.
func (d *Domain) TightOrderBreakPatterns() ([]BreakPattern, error) {
	if d.breakGaps == nil {
		return nil, fmt.Errorf("tight-order assignment requires a break-gap sequence")
	}

	breakRounds := d.BreakRounds()
	deltas := make([]int, 0, 2*len(d.breakGaps)+1)
	deltas = append(deltas, 0)
	deltas = append(deltas, d.breakGaps...)
	deltas = append(deltas, d.breakGaps...)

	letter := Home
	patterns := make([]BreakPattern, 0, 2*len(breakRounds))
	for k := 0; k < 2*len(breakRounds); k++ {
		if deltas[k]%2 == 1 {
			letter = letter.Other()
		}
		patterns = append(patterns, BreakPattern{Round: breakRounds[k%len(breakRounds)], Letter: letter})
	}
	return patterns, nil
}
