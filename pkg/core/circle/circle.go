// Package circle generates a baseline single round-robin schedule with the
// circle method. The schedules are equivalent to Berger tables.
package circle

import (
	"fmt"

	"github.com/jakechorley/fairsched/pkg/core/srr"
)

// CircleMethod builds an n-team single round-robin of n-1 rounds. Team n-1
// sits in the center of the circle; the others rotate around it. On even
// rounds the team at the front of the rotation hosts the center team, on odd
// rounds the center team hosts. The remaining matches pair the rest of the
// left half against the reversed right half, left side at home.
func CircleMethod(n int) ([][]srr.Match, error) {
	if n <= 0 {
		return nil, fmt.Errorf("number of teams must be positive, got %d", n)
	}
	if n%2 != 0 {
		return nil, fmt.Errorf("number of teams must be even, got %d", n)
	}

	hub := srr.Team(n - 1)
	seq := make([]srr.Team, n-1)
	for i := range seq {
		seq[i] = srr.Team(i)
	}

	rounds := make([][]srr.Match, 0, n-1)
	for r := 0; r < n-1; r++ {
		left, right := seq[:n/2], seq[n/2:]

		matches := make([]srr.Match, 0, n/2)
		if r%2 == 0 {
			matches = append(matches, srr.Match{Home: seq[0], Away: hub})
		} else {
			matches = append(matches, srr.Match{Home: hub, Away: seq[0]})
		}
		for i := 1; i < len(left); i++ {
			matches = append(matches, srr.Match{Home: left[i], Away: right[len(right)-i]})
		}
		rounds = append(rounds, matches)

		next := make([]srr.Team, 0, n-1)
		next = append(next, right...)
		next = append(next, left...)
		seq = next
	}

	return rounds, nil
}
