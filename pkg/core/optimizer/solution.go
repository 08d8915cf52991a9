package optimizer

import (
	"github.com/google/uuid"

	"github.com/jakechorley/fairsched/pkg/core/fairness"
	"github.com/jakechorley/fairsched/pkg/core/srr"
	"github.com/jakechorley/fairsched/pkg/mip"
)

// Solution is the read-only view over a finished solve. Assignment fields
// are populated only when Status.Solved() holds; an infeasible or unbounded
// run carries the status and nothing else.
type Solution struct {
	RunID     uuid.UUID
	Status    mip.Status
	Objective float64

	// Rounds lists the scheduled matches per round.
	Rounds [][]srr.Match

	// BreakAssignments maps each team to its assigned break pattern.
	BreakAssignments map[srr.Team]srr.BreakPattern

	// RankingHaps holds each team's solved home/away outcomes against
	// ranking-ordered opponents, and FValues their fairness scores.
	RankingHaps []fairness.RankingHap
	FValues     []float64

	homeAgainst  map[[2]srr.Team]bool
	meetingRound map[[2]srr.Team]srr.Round
}

// PlaysHomeAgainst reports whether i hosts j in the solved schedule.
func (s *Solution) PlaysHomeAgainst(i, j srr.Team) bool {
	return s.homeAgainst[[2]srr.Team{i, j}]
}

// MeetingRound returns the round in which i and j meet.
func (s *Solution) MeetingRound(i, j srr.Team) (srr.Round, bool) {
	if i > j {
		i, j = j, i
	}
	r, ok := s.meetingRound[[2]srr.Team{i, j}]
	return r, ok
}

// MeanFValue averages the per-team F-values.
func (s *Solution) MeanFValue() float64 {
	if len(s.FValues) == 0 {
		return 0
	}
	sum := 0.0
	for _, f := range s.FValues {
		sum += f
	}
	return sum / float64(len(s.FValues))
}
