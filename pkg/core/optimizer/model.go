// Package optimizer formulates fair single round-robin construction as a
// mixed-integer program: match/home indicators per ordered pair and round,
// break-pattern assignment indicators, and interval-deviation variables tied
// together so that every team's home/away facts obey its assigned break
// pattern while the interval deviation is minimized.
package optimizer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/fairsched/pkg/core/fairness"
	"github.com/jakechorley/fairsched/pkg/core/srr"
	"github.com/jakechorley/fairsched/pkg/mip"
)

// Mode selects the objective.
type Mode int

const (
	// Total minimizes the sum of all interval deviations.
	Total Mode = iota
	// Bandwidth minimizes the spread (max - min) of per-team deviation
	// sums, trading aggregate fairness for worst-case equity.
	Bandwidth
)

// ParseMode parses a mode name from configuration.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "total":
		return Total, nil
	case "bandwidth":
		return Bandwidth, nil
	default:
		return Total, fmt.Errorf("unknown objective mode %q", s)
	}
}

// Config describes one optimization run.
type Config struct {
	// Domain is the SRR instance to schedule.
	Domain *srr.Domain

	// RankingHaps optionally forces each team's home/away outcomes
	// against ranking-ordered opponents to the supplied catalog. A
	// contradictory catalog surfaces as solver infeasibility, which is a
	// meaningful outcome for falsification experiments, not an error.
	RankingHaps []string

	// Mode selects the objective.
	Mode Mode

	// TimeLimit is handed to the solver layer untouched.
	TimeLimit time.Duration

	Logger *zap.Logger
}

type matchVar struct {
	i, j srr.Team
	r    srr.Round
}

type patternVar struct {
	i srr.Team
	p srr.BreakPattern
}

type intervalVar struct {
	p    srr.Team
	i, j int
}

// Model is a fully built optimization model. Build everything up front;
// Optimize only hands the finished model to the solver.
type Model struct {
	domain *srr.Domain
	mode   Mode
	logger *zap.Logger

	mip        *mip.Model
	x          map[matchVar]int
	b          map[patternVar]int
	z          map[intervalVar]int
	fMin, fMax int
}

// New validates the configuration and builds the complete variable and
// constraint set. Catalog shape errors fail here, before any solver
// interaction; catalog contradictions do not.
func New(cfg Config) (*Model, error) {
	if cfg.Domain == nil {
		return nil, fmt.Errorf("optimizer: domain is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	n := cfg.Domain.N()
	if cfg.RankingHaps != nil {
		if len(cfg.RankingHaps) != n {
			return nil, fmt.Errorf("ranking-HAP catalog must have %d entries, got %d", n, len(cfg.RankingHaps))
		}
		for i, hap := range cfg.RankingHaps {
			if len(hap) != n-1 {
				return nil, fmt.Errorf("ranking HAP for team %d must have length %d, got %d", i, n-1, len(hap))
			}
			if _, err := fairness.Parse(hap); err != nil {
				return nil, fmt.Errorf("ranking HAP for team %d: %w", i, err)
			}
		}
	}

	m := &Model{
		domain: cfg.Domain,
		mode:   cfg.Mode,
		logger: logger,
		mip:    mip.NewModel("fair-srr", logger),
		x:      make(map[matchVar]int),
		b:      make(map[patternVar]int),
		z:      make(map[intervalVar]int),
	}
	m.mip.SetTimeLimit(cfg.TimeLimit)
	m.build(cfg.RankingHaps)

	logger.Debug("model built",
		zap.Int("teams", n),
		zap.Int("cols", m.mip.Cols()),
		zap.Int("rows", m.mip.Rows()))
	return m, nil
}

func (m *Model) build(rankingHaps []string) {
	d := m.domain
	teams := d.Teams()
	rounds := d.Rounds()
	patterns := d.BreakPatterns()

	if m.mode == Bandwidth {
		m.fMin = m.mip.AddContinuous("f_min", 0, -1)
		m.fMax = m.mip.AddContinuous("f_max", 0, 1)
	}

	// x[i,j,r] == 1 iff i hosts j in round r.
	for _, i := range teams {
		for _, j := range teams {
			if i == j {
				continue
			}
			for _, r := range rounds {
				m.x[matchVar{i, j, r}] = m.mip.AddBinary(fmt.Sprintf("x[%d,%d,%d]", i, j, r), 0)
			}
		}
	}

	// b[i,p] == 1 iff team i is assigned break pattern p.
	for _, i := range teams {
		for _, p := range patterns {
			m.b[patternVar{i, p}] = m.mip.AddBinary(fmt.Sprintf("b[%d,(%d,%c)]", i, p.Round, p.Letter), 0)
		}
	}

	// Exactly one break pattern per team.
	for _, i := range teams {
		terms := make([]mip.Term, 0, len(patterns))
		for _, p := range patterns {
			terms = append(terms, mip.Term{Col: m.b[patternVar{i, p}], Coef: 1})
		}
		m.mip.AddConstraint(fmt.Sprintf("one_pattern[%d]", i), mip.Equal, 1, terms)
	}

	// Every unordered pair meets exactly once across all rounds.
	for _, i := range teams {
		for _, j := range teams {
			if i >= j {
				continue
			}
			terms := make([]mip.Term, 0, 2*len(rounds))
			for _, r := range rounds {
				terms = append(terms,
					mip.Term{Col: m.x[matchVar{i, j, r}], Coef: 1},
					mip.Term{Col: m.x[matchVar{j, i, r}], Coef: 1})
			}
			m.mip.AddConstraint(fmt.Sprintf("meet_once[%d,%d]", i, j), mip.Equal, 1, terms)
		}
	}

	// Every team plays exactly once per round.
	for _, i := range teams {
		for _, r := range rounds {
			terms := make([]mip.Term, 0, 2*(len(teams)-1))
			for _, j := range d.Opponents(i) {
				terms = append(terms,
					mip.Term{Col: m.x[matchVar{i, j, r}], Coef: 1},
					mip.Term{Col: m.x[matchVar{j, i, r}], Coef: 1})
			}
			m.mip.AddConstraint(fmt.Sprintf("one_match[%d,%d]", i, r), mip.Equal, 1, terms)
		}
	}

	// A team's per-round home count must equal what its assigned break
	// pattern dictates for that round.
	for _, i := range teams {
		for _, r := range rounds {
			var terms []mip.Term
			for _, j := range d.Opponents(i) {
				terms = append(terms, mip.Term{Col: m.x[matchVar{i, j, r}], Coef: 1})
			}
			for _, p := range patterns {
				if d.PlaysHome(p, r) {
					terms = append(terms, mip.Term{Col: m.b[patternVar{i, p}], Coef: -1})
				}
			}
			m.mip.AddConstraint(fmt.Sprintf("pattern_home[%d,%d]", i, r), mip.Equal, 0, terms)
		}
	}

	m.buildDeviation()

	// Forcing an external catalog: each team's outcome against each
	// ranking-ordered opponent equals the supplied letter.
	if rankingHaps != nil {
		for idx, hap := range rankingHaps {
			i := teams[idx]
			for k, j := range d.Opponents(i) {
				terms := make([]mip.Term, 0, len(rounds))
				for _, r := range rounds {
					terms = append(terms, mip.Term{Col: m.x[matchVar{i, j, r}], Coef: 1})
				}
				rhs := 0.0
				if hap[k] == byte(srr.Home) {
					rhs = 1
				}
				m.mip.AddConstraint(fmt.Sprintf("catalog[%d,%d]", i, j), mip.Equal, rhs, terms)
			}
		}
	}
}

// buildDeviation models the interval deviation z[p,i,j] = |2*H(p,i,j) -
// (j-i)| over every index-ordered opponent sub-interval [i, j) of length at
// least two, where H(p,i,j) counts p's home matches against those opponents.
func (m *Model) buildDeviation() {
	d := m.domain
	n := d.N()
	rounds := d.Rounds()

	for _, p := range d.Teams() {
		opps := d.Opponents(p)

		for i := 0; i < n; i++ {
			for j := i + 2; j < n; j++ {
				obj := 0.0
				if m.mode == Total {
					obj = 1
				}
				zCol := m.mip.AddContinuous(fmt.Sprintf("z[%d,%d,%d]", p, i, j), 0, obj)
				m.z[intervalVar{p, i, j}] = zCol

				// 2*H(p,i,j) as terms with coefficient 2.
				homeTerms := func(coef float64) []mip.Term {
					terms := make([]mip.Term, 0, (j-i)*len(rounds)+2)
					for _, q := range opps[i:j] {
						for _, r := range rounds {
							terms = append(terms, mip.Term{Col: m.x[matchVar{p, q, r}], Coef: coef})
						}
					}
					return terms
				}
				length := float64(j - i)

				if m.mode == Total {
					// z >= diff and z >= -diff, tight at the
					// minimum because the objective sums the
					// non-negative z.
					terms := append(homeTerms(-2), mip.Term{Col: zCol, Coef: 1})
					m.mip.AddConstraint(fmt.Sprintf("dev_pos[%d,%d,%d]", p, i, j), mip.AtLeast, -length, terms)
					terms = append(homeTerms(2), mip.Term{Col: zCol, Coef: 1})
					m.mip.AddConstraint(fmt.Sprintf("dev_neg[%d,%d,%d]", p, i, j), mip.AtLeast, length, terms)
					continue
				}

				// Bandwidth: z is pinned to exactly +diff (sign=1)
				// or -diff (sign=0). GLPK has no indicator rows, so
				// the conditional equalities become four big-M
				// inequalities; deviations are bounded by the
				// interval length, so M = 2*(j-i) suffices.
				sign := m.mip.AddBinary(fmt.Sprintf("z_sign[%d,%d,%d]", p, i, j), 0)
				bigM := 2 * length

				terms := append(homeTerms(-2),
					mip.Term{Col: zCol, Coef: 1},
					mip.Term{Col: sign, Coef: bigM})
				m.mip.AddConstraint(fmt.Sprintf("pin_pos_ub[%d,%d,%d]", p, i, j), mip.AtMost, bigM-length, terms)

				terms = append(homeTerms(2),
					mip.Term{Col: zCol, Coef: -1},
					mip.Term{Col: sign, Coef: bigM})
				m.mip.AddConstraint(fmt.Sprintf("pin_pos_lb[%d,%d,%d]", p, i, j), mip.AtMost, bigM+length, terms)

				terms = append(homeTerms(2),
					mip.Term{Col: zCol, Coef: 1},
					mip.Term{Col: sign, Coef: -bigM})
				m.mip.AddConstraint(fmt.Sprintf("pin_neg_ub[%d,%d,%d]", p, i, j), mip.AtMost, length, terms)

				terms = append(homeTerms(2),
					mip.Term{Col: zCol, Coef: 1},
					mip.Term{Col: sign, Coef: bigM})
				m.mip.AddConstraint(fmt.Sprintf("pin_neg_lb[%d,%d,%d]", p, i, j), mip.AtLeast, length, terms)
			}
		}

		// Bandwidth: every team's deviation sum lies in [f_min, f_max].
		if m.mode == Bandwidth {
			sumTerms := func(extra mip.Term) []mip.Term {
				terms := []mip.Term{extra}
				for i := 0; i < n; i++ {
					for j := i + 2; j < n; j++ {
						terms = append(terms, mip.Term{Col: m.z[intervalVar{p, i, j}], Coef: 1})
					}
				}
				return terms
			}
			m.mip.AddConstraint(fmt.Sprintf("band_max[%d]", p), mip.AtMost, 0,
				sumTerms(mip.Term{Col: m.fMax, Coef: -1}))
			m.mip.AddConstraint(fmt.Sprintf("band_min[%d]", p), mip.AtLeast, 0,
				sumTerms(mip.Term{Col: m.fMin, Coef: -1}))
		}
	}
}

// Optimize hands the model to the solver and extracts the read-only
// solution. The solver status propagates unchanged; only a Solved status
// carries an assignment.
func (m *Model) Optimize() (*Solution, error) {
	defer m.mip.Close()

	runID := uuid.New()
	m.logger.Info("optimizing",
		zap.String("run_id", runID.String()),
		zap.Int("teams", m.domain.N()))

	status, err := m.mip.Solve()
	if err != nil {
		return nil, fmt.Errorf("optimize run %s: %w", runID, err)
	}

	sol := &Solution{RunID: runID, Status: status}
	if !status.Solved() {
		m.logger.Info("no assignment", zap.String("run_id", runID.String()), zap.Stringer("status", status))
		return sol, nil
	}

	sol.Objective = m.mip.ObjectiveValue()
	m.extract(sol)

	m.logger.Info("solved",
		zap.String("run_id", runID.String()),
		zap.Stringer("status", status),
		zap.Float64("objective", sol.Objective),
		zap.Float64("mean_f_value", sol.MeanFValue()))
	return sol, nil
}

func (m *Model) extract(sol *Solution) {
	d := m.domain
	teams := d.Teams()

	sol.Rounds = make([][]srr.Match, 0, d.N()-1)
	sol.homeAgainst = make(map[[2]srr.Team]bool)
	sol.meetingRound = make(map[[2]srr.Team]srr.Round)
	for _, r := range d.Rounds() {
		matches := make([]srr.Match, 0, d.N()/2)
		for _, i := range teams {
			for _, j := range teams {
				if i >= j {
					continue
				}
				if m.mip.Value(m.x[matchVar{i, j, r}]) > 0.5 {
					matches = append(matches, srr.Match{Home: i, Away: j})
					sol.homeAgainst[[2]srr.Team{i, j}] = true
					sol.meetingRound[[2]srr.Team{i, j}] = r
				} else if m.mip.Value(m.x[matchVar{j, i, r}]) > 0.5 {
					matches = append(matches, srr.Match{Home: j, Away: i})
					sol.homeAgainst[[2]srr.Team{j, i}] = true
					sol.meetingRound[[2]srr.Team{i, j}] = r
				}
			}
		}
		sol.Rounds = append(sol.Rounds, matches)
	}

	sol.BreakAssignments = make(map[srr.Team]srr.BreakPattern, d.N())
	for _, i := range teams {
		for _, p := range d.BreakPatterns() {
			if m.mip.Value(m.b[patternVar{i, p}]) > 0.5 {
				sol.BreakAssignments[i] = p
				break
			}
		}
	}

	sol.RankingHaps = make([]fairness.RankingHap, 0, d.N())
	sol.FValues = make([]float64, 0, d.N())
	for _, i := range teams {
		hap := make([]byte, 0, d.N()-1)
		for _, j := range d.Opponents(i) {
			if sol.homeAgainst[[2]srr.Team{i, j}] {
				hap = append(hap, byte(srr.Home))
			} else {
				hap = append(hap, byte(srr.Away))
			}
		}
		h := fairness.RankingHap(hap)
		sol.RankingHaps = append(sol.RankingHaps, h)
		sol.FValues = append(sol.FValues, h.FValue())
	}
}
