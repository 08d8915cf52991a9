// Package hapsearch enumerates complete ranking-HAP catalogs: it assigns one
// home/away string out of all 2^(n-1) possibilities to every team, subject
// to pairwise consistency, and minimizes the mean F-value. It characterizes
// what fairness is achievable at all, independently of schedule
// construction.
package hapsearch

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/fairsched/pkg/core/fairness"
	"github.com/jakechorley/fairsched/pkg/mip"
)

// defaultTolerance is used for F-value comparisons when the caller supplies
// none. Documented F-value constants must never be matched exactly.
const defaultTolerance = 1e-9

// Config describes one search.
type Config struct {
	// N is the number of teams (positive and even).
	N int

	// TargetF and TargetCount, when TargetCount is positive, pin how many
	// teams must realize a catalog whose F-value equals TargetF within
	// Tolerance.
	TargetF     float64
	TargetCount int

	// Tolerance for F-value comparisons; defaults to 1e-9.
	Tolerance float64

	// TimeLimit is handed to the solver layer untouched.
	TimeLimit time.Duration

	Logger *zap.Logger
}

// Result holds the optimal mean F-value and, through zero-gap pooling, every
// catalog assignment attaining it. Assignments[k][i] is team i's catalog in
// the k-th solution.
type Result struct {
	Status      mip.Status
	MeanFValue  float64
	Assignments [][]fairness.RankingHap
}

type hapVar struct {
	team int
	hap  int
}

// Model is a fully built search model.
type Model struct {
	n      int
	haps   []fairness.RankingHap
	x      map[hapVar]int
	byCol  map[int]hapVar
	mip    *mip.Model
	logger *zap.Logger
}

// New validates the configuration and builds the complete model. The
// variable count is n * 2^(n-1); this is an offline characterization tool,
// not a scheduler.
func New(cfg Config) (*Model, error) {
	if cfg.N <= 0 {
		return nil, fmt.Errorf("number of teams must be positive, got %d", cfg.N)
	}
	if cfg.N%2 != 0 {
		return nil, fmt.Errorf("number of teams must be even, got %d", cfg.N)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tol := cfg.Tolerance
	if tol == 0 {
		tol = defaultTolerance
	}

	m := &Model{
		n:      cfg.N,
		haps:   allHaps(cfg.N - 1),
		x:      make(map[hapVar]int),
		byCol:  make(map[int]hapVar),
		mip:    mip.NewModel("smallest-f", logger),
		logger: logger,
	}
	m.mip.SetTimeLimit(cfg.TimeLimit)
	m.build(cfg.TargetF, cfg.TargetCount, tol)

	logger.Debug("search model built",
		zap.Int("teams", cfg.N),
		zap.Int("catalogs", len(m.haps)),
		zap.Int("cols", m.mip.Cols()),
		zap.Int("rows", m.mip.Rows()))
	return m, nil
}

// allHaps enumerates every home/away string of the given length.
func allHaps(length int) []fairness.RankingHap {
	haps := make([]fairness.RankingHap, 0, 1<<length)
	for mask := 0; mask < 1<<length; mask++ {
		b := make([]byte, length)
		for k := 0; k < length; k++ {
			if mask&(1<<k) != 0 {
				b[k] = 'H'
			} else {
				b[k] = 'A'
			}
		}
		haps = append(haps, fairness.RankingHap(b))
	}
	return haps
}

func (m *Model) build(targetF float64, targetCount int, tol float64) {
	// x[i,h] == 1 iff team i realizes catalog h; the objective already
	// carries each catalog's contribution to the mean F-value.
	for i := 0; i < m.n; i++ {
		for h, hap := range m.haps {
			col := m.mip.AddBinary(fmt.Sprintf("x[%d,%d]", i, h), hap.FValue()/float64(m.n))
			key := hapVar{team: i, hap: h}
			m.x[key] = col
			m.byCol[col] = key
		}
	}

	// One catalog per team.
	for i := 0; i < m.n; i++ {
		terms := make([]mip.Term, 0, len(m.haps))
		for h := range m.haps {
			terms = append(terms, mip.Term{Col: m.x[hapVar{i, h}], Coef: 1})
		}
		m.mip.AddConstraint(fmt.Sprintf("one_catalog[%d]", i), mip.Equal, 1, terms)
	}

	// Pairwise consistency: for i < j, team i claims home against j
	// exactly when team j claims away against i. Opponent j sits at slot
	// j-1 of i's catalog and i at slot i of j's.
	for i := 0; i < m.n; i++ {
		for j := i + 1; j < m.n; j++ {
			var terms []mip.Term
			for h, hap := range m.haps {
				if hap[j-1] == 'H' {
					terms = append(terms, mip.Term{Col: m.x[hapVar{i, h}], Coef: 1})
				}
			}
			for h, hap := range m.haps {
				if hap[i] == 'A' {
					terms = append(terms, mip.Term{Col: m.x[hapVar{j, h}], Coef: -1})
				}
			}
			m.mip.AddConstraint(fmt.Sprintf("consistent[%d,%d]", i, j), mip.Equal, 0, terms)
		}
	}

	// Cardinality pin on the target F-value.
	if targetCount > 0 {
		var terms []mip.Term
		for i := 0; i < m.n; i++ {
			for h, hap := range m.haps {
				if math.Abs(hap.FValue()-targetF) <= tol {
					terms = append(terms, mip.Term{Col: m.x[hapVar{i, h}], Coef: 1})
				}
			}
		}
		m.mip.AddConstraint("target_cardinality", mip.Equal, float64(targetCount), terms)
	}
}

// Search pools every assignment within zero optimality gap of the minimal
// mean F-value. The status of the first solve propagates unchanged when no
// assignment exists.
func (m *Model) Search() (*Result, error) {
	defer m.mip.Close()

	pool, status, err := m.mip.SolveAll(0)
	if err != nil {
		return nil, fmt.Errorf("hap search: %w", err)
	}

	res := &Result{Status: status}
	if len(pool) == 0 {
		m.logger.Info("no catalog assignment", zap.Stringer("status", status))
		return res, nil
	}

	res.MeanFValue = pool[0].Objective
	for _, sol := range pool {
		assignment := make([]fairness.RankingHap, m.n)
		for col := range sol.Support {
			key := m.byCol[col]
			assignment[key.team] = m.haps[key.hap]
		}
		res.Assignments = append(res.Assignments, assignment)
	}

	m.logger.Info("search finished",
		zap.Float64("mean_f_value", res.MeanFValue),
		zap.Int("assignments", len(res.Assignments)))
	return res, nil
}
