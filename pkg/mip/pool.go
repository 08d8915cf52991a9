package mip

import (
	"fmt"

	"go.uber.org/zap"
)

// poolTolerance absorbs floating-point noise when comparing objectives of
// pooled solutions.
const poolTolerance = 1e-9

// PoolSolution is one member of a solution pool: its objective value and the
// set of binary columns at one.
type PoolSolution struct {
	Objective float64
	Support   map[int]bool
}

// SolveAll enumerates solutions whose objective stays within gap of the
// optimum, in the order the solver finds them. After each incumbent a
// no-good cut excludes its binary support and the model is re-solved.
//
// The cut (sum of support columns <= |support|-1) identifies a solution by
// its support, which is exact for assignment-style models where packing
// constraints make the support determine every binary. Both models in this
// repository are of that form.
//
// The model is consumed: the added cuts stay in place.
func (m *Model) SolveAll(gap float64) ([]PoolSolution, Status, error) {
	var pool []PoolSolution
	best := 0.0

	for {
		status, err := m.Solve()
		if err != nil {
			return pool, status, err
		}
		if !status.Solved() {
			if len(pool) == 0 {
				// The very first solve classifies the model itself.
				return nil, status, nil
			}
			// Cuts exhausted the pool.
			return pool, Optimal, nil
		}

		obj := m.ObjectiveValue()
		if len(pool) == 0 {
			best = obj
		} else if obj > best+gap+poolTolerance {
			return pool, Optimal, nil
		}

		support := make(map[int]bool, len(m.binaries))
		terms := make([]Term, 0, len(m.binaries))
		for _, col := range m.binaries {
			if m.Value(col) > 0.5 {
				support[col] = true
				terms = append(terms, Term{Col: col, Coef: 1})
			}
		}
		pool = append(pool, PoolSolution{Objective: obj, Support: support})

		m.logger.Debug("pooled solution",
			zap.Int("index", len(pool)-1),
			zap.Float64("objective", obj))

		m.AddConstraint(fmt.Sprintf("nogood[%d]", len(pool)), AtMost, float64(len(terms)-1), terms)
	}
}
