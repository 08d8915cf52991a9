// Package mip is a thin model-building layer over GLPK. It numbers columns
// and rows, maps GLPK termination states onto distinct statuses, and adds
// solution pooling, which GLPK lacks natively, through no-good cuts over the
// binary support of each incumbent.
package mip

import (
	"fmt"
	"time"

	"github.com/lukpank/go-glpk/glpk"
	"go.uber.org/zap"
)

// Status is the terminal outcome of a solve. Infeasible and Unbounded are
// meaningful results, not failures, and must never be collapsed into "no
// assignment".
type Status int

const (
	// Undefined means the solver terminated without classifying the model.
	Undefined Status = iota
	// Optimal means a provably optimal assignment was found.
	Optimal
	// Feasible means the solver stopped early with an incumbent but no
	// optimality proof.
	Feasible
	// Infeasible means the constraints admit no assignment.
	Infeasible
	// Unbounded means the objective can decrease without limit.
	Unbounded
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	default:
		return "undefined"
	}
}

// Solved reports whether a variable assignment is available.
func (s Status) Solved() bool {
	return s == Optimal || s == Feasible
}

// ConstraintKind selects the row bound form.
type ConstraintKind int

const (
	Equal ConstraintKind = iota
	AtMost
	AtLeast
)

// Term is one coefficient of a linear row.
type Term struct {
	Col  int
	Coef float64
}

// Model is a minimize-objective MIP under construction. Not safe for
// concurrent use; build fully, then solve.
type Model struct {
	lp       *glpk.Prob
	logger   *zap.Logger
	cols     int
	rows     int
	binaries []int
	solved   bool
}

// NewModel creates an empty minimization model.
func NewModel(name string, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	lp := glpk.New()
	lp.SetProbName(name)
	lp.SetObjDir(glpk.ObjDir(glpk.MIN))

	return &Model{lp: lp, logger: logger}
}

// Close releases the underlying GLPK problem.
func (m *Model) Close() {
	m.lp.Delete()
}

// AddBinary adds a 0/1 column with the given objective coefficient and
// returns its column index.
func (m *Model) AddBinary(name string, obj float64) int {
	m.cols++
	m.lp.AddCols(1)
	m.lp.SetColName(m.cols, name)
	m.lp.SetColKind(m.cols, glpk.VarType(glpk.BV))
	m.lp.SetObjCoef(m.cols, obj)
	m.binaries = append(m.binaries, m.cols)
	return m.cols
}

// AddContinuous adds a continuous column bounded below by lb with the given
// objective coefficient and returns its column index.
func (m *Model) AddContinuous(name string, lb, obj float64) int {
	m.cols++
	m.lp.AddCols(1)
	m.lp.SetColName(m.cols, name)
	m.lp.SetColKind(m.cols, glpk.VarType(glpk.CV))
	m.lp.SetColBnds(m.cols, glpk.BndsType(glpk.LO), lb, 0.0)
	m.lp.SetObjCoef(m.cols, obj)
	return m.cols
}

// AddConstraint adds a linear row of the given kind against rhs.
func (m *Model) AddConstraint(name string, kind ConstraintKind, rhs float64, terms []Term) {
	m.rows++
	m.lp.AddRows(1)
	m.lp.SetRowName(m.rows, name)

	switch kind {
	case Equal:
		m.lp.SetRowBnds(m.rows, glpk.BndsType(glpk.FX), rhs, rhs)
	case AtMost:
		m.lp.SetRowBnds(m.rows, glpk.BndsType(glpk.UP), 0.0, rhs)
	case AtLeast:
		m.lp.SetRowBnds(m.rows, glpk.BndsType(glpk.LO), rhs, 0.0)
	}

	ind := make([]int32, len(terms))
	val := make([]float64, len(terms))
	for k, t := range terms {
		ind[k] = int32(t.Col)
		val[k] = t.Coef
	}
	m.lp.SetMatRow(m.rows, ind, val)
}

// Cols returns the number of columns added so far.
func (m *Model) Cols() int { return m.cols }

// Rows returns the number of rows added so far.
func (m *Model) Rows() int { return m.rows }

// SetTimeLimit records the caller's time budget. The go-glpk wrapper does
// not expose GLPK's tm_lim, so a non-zero limit only produces a warning; the
// solver runs to completion.
func (m *Model) SetTimeLimit(d time.Duration) {
	if d > 0 {
		m.logger.Warn("solver time limit is not supported by the GLPK wrapper; solving to completion",
			zap.Duration("requested", d))
	}
}

// Solve runs the LP relaxation and then branch-and-cut, mapping the GLPK
// termination state to a Status. An error is returned only for solver
// failures, never for infeasible or unbounded models.
func (m *Model) Solve() (Status, error) {
	smcp := glpk.NewSmcp()
	smcp.SetMsgLev(glpk.MsgLev(glpk.MSG_ERR))
	if err := m.lp.Simplex(smcp); err != nil {
		return Undefined, fmt.Errorf("simplex failed: %w", err)
	}

	switch m.lp.Status() {
	case glpk.NOFEAS, glpk.INFEAS:
		return Infeasible, nil
	case glpk.UNBND:
		return Unbounded, nil
	}

	iocp := glpk.NewIocp()
	iocp.SetMsgLev(glpk.MsgLev(glpk.MSG_ERR))
	if err := m.lp.Intopt(iocp); err != nil {
		return Undefined, fmt.Errorf("branch-and-cut failed: %w", err)
	}

	var status Status
	switch m.lp.MipStatus() {
	case glpk.OPT:
		status = Optimal
	case glpk.FEAS:
		status = Feasible
	case glpk.NOFEAS:
		status = Infeasible
	case glpk.UNBND:
		status = Unbounded
	default:
		status = Undefined
	}

	m.solved = status.Solved()
	m.logger.Debug("solve finished",
		zap.Stringer("status", status),
		zap.Int("cols", m.cols),
		zap.Int("rows", m.rows))
	return status, nil
}

// Value returns the solved value of a column. Only meaningful after a solve
// with a Solved status.
func (m *Model) Value(col int) float64 {
	return m.lp.MipColVal(col)
}

// ObjectiveValue returns the solved objective.
func (m *Model) ObjectiveValue() float64 {
	return m.lp.MipObjVal()
}
