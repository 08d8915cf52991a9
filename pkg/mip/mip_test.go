package mip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Strings(t *testing.T) {
	assert.Equal(t, "optimal", Optimal.String())
	assert.Equal(t, "feasible", Feasible.String())
	assert.Equal(t, "infeasible", Infeasible.String())
	assert.Equal(t, "unbounded", Unbounded.String())
	assert.Equal(t, "undefined", Undefined.String())

	assert.True(t, Optimal.Solved())
	assert.True(t, Feasible.Solved())
	assert.False(t, Infeasible.Solved())
	assert.False(t, Unbounded.Solved())
	assert.False(t, Undefined.Solved())
}

func TestSolve_Optimal(t *testing.T) {
	m := NewModel("pick-cheaper", nil)
	defer m.Close()

	x := m.AddBinary("x", 2)
	y := m.AddBinary("y", 1)
	m.AddConstraint("pick_one", Equal, 1, []Term{{Col: x, Coef: 1}, {Col: y, Coef: 1}})

	status, err := m.Solve()
	require.NoError(t, err)
	assert.Equal(t, Optimal, status)
	assert.InDelta(t, 1.0, m.ObjectiveValue(), 1e-9)
	assert.InDelta(t, 0.0, m.Value(x), 1e-9)
	assert.InDelta(t, 1.0, m.Value(y), 1e-9)
}

func TestSolve_Infeasible(t *testing.T) {
	m := NewModel("too-many", nil)
	defer m.Close()

	x := m.AddBinary("x", 0)
	y := m.AddBinary("y", 0)
	m.AddConstraint("impossible", Equal, 3, []Term{{Col: x, Coef: 1}, {Col: y, Coef: 1}})

	status, err := m.Solve()
	require.NoError(t, err)
	assert.Equal(t, Infeasible, status)
}

func TestSolve_Unbounded(t *testing.T) {
	m := NewModel("runaway", nil)
	defer m.Close()

	z := m.AddContinuous("z", 0, -1)
	m.AddConstraint("floor", AtLeast, 1, []Term{{Col: z, Coef: 1}})

	status, err := m.Solve()
	require.NoError(t, err)
	assert.Equal(t, Unbounded, status)
}

func TestSolve_ConstraintKinds(t *testing.T) {
	m := NewModel("kinds", nil)
	defer m.Close()

	// min x + y with x >= 2, y <= 5, x + y = 4 over continuous columns.
	x := m.AddContinuous("x", 0, 1)
	y := m.AddContinuous("y", 0, 1)
	m.AddConstraint("x_floor", AtLeast, 2, []Term{{Col: x, Coef: 1}})
	m.AddConstraint("y_cap", AtMost, 5, []Term{{Col: y, Coef: 1}})
	m.AddConstraint("total", Equal, 4, []Term{{Col: x, Coef: 1}, {Col: y, Coef: 1}})

	status, err := m.Solve()
	require.NoError(t, err)
	assert.Equal(t, Optimal, status)
	assert.InDelta(t, 4.0, m.ObjectiveValue(), 1e-9)
}

func TestSolveAll_EnumeratesTies(t *testing.T) {
	m := NewModel("ties", nil)
	defer m.Close()

	// Two symmetric optima: exactly one of x, y at equal cost.
	x := m.AddBinary("x", 1)
	y := m.AddBinary("y", 1)
	m.AddConstraint("pick_one", Equal, 1, []Term{{Col: x, Coef: 1}, {Col: y, Coef: 1}})

	pool, status, err := m.SolveAll(0)
	require.NoError(t, err)
	assert.Equal(t, Optimal, status)
	require.Len(t, pool, 2)

	assert.InDelta(t, 1.0, pool[0].Objective, 1e-9)
	assert.InDelta(t, 1.0, pool[1].Objective, 1e-9)
	assert.NotEqual(t, pool[0].Support, pool[1].Support)
}

func TestSolveAll_GapExcludesWorseSolutions(t *testing.T) {
	m := NewModel("gap", nil)
	defer m.Close()

	// x costs 1, y costs 2: with zero gap only x's solution pools.
	x := m.AddBinary("x", 1)
	y := m.AddBinary("y", 2)
	m.AddConstraint("pick_one", Equal, 1, []Term{{Col: x, Coef: 1}, {Col: y, Coef: 1}})

	pool, status, err := m.SolveAll(0)
	require.NoError(t, err)
	assert.Equal(t, Optimal, status)
	require.Len(t, pool, 1)
	assert.True(t, pool[0].Support[x])
}

func TestSolveAll_InfeasibleModel(t *testing.T) {
	m := NewModel("nothing", nil)
	defer m.Close()

	x := m.AddBinary("x", 0)
	m.AddConstraint("impossible", Equal, 2, []Term{{Col: x, Coef: 1}})

	pool, status, err := m.SolveAll(0)
	require.NoError(t, err)
	assert.Equal(t, Infeasible, status)
	assert.Empty(t, pool)
}
