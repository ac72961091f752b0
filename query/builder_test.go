package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderSelectionOnly(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	assert.Equal(t, StateAwaitingSelection, b.State())

	require.NoError(t, b.Select(MethodGet))
	f, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, Selection{Method: MethodGet}, f.Selection)
	assert.Nil(t, f.Criteria)
	assert.Nil(t, f.Order)
	assert.Equal(t, StateBuilt, b.State())
}

func TestBuilderCriteria(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	require.NoError(t, b.Select(MethodFind))
	require.NoError(t, b.Condition("name", false, OpAfter, Arguments("n")...))
	require.NoError(t, b.Or())
	require.NoError(t, b.Condition("age", false, OpBefore, Arguments("a")...))
	require.NoError(t, b.And())
	require.NoError(t, b.Condition("married", false, OpTrue))
	f, err := b.Build()
	require.NoError(t, err)

	c, ok := f.Criteria.(*Compound)
	require.True(t, ok)
	assert.Equal(t, "name", c.First.(*Condition).Property)
	require.Len(t, c.Rest, 2)
	assert.Equal(t, Or, c.Rest[0].Operator)
	assert.Equal(t, "age", c.Rest[0].Expression.(*Condition).Property)
	assert.Equal(t, And, c.Rest[1].Operator)
	assert.Equal(t, OpTrue, c.Rest[1].Expression.(*Condition).Operator)
	assert.Equal(t, "FIND BY (name AFTER :n OR age BEFORE :a AND married TRUE)", f.String())
}

func TestBuilderSingleConditionIsNotCompound(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	require.NoError(t, b.Select(MethodGet))
	require.NoError(t, b.Condition("name", false, OpEquals, Arguments("n")...))
	f, err := b.Build()
	require.NoError(t, err)

	_, ok := f.Criteria.(*Condition)
	assert.True(t, ok)
}

func TestBuilderProjection(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	require.NoError(t, b.Select(MethodFind))
	require.NoError(t, b.Project(ProjectionMax))
	require.NoError(t, b.ProjectOn("age"))
	require.NoError(t, b.OrderBy("name", Desc))
	require.NoError(t, b.OrderBy("age", Asc))
	f, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, Selection{Method: MethodFind, Projection: ProjectionMax, Property: "age"}, f.Selection)
	require.NotNil(t, f.Order)
	assert.Equal(t, []OrderRule{{"name", Desc}, {"age", Asc}}, f.Order.Rules)
}

func TestBuilderTop(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	require.NoError(t, b.Select(MethodGet))
	assert.ErrorIs(t, b.Top(0), ErrInvalidTop)
	assert.ErrorIs(t, b.Top(-4), ErrInvalidTop)
	require.NoError(t, b.Top(123))
	assert.ErrorIs(t, b.ProjectOn("age"), ErrIllegalState)

	f, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "GET TOP(123)", f.Selection.String())
}

func TestBuilderIllegalCalls(t *testing.T) {
	t.Parallel()
	cond, err := NewCondition("name", false, OpNull)
	require.NoError(t, err)

	tests := []struct {
		name  string
		setup func(b *Builder) error
		call  func(b *Builder) error
	}{
		{
			name:  "build before select",
			setup: func(*Builder) error { return nil },
			call:  func(b *Builder) error { _, err := b.Build(); return err },
		},
		{
			name:  "where before select",
			setup: func(*Builder) error { return nil },
			call:  func(b *Builder) error { return b.Where(cond) },
		},
		{
			name:  "select twice",
			setup: func(b *Builder) error { return b.Select(MethodGet) },
			call:  func(b *Builder) error { return b.Select(MethodFind) },
		},
		{
			name:  "and without condition",
			setup: func(b *Builder) error { return b.Select(MethodGet) },
			call:  func(b *Builder) error { return b.And() },
		},
		{
			name: "build after dangling or",
			setup: func(b *Builder) error {
				if err := b.Select(MethodGet); err != nil {
					return err
				}
				if err := b.Where(cond); err != nil {
					return err
				}
				return b.Or()
			},
			call: func(b *Builder) error { _, err := b.Build(); return err },
		},
		{
			name: "order by after dangling and",
			setup: func(b *Builder) error {
				if err := b.Select(MethodGet); err != nil {
					return err
				}
				if err := b.Where(cond); err != nil {
					return err
				}
				return b.And()
			},
			call: func(b *Builder) error { return b.OrderBy("name", Asc) },
		},
		{
			name: "two conditions without join",
			setup: func(b *Builder) error {
				if err := b.Select(MethodGet); err != nil {
					return err
				}
				return b.Where(cond)
			},
			call: func(b *Builder) error { return b.Where(cond) },
		},
		{
			name: "condition after order",
			setup: func(b *Builder) error {
				if err := b.Select(MethodGet); err != nil {
					return err
				}
				return b.OrderBy("name", Asc)
			},
			call: func(b *Builder) error { return b.Where(cond) },
		},
		{
			name: "project after criteria",
			setup: func(b *Builder) error {
				if err := b.Select(MethodGet); err != nil {
					return err
				}
				return b.Where(cond)
			},
			call: func(b *Builder) error { return b.Project(ProjectionCount) },
		},
		{
			name: "projection property twice",
			setup: func(b *Builder) error {
				if err := b.Select(MethodGet); err != nil {
					return err
				}
				if err := b.Project(ProjectionSum); err != nil {
					return err
				}
				return b.ProjectOn("age")
			},
			call: func(b *Builder) error { return b.ProjectOn("size") },
		},
		{
			name:  "project top",
			setup: func(b *Builder) error { return b.Select(MethodGet) },
			call:  func(b *Builder) error { return b.Project(ProjectionTop) },
		},
		{
			name: "build twice",
			setup: func(b *Builder) error {
				if err := b.Select(MethodGet); err != nil {
					return err
				}
				_, err := b.Build()
				return err
			},
			call: func(b *Builder) error { _, err := b.Build(); return err },
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := NewBuilder()
			require.NoError(t, tt.setup(b))
			before := b.State()
			assert.ErrorIs(t, tt.call(b), ErrIllegalState)
			assert.Equal(t, before, b.State())
		})
	}
}

func TestBuilderArityError(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	require.NoError(t, b.Select(MethodFind))
	assert.ErrorIs(t, b.Condition("age", false, OpBetween, Arguments("a")...), ErrArity)
	assert.Equal(t, StateSelected, b.State())
}

func TestBuilderReset(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	require.NoError(t, b.Select(MethodFind))
	require.NoError(t, b.Condition("name", false, OpEquals, Arguments("n")...))
	require.NoError(t, b.And())
	require.NoError(t, b.Condition("age", false, OpEquals, Arguments("a")...))
	first, err := b.Build()
	require.NoError(t, err)

	b.Reset()
	assert.Equal(t, StateAwaitingSelection, b.State())
	require.NoError(t, b.Select(MethodGet))
	require.NoError(t, b.Condition("size", false, OpNull))
	require.NoError(t, b.Or())
	require.NoError(t, b.Condition("kind", false, OpEmpty))
	second, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "FIND BY (name EQUALS :n AND age EQUALS :a)", first.String())
	assert.Equal(t, "GET BY (size NULL OR kind EMPTY)", second.String())
}
