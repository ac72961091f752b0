package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorArity(t *testing.T) {
	t.Parallel()
	require.Len(t, Operators, 18)

	arity := map[Operator]int{
		OpBetween: 2,
		OpNull:    0,
		OpEmpty:   0,
		OpTrue:    0,
		OpFalse:   0,
	}
	for _, op := range Operators {
		assert.True(t, op.Valid(), op.String())
		want, ok := arity[op]
		if !ok {
			want = 1
		}
		assert.Equal(t, want, op.Arity(), op.String())
	}
	assert.False(t, Operator(0).Valid())
	assert.False(t, Operator(99).Valid())
}

func TestNewCondition(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		property string
		not      bool
		op       Operator
		params   []Parameter
		wantOp   Operator
		wantNot  bool
		err      error
	}{
		{name: "equals", property: "name", op: OpEquals, params: Arguments("n"), wantOp: OpEquals},
		{name: "negated equals", property: "name", not: true, op: OpEquals, params: Arguments("n"), wantOp: OpEquals, wantNot: true},
		{name: "between", property: "age", op: OpBetween, params: Arguments("from", "to"), wantOp: OpBetween},
		{name: "null", property: "age", not: true, op: OpNull, wantOp: OpNull, wantNot: true},
		{name: "not true folds", property: "married", not: true, op: OpTrue, wantOp: OpFalse},
		{name: "not false folds", property: "married", not: true, op: OpFalse, wantOp: OpTrue},
		{name: "true stays", property: "married", op: OpTrue, wantOp: OpTrue},
		{name: "literal value", property: "age", op: OpLessThan, params: []Parameter{Value{Val: 18}}, wantOp: OpLessThan},
		{name: "missing parameter", property: "name", op: OpEquals, err: ErrArity},
		{name: "extra parameter", property: "name", op: OpNull, params: Arguments("x"), err: ErrArity},
		{name: "between needs two", property: "age", op: OpBetween, params: Arguments("x"), err: ErrArity},
		{name: "empty property", op: OpEquals, params: Arguments("x"), err: ErrEmptyProperty},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := NewCondition(tt.property, tt.not, tt.op, tt.params...)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.property, c.Property)
			assert.Equal(t, tt.wantOp, c.Operator)
			assert.Equal(t, tt.wantNot, c.Not)
			assert.Len(t, c.Parameters, tt.wantOp.Arity())
		})
	}
}

func TestNewConditionCopiesParameters(t *testing.T) {
	t.Parallel()
	params := Arguments("from", "to")
	c, err := NewCondition("age", false, OpBetween, params...)
	require.NoError(t, err)

	params[0] = Argument{Name: "changed"}
	assert.Equal(t, Argument{Name: "from"}, c.Parameters[0])
}

func TestNewCompound(t *testing.T) {
	t.Parallel()
	a, err := NewCondition("name", false, OpEquals, Arguments("n")...)
	require.NoError(t, err)
	b, err := NewCondition("age", false, OpNull)
	require.NoError(t, err)

	_, err = NewCompound(a)
	assert.ErrorIs(t, err, ErrEmptyCompound)

	_, err = NewCompound(a, Junction{Expression: b})
	assert.ErrorIs(t, err, ErrEmptyCompound)

	c, err := NewCompound(a, Junction{Operator: Or, Expression: b})
	require.NoError(t, err)
	assert.Equal(t, "(name EQUALS :n OR age NULL)", c.String())
}

func TestNewOrder(t *testing.T) {
	t.Parallel()
	_, err := NewOrder()
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = NewOrder(OrderRule{})
	assert.ErrorIs(t, err, ErrEmptyProperty)

	o, err := NewOrder(OrderRule{Property: "name", Direction: Desc}, OrderRule{Property: "age"})
	require.NoError(t, err)
	assert.Equal(t, "name DESC, age ASC", o.String())
}

func TestStrings(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		give interface{ String() string }
		want string
	}{
		{"selection", Selection{Method: MethodFind}, "FIND"},
		{"top", Selection{Method: MethodGet, Projection: ProjectionTop, Top: 3}, "GET TOP(3)"},
		{"max", Selection{Method: MethodFind, Projection: ProjectionMax, Property: "age"}, "FIND MAX(age)"},
		{"count", Selection{Method: MethodFind, Projection: ProjectionCount}, "FIND COUNT()"},
		{"argument", Argument{Name: "n"}, ":n"},
		{"string value", Value{Val: "bob"}, `"bob"`},
		{"int value", Value{Val: 42}, "42"},
		{
			"negated between",
			&Condition{Property: "age", Not: true, Operator: OpBetween, Parameters: Arguments("a", "b")},
			"age NOT BETWEEN :a, :b",
		},
		{
			"finder",
			&DynamicFinder{
				Selection: Selection{Method: MethodGet},
				Criteria:  &Condition{Property: "name", Operator: OpEquals, Parameters: Arguments("n")},
				Order:     &Order{Rules: []OrderRule{{Property: "age"}}},
			},
			"GET BY name EQUALS :n ORDER BY age ASC",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.give.String())
		})
	}
}
