package query

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrArity is returned when a condition gets a parameter count that does
	// not match its operator.
	ErrArity         = errors.New("parameter count does not match operator")
	ErrEmptyProperty = errors.New("property name is empty")
	ErrEmptyCompound = errors.New("compound expression needs at least one joined expression")
	ErrEmptyOrder    = errors.New("order needs at least one rule")
)

// Method selects between a single and a multiple result.
type Method int

const (
	_ Method = iota
	MethodGet
	MethodFind
)

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodFind:
		return "FIND"
	default:
		return "?"
	}
}

// Projection is the aggregate applied to the selection.
type Projection int

const (
	ProjectionNone Projection = iota
	ProjectionCount
	ProjectionCountDistinct
	ProjectionDistinct
	ProjectionMax
	ProjectionMin
	ProjectionSum
	ProjectionAvg
	ProjectionTop
)

func (p Projection) String() string {
	switch p {
	case ProjectionNone:
		return "NONE"
	case ProjectionCount:
		return "COUNT"
	case ProjectionCountDistinct:
		return "COUNT_DISTINCT"
	case ProjectionDistinct:
		return "DISTINCT"
	case ProjectionMax:
		return "MAX"
	case ProjectionMin:
		return "MIN"
	case ProjectionSum:
		return "SUM"
	case ProjectionAvg:
		return "AVG"
	case ProjectionTop:
		return "TOP"
	default:
		return fmt.Sprintf("Projection(%d)", int(p))
	}
}

// Selection is the result shape of a finder.
type Selection struct {
	Method     Method
	Projection Projection
	Top        int    // only set for ProjectionTop
	Property   string // projection target, empty for the whole entity
}

func (s Selection) String() string {
	var sb strings.Builder
	sb.WriteString(s.Method.String())
	switch {
	case s.Projection == ProjectionTop:
		fmt.Fprintf(&sb, " TOP(%d)", s.Top)
	case s.Projection != ProjectionNone:
		fmt.Fprintf(&sb, " %s(%s)", s.Projection, s.Property)
	case s.Property != "":
		fmt.Fprintf(&sb, " %s", s.Property)
	}
	return sb.String()
}

// Parameter is bound to a condition: either a literal Value or an Argument
// naming a method argument.
type Parameter interface {
	isParameter()
	String() string
}

// Value is a literal parameter.
type Value struct {
	Val any
}

func (Value) isParameter() {}
func (v Value) String() string {
	if s, ok := v.Val.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v.Val)
}

// Argument refers to a method argument by name.
type Argument struct {
	Name string
}

func (Argument) isParameter() {}
func (a Argument) String() string {
	return ":" + a.Name
}

// Arguments turns argument names into parameters.
func Arguments(names ...string) []Parameter {
	if len(names) == 0 {
		return nil
	}
	params := make([]Parameter, len(names))
	for i, n := range names {
		params[i] = Argument{Name: n}
	}
	return params
}

// Expression is a node of the criteria tree: *Condition or *Compound.
type Expression interface {
	isExpression()
	String() string
}

var (
	_ Expression = (*Condition)(nil)
	_ Expression = (*Compound)(nil)
)

// Condition is a single test on a property.
type Condition struct {
	Property   string
	Not        bool
	Operator   Operator
	Parameters []Parameter
}

// NewCondition checks the parameter count against the operator and folds the
// negation of TRUE and FALSE into the opposite operator.
func NewCondition(property string, not bool, op Operator, params ...Parameter) (*Condition, error) {
	if property == "" {
		return nil, ErrEmptyProperty
	}
	if !op.Valid() {
		return nil, fmt.Errorf("unknown operator %s", op)
	}
	if len(params) != op.Arity() {
		return nil, fmt.Errorf("%w: %s on %q takes %d, got %d", ErrArity, op, property, op.Arity(), len(params))
	}
	if not {
		switch op {
		case OpTrue:
			op, not = OpFalse, false
		case OpFalse:
			op, not = OpTrue, false
		}
	}
	return &Condition{
		Property:   property,
		Not:        not,
		Operator:   op,
		Parameters: append([]Parameter(nil), params...),
	}, nil
}

func (*Condition) isExpression() {}
func (c *Condition) String() string {
	var sb strings.Builder
	sb.WriteString(c.Property)
	if c.Not {
		sb.WriteString(" NOT")
	}
	sb.WriteByte(' ')
	sb.WriteString(c.Operator.String())
	for i, p := range c.Parameters {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	return sb.String()
}

// Junction is an expression joined to the previous one.
type Junction struct {
	Operator   LogicalOperator
	Expression Expression
}

// Compound is a flat, left-to-right sequence of joined expressions.
type Compound struct {
	First Expression
	Rest  []Junction
}

// NewCompound builds a compound expression. It needs at least one junction.
func NewCompound(first Expression, rest ...Junction) (*Compound, error) {
	if first == nil {
		return nil, ErrEmptyCompound
	}
	if len(rest) == 0 {
		return nil, ErrEmptyCompound
	}
	for _, j := range rest {
		if j.Expression == nil || (j.Operator != And && j.Operator != Or) {
			return nil, fmt.Errorf("%w: invalid junction %v", ErrEmptyCompound, j)
		}
	}
	return &Compound{First: first, Rest: append([]Junction(nil), rest...)}, nil
}

func (*Compound) isExpression() {}
func (c *Compound) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(c.First.String())
	for _, j := range c.Rest {
		fmt.Fprintf(&sb, " %s %s", j.Operator, j.Expression)
	}
	sb.WriteByte(')')
	return sb.String()
}

// OrderRule sorts by one property.
type OrderRule struct {
	Property  string
	Direction Direction
}

func (r OrderRule) String() string {
	return r.Property + " " + r.Direction.String()
}

// Order is a non-empty list of rules.
type Order struct {
	Rules []OrderRule
}

// NewOrder builds an order from its rules.
func NewOrder(rules ...OrderRule) (*Order, error) {
	if len(rules) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, r := range rules {
		if r.Property == "" {
			return nil, ErrEmptyProperty
		}
	}
	return &Order{Rules: append([]OrderRule(nil), rules...)}, nil
}

func (o *Order) String() string {
	parts := make([]string, len(o.Rules))
	for i, r := range o.Rules {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

// DynamicFinder is the query derived from a repository method name.
type DynamicFinder struct {
	Selection Selection
	Criteria  Expression // nil without criteria
	Order     *Order     // nil without ordering
}

func (f *DynamicFinder) String() string {
	var sb strings.Builder
	sb.WriteString(f.Selection.String())
	if f.Criteria != nil {
		sb.WriteString(" BY ")
		sb.WriteString(f.Criteria.String())
	}
	if f.Order != nil {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(f.Order.String())
	}
	return sb.String()
}
