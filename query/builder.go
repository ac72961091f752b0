package query

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalState is returned when a builder call is not allowed at the
	// current point of the grammar.
	ErrIllegalState = errors.New("illegal builder call")
	// ErrInvalidTop is returned for a TOP projection without a positive count.
	ErrInvalidTop = errors.New("TOP needs a positive count")
)

// BuilderState tells which builder calls are legal next.
type BuilderState int

const (
	// StateAwaitingSelection: only Select.
	StateAwaitingSelection BuilderState = iota
	// StateSelected: Project, Top, Where, OrderBy or Build.
	StateSelected
	// StateProjected: ProjectOn, Where, OrderBy or Build.
	StateProjected
	// StateAwaitingCondition: only Where (or Condition).
	StateAwaitingCondition
	// StateAwaitingJoinOrTerminal: And, Or, OrderBy or Build.
	StateAwaitingJoinOrTerminal
	// StateOrdering: OrderBy or Build.
	StateOrdering
	// StateBuilt: nothing until Reset.
	StateBuilt
)

func (s BuilderState) String() string {
	switch s {
	case StateAwaitingSelection:
		return "awaiting selection"
	case StateSelected:
		return "selected"
	case StateProjected:
		return "projected"
	case StateAwaitingCondition:
		return "awaiting condition"
	case StateAwaitingJoinOrTerminal:
		return "awaiting join or terminal"
	case StateOrdering:
		return "ordering"
	case StateBuilt:
		return "built"
	default:
		return fmt.Sprintf("BuilderState(%d)", int(s))
	}
}

// Builder assembles a DynamicFinder one grammar element at a time. The parser
// drives it while reading a method name; callers can drive it directly to get
// the same tree.
type Builder struct {
	state     BuilderState
	selection Selection
	first     Expression
	rest      []Junction
	pending   LogicalOperator
	rules     []OrderRule
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// State returns the current builder state.
func (b *Builder) State() BuilderState { return b.state }

// Reset clears everything so the builder can be reused.
func (b *Builder) Reset() {
	*b = Builder{rest: b.rest[:0], rules: b.rules[:0]}
}

func (b *Builder) expect(call string, allowed ...BuilderState) error {
	for _, s := range allowed {
		if b.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s while %s", ErrIllegalState, call, b.state)
}

// Select sets the selection method.
func (b *Builder) Select(m Method) error {
	if err := b.expect("Select", StateAwaitingSelection); err != nil {
		return err
	}
	if m != MethodGet && m != MethodFind {
		return fmt.Errorf("unknown method %d", int(m))
	}
	b.selection.Method = m
	b.state = StateSelected
	return nil
}

// Project sets an aggregate projection. TOP is set with Top.
func (b *Builder) Project(p Projection) error {
	if err := b.expect("Project", StateSelected); err != nil {
		return err
	}
	if p == ProjectionNone || p == ProjectionTop || p > ProjectionTop {
		return fmt.Errorf("%w: Project(%s)", ErrIllegalState, p)
	}
	b.selection.Projection = p
	b.state = StateProjected
	return nil
}

// Top limits the result to the first n entries.
func (b *Builder) Top(n int) error {
	if err := b.expect("Top", StateSelected); err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTop, n)
	}
	b.selection.Projection = ProjectionTop
	b.selection.Top = n
	b.state = StateProjected
	return nil
}

// ProjectOn sets the property the projection applies to.
func (b *Builder) ProjectOn(property string) error {
	if err := b.expect("ProjectOn", StateProjected); err != nil {
		return err
	}
	if property == "" {
		return ErrEmptyProperty
	}
	if b.selection.Projection == ProjectionTop {
		return fmt.Errorf("%w: TOP takes no property", ErrIllegalState)
	}
	if b.selection.Property != "" {
		return fmt.Errorf("%w: projection property already set to %q", ErrIllegalState, b.selection.Property)
	}
	b.selection.Property = property
	return nil
}

// Where adds an expression to the criteria, joined to the previous one by the
// last And or Or call.
func (b *Builder) Where(expr Expression) error {
	if err := b.expect("Where", StateSelected, StateProjected, StateAwaitingCondition); err != nil {
		return err
	}
	if expr == nil {
		return fmt.Errorf("%w: nil expression", ErrIllegalState)
	}
	if b.first == nil {
		b.first = expr
	} else {
		b.rest = append(b.rest, Junction{Operator: b.pending, Expression: expr})
	}
	b.pending = 0
	b.state = StateAwaitingJoinOrTerminal
	return nil
}

// Condition is a shorthand for NewCondition followed by Where.
func (b *Builder) Condition(property string, not bool, op Operator, params ...Parameter) error {
	c, err := NewCondition(property, not, op, params...)
	if err != nil {
		return err
	}
	return b.Where(c)
}

// And joins the next expression with AND.
func (b *Builder) And() error { return b.join("And", And) }

// Or joins the next expression with OR.
func (b *Builder) Or() error { return b.join("Or", Or) }

func (b *Builder) join(call string, op LogicalOperator) error {
	if err := b.expect(call, StateAwaitingJoinOrTerminal); err != nil {
		return err
	}
	b.pending = op
	b.state = StateAwaitingCondition
	return nil
}

// OrderBy appends an order rule.
func (b *Builder) OrderBy(property string, dir Direction) error {
	if err := b.expect("OrderBy", StateSelected, StateProjected, StateAwaitingJoinOrTerminal, StateOrdering); err != nil {
		return err
	}
	if property == "" {
		return ErrEmptyProperty
	}
	b.rules = append(b.rules, OrderRule{Property: property, Direction: dir})
	b.state = StateOrdering
	return nil
}

// Build returns the finished tree. The builder must be Reset before reuse.
func (b *Builder) Build() (*DynamicFinder, error) {
	if err := b.expect("Build", StateSelected, StateProjected, StateAwaitingJoinOrTerminal, StateOrdering); err != nil {
		return nil, err
	}

	f := &DynamicFinder{Selection: b.selection}
	switch {
	case b.first == nil:
	case len(b.rest) == 0:
		f.Criteria = b.first
	default:
		f.Criteria = &Compound{First: b.first, Rest: append([]Junction(nil), b.rest...)}
	}
	if len(b.rules) > 0 {
		f.Order = &Order{Rules: append([]OrderRule(nil), b.rules...)}
	}

	b.state = StateBuilt
	return f, nil
}
