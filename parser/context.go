package parser

import (
	"fmt"
	"math"

	"github.com/gnolang/dynfinder/internal/fsm"
	"github.com/gnolang/dynfinder/query"
)

// parseContext is the per-parse state shared by the three sub-parsers. It is also
// the dispatcher for edge actions: actions only record what they saw, and the
// sub-parsers apply it to the builder once a machine has stopped.
type parseContext struct {
	cur  fsm.Cursor
	args []string
	next int // index of the next unbound argument

	method     query.Method
	projection query.Projection
	top        int
	negated    bool
	direction  query.Direction
}

var _ fsm.Dispatcher = (*parseContext)(nil)

func (c *parseContext) reset(input string, args []string) {
	*c = parseContext{
		cur:  fsm.Cursor{Input: input},
		args: args,
	}
}

func (c *parseContext) Dispatch(action fsm.Action, payload int) error {
	switch action {
	case fsm.ActionMethod:
		c.method = query.Method(payload)
	case fsm.ActionProjection:
		c.projection = query.Projection(payload)
	case fsm.ActionDigit:
		if c.projection != query.ProjectionTop {
			c.projection = query.ProjectionTop
			c.top = 0
		}
		if c.top > (math.MaxInt-payload)/10 {
			return fmt.Errorf("%w: count overflows int", query.ErrInvalidTop)
		}
		c.top = c.top*10 + payload
	case fsm.ActionNegate:
		c.negated = true
	case fsm.ActionDirection:
		c.direction = query.Direction(payload)
	default:
		return fmt.Errorf("unexpected action %s", action)
	}
	return nil
}

// bind takes the next n argument names. start is the position of the
// condition in the input, for diagnostics.
func (c *parseContext) bind(n, start int, property string, op query.Operator) ([]query.Parameter, error) {
	if c.next+n > len(c.args) {
		return nil, &fsm.SyntaxError{
			Err:     fmt.Errorf("%w: %s %s needs %d, %d left", ErrArgumentUnderflow, property, op, n, len(c.args)-c.next),
			Machine: machineCriteriaProperty,
			Input:   c.cur.Input,
			Pos:     start,
			At:      c.cur.Pos,
		}
	}
	params := query.Arguments(c.args[c.next : c.next+n]...)
	c.next += n
	return params, nil
}

// syntaxError reports an unrecognized token at the cursor.
func (c *parseContext) syntaxError(machine string) error {
	return &fsm.SyntaxError{
		Err:     ErrUnrecognizedToken,
		Machine: machine,
		Input:   c.cur.Input,
		Pos:     c.cur.Pos,
		At:      c.cur.Pos,
	}
}
