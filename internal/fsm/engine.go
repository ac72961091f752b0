package fsm

// Dispatcher receives the actions attached to edges while a machine runs.
// Implementations switch over the Action kinds they expect.
type Dispatcher interface {
	Dispatch(action Action, payload int) error
}

// Cursor is a position in an input string. Machines advance it on success and
// leave it untouched on failure or when nothing matched.
type Cursor struct {
	Input string
	Pos   int
}

// AtEnd reports whether the whole input has been consumed.
func (c *Cursor) AtEnd() bool { return c.Pos >= len(c.Input) }

// Remaining returns the unconsumed part of the input.
func (c *Cursor) Remaining() string {
	if c.AtEnd() {
		return ""
	}
	return c.Input[c.Pos:]
}

// Options control a single Run.
type Options struct {
	// Accept lists the final tags the caller can handle.
	Accept TagSet
	// Truncate lists final tags that must not end the input.
	Truncate TagSet
	// Mandatory turns "nothing matched" into an error. Otherwise Run returns
	// a Match with Found unset.
	Mandatory bool
	// Backtrack enables stepping back to the last final state when the
	// machine gets stuck on a non-final state.
	Backtrack bool
	// Dispatcher receives edge actions. It may be nil when the graph has none.
	Dispatcher Dispatcher
}

// Match is the outcome of a successful Run.
type Match struct {
	Found bool
	State StateID
	Tag   Tag
	Value int
	Start int
	End   int
	// AtEnd is set when the match consumed the rest of the input.
	AtEnd bool
}

// checkpoint remembers the last final state reached with input remaining.
type checkpoint struct {
	pos   int
	state StateID
	ok    bool
}

// Run drives g from its root over the cursor's remaining input.
//
// The machine follows edges as long as one matches the next byte, firing edge
// actions on the way. When no edge matches, or the input ends, the current
// state decides: a final state with an accepted tag is a match, any other final
// state is ErrIllegalFinalState. A non-final state steps back to the last
// checkpoint when backtracking is on, and otherwise fails (or reports no match
// for optional runs).
func Run(g *Graph, cur *Cursor, opts Options) (Match, error) {
	input := cur.Input
	start := cur.Pos
	if start >= len(input) {
		if opts.Mandatory {
			return Match{}, &SyntaxError{Err: ErrUnexpectedEnd, Machine: g.name, Input: input, Pos: start, At: start}
		}
		return Match{}, nil
	}

	var cp checkpoint
	id, pos := g.root, start
	for pos < len(input) {
		e, ok := g.Edge(id, input[pos])
		if !ok {
			break
		}
		if e.Action != ActionNone && opts.Dispatcher != nil {
			if err := opts.Dispatcher.Dispatch(e.Action, e.Payload); err != nil {
				return Match{}, &SyntaxError{Err: err, Machine: g.name, Input: input, Pos: start, At: pos}
			}
		}
		id = e.Target
		pos++
		if opts.Backtrack && pos < len(input) && g.IsFinal(id) {
			cp = checkpoint{pos: pos, state: id, ok: true}
		}
	}

	if !g.IsFinal(id) {
		if !cp.ok {
			if !opts.Mandatory {
				return Match{}, nil
			}
			err := ErrUnrecognizedToken
			if pos >= len(input) {
				err = ErrUnexpectedEnd
			}
			return Match{}, &SyntaxError{Err: err, Machine: g.name, Input: input, Pos: start, At: pos}
		}
		id, pos = cp.state, cp.pos
	}

	tag, value := g.Final(id)
	if !opts.Accept.Has(tag) {
		return Match{}, &SyntaxError{Err: ErrIllegalFinalState, Machine: g.name, Input: input, Pos: start, At: pos, Tag: tag}
	}
	atEnd := pos >= len(input)
	if atEnd && opts.Truncate.Has(tag) {
		return Match{}, &SyntaxError{Err: ErrTruncatedKeyword, Machine: g.name, Input: input, Pos: start, At: pos, Tag: tag}
	}

	cur.Pos = pos
	return Match{
		Found: true,
		State: id,
		Tag:   tag,
		Value: value,
		Start: start,
		End:   pos,
		AtEnd: atEnd,
	}, nil
}
