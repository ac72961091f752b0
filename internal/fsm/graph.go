package fsm

import (
	"fmt"
	"sort"
	"strings"
)

/*
Arena-based Transition Graph

All states of a machine live in a single slice and refer to each other by index.
Several machines (selection, criteria, order, operators) are compiled once per
property set and then only read, so the arena layout gives us:

 1. No pointer cycles. Grafting and re-linking keyword paths creates a DAG where
    many edges share targets, which is trivial with integer indices.
 2. Read-only sharing. After construction a Graph is never written to again and
    can be read by any number of parsers at once.
 3. Comparable graphs. Equal walks two graphs side by side from their roots,
    which is what the builder tests rely on.

Transition tables are stored by fan-out. Most trie states have exactly one
outgoing edge, a handful have two, and only roots and keyword forks need a map.
*/

// StateID is the index of a state in the arena.
type StateID int32

// NoState is returned when a lookup has no target.
const NoState StateID = -1

// Tag discriminates final states. The zero tag means "not final".
type Tag uint8

const (
	TagNone Tag = iota
	TagMethod
	TagProjection
	TagTop
	TagProperty
	TagOperator
	TagCriteria
	TagOrderBy
	TagAnd
	TagOr
	TagDirection
)

func (t Tag) String() string {
	switch t {
	case TagNone:
		return "NONE"
	case TagMethod:
		return "METHOD"
	case TagProjection:
		return "PROJECTION"
	case TagTop:
		return "TOP"
	case TagProperty:
		return "PROPERTY"
	case TagOperator:
		return "OPERATOR"
	case TagCriteria:
		return "BY"
	case TagOrderBy:
		return "ORDER_BY"
	case TagAnd:
		return "AND"
	case TagOr:
		return "OR"
	case TagDirection:
		return "DIRECTION"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// TagSet is a bit set of tags.
type TagSet uint32

// Tags builds a TagSet.
func Tags(tags ...Tag) TagSet {
	var s TagSet
	for _, t := range tags {
		s |= 1 << t
	}
	return s
}

// Has reports whether t is in the set.
func (s TagSet) Has(t Tag) bool { return s&(1<<t) != 0 }

// Action is the side effect attached to an edge. The engine hands it to a
// Dispatcher together with the edge payload.
type Action uint8

const (
	ActionNone Action = iota
	ActionMethod
	ActionProjection
	ActionDigit
	ActionNegate
	ActionDirection
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionMethod:
		return "method"
	case ActionProjection:
		return "projection"
	case ActionDigit:
		return "digit"
	case ActionNegate:
		return "negate"
	case ActionDirection:
		return "direction"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}

// Edge is a single transition.
type Edge struct {
	Char    byte
	Target  StateID
	Action  Action
	Payload int
}

type tableKind uint8

const (
	tableEmpty tableKind = iota
	tableSingle
	tableDouble
	tableMany
)

// table is a transition table specialised by fan-out.
type table struct {
	kind  tableKind
	pair  [2]Edge
	edges map[byte]Edge
}

func (t *table) lookup(c byte) (Edge, bool) {
	switch t.kind {
	case tableSingle:
		if t.pair[0].Char == c {
			return t.pair[0], true
		}
	case tableDouble:
		if t.pair[0].Char == c {
			return t.pair[0], true
		}
		if t.pair[1].Char == c {
			return t.pair[1], true
		}
	case tableMany:
		e, ok := t.edges[c]
		return e, ok
	}
	return Edge{}, false
}

// put inserts or replaces the edge for e.Char, promoting the table when needed.
func (t *table) put(e Edge) {
	switch t.kind {
	case tableEmpty:
		t.pair[0] = e
		t.kind = tableSingle
	case tableSingle:
		if t.pair[0].Char == e.Char {
			t.pair[0] = e
			return
		}
		t.pair[1] = e
		t.kind = tableDouble
	case tableDouble:
		for i := range t.pair {
			if t.pair[i].Char == e.Char {
				t.pair[i] = e
				return
			}
		}
		t.edges = make(map[byte]Edge, 4)
		t.edges[t.pair[0].Char] = t.pair[0]
		t.edges[t.pair[1].Char] = t.pair[1]
		t.edges[e.Char] = e
		t.pair = [2]Edge{}
		t.kind = tableMany
	case tableMany:
		t.edges[e.Char] = e
	}
}

func (t *table) len() int {
	switch t.kind {
	case tableSingle:
		return 1
	case tableDouble:
		return 2
	case tableMany:
		return len(t.edges)
	}
	return 0
}

// sorted returns the edges ordered by character.
func (t *table) sorted() []Edge {
	out := make([]Edge, 0, t.len())
	switch t.kind {
	case tableSingle:
		out = append(out, t.pair[0])
	case tableDouble:
		out = append(out, t.pair[0], t.pair[1])
	case tableMany:
		for _, e := range t.edges {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Char < out[j].Char })
	return out
}

type state struct {
	table table
	tag   Tag
	value int
}

// Graph is an arena of states with a designated root.
type Graph struct {
	name   string
	states []state
	root   StateID
}

// NewGraph creates a graph holding a single root state.
func NewGraph(name string) *Graph {
	g := &Graph{
		name:   name,
		states: make([]state, 0, 64),
	}
	g.root = g.NewState()
	return g
}

// Name returns the graph's diagnostic name.
func (g *Graph) Name() string { return g.name }

// Root returns the start state.
func (g *Graph) Root() StateID { return g.root }

// SetRoot replaces the start state.
func (g *Graph) SetRoot(id StateID) { g.root = id }

// Len returns the number of states in the arena, reachable or not.
func (g *Graph) Len() int { return len(g.states) }

// NewState appends a state to the arena and returns its index.
func (g *Graph) NewState() StateID {
	id := StateID(len(g.states))
	g.states = append(g.states, state{})
	return id
}

// Edge looks up the transition for c from the given state.
func (g *Graph) Edge(from StateID, c byte) (Edge, bool) {
	return g.states[from].table.lookup(c)
}

// Edges returns all transitions of a state ordered by character.
func (g *Graph) Edges(from StateID) []Edge {
	return g.states[from].table.sorted()
}

// Connect sets the transition for c from one state to another.
func (g *Graph) Connect(from StateID, c byte, to StateID, action Action, payload int) {
	g.states[from].table.put(Edge{Char: c, Target: to, Action: action, Payload: payload})
}

// Final reports the tag and value of a state. The tag is TagNone for non-final states.
func (g *Graph) Final(id StateID) (Tag, int) {
	s := g.states[id]
	return s.tag, s.value
}

// IsFinal reports whether the state carries a final tag.
func (g *Graph) IsFinal(id StateID) bool {
	return g.states[id].tag != TagNone
}

// MarkFinal tags a state as final. A state can be marked only once.
func (g *Graph) MarkFinal(id StateID, tag Tag, value int) error {
	s := &g.states[id]
	if s.tag != TagNone {
		return fmt.Errorf("%w: state %d of %s is already final as %s(%d), cannot mark as %s(%d)",
			ErrConflict, id, g.name, s.tag, s.value, tag, value)
	}
	s.tag = tag
	s.value = value
	return nil
}

// Equal checks whether two graphs recognise the same language with the same
// tags, values and actions, comparing states reachable from the roots.
func (g *Graph) Equal(other *Graph) bool {
	seen := make(map[[2]StateID]bool)
	return g.equalStates(g.root, other, other.root, seen)
}

func (g *Graph) equalStates(a StateID, other *Graph, b StateID, seen map[[2]StateID]bool) bool {
	key := [2]StateID{a, b}
	if seen[key] {
		return true
	}
	seen[key] = true

	sa, sb := g.states[a], other.states[b]
	if sa.tag != sb.tag || sa.value != sb.value || sa.table.len() != sb.table.len() {
		return false
	}
	for _, ea := range sa.table.sorted() {
		eb, ok := sb.table.lookup(ea.Char)
		if !ok || ea.Action != eb.Action || ea.Payload != eb.Payload {
			return false
		}
		if !g.equalStates(ea.Target, other, eb.Target, seen) {
			return false
		}
	}
	return true
}

// DebugString renders the reachable graph in a compact nested form:
// `*` marks a final state followed by its tag, and each edge is written as
// its character with the target subtree in parentheses. Shared states are
// printed once and referenced as `@id` afterwards.
func (g *Graph) DebugString() string {
	var sb strings.Builder
	g.debugState(&sb, g.root, make(map[StateID]bool))
	return sb.String()
}

func (g *Graph) debugState(sb *strings.Builder, id StateID, seen map[StateID]bool) {
	if seen[id] {
		fmt.Fprintf(sb, "@%d", id)
		return
	}
	seen[id] = true

	s := g.states[id]
	if s.tag != TagNone {
		fmt.Fprintf(sb, "*%s", s.tag)
	}
	for _, e := range s.table.sorted() {
		sb.WriteByte(e.Char)
		sb.WriteByte('(')
		g.debugState(sb, e.Target, seen)
		sb.WriteByte(')')
	}
}
