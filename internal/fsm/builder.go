package fsm

import (
	"fmt"
	"sort"
)

// Keyword is a single string recognised by a machine together with the final
// state it leads to. Action and Payload are attached to the edge entering the
// final state.
type Keyword struct {
	Text    string
	Tag     Tag
	Value   int
	Action  Action
	Payload int
}

// SortKeywords orders keywords by descending length, keeping the input order
// between keywords of equal length.
func SortKeywords(keywords []Keyword) {
	sort.SliceStable(keywords, func(i, j int) bool {
		return len(keywords[i].Text) > len(keywords[j].Text)
	})
}

// Insert builds a trie of keywords below the given state and returns the final
// state of each keyword, in input order.
//
// Keywords must be sorted by descending length so that a shorter keyword always
// ends on a state already created by a longer one, never the other way around.
// A keyword ending on a state that is already final is a conflict.
func (g *Graph) Insert(from StateID, keywords []Keyword) ([]StateID, error) {
	for i := 1; i < len(keywords); i++ {
		if len(keywords[i].Text) > len(keywords[i-1].Text) {
			return nil, fmt.Errorf("%w: %q inserted after %q", ErrUnsorted, keywords[i].Text, keywords[i-1].Text)
		}
	}

	finals := make([]StateID, len(keywords))
	for i, kw := range keywords {
		id, err := g.insert(from, kw)
		if err != nil {
			return nil, err
		}
		finals[i] = id
	}
	return finals, nil
}

// Graft appends keywords after a state, reusing any path that already leaves
// it. When one keyword is a prefix of another (`Or` and `OrderBy`) the final
// state of the shorter one ends up in the middle of the longer path.
func (g *Graph) Graft(from StateID, keywords ...Keyword) ([]StateID, error) {
	finals := make([]StateID, len(keywords))
	for i, kw := range keywords {
		id, err := g.insert(from, kw)
		if err != nil {
			return nil, err
		}
		finals[i] = id
	}
	return finals, nil
}

func (g *Graph) insert(from StateID, kw Keyword) (StateID, error) {
	if kw.Text == "" {
		return NoState, fmt.Errorf("%w: empty keyword", ErrConflict)
	}
	if kw.Tag == TagNone {
		return NoState, fmt.Errorf("keyword %q has no final tag", kw.Text)
	}

	prev, cur := NoState, from
	for i := 0; i < len(kw.Text); i++ {
		c := kw.Text[i]
		e, ok := g.Edge(cur, c)
		if !ok {
			next := g.NewState()
			g.Connect(cur, c, next, ActionNone, 0)
			e = Edge{Char: c, Target: next}
		}
		prev, cur = cur, e.Target
	}

	if err := g.MarkFinal(cur, kw.Tag, kw.Value); err != nil {
		return NoState, fmt.Errorf("keyword %q: %w", kw.Text, err)
	}
	if kw.Action != ActionNone {
		last := kw.Text[len(kw.Text)-1]
		g.Connect(prev, last, cur, kw.Action, kw.Payload)
	}
	return cur, nil
}

// Numeric adds a keyword made of a literal prefix followed by one or more
// decimal digits. The digit state loops on itself and every digit edge carries
// ActionDigit with the digit as payload, so a dispatcher can accumulate the
// number. The digit state is final with the given tag and value and is
// returned so that suffix keywords can be grafted on it.
func (g *Graph) Numeric(from StateID, prefix string, tag Tag, value int) (StateID, error) {
	cur := from
	for i := 0; i < len(prefix); i++ {
		c := prefix[i]
		e, ok := g.Edge(cur, c)
		if !ok {
			next := g.NewState()
			g.Connect(cur, c, next, ActionNone, 0)
			e = Edge{Char: c, Target: next}
		}
		cur = e.Target
	}
	for d := byte('0'); d <= '9'; d++ {
		if _, ok := g.Edge(cur, d); ok {
			return NoState, fmt.Errorf("%w: %q is already followed by a digit", ErrConflict, prefix)
		}
	}

	digits := g.NewState()
	if err := g.MarkFinal(digits, tag, value); err != nil {
		return NoState, err
	}
	for d := byte('0'); d <= '9'; d++ {
		g.Connect(cur, d, digits, ActionDigit, int(d-'0'))
		g.Connect(digits, d, digits, ActionDigit, int(d-'0'))
	}
	return digits, nil
}

// Negate replaces the root with a new one that accepts every path of the old
// root, optionally preceded by one of the prefixes. The last edge of each
// prefix carries ActionNegate. Keywords of the old root that start like a
// prefix (`Null` and `Not`, `IsNull` and `IsNot`) share the prefix states up to
// the point where they diverge and are linked back into the old graph there.
func (g *Graph) Negate(prefixes ...string) error {
	old := g.root
	root := g.NewState()

	ends := make([]StateID, 0, len(prefixes))
	for _, p := range prefixes {
		if p == "" {
			return fmt.Errorf("%w: empty negation prefix", ErrConflict)
		}
		prev, cur := NoState, root
		for i := 0; i < len(p); i++ {
			c := p[i]
			e, ok := g.Edge(cur, c)
			if !ok {
				next := g.NewState()
				g.Connect(cur, c, next, ActionNone, 0)
				e = Edge{Char: c, Target: next}
			}
			prev, cur = cur, e.Target
		}
		g.Connect(prev, p[len(p)-1], cur, ActionNegate, 0)
		ends = append(ends, cur)
	}

	if err := g.Merge(root, old); err != nil {
		return err
	}
	for _, end := range ends {
		if err := g.Merge(end, old); err != nil {
			return err
		}
	}
	g.root = root
	return nil
}

// Merge makes every path leaving `from` also leave `into`. Missing edges are
// linked to the existing targets; where both states already have an edge for
// the same character the targets are merged recursively. Final tags are copied
// and must agree.
func (g *Graph) Merge(into, from StateID) error {
	return g.merge(into, from, make(map[[2]StateID]bool))
}

func (g *Graph) merge(into, from StateID, seen map[[2]StateID]bool) error {
	if into == from {
		return nil
	}
	key := [2]StateID{into, from}
	if seen[key] {
		return nil
	}
	seen[key] = true

	if tag, value := g.Final(from); tag != TagNone {
		have, haveValue := g.Final(into)
		switch {
		case have == TagNone:
			if err := g.MarkFinal(into, tag, value); err != nil {
				return err
			}
		case have != tag || haveValue != value:
			return fmt.Errorf("%w: cannot merge final %s(%d) into %s(%d)", ErrConflict, tag, value, have, haveValue)
		}
	}

	for _, e := range g.Edges(from) {
		existing, ok := g.Edge(into, e.Char)
		if !ok {
			g.Connect(into, e.Char, e.Target, e.Action, e.Payload)
			continue
		}
		if existing.Target == e.Target {
			continue
		}
		if existing.Action != e.Action || existing.Payload != e.Payload {
			return fmt.Errorf("%w: edge %q carries both %s and %s", ErrConflict, e.Char, existing.Action, e.Action)
		}
		if err := g.merge(existing.Target, e.Target, seen); err != nil {
			return err
		}
	}
	return nil
}
