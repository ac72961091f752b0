package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/gnolang/dynfinder/internal/fsm"
	"github.com/gnolang/dynfinder/query"
)

// Graph names, used in syntax errors.
const (
	machineSelection         = "selection"
	machineSelectionProperty = "selection property"
	machineCriteriaProperty  = "criteria property"
	machineOperator          = "operator"
	machineOrder             = "order"
)

var (
	kwBy      = fsm.Keyword{Text: "By", Tag: fsm.TagCriteria}
	kwOrderBy = fsm.Keyword{Text: "OrderBy", Tag: fsm.TagOrderBy}
	kwAnd     = fsm.Keyword{Text: "And", Tag: fsm.TagAnd}
	kwOr      = fsm.Keyword{Text: "Or", Tag: fsm.TagOr}
	kwAsc     = fsm.Keyword{Text: "Asc", Tag: fsm.TagDirection, Action: fsm.ActionDirection, Payload: int(query.Asc)}
	kwDesc    = fsm.Keyword{Text: "Desc", Tag: fsm.TagDirection, Action: fsm.ActionDirection, Payload: int(query.Desc)}
)

var methodKeywords = []fsm.Keyword{
	{Text: "find", Tag: fsm.TagMethod, Value: int(query.MethodFind), Action: fsm.ActionMethod, Payload: int(query.MethodFind)},
	{Text: "get", Tag: fsm.TagMethod, Value: int(query.MethodGet), Action: fsm.ActionMethod, Payload: int(query.MethodGet)},
}

var projectionKeywords = []struct {
	text string
	p    query.Projection
}{
	{"CountDistinct", query.ProjectionCountDistinct},
	{"Distinct", query.ProjectionDistinct},
	{"Count", query.ProjectionCount},
	{"Max", query.ProjectionMax},
	{"Min", query.ProjectionMin},
	{"Sum", query.ProjectionSum},
	{"Avg", query.ProjectionAvg},
}

// operatorKeywords maps every spelling accepted after a property to its operator.
var operatorKeywords = []struct {
	text string
	op   query.Operator
}{
	{"After", query.OpAfter},
	{"Before", query.OpBefore},
	{"Contains", query.OpContains},
	{"StartsWith", query.OpStarts},
	{"StartingWith", query.OpStarts},
	{"EndsWith", query.OpEnds},
	{"EndingWith", query.OpEnds},
	{"Equal", query.OpEquals},
	{"Equals", query.OpEquals},
	{"GreaterThan", query.OpGreaterThan},
	{"GreaterThanEqual", query.OpGreaterThanEquals},
	{"GreaterThanEquals", query.OpGreaterThanEquals},
	{"LessThan", query.OpLessThan},
	{"LessThanEqual", query.OpLessThanEquals},
	{"LessThanEquals", query.OpLessThanEquals},
	{"Like", query.OpLike},
	{"Ilike", query.OpIlike},
	{"In", query.OpIn},
	{"InList", query.OpIn},
	{"Between", query.OpBetween},
	{"InRange", query.OpBetween},
	{"Null", query.OpNull},
	{"IsNull", query.OpNull},
	{"Empty", query.OpEmpty},
	{"IsEmpty", query.OpEmpty},
	{"True", query.OpTrue},
	{"IsTrue", query.OpTrue},
	{"False", query.OpFalse},
	{"IsFalse", query.OpFalse},
}

var negationPrefixes = []string{"Not", "IsNot"}

// Grammar holds the machines compiled for one property set. It is never
// written to after Compile and can be shared by any number of parsers.
type Grammar struct {
	properties []string

	selection         *fsm.Graph
	selectionProperty *fsm.Graph
	criteriaProperty  *fsm.Graph
	operator          *fsm.Graph
	order             *fsm.Graph
}

// Compile builds the machines for the given entity properties. Properties are
// matched with their first letter upper-cased and reported with it
// lower-cased. A property that would make a method name ambiguous, such as
// `firstNameOrderBy` next to `firstName`, fails with ErrConflict.
func Compile(properties []string) (*Grammar, error) {
	g := &Grammar{properties: make([]string, len(properties))}
	for i, p := range properties {
		if p == "" {
			return nil, fmt.Errorf("%w: property %d is empty", ErrInvalidProperty, i)
		}
		g.properties[i] = lowerFirst(p)
	}

	var err error
	if g.selection, err = compileSelection(); err != nil {
		return nil, err
	}
	if g.selectionProperty, err = g.compileProperties(machineSelectionProperty, kwOrderBy, kwBy); err != nil {
		return nil, err
	}
	if g.criteriaProperty, err = g.compileProperties(machineCriteriaProperty, kwOrderBy, kwAnd, kwOr); err != nil {
		return nil, err
	}
	if g.operator, err = compileOperators(); err != nil {
		return nil, err
	}
	if g.order, err = g.compileOrder(); err != nil {
		return nil, err
	}
	return g, nil
}

// MustCompile is like Compile but panics on error. It is meant for property
// sets known at init time.
func MustCompile(properties ...string) *Grammar {
	g, err := Compile(properties)
	if err != nil {
		panic(err)
	}
	return g
}

// Properties returns the property names as they appear in parsed trees.
func (g *Grammar) Properties() []string {
	return append([]string(nil), g.properties...)
}

// compileSelection builds
//
//	("get" | "find") (projection | "Top" digits)? ("By" | "OrderBy")?
//
// The projection part hangs off a shared state that is merged into both
// method finals.
func compileSelection() (*fsm.Graph, error) {
	g := fsm.NewGraph(machineSelection)

	sub := g.NewState()
	kws := make([]fsm.Keyword, len(projectionKeywords))
	for i, p := range projectionKeywords {
		kws[i] = fsm.Keyword{
			Text:    p.text,
			Tag:     fsm.TagProjection,
			Value:   int(p.p),
			Action:  fsm.ActionProjection,
			Payload: int(p.p),
		}
	}
	fsm.SortKeywords(kws)
	finals, err := g.Insert(sub, kws)
	if err != nil {
		return nil, err
	}
	top, err := g.Numeric(sub, "Top", fsm.TagTop, int(query.ProjectionTop))
	if err != nil {
		return nil, err
	}

	for _, id := range append([]fsm.StateID{sub, top}, finals...) {
		if _, err := g.Graft(id, kwOrderBy, kwBy); err != nil {
			return nil, err
		}
	}

	methods := append([]fsm.Keyword(nil), methodKeywords...)
	fsm.SortKeywords(methods)
	ends, err := g.Insert(g.Root(), methods)
	if err != nil {
		return nil, err
	}
	for _, id := range ends {
		if err := g.Merge(id, sub); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// compileProperties builds the property trie and grafts the given keywords
// after every property. The value of every final is the property index.
func (g *Grammar) compileProperties(name string, suffixes ...fsm.Keyword) (*fsm.Graph, error) {
	graph := fsm.NewGraph(name)
	finals, err := g.insertProperties(graph, fsm.ActionNone, 0)
	if err != nil {
		return nil, err
	}
	for idx, id := range finals {
		if _, err := graph.Graft(id, withValue(suffixes, idx)...); err != nil {
			return nil, fmt.Errorf("property %q: %w", g.properties[idx], err)
		}
	}
	return graph, nil
}

// insertProperties inserts every property below the root and returns the
// final states indexed like g.properties.
func (g *Grammar) insertProperties(graph *fsm.Graph, action fsm.Action, payload int) ([]fsm.StateID, error) {
	kws := make([]fsm.Keyword, len(g.properties))
	for i, p := range g.properties {
		kws[i] = fsm.Keyword{Text: upperFirst(p), Tag: fsm.TagProperty, Value: i, Action: action, Payload: payload}
	}
	fsm.SortKeywords(kws)

	sorted, err := graph.Insert(graph.Root(), kws)
	if err != nil {
		return nil, err
	}
	finals := make([]fsm.StateID, len(g.properties))
	for i, kw := range kws {
		finals[kw.Value] = sorted[i]
	}
	return finals, nil
}

// compileOrder builds
//
//	property ("Asc" | "Desc")? "And"?
//
// The last edge of every property resets the direction to ascending, so a
// property that runs through a direction keyword (`nameDescription`) does not
// keep the direction seen on the way.
func (g *Grammar) compileOrder() (*fsm.Graph, error) {
	graph := fsm.NewGraph(machineOrder)
	finals, err := g.insertProperties(graph, fsm.ActionDirection, int(query.Asc))
	if err != nil {
		return nil, err
	}

	for idx, id := range finals {
		dirs, err := graph.Graft(id, withValue([]fsm.Keyword{kwAsc, kwDesc, kwAnd}, idx)...)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", g.properties[idx], err)
		}
		for _, d := range dirs[:2] {
			if _, err := graph.Graft(d, withValue([]fsm.Keyword{kwAnd}, idx)...); err != nil {
				return nil, fmt.Errorf("property %q: %w", g.properties[idx], err)
			}
		}
	}
	return graph, nil
}

// compileOperators builds
//
//	("Not" | "IsNot")? operator ("And" | "Or" | "OrderBy")?
//
// The value of every final is the operator.
func compileOperators() (*fsm.Graph, error) {
	g := fsm.NewGraph(machineOperator)

	kws := make([]fsm.Keyword, len(operatorKeywords))
	for i, o := range operatorKeywords {
		kws[i] = fsm.Keyword{Text: o.text, Tag: fsm.TagOperator, Value: int(o.op)}
	}
	fsm.SortKeywords(kws)
	finals, err := g.Insert(g.Root(), kws)
	if err != nil {
		return nil, err
	}
	for i, id := range finals {
		if _, err := g.Graft(id, withValue([]fsm.Keyword{kwOrderBy, kwAnd, kwOr}, kws[i].Value)...); err != nil {
			return nil, err
		}
	}

	if err := g.Negate(negationPrefixes...); err != nil {
		return nil, err
	}
	return g, nil
}

func withValue(kws []fsm.Keyword, value int) []fsm.Keyword {
	out := make([]fsm.Keyword, len(kws))
	for i, kw := range kws {
		kw.Value = value
		out[i] = kw
	}
	return out
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
