package parser

import (
	"github.com/gnolang/dynfinder/query"
)

// Parser turns method names into finders for one property set. A Parser
// carries per-parse state and must not be used by several goroutines at once;
// create one Parser per goroutine over a shared Grammar instead.
type Parser struct {
	grammar *Grammar
	builder query.Builder
	ctx     parseContext
}

// New compiles a grammar for the properties and returns a parser using it.
func New(properties []string) (*Parser, error) {
	g, err := Compile(properties)
	if err != nil {
		return nil, err
	}
	return NewWithGrammar(g), nil
}

// NewWithGrammar returns a parser over an already compiled grammar.
func NewWithGrammar(g *Grammar) *Parser {
	return &Parser{grammar: g}
}

// Grammar returns the grammar the parser runs.
func (p *Parser) Grammar() *Grammar { return p.grammar }

// Reset clears all per-parse state.
func (p *Parser) Reset() {
	p.builder.Reset()
	p.ctx.reset("", nil)
}

// Parse derives the finder described by methodName. Arguments are bound to
// conditions left to right, as many per condition as its operator takes.
// Arguments left over after the last condition are ignored.
func (p *Parser) Parse(methodName string, args []string) (*query.DynamicFinder, error) {
	p.Reset()
	p.ctx.reset(methodName, args)
	defer p.Reset()

	next, err := p.parseSelection()
	if err != nil {
		return nil, err
	}
	if next == phaseCriteria {
		if next, err = p.parseCriteria(); err != nil {
			return nil, err
		}
	}
	if next == phaseOrder {
		if err := p.parseOrder(); err != nil {
			return nil, err
		}
	}
	return p.builder.Build()
}

var defaultCache = NewCache()

// Parse derives the finder for methodName over the given entity properties.
// Grammars are compiled once per property set and kept for later calls.
func Parse(propertyNames []string, methodName string, methodArguments []string) (*query.DynamicFinder, error) {
	g, err := defaultCache.Grammar(propertyNames)
	if err != nil {
		return nil, err
	}
	return NewWithGrammar(g).Parse(methodName, methodArguments)
}
