package parser

import (
	"github.com/gnolang/dynfinder/internal/fsm"
	"github.com/gnolang/dynfinder/query"
)

var (
	criteriaPropertyOptions = fsm.Options{
		Accept:    fsm.Tags(fsm.TagProperty, fsm.TagAnd, fsm.TagOr, fsm.TagOrderBy),
		Truncate:  fsm.Tags(fsm.TagAnd, fsm.TagOr, fsm.TagOrderBy),
		Mandatory: true,
		Backtrack: true,
	}
	operatorOptions = fsm.Options{
		Accept:    fsm.Tags(fsm.TagOperator, fsm.TagAnd, fsm.TagOr, fsm.TagOrderBy),
		Truncate:  fsm.Tags(fsm.TagAnd, fsm.TagOr, fsm.TagOrderBy),
		Mandatory: true,
		Backtrack: true,
	}
)

// parseCriteria reads `expression (("And" | "Or") expression)*`, where an
// expression is a property followed by an optional operator.
func (p *Parser) parseCriteria() (phase, error) {
	for {
		start := p.ctx.cur.Pos
		m, err := fsm.Run(p.grammar.criteriaProperty, &p.ctx.cur, criteriaPropertyOptions)
		if err != nil {
			return phaseDone, err
		}
		property := p.grammar.properties[m.Value]

		// A property that is not followed by a join keyword either ends the
		// input or is followed by an operator.
		not, op, tag := false, query.OpEquals, m.Tag
		if m.Tag == fsm.TagProperty && !m.AtEnd {
			p.ctx.negated = false
			opts := operatorOptions
			opts.Dispatcher = &p.ctx
			om, err := fsm.Run(p.grammar.operator, &p.ctx.cur, opts)
			if err != nil {
				return phaseDone, err
			}
			not, op, tag = p.ctx.negated, query.Operator(om.Value), om.Tag
			if tag == fsm.TagOperator && !om.AtEnd {
				return phaseDone, p.ctx.syntaxError(machineOperator)
			}
		}

		params, err := p.ctx.bind(op.Arity(), start, property, op)
		if err != nil {
			return phaseDone, err
		}
		if err := p.builder.Condition(property, not, op, params...); err != nil {
			return phaseDone, err
		}

		switch tag {
		case fsm.TagAnd:
			err = p.builder.And()
		case fsm.TagOr:
			err = p.builder.Or()
		case fsm.TagOrderBy:
			return phaseOrder, nil
		default:
			return phaseDone, nil
		}
		if err != nil {
			return phaseDone, err
		}
	}
}
