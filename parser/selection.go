package parser

import (
	"github.com/gnolang/dynfinder/internal/fsm"
	"github.com/gnolang/dynfinder/query"
)

// phase is the sub-parser to run next.
type phase int

const (
	phaseDone phase = iota
	phaseCriteria
	phaseOrder
)

var (
	selectionOptions = fsm.Options{
		Accept:    fsm.Tags(fsm.TagMethod, fsm.TagProjection, fsm.TagTop, fsm.TagCriteria, fsm.TagOrderBy),
		Truncate:  fsm.Tags(fsm.TagCriteria, fsm.TagOrderBy),
		Mandatory: true,
		Backtrack: true,
	}
	selectionPropertyOptions = fsm.Options{
		Accept:    fsm.Tags(fsm.TagProperty, fsm.TagCriteria, fsm.TagOrderBy),
		Truncate:  fsm.Tags(fsm.TagCriteria, fsm.TagOrderBy),
		Mandatory: true,
		Backtrack: true,
	}
)

// parseSelection reads the method and the optional projection, and tells
// which phase follows.
func (p *Parser) parseSelection() (phase, error) {
	opts := selectionOptions
	opts.Dispatcher = &p.ctx
	m, err := fsm.Run(p.grammar.selection, &p.ctx.cur, opts)
	if err != nil {
		return phaseDone, err
	}
	if err := p.applySelection(); err != nil {
		return phaseDone, err
	}

	switch m.Tag {
	case fsm.TagMethod, fsm.TagTop:
		if !m.AtEnd {
			return phaseDone, p.ctx.syntaxError(machineSelection)
		}
		return phaseDone, nil
	case fsm.TagProjection:
		if m.AtEnd {
			return phaseDone, nil
		}
		return p.parseProjectionProperty()
	default:
		return handoff(m.Tag), nil
	}
}

func (p *Parser) applySelection() error {
	if err := p.builder.Select(p.ctx.method); err != nil {
		return err
	}
	switch p.ctx.projection {
	case query.ProjectionNone:
		return nil
	case query.ProjectionTop:
		return p.builder.Top(p.ctx.top)
	default:
		return p.builder.Project(p.ctx.projection)
	}
}

// parseProjectionProperty reads the property a projection applies to, as in
// `findMaxAgeByName`.
func (p *Parser) parseProjectionProperty() (phase, error) {
	m, err := fsm.Run(p.grammar.selectionProperty, &p.ctx.cur, selectionPropertyOptions)
	if err != nil {
		return phaseDone, err
	}
	if err := p.builder.ProjectOn(p.grammar.properties[m.Value]); err != nil {
		return phaseDone, err
	}
	if m.Tag == fsm.TagProperty {
		if !m.AtEnd {
			return phaseDone, p.ctx.syntaxError(machineSelectionProperty)
		}
		return phaseDone, nil
	}
	return handoff(m.Tag), nil
}

func handoff(tag fsm.Tag) phase {
	switch tag {
	case fsm.TagCriteria:
		return phaseCriteria
	case fsm.TagOrderBy:
		return phaseOrder
	default:
		return phaseDone
	}
}
