package parser

import (
	"github.com/gnolang/dynfinder/internal/fsm"
)

var orderOptions = fsm.Options{
	Accept:    fsm.Tags(fsm.TagProperty, fsm.TagDirection, fsm.TagAnd),
	Truncate:  fsm.Tags(fsm.TagAnd),
	Mandatory: true,
	Backtrack: true,
}

// parseOrder reads `property ("Asc" | "Desc")? ("And" property ("Asc" | "Desc")?)*`.
// Every rule starts out ascending.
func (p *Parser) parseOrder() error {
	opts := orderOptions
	opts.Dispatcher = &p.ctx
	for {
		m, err := fsm.Run(p.grammar.order, &p.ctx.cur, opts)
		if err != nil {
			return err
		}
		if err := p.builder.OrderBy(p.grammar.properties[m.Value], p.ctx.direction); err != nil {
			return err
		}
		if m.Tag != fsm.TagAnd {
			if !m.AtEnd {
				return p.ctx.syntaxError(machineOrder)
			}
			return nil
		}
	}
}
