// Package jpql renders finders as JPQL statements.
package jpql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gnolang/dynfinder/query"
)

const defaultAlias = "e"

// Renderer writes one statement per Transform. It is not safe for concurrent
// use; the zero value is not usable, call New.
type Renderer struct {
	query.BaseTransformer

	entity string
	alias  string

	sb       strings.Builder
	settings []string
	depth    int // compound nesting
	rules    int // order rules written so far
}

var _ query.Renderer = (*Renderer)(nil)

// Option configures a Renderer.
type Option func(*Renderer)

// WithAlias sets the identification variable, "e" by default.
func WithAlias(alias string) Option {
	return func(r *Renderer) {
		if alias != "" {
			r.alias = alias
		}
	}
}

// New returns a renderer selecting from entity.
func New(entity string, opts ...Option) *Renderer {
	r := &Renderer{entity: entity, alias: defaultAlias}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Statement returns the statement written by the last Transform.
func (r *Renderer) Statement() string { return r.sb.String() }

// QuerySettings returns hints derived from the selection, such as
// "maxResults=10" for a TOP 10 projection.
func (r *Renderer) QuerySettings() []string {
	return append([]string(nil), r.settings...)
}

func (r *Renderer) StartTransformation(*query.DynamicFinder) {
	r.sb.Reset()
	r.settings = nil
	r.depth = 0
	r.rules = 0
}

func (r *Renderer) StartSelection(s query.Selection) {
	target := r.alias
	if s.Property != "" {
		target = r.path(s.Property)
	}

	r.sb.WriteString("SELECT ")
	switch s.Projection {
	case query.ProjectionCount:
		fmt.Fprintf(&r.sb, "COUNT(%s)", target)
	case query.ProjectionCountDistinct:
		fmt.Fprintf(&r.sb, "COUNT(DISTINCT %s)", target)
	case query.ProjectionDistinct:
		fmt.Fprintf(&r.sb, "DISTINCT %s", target)
	case query.ProjectionMax, query.ProjectionMin, query.ProjectionSum, query.ProjectionAvg:
		fmt.Fprintf(&r.sb, "%s(%s)", s.Projection, target)
	default:
		r.sb.WriteString(target)
	}
	fmt.Fprintf(&r.sb, " FROM %s %s", r.entity, r.alias)

	switch {
	case s.Projection == query.ProjectionTop:
		r.settings = append(r.settings, "maxResults="+strconv.Itoa(s.Top))
	case s.Method == query.MethodGet:
		r.settings = append(r.settings, "maxResults=1")
	}
}

func (r *Renderer) StartCriteria(query.Expression) {
	r.sb.WriteString(" WHERE ")
}

func (r *Renderer) StartCompound(*query.Compound) {
	if r.depth > 0 {
		r.sb.WriteByte('(')
	}
	r.depth++
}

func (r *Renderer) FinishCompound(*query.Compound) {
	r.depth--
	if r.depth > 0 {
		r.sb.WriteByte(')')
	}
}

func (r *Renderer) StartJunction(op query.LogicalOperator) {
	fmt.Fprintf(&r.sb, " %s ", op)
}

func (r *Renderer) StartCondition(c *query.Condition) {
	expr := r.condition(c)
	if c.Not {
		expr = "NOT (" + expr + ")"
	}
	r.sb.WriteString(expr)
}

func (r *Renderer) StartOrder(*query.Order) {
	r.sb.WriteString(" ORDER BY ")
}

func (r *Renderer) StartOrderRule(rule query.OrderRule) {
	if r.rules > 0 {
		r.sb.WriteString(", ")
	}
	r.rules++
	fmt.Fprintf(&r.sb, "%s %s", r.path(rule.Property), rule.Direction)
}

func (r *Renderer) path(property string) string {
	return r.alias + "." + property
}

func (r *Renderer) condition(c *query.Condition) string {
	t := r.path(c.Property)
	p := make([]string, len(c.Parameters))
	for i, param := range c.Parameters {
		p[i] = parameter(param)
	}

	switch c.Operator {
	case query.OpAfter, query.OpGreaterThan:
		return t + " > " + p[0]
	case query.OpBefore, query.OpLessThan:
		return t + " < " + p[0]
	case query.OpGreaterThanEquals:
		return t + " >= " + p[0]
	case query.OpLessThanEquals:
		return t + " <= " + p[0]
	case query.OpEquals:
		return t + " = " + p[0]
	case query.OpContains:
		return fmt.Sprintf("%s LIKE CONCAT('%%', %s, '%%')", t, p[0])
	case query.OpStarts:
		return fmt.Sprintf("%s LIKE CONCAT(%s, '%%')", t, p[0])
	case query.OpEnds:
		return fmt.Sprintf("%s LIKE CONCAT('%%', %s)", t, p[0])
	case query.OpLike:
		return t + " LIKE " + p[0]
	case query.OpIlike:
		return fmt.Sprintf("LOWER(%s) LIKE LOWER(%s)", t, p[0])
	case query.OpIn:
		return t + " IN " + p[0]
	case query.OpBetween:
		return fmt.Sprintf("%s BETWEEN %s AND %s", t, p[0], p[1])
	case query.OpNull:
		return t + " IS NULL"
	case query.OpEmpty:
		return t + " IS EMPTY"
	case query.OpTrue:
		return t + " = TRUE"
	case query.OpFalse:
		return t + " = FALSE"
	default:
		return t + " " + c.Operator.String()
	}
}

// parameter renders a named argument as a JPQL named parameter and a value as
// a literal.
func parameter(p query.Parameter) string {
	switch p := p.(type) {
	case query.Argument:
		return ":" + p.Name
	case query.Value:
		return literal(p.Val)
	default:
		return p.String()
	}
}

func literal(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case fmt.Stringer:
		return literal(v.String())
	default:
		return fmt.Sprint(v)
	}
}
