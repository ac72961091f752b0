package query

import "fmt"

// Operator is the comparison applied by a Condition.
type Operator int

const (
	_ Operator = iota
	OpAfter
	OpBefore
	OpContains
	OpStarts
	OpEnds
	OpEquals
	OpGreaterThan
	OpGreaterThanEquals
	OpLessThan
	OpLessThanEquals
	OpLike
	OpIlike
	OpIn
	OpBetween
	OpNull
	OpEmpty
	OpTrue
	OpFalse
)

// Operators lists every operator in declaration order.
var Operators = []Operator{
	OpAfter, OpBefore, OpContains, OpStarts, OpEnds, OpEquals,
	OpGreaterThan, OpGreaterThanEquals, OpLessThan, OpLessThanEquals,
	OpLike, OpIlike, OpIn, OpBetween, OpNull, OpEmpty, OpTrue, OpFalse,
}

// Arity returns the number of parameters the operator requires.
func (op Operator) Arity() int {
	switch op {
	case OpBetween:
		return 2
	case OpNull, OpEmpty, OpTrue, OpFalse:
		return 0
	default:
		return 1
	}
}

// Valid reports whether op is one of the declared operators.
func (op Operator) Valid() bool {
	return op >= OpAfter && op <= OpFalse
}

func (op Operator) String() string {
	switch op {
	case OpAfter:
		return "AFTER"
	case OpBefore:
		return "BEFORE"
	case OpContains:
		return "CONTAINS"
	case OpStarts:
		return "STARTS"
	case OpEnds:
		return "ENDS"
	case OpEquals:
		return "EQUALS"
	case OpGreaterThan:
		return "GREATER_THAN"
	case OpGreaterThanEquals:
		return "GREATER_THAN_EQUALS"
	case OpLessThan:
		return "LESS_THAN"
	case OpLessThanEquals:
		return "LESS_THAN_EQUALS"
	case OpLike:
		return "LIKE"
	case OpIlike:
		return "ILIKE"
	case OpIn:
		return "IN"
	case OpBetween:
		return "BETWEEN"
	case OpNull:
		return "NULL"
	case OpEmpty:
		return "EMPTY"
	case OpTrue:
		return "TRUE"
	case OpFalse:
		return "FALSE"
	default:
		return fmt.Sprintf("Operator(%d)", int(op))
	}
}

// LogicalOperator joins two expressions.
type LogicalOperator int

const (
	_ LogicalOperator = iota
	And
	Or
)

func (op LogicalOperator) String() string {
	switch op {
	case And:
		return "AND"
	case Or:
		return "OR"
	default:
		return "?"
	}
}

// Direction is the sort direction of an order rule. Ascending is the zero value.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}
