/*
Package query holds the tree derived from a repository method name.

# Overview

A method name such as

	findByNameAndAgeGreaterThanOrderByAgeDesc

is described by a DynamicFinder with three parts:

  - Selection: GET (single result) or FIND (many results), an optional
    projection (COUNT, COUNT_DISTINCT, DISTINCT, MAX, MIN, SUM, AVG, TOP n)
    and an optional projection property.

  - Criteria: an Expression. A Condition tests one property with an
    Operator; a Compound joins expressions left to right with AND / OR.

  - Order: one or more (property, ASC|DESC) rules.

# Building

Trees are built once with a Builder and never changed afterwards. The builder
enforces which call may follow which:

	b := query.NewBuilder()
	_ = b.Select(query.MethodFind)
	_ = b.Condition("name", false, query.OpEquals, query.Argument{Name: "name"})
	_ = b.And()
	_ = b.Condition("age", false, query.OpGreaterThan, query.Argument{Name: "age"})
	_ = b.OrderBy("age", query.Desc)
	finder, err := b.Build()

NewCondition checks the parameter count against Operator.Arity and folds
NOT TRUE into FALSE (and NOT FALSE into TRUE).

# Rendering

Transform walks a finder and reports start/finish events to a Transformer.
Embed BaseTransformer to get no-op defaults. A Renderer additionally returns
the rendered statement and the query settings derived from the selection.
*/
package query
