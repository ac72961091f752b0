package query

// Transformer receives the events of a walk over a DynamicFinder.
//
// Events come in start/finish pairs, in this order: transformation, selection,
// criteria, order. Criteria are visited depth first: a compound node, then its
// first expression, then for every junction the junction event followed by
// the joined expression.
type Transformer interface {
	StartTransformation(f *DynamicFinder)
	FinishTransformation(f *DynamicFinder)

	StartSelection(s Selection)
	FinishSelection(s Selection)

	StartCriteria(e Expression)
	FinishCriteria(e Expression)
	StartCompound(c *Compound)
	FinishCompound(c *Compound)
	StartCondition(c *Condition)
	FinishCondition(c *Condition)
	StartJunction(op LogicalOperator)
	FinishJunction(op LogicalOperator)

	StartOrder(o *Order)
	FinishOrder(o *Order)
	StartOrderRule(r OrderRule)
	FinishOrderRule(r OrderRule)
}

// Renderer is a Transformer producing a statement in some query language.
type Renderer interface {
	Transformer
	Statement() string
	QuerySettings() []string
}

// BaseTransformer implements every event as a no-op. Embed it and override
// only the events you need.
type BaseTransformer struct{}

func (BaseTransformer) StartTransformation(*DynamicFinder)  {}
func (BaseTransformer) FinishTransformation(*DynamicFinder) {}
func (BaseTransformer) StartSelection(Selection)            {}
func (BaseTransformer) FinishSelection(Selection)           {}
func (BaseTransformer) StartCriteria(Expression)            {}
func (BaseTransformer) FinishCriteria(Expression)           {}
func (BaseTransformer) StartCompound(*Compound)             {}
func (BaseTransformer) FinishCompound(*Compound)            {}
func (BaseTransformer) StartCondition(*Condition)           {}
func (BaseTransformer) FinishCondition(*Condition)          {}
func (BaseTransformer) StartJunction(LogicalOperator)       {}
func (BaseTransformer) FinishJunction(LogicalOperator)      {}
func (BaseTransformer) StartOrder(*Order)                   {}
func (BaseTransformer) FinishOrder(*Order)                  {}
func (BaseTransformer) StartOrderRule(OrderRule)            {}
func (BaseTransformer) FinishOrderRule(OrderRule)           {}

var _ Transformer = BaseTransformer{}

// Transform walks f and reports every node to t.
func Transform(f *DynamicFinder, t Transformer) {
	t.StartTransformation(f)

	t.StartSelection(f.Selection)
	t.FinishSelection(f.Selection)

	if f.Criteria != nil {
		t.StartCriteria(f.Criteria)
		walkExpression(f.Criteria, t)
		t.FinishCriteria(f.Criteria)
	}

	if f.Order != nil {
		t.StartOrder(f.Order)
		for _, r := range f.Order.Rules {
			t.StartOrderRule(r)
			t.FinishOrderRule(r)
		}
		t.FinishOrder(f.Order)
	}

	t.FinishTransformation(f)
}

func walkExpression(e Expression, t Transformer) {
	switch e := e.(type) {
	case *Condition:
		t.StartCondition(e)
		t.FinishCondition(e)
	case *Compound:
		t.StartCompound(e)
		walkExpression(e.First, t)
		for _, j := range e.Rest {
			t.StartJunction(j.Operator)
			walkExpression(j.Expression, t)
			t.FinishJunction(j.Operator)
		}
		t.FinishCompound(e)
	}
}

// Render transforms f with r and returns the rendered statement and settings.
func Render(f *DynamicFinder, r Renderer) (string, []string) {
	Transform(f, r)
	return r.Statement(), r.QuerySettings()
}
