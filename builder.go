package condition

// ConditionBuilder assembles a Condition fluently (§4.9). Group scopes are
// tracked with an explicit stack rather than cyclic parent pointers on
// Group itself (Design Notes, "Cyclic parent references in builders"): the
// stack lives only on the builder and never becomes part of the Condition
// that GetCondition returns.
type ConditionBuilder struct {
	fieldSet *FieldSet
	root     *Group
	stack    []*Group
}

// Create starts a ConditionBuilder rooted at an empty AND group.
func Create(fieldSet *FieldSet) *ConditionBuilder {
	root := NewGroup()
	return &ConditionBuilder{fieldSet: fieldSet, root: root, stack: []*Group{root}}
}

func (cb *ConditionBuilder) current() *Group {
	return cb.stack[len(cb.stack)-1]
}

// Field opens a ValuesBuilder scope for name within the current group
// scope. A second call for the same name in the same scope reuses the
// existing bag (merging further values into it) unless forceNew is true.
func (cb *ConditionBuilder) Field(name string, forceNew ...bool) *ValuesBuilder {
	g := cb.current()
	force := len(forceNew) > 0 && forceNew[0]

	bag := g.GetField(name)
	if bag == nil || force {
		bag = NewBag()
		g.AddField(name, bag)
	}
	return &ValuesBuilder{parent: cb, bag: bag}
}

// Group opens a nested group scope (AND by default) as a subgroup of the
// current scope. Every Group call must be matched by a later End call.
func (cb *ConditionBuilder) Group(logical ...Logical) *ConditionBuilder {
	l := LogicalAnd
	if len(logical) > 0 {
		l = logical[0]
	}
	child := NewGroup()
	child.SetLogical(l)
	cb.current().AddGroup(child)
	cb.stack = append(cb.stack, child)
	return cb
}

// End closes the innermost open Group scope and returns to its parent. It
// is a no-op once back at the root scope.
func (cb *ConditionBuilder) End() *ConditionBuilder {
	if len(cb.stack) > 1 {
		cb.stack = cb.stack[:len(cb.stack)-1]
	}
	return cb
}

// GetCondition returns the built Condition.
func (cb *ConditionBuilder) GetCondition() *Condition {
	return &Condition{FieldSet: cb.fieldSet, Root: cb.root}
}

// ValuesBuilder accumulates values onto one field's Bag within a
// ConditionBuilder scope.
type ValuesBuilder struct {
	parent *ConditionBuilder
	bag    *Bag
}

// AddSingle appends an included single value built from raw.
func (vb *ValuesBuilder) AddSingle(raw string) *ValuesBuilder {
	vb.bag.AddSingle(NewSingleValue(raw))
	return vb
}

// AddExcludedSingle appends an excluded single value.
func (vb *ValuesBuilder) AddExcludedSingle(raw string) *ValuesBuilder {
	vb.bag.AddExcludedSingle(NewSingleValue(raw))
	return vb
}

// AddRange appends an included, both-bounds-inclusive range.
func (vb *ValuesBuilder) AddRange(lower, upper string) *ValuesBuilder {
	vb.bag.AddRange(NewRange(NewSingleValue(lower), NewSingleValue(upper)))
	return vb
}

// AddExcludedRange appends an excluded, both-bounds-inclusive range.
func (vb *ValuesBuilder) AddExcludedRange(lower, upper string) *ValuesBuilder {
	vb.bag.AddExcludedRange(NewRange(NewSingleValue(lower), NewSingleValue(upper)))
	return vb
}

// AddRangeExclusive appends an included range with explicit per-bound
// inclusivity.
func (vb *ValuesBuilder) AddRangeExclusive(lower, upper string, lowerInclusive, upperInclusive bool) *ValuesBuilder {
	vb.bag.AddRange(Range{
		Lower:          NewSingleValue(lower),
		Upper:          NewSingleValue(upper),
		LowerInclusive: lowerInclusive,
		UpperInclusive: upperInclusive,
	})
	return vb
}

// AddComparison appends a relational comparison.
func (vb *ValuesBuilder) AddComparison(op ComparisonOperator, operand string) *ValuesBuilder {
	vb.bag.AddComparison(Comparison{Operand: NewSingleValue(operand), Operator: op})
	return vb
}

// AddPatternMatch appends a pattern-match value.
func (vb *ValuesBuilder) AddPatternMatch(kind PatternMatchKind, pattern string, caseInsensitive bool) *ValuesBuilder {
	vb.bag.AddPatternMatch(PatternMatch{Pattern: NewSingleValue(pattern), Kind: kind, CaseInsensitive: caseInsensitive})
	return vb
}

// End closes the field scope and returns to the enclosing ConditionBuilder.
func (vb *ValuesBuilder) End() *ConditionBuilder {
	return vb.parent
}
