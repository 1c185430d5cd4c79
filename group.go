package condition

// Logical selects a group's boolean combinator (§3).
type Logical string

const (
	LogicalAnd Logical = "AND"
	LogicalOr  Logical = "OR"
)

// Group is a tree node holding a field→Bag mapping plus ordered subgroups,
// tagged AND or OR (§4.2). A Group owns its bags and subgroups exclusively;
// there is no shared ownership across groups.
type Group struct {
	logical   Logical
	order     []string
	fields    map[string]*Bag
	subgroups []*Group
}

// NewGroup returns an empty AND group.
func NewGroup() *Group {
	return &Group{logical: LogicalAnd, fields: make(map[string]*Bag)}
}

// AddField installs bag under name, replacing any existing bag for that
// name. Callers wanting to merge into an existing bag must read-modify via
// GetField first (§4.2) — this mirrors the parser's own merge behavior when
// a field name repeats within a group.
func (g *Group) AddField(name string, bag *Bag) {
	if _, exists := g.fields[name]; !exists {
		g.order = append(g.order, name)
	}
	g.fields[name] = bag
}

// GetField returns the bag registered for name, or nil if none exists.
func (g *Group) GetField(name string) *Bag {
	return g.fields[name]
}

// HasField reports whether name has a registered bag.
func (g *Group) HasField(name string) bool {
	_, ok := g.fields[name]
	return ok
}

// Fields returns field names in insertion order.
func (g *Group) Fields() []string {
	return append([]string(nil), g.order...)
}

// FieldCount returns the number of distinct fields registered in this group.
func (g *Group) FieldCount() int {
	return len(g.order)
}

// AddGroup appends a subgroup, preserving insertion order.
func (g *Group) AddGroup(child *Group) {
	g.subgroups = append(g.subgroups, child)
}

// Groups returns the subgroup sequence in insertion order.
func (g *Group) Groups() []*Group {
	return g.subgroups
}

// SetLogical sets the group's combinator.
func (g *Group) SetLogical(l Logical) {
	g.logical = l
}

// GetLogical returns the group's combinator.
func (g *Group) GetLogical() Logical {
	return g.logical
}

// HasErrors reports true iff any of this group's own bags have errors, or
// any subgroup (recursively) has errors.
func (g *Group) HasErrors() bool {
	for _, name := range g.order {
		if g.fields[name].HasErrors() {
			return true
		}
	}
	for _, sub := range g.subgroups {
		if sub.HasErrors() {
			return true
		}
	}
	return false
}

// Walk visits this group and every descendant subgroup depth-first,
// preserving insertion order. It is used internally by the normalization
// pipeline and is exported because exporters/codecs for other wire formats
// outside this package's scope commonly need the same traversal.
func (g *Group) Walk(visit func(*Group)) {
	visit(g)
	for _, sub := range g.subgroups {
		sub.Walk(visit)
	}
}

// Condition is the triple (field set, root group) named in §3. The field
// set is a borrowed, read-only collaborator for the condition's lifetime;
// the condition owns the group tree.
type Condition struct {
	FieldSet *FieldSet
	Root     *Group
}

// NewCondition returns a Condition with an empty AND root group.
func NewCondition(fieldSet *FieldSet) *Condition {
	return &Condition{FieldSet: fieldSet, Root: NewGroup()}
}

// HasErrors reports whether the condition's tree has any accumulated
// normalization errors.
func (c *Condition) HasErrors() bool {
	if c == nil || c.Root == nil {
		return false
	}
	return c.Root.HasErrors()
}
