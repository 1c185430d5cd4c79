package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroup_AddFieldPreservesOrder(t *testing.T) {
	g := NewGroup()
	g.AddField("b", NewBag())
	g.AddField("a", NewBag())
	g.AddField("b", NewBag())

	assert.Equal(t, []string{"b", "a"}, g.Fields())
	assert.Equal(t, 2, g.FieldCount())
}

func TestGroup_HasErrorsRecursesIntoSubgroups(t *testing.T) {
	root := NewGroup()
	child := NewGroup()
	bag := NewBag()
	bag.AddError(&ValuesError{Pass: "validate", Field: "field1", Message: "bad"})
	child.AddField("field1", bag)
	root.AddGroup(child)

	assert.True(t, root.HasErrors())
}

func TestGroup_Walk(t *testing.T) {
	root := NewGroup()
	child := NewGroup()
	root.AddGroup(child)

	var visited []*Group
	root.Walk(func(g *Group) {
		visited = append(visited, g)
	})

	assert.Equal(t, []*Group{root, child}, visited)
}

func TestCondition_HasErrorsNilSafe(t *testing.T) {
	var cond *Condition
	assert.False(t, cond.HasErrors())

	cond = NewCondition(testFieldSet())
	assert.False(t, cond.HasErrors())
}
