package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBag_AddAndCount(t *testing.T) {
	b := NewBag()
	b.AddSingle(NewSingleValue("a"))
	b.AddExcludedSingle(NewSingleValue("b"))
	b.AddRange(NewRange(NewSingleValue("1"), NewSingleValue("10")))
	b.AddExcludedRange(NewRange(NewSingleValue("20"), NewSingleValue("30")))
	b.AddComparison(Comparison{Operand: NewSingleValue("5"), Operator: OpGreaterThan})
	b.AddPatternMatch(PatternMatch{Pattern: NewSingleValue("foo"), Kind: PatternContains})

	assert.Equal(t, 6, b.Count())
	assert.False(t, b.HasErrors())
}

func TestBag_RemoveAtPreservesOrder(t *testing.T) {
	b := NewBag()
	b.AddSingle(NewSingleValue("a"))
	b.AddSingle(NewSingleValue("b"))
	b.AddSingle(NewSingleValue("c"))

	b.RemoveSingle(1)

	values := b.Singles()
	assert.Len(t, values, 2)
	assert.Equal(t, "a", values[0].Raw)
	assert.Equal(t, "c", values[1].Raw)
}

func TestBag_RemoveOutOfRangeIsNoop(t *testing.T) {
	b := NewBag()
	b.AddSingle(NewSingleValue("a"))

	b.RemoveSingle(5)
	b.RemoveSingle(-1)

	assert.Len(t, b.Singles(), 1)
}

func TestBag_Errors(t *testing.T) {
	b := NewBag()
	assert.False(t, b.HasErrors())

	b.AddError(&ValuesError{Pass: "validate", Field: "field1", Message: "bad"})
	assert.True(t, b.HasErrors())
	assert.Len(t, b.Errors(), 1)
}
