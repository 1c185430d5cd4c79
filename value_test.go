package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatternMatchKind_NegateRoundTrips(t *testing.T) {
	for _, kind := range []PatternMatchKind{PatternContains, PatternStartsWith, PatternEndsWith, PatternRegex} {
		negated := kind.Negate()
		assert.True(t, negated.Exclusive())
		assert.False(t, kind.Exclusive())
		assert.Equal(t, kind, negated.Negate())
	}
}

func TestPatternKindFromSymbol(t *testing.T) {
	cases := []struct {
		symbol   byte
		negated  bool
		expected PatternMatchKind
	}{
		{'*', false, PatternContains},
		{'*', true, PatternNotContains},
		{'>', false, PatternStartsWith},
		{'<', false, PatternEndsWith},
		{'?', true, PatternNotRegex},
	}
	for _, c := range cases {
		kind, ok := patternKindFromSymbol(c.symbol, c.negated)
		assert.True(t, ok)
		assert.Equal(t, c.expected, kind)
	}

	_, ok := patternKindFromSymbol('x', false)
	assert.False(t, ok)
}

func TestDefaultValueComparison(t *testing.T) {
	vc := DefaultValueComparison()
	assert.True(t, vc.Equal("a", "a"))
	assert.False(t, vc.Equal("a", "b"))
}

func TestSingleValue_NormalizedOrRaw(t *testing.T) {
	v := NewSingleValue("raw")
	assert.Equal(t, "raw", v.normalizedOrRaw())

	v.Normalized = "norm"
	assert.Equal(t, "norm", v.normalizedOrRaw())
}
