package condition

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upperTransformer(raw string) (string, error) {
	return strings.ToUpper(raw), nil
}

func TestTransformPass_PopulatesNormalized(t *testing.T) {
	fs := NewFieldSet().
		Field(NewFieldConfig("field1").WithTransformers(upperTransformer).Build()).
		Build()

	cond, err := Parse("field1: abc;", fs, 64, 32, 8, nil)
	require.NoError(t, err)

	TransformPass().Run(fs, cond.Root)

	bag := cond.Root.GetField("field1")
	assert.Equal(t, "ABC", bag.Singles()[0].Normalized)
}

func failingTransformer(string) (string, error) {
	return "", assert.AnError
}

func TestTransformPass_AttachesErrorOnFailure(t *testing.T) {
	fs := NewFieldSet().
		Field(NewFieldConfig("field1").WithTransformers(failingTransformer).Build()).
		Build()

	cond, err := Parse("field1: abc;", fs, 64, 32, 8, nil)
	require.NoError(t, err)

	TransformPass().Run(fs, cond.Root)

	bag := cond.Root.GetField("field1")
	assert.True(t, bag.HasErrors())
}

func TestDuplicateRemoverPass_DropsDuplicateSingles(t *testing.T) {
	fs := testFieldSet()
	cond, err := Parse("field1: a, a, b;", fs, 64, 32, 8, nil)
	require.NoError(t, err)

	DuplicateRemoverPass().Run(fs, cond.Root)

	bag := cond.Root.GetField("field1")
	require.Len(t, bag.Singles(), 2)
	assert.Equal(t, "a", bag.Singles()[0].Raw)
	assert.Equal(t, "b", bag.Singles()[1].Raw)
}

func TestDuplicateRemoverPass_DropsDuplicateComparisonsAndPatterns(t *testing.T) {
	fs := testFieldSet()
	cb := Create(fs)
	cb.Field("field1").
		AddComparison(OpGreaterThan, "5").
		AddComparison(OpGreaterThan, "5").
		AddComparison(OpLessThan, "5").
		AddPatternMatch(PatternContains, "bla", false).
		AddPatternMatch(PatternContains, "bla", false).
		AddPatternMatch(PatternContains, "bla", true).
		End()
	cond := cb.GetCondition()

	DuplicateRemoverPass().Run(fs, cond.Root)

	bag := cond.Root.GetField("field1")
	assert.Len(t, bag.Comparisons(), 2)
	assert.Len(t, bag.PatternMatches(), 2)
}

func TestValidatePass_RejectsInvalidRegex(t *testing.T) {
	fs := testFieldSet()
	cond, err := Parse(`field1: ~?"(unclosed";`, fs, 64, 32, 8, nil)
	require.NoError(t, err)

	ValidatePass().Run(fs, cond.Root)

	bag := cond.Root.GetField("field1")
	assert.True(t, bag.HasErrors())
}

func nextDigit(value string) (string, bool) {
	n := len(value)
	if n == 0 {
		return "", false
	}
	d := value[n-1]
	if d < '0' || d > '9' || d == '9' {
		return "", false
	}
	return value[:n-1] + string(d+1), true
}

func TestValuesToRangePass_CoalescesContiguousSingles(t *testing.T) {
	fs := NewFieldSet().
		Field(NewFieldConfig("field1").AcceptRanges().WithSuccessor(nextDigit).Build()).
		Build()

	cond, err := Parse("field1: 1, 2, 3;", fs, 64, 32, 8, nil)
	require.NoError(t, err)

	ValuesToRangePass().Run(fs, cond.Root)

	bag := cond.Root.GetField("field1")
	assert.Empty(t, bag.Singles())
	require.Len(t, bag.Ranges(), 1)
	assert.Equal(t, "1", bag.Ranges()[0].Lower.Raw)
	assert.Equal(t, "3", bag.Ranges()[0].Upper.Raw)
}

func TestRangeOptimizerPass_DropsExactDuplicates(t *testing.T) {
	fs := testFieldSet()
	cb := Create(fs)
	cb.Field("field1").AddRange("1", "10").AddRange("1", "10").End()
	cond := cb.GetCondition()

	RangeOptimizerPass().Run(fs, cond.Root)

	bag := cond.Root.GetField("field1")
	assert.Len(t, bag.Ranges(), 1)
}

func TestRangeOptimizerPass_MergesAdjacentRangesWithSuccessor(t *testing.T) {
	fs := NewFieldSet().
		Field(NewFieldConfig("field1").AcceptRanges().WithSuccessor(nextDigit).Build()).
		Build()
	cb := Create(fs)
	cb.Field("field1").AddRange("1", "3").AddRange("4", "6").End()
	cond := cb.GetCondition()

	RangeOptimizerPass().Run(fs, cond.Root)

	bag := cond.Root.GetField("field1")
	require.Len(t, bag.Ranges(), 1)
	assert.Equal(t, "1", bag.Ranges()[0].Lower.Raw)
	assert.Equal(t, "6", bag.Ranges()[0].Upper.Raw)
}

func TestRangeOptimizerPass_DropsContainedRange(t *testing.T) {
	fs := NewFieldSet().
		Field(NewFieldConfig("field1").AcceptRanges().WithSuccessor(nextDigit).Build()).
		Build()
	cb := Create(fs)
	cb.Field("field1").AddRange("1", "9").AddRange("3", "5").End()
	cond := cb.GetCondition()

	RangeOptimizerPass().Run(fs, cond.Root)

	bag := cond.Root.GetField("field1")
	require.Len(t, bag.Ranges(), 1)
	assert.Equal(t, "1", bag.Ranges()[0].Lower.Raw)
	assert.Equal(t, "9", bag.Ranges()[0].Upper.Raw)
}

func TestRangeOptimizerPass_DropsExcludedRangeForbiddenAlready(t *testing.T) {
	fs := NewFieldSet().
		Field(NewFieldConfig("field1").AcceptRanges().WithSuccessor(nextDigit).Build()).
		Build()
	cb := Create(fs)
	cb.Field("field1").AddRange("1", "3").AddExcludedRange("7", "9").End()
	cond := cb.GetCondition()

	RangeOptimizerPass().Run(fs, cond.Root)

	bag := cond.Root.GetField("field1")
	assert.Empty(t, bag.ExcludedRanges())
}

func TestDefaultPipeline_ShortCircuitsOnError(t *testing.T) {
	fs := NewFieldSet().
		Field(NewFieldConfig("field1").WithTransformers(failingTransformer).Build()).
		Build()

	cond, err := Parse("field1: abc;", fs, 64, 32, 8, nil)
	require.NoError(t, err)

	DefaultPipeline(fs).Run(fs, cond)

	assert.True(t, cond.HasErrors())
}
