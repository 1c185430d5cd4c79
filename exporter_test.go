package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIfNeeded(t *testing.T) {
	cases := []struct {
		raw      string
		expected string
	}{
		{"value", "value"},
		{"v3", "v3"},
		{"value2", "value2"},
		{"10", "10"},
		{"10.00", "10.00"},
		{"10,00", `"10,00"`},
		{"value ", `"value "`},
		{"-value2", `"-value2"`},
		{"value2-", `"value2-"`},
		{`doctor"who""`, `"doctor""who"""""`},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, quoteIfNeeded(c.raw), "raw=%q", c.raw)
	}
}

func TestExport_RangeInclusivity(t *testing.T) {
	cb := Create(testFieldSet())
	cb.Field("field1").
		AddRange("10", "20").
		AddRangeExclusive("30", "50", true, false).
		AddRangeExclusive("30", "50", false, true).
		End()

	out := Export(cb.GetCondition())
	assert.Equal(t, "field1: 10-20, 30-50[, ]30-50;", out)
}

func TestExport_PatternMatch(t *testing.T) {
	cb := Create(testFieldSet())
	cb.Field("field1").
		AddPatternMatch(PatternNotContains, "bla", true).
		End()

	out := Export(cb.GetCondition())
	assert.Equal(t, "field1: ~i!*bla;", out)
}

func TestExport_OrSubgroupWrapped(t *testing.T) {
	input := `*(field1: value, value2);`
	cond, err := Parse(input, testFieldSet(), 64, 32, 8, nil)
	require.NoError(t, err)

	assert.Equal(t, input, Export(cond))
}

func TestExport_NestedGroupRoundTrip(t *testing.T) {
	input := `field1: value;(field1: v3, v4);`
	cond, err := Parse(input, testFieldSet(), 64, 32, 8, nil)
	require.NoError(t, err)

	assert.Equal(t, input, Export(cond))
}

func TestExport_WithLabelResolver(t *testing.T) {
	fs := NewFieldSet().Field(NewFieldConfig("order_date").Build()).Build()
	cb := Create(fs)
	cb.Field("order_date").AddSingle("2020-01-01").End()

	out := Export(cb.GetCondition(), WithLabelResolver(DefaultLabelResolver(fs)))
	assert.Equal(t, `Order Date: "2020-01-01";`, out)
}
