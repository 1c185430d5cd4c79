package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_DefaultsAndProcess(t *testing.T) {
	p := NewProcessor(testFieldSet())

	cond, err := p.Process("field1: value;")
	require.NoError(t, err)
	require.NotNil(t, cond)
	assert.Equal(t, "value", cond.Root.GetField("field1").Singles()[0].Raw)
}

func TestProcessor_WithMaxValuesOption(t *testing.T) {
	p := NewProcessor(testFieldSet(), WithMaxValues(1))

	_, err := p.Process("field1: a, b;")
	require.Error(t, err)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, KindValuesOverflow, cerr.Kind)
	assert.NotEmpty(t, cerr.Metadata["traceID"])
}

func TestProcessor_WithConfigMerge(t *testing.T) {
	p := NewProcessor(testFieldSet(), WithConfig(ProcessorConfig{MaxDepth: 1}))

	assert.Equal(t, 1, p.cfg.MaxDepth)
	assert.Equal(t, defaultProcessorConfig().MaxValues, p.cfg.MaxValues)
}

func TestNewProcessor_DefaultsMatchSpecLimits(t *testing.T) {
	p := NewProcessor(testFieldSet())

	assert.Equal(t, 100, p.cfg.MaxValues)
	assert.Equal(t, 100, p.cfg.MaxGroups)
	assert.Equal(t, 100, p.cfg.MaxDepth)
}

func TestProcessor_ProcessAndNormalize(t *testing.T) {
	fs := NewFieldSet().
		Field(NewFieldConfig("field1").WithTransformers(upperTransformer).Build()).
		Build()
	p := NewProcessor(fs)

	cond, err := p.ProcessAndNormalize("field1: abc;")
	require.NoError(t, err)
	assert.Equal(t, "ABC", cond.Root.GetField("field1").Singles()[0].Normalized)
}

func TestProcessor_EmptyInputReturnsNilCondition(t *testing.T) {
	p := NewProcessor(testFieldSet())

	cond, err := p.ProcessAndNormalize("")
	require.NoError(t, err)
	assert.Nil(t, cond)
}
