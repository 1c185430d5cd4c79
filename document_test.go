package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRoundTrip(t *testing.T) {
	fs := testFieldSet()
	cb := Create(fs)
	cb.Field("field1").
		AddSingle("value").
		AddExcludedSingle("other").
		AddRangeExclusive("1", "10", false, false).
		AddComparison(OpGreaterThan, "5").
		AddPatternMatch(PatternContains, "bla", false).
		End().
		Group(LogicalOr).
		Field("field1").AddSingle("v3").End().
		End()

	cond := cb.GetCondition()

	doc := Encode(cond)
	require.NotNil(t, doc)

	decoded, err := Decode(doc, fs, 64, 32, 8)
	require.NoError(t, err)

	assert.Equal(t, Export(cond), Export(decoded))
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	fs := testFieldSet()
	cb := Create(fs)
	cb.Field("field1").AddSingle("value").AddSingle("value2").End()
	cond := cb.GetCondition()

	data, err := EncodeJSON(cond)
	require.NoError(t, err)

	decoded, err := DecodeJSON(data, fs, 64, 32, 8)
	require.NoError(t, err)

	assert.Equal(t, Export(cond), Export(decoded))
}

func TestDocumentXMLRoundTrip(t *testing.T) {
	fs := testFieldSet()
	cb := Create(fs)
	cb.Field("field1").AddSingle("value").AddRange("1", "10").End()
	cond := cb.GetCondition()

	data, err := EncodeXML(cond)
	require.NoError(t, err)

	decoded, err := DecodeXML(data, fs, 64, 32, 8)
	require.NoError(t, err)

	assert.Equal(t, Export(cond), Export(decoded))
}

func TestDocumentXML_MatchesDocumentedSchema(t *testing.T) {
	fs := testFieldSet()
	cb := Create(fs)
	cb.Field("field1").
		AddSingle("value").
		AddExcludedSingle("other").
		AddRange("1", "10").
		AddComparison(OpGreaterThan, "5").
		AddPatternMatch(PatternContains, "bla", false).
		End()
	cond := cb.GetCondition()

	data, err := EncodeXML(cond)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "<fields>")
	assert.Contains(t, out, `<field name="field1">`)
	assert.Contains(t, out, "<single-values>")
	assert.Contains(t, out, "<value>value</value>")
	assert.Contains(t, out, "<excluded-values>")
	assert.Contains(t, out, "<ranges>")
	assert.Contains(t, out, `<lower inclusive="true">1</lower>`)
	assert.Contains(t, out, `<upper inclusive="true">10</upper>`)
	assert.Contains(t, out, "<comparisons>")
	assert.Contains(t, out, `<comparison operator="&gt;">5</comparison>`)
	assert.Contains(t, out, "<pattern-matchers>")
	assert.Contains(t, out, `<pattern-matcher type="CONTAINS" case-insensitive="false">bla</pattern-matcher>`)
}

func TestDecodeXML_OmittedInclusiveAttributeDefaultsToTrue(t *testing.T) {
	fs := testFieldSet()
	data := []byte(`<condition><fields><field name="field1"><ranges><range><lower>1</lower><upper>10</upper></range></ranges></field></fields></condition>`)

	cond, err := DecodeXML(data, fs, 64, 32, 8)
	require.NoError(t, err)

	r := cond.Root.GetField("field1").Ranges()[0]
	assert.True(t, r.LowerInclusive)
	assert.True(t, r.UpperInclusive)
}

func TestDecode_ResolvesFieldKeyViaSnakeCaseFallback(t *testing.T) {
	fs := NewFieldSet().Field(NewFieldConfig("order_date").Build()).Build()

	doc := &Document{
		Fields: map[string]*ValueGroupDoc{
			"orderDate": {SingleValues: []string{"2020-01-01"}},
		},
	}

	cond, err := Decode(doc, fs, 64, 32, 8)
	require.NoError(t, err)
	assert.True(t, cond.Root.HasField("order_date"))
}

func TestDecode_UnsupportedValueType(t *testing.T) {
	fs := testFieldSet()
	doc := &Document{
		Fields: map[string]*ValueGroupDoc{
			"field2": {Ranges: []RangeDoc{{Lower: "1", Upper: "10"}}},
		},
	}

	_, err := Decode(doc, fs, 64, 32, 8)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, KindUnsupportedValueType, cerr.Kind)
}
