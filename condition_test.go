package condition

// testFieldSet builds the FieldSet shared by the parser, exporter, and
// codec tests: field1 accepts every value kind, field2 only plain values,
// required_field must appear in any non-empty group.
func testFieldSet() *FieldSet {
	return NewFieldSet().
		Field(NewFieldConfig("field1").AcceptRanges().AcceptCompares().AcceptPatternMatch().Build()).
		Field(NewFieldConfig("field2").Build()).
		Build()
}

func testFieldSetWithRequired() *FieldSet {
	return NewFieldSet().
		Field(NewFieldConfig("field1").AcceptRanges().AcceptCompares().AcceptPatternMatch().Build()).
		Field(NewFieldConfig("required_field").Required().Build()).
		Build()
}
