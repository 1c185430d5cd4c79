package condition

// acceptKind enforces a field's declared acceptance of a value kind,
// shared by the FilterQuery parser (parser.go) and the structured codec
// (document.go) so both input paths raise identical UnsupportedValueType
// errors for identical trees (§4.5's assertAccepts).
func acceptKind(cfg FieldConfig, kind string) error {
	switch kind {
	case "range":
		if !cfg.AcceptRanges() {
			return NewUnsupportedValueTypeError(cfg.Name(), kind)
		}
	case "comparison":
		if !cfg.AcceptCompares() {
			return NewUnsupportedValueTypeError(cfg.Name(), kind)
		}
	case "pattern-match":
		if !cfg.AcceptPatternMatch() {
			return NewUnsupportedValueTypeError(cfg.Name(), kind)
		}
	}
	return nil
}

// checkGroupRequiredFields implements §4.5's required-field check for a
// single group level: every fieldset field marked required must appear in
// g, provided g is non-empty (has any fields or subgroups).
func checkGroupRequiredFields(fieldSet *FieldSet, g *Group, groupIdx, level int) error {
	if g.FieldCount() == 0 && len(g.Groups()) == 0 {
		return nil
	}
	for _, name := range fieldSet.All() {
		cfg, ok := fieldSet.Get(name)
		if !ok || !cfg.IsRequired() {
			continue
		}
		if !g.HasField(name) {
			return NewFieldRequiredError(name, groupIdx, level)
		}
	}
	return nil
}
