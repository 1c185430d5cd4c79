package condition

import (
	"encoding/json"
	"sort"

	"github.com/ettle/strcase"
)

// Document is the structured (map/JSON) mirror of a Group, the alternate
// input/output surface named in §4.7. Field keys follow the bag layout
// order (single-values, excluded-values, ranges, excluded-ranges,
// comparisons, pattern-matchers) via ValueGroupDoc's declared struct field
// order, which encoding/json preserves on marshal.
type Document struct {
	Logical string                    `json:"logical,omitempty"`
	Fields  map[string]*ValueGroupDoc `json:"fields,omitempty"`
	Groups  []*Document               `json:"groups,omitempty"`
}

// ValueGroupDoc is a Bag's structured form.
type ValueGroupDoc struct {
	SingleValues    []string          `json:"single-values,omitempty"`
	ExcludedValues  []string          `json:"excluded-values,omitempty"`
	Ranges          []RangeDoc        `json:"ranges,omitempty"`
	ExcludedRanges  []RangeDoc        `json:"excluded-ranges,omitempty"`
	Comparisons     []ComparisonDoc   `json:"comparisons,omitempty"`
	PatternMatchers []PatternMatchDoc `json:"pattern-matchers,omitempty"`
}

// RangeDoc is a Range's structured form. InclusiveLower/InclusiveUpper are
// omitted (nil) for the inclusive default and present only to record an
// exclusive bound, keeping the common case terse.
type RangeDoc struct {
	Lower          string `json:"lower"`
	Upper          string `json:"upper"`
	InclusiveLower *bool  `json:"inclusive-lower,omitempty"`
	InclusiveUpper *bool  `json:"inclusive-upper,omitempty"`
}

// ComparisonDoc is a Comparison's structured form.
type ComparisonDoc struct {
	Value    string `json:"value"`
	Operator string `json:"operator"`
}

// PatternMatchDoc is a PatternMatch's structured form. Type carries the
// full PatternMatchKind tag (e.g. "NOT_CONTAINS"); there is no separate
// negation flag, matching Design Notes' resolution for Kind.Exclusive.
type PatternMatchDoc struct {
	Value           string `json:"value"`
	Type            string `json:"type"`
	CaseInsensitive bool   `json:"case-insensitive,omitempty"`
}

// Encode renders a Condition's group tree as a Document (§4.7).
func Encode(cond *Condition) *Document {
	if cond == nil || cond.Root == nil {
		return nil
	}
	return encodeGroup(cond.Root)
}

func encodeGroup(g *Group) *Document {
	doc := &Document{}
	if g.GetLogical() == LogicalOr {
		doc.Logical = string(LogicalOr)
	}

	if names := g.Fields(); len(names) > 0 {
		doc.Fields = make(map[string]*ValueGroupDoc, len(names))
		for _, name := range names {
			doc.Fields[name] = encodeValueGroup(g.GetField(name))
		}
	}

	for _, sub := range g.Groups() {
		doc.Groups = append(doc.Groups, encodeGroup(sub))
	}
	return doc
}

func encodeValueGroup(bag *Bag) *ValueGroupDoc {
	vg := &ValueGroupDoc{}
	for _, v := range bag.Singles() {
		vg.SingleValues = append(vg.SingleValues, v.Raw)
	}
	for _, v := range bag.ExcludedSingles() {
		vg.ExcludedValues = append(vg.ExcludedValues, v.Raw)
	}
	for _, r := range bag.Ranges() {
		vg.Ranges = append(vg.Ranges, rangeToDoc(r))
	}
	for _, r := range bag.ExcludedRanges() {
		vg.ExcludedRanges = append(vg.ExcludedRanges, rangeToDoc(r))
	}
	for _, c := range bag.Comparisons() {
		vg.Comparisons = append(vg.Comparisons, ComparisonDoc{Value: c.Operand.Raw, Operator: string(c.Operator)})
	}
	for _, pm := range bag.PatternMatches() {
		vg.PatternMatchers = append(vg.PatternMatchers, PatternMatchDoc{
			Value:           pm.Pattern.Raw,
			Type:            string(pm.Kind),
			CaseInsensitive: pm.CaseInsensitive,
		})
	}
	return vg
}

func rangeToDoc(r Range) RangeDoc {
	d := RangeDoc{Lower: r.Lower.Raw, Upper: r.Upper.Raw}
	if !r.LowerInclusive {
		f := false
		d.InclusiveLower = &f
	}
	if !r.UpperInclusive {
		f := false
		d.InclusiveUpper = &f
	}
	return d
}

// EncodeJSON is Encode followed by json.Marshal.
func EncodeJSON(cond *Condition) ([]byte, error) {
	return json.Marshal(Encode(cond))
}

// Decode rebuilds a Condition from a Document against fieldSet, enforcing
// the same maxValues/maxGroups/maxDepth/required-field invariants as Parse
// (§4.5, §4.7). Field keys are matched against fieldSet as-is first, then
// via strcase.ToSnake, so a caller may submit "orderDate" for a field
// registered as "order_date".
func Decode(doc *Document, fieldSet *FieldSet, maxValues, maxGroups, maxDepth int) (*Condition, error) {
	if doc == nil {
		return nil, nil
	}
	root, err := decodeGroup(doc, fieldSet, maxValues, maxGroups, maxDepth, 0, 0)
	if err != nil {
		return nil, err
	}
	return &Condition{FieldSet: fieldSet, Root: root}, nil
}

// DecodeJSON is json.Unmarshal followed by Decode.
func DecodeJSON(data []byte, fieldSet *FieldSet, maxValues, maxGroups, maxDepth int) (*Condition, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, NewInputProcessorError(err.Error())
	}
	return Decode(&doc, fieldSet, maxValues, maxGroups, maxDepth)
}

func decodeGroup(doc *Document, fieldSet *FieldSet, maxValues, maxGroups, maxDepth, depth, groupIdx int) (*Group, error) {
	g := NewGroup()
	if doc.Logical == string(LogicalOr) {
		g.SetLogical(LogicalOr)
	}

	for _, key := range sortedKeys(doc.Fields) {
		name := resolveFieldName(fieldSet, key)
		if !fieldSet.Has(name) {
			return nil, NewUnknownFieldError(key)
		}
		cfg, _ := fieldSet.Get(name)
		bag, err := decodeValueGroup(name, doc.Fields[key], cfg, maxValues, groupIdx, depth)
		if err != nil {
			return nil, err
		}
		g.AddField(name, bag)
	}

	if len(doc.Groups) > maxGroups {
		return nil, NewGroupsOverflowError(maxGroups, len(doc.Groups), groupIdx, depth)
	}
	newDepth := depth + 1
	if len(doc.Groups) > 0 && newDepth > maxDepth {
		return nil, NewGroupsNestingError(maxDepth, groupIdx, newDepth)
	}
	for i, childDoc := range doc.Groups {
		child, err := decodeGroup(childDoc, fieldSet, maxValues, maxGroups, maxDepth, newDepth, i)
		if err != nil {
			return nil, err
		}
		g.AddGroup(child)
	}

	if err := checkGroupRequiredFields(fieldSet, g, groupIdx, depth); err != nil {
		return nil, err
	}
	return g, nil
}

func decodeValueGroup(name string, vg *ValueGroupDoc, cfg FieldConfig, maxValues, groupIdx, depth int) (*Bag, error) {
	bag := NewBag()
	if vg == nil {
		return bag, nil
	}

	for _, s := range vg.SingleValues {
		bag.AddSingle(NewSingleValue(s))
	}
	for _, s := range vg.ExcludedValues {
		bag.AddExcludedSingle(NewSingleValue(s))
	}
	for _, rd := range vg.Ranges {
		if err := acceptKind(cfg, "range"); err != nil {
			return nil, err
		}
		bag.AddRange(rangeFromDoc(rd))
	}
	for _, rd := range vg.ExcludedRanges {
		if err := acceptKind(cfg, "range"); err != nil {
			return nil, err
		}
		bag.AddExcludedRange(rangeFromDoc(rd))
	}
	for _, cd := range vg.Comparisons {
		if err := acceptKind(cfg, "comparison"); err != nil {
			return nil, err
		}
		bag.AddComparison(Comparison{Operand: NewSingleValue(cd.Value), Operator: ComparisonOperator(cd.Operator)})
	}
	for _, pd := range vg.PatternMatchers {
		if err := acceptKind(cfg, "pattern-match"); err != nil {
			return nil, err
		}
		bag.AddPatternMatch(PatternMatch{
			Pattern:         NewSingleValue(pd.Value),
			Kind:            PatternMatchKind(pd.Type),
			CaseInsensitive: pd.CaseInsensitive,
		})
	}

	if bag.Count() > maxValues {
		return nil, NewValuesOverflowError(name, maxValues, bag.Count(), groupIdx, depth)
	}
	return bag, nil
}

func rangeFromDoc(d RangeDoc) Range {
	lowerIncl := d.InclusiveLower == nil || *d.InclusiveLower
	upperIncl := d.InclusiveUpper == nil || *d.InclusiveUpper
	return Range{
		Lower:          NewSingleValue(d.Lower),
		Upper:          NewSingleValue(d.Upper),
		LowerInclusive: lowerIncl,
		UpperInclusive: upperIncl,
	}
}

func resolveFieldName(fieldSet *FieldSet, key string) string {
	if fieldSet.Has(key) {
		return key
	}
	if snake := strcase.ToSnake(key); fieldSet.Has(snake) {
		return snake
	}
	return key
}

func sortedKeys(m map[string]*ValueGroupDoc) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
