package condition

import "encoding/xml"

// xmlDocument is the XML mirror of Document (§4.7, §6 "Structured
// document"). Element names mirror the Document/ValueGroupDoc key names
// exactly: <fields> wraps <field name="…">, <single-values> wraps <value>,
// <ranges> wraps <range> with child <lower inclusive="…">/<upper
// inclusive="…">, <pattern-matchers> wraps <pattern-matcher type="…"
// case-insensitive="…">, and <groups> wraps nested <group logical="…">.
type xmlDocument struct {
	XMLName xml.Name   `xml:"condition"`
	Logical string     `xml:"logical,attr,omitempty"`
	Fields  *xmlFields `xml:"fields"`
	Groups  *xmlGroups `xml:"groups"`
}

type xmlFields struct {
	Fields []xmlField `xml:"field"`
}

type xmlField struct {
	Name            string             `xml:"name,attr"`
	SingleValues    *xmlValueList      `xml:"single-values"`
	ExcludedValues  *xmlValueList      `xml:"excluded-values"`
	Ranges          *xmlRangeList      `xml:"ranges"`
	ExcludedRanges  *xmlRangeList      `xml:"excluded-ranges"`
	Comparisons     *xmlComparisonList `xml:"comparisons"`
	PatternMatchers *xmlPatternList    `xml:"pattern-matchers"`
}

type xmlValueList struct {
	Values []string `xml:"value"`
}

type xmlRangeList struct {
	Ranges []xmlRange `xml:"range"`
}

type xmlRange struct {
	Lower xmlBound `xml:"lower"`
	Upper xmlBound `xml:"upper"`
}

// xmlBound is a range endpoint: the value as chardata, inclusivity as the
// literal string "true"/"false" attribute named in §6. Inclusive is a
// pointer so a hand-authored document that omits the attribute decodes to
// the spec's default (inclusive=true) rather than Go's bool zero value.
type xmlBound struct {
	Inclusive *bool  `xml:"inclusive,attr,omitempty"`
	Value     string `xml:",chardata"`
}

type xmlComparisonList struct {
	Comparisons []xmlComparison `xml:"comparison"`
}

type xmlComparison struct {
	Operator string `xml:"operator,attr"`
	Value    string `xml:",chardata"`
}

type xmlPatternList struct {
	Patterns []xmlPattern `xml:"pattern-matcher"`
}

type xmlPattern struct {
	Type            string `xml:"type,attr"`
	CaseInsensitive bool   `xml:"case-insensitive,attr"`
	Value           string `xml:",chardata"`
}

type xmlGroups struct {
	Groups []xmlDocument `xml:"group"`
}

// EncodeXML renders a Condition as XML via the Document model.
func EncodeXML(cond *Condition) ([]byte, error) {
	doc := Encode(cond)
	if doc == nil {
		return nil, nil
	}
	return xml.MarshalIndent(docToXML(doc), "", "  ")
}

// DecodeXML rebuilds a Condition from XML, enforcing the same invariants
// as Decode.
func DecodeXML(data []byte, fieldSet *FieldSet, maxValues, maxGroups, maxDepth int) (*Condition, error) {
	var x xmlDocument
	if err := xml.Unmarshal(data, &x); err != nil {
		return nil, NewInputProcessorError(err.Error())
	}
	return Decode(xmlToDoc(&x), fieldSet, maxValues, maxGroups, maxDepth)
}

func docToXML(doc *Document) *xmlDocument {
	if doc == nil {
		return nil
	}
	x := &xmlDocument{Logical: doc.Logical}

	if keys := sortedKeys(doc.Fields); len(keys) > 0 {
		x.Fields = &xmlFields{}
		for _, name := range keys {
			x.Fields.Fields = append(x.Fields.Fields, fieldToXML(name, doc.Fields[name]))
		}
	}

	if len(doc.Groups) > 0 {
		x.Groups = &xmlGroups{}
		for _, sub := range doc.Groups {
			x.Groups.Groups = append(x.Groups.Groups, *docToXML(sub))
		}
	}
	return x
}

func fieldToXML(name string, vg *ValueGroupDoc) xmlField {
	xf := xmlField{Name: name}

	if len(vg.SingleValues) > 0 {
		xf.SingleValues = &xmlValueList{Values: append([]string(nil), vg.SingleValues...)}
	}
	if len(vg.ExcludedValues) > 0 {
		xf.ExcludedValues = &xmlValueList{Values: append([]string(nil), vg.ExcludedValues...)}
	}
	if len(vg.Ranges) > 0 {
		xf.Ranges = &xmlRangeList{}
		for _, r := range vg.Ranges {
			xf.Ranges.Ranges = append(xf.Ranges.Ranges, xmlRangeFromDoc(r))
		}
	}
	if len(vg.ExcludedRanges) > 0 {
		xf.ExcludedRanges = &xmlRangeList{}
		for _, r := range vg.ExcludedRanges {
			xf.ExcludedRanges.Ranges = append(xf.ExcludedRanges.Ranges, xmlRangeFromDoc(r))
		}
	}
	if len(vg.Comparisons) > 0 {
		xf.Comparisons = &xmlComparisonList{}
		for _, c := range vg.Comparisons {
			xf.Comparisons.Comparisons = append(xf.Comparisons.Comparisons, xmlComparison{Operator: c.Operator, Value: c.Value})
		}
	}
	if len(vg.PatternMatchers) > 0 {
		xf.PatternMatchers = &xmlPatternList{}
		for _, p := range vg.PatternMatchers {
			xf.PatternMatchers.Patterns = append(xf.PatternMatchers.Patterns, xmlPattern{
				Type:            p.Type,
				CaseInsensitive: p.CaseInsensitive,
				Value:           p.Value,
			})
		}
	}
	return xf
}

func xmlToDoc(x *xmlDocument) *Document {
	if x == nil {
		return nil
	}
	doc := &Document{Logical: x.Logical}

	if x.Fields != nil && len(x.Fields.Fields) > 0 {
		doc.Fields = make(map[string]*ValueGroupDoc, len(x.Fields.Fields))
		for _, xf := range x.Fields.Fields {
			doc.Fields[xf.Name] = fieldFromXML(xf)
		}
	}

	if x.Groups != nil {
		for i := range x.Groups.Groups {
			doc.Groups = append(doc.Groups, xmlToDoc(&x.Groups.Groups[i]))
		}
	}
	return doc
}

func fieldFromXML(xf xmlField) *ValueGroupDoc {
	vg := &ValueGroupDoc{}
	if xf.SingleValues != nil {
		vg.SingleValues = xf.SingleValues.Values
	}
	if xf.ExcludedValues != nil {
		vg.ExcludedValues = xf.ExcludedValues.Values
	}
	if xf.Ranges != nil {
		for _, r := range xf.Ranges.Ranges {
			vg.Ranges = append(vg.Ranges, r.toDoc())
		}
	}
	if xf.ExcludedRanges != nil {
		for _, r := range xf.ExcludedRanges.Ranges {
			vg.ExcludedRanges = append(vg.ExcludedRanges, r.toDoc())
		}
	}
	if xf.Comparisons != nil {
		for _, c := range xf.Comparisons.Comparisons {
			vg.Comparisons = append(vg.Comparisons, ComparisonDoc{Value: c.Value, Operator: c.Operator})
		}
	}
	if xf.PatternMatchers != nil {
		for _, p := range xf.PatternMatchers.Patterns {
			vg.PatternMatchers = append(vg.PatternMatchers, PatternMatchDoc{Value: p.Value, Type: p.Type, CaseInsensitive: p.CaseInsensitive})
		}
	}
	return vg
}

func (r xmlRange) toDoc() RangeDoc {
	d := RangeDoc{Lower: r.Lower.Value, Upper: r.Upper.Value}
	if r.Lower.Inclusive != nil && !*r.Lower.Inclusive {
		f := false
		d.InclusiveLower = &f
	}
	if r.Upper.Inclusive != nil && !*r.Upper.Inclusive {
		f := false
		d.InclusiveUpper = &f
	}
	return d
}

func xmlRangeFromDoc(r RangeDoc) xmlRange {
	lowerInclusive := r.InclusiveLower == nil || *r.InclusiveLower
	upperInclusive := r.InclusiveUpper == nil || *r.InclusiveUpper
	return xmlRange{
		Lower: xmlBound{Value: r.Lower, Inclusive: &lowerInclusive},
		Upper: xmlBound{Value: r.Upper, Inclusive: &upperInclusive},
	}
}
