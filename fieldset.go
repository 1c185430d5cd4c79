package condition

import (
	"github.com/ettle/strcase"
)

// ViewTransformer is the opaque per-field hook named in §1 (out of scope:
// "view transformers and localized value parsing... treated as opaque
// hooks on a field"). The Transform pass (§4.8 pass 1) runs a field's
// transformer chain over every raw value it owns, producing the
// normalized form. A transformer returning an error attaches a
// *ValuesError to the owning bag and short-circuits the pipeline.
type ViewTransformer func(raw string) (normalized string, err error)

// SuccessorFunc is the hook the values-to-range pass (§4.8 pass 4) needs to
// decide whether two normalized values are adjacent. It returns the
// immediate successor of value, or ok=false if the field has no total
// order / increment notion.
type SuccessorFunc func(value string) (next string, ok bool)

// FieldConfig is the read-only per-field configuration contract consumed
// by parsers, exporters, and the normalization pipeline (§4.3). It is
// never implemented directly by callers of this package; use
// FieldConfigBuilder to construct one.
type FieldConfig interface {
	Name() string
	IsRequired() bool
	AcceptRanges() bool
	AcceptCompares() bool
	AcceptPatternMatch() bool
	GetValueComparison() ValueComparison
	GetOptions() any
	Transformers() []ViewTransformer
	Successor() (SuccessorFunc, bool)
}

type fieldConfig struct {
	name                string
	required            bool
	acceptRanges        bool
	acceptCompares      bool
	acceptPatternMatch  bool
	valueComparison     ValueComparison
	options             any
	transformers        []ViewTransformer
	successor           SuccessorFunc
	hasSuccessor        bool
}

func (f *fieldConfig) Name() string                        { return f.name }
func (f *fieldConfig) IsRequired() bool                     { return f.required }
func (f *fieldConfig) AcceptRanges() bool                   { return f.acceptRanges }
func (f *fieldConfig) AcceptCompares() bool                 { return f.acceptCompares }
func (f *fieldConfig) AcceptPatternMatch() bool             { return f.acceptPatternMatch }
func (f *fieldConfig) GetValueComparison() ValueComparison  { return f.valueComparison }
func (f *fieldConfig) GetOptions() any                      { return f.options }
func (f *fieldConfig) Transformers() []ViewTransformer      { return f.transformers }
func (f *fieldConfig) Successor() (SuccessorFunc, bool)     { return f.successor, f.hasSuccessor }

// FieldConfigBuilder builds an immutable FieldConfig. There is no runtime
// "locked" flag (Design Notes, "Mutable shared locked flag on fields"):
// once Build() returns, the value is handed out as immutable and every
// getter is a plain field read.
type FieldConfigBuilder struct {
	cfg fieldConfig
}

// NewFieldConfig starts a builder for a field named name.
func NewFieldConfig(name string) *FieldConfigBuilder {
	return &FieldConfigBuilder{cfg: fieldConfig{name: name}}
}

// Required marks the field as required in every group that contains any
// fields or subgroups (§3).
func (b *FieldConfigBuilder) Required() *FieldConfigBuilder {
	b.cfg.required = true
	return b
}

// AcceptRanges permits Range values on this field.
func (b *FieldConfigBuilder) AcceptRanges() *FieldConfigBuilder {
	b.cfg.acceptRanges = true
	return b
}

// AcceptCompares permits Comparison values on this field.
func (b *FieldConfigBuilder) AcceptCompares() *FieldConfigBuilder {
	b.cfg.acceptCompares = true
	return b
}

// AcceptPatternMatch permits PatternMatch values on this field.
func (b *FieldConfigBuilder) AcceptPatternMatch() *FieldConfigBuilder {
	b.cfg.acceptPatternMatch = true
	return b
}

// WithValueComparison installs the ValueComparison used by the duplicate
// remover pass. When omitted, Build installs DefaultValueComparison().
func (b *FieldConfigBuilder) WithValueComparison(vc ValueComparison) *FieldConfigBuilder {
	b.cfg.valueComparison = vc
	return b
}

// WithOptions attaches an opaque per-field options value, returned verbatim
// by GetOptions (e.g. a locale, a numeric precision, case-folding rules).
func (b *FieldConfigBuilder) WithOptions(options any) *FieldConfigBuilder {
	b.cfg.options = options
	return b
}

// WithTransformers installs the field's view-transformer chain, run in
// order by the Transform pass.
func (b *FieldConfigBuilder) WithTransformers(transformers ...ViewTransformer) *FieldConfigBuilder {
	b.cfg.transformers = append([]ViewTransformer(nil), transformers...)
	return b
}

// WithSuccessor installs the SuccessorFunc the values-to-range pass needs
// to coalesce contiguous singles into a range.
func (b *FieldConfigBuilder) WithSuccessor(fn SuccessorFunc) *FieldConfigBuilder {
	b.cfg.successor = fn
	b.cfg.hasSuccessor = fn != nil
	return b
}

// Build returns the immutable FieldConfig.
func (b *FieldConfigBuilder) Build() FieldConfig {
	cfg := b.cfg
	if cfg.valueComparison == nil {
		cfg.valueComparison = DefaultValueComparison()
	}
	return &cfg
}

// FieldSet is the read-only catalog of field configurations keyed by field
// name (§4.3). It is built once via FieldSetBuilder.Build() and handed out
// as immutable: there is no setter, so a Condition's borrowed FieldSet
// cannot mutate during parse/export (§5).
type FieldSet struct {
	order  []string
	fields map[string]FieldConfig
}

// Has reports whether name is registered.
func (fs *FieldSet) Has(name string) bool {
	if fs == nil {
		return false
	}
	_, ok := fs.fields[name]
	return ok
}

// Get returns the FieldConfig registered for name, and whether it exists.
func (fs *FieldSet) Get(name string) (FieldConfig, bool) {
	if fs == nil {
		return nil, false
	}
	cfg, ok := fs.fields[name]
	return cfg, ok
}

// All returns every registered field name in registration order. The
// required-field check walks this order, so the first missing required
// field in registration order is the one reported.
func (fs *FieldSet) All() []string {
	if fs == nil {
		return nil
	}
	return append([]string(nil), fs.order...)
}

// FieldSetBuilder accumulates named field configs in insertion order and
// produces an immutable *FieldSet.
type FieldSetBuilder struct {
	order  []string
	fields map[string]FieldConfig
}

// NewFieldSet starts an empty FieldSetBuilder.
func NewFieldSet() *FieldSetBuilder {
	return &FieldSetBuilder{fields: make(map[string]FieldConfig)}
}

// Field registers cfg under its own Name(), replacing any prior
// registration for that name while preserving its original position.
func (b *FieldSetBuilder) Field(cfg FieldConfig) *FieldSetBuilder {
	name := cfg.Name()
	if _, exists := b.fields[name]; !exists {
		b.order = append(b.order, name)
	}
	b.fields[name] = cfg
	return b
}

// Build returns the immutable FieldSet.
func (b *FieldSetBuilder) Build() *FieldSet {
	fields := make(map[string]FieldConfig, len(b.fields))
	for k, v := range b.fields {
		fields[k] = v
	}
	return &FieldSet{order: append([]string(nil), b.order...), fields: fields}
}

// LabelResolver maps an internal field name to a display label, the
// collaborator named in §4.6. A nil resolver leaves field names untouched.
type LabelResolver func(fieldName string) string

// DefaultLabelResolver humanizes a field name with strcase.ToPascal the way
// the teacher's GraphQL generator humanizes column names
// (gql/internal/templates/context_builder.go), inserting spaces between
// words: "order_date" -> "Order Date".
func DefaultLabelResolver(fs *FieldSet) LabelResolver {
	return func(fieldName string) string {
		pascal := strcase.ToPascal(fieldName)
		return spaceOutPascal(pascal)
	}
}

// spaceOutPascal inserts a space before every interior uppercase run
// boundary in a PascalCase string, e.g. "OrderDate" -> "Order Date".
func spaceOutPascal(s string) string {
	if s == "" {
		return s
	}
	out := make([]rune, 0, len(s)+4)
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && isUpperRune(r) && !isUpperRune(runes[i-1]) {
			out = append(out, ' ')
		}
		out = append(out, r)
	}
	return string(out)
}

func isUpperRune(r rune) bool {
	return r >= 'A' && r <= 'Z'
}
