package condition

import (
	"dario.cat/mergo"
	"github.com/google/uuid"
)

// ProcessorConfig holds the Processor's tunable limits (§4.5/§6). Zero
// values mean "unset" so partial configs can be layered over the default
// via mergo (WithConfig).
type ProcessorConfig struct {
	MaxValues int
	MaxGroups int
	MaxDepth  int
}

func defaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{MaxValues: 100, MaxGroups: 100, MaxDepth: 100}
}

// Processor wraps Parse with a fixed FieldSet, limits, logger, and
// optional normalization pipeline (§4.11). It is the entry point callers
// are expected to use instead of calling Parse directly.
type Processor struct {
	fieldSet *FieldSet
	cfg      ProcessorConfig
	logger   Logger
	pipeline *Pipeline
}

// Option configures a Processor at construction time.
type Option func(*Processor)

// WithMaxValues overrides the per-bag value limit.
func WithMaxValues(n int) Option {
	return func(p *Processor) { p.cfg.MaxValues = n }
}

// WithMaxGroups overrides the per-group subgroup limit.
func WithMaxGroups(n int) Option {
	return func(p *Processor) { p.cfg.MaxGroups = n }
}

// WithMaxDepth overrides the max nesting depth.
func WithMaxDepth(n int) Option {
	return func(p *Processor) { p.cfg.MaxDepth = n }
}

// WithConfig layers a partial ProcessorConfig over the current one: any
// non-zero field in partial overrides the corresponding default.
func WithConfig(partial ProcessorConfig) Option {
	return func(p *Processor) {
		_ = mergo.Merge(&p.cfg, partial, mergo.WithOverride)
	}
}

// WithLogger installs a Logger; omitting this option leaves the Processor
// silent (NewNoopLogger).
func WithLogger(logger Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithPipeline installs a normalization Pipeline for ProcessAndNormalize.
// Omitting this option installs DefaultPipeline.
func WithPipeline(pipeline *Pipeline) Option {
	return func(p *Processor) {
		if pipeline != nil {
			p.pipeline = pipeline
		}
	}
}

// NewProcessor builds a Processor bound to fieldSet, applying opts over
// sane defaults (maxValues=100, maxGroups=100, maxDepth=100, noop logger,
// DefaultPipeline), per §6's configurable-limit defaults.
func NewProcessor(fieldSet *FieldSet, opts ...Option) *Processor {
	p := &Processor{
		fieldSet: fieldSet,
		cfg:      defaultProcessorConfig(),
		logger:   NewNoopLogger(),
	}
	p.pipeline = DefaultPipeline(fieldSet)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process parses input into a Condition against the Processor's FieldSet
// and limits. A parse failure is tagged with a fresh correlation ID in its
// metadata so it can be correlated across logs (mirroring the teacher's
// error_encoder.go correlation_id convention).
func (p *Processor) Process(input string) (*Condition, error) {
	cond, err := Parse(input, p.fieldSet, p.cfg.MaxValues, p.cfg.MaxGroups, p.cfg.MaxDepth, p.logger)
	if err != nil {
		return nil, attachTraceID(err)
	}
	return cond, nil
}

// ProcessAndNormalize parses input and then runs the Processor's
// normalization pipeline over the result before returning it. Pipeline
// failures are attached to the offending bags rather than returned; check
// cond.HasErrors() after the call.
func (p *Processor) ProcessAndNormalize(input string) (*Condition, error) {
	cond, err := p.Process(input)
	if err != nil || cond == nil {
		return cond, err
	}
	p.pipeline.Run(p.fieldSet, cond)
	return cond, nil
}

// attachTraceID stamps a fresh correlation ID onto a *Error's metadata.
func attachTraceID(err error) error {
	e, ok := err.(*Error)
	if !ok || e == nil {
		return err
	}
	traceID := uuid.NewString()
	if e.Metadata == nil {
		e.Metadata = map[string]any{}
	}
	e.Metadata["traceID"] = traceID
	if e.inner != nil {
		e.inner.WithMetadata(map[string]any{"traceID": traceID})
	}
	return e
}
