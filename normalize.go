package condition

import "regexp"

// Pass is one stage of the normalization pipeline (§4.8). Run walks the
// group tree rooted at root, mutating bags in place; it never returns an
// error directly — a stage-local failure is attached to the owning bag as
// a *ValuesError via Bag.AddError, which Pipeline.Run checks between
// stages to short-circuit the remaining passes.
type Pass struct {
	Name string
	Run  func(fieldSet *FieldSet, root *Group)
}

// Pipeline runs an ordered chain of passes over a Condition.
type Pipeline struct {
	passes []Pass
}

// NewPipeline builds a Pipeline from an explicit pass list, letting callers
// drop or reorder stages relative to DefaultPipeline.
func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{passes: append([]Pass(nil), passes...)}
}

// DefaultPipeline is the standard five-stage pipeline (§4.8): Transform,
// Validate, duplicate removal, values-to-range coalescing, then range
// optimization. fieldSet is only consulted for the passes that need it at
// construction time; it is not retained.
func DefaultPipeline(fieldSet *FieldSet) *Pipeline {
	return NewPipeline(
		TransformPass(),
		ValidatePass(),
		DuplicateRemoverPass(),
		ValuesToRangePass(),
		RangeOptimizerPass(),
	)
}

// Run executes every pass against cond.Root in order, stopping early once
// cond.HasErrors() becomes true.
func (p *Pipeline) Run(fieldSet *FieldSet, cond *Condition) {
	if cond == nil || cond.Root == nil {
		return
	}
	for _, pass := range p.passes {
		pass.Run(fieldSet, cond.Root)
		if cond.Root.HasErrors() {
			return
		}
	}
}

// TransformPass runs each field's ViewTransformer chain over every value it
// owns, populating SingleValue.Normalized (§4.8 pass 1).
func TransformPass() Pass {
	return Pass{Name: "transform", Run: func(fieldSet *FieldSet, root *Group) {
		root.Walk(func(g *Group) {
			for _, name := range g.Fields() {
				cfg, ok := fieldSet.Get(name)
				if !ok {
					continue
				}
				transformers := cfg.Transformers()
				if len(transformers) == 0 {
					continue
				}
				transformBag(g.GetField(name), name, transformers)
			}
		})
	}}
}

func transformBag(bag *Bag, field string, transformers []ViewTransformer) {
	apply := func(raw string) (string, error) {
		v := raw
		for _, t := range transformers {
			next, err := t(v)
			if err != nil {
				return "", err
			}
			v = next
		}
		return v, nil
	}

	singles := bag.Singles()
	for i := range singles {
		norm, err := apply(singles[i].Raw)
		if err != nil {
			bag.AddError(&ValuesError{Pass: "transform", Field: field, Message: err.Error()})
			return
		}
		singles[i].Normalized = norm
	}
	excluded := bag.ExcludedSingles()
	for i := range excluded {
		norm, err := apply(excluded[i].Raw)
		if err != nil {
			bag.AddError(&ValuesError{Pass: "transform", Field: field, Message: err.Error()})
			return
		}
		excluded[i].Normalized = norm
	}
	ranges := bag.Ranges()
	for i := range ranges {
		if err := transformRangeBounds(&ranges[i], apply); err != nil {
			bag.AddError(&ValuesError{Pass: "transform", Field: field, Message: err.Error()})
			return
		}
	}
	excludedRanges := bag.ExcludedRanges()
	for i := range excludedRanges {
		if err := transformRangeBounds(&excludedRanges[i], apply); err != nil {
			bag.AddError(&ValuesError{Pass: "transform", Field: field, Message: err.Error()})
			return
		}
	}
	comparisons := bag.Comparisons()
	for i := range comparisons {
		norm, err := apply(comparisons[i].Operand.Raw)
		if err != nil {
			bag.AddError(&ValuesError{Pass: "transform", Field: field, Message: err.Error()})
			return
		}
		comparisons[i].Operand.Normalized = norm
	}
	patterns := bag.PatternMatches()
	for i := range patterns {
		norm, err := apply(patterns[i].Pattern.Raw)
		if err != nil {
			bag.AddError(&ValuesError{Pass: "transform", Field: field, Message: err.Error()})
			return
		}
		patterns[i].Pattern.Normalized = norm
	}
}

func transformRangeBounds(r *Range, apply func(string) (string, error)) error {
	lower, err := apply(r.Lower.Raw)
	if err != nil {
		return err
	}
	upper, err := apply(r.Upper.Raw)
	if err != nil {
		return err
	}
	r.Lower.Normalized = lower
	r.Upper.Normalized = upper
	return nil
}

// ValidatePass runs field-independent structural checks the parser cannot
// perform up front — currently, that a REGEX/NOT_REGEX pattern actually
// compiles (§4.8 pass 2, optional: a fieldset with no regex-accepting
// fields makes this a no-op).
func ValidatePass() Pass {
	return Pass{Name: "validate", Run: func(fieldSet *FieldSet, root *Group) {
		root.Walk(func(g *Group) {
			for _, name := range g.Fields() {
				bag := g.GetField(name)
				for _, pm := range bag.PatternMatches() {
					if pm.Kind != PatternRegex && pm.Kind != PatternNotRegex {
						continue
					}
					if _, err := regexp.Compile(pm.Pattern.normalizedOrRaw()); err != nil {
						bag.AddError(&ValuesError{Pass: "validate", Field: name, Message: err.Error()})
					}
				}
			}
		})
	}}
}

// DuplicateRemoverPass drops duplicate singles, ranges, comparisons, and
// pattern-matches per field, keeping the first occurrence and using the
// field's ValueComparison (§4.8 pass 3). Ranges are deduped on exact
// bounds/inclusivity here too; overlap/containment merging of ranges is
// the range optimizer's job (pass 5).
func DuplicateRemoverPass() Pass {
	return Pass{Name: "duplicate-remover", Run: func(fieldSet *FieldSet, root *Group) {
		root.Walk(func(g *Group) {
			for _, name := range g.Fields() {
				cfg, ok := fieldSet.Get(name)
				if !ok {
					continue
				}
				vc := cfg.GetValueComparison()
				bag := g.GetField(name)
				bag.replaceSingles(dedupeSingles(bag.Singles(), vc))
				bag.replaceExcludedSingles(dedupeSingles(bag.ExcludedSingles(), vc))
				bag.replaceRanges(dedupeRanges(bag.Ranges(), vc))
				bag.replaceExcludedRanges(dedupeRanges(bag.ExcludedRanges(), vc))
				bag.replaceComparisons(dedupeComparisons(bag.Comparisons(), vc))
				bag.replacePatternMatches(dedupePatternMatches(bag.PatternMatches(), vc))
			}
		})
	}}
}

func dedupeSingles(values []SingleValue, vc ValueComparison) []SingleValue {
	out := make([]SingleValue, 0, len(values))
	for _, v := range values {
		dup := false
		for _, seen := range out {
			if vc.Equal(seen.normalizedOrRaw(), v.normalizedOrRaw()) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}

func dedupeComparisons(values []Comparison, vc ValueComparison) []Comparison {
	out := make([]Comparison, 0, len(values))
	for _, v := range values {
		dup := false
		for _, seen := range out {
			if seen.Operator == v.Operator && vc.Equal(seen.Operand.normalizedOrRaw(), v.Operand.normalizedOrRaw()) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}

func dedupePatternMatches(values []PatternMatch, vc ValueComparison) []PatternMatch {
	out := make([]PatternMatch, 0, len(values))
	for _, v := range values {
		dup := false
		for _, seen := range out {
			if seen.Kind == v.Kind && seen.CaseInsensitive == v.CaseInsensitive &&
				vc.Equal(seen.Pattern.normalizedOrRaw(), v.Pattern.normalizedOrRaw()) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}

// ValuesToRangePass coalesces runs of singles connected by a field's
// SuccessorFunc into ranges (§4.8 pass 4, optional: fields with no
// successor configured are left untouched).
func ValuesToRangePass() Pass {
	return Pass{Name: "values-to-range", Run: func(fieldSet *FieldSet, root *Group) {
		root.Walk(func(g *Group) {
			for _, name := range g.Fields() {
				cfg, ok := fieldSet.Get(name)
				if !ok {
					continue
				}
				successor, hasSuccessor := cfg.Successor()
				if !hasSuccessor {
					continue
				}
				bag := g.GetField(name)
				remaining, newRanges := coalesceContiguous(bag.Singles(), successor)
				bag.replaceSingles(remaining)
				if len(newRanges) > 0 {
					bag.replaceRanges(append(bag.Ranges(), newRanges...))
				}
			}
		})
	}}
}

func coalesceContiguous(values []SingleValue, successor SuccessorFunc) ([]SingleValue, []Range) {
	if len(values) < 2 {
		return values, nil
	}

	present := make(map[string]SingleValue, len(values))
	for _, v := range values {
		present[v.normalizedOrRaw()] = v
	}

	consumed := make(map[string]bool, len(values))
	var ranges []Range

	for _, v := range values {
		key := v.normalizedOrRaw()
		if consumed[key] {
			continue
		}
		chain := []SingleValue{v}
		cur := v
		for {
			next, ok := successor(cur.normalizedOrRaw())
			if !ok {
				break
			}
			nv, exists := present[next]
			if !exists || consumed[next] {
				break
			}
			chain = append(chain, nv)
			consumed[next] = true
			cur = nv
		}
		if len(chain) >= 2 {
			consumed[key] = true
			ranges = append(ranges, NewRange(chain[0], chain[len(chain)-1]))
		}
	}

	var remaining []SingleValue
	for _, v := range values {
		if !consumed[v.normalizedOrRaw()] {
			remaining = append(remaining, v)
		}
	}
	return remaining, ranges
}

// RangeOptimizerPass merges overlapping/adjacent ranges, drops ranges
// contained in another, and drops excluded-ranges the included set already
// forbids (§4.8 pass 5). Exact-duplicate removal needs no ordering and
// always runs; overlap/containment/adjacency detection additionally needs
// an ordering between bound values, which this package only has access to
// via a field's optional SuccessorFunc (the same collaborator
// ValuesToRangePass uses) — fields without one keep exact-duplicate
// removal only, since there is no other ordering predicate in the
// FieldConfig contract to merge on.
func RangeOptimizerPass() Pass {
	return Pass{Name: "range-optimizer", Run: func(fieldSet *FieldSet, root *Group) {
		root.Walk(func(g *Group) {
			for _, name := range g.Fields() {
				cfg, ok := fieldSet.Get(name)
				if !ok {
					continue
				}
				vc := cfg.GetValueComparison()
				successor, hasSuccessor := cfg.Successor()
				bag := g.GetField(name)

				included := optimizeRanges(bag.Ranges(), successor, hasSuccessor, vc)
				bag.replaceRanges(included)

				excluded := optimizeRanges(bag.ExcludedRanges(), successor, hasSuccessor, vc)
				excluded = dropRedundantExcludedRanges(excluded, included, successor, hasSuccessor, vc)
				bag.replaceExcludedRanges(excluded)
			}
		})
	}}
}

func dedupeRanges(ranges []Range, vc ValueComparison) []Range {
	out := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		dup := false
		for _, seen := range out {
			if seen.LowerInclusive == r.LowerInclusive && seen.UpperInclusive == r.UpperInclusive &&
				vc.Equal(seen.Lower.normalizedOrRaw(), r.Lower.normalizedOrRaw()) &&
				vc.Equal(seen.Upper.normalizedOrRaw(), r.Upper.normalizedOrRaw()) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return out
}

func optimizeRanges(ranges []Range, successor SuccessorFunc, hasSuccessor bool, vc ValueComparison) []Range {
	deduped := dedupeRanges(ranges, vc)
	if !hasSuccessor {
		return deduped
	}
	return mergeRanges(deduped, successor, vc)
}

// mergeRanges repeatedly folds any pair of contained, overlapping, or
// adjacent ranges into one until no more folds apply, favoring the
// earliest-inserted range's slot as the merge survivor.
func mergeRanges(ranges []Range, successor SuccessorFunc, vc ValueComparison) []Range {
	out := append([]Range(nil), ranges...)
	for {
		folded := false
		for i := 0; i < len(out) && !folded; i++ {
			for j := i + 1; j < len(out); j++ {
				switch {
				case rangeContains(out[i], out[j], successor, vc):
					out = append(out[:j], out[j+1:]...)
					folded = true
				case rangeContains(out[j], out[i], successor, vc):
					out[i] = out[j]
					out = append(out[:j], out[j+1:]...)
					folded = true
				case rangesAdjacentOrOverlapping(out[i], out[j], successor, vc):
					out[i] = mergeTwoRanges(out[i], out[j], successor, vc)
					out = append(out[:j], out[j+1:]...)
					folded = true
				}
				if folded {
					break
				}
			}
		}
		if !folded {
			break
		}
	}
	return out
}

// dropRedundantExcludedRanges drops an excluded range when it shares no
// bound reachability with any included range: such a range forbids values
// that were never included in the first place, so keeping it is a no-op.
func dropRedundantExcludedRanges(excluded, included []Range, successor SuccessorFunc, hasSuccessor bool, vc ValueComparison) []Range {
	if !hasSuccessor || len(included) == 0 {
		return excluded
	}
	out := make([]Range, 0, len(excluded))
	for _, ex := range excluded {
		forbidsSomething := false
		for _, inc := range included {
			if rangesAdjacentOrOverlapping(ex, inc, successor, vc) ||
				rangeContains(inc, ex, successor, vc) || rangeContains(ex, inc, successor, vc) {
				forbidsSomething = true
				break
			}
		}
		if forbidsSomething {
			out = append(out, ex)
		}
	}
	return out
}

// rangeMergeStepCap bounds the successor walk rangeOrdered performs, so a
// field whose successor never reaches the target cannot hang the pipeline.
const rangeMergeStepCap = 10000

// rangeOrdered reports whether to is reachable from from by repeatedly
// applying successor within rangeMergeStepCap steps — the closest this
// package can get to "from <= to" using only a SuccessorFunc and Equal.
func rangeOrdered(from, to string, successor SuccessorFunc, vc ValueComparison) bool {
	cur := from
	if vc.Equal(cur, to) {
		return true
	}
	for i := 0; i < rangeMergeStepCap; i++ {
		next, ok := successor(cur)
		if !ok {
			return false
		}
		if vc.Equal(next, to) {
			return true
		}
		cur = next
	}
	return false
}

// rangeContains reports whether outer fully contains inner.
func rangeContains(outer, inner Range, successor SuccessorFunc, vc ValueComparison) bool {
	lowerOK := rangeOrdered(outer.Lower.normalizedOrRaw(), inner.Lower.normalizedOrRaw(), successor, vc)
	upperOK := rangeOrdered(inner.Upper.normalizedOrRaw(), outer.Upper.normalizedOrRaw(), successor, vc)
	return lowerOK && upperOK
}

// rangesAdjacentOrOverlapping reports whether a and b touch or overlap, so
// they can be folded into a single covering range.
func rangesAdjacentOrOverlapping(a, b Range, successor SuccessorFunc, vc ValueComparison) bool {
	if rangeOrdered(a.Lower.normalizedOrRaw(), b.Upper.normalizedOrRaw(), successor, vc) &&
		rangeOrdered(b.Lower.normalizedOrRaw(), a.Upper.normalizedOrRaw(), successor, vc) {
		return true
	}
	if next, ok := successor(a.Upper.normalizedOrRaw()); ok && vc.Equal(next, b.Lower.normalizedOrRaw()) {
		return true
	}
	if next, ok := successor(b.Upper.normalizedOrRaw()); ok && vc.Equal(next, a.Lower.normalizedOrRaw()) {
		return true
	}
	return false
}

// mergeTwoRanges returns the smallest range covering both a and b,
// assuming rangesAdjacentOrOverlapping(a, b, ...) already holds.
func mergeTwoRanges(a, b Range, successor SuccessorFunc, vc ValueComparison) Range {
	lower, lowerIncl := a.Lower, a.LowerInclusive
	switch {
	case vc.Equal(a.Lower.normalizedOrRaw(), b.Lower.normalizedOrRaw()):
		lowerIncl = a.LowerInclusive || b.LowerInclusive
	case rangeOrdered(b.Lower.normalizedOrRaw(), a.Lower.normalizedOrRaw(), successor, vc):
		lower, lowerIncl = b.Lower, b.LowerInclusive
	}

	upper, upperIncl := a.Upper, a.UpperInclusive
	switch {
	case vc.Equal(a.Upper.normalizedOrRaw(), b.Upper.normalizedOrRaw()):
		upperIncl = a.UpperInclusive || b.UpperInclusive
	case rangeOrdered(a.Upper.normalizedOrRaw(), b.Upper.normalizedOrRaw(), successor, vc):
		upper, upperIncl = b.Upper, b.UpperInclusive
	}

	return Range{Lower: lower, Upper: upper, LowerInclusive: lowerIncl, UpperInclusive: upperIncl}
}
