package condition

// Bag is the per-field container of typed value entries (§3, §4.1). It
// owns six ordered, independently-indexed sequences plus an error list
// accumulated by the normalization pipeline. Insertion order within each
// sequence is observable and the exporter's determinism depends on it.
type Bag struct {
	singles         []SingleValue
	excludedSingles []SingleValue
	ranges          []Range
	excludedRanges  []Range
	comparisons     []Comparison
	patternMatches  []PatternMatch

	errors []error
}

// NewBag returns an empty Bag.
func NewBag() *Bag {
	return &Bag{}
}

// AddSingle appends an included single value.
func (b *Bag) AddSingle(v SingleValue) {
	b.singles = append(b.singles, v)
}

// AddExcludedSingle appends an excluded ("!") single value.
func (b *Bag) AddExcludedSingle(v SingleValue) {
	b.excludedSingles = append(b.excludedSingles, v)
}

// AddRange appends an included range.
func (b *Bag) AddRange(r Range) {
	b.ranges = append(b.ranges, r)
}

// AddExcludedRange appends an excluded ("!") range.
func (b *Bag) AddExcludedRange(r Range) {
	b.excludedRanges = append(b.excludedRanges, r)
}

// AddComparison appends a relational comparison.
func (b *Bag) AddComparison(c Comparison) {
	b.comparisons = append(b.comparisons, c)
}

// AddPatternMatch appends a pattern-match value.
func (b *Bag) AddPatternMatch(p PatternMatch) {
	b.patternMatches = append(b.patternMatches, p)
}

// RemoveSingle removes the single value at index i. Removal is not
// index-stable: every later member of the same sequence shifts down by one,
// so indexes observed before the call no longer address the same values.
// Callers performing multiple removals in one pass should collect indexes
// first, then remove from highest to lowest.
func (b *Bag) RemoveSingle(i int) {
	b.singles = removeAt(b.singles, i)
}

// RemoveExcludedSingle removes the excluded single value at index i.
func (b *Bag) RemoveExcludedSingle(i int) {
	b.excludedSingles = removeAt(b.excludedSingles, i)
}

// RemoveRange removes the range at index i.
func (b *Bag) RemoveRange(i int) {
	b.ranges = removeAt(b.ranges, i)
}

// RemoveExcludedRange removes the excluded range at index i.
func (b *Bag) RemoveExcludedRange(i int) {
	b.excludedRanges = removeAt(b.excludedRanges, i)
}

// RemoveComparison removes the comparison at index i.
func (b *Bag) RemoveComparison(i int) {
	b.comparisons = removeAt(b.comparisons, i)
}

// RemovePatternMatch removes the pattern-match at index i.
func (b *Bag) RemovePatternMatch(i int) {
	b.patternMatches = removeAt(b.patternMatches, i)
}

func removeAt[T any](s []T, i int) []T {
	if i < 0 || i >= len(s) {
		return s
	}
	return append(s[:i], s[i+1:]...)
}

// Singles returns the included single-value sequence in insertion order.
func (b *Bag) Singles() []SingleValue { return b.singles }

// ExcludedSingles returns the excluded single-value sequence.
func (b *Bag) ExcludedSingles() []SingleValue { return b.excludedSingles }

// Ranges returns the included range sequence.
func (b *Bag) Ranges() []Range { return b.ranges }

// ExcludedRanges returns the excluded range sequence.
func (b *Bag) ExcludedRanges() []Range { return b.excludedRanges }

// Comparisons returns the comparison sequence.
func (b *Bag) Comparisons() []Comparison { return b.comparisons }

// PatternMatches returns the pattern-match sequence.
func (b *Bag) PatternMatches() []PatternMatch { return b.patternMatches }

// Count returns the total number of live members across all six sequences.
func (b *Bag) Count() int {
	return len(b.singles) + len(b.excludedSingles) + len(b.ranges) +
		len(b.excludedRanges) + len(b.comparisons) + len(b.patternMatches)
}

// AddError appends a normalization-pipeline error to the bag.
func (b *Bag) AddError(err error) {
	if err != nil {
		b.errors = append(b.errors, err)
	}
}

// HasErrors reports whether the bag has any accumulated errors.
func (b *Bag) HasErrors() bool {
	return len(b.errors) > 0
}

// Errors returns the bag's accumulated errors in the order they were added.
func (b *Bag) Errors() []error {
	return b.errors
}

// replaceSingles swaps the included-single sequence, used by the
// values-to-range pass (§4.8 pass 4) when it coalesces a contiguous run of
// singles into a range.
func (b *Bag) replaceSingles(singles []SingleValue) {
	b.singles = singles
}

// replaceExcludedSingles swaps the excluded-single sequence, used by the
// duplicate remover pass (§4.8 pass 3).
func (b *Bag) replaceExcludedSingles(singles []SingleValue) {
	b.excludedSingles = singles
}

// replaceRanges swaps the included-range sequence, used by the
// values-to-range and range-optimizer passes.
func (b *Bag) replaceRanges(ranges []Range) {
	b.ranges = ranges
}

// replaceExcludedRanges swaps the excluded-range sequence, used by the
// range optimizer pass (§4.8 pass 5).
func (b *Bag) replaceExcludedRanges(ranges []Range) {
	b.excludedRanges = ranges
}

// replaceComparisons swaps the comparison sequence, used by the duplicate
// remover pass (§4.8 pass 3).
func (b *Bag) replaceComparisons(comparisons []Comparison) {
	b.comparisons = comparisons
}

// replacePatternMatches swaps the pattern-match sequence, used by the
// duplicate remover pass (§4.8 pass 3).
func (b *Bag) replacePatternMatches(patterns []PatternMatch) {
	b.patternMatches = patterns
}
