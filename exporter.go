package condition

import (
	"strings"
	"unicode"
)

// ExportOption configures Export (§4.6).
type ExportOption func(*exportConfig)

type exportConfig struct {
	labelResolver LabelResolver
}

// WithLabelResolver renders field names through resolver instead of their
// raw names.
func WithLabelResolver(resolver LabelResolver) ExportOption {
	return func(cfg *exportConfig) {
		cfg.labelResolver = resolver
	}
}

// Export renders a Condition back to canonical FilterQuery text (§4.6). The
// root group is written without a surrounding "*(...)" wrapper when it is
// an AND group, since the grammar's Input production is itself an implicit
// AND sequence of field pairs and groups; an OR root has no literal
// representation other than a synthetic wrapping group, so it is written
// as one.
func Export(cond *Condition, opts ...ExportOption) string {
	if cond == nil || cond.Root == nil {
		return ""
	}
	cfg := exportConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	var sb strings.Builder
	if cond.Root.GetLogical() == LogicalOr {
		writeGroup(&sb, cond.Root, cfg)
	} else {
		// The unwrapped AND root has no closing ")" to terminate its last
		// field pair, so every field pair here keeps its own ";".
		writeGroupContents(&sb, cond.Root, cfg, true)
	}
	return sb.String()
}

func writeGroup(sb *strings.Builder, g *Group, cfg exportConfig) {
	if g.GetLogical() == LogicalOr {
		sb.WriteByte('*')
	}
	sb.WriteByte('(')
	// The group's own ");" terminates its last content item, so a trailing
	// field pair here must not double up its ";".
	writeGroupContents(sb, g, cfg, false)
	sb.WriteString(");")
}

func writeGroupContents(sb *strings.Builder, g *Group, cfg exportConfig, alwaysTerminate bool) {
	fields := g.Fields()
	groups := g.Groups()
	total := len(fields) + len(groups)
	for i, name := range fields {
		terminate := alwaysTerminate || i < total-1
		writeFieldPair(sb, name, g.GetField(name), cfg, terminate)
	}
	for _, sub := range groups {
		writeGroup(sb, sub, cfg)
	}
}

func writeFieldPair(sb *strings.Builder, name string, bag *Bag, cfg exportConfig, terminate bool) {
	label := name
	if cfg.labelResolver != nil {
		label = cfg.labelResolver(name)
	}

	var parts []string
	for _, v := range bag.Singles() {
		parts = append(parts, renderValue(v))
	}
	for _, v := range bag.ExcludedSingles() {
		parts = append(parts, "!"+renderValue(v))
	}
	for _, r := range bag.Ranges() {
		parts = append(parts, renderRange(r))
	}
	for _, r := range bag.ExcludedRanges() {
		parts = append(parts, "!"+renderRange(r))
	}
	for _, c := range bag.Comparisons() {
		parts = append(parts, renderComparison(c))
	}
	for _, pm := range bag.PatternMatches() {
		parts = append(parts, renderPatternMatch(pm))
	}

	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(strings.Join(parts, ", "))
	if terminate {
		sb.WriteString(";")
	}
}

func renderValue(v SingleValue) string {
	return quoteIfNeeded(v.Raw)
}

func renderRange(r Range) string {
	var sb strings.Builder
	if !r.LowerInclusive {
		sb.WriteByte(']')
	}
	sb.WriteString(quoteIfNeeded(r.Lower.Raw))
	sb.WriteByte('-')
	sb.WriteString(quoteIfNeeded(r.Upper.Raw))
	if !r.UpperInclusive {
		sb.WriteByte('[')
	}
	return sb.String()
}

func renderComparison(c Comparison) string {
	return string(c.Operator) + quoteIfNeeded(c.Operand.Raw)
}

func renderPatternMatch(pm PatternMatch) string {
	var sb strings.Builder
	sb.WriteByte('~')
	if pm.CaseInsensitive {
		sb.WriteByte('i')
	}
	if pm.Kind.Exclusive() {
		sb.WriteByte('!')
	}
	sb.WriteByte(pm.Kind.symbol())
	sb.WriteString(quoteIfNeeded(pm.Pattern.Raw))
	return sb.String()
}

// quoteIfNeeded wraps s in double quotes, doubling any interior quote,
// unless s is a bareword (letters then optional trailing ASCII digits) or
// a run of Unicode digits holding at most one '.' anywhere (§4.6); an empty
// s or a leading '-' always forces quoting. Unquoted non-ASCII digits
// (e.g. Arabic-Indic) and forms such as "10." are not re-lexed by lexer.go
// as the same single token.
func quoteIfNeeded(s string) string {
	if !needsQuoting(s) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	if strings.HasPrefix(s, "-") {
		return true
	}
	if isBareword(s) {
		return false
	}
	if isPlainNumber(s) {
		return false
	}
	return true
}

// isBareword reports whether s is exactly a run of unicode letters followed
// by a run of ASCII digits, with nothing left over — the shape scanWord
// (lexer.go) re-scans a non-identifier word as, and so the only letter-led
// form that lexes back to the same unquoted STRING token.
func isBareword(s string) bool {
	runes := []rune(s)
	i := 0
	for i < len(runes) && unicode.IsLetter(runes[i]) {
		i++
	}
	if i == 0 {
		return false
	}
	for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
		i++
	}
	return i == len(runes)
}

func isPlainNumber(s string) bool {
	dots := 0
	digits := 0
	for _, r := range s {
		switch {
		case r == '.':
			dots++
		case unicode.IsDigit(r):
			digits++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
