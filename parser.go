package condition

import "strings"

// parserState holds the mutable cursor and limits for one Parse call. It is
// not exported: callers go through Processor (processor.go).
type parserState struct {
	lexer     *Lexer
	fieldSet  *FieldSet
	maxValues int
	maxGroups int
	maxDepth  int
	logger    Logger
}

// Parse lexes and parses FilterQuery input into a Condition tree against
// fieldSet, enforcing maxValues/maxGroups/maxDepth (§4.5). Empty or
// whitespace-only input returns (nil, nil) per §6.
func Parse(input string, fieldSet *FieldSet, maxValues, maxGroups, maxDepth int, logger Logger) (*Condition, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	if logger == nil {
		logger = NewNoopLogger()
	}

	lexer, err := NewLexer(input)
	if err != nil {
		return nil, err
	}

	p := &parserState{
		lexer:     lexer,
		fieldSet:  fieldSet,
		maxValues: maxValues,
		maxGroups: maxGroups,
		maxDepth:  maxDepth,
		logger:    logger,
	}

	root := NewGroup()
	if err := p.parseGroupBody(root, 0, 0); err != nil {
		return nil, err
	}

	if p.peek().Type == TokenSemicolon {
		p.lexer.Next()
	}

	if err := checkGroupRequiredFields(fieldSet, root, 0, 0); err != nil {
		return nil, err
	}

	if p.peek().Type != TokenEOF {
		return nil, p.errExpected("EOF")
	}

	return &Condition{FieldSet: fieldSet, Root: root}, nil
}

func (p *parserState) peek() Token {
	return p.lexer.Glimpse(0)
}

func (p *parserState) errExpected(expected string) *Error {
	tok := p.peek()
	got := tok.Value
	if tok.Type == TokenEOF {
		got = "EOF"
	}
	return NewSyntaxError(tok.Position, expected, got)
}

// parseGroupBody parses { FieldPair | Group } for the group g sitting at
// depth with sibling index groupIdx, stopping at ')' or EOF.
func (p *parserState) parseGroupBody(g *Group, depth, groupIdx int) error {
	for {
		tok := p.peek()
		switch tok.Type {
		case TokenRParen, TokenEOF:
			return nil
		case TokenStar, TokenLParen:
			if err := p.parseGroup(g, depth); err != nil {
				return err
			}
		case TokenIdentifier:
			if err := p.parseFieldPair(g, depth, groupIdx); err != nil {
				return err
			}
		default:
			return p.errExpected("identifier or group")
		}
	}
}

// parseGroup parses ["*"] "(" { FieldPair | Group } [";"] ")" [";"] and
// links the new subgroup into parent.
func (p *parserState) parseGroup(parent *Group, depth int) error {
	logical := LogicalAnd
	if p.peek().Type == TokenStar {
		p.lexer.Next()
		logical = LogicalOr
	}

	if p.peek().Type != TokenLParen {
		return p.errExpected("(")
	}
	p.lexer.Next()

	newDepth := depth + 1
	groupIdx := len(parent.Groups())

	if newDepth > p.maxDepth {
		return NewGroupsNestingError(p.maxDepth, groupIdx, newDepth)
	}

	child := NewGroup()
	child.SetLogical(logical)
	parent.AddGroup(child)

	count := len(parent.Groups())
	if count > p.maxGroups {
		return NewGroupsOverflowError(p.maxGroups, count, groupIdx, depth)
	}

	p.logger.Debug("condition: entering group depth=%d idx=%d logical=%s", newDepth, groupIdx, logical)

	if err := p.parseGroupBody(child, newDepth, groupIdx); err != nil {
		return err
	}

	if p.peek().Type != TokenRParen {
		return p.errExpected(")")
	}
	p.lexer.Next()

	if p.peek().Type == TokenSemicolon {
		p.lexer.Next()
	}

	return checkGroupRequiredFields(p.fieldSet, child, groupIdx, newDepth)
}

// parseFieldPair parses IDENTIFIER ":" Values [";"], merging into any
// existing bag for the field name within g (§4.5).
func (p *parserState) parseFieldPair(g *Group, depth, groupIdx int) error {
	identTok := p.peek()
	p.lexer.Next()
	fieldName := identTok.Value

	if p.peek().Type != TokenColon {
		return p.errExpected(":")
	}
	p.lexer.Next()

	if !p.fieldSet.Has(fieldName) {
		return NewUnknownFieldError(fieldName)
	}
	cfg, _ := p.fieldSet.Get(fieldName)

	bag := g.GetField(fieldName)
	if bag == nil {
		bag = NewBag()
		g.AddField(fieldName, bag)
	}

	for {
		if err := p.parseValue(bag, cfg); err != nil {
			return err
		}
		if bag.Count() > p.maxValues {
			return NewValuesOverflowError(fieldName, p.maxValues, bag.Count(), groupIdx, depth)
		}

		switch p.peek().Type {
		case TokenComma:
			p.lexer.Next()
			continue
		case TokenSemicolon, TokenRParen, TokenEOF:
			goto done
		default:
			return p.errExpected(", or ; or )")
		}
	}
done:
	if p.peek().Type == TokenSemicolon {
		p.lexer.Next()
	}

	p.logger.Debug("condition: field pair field=%s values=%d", fieldName, bag.Count())
	return nil
}

// parseValue parses one Value alternative and appends the result to bag,
// enforcing field acceptance (§4.5's assertAccepts).
func (p *parserState) parseValue(bag *Bag, cfg FieldConfig) error {
	switch p.peek().Type {
	case TokenTilde:
		return p.parsePatternMatch(bag, cfg)
	case TokenLessThan, TokenGreaterThan:
		return p.parseComparison(bag, cfg)
	default:
		return p.parseSimpleOrRange(bag, cfg)
	}
}

func (p *parserState) parseComparison(bag *Bag, cfg FieldConfig) error {
	var op ComparisonOperator
	switch p.peek().Type {
	case TokenLessThan:
		p.lexer.Next()
		switch p.peek().Type {
		case TokenEquals:
			p.lexer.Next()
			op = OpLessThanOrEqual
		case TokenGreaterThan:
			p.lexer.Next()
			op = OpNotEqual
		default:
			op = OpLessThan
		}
	case TokenGreaterThan:
		p.lexer.Next()
		if p.peek().Type == TokenEquals {
			p.lexer.Next()
			op = OpGreaterThanOrEqual
		} else {
			op = OpGreaterThan
		}
	default:
		return p.errExpected("< or >")
	}

	if err := acceptKind(cfg, "comparison"); err != nil {
		return err
	}

	operand, err := p.parseSimpleValue()
	if err != nil {
		return err
	}

	bag.AddComparison(Comparison{Operand: operand, Operator: op})
	return nil
}

func (p *parserState) parsePatternMatch(bag *Bag, cfg FieldConfig) error {
	p.lexer.Next() // consume '~'

	caseInsensitive := false
	if tok := p.peek(); tok.Type == TokenString && tok.Value == "i" {
		p.lexer.Next()
		caseInsensitive = true
	}

	negated := false
	if p.peek().Type == TokenBang {
		p.lexer.Next()
		negated = true
	}

	var symbol byte
	switch p.peek().Type {
	case TokenStar:
		symbol = '*'
	case TokenGreaterThan:
		symbol = '>'
	case TokenLessThan:
		symbol = '<'
	case TokenQuestion:
		symbol = '?'
	default:
		return p.errExpected("*, >, <, or ?")
	}
	p.lexer.Next()

	kind, ok := patternKindFromSymbol(symbol, negated)
	if !ok {
		return p.errExpected("pattern operator")
	}

	if err := acceptKind(cfg, "pattern-match"); err != nil {
		return err
	}

	pattern, err := p.parseSimpleValue()
	if err != nil {
		return err
	}

	bag.AddPatternMatch(PatternMatch{Pattern: pattern, Kind: kind, CaseInsensitive: caseInsensitive})
	return nil
}

// parseSimpleOrRange parses ["!"] (SimpleValue | Range), routing to an
// excluded-range when a '!' is followed by a bracket or a SimpleValue-then-
// '-' shape (§4.5).
func (p *parserState) parseSimpleOrRange(bag *Bag, cfg FieldConfig) error {
	excluded := false
	if p.peek().Type == TokenBang {
		p.lexer.Next()
		excluded = true
	}

	lowerInclusive := true
	hasBracket := false
	switch p.peek().Type {
	case TokenLBracket:
		p.lexer.Next()
		hasBracket = true
		lowerInclusive = true
	case TokenRBracket:
		p.lexer.Next()
		hasBracket = true
		lowerInclusive = false
	}

	lower, err := p.parseSimpleValue()
	if err != nil {
		return err
	}

	if p.peek().Type != TokenMinus {
		if hasBracket {
			return p.errExpected("-")
		}
		if excluded {
			bag.AddExcludedSingle(lower)
		} else {
			bag.AddSingle(lower)
		}
		return nil
	}
	p.lexer.Next() // consume '-'

	upper, err := p.parseSimpleValue()
	if err != nil {
		return err
	}

	upperInclusive := true
	switch p.peek().Type {
	case TokenLBracket, TokenRBracket:
		p.lexer.Next()
		upperInclusive = false
	}

	if err := acceptKind(cfg, "range"); err != nil {
		return err
	}

	r := Range{Lower: lower, Upper: upper, LowerInclusive: lowerInclusive, UpperInclusive: upperInclusive}
	if excluded {
		bag.AddExcludedRange(r)
	} else {
		bag.AddRange(r)
	}
	return nil
}

func (p *parserState) parseSimpleValue() (SingleValue, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenString, TokenQuotedString, TokenInteger, TokenFloat:
		p.lexer.Next()
		return NewSingleValue(tok.Value), nil
	default:
		return SingleValue{}, p.errExpected("value")
	}
}
