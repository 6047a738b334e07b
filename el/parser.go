package el

// ParserOption configures Parse's tolerance for malformed input (spec
// §4.3). The zero configuration is lenient.
type ParserOption func(*parserConfig)

type parserConfig struct {
	strict bool
}

// Strict rejects trailing commas in array/map/switch literals and
// requires the entire input to be consumed by a single expression.
func Strict() ParserOption {
	return func(c *parserConfig) { c.strict = true }
}

// Lenient tolerates a trailing comma before a closing bracket and
// stops after the first complete expression, ignoring trailing input.
// This is the default.
func Lenient() ParserOption {
	return func(c *parserConfig) { c.strict = false }
}

// Parse parses src into an expression tree under the given options.
func Parse(src string, opts ...ParserOption) (*ExpressionNode, error) {
	cfg := parserConfig{strict: false}
	for _, o := range opts {
		o(&cfg)
	}
	p, err := newParser(src, cfg)
	if err != nil {
		return nil, err
	}
	node, err := p.parseExpr(false)
	if err != nil {
		return nil, err
	}
	if cfg.strict {
		if p.cur.Kind != TokEOF {
			return nil, newParseError(ErrUnexpectedToken, p.cur, setOf(TokEOF))
		}
	}
	return node, nil
}

// ParseStrict parses src, requiring it to be exactly one well-formed
// expression with no trailing garbage or trailing commas.
func ParseStrict(src string) (*ExpressionNode, error) {
	return Parse(src, Strict())
}

// ParseLenient parses src tolerantly: trailing commas are accepted and
// trailing input after a complete expression is ignored.
func ParseLenient(src string) (*ExpressionNode, error) {
	return Parse(src, Lenient())
}

type parser struct {
	lex    *lexer
	cur    Token
	cfg    parserConfig
}

func newParser(src string, cfg parserConfig) (*parser, error) {
	p := &parser{lex: newLexer(src), cfg: cfg}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) check(k TokenKind) bool {
	return p.cur.Kind == k
}

func (p *parser) loc() Location {
	return Location{Line: p.cur.Line, Column: p.cur.Column, Valid: true}
}

func (p *parser) expect(k TokenKind) (Token, error) {
	if p.cur.Kind != k {
		return Token{}, newParseError(ErrUnexpectedToken, p.cur, setOf(k))
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return Token{}, err
	}
	return tok, nil
}

// parseExpr parses a full binary-operator chain: a unary term followed
// by zero or more (operator, unary term) pairs, folding each pair
// through NewBinary so the result always satisfies the precedence-heap
// invariant regardless of the order operators were written in (spec
// §4.2). When inSubscript is true, a trailing '..' with no right-hand
// operand (immediately followed by ']' or ',') binds __AutoRangeParameter
// as the right operand instead of failing to parse (spec §4.1).
func (p *parser) parseExpr(inSubscript bool) (*ExpressionNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := binaryOpFor(p.cur.Kind)
		if !ok {
			return left, nil
		}
		opLoc := p.loc()
		if err := p.advance(); err != nil {
			return nil, err
		}
		if op == OpRange && inSubscript && (p.check(TokRBracket) || p.check(TokComma)) {
			left = NewBinary(OpRange, left, NewVariable(autoRangeParameter, opLoc), opLoc)
			continue
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = NewBinary(op, left, right, opLoc)
	}
}

func binaryOpFor(k TokenKind) (BinaryOp, bool) {
	switch k {
	case TokPlus:
		return OpAdd, true
	case TokMinus:
		return OpSub, true
	case TokStar:
		return OpMul, true
	case TokSlash:
		return OpDiv, true
	case TokPercent:
		return OpMod, true
	case TokShl:
		return OpShl, true
	case TokShr:
		return OpShr, true
	case TokLt:
		return OpLt, true
	case TokLe:
		return OpLe, true
	case TokGt:
		return OpGt, true
	case TokGe:
		return OpGe, true
	case TokEqEq:
		return OpEq, true
	case TokNe:
		return OpNe, true
	case TokAmp:
		return OpBitAnd, true
	case TokCaret:
		return OpBitXor, true
	case TokPipe:
		return OpBitOr, true
	case TokAndAnd:
		return OpAnd, true
	case TokOrOr:
		return OpOr, true
	case TokDotDot:
		return OpRange, true
	case TokArrow:
		return OpCase, true
	default:
		return 0, false
	}
}

func (p *parser) parseUnary() (*ExpressionNode, error) {
	loc := p.loc()
	switch p.cur.Kind {
	case TokPlus:
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewUnary(OpPlus, operand, loc), nil
	case TokMinus:
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewUnary(OpNegate, operand, loc), nil
	case TokBang:
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewUnary(OpNot, operand, loc), nil
	case TokTilde:
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewUnary(OpBitwiseNot, operand, loc), nil
	default:
		return p.parsePostfix()
	}
}

func (p *parser) parsePostfix() (*ExpressionNode, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.check(TokLBracket) {
		loc := p.loc()
		if err := p.advance(); err != nil {
			return nil, err
		}
		subs, err := p.parseSubItemList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRBracket); err != nil {
			return nil, err
		}
		node = NewSubscriptNode(node, subs, loc)
	}
	return node, nil
}

func (p *parser) parseSubItemList() ([]*ExpressionNode, error) {
	var items []*ExpressionNode
	if p.check(TokRBracket) {
		return items, nil
	}
	for {
		item, err := p.parseSubItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if !p.check(TokComma) {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cfg.strict == false && p.check(TokRBracket) {
			break
		}
	}
	return items, nil
}

// parseSubItem handles the one subscript form that isn't covered by a
// plain expression: a leading '..' with no left-hand operand, which
// ranges from 0 (spec §4.1).
func (p *parser) parseSubItem() (*ExpressionNode, error) {
	if p.check(TokDotDot) {
		loc := p.loc()
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.check(TokRBracket) || p.check(TokComma) {
			return NewBinary(OpRange, NewLiteral(NewNumber(0), loc), NewVariable(autoRangeParameter, loc), loc), nil
		}
		right, err := p.parseExpr(true)
		if err != nil {
			return nil, err
		}
		return NewBinary(OpRange, NewLiteral(NewNumber(0), loc), right, loc), nil
	}
	return p.parseExpr(true)
}

func (p *parser) parsePrimary() (*ExpressionNode, error) {
	loc := p.loc()
	switch p.cur.Kind {
	case TokNumber:
		n := p.cur.Num
		if err := p.advance(); err != nil {
			return nil, err
		}
		return NewLiteral(NewNumber(n), loc), nil
	case TokString:
		s := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return NewLiteral(NewString(s), loc), nil
	case TokTrue:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return NewLiteral(NewBoolean(true), loc), nil
	case TokFalse:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return NewLiteral(NewBoolean(false), loc), nil
	case TokNull:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return NewLiteral(Null, loc), nil
	case TokIdent:
		name := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return NewVariable(name, loc), nil
	case TokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr(false)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		// Wrapped in Group so NewBinary's rebalancing can never rotate
		// across the parens the author actually wrote (spec §8 S4).
		return NewUnary(OpGroup, inner, loc), nil
	case TokLBracket:
		return p.parseArrayLiteral()
	case TokLBrace:
		return p.parseBraceLiteral()
	default:
		return nil, newParseError(ErrUnexpectedToken, p.cur, setOf(
			TokNumber, TokString, TokTrue, TokFalse, TokNull, TokIdent,
			TokLParen, TokLBracket, TokLBrace))
	}
}

func (p *parser) parseArrayLiteral() (*ExpressionNode, error) {
	loc := p.loc()
	if err := p.advance(); err != nil { // '['
		return nil, err
	}
	var elements []*ExpressionNode
	for !p.check(TokRBracket) || (p.cfg.strict && len(elements) > 0) {
		elem, err := p.parseExpr(false)
		if err != nil {
			return nil, err
		}
		elements = append(elements, elem)
		if !p.check(TokComma) {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.cfg.strict && p.check(TokRBracket) {
			break
		}
	}
	if _, err := p.expect(TokRBracket); err != nil {
		return nil, err
	}
	return NewArrayNode(elements, loc), nil
}

// parseBraceLiteral disambiguates a map literal '{ ... }' from a
// switch literal '{{ ... }}' by checking for a second '{' immediately
// after the first.
func (p *parser) parseBraceLiteral() (*ExpressionNode, error) {
	loc := p.loc()
	if err := p.advance(); err != nil { // '{'
		return nil, err
	}
	if p.check(TokLBrace) {
		return p.parseSwitchBody(loc)
	}
	return p.parseMapBody(loc)
}

func (p *parser) parseMapBody(loc Location) (*ExpressionNode, error) {
	var entries []MapEntry
	for !p.check(TokRBrace) || (p.cfg.strict && len(entries) > 0) {
		var key string
		switch p.cur.Kind {
		case TokIdent:
			key = p.cur.Text
		case TokString:
			key = p.cur.Text
		default:
			return nil, newParseError(ErrUnexpectedToken, p.cur, setOf(TokIdent, TokString))
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokColon); err != nil {
			return nil, err
		}
		val, err := p.parseExpr(false)
		if err != nil {
			return nil, err
		}
		entries = append(entries, MapEntry{Key: key, Value: val})
		if !p.check(TokComma) {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.cfg.strict && p.check(TokRBrace) {
			break
		}
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return nil, err
	}
	return NewMapNode(entries, loc), nil
}

func (p *parser) parseSwitchBody(loc Location) (*ExpressionNode, error) {
	if err := p.advance(); err != nil { // second '{'
		return nil, err
	}
	var cases []*ExpressionNode
	for !p.check(TokRBrace) || (p.cfg.strict && len(cases) > 0) {
		c, err := p.parseExpr(false)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
		if !p.check(TokComma) {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.cfg.strict && p.check(TokRBrace) {
			break
		}
	}
	if _, err := p.expect(TokRBrace); err != nil { // first closing '}'
		return nil, err
	}
	if _, err := p.expect(TokRBrace); err != nil { // second closing '}'
		return nil, err
	}
	return NewSwitchNode(cases, loc), nil
}
