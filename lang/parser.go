package lang

import (
	"github.com/evlang/evlang/ast"
	"github.com/evlang/evlang/store"
)

// Parse consumes tokens and builds a *ast.Tree, failing with
// CategoryParsingError on malformed input (spec §7).
//
// Grammar (informal):
//
//	program    := (testDef | exprDef | expression)*
//	testDef    := '@' 'Test' charList '{' expression '}'
//	exprDef    := identifier '=' '{' expression '}'
//	expression := conditional
//	conditional:= rangeExpr ('?' expression ':' expression)?
//	rangeExpr  := additive (('..' | '<..' | '..<' | '<..<') additive)?
//	additive   := multiplicative (('+' | '-') multiplicative)*
//	multiplic. := equality (('*' | '/') equality)*
//	equality   := applyExpr ('==' applyExpr)?
//	applyExpr  := primary (('(' expression? ')') | ('~' primary))*
//	primary    := number | charList | symbol | 'true' | 'false' | 'unit'
//	            | identifier | '(' groupOrList ')'
//	groupOrList:= (pairOrExpr (',' pairOrExpr)*)?
//	pairOrExpr := expression (':' expression)?
func Parse(tokens []Token) (*ast.Tree, error) {
	p := &parser{tokens: tokens}
	tree := &ast.Tree{}
	p.tree = tree

	var topLevel []int
	for p.peek().Kind != TokEOF {
		idx, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		topLevel = append(topLevel, idx)
	}

	tree.Root = tree.Add(ast.Node{Kind: ast.KindUnit, Children: topLevel})
	return tree, nil
}

type parser struct {
	tokens []Token
	pos    int
	tree   *ast.Tree
}

func (p *parser) peek() Token  { return p.tokens[p.pos] }
func (p *parser) advance() Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind TokenKind, what string) (Token, error) {
	t := p.peek()
	if t.Kind != kind {
		return Token{}, store.NewErrorf(store.CategoryParsingError, "%s: expected %s, got %q", t.Pos, what, t.Text)
	}
	return p.advance(), nil
}

func (p *parser) add(n ast.Node) int { return p.tree.Add(n) }

func (p *parser) parseTopLevel() (int, error) {
	if p.peek().Kind == TokAt {
		return p.parseTestDef()
	}
	if p.peek().Kind == TokIdentifier && p.lookaheadIsAssign() {
		return p.parseExpressionDef()
	}
	return p.parseExpression()
}

func (p *parser) lookaheadIsAssign() bool {
	return p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Kind == TokAssign
}

// parseTestDef handles `@Test "name" { expr }`, per spec §8 scenario 5: a
// test-extractor collaborator that names the body by its quoted label.
func (p *parser) parseTestDef() (int, error) {
	p.advance() // '@'
	kw, err := p.expect(TokIdentifier, "Test")
	if err != nil {
		return 0, err
	}
	if kw.Text != "Test" {
		return 0, store.NewErrorf(store.CategoryParsingError, "%s: expected 'Test', got %q", kw.Pos, kw.Text)
	}
	nameTok, err := p.expect(TokCharList, "test name string")
	if err != nil {
		return 0, err
	}
	name, err := store.ParseCharList(nameTok.Text)
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(TokLBrace, "{"); err != nil {
		return 0, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(TokRBrace, "}"); err != nil {
		return 0, err
	}
	return p.add(ast.Node{Kind: ast.KindExpressionDef, Name: name, Left: body}), nil
}

func (p *parser) parseExpressionDef() (int, error) {
	nameTok := p.advance()
	if _, err := p.expect(TokAssign, "="); err != nil {
		return 0, err
	}
	if _, err := p.expect(TokLBrace, "{"); err != nil {
		return 0, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(TokRBrace, "}"); err != nil {
		return 0, err
	}
	return p.add(ast.Node{Kind: ast.KindExpressionDef, Name: nameTok.Text, Left: body}), nil
}

func (p *parser) parseExpression() (int, error) { return p.parseConditional() }

func (p *parser) parseConditional() (int, error) {
	cond, err := p.parseRange()
	if err != nil {
		return 0, err
	}
	if p.peek().Kind != TokQuestion {
		return cond, nil
	}
	p.advance()
	thenBranch, err := p.parseExpression()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(TokColon, ":"); err != nil {
		return 0, err
	}
	elseBranch, err := p.parseExpression()
	if err != nil {
		return 0, err
	}
	return p.add(ast.Node{Kind: ast.KindConditional, Left: cond, Children: []int{thenBranch, elseBranch}}), nil
}

func (p *parser) parseRange() (int, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return 0, err
	}
	if p.peek().Kind != TokRange {
		return left, nil
	}
	tok := p.advance()
	right, err := p.parseAdditive()
	if err != nil {
		return 0, err
	}
	return p.add(ast.Node{Kind: ast.KindRange, Left: left, Right: right, StartExclusive: tok.Start, EndExclusive: tok.End}), nil
}

func (p *parser) parseAdditive() (int, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return 0, err
	}
	for {
		var op ast.BinaryOperator
		switch p.peek().Kind {
		case TokPlus:
			op = ast.OpAdd
		case TokMinus:
			op = ast.OpSub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return 0, err
		}
		left = p.add(ast.Node{Kind: ast.KindBinaryOp, BinaryOp: op, Left: left, Right: right})
	}
}

func (p *parser) parseMultiplicative() (int, error) {
	left, err := p.parseEquality()
	if err != nil {
		return 0, err
	}
	for {
		var op ast.BinaryOperator
		switch p.peek().Kind {
		case TokStar:
			op = ast.OpMul
		case TokSlash:
			op = ast.OpDiv
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return 0, err
		}
		left = p.add(ast.Node{Kind: ast.KindBinaryOp, BinaryOp: op, Left: left, Right: right})
	}
}

func (p *parser) parseEquality() (int, error) {
	left, err := p.parseApply()
	if err != nil {
		return 0, err
	}
	if p.peek().Kind != TokEqualEqual {
		return left, nil
	}
	p.advance()
	right, err := p.parseApply()
	if err != nil {
		return 0, err
	}
	return p.add(ast.Node{Kind: ast.KindBinaryOp, BinaryOp: ast.OpEqual, Left: left, Right: right}), nil
}

func (p *parser) parseApply() (int, error) {
	callable, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek().Kind {
		case TokLParen:
			p.advance()
			if p.peek().Kind == TokRParen {
				p.advance()
				callable = p.add(ast.Node{Kind: ast.KindEmptyApply, Left: callable})
				continue
			}
			arg, err := p.parseExpression()
			if err != nil {
				return 0, err
			}
			if _, err := p.expect(TokRParen, ")"); err != nil {
				return 0, err
			}
			callable = p.add(ast.Node{Kind: ast.KindApply, Left: callable, Right: arg})
		case TokTilde:
			p.advance()
			arg, err := p.parsePrimary()
			if err != nil {
				return 0, err
			}
			callable = p.add(ast.Node{Kind: ast.KindPartialApply, Left: callable, Right: arg})
		default:
			return callable, nil
		}
	}
}

func (p *parser) parsePrimary() (int, error) {
	t := p.peek()
	switch t.Kind {
	case TokNumber:
		p.advance()
		return p.add(ast.Node{Kind: ast.KindNumber, Text: t.Text}), nil
	case TokCharList:
		p.advance()
		return p.add(ast.Node{Kind: ast.KindCharList, Text: t.Text}), nil
	case TokSymbol:
		p.advance()
		return p.add(ast.Node{Kind: ast.KindSymbolLiteral, Text: t.Text}), nil
	case TokIdentifier:
		p.advance()
		switch t.Text {
		case "true":
			return p.add(ast.Node{Kind: ast.KindTrue}), nil
		case "false":
			return p.add(ast.Node{Kind: ast.KindFalse}), nil
		case "unit":
			return p.add(ast.Node{Kind: ast.KindUnit}), nil
		default:
			return p.add(ast.Node{Kind: ast.KindSymbolRef, Name: t.Text}), nil
		}
	case TokLParen:
		return p.parseGroupOrList()
	default:
		return 0, store.NewErrorf(store.CategoryParsingError, "%s: unexpected token %q", t.Pos, t.Text)
	}
}

// parseGroupOrList handles '(' ... ')': an empty pair is Unit, a single
// non-pair expression is a grouping, and anything else (pairs or multiple
// comma-separated items) builds a List (spec §4.3/§8 scenario 3).
func (p *parser) parseGroupOrList() (int, error) {
	p.advance() // '('
	if p.peek().Kind == TokRParen {
		p.advance()
		return p.add(ast.Node{Kind: ast.KindUnit}), nil
	}

	var items []int
	for {
		item, err := p.parsePairOrExpr()
		if err != nil {
			return 0, err
		}
		items = append(items, item)
		if p.peek().Kind != TokComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(TokRParen, ")"); err != nil {
		return 0, err
	}

	if len(items) == 1 {
		if node := p.tree.Nodes[items[0]]; node.Kind != ast.KindPair {
			return items[0], nil
		}
	}
	return p.add(ast.Node{Kind: ast.KindList, Children: items}), nil
}

// parsePairOrExpr parses one list element. A bare `identifier: value` is
// the association-key sugar (spec §8 scenario 3): the key lowers as a
// Symbol literal, not a symbol reference, so MakeList can recognize it as
// an association.
func (p *parser) parsePairOrExpr() (int, error) {
	if p.peek().Kind == TokIdentifier && p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Kind == TokColon {
		keyTok := p.advance()
		key := p.add(ast.Node{Kind: ast.KindSymbolLiteral, Text: keyTok.Text})
		p.advance() // ':'
		value, err := p.parseExpression()
		if err != nil {
			return 0, err
		}
		return p.add(ast.Node{Kind: ast.KindPair, Left: key, Right: value}), nil
	}

	left, err := p.parseExpression()
	if err != nil {
		return 0, err
	}
	if p.peek().Kind != TokColon {
		return left, nil
	}
	p.advance()
	right, err := p.parseExpression()
	if err != nil {
		return 0, err
	}
	return p.add(ast.Node{Kind: ast.KindPair, Left: left, Right: right}), nil
}
