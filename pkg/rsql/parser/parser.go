package parser

import (
	"errors"
	"fmt"

	"mercator-hq/rsql/pkg/rsql/ast"
	rsqlErrors "mercator-hq/rsql/pkg/rsql/errors"
	"mercator-hq/rsql/pkg/rsql/operators"
)

const (
	// DefaultMaxLength is the default query length limit in bytes.
	DefaultMaxLength = 64 * 1024

	// DefaultMaxDepth is the default limit on nested groups.
	DefaultMaxDepth = 64
)

// Parser parses RSQL queries into ASTs.
// Configure it with the With methods before use; Parse does not modify the
// parser, so one instance may serve concurrent callers.
type Parser struct {
	registry  *operators.Registry
	keywords  KeywordMode
	maxLength int // Maximum query length in bytes, 0 for no limit
	maxDepth  int // Maximum group nesting, 0 for no limit
}

// NewParser creates a parser with the built-in operators and default limits.
func NewParser() *Parser {
	return &Parser{
		registry:  operators.Default(),
		keywords:  KeywordsUpper,
		maxLength: DefaultMaxLength,
		maxDepth:  DefaultMaxDepth,
	}
}

// WithRegistry sets the operators the parser recognizes. A nil registry
// selects the built-ins.
func (p *Parser) WithRegistry(registry *operators.Registry) *Parser {
	if registry == nil {
		registry = operators.Default()
	}
	p.registry = registry
	return p
}

// WithKeywords sets the keyword separator mode.
func (p *Parser) WithKeywords(mode KeywordMode) *Parser {
	p.keywords = mode
	return p
}

// WithMaxLength sets the maximum query length in bytes.
func (p *Parser) WithMaxLength(n int) *Parser {
	p.maxLength = n
	return p
}

// WithMaxDepth sets the maximum nesting depth of parenthesized groups.
func (p *Parser) WithMaxDepth(depth int) *Parser {
	p.maxDepth = depth
	return p
}

// Registry returns the operators the parser recognizes.
func (p *Parser) Registry() *operators.Registry {
	return p.registry
}

// Parse parses query and returns the root node. The whole input must form
// one expression. Any error is a *rsqlErrors.Error describing the first
// problem found, with the query and a caret context attached.
func (p *Parser) Parse(query string) (ast.Node, error) {
	if p.maxLength > 0 && len(query) > p.maxLength {
		err := rsqlErrors.NewLimit(
			fmt.Sprintf("query length %d exceeds maximum %d bytes", len(query), p.maxLength),
			positionAt(query, p.maxLength),
		)
		return nil, rsqlErrors.WithQuery(err, query)
	}

	s := &state{parser: p, lex: newLexer(query)}
	node, err := s.parseQuery()
	if err != nil {
		var e *rsqlErrors.Error
		if errors.As(err, &e) {
			return nil, rsqlErrors.WithQuery(e, query)
		}
		return nil, err
	}
	return node, nil
}

// state is the cursor of a single Parse call.
type state struct {
	parser *Parser
	lex    *lexer
	buf    *Token // One token of lookahead
	depth  int
}

func (s *state) peek() (Token, error) {
	if s.buf == nil {
		tok, err := s.lex.next()
		if err != nil {
			return Token{}, err
		}
		s.buf = &tok
	}
	return *s.buf, nil
}

func (s *state) next() (Token, error) {
	tok, err := s.peek()
	if err != nil {
		return Token{}, err
	}
	s.buf = nil
	return tok, nil
}

func (s *state) parseQuery() (ast.Node, error) {
	node, err := s.parseOr()
	if err != nil {
		return nil, err
	}

	tok, err := s.peek()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case TokenEOF:
		return node, nil
	case TokenRParen:
		e := rsqlErrors.NewSyntax("end of input", "unbalanced ')'", tok.Pos, tok.Text)
		e.Suggestion = "Remove the ')' or add a matching '('"
		return nil, e
	default:
		return nil, rsqlErrors.NewSyntax("';', ',' or end of input", tok.describe(), tok.Pos, tok.Text)
	}
}

// parseOr parses and_expr (OR_SEP and_expr)* into one flat node.
func (s *state) parseOr() (ast.Node, error) {
	return s.parseChain(ast.Or, s.parseAnd)
}

// parseAnd parses constraint (AND_SEP constraint)* into one flat node.
func (s *state) parseAnd() (ast.Node, error) {
	return s.parseChain(ast.And, s.parseConstraint)
}

func (s *state) parseChain(op ast.LogicalOperator, operand func() (ast.Node, error)) (ast.Node, error) {
	first, err := operand()
	if err != nil {
		return nil, err
	}

	children := []ast.Node{first}
	for {
		ok, err := s.acceptSeparator(op)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		child, err := operand()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	if len(children) == 1 {
		return first, nil
	}
	return ast.NewLogical(op, children...)
}

// acceptSeparator consumes the next token if it separates operands of op.
func (s *state) acceptSeparator(op ast.LogicalOperator) (bool, error) {
	tok, err := s.peek()
	if err != nil {
		return false, err
	}

	var ok bool
	switch tok.Kind {
	case TokenSemicolon:
		ok = op == ast.And
	case TokenComma:
		ok = op == ast.Or
	case TokenWord:
		ok = s.parser.keywords.match(tok.Text, op)
	}
	if ok {
		s.buf = nil
	}
	return ok, nil
}

// parseConstraint parses a comparison or a parenthesized group.
func (s *state) parseConstraint() (ast.Node, error) {
	tok, err := s.peek()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case TokenWord:
		return s.parseComparison()

	case TokenLParen:
		s.buf = nil
		s.depth++
		if limit := s.parser.maxDepth; limit > 0 && s.depth > limit {
			return nil, rsqlErrors.NewLimit(fmt.Sprintf("groups nested deeper than %d levels", limit), tok.Pos)
		}

		node, err := s.parseOr()
		if err != nil {
			return nil, err
		}

		closing, err := s.next()
		if err != nil {
			return nil, err
		}
		if closing.Kind != TokenRParen {
			e := rsqlErrors.NewSyntax("')'", closing.describe(), closing.Pos, closing.Text)
			e.Suggestion = fmt.Sprintf("Close the group opened at %s", tok.Pos)
			return nil, e
		}
		s.depth--
		return node, nil

	default:
		return nil, rsqlErrors.NewSyntax("selector or '('", tok.describe(), tok.Pos, tok.Text)
	}
}

// parseComparison parses selector operator arguments.
func (s *state) parseComparison() (ast.Node, error) {
	selector, err := s.next()
	if err != nil {
		return nil, err
	}

	opTok, err := s.next()
	if err != nil {
		return nil, err
	}
	if opTok.Kind != TokenOperator {
		return nil, rsqlErrors.NewSyntax("comparison operator", opTok.describe(), opTok.Pos, opTok.Text)
	}

	registry := s.parser.registry
	op, ok := registry.Resolve(opTok.Text)
	if !ok {
		e := rsqlErrors.NewUnknownOperator(opTok.Text, opTok.Pos)
		e.Suggestion = rsqlErrors.SuggestSymbol(opTok.Text, registry.Symbols())
		return nil, e
	}

	args, err := s.parseArguments()
	if err != nil {
		return nil, err
	}

	node, err := ast.NewComparison(selector.Text, op, args...)
	if err != nil {
		var e *rsqlErrors.Error
		if !errors.As(err, &e) {
			return nil, err
		}
		if e.Type == rsqlErrors.ErrorTypeArgumentCount {
			e.At(opTok.Pos, opTok.Text)
			if !op.IsMultiValue() && len(args) > 1 {
				e.Suggestion = "Pass a single argument or use a multi-value operator such as '=in='"
			}
		} else {
			e.At(selector.Pos, selector.Text)
		}
		return nil, e
	}
	return node, nil
}

// parseArguments parses a single argument or a parenthesized list.
func (s *state) parseArguments() ([]string, error) {
	tok, err := s.peek()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case TokenWord, TokenQuoted:
		arg, err := s.parseArgument()
		if err != nil {
			return nil, err
		}
		return []string{arg}, nil

	case TokenLParen:
		s.buf = nil
		var args []string
		for {
			if len(args) == 0 {
				if t, err := s.peek(); err != nil {
					return nil, err
				} else if t.Kind == TokenRParen {
					e := rsqlErrors.NewSyntax("argument", t.describe(), t.Pos, t.Text)
					e.Message = "empty argument list"
					return nil, e
				}
			}

			arg, err := s.parseArgument()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			sep, err := s.next()
			if err != nil {
				return nil, err
			}
			switch sep.Kind {
			case TokenComma:
				continue
			case TokenRParen:
				return args, nil
			default:
				e := rsqlErrors.NewSyntax("',' or ')'", sep.describe(), sep.Pos, sep.Text)
				if sep.Kind == TokenEOF {
					e.Suggestion = fmt.Sprintf("Close the argument list opened at %s", tok.Pos)
				}
				return nil, e
			}
		}

	default:
		return nil, rsqlErrors.NewSyntax("argument", tok.describe(), tok.Pos, tok.Text)
	}
}

// parseArgument parses one literal and rejects reserved characters glued to
// it, such as the '"' in a"b or the '<' in a<b.
func (s *state) parseArgument() (string, error) {
	tok, err := s.next()
	if err != nil {
		return "", err
	}

	switch tok.Kind {
	case TokenWord, TokenQuoted:
	default:
		return "", rsqlErrors.NewSyntax("argument", tok.describe(), tok.Pos, tok.Text)
	}

	after, err := s.peek()
	if err != nil {
		return "", err
	}
	if tok.adjacent(after) {
		switch {
		case tok.Kind == TokenWord && (after.Kind == TokenOperator || after.Kind == TokenQuoted || after.Kind == TokenLParen):
			reserved := after.Text[:1]
			e := rsqlErrors.NewLexical(fmt.Sprintf("reserved character %q in unquoted literal", reserved), after.Pos, reserved)
			e.Suggestion = "Quote the argument or escape the character with '\\'"
			return "", e
		case tok.Kind == TokenQuoted && (after.Kind == TokenWord || after.Kind == TokenQuoted):
			return "", rsqlErrors.NewLexical("unexpected characters after closing quote", after.Pos, after.Text)
		}
	}
	return tok.Value, nil
}
