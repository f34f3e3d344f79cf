package parser

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	rsqlErrors "mercator-hq/rsql/pkg/rsql/errors"
	"mercator-hq/rsql/pkg/rsql/literal"
)

// lexer produces tokens on demand, so a lexical error late in the query is
// not reported before a syntax error that comes earlier.
type lexer struct {
	input string
	pos   rsqlErrors.Position // Next unread byte
}

func newLexer(input string) *lexer {
	return &lexer{input: input, pos: startPosition}
}

// Tokenize splits query into tokens without parsing it. The trailing EOF
// token is not included.
func Tokenize(query string) ([]Token, error) {
	l := newLexer(query)
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, rsqlErrors.WithQuery(err, query)
		}
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

func (l *lexer) more() bool {
	return l.pos.Offset < len(l.input)
}

// current returns the rune at the read position.
func (l *lexer) current() (rune, int) {
	return utf8.DecodeRuneInString(l.input[l.pos.Offset:])
}

// advance moves past the current rune.
func (l *lexer) advance() {
	r, size := l.current()
	l.pos.Offset += size
	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}
}

func (l *lexer) token(kind TokenKind, start rsqlErrors.Position) Token {
	return Token{
		Kind: kind,
		Text: l.input[start.Offset:l.pos.Offset],
		Pos:  start,
		End:  l.pos.Offset,
	}
}

func (l *lexer) next() (Token, *rsqlErrors.Error) {
	for l.more() {
		if r, _ := l.current(); !unicode.IsSpace(r) {
			break
		}
		l.advance()
	}

	start := l.pos
	if !l.more() {
		return Token{Kind: TokenEOF, Pos: start, End: start.Offset}, nil
	}

	switch l.input[l.pos.Offset] {
	case '(':
		l.advance()
		return l.token(TokenLParen, start), nil
	case ')':
		l.advance()
		return l.token(TokenRParen, start), nil
	case ';':
		l.advance()
		return l.token(TokenSemicolon, start), nil
	case ',':
		l.advance()
		return l.token(TokenComma, start), nil
	case '"', '\'':
		return l.scanQuoted()
	case '=', '!', '<', '>':
		return l.scanOperator()
	}
	return l.scanWord()
}

// scanOperator reads =[a-zA-Z]*=, !=, <, <=, > or >=.
func (l *lexer) scanOperator() (Token, *rsqlErrors.Error) {
	start := l.pos
	c := l.input[start.Offset]
	l.advance()

	switch c {
	case '=':
		for l.more() && isASCIILetter(l.input[l.pos.Offset]) {
			l.advance()
		}
		if l.more() && l.input[l.pos.Offset] == '=' {
			l.advance()
			return l.token(TokenOperator, start), nil
		}
		text := l.input[start.Offset:l.pos.Offset]
		err := rsqlErrors.NewLexical(fmt.Sprintf("malformed comparison operator %q", text), start, text)
		if text == "=" {
			err.Suggestion = "Did you mean '=='?"
		} else {
			err.Suggestion = fmt.Sprintf("Close the operator with '=', e.g. '%s='", text)
		}
		return Token{}, err
	case '!':
		if l.more() && l.input[l.pos.Offset] == '=' {
			l.advance()
			return l.token(TokenOperator, start), nil
		}
		err := rsqlErrors.NewLexical("unexpected character '!'", start, "!")
		err.Suggestion = "Did you mean '!='?"
		return Token{}, err
	default:
		if l.more() && l.input[l.pos.Offset] == '=' {
			l.advance()
		}
		return l.token(TokenOperator, start), nil
	}
}

// scanQuoted reads a quoted literal up to the matching unescaped quote.
func (l *lexer) scanQuoted() (Token, *rsqlErrors.Error) {
	start := l.pos
	quote := l.input[start.Offset]
	l.advance()

	for l.more() {
		r, size := l.current()
		switch {
		case r == utf8.RuneError && size == 1:
			return Token{}, rsqlErrors.NewLexical("invalid UTF-8 encoding", l.pos, l.input[l.pos.Offset:l.pos.Offset+1])
		case r == '\\':
			l.advance()
			if l.more() {
				l.advance()
			}
		case r == rune(quote):
			l.advance()
			tok := l.token(TokenQuoted, start)
			value, err := literal.DecodeQuoted(tok.Text)
			if err != nil {
				return Token{}, relocate(err, start, tok.Text)
			}
			tok.Value = value
			return tok, nil
		default:
			l.advance()
		}
	}

	err := rsqlErrors.NewLexical("unterminated quoted literal", start, string(quote))
	err.Suggestion = fmt.Sprintf("Add a closing %c", quote)
	return Token{}, err
}

// scanWord reads an unquoted run. A backslash makes the next rune part of
// the word, including reserved characters.
func (l *lexer) scanWord() (Token, *rsqlErrors.Error) {
	start := l.pos

	for l.more() {
		r, size := l.current()
		if r == utf8.RuneError && size == 1 {
			return Token{}, rsqlErrors.NewLexical("invalid UTF-8 encoding", l.pos, l.input[l.pos.Offset:l.pos.Offset+1])
		}
		if r == '\\' {
			l.advance()
			if l.more() {
				if r, size := l.current(); r == utf8.RuneError && size == 1 {
					return Token{}, rsqlErrors.NewLexical("invalid UTF-8 encoding", l.pos, l.input[l.pos.Offset:l.pos.Offset+1])
				}
				l.advance()
			}
			continue
		}
		if literal.IsIllegal(r) {
			return Token{}, rsqlErrors.NewLexical(fmt.Sprintf("illegal control character %U", r), l.pos, string(r))
		}
		if literal.IsReserved(r) {
			break
		}
		l.advance()
	}

	tok := l.token(TokenWord, start)
	value, err := literal.DecodeBare(tok.Text)
	if err != nil {
		return Token{}, relocate(err, start, tok.Text)
	}
	tok.Value = value
	return tok, nil
}

// relocate turns a literal error, positioned relative to the literal, into
// one positioned in the query.
func relocate(err error, base rsqlErrors.Position, text string) *rsqlErrors.Error {
	var e *rsqlErrors.Error
	if !errors.As(err, &e) {
		return rsqlErrors.NewLexical(err.Error(), base, text)
	}
	rel := e.Position.Offset
	if rel > len(text) {
		rel = len(text)
	}
	e.Position = advancePosition(base, text[:rel])
	return e
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
