package parser

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mercator-hq/rsql/pkg/rsql/ast"
	rsqlErrors "mercator-hq/rsql/pkg/rsql/errors"
	"mercator-hq/rsql/pkg/rsql/operators"
)

// dump renders a tree with explicit structure, e.g. or(and(a==1,b==2),c==3).
func dump(n ast.Node) string {
	switch n := n.(type) {
	case *ast.LogicalNode:
		parts := make([]string, 0, n.Len())
		for _, c := range n.Children() {
			parts = append(parts, dump(c))
		}
		return n.Operator().String() + "(" + strings.Join(parts, ",") + ")"
	case *ast.ComparisonNode:
		return n.String()
	default:
		return "<nil>"
	}
}

func mustParse(t *testing.T, p *Parser, query string) ast.Node {
	t.Helper()
	node, err := p.Parse(query)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", query, err)
	}
	return node
}

func TestParser_Structure(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"single comparison", "name==John", "name==John"},
		{"precedence", "a==1;b==2,c==3", "or(and(a==1,b==2),c==3)"},
		{"precedence right", "a==1,b==2;c==3", "or(a==1,and(b==2,c==3))"},
		{"flat and", "a==1;b==2;c==3", "and(a==1,b==2,c==3)"},
		{"flat or", "a==1,b==2,c==3,d==4", "or(a==1,b==2,c==3,d==4)"},
		{"grouping", "(a==1,b==2);c==3", "and(or(a==1,b==2),c==3)"},
		{"group of same operator", "(a==1;b==2);c==3", "and(and(a==1,b==2),c==3)"},
		{"single constraint group", "(a==1)", "a==1"},
		{"nested groups", "((a==1))", "a==1"},
		{"group inside group", "a==1;(b==2,(c==3;d==4))", "and(a==1,or(b==2,and(c==3,d==4)))"},
		{"keywords", "a==1 AND b==2 OR c==3", "or(and(a==1,b==2),c==3)"},
		{"keywords after group", "(a==1 OR b==2) AND c==3", "and(or(a==1,b==2),c==3)"},
		{"mixed separators", "a==1 AND b==2;c==3", "and(a==1,b==2,c==3)"},
		{"whitespace", "  a == 1 ;\n\tb =gt= 2  ", "and(a==1,b=gt=2)"},
		{"alias resolves to canonical", "age>25", "age=gt=25"},
		{"all aliases", "a<1;b<=2;c>=3;d!=4", "and(a=lt=1,b=le=2,c=ge=3,d!=4)"},
		{"multi value", "name=in=(1,2,3)", "name=in=(1,2,3)"},
		{"multi value single", "name=out=(1)", "name=out=1"},
		{"parenthesized single value", "name==(1)", "name==1"},
		{"keyword as selector", "AND==1", "AND==1"},
		{"keyword as argument", "a==OR;b=in=(AND,OR)", "and(a==OR,b=in=(AND,OR))"},
		{"dotted selector", "address.city==Prague", "address.city==Prague"},
		{"unicode", "název==čau", "název==čau"},
		{"wildcards and dates", "name==*ohn*;born=lt=2024-01-01T10:00:00Z", "and(name==*ohn*,born=lt=2024-01-01T10:00:00Z)"},
		{"negative number", "n=gt=-1.5e3", "n=gt=-1.5e3"},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dump(mustParse(t, p, tt.query))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestParser_Arguments(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"quoted reserved characters", `name=="a,b;c"`, []string{"a,b;c"}},
		{"single quoted", `name=='a (b)'`, []string{"a (b)"}},
		{"whitespace preserved", `name==" x  y "`, []string{" x  y "}},
		{"escaped double quote", `name=="say \"hi\""`, []string{`say "hi"`}},
		{"escaped single quote", `name=='it\'s'`, []string{"it's"}},
		{"escaped backslash", `name=="a\\b"`, []string{`a\b`}},
		{"unknown escape kept", `name=="a\nb"`, []string{`a\nb`}},
		{"other quote unescaped", `name=="it's"`, []string{"it's"}},
		{"empty quoted", `name==""`, []string{""}},
		{"escaped bare", `name==a\,b\;c`, []string{"a,b;c"}},
		{"escaped space", `name==a\ b`, []string{"a b"}},
		{"mixed list", `tag=in=(a, "b c", 'd,e')`, []string{"a", "b c", "d,e"}},
		{"keyword inside list", `tag=in=(x OR, y)`, nil},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := p.Parse(tt.query)
			if tt.want == nil {
				if err == nil {
					t.Fatalf("Parse(%q) succeeded, want error", tt.query)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.query, err)
			}
			c, ok := node.(*ast.ComparisonNode)
			if !ok {
				t.Fatalf("Parse(%q) = %T, want *ast.ComparisonNode", tt.query, node)
			}
			if diff := cmp.Diff(tt.want, c.Arguments()); diff != "" {
				t.Errorf("Arguments() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParser_Selector(t *testing.T) {
	tests := []struct {
		query    string
		selector string
		argument string
	}{
		{`a\=b==1`, `a\=b`, "1"},
		{`a\;b==1`, `a\;b`, "1"},
		{`x==a\;b`, "x", "a;b"},
		{`a\;b==a\;b`, `a\;b`, "a;b"},
		{`user.name==x`, "user.name", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c := mustParse(t, NewParser(), tt.query).(*ast.ComparisonNode)
			if c.Selector() != tt.selector {
				t.Errorf("Selector() = %q, want %q", c.Selector(), tt.selector)
			}
			if c.Argument() != tt.argument {
				t.Errorf("Argument() = %q, want %q", c.Argument(), tt.argument)
			}
		})
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		errType rsqlErrors.ErrorType
		offset  int
		token   string
	}{
		{"unknown operator", "name=foo=1", rsqlErrors.ErrorTypeUnknownOperator, 4, "=foo="},
		{"too many arguments", "name==(1,2)", rsqlErrors.ErrorTypeArgumentCount, 4, "=="},
		{"empty input", "", rsqlErrors.ErrorTypeSyntax, 0, ""},
		{"blank input", "   ", rsqlErrors.ErrorTypeSyntax, 3, ""},
		{"missing operator", "name", rsqlErrors.ErrorTypeSyntax, 4, ""},
		{"missing argument", "name==", rsqlErrors.ErrorTypeSyntax, 6, ""},
		{"empty argument list", "name=in=()", rsqlErrors.ErrorTypeSyntax, 9, ")"},
		{"unclosed argument list", "a=in=(1,2", rsqlErrors.ErrorTypeSyntax, 9, ""},
		{"separator in argument list", "a=in=(1;2)", rsqlErrors.ErrorTypeSyntax, 7, ";"},
		{"unclosed group", "(a==1", rsqlErrors.ErrorTypeSyntax, 5, ""},
		{"unbalanced close", "a==1)", rsqlErrors.ErrorTypeSyntax, 4, ")"},
		{"trailing separator", "a==1;", rsqlErrors.ErrorTypeSyntax, 5, ""},
		{"double separator", "a==1;;b==2", rsqlErrors.ErrorTypeSyntax, 5, ";"},
		{"leading separator", ";a==1", rsqlErrors.ErrorTypeSyntax, 0, ";"},
		{"missing separator", "a==1 b==2", rsqlErrors.ErrorTypeSyntax, 5, "b"},
		{"missing selector", "==1", rsqlErrors.ErrorTypeSyntax, 0, "=="},
		{"empty group", "()", rsqlErrors.ErrorTypeSyntax, 1, ")"},
		{"lowercase keyword", "a==1 and b==2", rsqlErrors.ErrorTypeSyntax, 5, "and"},
		{"unterminated quote", `name=="abc`, rsqlErrors.ErrorTypeLexical, 6, `"`},
		{"quote inside bare literal", `name==a"b"`, rsqlErrors.ErrorTypeLexical, 7, `"`},
		{"text after closing quote", `name=="a"b`, rsqlErrors.ErrorTypeLexical, 9, "b"},
		{"operator inside bare literal", "name==a<b", rsqlErrors.ErrorTypeLexical, 7, "<"},
		{"paren inside bare literal", "name==f(x)", rsqlErrors.ErrorTypeLexical, 7, "("},
		{"single equals", "name=5", rsqlErrors.ErrorTypeLexical, 4, "="},
		{"unclosed operator", "name=gt", rsqlErrors.ErrorTypeLexical, 4, "=gt"},
		{"bang", "name!5", rsqlErrors.ErrorTypeLexical, 4, "!"},
		{"control character", "a==b\x01", rsqlErrors.ErrorTypeLexical, 4, "\x01"},
		{"invalid utf-8", "a==\xff", rsqlErrors.ErrorTypeLexical, 3, "\xff"},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := p.Parse(tt.query)
			if err == nil {
				t.Fatalf("Parse(%q) = %v, want error", tt.query, node)
			}
			if node != nil {
				t.Errorf("Parse(%q) returned a node with the error", tt.query)
			}

			var e *rsqlErrors.Error
			if !errors.As(err, &e) {
				t.Fatalf("error type = %T, want *errors.Error", err)
			}
			if e.Type != tt.errType {
				t.Errorf("Type = %q, want %q (%v)", e.Type, tt.errType, err)
			}
			if !errors.Is(err, tt.errType) {
				t.Errorf("errors.Is(err, %q) = false", tt.errType)
			}
			if e.Position.Offset != tt.offset {
				t.Errorf("Position.Offset = %d, want %d (%v)", e.Position.Offset, tt.offset, err)
			}
			if e.Token != tt.token {
				t.Errorf("Token = %q, want %q", e.Token, tt.token)
			}
			if e.Query != tt.query {
				t.Errorf("Query = %q, want %q", e.Query, tt.query)
			}
		})
	}
}

func TestParser_ErrorDetails(t *testing.T) {
	p := NewParser()

	_, err := p.Parse("name==(1,2)")
	var e *rsqlErrors.Error
	if !errors.As(err, &e) || e.Arity == nil {
		t.Fatalf("Parse() error = %v, want argument count details", err)
	}
	if e.Arity.Operator != "==" || e.Arity.Count != 2 || e.Arity.Required() != "exactly 1" {
		t.Errorf("Arity = %+v, want == with 2 of exactly 1", *e.Arity)
	}

	_, err = p.Parse("age=gte=18")
	if !errors.As(err, &e) {
		t.Fatalf("Parse() error = %v", err)
	}
	if e.Suggestion != "Did you mean '=ge='?" {
		t.Errorf("Suggestion = %q, want %q", e.Suggestion, "Did you mean '=ge='?")
	}
	if !strings.Contains(e.Error(), "=gte=") || !strings.Contains(e.Context, "^^^^^") {
		t.Errorf("Error() = %q, want token and caret", e.Error())
	}

	_, err = p.Parse("name=in=()")
	if !errors.As(err, &e) || e.Message != "empty argument list" {
		t.Errorf("Parse(empty list) error = %v, want empty argument list", err)
	}

	_, err = p.Parse("a==1 b==2")
	if !errors.As(err, &e) || e.Expected != "';', ',' or end of input" {
		t.Errorf("Expected = %q", e.Expected)
	}
}

func TestParser_Positions(t *testing.T) {
	_, err := NewParser().Parse("a==1;\nb=foo=2")
	var e *rsqlErrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("Parse() error = %v", err)
	}
	want := rsqlErrors.Position{Offset: 7, Line: 2, Column: 2}
	if diff := cmp.Diff(want, e.Position); diff != "" {
		t.Errorf("Position mismatch (-want +got):\n%s", diff)
	}

	_, err = NewParser().Parse(`čeština=="neukončeno`)
	if !errors.As(err, &e) {
		t.Fatalf("Parse() error = %v", err)
	}
	if e.Position.Column != 10 || e.Position.Offset != len("čeština==") {
		t.Errorf("Position = %+v, want column 10 at byte offset %d", e.Position, len("čeština=="))
	}
}

func TestParser_Keywords(t *testing.T) {
	tests := []struct {
		mode    KeywordMode
		query   string
		want    string
		wantErr bool
	}{
		{KeywordsUpper, "a==1 AND b==2", "and(a==1,b==2)", false},
		{KeywordsUpper, "a==1 or b==2", "", true},
		{KeywordsAnyCase, "a==1 and b==2 Or c==3", "or(and(a==1,b==2),c==3)", false},
		{KeywordsNone, "a==1 AND b==2", "", true},
		{KeywordsNone, "AND==1;OR==2", "and(AND==1,OR==2)", false},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String()+"/"+tt.query, func(t *testing.T) {
			node, err := NewParser().WithKeywords(tt.mode).Parse(tt.query)
			if tt.wantErr {
				if !errors.Is(err, rsqlErrors.ErrorTypeSyntax) {
					t.Errorf("Parse() error = %v, want syntax error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := dump(node); got != tt.want {
				t.Errorf("Parse() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseKeywordMode(t *testing.T) {
	for in, want := range map[string]KeywordMode{"": KeywordsUpper, "upper": KeywordsUpper, "ANY": KeywordsAnyCase, "none": KeywordsNone} {
		got, err := ParseKeywordMode(in)
		if err != nil || got != want {
			t.Errorf("ParseKeywordMode(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseKeywordMode("lower"); err == nil {
		t.Error("ParseKeywordMode(lower) succeeded, want error")
	}
}

func TestParser_Limits(t *testing.T) {
	_, err := NewParser().WithMaxLength(4).Parse("a==12")
	if !errors.Is(err, rsqlErrors.ErrorTypeLimit) {
		t.Errorf("Parse() error = %v, want limit error", err)
	}

	_, err = NewParser().WithMaxDepth(2).Parse("((((a==1))))")
	var e *rsqlErrors.Error
	if !errors.As(err, &e) || e.Type != rsqlErrors.ErrorTypeLimit || e.Position.Offset != 2 {
		t.Errorf("Parse() error = %v, want limit error at offset 2", err)
	}

	nested := func(depth int) string {
		return strings.Repeat("(", depth) + "a==1" + strings.Repeat(")", depth)
	}
	if _, err := NewParser().Parse(nested(DefaultMaxDepth)); err != nil {
		t.Errorf("Parse(depth %d) error = %v", DefaultMaxDepth, err)
	}
	if _, err := NewParser().Parse(nested(DefaultMaxDepth + 1)); !errors.Is(err, rsqlErrors.ErrorTypeLimit) {
		t.Errorf("Parse(depth %d) error = %v, want limit error", DefaultMaxDepth+1, err)
	}
	if _, err := NewParser().WithMaxDepth(0).WithMaxLength(0).Parse(nested(500)); err != nil {
		t.Errorf("Parse() without limits error = %v", err)
	}
}

func TestParser_CustomRegistry(t *testing.T) {
	like := ast.MustDefine("=like=", []string{"=lk="}, ast.SingleValue)
	reg, err := operators.Default().Extend(like)
	if err != nil {
		t.Fatalf("Extend() error = %v", err)
	}

	p := NewParser().WithRegistry(reg)
	node := mustParse(t, p, "name=lk=*ohn*;age=gt=3")
	if got, want := dump(node), "and(name=like=*ohn*,age=gt=3)"; got != want {
		t.Errorf("Parse() = %s, want %s", got, want)
	}

	if _, err := NewParser().Parse("name=like=x"); !errors.Is(err, rsqlErrors.ErrorTypeUnknownOperator) {
		t.Errorf("default registry error = %v, want unknown operator", err)
	}

	only, err := operators.NewRegistry(like)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if _, err := NewParser().WithRegistry(only).Parse("a==1"); !errors.Is(err, rsqlErrors.ErrorTypeUnknownOperator) {
		t.Errorf("replaced registry error = %v, want unknown operator", err)
	}

	if NewParser().WithRegistry(nil).Registry() != operators.Default() {
		t.Error("WithRegistry(nil) did not select the built-ins")
	}
}

func TestParser_EqualityAcrossParses(t *testing.T) {
	p := NewParser()
	query := "a==1;(b=in=(x,y),c!=z)"
	first := mustParse(t, p, query)
	second := mustParse(t, p, query)

	if !first.Equal(second) || first.Hash() != second.Hash() {
		t.Errorf("independent parses differ: %s vs %s", first, second)
	}

	swapped := mustParse(t, p, "(b=in=(x,y),c!=z);a==1")
	if first.Equal(swapped) {
		t.Error("swapped AND children compared equal")
	}
}

func TestParser_Concurrent(t *testing.T) {
	p := NewParser()
	want := mustParse(t, p, "a==1;b==2,c=in=(3,4)")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, err := p.Parse("a==1;b==2,c=in=(3,4)")
				if err != nil || !got.Equal(want) {
					t.Errorf("Parse() = %v, %v", got, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize(`a=in=("x y", z);b>1`)
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	var kinds []string
	var texts []string
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind.String())
		texts = append(texts, tok.Text)
	}

	wantKinds := []string{"Word", "Operator", "LParen", "Quoted", "Comma", "Word", "RParen", "Semicolon", "Word", "Operator", "Word"}
	wantTexts := []string{"a", "=in=", "(", `"x y"`, ",", "z", ")", ";", "b", ">", "1"}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantTexts, texts); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
	if tokens[3].Value != "x y" {
		t.Errorf("Value = %q, want %q", tokens[3].Value, "x y")
	}
	if tokens[5].Pos.Offset != 13 || tokens[5].End != 14 {
		t.Errorf("z token = %+v, want offset 13 end 14", tokens[5])
	}

	if _, err := Tokenize(`a=="x`); !errors.Is(err, rsqlErrors.ErrorTypeLexical) {
		t.Errorf("Tokenize() error = %v, want lexical error", err)
	}
}
