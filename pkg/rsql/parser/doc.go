// Package parser turns RSQL query text into an AST.
//
// The grammar:
//
//	query      = or_expr
//	or_expr    = and_expr { ( "," | "OR" ) and_expr }
//	and_expr   = constraint { ( ";" | "AND" ) constraint }
//	constraint = comparison | "(" or_expr ")"
//	comparison = selector operator arguments
//	arguments  = argument | "(" argument { "," argument } ")"
//	argument   = quoted | unquoted
//
// AND binds tighter than OR. A run of the same separator produces one
// LogicalNode holding every operand, so a==1;b==2;c==3 is a single AND with
// three children. Parentheses always produce their own subtree.
//
// # Basic Usage
//
//	p := parser.NewParser()
//	node, err := p.Parse("name==John;age=gt=25")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(node) // name==John;age=gt=25
//
// # Configuration
//
//	p := parser.NewParser().
//	    WithRegistry(registry).           // custom operators
//	    WithKeywords(parser.KeywordsNone). // only ';' and ','
//	    WithMaxLength(4096).               // bytes
//	    WithMaxDepth(8)                    // nested groups
//
// # Errors
//
// Parsing stops at the first problem and returns a *errors.Error with the
// position of the offending token. Lexical errors cover malformed tokens,
// syntax errors cover token sequences the grammar rejects, and operator
// lookups and argument counts have their own error types.
//
// # Thread Safety
//
// A configured Parser may be shared between goroutines.
package parser
