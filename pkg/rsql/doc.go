// Package rsql parses RSQL/FIQL filter expressions such as
// name==John;age=gt=25 into an immutable abstract syntax tree.
//
// # Architecture
//
// The package is organized into subpackages:
//
// - ast: nodes, comparison operators and the visitor contract
// - operators: the built-in operators and immutable operator registries
// - literal: quoting and unescaping of argument literals
// - parser: tokenizer and recursive descent parser
// - render: canonical text, JSON trees and outlines built on visitors
// - errors: one error type with position, caret context and suggestions
//
// # Basic Usage
//
//	node, err := rsql.Parse("name==John;age=gt=25")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, c := range ast.Comparisons(node) {
//	    fmt.Println(c.Selector(), c.Operator(), c.Arguments())
//	}
//
// Custom operators extend the built-ins:
//
//	like := ast.MustDefine("=like=", nil, ast.SingleValue)
//	registry, err := operators.Default().Extend(like)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	node, err := rsql.ParseWithRegistry("name=like=*ohn*", registry)
//
// Use parser.NewParser directly for keyword and limit settings.
package rsql
