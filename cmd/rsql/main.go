// rsql parses and checks RSQL/FIQL query strings and serves the parser over
// HTTP.
//
// Usage:
//
//	# Parse a query and print its canonical form
//	rsql parse 'name=="John Smith";age>30'
//
//	# Print the AST as JSON
//	rsql parse --format json 'tags=in=(a,b)'
//
//	# Check a file of queries, one per line
//	rsql check queries.txt
//
//	# List the operators of a custom catalog
//	rsql operators --operators operators.yaml
//
//	# Start the HTTP server
//	rsql serve --config rsql.yaml
package main

func main() {
	Execute()
}
