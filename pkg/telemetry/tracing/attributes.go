package tracing

import (
	"errors"

	"mercator-hq/rsql/pkg/rsql/ast"
	rsqlErrors "mercator-hq/rsql/pkg/rsql/errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys for query parsing.
const (
	AttrQueryLength  = attribute.Key("rsql.query.length")
	AttrComparisons  = attribute.Key("rsql.ast.comparisons")
	AttrDepth        = attribute.Key("rsql.ast.depth")
	AttrSelectors    = attribute.Key("rsql.ast.selectors")
	AttrErrorType    = attribute.Key("rsql.error.type")
	AttrErrorOffset  = attribute.Key("rsql.error.offset")
	AttrRequestID    = attribute.Key("rsql.request_id")
	AttrCatalogSize  = attribute.Key("rsql.catalog.operators")
	AttrOutputFormat = attribute.Key("rsql.output.format")
)

// SetParseAttributes describes a parse result on span. Argument values are
// never attached; selectors are.
func SetParseAttributes(span trace.Span, length int, node ast.Node, err error) {
	span.SetAttributes(AttrQueryLength.Int(length))

	if err != nil {
		SetParseError(span, err)
		return
	}

	span.SetAttributes(
		AttrComparisons.Int(len(ast.Comparisons(node))),
		AttrDepth.Int(ast.Depth(node)),
		AttrSelectors.StringSlice(ast.Selectors(node)),
	)
}

// SetParseError records err on span with its type and offset when it is a
// parse error. The message is not attached because it may quote arguments.
func SetParseError(span trace.Span, err error) {
	var perr *rsqlErrors.Error
	if !errors.As(err, &perr) {
		SetError(span, err)
		SetStatus(span, err)
		return
	}

	span.SetAttributes(
		attribute.Bool("error", true),
		AttrErrorType.String(string(perr.Type)),
	)
	if perr.Position.IsValid() {
		span.SetAttributes(AttrErrorOffset.Int(perr.Position.Offset))
	}
	SetStatus(span, perr.Type)
}
