package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"mercator-hq/rsql/pkg/rsql/ast"
	rsqlErrors "mercator-hq/rsql/pkg/rsql/errors"
	"mercator-hq/rsql/pkg/rsql/parser"
	"mercator-hq/rsql/pkg/rsql/render"
	"mercator-hq/rsql/pkg/telemetry/logging"
	"mercator-hq/rsql/pkg/telemetry/tracing"
)

// ParseRequest is the body of POST /v1/parse.
type ParseRequest struct {
	Query string `json:"query"`
}

// ParseResponse is returned for a query that parsed.
type ParseResponse struct {
	Query     string       `json:"query"`
	Canonical string       `json:"canonical"`
	AST       *render.Tree `json:"ast"`
}

// ErrorResponse is returned for a rejected request.
type ErrorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Offset     *int   `json:"offset,omitempty"`
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	Token      string `json:"token,omitempty"`
	Expected   string `json:"expected,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// OperatorInfo describes one operator of GET /v1/operators.
type OperatorInfo struct {
	Symbol     string   `json:"symbol"`
	Aliases    []string `json:"aliases,omitempty"`
	MinArgs    int      `json:"min_args"`
	MaxArgs    int      `json:"max_args"` // -1 when unbounded
	MultiValue bool     `json:"multi_value"`
}

// OperatorsResponse is the body of GET /v1/operators.
type OperatorsResponse struct {
	Operators []OperatorInfo `json:"operators"`
	Symbols   []string       `json:"symbols"`
}

// newParser returns a parser over the catalog's current registry.
func (s *Server) newParser() *parser.Parser {
	return parser.NewParser().
		WithRegistry(s.catalog.Registry()).
		WithKeywords(s.keywords).
		WithMaxLength(s.config.Parser.MaxLength).
		WithMaxDepth(s.config.Parser.MaxDepth)
}

// handleParse serves GET /v1/parse?q=... and POST /v1/parse.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	query, status, err := s.readQuery(w, r)
	if err != nil {
		writeError(w, status, errorDetail{Type: "request", Message: err.Error()})
		return
	}

	ctx := r.Context()
	if traceID := tracing.TraceID(ctx); traceID != "" {
		ctx = logging.WithTrace(ctx, traceID, tracing.SpanID(ctx))
	}
	logger := s.telemetry.Logger().WithContext(ctx)

	ctx, span := s.telemetry.Tracer().Start(ctx, "rsql.parse")
	start := time.Now()
	node, err := s.newParser().Parse(query)
	duration := time.Since(start)
	tracing.SetParseAttributes(span, len(query), node, err)
	span.End()

	s.telemetry.Metrics().RecordParse(len(query), node, err, duration)

	if err != nil {
		logger.WarnContext(ctx, "query rejected", logger.Query(query), logger.Err(err))
		writeError(w, http.StatusBadRequest, parseErrorDetail(err))
		return
	}

	tree, err := render.ToTree(node)
	if err != nil {
		logger.ErrorContext(ctx, "failed to convert AST", logger.Err(err))
		writeError(w, http.StatusInternalServerError, errorDetail{Type: "internal", Message: "internal server error"})
		return
	}

	logger.DebugContext(ctx, "query parsed",
		logger.Query(query),
		"comparisons", len(ast.Comparisons(node)),
		"depth", ast.Depth(node),
	)

	writeJSON(w, http.StatusOK, ParseResponse{
		Query:     query,
		Canonical: render.Canonical(node),
		AST:       tree,
	})
}

// readQuery extracts the query of a parse request. The returned status
// applies when err is set.
func (s *Server) readQuery(w http.ResponseWriter, r *http.Request) (string, int, error) {
	switch r.Method {
	case http.MethodGet:
		values := r.URL.Query()
		if !values.Has("q") {
			return "", http.StatusBadRequest, errors.New("missing query parameter \"q\"")
		}
		return values.Get("q"), 0, nil

	case http.MethodPost:
		body := http.MaxBytesReader(w, r.Body, s.config.Server.MaxBodyBytes)
		data, err := io.ReadAll(body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return "", http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
			}
			return "", http.StatusBadRequest, fmt.Errorf("failed to read request body: %w", err)
		}

		var req ParseRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return "", http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err)
		}
		return req.Query, 0, nil

	default:
		return "", http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method)
	}
}

// handleOperators serves GET /v1/operators.
func (s *Server) handleOperators(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, errorDetail{
			Type:    "request",
			Message: fmt.Sprintf("method %s not allowed", r.Method),
		})
		return
	}

	registry := s.catalog.Registry()
	resp := OperatorsResponse{
		Operators: make([]OperatorInfo, 0, registry.Len()),
		Symbols:   registry.Symbols(),
	}
	for _, op := range registry.Operators() {
		arity := op.Arity()
		resp.Operators = append(resp.Operators, OperatorInfo{
			Symbol:     op.Symbol(),
			Aliases:    op.Aliases(),
			MinArgs:    arity.Min,
			MaxArgs:    arity.Max,
			MultiValue: arity.IsMultiValue(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func parseErrorDetail(err error) errorDetail {
	var perr *rsqlErrors.Error
	if !errors.As(err, &perr) {
		return errorDetail{Type: "internal", Message: err.Error()}
	}

	d := errorDetail{
		Type:       string(perr.Type),
		Message:    perr.Message,
		Token:      perr.Token,
		Expected:   perr.Expected,
		Suggestion: perr.Suggestion,
	}
	if perr.Position.IsValid() {
		offset := perr.Position.Offset
		d.Offset = &offset
		d.Line = perr.Position.Line
		d.Column = perr.Position.Column
	}
	return d
}

func writeError(w http.ResponseWriter, code int, detail errorDetail) {
	writeJSON(w, code, ErrorResponse{Error: detail})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
