package logging

import (
	"errors"
	"fmt"
	"sync/atomic"

	rsqlErrors "mercator-hq/rsql/pkg/rsql/errors"
	"mercator-hq/rsql/pkg/rsql/parser"
	"mercator-hq/rsql/pkg/rsql/render"
)

// Mask replaces every redacted argument.
const Mask = "***"

// Redactor masks the arguments of RSQL queries so that filter values do not
// end up in logs. Selectors and operators are kept.
type Redactor struct {
	parser   atomic.Pointer[parser.Parser]
	renderer *render.Renderer
}

// NewRedactor creates a redactor that parses queries with p, or with a
// default parser when p is nil.
func NewRedactor(p *parser.Parser) *Redactor {
	if p == nil {
		p = parser.NewParser()
	}
	r := &Redactor{renderer: render.NewRenderer().WithMask(Mask)}
	r.parser.Store(p)
	return r
}

// SetParser replaces the parser, e.g. after the operator catalog changed.
// It is safe to call while other goroutines log.
func (r *Redactor) SetParser(p *parser.Parser) {
	if p != nil {
		r.parser.Store(p)
	}
}

// RedactQuery returns q with every argument replaced by Mask. A query that
// does not parse is replaced entirely.
func (r *Redactor) RedactQuery(q string) string {
	node, err := r.parser.Load().Parse(q)
	if err != nil {
		return fmt.Sprintf("[unparsable query, %d bytes]", len(q))
	}
	s, err := r.renderer.Render(node)
	if err != nil {
		return fmt.Sprintf("[unrenderable query, %d bytes]", len(q))
	}
	return s
}

// RedactError describes err without the query text or offending token.
func (r *Redactor) RedactError(err error) string {
	var perr *rsqlErrors.Error
	if !errors.As(err, &perr) {
		return err.Error()
	}
	if !perr.Position.IsValid() {
		return string(perr.Type) + " error"
	}
	return fmt.Sprintf("%s error at %s", string(perr.Type), perr.Position)
}
