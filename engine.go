package html2textile

import (
	"errors"
	"fmt"
	"strings"

	"pkt.systems/html2textile/internal/logfields"
)

var (
	// ErrInvariantViolation reports a capture released without a matching
	// capture start.
	ErrInvariantViolation = errors.New("capture invariant violated")
	// ErrIncompleteDocument reports a result requested while captures are open.
	ErrIncompleteDocument = errors.New("incomplete document")
)

// CaptureError wraps ErrInvariantViolation or ErrIncompleteDocument with the
// element and buffer depth at which the problem was noticed.
type CaptureError struct {
	Op    string
	Tag   string
	Depth int
	Err   error
}

func (e *CaptureError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("%s: depth %d: %v", e.Op, e.Depth, e.Err)
	}
	return fmt.Sprintf("%s <%s>: depth %d: %v", e.Op, e.Tag, e.Depth, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// Engine transduces HTML events into Textile. An Engine holds per-document
// state and must not be reused for a second document.
type Engine struct {
	cfg config

	// result is the root fragment sequence; buffers[len-1] is the innermost
	// open capture.
	result  []string
	buffers [][]string

	listPrefix []byte

	href    string
	hasHref bool

	// tag names the element being handled, for error context only.
	tag string
}

// NewEngine returns an Engine ready for a single document.
func NewEngine(opts ...Option) *Engine {
	return &Engine{cfg: newConfig(opts)}
}

// Depth reports the number of open captures.
func (e *Engine) Depth() int {
	return len(e.buffers)
}

// write appends fragments to the innermost capture, or to the result when no
// capture is open.
func (e *Engine) write(fragments ...string) {
	if n := len(e.buffers); n > 0 {
		e.buffers[n-1] = append(e.buffers[n-1], fragments...)
		return
	}
	e.result = append(e.result, fragments...)
}

func (e *Engine) startCapture() {
	e.buffers = append(e.buffers, nil)
}

// stopCapture pops the innermost capture and writes its contents as a single
// fragment to the enclosing destination.
func (e *Engine) stopCapture() error {
	n := len(e.buffers)
	if n == 0 {
		return &CaptureError{Op: "stop capture", Tag: e.tag, Depth: 0, Err: ErrInvariantViolation}
	}
	top := e.buffers[n-1]
	e.buffers[n-1] = nil
	e.buffers = e.buffers[:n-1]
	e.write(strings.Join(top, ""))
	return nil
}

// Result flattens the document. It fails with ErrIncompleteDocument while any
// capture is still open.
func (e *Engine) Result() (string, error) {
	if n := len(e.buffers); n > 0 {
		return "", &CaptureError{Op: "result", Depth: n, Err: ErrIncompleteDocument}
	}
	return strings.Join(e.result, ""), nil
}

// Finish closes any captures left open by unterminated elements and returns
// the flattened document.
func (e *Engine) Finish() string {
	if n := len(e.buffers); n > 0 {
		pending := strings.Join(e.buffers[n-1], "")
		e.cfg.logger.Warn("closing unterminated captures", logfields.Depth(n), logfields.Text(pending))
		for len(e.buffers) > 0 {
			_ = e.stopCapture()
		}
	}
	return strings.Join(e.result, "")
}
