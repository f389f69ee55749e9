package html2textile

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"pkt.systems/html2textile/internal/logfields"
)

// ConvertRequest configures Convert.
type ConvertRequest struct {
	Reader io.Reader
	Writer io.Writer
	// ContentType is an optional MIME type such as "text/html; charset=latin1"
	// used to pick the input encoding. When empty the encoding is sniffed.
	ContentType string
	Options     []Option
}

// Convert reads HTML from req.Reader and writes Textile to req.Writer. The
// whole input is consumed before anything is written.
func Convert(req ConvertRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("convert: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("convert: writer is nil")
	}
	src, err := io.ReadAll(req.Reader)
	if err != nil {
		return fmt.Errorf("convert: read: %w", err)
	}
	// Valid UTF-8 is taken as is unless the caller names a charset; the
	// sniffer only inspects the first 1024 bytes.
	if req.ContentType != "" || !utf8.Valid(src) {
		decoded, err := charset.NewReader(bytes.NewReader(src), req.ContentType)
		if err != nil {
			return fmt.Errorf("convert: decode: %w", err)
		}
		if src, err = io.ReadAll(decoded); err != nil {
			return fmt.Errorf("convert: decode: %w", err)
		}
	}
	out, err := convertBytes(src, req.Options)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	if _, err := io.WriteString(req.Writer, out); err != nil {
		return fmt.Errorf("convert: write: %w", err)
	}
	return nil
}

// ConvertString converts an HTML document held in memory.
func ConvertString(src string, opts ...Option) (string, error) {
	return convertBytes([]byte(src), opts)
}

func convertBytes(src []byte, opts []Option) (string, error) {
	if err := ValidateInput(src); err != nil {
		return "", err
	}
	cfg := newConfig(opts)
	engine := &Engine{cfg: cfg}
	source := newSource(bytes.NewReader(src), cfg)
	events := 0
	for {
		ev, err := source.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("tokenize: %w", err)
		}
		events++
		if err := engine.Handle(ev); err != nil {
			return "", err
		}
	}
	cfg.logger.Debug("document converted", logfields.Bytes(len(src)), "events", events)
	if cfg.strict {
		return engine.Result()
	}
	return engine.Finish(), nil
}
