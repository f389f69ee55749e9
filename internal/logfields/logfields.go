// Package logfields holds the slog attribute keys shared by the converter and
// its CLI.
package logfields

import (
	"log/slog"

	"github.com/muesli/reflow/truncate"
)

const (
	KeyTag       = "tag"
	KeyEntity    = "entity"
	KeyCharRef   = "char_ref"
	KeyDepth     = "depth"
	KeyText      = "text"
	KeyInput     = "input"
	KeyOutput    = "output"
	KeyBytes     = "bytes"
	maxTextWidth = 40
)

func Tag(name string) slog.Attr     { return slog.String(KeyTag, name) }
func Entity(name string) slog.Attr  { return slog.String(KeyEntity, name) }
func CharRef(code string) slog.Attr { return slog.String(KeyCharRef, code) }
func Depth(d int) slog.Attr         { return slog.Int(KeyDepth, d) }
func Input(src string) slog.Attr    { return slog.String(KeyInput, src) }
func Output(dst string) slog.Attr   { return slog.String(KeyOutput, dst) }
func Bytes(n int) slog.Attr         { return slog.Int(KeyBytes, n) }

// Text shortens s so a log line stays readable for long text runs.
func Text(s string) slog.Attr {
	return slog.String(KeyText, truncate.StringWithTail(s, maxTextWidth, "…"))
}
