package html2textile

import (
	"io"
	"log/slog"
	"strconv"

	"golang.org/x/net/html"

	"pkt.systems/html2textile/internal/logfields"
)

// Source turns an HTML byte stream into Events using the x/net/html
// tokenizer. Character data is taken from the raw token so that entity and
// character references reach the engine as separate events.
type Source struct {
	z       *html.Tokenizer
	pending []Event
	err     error

	// open counts unclosed start tags per name. With balance set, end tags
	// that close nothing are dropped.
	open    map[string]int
	balance bool
	logger  *slog.Logger
}

// NewSource returns a Source reading from r. Unless WithStrict(true) is
// given, unmatched end tags are dropped.
func NewSource(r io.Reader, opts ...Option) *Source {
	return newSource(r, newConfig(opts))
}

func newSource(r io.Reader, cfg config) *Source {
	return &Source{
		z:       html.NewTokenizer(r),
		open:    make(map[string]int),
		balance: !cfg.strict,
		logger:  cfg.logger,
	}
}

// Next returns the next event, or io.EOF once the input is exhausted.
func (s *Source) Next() (Event, error) {
	for len(s.pending) == 0 {
		if s.err != nil {
			return Event{}, s.err
		}
		s.advance()
	}
	ev := s.pending[0]
	s.pending = s.pending[1:]
	return ev, nil
}

func (s *Source) advance() {
	tt := s.z.Next()
	switch tt {
	case html.ErrorToken:
		s.err = s.z.Err()
		if s.err == nil {
			s.err = io.EOF
		}
	case html.TextToken:
		s.pending = splitText(s.pending, string(s.z.Raw()))
	case html.StartTagToken, html.SelfClosingTagToken:
		name, hasAttr := s.z.TagName()
		tag := string(name)
		var attrs []html.Attribute
		for hasAttr {
			var key, val []byte
			key, val, hasAttr = s.z.TagAttr()
			attrs = append(attrs, html.Attribute{Key: string(key), Val: string(val)})
		}
		s.pending = append(s.pending, StartTag(tag, attrs...))
		if tt == html.SelfClosingTagToken {
			s.pending = append(s.pending, EndTag(tag))
			return
		}
		s.open[tag]++
	case html.EndTagToken:
		name, _ := s.z.TagName()
		tag := string(name)
		if s.balance {
			if s.open[tag] == 0 {
				s.logger.Debug("unmatched end tag dropped", logfields.Tag(tag))
				return
			}
			s.open[tag]--
		}
		s.pending = append(s.pending, EndTag(tag))
	}
}

// splitText cuts raw character data at entity and character references.
func splitText(dst []Event, raw string) []Event {
	start := 0
	for i := 0; i < len(raw); {
		if raw[i] != '&' {
			i++
			continue
		}
		ev, n, ok := scanReference(raw[i:])
		if !ok {
			i++
			continue
		}
		if i > start {
			dst = append(dst, Text(raw[start:i]))
		}
		dst = append(dst, ev)
		i += n
		start = i
	}
	if start < len(raw) {
		dst = append(dst, Text(raw[start:]))
	}
	return dst
}

// scanReference parses a reference at the start of s, which begins with '&'.
// Numeric references are reported in decimal. A named reference needs its
// terminating ';' unless the name is one the entity table knows.
func scanReference(s string) (Event, int, bool) {
	if len(s) < 2 {
		return Event{}, 0, false
	}
	if s[1] == '#' {
		i, base := 2, 10
		if i < len(s) && (s[i] == 'x' || s[i] == 'X') {
			i, base = 3, 16
		}
		j := i
		for j < len(s) && isDigit(s[j], base) {
			j++
		}
		if j == i {
			return Event{}, 0, false
		}
		code, err := strconv.ParseUint(s[i:j], base, 32)
		if err != nil {
			return Event{}, 0, false
		}
		if j < len(s) && s[j] == ';' {
			j++
		}
		return CharRef(strconv.FormatUint(code, 10)), j, true
	}
	if !isLetter(s[1]) {
		return Event{}, 0, false
	}
	j := 2
	for j < len(s) && (isLetter(s[j]) || isDigit(s[j], 10)) {
		j++
	}
	name := s[1:j]
	if j < len(s) && s[j] == ';' {
		return EntityRef(name), j + 1, true
	}
	if _, ok := entityTable[name]; ok {
		return EntityRef(name), j, true
	}
	return Event{}, 0, false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte, base int) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	if base == 16 {
		return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
	return false
}
