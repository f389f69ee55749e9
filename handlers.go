package html2textile

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"pkt.systems/html2textile/internal/logfields"
)

// tagHandler is the pair of actions bound to one element name. Either side
// may be nil when the element has no behavior for that event.
type tagHandler struct {
	start func(e *Engine, attrs []html.Attribute)
	end   func(e *Engine) error
}

// tagHandlers is filled once from the rule tables in init.
var tagHandlers map[string]tagHandler

func init() {
	tagHandlers = buildHandlers()
}

func buildHandlers() map[string]tagHandler {
	m := make(map[string]tagHandler, len(blockTags)+len(quickTags)+8)
	for tag, marker := range blockTags {
		m[tag] = tagHandler{start: blockStart(marker), end: captureEnd}
	}
	for tag, wrap := range quickTags {
		m[tag] = tagHandler{start: quickStart(wrap), end: quickEnd(wrap)}
	}
	m["ol"] = tagHandler{start: listStart('#'), end: listEnd('#')}
	m["ul"] = tagHandler{start: listStart('*'), end: listEnd('*')}
	m["li"] = tagHandler{start: listItemStart, end: captureEnd}
	m["a"] = tagHandler{start: anchorStart, end: anchorEnd}
	m["img"] = tagHandler{start: imageStart}
	m["tr"] = tagHandler{end: rowEnd}
	m["td"] = tagHandler{start: cellStart, end: cellEnd}
	m["br"] = tagHandler{start: lineBreakStart}
	return m
}

// Handle applies one event to the engine. Only capture imbalance is reported
// as an error; unknown tags and unmapped references are handled in place.
func (e *Engine) Handle(ev Event) error {
	switch ev.Kind {
	case eventStartTag:
		name := strings.ToLower(ev.Name)
		e.tag = name
		if h, ok := tagHandlers[name]; ok {
			if h.start != nil {
				h.start(e, ev.Attr)
			}
			return nil
		}
		e.unknownStart(name, ev.Attr)
	case eventEndTag:
		name := strings.ToLower(ev.Name)
		e.tag = name
		if h, ok := tagHandlers[name]; ok {
			if h.end != nil {
				return h.end(e)
			}
			return nil
		}
		e.unknownEnd(name)
	case eventText:
		e.text(ev.Data)
	case eventEntityRef:
		e.reference(entityTable, ev.Name, "&"+ev.Name+";", logfields.Entity(ev.Name))
	case eventCharRef:
		e.reference(charRefTable, ev.Name, "&#"+ev.Name+";", logfields.CharRef(ev.Name))
	default:
		return fmt.Errorf("handle: unknown event kind %d", ev.Kind)
	}
	return nil
}

func blockStart(marker string) func(*Engine, []html.Attribute) {
	return func(e *Engine, attrs []html.Attribute) {
		e.write(blockBreak + marker + styleSuffix(attrMap(attrs)) + ". ")
		e.startCapture()
	}
}

func captureEnd(e *Engine) error {
	return e.stopCapture()
}

// quickStart carries the attribute block on the opening marker only.
func quickStart(wrap string) func(*Engine, []html.Attribute) {
	return func(e *Engine, attrs []html.Attribute) {
		e.write(" ", wrap+styleSuffix(attrMap(attrs)))
		e.startCapture()
	}
}

func quickEnd(wrap string) func(*Engine) error {
	return func(e *Engine) error {
		if err := e.stopCapture(); err != nil {
			return err
		}
		e.write(wrap, " ")
		return nil
	}
}

func listStart(marker byte) func(*Engine, []html.Attribute) {
	return func(e *Engine, _ []html.Attribute) {
		e.listPrefix = append(e.listPrefix, marker)
	}
}

// listEnd pops the run of marker characters at the top of the prefix stack.
func listEnd(marker byte) func(*Engine) error {
	return func(e *Engine) error {
		n := len(e.listPrefix)
		for n > 0 && e.listPrefix[n-1] == marker {
			n--
		}
		e.listPrefix = e.listPrefix[:n]
		return nil
	}
}

func listItemStart(e *Engine, _ []html.Attribute) {
	e.write(lineBreak + string(e.listPrefix) + " ")
	e.startCapture()
}

// anchorStart replaces the remembered href on every anchor, so an anchor
// without href clears it.
func anchorStart(e *Engine, attrs []html.Attribute) {
	href := attrMap(attrs)["href"]
	e.href, e.hasHref = href, href != ""
	if !e.hasHref {
		return
	}
	e.write(` "`)
	e.startCapture()
}

func anchorEnd(e *Engine) error {
	if !e.hasHref {
		return nil
	}
	if err := e.stopCapture(); err != nil {
		return err
	}
	e.write(`":`, e.href, " ")
	e.href, e.hasHref = "", false
	return nil
}

// imageStart writes an inline image. An img without a src writes nothing
// rather than an empty " !! " marker.
func imageStart(e *Engine, attrs []html.Attribute) {
	src, ok := attrMap(attrs)["src"]
	if !ok || src == "" {
		e.cfg.logger.Debug("image without src dropped", logfields.Tag("img"))
		return
	}
	e.write(" !", src, "! ")
}

func rowEnd(e *Engine) error {
	e.write("|" + lineBreak)
	return nil
}

func cellStart(e *Engine, _ []html.Attribute) {
	e.write("|")
	e.startCapture()
}

func cellEnd(e *Engine) error {
	if err := e.stopCapture(); err != nil {
		return err
	}
	e.write("|")
	return nil
}

func lineBreakStart(e *Engine, _ []html.Attribute) {
	e.write(lineBreak)
}

func (e *Engine) unknownStart(name string, attrs []html.Attribute) {
	if _, ok := e.cfg.permittedTags[name]; !ok {
		e.cfg.logger.Debug("unknown tag dropped", logfields.Tag(name))
		return
	}
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(name)
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if _, ok := e.cfg.permittedAttrs[key]; !ok {
			continue
		}
		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	e.write(b.String())
}

func (e *Engine) unknownEnd(name string) {
	if _, ok := e.cfg.permittedTags[name]; !ok {
		return
	}
	e.write("</" + name + ">")
}

// text writes normalized character data. Runs that collapse to nothing or to
// a single space are dropped so indentation between tags does not leak into
// the output. Only ASCII whitespace collapses; a no-break space is content.
func (e *Engine) text(data string) {
	s := normalizeSpace(data)
	if s == "" || s == " " {
		return
	}
	e.write(s)
}

// reference writes the table replacement for name, or the raw reference
// wrapped in notextile when the table has no entry.
func (e *Engine) reference(table map[string]string, name, raw string, attr slog.Attr) {
	if v, ok := table[name]; ok {
		e.write(v)
		return
	}
	e.cfg.logger.Debug("unmapped reference escaped", attr)
	e.write("<notextile>" + raw + "</notextile>")
}
