package html2textile

import "golang.org/x/net/html"

// Event is a single tokenizer event in document order.
type Event struct {
	Kind EventKind
	// Name is the tag name for tag events, the entity name for entity
	// references and the decimal code point for character references.
	Name string
	Attr []html.Attribute
	Data string
}

type eventKind uint8

// EventKind is the exported alias of eventKind for callers that build event
// streams by hand.
type EventKind = eventKind

const (
	eventStartTag eventKind = iota
	eventEndTag
	eventText
	eventEntityRef
	eventCharRef
)

const (
	// EventStartTag opens an element.
	EventStartTag EventKind = eventStartTag
	// EventEndTag closes an element.
	EventEndTag EventKind = eventEndTag
	// EventText carries character data.
	EventText EventKind = eventText
	// EventEntityRef carries a named entity reference such as amp.
	EventEntityRef EventKind = eventEntityRef
	// EventCharRef carries a numeric character reference such as 8217.
	EventCharRef EventKind = eventCharRef
)

func (k eventKind) String() string {
	switch k {
	case eventStartTag:
		return "start-tag"
	case eventEndTag:
		return "end-tag"
	case eventText:
		return "text"
	case eventEntityRef:
		return "entity-ref"
	case eventCharRef:
		return "char-ref"
	default:
		return "unknown"
	}
}

// StartTag returns a start-tag event. Attributes are given as key/value pairs.
func StartTag(name string, attr ...html.Attribute) Event {
	return Event{Kind: eventStartTag, Name: name, Attr: attr}
}

// EndTag returns an end-tag event.
func EndTag(name string) Event {
	return Event{Kind: eventEndTag, Name: name}
}

// Text returns a text event.
func Text(data string) Event {
	return Event{Kind: eventText, Data: data}
}

// EntityRef returns a named entity reference event.
func EntityRef(name string) Event {
	return Event{Kind: eventEntityRef, Name: name}
}

// CharRef returns a numeric character reference event.
func CharRef(code string) Event {
	return Event{Kind: eventCharRef, Name: code}
}

// Attr builds an html.Attribute.
func Attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}
