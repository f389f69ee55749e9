package html2textile

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

const (
	blockBreak = "\r\n\r\n"
	lineBreak  = "\r\n"
)

// blockTags maps HTML block elements to Textile block markers.
var blockTags = map[string]string{
	"h1":         "h1",
	"h2":         "h2",
	"h3":         "h3",
	"h4":         "h4",
	"h5":         "h5",
	"h6":         "h6",
	"blockquote": "bq",
	"p":          "p",
}

// quickTags maps HTML inline elements to Textile wrap markers.
var quickTags = map[string]string{
	"b":      "*",
	"strong": "*",
	"i":      "_",
	"em":     "_",
	"cite":   "??",
	"s":      "-",
	"sup":    "^",
	"sub":    "~",
	"code":   "@",
	"span":   "%",
}

var entityTable = map[string]string{
	"quot": `"`,
	"apos": "'",
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
}

// The padding on the curly double quotes is part of the replacement.
var charRefTable = map[string]string{
	"8217": "'",
	"8220": ` "`,
	"8221": `" `,
}

var spaceRun = regexp.MustCompile(`\s+`)

// normalizeSpace collapses every run of whitespace into a single space.
func normalizeSpace(s string) string {
	return spaceRun.ReplaceAllString(s, " ")
}

// attrMap lower-cases attribute keys. Later duplicates win.
func attrMap(attrs []html.Attribute) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[strings.ToLower(a.Key)] = a.Val
	}
	return m
}

// styleSuffix renders the Textile attribute block for class, id and style,
// e.g. "(intro#top){color:red}".
func styleSuffix(attrs map[string]string) string {
	idclass := ""
	if class, ok := attrs["class"]; ok {
		idclass += class
	}
	if id, ok := attrs["id"]; ok {
		idclass += "#" + id
	}
	if idclass != "" {
		idclass = "(" + idclass + ")"
	}
	style := ""
	if s, ok := attrs["style"]; ok {
		style = "{" + s + "}"
	}
	return idclass + style
}
