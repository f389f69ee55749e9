// Package html2textile converts HTML to Textile markup.
//
// Conversion is a single pass over tokenizer events. The Engine keeps a stack
// of capture buffers so that block and inline Textile markers, which wrap
// their content, can be finalized once the closing tag is seen. It also keeps
// the nesting of ordered and unordered lists and the target of the hyperlink
// being converted.
//
// Core properties:
//   - Table-driven: block, quicktag, entity and character reference rules are
//     static tables dispatched by tag name
//   - Whitespace in text is collapsed to single spaces
//   - Unknown tags are dropped unless allow-listed; unknown references are
//     escaped with notextile
//   - One Engine per document
//
// Example:
//
//	out, err := html2textile.ConvertString(`<h2 class="intro">Title</h2>`)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(out) // "\r\n\r\nh2(intro). Title"
//
// Convert and HTTPConvert read from an io.Reader or a URL and decode the input
// charset before tokenizing. Options such as WithPermittedTags and WithStrict
// tune the conversion.
package html2textile
