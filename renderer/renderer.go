// Package renderer turns portfolio reports into markdown documents, ready to
// be printed as is or styled for a terminal.
package renderer

import (
	"bytes"
	"strings"

	md "github.com/nao1215/markdown"
)

// dateLayout is the layout of report dates.
const dateLayout = "Mon, 02 Jan 2006"

// newDoc returns a markdown builder writing into buf.
func newDoc(buf *bytes.Buffer) *md.Markdown {
	return md.NewMarkdown(buf)
}

// bar draws n stars as inline code, so that they are not read as emphasis.
func bar(n int) string {
	if n <= 0 {
		return ""
	}
	return "`" + strings.Repeat("*", n) + "`"
}

// paragraph writes text as a paragraph standing apart from the blocks around
// it, so that it is never read as a table row.
func paragraph(doc *md.Markdown, text string) {
	doc.PlainText("\n" + text + "\n")
}
