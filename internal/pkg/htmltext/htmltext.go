package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Clean flattens raw HTML into plain text: script/style/head chrome is
// dropped, whitespace runs collapse to single spaces, and the result is
// trimmed. Malformed or empty input yields an empty string, never an error.
func Clean(raw []byte) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return ""
	}
	doc.Find("script, style, head, title, meta, noscript").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
