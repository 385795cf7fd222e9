package render

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripMarkup reduces strings carrying inline HTML (as localized game text
// often does) to their text content. Plain strings are returned unchanged.
func StripMarkup(s string) string {
	if !strings.Contains(s, "<") || !strings.Contains(s, ">") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	text := strings.Join(strings.Fields(doc.Text()), " ")
	if text == "" {
		return s
	}
	return text
}
