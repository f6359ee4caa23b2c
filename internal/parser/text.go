package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// flattenText returns the visible text of a selection with every text node
// trimmed and joined by single spaces, regardless of element nesting.
func flattenText(sel *goquery.Selection) string {
	var parts []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range sel.Nodes {
		walk(n)
	}

	return strings.Join(parts, " ")
}

// stripQuery removes the query string from a URL.
func stripQuery(href string) string {
	before, _, _ := strings.Cut(href, "?")
	return before
}
