package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// campaignMarker distinguishes outbound company/investor links from
// navigational ones in the source's markup.
const campaignMarker = "utm_campaign"

// Investor is a named investor with an optional URL, as parsed from markup.
type Investor struct {
	Name string
	URL  string
}

// ExtractInvestors returns the investors named by a list item's anchors, in
// document order. The first anchor is the company's own link and is always
// skipped. An anchor counts as an investor only when its href carries the
// campaign marker and its text is not a "more" story link.
func ExtractInvestors(links *goquery.Selection) []Investor {
	var investors []Investor

	for i := 1; i < links.Length(); i++ {
		link := links.Eq(i)
		href, _ := link.Attr("href")
		text := link.Text()

		if !strings.Contains(href, campaignMarker) {
			continue
		}
		if strings.Contains(strings.ToLower(text), "more") {
			continue
		}

		name := strings.TrimSpace(text)
		if name == "" {
			continue
		}

		investors = append(investors, Investor{
			Name: name,
			URL:  stripQuery(href),
		})
	}

	return investors
}
