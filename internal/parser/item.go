package parser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Item is one candidate funding record as parsed from a list item. It is a
// parse-stage value; the orchestrator converts accepted items into stored
// records.
type Item struct {
	Description string
	CompanyName string
	CompanyURL  string
	Amount      int64
	Round       string
	Investors   []Investor
	StoryLink   string
	Source      string
	Date        string
	CompanyType string
	Reference   string
}

// BuildItem assembles a candidate item from one <li>. It returns nil for
// items that are skipped, and stop=true when the item no longer matches the
// expected funding-sentence shape, meaning the rest of the list is assumed
// to be non-funding content.
func BuildItem(li *goquery.Selection, date, companyType string) (item *Item, stop bool) {
	p := li.Find("p").First()
	if p.Length() == 0 {
		return nil, false
	}

	item = &Item{
		Date:        date,
		CompanyType: companyType,
	}

	item.Description = strings.TrimSpace(cutBefore(flattenText(li), " ("))

	if companyLink := p.Find("a.link").First(); companyLink.Length() > 0 {
		item.CompanyName = strings.TrimSpace(companyLink.Text())
		href, _ := companyLink.Attr("href")
		item.CompanyURL = stripQuery(href)
	}

	amount, candidate, ok := ParseAmount(flattenText(p))
	item.Amount = amount
	if ok {
		item.Round = NormalizeRound(candidate)
	}

	links := p.Find("a.link")
	item.Investors = ExtractInvestors(links)
	item.StoryLink = findStoryLink(links)
	item.Source = sourceToken(item.StoryLink)

	if !ok {
		desc := strings.ToLower(item.Description)
		if !strings.Contains(desc, "raised") || !strings.Contains(desc, "undisclosed") {
			// The sentence shape broke down: treat as end of the funding list.
			return nil, true
		}
		item.Amount = 0
	}

	// Absurdly large matched values overflow the float-to-int conversion in
	// ParseAmount and come out negative; such items are invalid, not a stop.
	if item.Amount < 0 || item.CompanyName == "" {
		return nil, false
	}

	return item, false
}

// findStoryLink returns the href of the last anchor whose text is exactly
// "more" (case-insensitive), falling back to the very last anchor when at
// least two anchors exist.
func findStoryLink(links *goquery.Selection) string {
	for i := links.Length() - 1; i >= 0; i-- {
		link := links.Eq(i)
		if strings.EqualFold(strings.TrimSpace(link.Text()), "more") {
			href, _ := link.Attr("href")
			return stripQuery(href)
		}
	}

	if links.Length() > 1 {
		href, _ := links.Last().Attr("href")
		return stripQuery(href)
	}

	return ""
}

// sourceToken derives the short uppercase source token from a story link,
// e.g. "https://www.techcrunch.com/..." -> "TECHCRUNCH".
func sourceToken(storyLink string) string {
	if storyLink == "" {
		return ""
	}

	parsed, err := url.Parse(storyLink)
	if err != nil || parsed.Host == "" {
		return ""
	}

	host := strings.TrimPrefix(parsed.Host, "www.")
	label, _, _ := strings.Cut(host, ".")
	return strings.ToUpper(label)
}
