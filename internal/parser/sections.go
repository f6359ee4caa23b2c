package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/fundwatch/internal/domain"
)

// fundingHeadingText marks the heading that opens the funding section.
const fundingHeadingText = "Funding By Company"

// subHeadingTypes maps the bolded sub-section labels to company types.
var subHeadingTypes = map[string]string{
	"Products:":          domain.CompanyTypeProduct,
	"Services:":          domain.CompanyTypeService,
	"Product Companies:": domain.CompanyTypeProduct,
	"Service Companies:": domain.CompanyTypeService,
}

// LocateSections finds the "Funding By Company" section of an article and
// parses every funding item it contains. Three layout variants are tried in
// priority order: structured sub-sectioned, simple next-sibling list, and a
// parent fallback for headings with no enclosing block. Every returned item
// carries the article URL as its reference.
func LocateSections(article *goquery.Selection, date, articleURL string) []Item {
	heading := findFundingHeading(article)
	if heading == nil {
		return nil
	}

	var items []Item

	container := heading.ParentsFiltered("div").First()
	if container.Length() == 0 {
		items = parseFallback(heading, date)
	} else {
		items = parseStructuredSections(container, date)
		if len(items) == 0 {
			items = parseSimpleCase(container, date)
		}
	}

	for i := range items {
		items[i].Reference = articleURL
	}

	return items
}

// findFundingHeading returns the first h2/h3 containing the funding heading
// phrase, or nil when the article has none.
func findFundingHeading(article *goquery.Selection) *goquery.Selection {
	var heading *goquery.Selection

	article.Find("h2, h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.TrimSpace(s.Text()), fundingHeadingText) {
			heading = s
			return false
		}
		return true
	})

	return heading
}

// parseStructuredSections walks the sibling blocks after the heading's
// container looking for bolded sub-section labels, parsing the list that
// follows each matched label with its company type. Parsing stops, returning
// what was accumulated, as soon as one sub-list signals early stop.
func parseStructuredSections(container *goquery.Selection, date string) []Item {
	var items []Item

	cur := container.NextAllFiltered("div").First()
	for cur.Length() > 0 {
		p := cur.Find("p").First()
		if p.Length() > 0 {
			if b := p.Find("b").First(); b.Length() > 0 {
				if companyType, ok := subHeadingTypes[strings.TrimSpace(b.Text())]; ok {
					ulDiv := cur.NextAllFiltered("div").First()
					if ulDiv.Length() > 0 {
						if ul := ulDiv.Find("ul").First(); ul.Length() > 0 {
							parsed, stopped := ParseList(ul, date, companyType)
							items = append(items, parsed...)
							if stopped {
								return items
							}
						}
					}
					cur = ulDiv.NextAllFiltered("div").First()
					continue
				}
			}
		}
		cur = cur.NextAllFiltered("div").First()
	}

	return items
}

// parseSimpleCase looks for a list directly in the heading container's next
// sibling block, or one block further when the immediate sibling has none.
func parseSimpleCase(container *goquery.Selection, date string) []Item {
	ulDiv := container.NextAllFiltered("div").First()
	if ulDiv.Length() == 0 {
		return nil
	}

	ul := ulDiv.Find("ul").First()
	if ul.Length() == 0 {
		if next := ulDiv.NextAllFiltered("div").First(); next.Length() > 0 {
			ul = next.Find("ul").First()
		}
	}
	if ul.Length() == 0 {
		return nil
	}

	items, _ := ParseList(ul, date, domain.CompanyTypeProduct)
	return items
}

// parseFallback handles headings with no enclosing div by looking for a list
// in the heading's own parent's next sibling.
func parseFallback(heading *goquery.Selection, date string) []Item {
	ulDiv := heading.Parent().NextAllFiltered("div").First()
	if ulDiv.Length() == 0 {
		return nil
	}

	ul := ulDiv.Find("ul").First()
	if ul.Length() == 0 {
		return nil
	}

	items, _ := ParseList(ul, date, domain.CompanyTypeProduct)
	return items
}

// ParseList builds items from every <li> in a list, stopping early when one
// item signals that the remainder is non-funding content.
func ParseList(ul *goquery.Selection, date, companyType string) (items []Item, stoppedEarly bool) {
	ul.Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		item, stop := BuildItem(li, date, companyType)
		if stop {
			stoppedEarly = true
			return false
		}
		if item != nil {
			items = append(items, *item)
		}
		return true
	})

	return items, stoppedEarly
}
