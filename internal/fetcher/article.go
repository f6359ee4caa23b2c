// Package fetcher retrieves article pages and listing data from the news source.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/jonesrussell/fundwatch/internal/config"
	"github.com/jonesrussell/fundwatch/internal/logger"
	"github.com/jonesrussell/fundwatch/internal/parser"
)

// Selectors and formats tied to the source's markup. The publication date
// renders as "January 2, 2006 • 5 min read" inside a styled span.
const (
	dateSelector    = "span.text-wt-text-on-background"
	contentSelector = "div.rendered-post"
	dateSeparator   = "•"
	dateLayout      = "January 2, 2006"
	isoDateLayout   = "2006-01-02"
)

// Errors returned for articles whose markup does not match the expected shape.
var (
	ErrDateNotFound    = errors.New("publication date element not found")
	ErrContentNotFound = errors.New("article content container not found")
)

// ArticleFetcher fetches one article page and parses its funding section.
type ArticleFetcher struct {
	userAgent string
	referer   string
	timeout   time.Duration
	log       logger.Interface
}

// NewArticleFetcher creates an article fetcher for the configured source.
func NewArticleFetcher(cfg *config.SourceConfig, log logger.Interface) *ArticleFetcher {
	return &ArticleFetcher{
		userAgent: cfg.UserAgent,
		referer:   cfg.Referer,
		timeout:   cfg.RequestTimeout,
		log:       log,
	}
}

// Fetch retrieves the article at articleURL and returns its funding items.
// A non-200 response, a missing date element, or a missing content container
// is a hard failure for this article.
func (f *ArticleFetcher) Fetch(ctx context.Context, articleURL string) ([]parser.Item, error) {
	var (
		items    []parser.Item
		parseErr error
		handled  bool
	)

	c := colly.NewCollector(colly.UserAgent(f.userAgent))
	c.SetRequestTimeout(f.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Referer", f.referer)
		select {
		case <-ctx.Done():
			r.Abort()
		default:
		}
	})

	c.OnHTML("html", func(e *colly.HTMLElement) {
		handled = true

		if e.Response.StatusCode != http.StatusOK {
			parseErr = fmt.Errorf("unexpected status %d", e.Response.StatusCode)
			return
		}

		date, err := extractDate(e.DOM)
		if err != nil {
			parseErr = err
			return
		}

		content := e.DOM.Find(contentSelector).First()
		if content.Length() == 0 {
			parseErr = ErrContentNotFound
			return
		}

		items = parser.LocateSections(content, date, articleURL)
	})

	if err := c.Visit(articleURL); err != nil {
		return nil, fmt.Errorf("fetch article: %w", err)
	}
	c.Wait()

	if parseErr != nil {
		return nil, parseErr
	}
	if !handled {
		return nil, ErrContentNotFound
	}

	return items, nil
}

// extractDate finds the publication date span and normalizes it to ISO-8601.
func extractDate(doc *goquery.Selection) (string, error) {
	span := doc.Find(dateSelector).First()
	if span.Length() == 0 {
		return "", ErrDateNotFound
	}

	raw := strings.TrimSpace(span.Text())
	if raw == "" {
		return "", ErrDateNotFound
	}

	datePart, _, _ := strings.Cut(raw, dateSeparator)
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(datePart))
	if err != nil {
		return "", fmt.Errorf("parse publication date %q: %w", datePart, err)
	}

	return parsed.Format(isoDateLayout), nil
}
