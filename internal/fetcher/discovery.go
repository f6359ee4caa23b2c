package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonesrussell/fundwatch/internal/config"
	"github.com/jonesrussell/fundwatch/internal/logger"
)

// listingPageCount bounds listing pagination. The source posts infrequently
// enough that the first page always covers the gap between runs.
const listingPageCount = 1

// listingDataParam selects the posts loader on the listing endpoint.
const listingDataParam = "routes/__loaders/posts"

// listingPost is one post summary from the listing endpoint.
type listingPost struct {
	Slug string `json:"slug"`
}

// listingResponse is the listing endpoint's JSON payload.
type listingResponse struct {
	Posts []listingPost `json:"posts"`
}

// LinkDiscoverer finds candidate funding-roundup article URLs.
type LinkDiscoverer struct {
	client         *http.Client
	listingURL     string
	articleBaseURL string
	marker         string
	userAgent      string
	referer        string
	delay          time.Duration
	log            logger.Interface
}

// NewLinkDiscoverer creates a discoverer for the configured listing endpoint.
func NewLinkDiscoverer(cfg *config.SourceConfig, log logger.Interface) *LinkDiscoverer {
	return &LinkDiscoverer{
		client:         &http.Client{Timeout: cfg.RequestTimeout},
		listingURL:     cfg.ListingURL,
		articleBaseURL: cfg.ArticleBaseURL,
		marker:         cfg.ArticleMarker,
		userAgent:      cfg.UserAgent,
		referer:        cfg.Referer,
		delay:          cfg.PolitenessDelay,
		log:            log,
	}
}

// Discover returns deduplicated article URLs from the listing endpoint whose
// path carries the funding-roundup marker. Fetch failures are logged and
// whatever was accumulated so far is returned.
func (d *LinkDiscoverer) Discover(ctx context.Context) []string {
	var links []string
	seen := make(map[string]bool)

	for page := 1; page <= listingPageCount; page++ {
		d.log.Info("processing listing page", "page", page)

		// Politeness delay before each listing request.
		select {
		case <-ctx.Done():
			return links
		case <-time.After(d.delay):
		}

		posts, err := d.fetchListing(ctx, page)
		if err != nil {
			d.log.Error("listing fetch failed", "page", page, "error", err)
			return links
		}

		for _, post := range posts {
			link := d.articleBaseURL + post.Slug
			if !strings.Contains(link, d.marker) || seen[link] {
				continue
			}
			seen[link] = true
			links = append(links, link)
		}

		d.log.Info("posts accumulated", "count", len(links))
	}

	return links
}

// fetchListing requests one page of the listing endpoint.
func (d *LinkDiscoverer) fetchListing(ctx context.Context, page int) ([]listingPost, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.listingURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	params := url.Values{}
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("_data", listingDataParam)
	req.URL.RawQuery = params.Encode()

	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Referer", d.referer)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode listing response: %w", err)
	}

	return payload.Posts, nil
}
