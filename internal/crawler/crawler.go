package crawler

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"gorm.io/gorm"

	"github.com/scamscan/scamscan/internal/service"
)

// DefaultMaxPages bounds a single crawl. The traversal is same-origin
// breadth-first; without a cap it is unbounded on large sites.
const DefaultMaxPages = 50

// assetExtensions lists path extensions that are never persisted or
// enqueued: stylesheets, images, fonts, archives, media and data blobs.
var assetExtensions = map[string]bool{
	".css": true, ".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".ico": true, ".webp": true, ".woff": true, ".woff2": true,
	".ttf": true, ".otf": true, ".eot": true, ".pdf": true, ".zip": true,
	".gz": true, ".tar": true, ".rar": true, ".mp3": true, ".mp4": true,
	".json": true,
}

// Fetcher retrieves one resource's textual content.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Crawler performs a bounded same-origin breadth-first traversal from a
// seed URL, persisting each distinct page as a SubPage of the seed's Site.
type Crawler struct {
	db       *gorm.DB
	fetch    Fetcher
	maxPages int
}

// New creates a crawler. maxPages <= 0 selects DefaultMaxPages.
func New(dbConn *gorm.DB, fetch Fetcher, maxPages int) *Crawler {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Crawler{db: dbConn, fetch: fetch, maxPages: maxPages}
}

// Crawl walks all same-origin pages reachable from seed, storing their
// content. progress may be nil. Per-resource fetch failures are logged and
// skipped; only setup failures abort the crawl.
func (c *Crawler) Crawl(ctx context.Context, seed string, progress func(string)) error {
	seedURL, err := url.Parse(seed)
	if err != nil {
		return fmt.Errorf("invalid seed URL %q: %w", seed, err)
	}
	origin := seedURL.Host

	normalizedSeed := Normalize(seedURL)
	site, err := service.GetOrCreateSite(c.db, normalizedSeed)
	if err != nil {
		return fmt.Errorf("preparing site for crawl: %w", err)
	}

	queue := []string{normalizedSeed}
	queued := map[string]bool{normalizedSeed: true}
	visited := map[string]bool{}
	processed := 0

	for len(queue) > 0 && processed < c.maxPages {
		if err := ctx.Err(); err != nil {
			return err
		}

		current := queue[0]
		queue = queue[1:]
		delete(queued, current)

		if visited[current] {
			continue
		}
		visited[current] = true
		processed++

		if progress != nil {
			progress(fmt.Sprintf("Crawling page %d of %d discovered: %s", processed, processed+len(queue), current))
		}

		content, err := c.fetch.Fetch(ctx, current)
		if err != nil {
			log.Printf("Skipping %s: %v", current, err)
			continue
		}

		if !blockedExtension(current) {
			if err := service.SaveSubPage(c.db, site.ID, current, content); err != nil {
				return fmt.Errorf("saving sub-page %s: %w", current, err)
			}
		}

		if !looksLikeMarkup(content) {
			continue
		}

		currentURL, err := url.Parse(current)
		if err != nil {
			continue
		}

		for _, link := range extractLinks(content, currentURL) {
			if link.Host != origin {
				continue
			}
			normalized := Normalize(link)
			if visited[normalized] || queued[normalized] || blockedExtension(normalized) {
				continue
			}
			queue = append(queue, normalized)
			queued[normalized] = true
		}
	}

	return nil
}

// Normalize strips query and fragment, keeping scheme+host+path. This is
// the identity under which pages are deduplicated and persisted.
func Normalize(u *url.URL) string {
	clean := *u
	clean.RawQuery = ""
	clean.Fragment = ""
	return clean.String()
}

// looksLikeMarkup is a loose markup sniff: an opening <html tag anywhere,
// case-insensitively.
func looksLikeMarkup(content string) bool {
	return strings.Contains(strings.ToLower(content), "<html")
}

// blockedExtension reports whether the URL's path ends in a static-asset
// extension.
func blockedExtension(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	return assetExtensions[ext]
}

// extractLinks pulls candidate URLs out of anchor/link href and script/img
// src attributes, resolved against the current page.
func extractLinks(content string, base *url.URL) []*url.URL {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		log.Printf("Failed to parse HTML from %s: %v", base, err)
		return nil
	}

	var links []*url.URL
	collect := func(_ int, sel *goquery.Selection) {
		attr := "href"
		if node := sel.Get(0); node != nil && (node.Data == "script" || node.Data == "img") {
			attr = "src"
		}
		raw, exists := sel.Attr(attr)
		if !exists || raw == "" {
			return
		}
		linkURL, err := url.Parse(raw)
		if err != nil {
			return
		}
		links = append(links, base.ResolveReference(linkURL))
	}

	doc.Find("a[href], link[href]").Each(collect)
	doc.Find("script[src], img[src]").Each(collect)
	return links
}
