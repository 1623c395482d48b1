package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/scamscan/scamscan/internal/db"
	"github.com/scamscan/scamscan/internal/service"
)

type fakeFetcher struct {
	pages   map[string]string
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (string, error) {
	f.fetched = append(f.fetched, rawURL)
	content, ok := f.pages[rawURL]
	if !ok {
		return "", errors.New("not found")
	}
	return content, nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbConn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(dbConn))
	return dbConn
}

func page(links ...string) string {
	body := "<html><body>"
	for _, l := range links {
		body += fmt.Sprintf(`<a href=%q>link</a>`, l)
	}
	return body + "</body></html>"
}

func TestCrawlStaysOnOrigin(t *testing.T) {
	dbConn := openTestDB(t)
	fetch := &fakeFetcher{pages: map[string]string{
		"https://example.com/":        page("/about", "https://other.com/evil", "https://example.com/contact"),
		"https://example.com/about":   page("/"),
		"https://example.com/contact": page(),
	}}

	c := New(dbConn, fetch, 0)
	require.NoError(t, c.Crawl(context.Background(), "https://example.com/", nil))

	require.NotContains(t, fetch.fetched, "https://other.com/evil")

	site, err := service.GetSiteWithSubPages(dbConn, "https://example.com/")
	require.NoError(t, err)
	require.Len(t, site.SubPages, 3)
}

func TestCrawlDeduplicatesNormalizedURLs(t *testing.T) {
	dbConn := openTestDB(t)
	fetch := &fakeFetcher{pages: map[string]string{
		"https://example.com/":      page("/about?utm=1", "/about#section", "/about"),
		"https://example.com/about": page("/"),
	}}

	c := New(dbConn, fetch, 0)
	require.NoError(t, c.Crawl(context.Background(), "https://example.com/", nil))

	// query and fragment variants collapse to one page, the seed is
	// never revisited
	require.Equal(t, []string{"https://example.com/", "https://example.com/about"}, fetch.fetched)
}

func TestCrawlSkipsStaticAssets(t *testing.T) {
	dbConn := openTestDB(t)
	fetch := &fakeFetcher{pages: map[string]string{
		"https://example.com/": `<html><body>
			<a href="/style.css">css</a>
			<img src="/logo.png">
			<script src="/app.js"></script>
			<a href="/data.json">data</a>
		</body></html>`,
		"https://example.com/app.js": "console.log('hi')",
	}}

	c := New(dbConn, fetch, 0)
	require.NoError(t, c.Crawl(context.Background(), "https://example.com/", nil))

	require.NotContains(t, fetch.fetched, "https://example.com/style.css")
	require.NotContains(t, fetch.fetched, "https://example.com/logo.png")
	require.NotContains(t, fetch.fetched, "https://example.com/data.json")
	// scripts are fetched for analysis
	require.Contains(t, fetch.fetched, "https://example.com/app.js")
}

func TestCrawlHonorsPageCap(t *testing.T) {
	dbConn := openTestDB(t)
	pages := map[string]string{}
	for i := 0; i < 20; i++ {
		links := make([]string, 0, 20)
		for j := 0; j < 20; j++ {
			links = append(links, fmt.Sprintf("/page-%d", j))
		}
		pages[fmt.Sprintf("https://example.com/page-%d", i)] = page(links...)
	}
	pages["https://example.com/"] = pages["https://example.com/page-0"]
	fetch := &fakeFetcher{pages: pages}

	c := New(dbConn, fetch, 5)
	require.NoError(t, c.Crawl(context.Background(), "https://example.com/", nil))
	require.Len(t, fetch.fetched, 5)
}

func TestCrawlContinuesPastFetchFailures(t *testing.T) {
	dbConn := openTestDB(t)
	fetch := &fakeFetcher{pages: map[string]string{
		"https://example.com/":      page("/broken", "/works"),
		"https://example.com/works": page(),
	}}

	c := New(dbConn, fetch, 0)
	require.NoError(t, c.Crawl(context.Background(), "https://example.com/", nil))
	require.Contains(t, fetch.fetched, "https://example.com/works")
}

func TestCrawlReportsProgress(t *testing.T) {
	dbConn := openTestDB(t)
	fetch := &fakeFetcher{pages: map[string]string{
		"https://example.com/":      page("/about"),
		"https://example.com/about": page(),
	}}

	var messages []string
	c := New(dbConn, fetch, 0)
	require.NoError(t, c.Crawl(context.Background(), "https://example.com/", func(msg string) {
		messages = append(messages, msg)
	}))

	require.Len(t, messages, 2)
	require.Equal(t, "Crawling page 1 of 1 discovered: https://example.com/", messages[0])
	require.Equal(t, "Crawling page 2 of 2 discovered: https://example.com/about", messages[1])
}

func TestCrawlStopsOnCancelledContext(t *testing.T) {
	dbConn := openTestDB(t)
	fetch := &fakeFetcher{pages: map[string]string{
		"https://example.com/": page("/about"),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(dbConn, fetch, 0)
	err := c.Crawl(ctx, "https://example.com/", nil)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, fetch.fetched)
}

func TestNormalize(t *testing.T) {
	u, err := url.Parse("https://example.com/path?query=1#frag")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/path", Normalize(u))
}
