package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/zzztools/banner-events/internal/banner"
)

const (
	// SearchURL is the community search page for the ZZZ section.
	SearchURL = "https://www.miyoushe.com/zzz/search"

	// DefaultPageTimeout bounds a single page render (navigation plus
	// waiting for the content selector).
	DefaultPageTimeout = 30 * time.Second

	searchCardSelector  = ".mhy-article-card"
	articleBodySelector = ".mhy-article-page__content"
)

// PostRef is one search hit: the listing title and the article URL.
type PostRef struct {
	Title string
	URL   string
}

// Options configures a Crawler. Zero values fall back to defaults.
type Options struct {
	SearchURL   string
	PageTimeout time.Duration
}

// Crawler drives a headless Chrome instance. The search listing and
// article pages are client-side rendered, so a plain HTTP GET returns an
// empty shell; pages are loaded in a browser and the rendered DOM is
// handed to goquery.
type Crawler struct {
	ctx         context.Context
	searchURL   string
	pageTimeout time.Duration
}

// New starts a headless browser and returns a Crawler bound to it. The
// returned cancel func shuts the browser down and must be called.
func New(parent context.Context, opts Options) (*Crawler, context.CancelFunc) {
	if opts.SearchURL == "" {
		opts.SearchURL = SearchURL
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = DefaultPageTimeout
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(1920, 1200),
		chromedp.NoSandbox,
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}

	return &Crawler{
		ctx:         browserCtx,
		searchURL:   opts.SearchURL,
		pageTimeout: opts.PageTimeout,
	}, cancel
}

// ListPosts renders the search page for the given keyword and returns
// the post listing.
func (c *Crawler) ListPosts(keyword string) ([]PostRef, error) {
	pageURL := c.searchURL + "?keyword=" + url.QueryEscape(keyword)

	html, err := c.renderedHTML(pageURL, searchCardSelector)
	if err != nil {
		return nil, fmt.Errorf("rendering search page: %w", err)
	}
	return ParseSearchResults(strings.NewReader(html))
}

// FetchPost renders one article page and returns its title and body
// text. A page without its own title keeps the listing title.
func (c *Crawler) FetchPost(ref PostRef) (banner.RawPost, error) {
	html, err := c.renderedHTML(ref.URL, articleBodySelector)
	if err != nil {
		return banner.RawPost{}, fmt.Errorf("rendering post page: %w", err)
	}

	post, err := ParsePostPage(strings.NewReader(html))
	if err != nil {
		return banner.RawPost{}, err
	}
	if post.Title == "" {
		post.Title = ref.Title
	}
	return post, nil
}

// renderedHTML navigates to pageURL, waits for waitSelector to become
// visible, and returns the rendered document HTML.
func (c *Crawler) renderedHTML(pageURL, waitSelector string) (string, error) {
	ctx, cancel := context.WithTimeout(c.ctx, c.pageTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(ctx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible(waitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("loading %s: %w", pageURL, err)
	}
	return html, nil
}
