package crawler

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/zzztools/banner-events/internal/banner"
)

const siteBase = "https://www.miyoushe.com"

// ParseSearchResults extracts the post listing from rendered search-page
// HTML. Cards without a title or link are skipped.
func ParseSearchResults(r io.Reader) ([]PostRef, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing search HTML: %w", err)
	}

	refs := make([]PostRef, 0)
	doc.Find(".mhy-article-card").Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find(".mhy-article-card__title").Text())
		href, ok := card.Find(".mhy-article-card__link").Attr("href")
		if title == "" || !ok || href == "" {
			return
		}
		refs = append(refs, PostRef{
			Title: title,
			URL:   absoluteURL(href),
		})
	})

	return refs, nil
}

// ParsePostPage extracts the article title and body text from rendered
// article-page HTML.
func ParsePostPage(r io.Reader) (banner.RawPost, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return banner.RawPost{}, fmt.Errorf("parsing post HTML: %w", err)
	}

	return banner.RawPost{
		Title: strings.TrimSpace(doc.Find(".mhy-article-page__title").First().Text()),
		Body:  strings.TrimSpace(doc.Find(".mhy-article-page__content").First().Text()),
	}, nil
}

// absoluteURL resolves the scheme-relative and site-relative hrefs the
// listing uses.
func absoluteURL(href string) string {
	switch {
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return siteBase + href
	default:
		return href
	}
}
