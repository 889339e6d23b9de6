package sources

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/vibin/news-relay/internal/core/domain"
	"github.com/vibin/news-relay/internal/logger"
)

// HTMLSource scrapes one HTML results page. Everything that differs between
// the scraped sources is data on this struct; the request/parse cycle is shared.
type HTMLSource struct {
	name     string
	endpoint string // fmt template with a single %s for the escaped query, or a fixed URL
	header   http.Header
	selector string
	// limit caps how many matched elements are looked at; 0 means no cap
	limit    int
	extract  func(sel *goquery.Selection) (domain.ResultItem, bool)
	format   func(item domain.ResultItem) string
	messages domain.Messages
	fetcher  Fetcher
	logger   logger.Logger
}

// Name returns the source identifier
func (s *HTMLSource) Name() string {
	return s.name
}

// Messages returns the fixed reply strings for this source
func (s *HTMLSource) Messages() domain.Messages {
	return s.messages
}

// URL returns the request URL for query
func (s *HTMLSource) URL(query string) string {
	if !strings.Contains(s.endpoint, "%s") {
		return s.endpoint
	}
	return fmt.Sprintf(s.endpoint, escapeQuery(query))
}

// Fetch scrapes the page for query and formats each hit.
// Transport failures and unexpected markup both end up as empty Findings.
func (s *HTMLSource) Fetch(ctx context.Context, query string) (domain.Findings, error) {
	items := s.Search(ctx, query)
	if len(items) == 0 {
		return domain.Findings{}, nil
	}

	segments := make([]string, 0, len(items))
	for _, item := range items {
		segments = append(segments, s.format(item))
	}
	return domain.Findings{Header: s.messages.Header, Segments: segments}, nil
}

// Search returns the extracted hits in page order
func (s *HTMLSource) Search(ctx context.Context, query string) []domain.ResultItem {
	target := s.URL(query)
	s.logger.Info("Scraping source", "source", s.name, "url", target)

	resp, err := s.fetcher.Get(ctx, target, s.header)
	if err != nil {
		s.logger.Error("Source request failed", "source", s.name, "error", err)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		s.logger.Error("Failed to parse source page", "source", s.name, "error", err)
		return nil
	}

	matches := doc.Find(s.selector)
	if s.limit > 0 && matches.Length() > s.limit {
		matches = matches.Slice(0, s.limit)
	}

	var items []domain.ResultItem
	matches.Each(func(_ int, sel *goquery.Selection) {
		if item, ok := s.extract(sel); ok {
			items = append(items, item)
		}
	})

	s.logger.Info("Source scraped", "source", s.name, "matched", matches.Length(), "results_count", len(items))
	return items
}

// escapeQuery percent-encodes a query, spaces included, for use in a query string
func escapeQuery(query string) string {
	return strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}

// titleAndLink reads the href of sel and the text of its titleSelector child,
// falling back to the link text when the child is missing.
func titleAndLink(titleSelector string) func(sel *goquery.Selection) (domain.ResultItem, bool) {
	return func(sel *goquery.Selection) (domain.ResultItem, bool) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return domain.ResultItem{}, false
		}
		title := sel.Find(titleSelector).First()
		text := strings.TrimSpace(title.Text())
		if title.Length() == 0 {
			text = strings.TrimSpace(sel.Text())
		}
		return domain.ResultItem{Title: text, URL: href}, true
	}
}

func titleThenURL(item domain.ResultItem) string {
	return item.Title + "\n" + item.URL
}
