package sources

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/vibin/news-relay/internal/core/domain"
	"github.com/vibin/news-relay/internal/logger"
)

const (
	yahooNewsSearchURL   = "https://news.yahoo.co.jp/search?p=%s&ei=utf-8"
	yahooNewsRankingURL  = "https://news.yahoo.co.jp/ranking/access/news"
	googleNewsSearchURL  = "https://news.google.com/search?q=%s&hl=ja&gl=JP&ceid=JP:ja"
	googleNewsBaseURL    = "https://news.google.com/"
	braveSearchURL       = "https://search.brave.com/search?q=%s&country=JP&lang=ja"
	bingSearchURL        = "https://www.bing.com/search?q=%s"
	searchResultCap      = 4
	DefaultBingUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"
)

// NewYahooNewsSource creates the Yahoo News search source, also the default for one-to-one chats
func NewYahooNewsSource(fetcher Fetcher, log logger.Logger) *HTMLSource {
	return &HTMLSource{
		name:     domain.SourceYahooNews,
		endpoint: yahooNewsSearchURL,
		selector: "a.newsFeed_item_link",
		limit:    searchResultCap,
		extract:  titleAndLink("div.newsFeed_item_title"),
		format:   titleThenURL,
		messages: domain.Messages{
			Header:  "Yahooニュースが見つかりました。\n以下のニュースを送信します。",
			Empty:   "Yahooニュースが見つかりませんでした。",
			Failure: "Yahooニュースが見つかりませんでした。",
		},
		fetcher: fetcher,
		logger:  log,
	}
}

// NewGoogleNewsSource creates the Google News search source. Only links are sent.
func NewGoogleNewsSource(fetcher Fetcher, log logger.Logger) *HTMLSource {
	base, _ := url.Parse(googleNewsBaseURL)
	return &HTMLSource{
		name:     domain.SourceGoogleNews,
		endpoint: googleNewsSearchURL,
		selector: "a.WwrzSb",
		limit:    searchResultCap,
		extract: func(sel *goquery.Selection) (domain.ResultItem, bool) {
			href, ok := sel.Attr("href")
			if !ok {
				return domain.ResultItem{}, false
			}
			ref, err := url.Parse(href)
			if err != nil {
				return domain.ResultItem{}, false
			}
			return domain.ResultItem{
				Title: strings.TrimSpace(sel.Text()),
				URL:   base.ResolveReference(ref).String(),
			}, true
		},
		format: func(item domain.ResultItem) string {
			return item.URL
		},
		messages: domain.Messages{
			Header:  "Googleニュースが見つかりました。\n以下のニュースを送信します。",
			Empty:   "Googleニュースが見つかりませんでした。",
			Failure: "Googleニュースが見つかりませんでした。",
		},
		fetcher: fetcher,
		logger:  log,
	}
}

// NewBraveSearchSource creates the Brave Search source
func NewBraveSearchSource(fetcher Fetcher, log logger.Logger) *HTMLSource {
	header := http.Header{}
	header.Set("Accept-Encoding", "gzip, deflate")
	return &HTMLSource{
		name:     domain.SourceBraveSearch,
		endpoint: braveSearchURL,
		header:   header,
		selector: "a.h.svelte-1dihpoi",
		limit:    searchResultCap,
		extract:  titleAndLink("div.url.svelte-1dihpoi.heading-serpresult"),
		format:   titleThenURL,
		messages: domain.Messages{
			Header:  "Brave Searchの結果を送信します。",
			Empty:   "Brave Searchの結果が見つかりませんでした。",
			Failure: "Brave Searchの結果が見つかりませんでした。",
		},
		fetcher: fetcher,
		logger:  log,
	}
}

// NewBingSearchSource creates the Bing source. Bing rejects requests without a
// browser-like User-Agent; an empty userAgent selects DefaultBingUserAgent.
// The cap applies to h2 headings, so headings without a link shrink the result.
func NewBingSearchSource(fetcher Fetcher, userAgent string, log logger.Logger) *HTMLSource {
	if userAgent == "" {
		userAgent = DefaultBingUserAgent
	}
	header := http.Header{}
	header.Set("User-Agent", userAgent)
	return &HTMLSource{
		name:     domain.SourceBingSearch,
		endpoint: bingSearchURL,
		header:   header,
		selector: "h2",
		limit:    searchResultCap,
		extract: func(sel *goquery.Selection) (domain.ResultItem, bool) {
			link := sel.Find("a").First()
			if link.Length() == 0 {
				return domain.ResultItem{}, false
			}
			href, _ := link.Attr("href")
			return domain.ResultItem{
				Title: strings.TrimSpace(link.Text()),
				URL:   href,
			}, true
		},
		format:   titleThenURL,
		messages: bingMessages,
		fetcher:  fetcher,
		logger:   log,
	}
}

var bingMessages = domain.Messages{
	Header:  "Bing検索の結果を送信します。",
	Empty:   "Bing検索の結果が見つかりませんでした。",
	Failure: "Bing検索の結果が見つかりませんでした。",
}

// NewYahooRankingSource creates the Yahoo News access ranking source.
// It takes no query, sends no header segment and relies on the batch cap.
func NewYahooRankingSource(fetcher Fetcher, log logger.Logger) *HTMLSource {
	return &HTMLSource{
		name:     domain.SourceYahooRanking,
		endpoint: yahooNewsRankingURL,
		selector: "a.newsFeed_item_link",
		extract:  titleAndLink(".newsFeed_item_title"),
		format:   titleThenURL,
		messages: domain.Messages{
			Empty:   "Yahooニュースのランキングが見つかりませんでした。",
			Failure: "Yahooニュースのランキングが見つかりませんでした。",
		},
		fetcher: fetcher,
		logger:  log,
	}
}
