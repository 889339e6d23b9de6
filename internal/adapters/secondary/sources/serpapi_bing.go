package sources

import (
	"context"

	serpapi "github.com/serpapi/google-search-results-golang"
	"github.com/vibin/news-relay/internal/core/domain"
	"github.com/vibin/news-relay/internal/logger"
)

// serpSearchFunc runs one SerpAPI query and returns the decoded JSON
type serpSearchFunc func(parameters map[string]string, apiKey string) (map[string]interface{}, error)

func bingViaSerpAPI(parameters map[string]string, apiKey string) (map[string]interface{}, error) {
	client := serpapi.NewBingSearch(parameters, apiKey)
	return client.GetJSON()
}

// SerpAPIBingSource serves Bing results through SerpAPI instead of scraping the
// results page. It answers to the same trigger and replies with the same strings.
type SerpAPIBingSource struct {
	apiKey string
	search serpSearchFunc
	logger logger.Logger
}

// NewSerpAPIBingSource creates a new SerpAPIBingSource
func NewSerpAPIBingSource(apiKey string, log logger.Logger) *SerpAPIBingSource {
	return &SerpAPIBingSource{
		apiKey: apiKey,
		search: bingViaSerpAPI,
		logger: log,
	}
}

// Name returns the source identifier
func (s *SerpAPIBingSource) Name() string {
	return domain.SourceBingSearch
}

// Messages returns the fixed reply strings for this source
func (s *SerpAPIBingSource) Messages() domain.Messages {
	return bingMessages
}

// Fetch queries SerpAPI and formats the first organic results
func (s *SerpAPIBingSource) Fetch(ctx context.Context, query string) (domain.Findings, error) {
	items, err := s.Search(ctx, query)
	if err != nil {
		return domain.Findings{}, err
	}
	if len(items) == 0 {
		return domain.Findings{}, nil
	}
	segments := make([]string, 0, len(items))
	for _, item := range items {
		segments = append(segments, titleThenURL(item))
	}
	return domain.Findings{Header: bingMessages.Header, Segments: segments}, nil
}

// Search returns at most searchResultCap organic results
func (s *SerpAPIBingSource) Search(ctx context.Context, query string) ([]domain.ResultItem, error) {
	s.logger.Info("Performing SerpAPI Bing search", "query", query)

	parameters := map[string]string{
		"q":  query,
		"cc": "JP",
	}

	type outcome struct {
		data map[string]interface{}
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		data, err := s.search(parameters, s.apiKey)
		done <- outcome{data: data, err: err}
	}()

	var data map[string]interface{}
	select {
	case <-ctx.Done():
		return nil, &domain.RetrievalError{Source: s.Name(), Err: ctx.Err()}
	case out := <-done:
		if out.err != nil {
			s.logger.Error("SerpAPI search failed", "error", out.err)
			return nil, &domain.RetrievalError{Source: s.Name(), Err: out.err}
		}
		data = out.data
	}

	var items []domain.ResultItem
	organic, _ := data["organic_results"].([]interface{})
	for _, result := range organic {
		if len(items) == searchResultCap {
			break
		}
		resultMap, ok := result.(map[string]interface{})
		if !ok {
			continue
		}
		link := getStringValue(resultMap, "link")
		if link == "" {
			continue
		}
		items = append(items, domain.ResultItem{
			Title: getStringValue(resultMap, "title"),
			URL:   link,
		})
	}

	s.logger.Info("SerpAPI Bing search completed", "results_count", len(items))
	return items, nil
}

// getStringValue safely extracts a string value from a decoded JSON object
func getStringValue(data map[string]interface{}, key string) string {
	if value, ok := data[key]; ok {
		if strValue, ok := value.(string); ok {
			return strValue
		}
	}
	return ""
}
