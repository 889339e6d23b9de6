package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vibin/news-relay/internal/core/domain"
	"github.com/vibin/news-relay/internal/logger"
)

const (
	jmaQuakeListURL = "https://www.jma.go.jp/bosai/quake/data/list.json"

	// quakeOffsetSeconds is the only offset the feed is expected to carry (JST)
	quakeOffsetSeconds = 9 * 60 * 60
	quakeTimeLayout    = "2006年01月02日 15時04分"
)

// quakeEntry is one element of the JMA quake list. Only the fields the reply uses are decoded.
type quakeEntry struct {
	Title        flexString `json:"ttl"`
	Epicenter    flexString `json:"anm"`
	At           flexString `json:"at"`
	Magnitude    flexString `json:"mag"`
	MaxIntensity flexString `json:"maxi"`
}

// flexString accepts both JSON strings and numbers
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(strings.TrimSpace(string(data)))
	return nil
}

// QuakeSource reads the latest earthquake from the JMA feed.
// Unlike the scraped sources it checks the response status and reports failures.
type QuakeSource struct {
	endpoint string
	fetcher  Fetcher
	logger   logger.Logger
}

// NewQuakeSource creates a new QuakeSource
func NewQuakeSource(fetcher Fetcher, log logger.Logger) *QuakeSource {
	return &QuakeSource{
		endpoint: jmaQuakeListURL,
		fetcher:  fetcher,
		logger:   log,
	}
}

// Name returns the source identifier
func (s *QuakeSource) Name() string {
	return domain.SourceQuakeFeed
}

// Messages returns the fixed reply strings for this source
func (s *QuakeSource) Messages() domain.Messages {
	return domain.Messages{
		Header:  "最新の地震情報を送信します。",
		Empty:   "地震情報が見つかりませんでした。",
		Failure: "地震情報を取得できませんでした。",
	}
}

// Fetch ignores the query and returns the header plus one detail block
func (s *QuakeSource) Fetch(ctx context.Context, _ string) (domain.Findings, error) {
	event, err := s.Latest(ctx)
	if err != nil {
		return domain.Findings{}, err
	}
	if event == nil {
		return domain.Findings{}, nil
	}
	return domain.Findings{
		Header:   s.Messages().Header,
		Segments: []string{FormatQuakeEvent(*event)},
	}, nil
}

// Latest returns the first entry of the feed, which is assumed to be the newest.
// A nil event with a nil error means the feed was empty.
func (s *QuakeSource) Latest(ctx context.Context) (*domain.EarthquakeEvent, error) {
	s.logger.Info("Fetching quake feed", "url", s.endpoint)

	resp, err := s.fetcher.Get(ctx, s.endpoint, nil)
	if err != nil {
		return nil, &domain.RetrievalError{Source: s.Name(), Err: err}
	}
	if !resp.OK() {
		return nil, &domain.RetrievalError{Source: s.Name(), StatusCode: resp.StatusCode}
	}

	var entries []quakeEntry
	if err := json.Unmarshal(resp.Body, &entries); err != nil {
		return nil, &domain.RetrievalError{Source: s.Name(), Err: fmt.Errorf("failed to decode quake list: %w", err)}
	}
	if len(entries) == 0 {
		s.logger.Warn("Quake feed is empty")
		return nil, nil
	}

	first := entries[0]
	return &domain.EarthquakeEvent{
		Title:        string(first.Title),
		Epicenter:    string(first.Epicenter),
		OccurredAt:   string(first.At),
		Magnitude:    string(first.Magnitude),
		MaxIntensity: string(first.MaxIntensity),
	}, nil
}

// FormatQuakeEvent renders the detail block sent after the header
func FormatQuakeEvent(e domain.EarthquakeEvent) string {
	var b strings.Builder
	b.WriteString(e.Title)
	b.WriteString("\n震源地: ")
	b.WriteString(e.Epicenter)
	b.WriteString("\n発生時刻: ")
	b.WriteString(FormatQuakeTime(e.OccurredAt))
	b.WriteString("\nマグニチュード: ")
	b.WriteString(e.Magnitude)
	b.WriteString("\n最大震度: ")
	b.WriteString(e.MaxIntensity)
	return b.String()
}

// FormatQuakeTime renders a feed timestamp such as 2025-01-01T03:04:05+09:00 as a
// Japanese date. Anything else, including other offsets, is returned unchanged.
func FormatQuakeTime(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	if _, offset := t.Zone(); offset != quakeOffsetSeconds {
		return raw
	}
	return t.Format(quakeTimeLayout)
}
