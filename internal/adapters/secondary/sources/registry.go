package sources

import (
	"github.com/vibin/news-relay/config"
	"github.com/vibin/news-relay/internal/core/ports"
	"github.com/vibin/news-relay/internal/logger"
)

// NewDefaultSources builds every source the trigger table refers to.
// Bing is served through SerpAPI when a key is configured and scraped otherwise.
func NewDefaultSources(fetcher Fetcher, cfg *config.SourcesConfig, log logger.Logger) []ports.SourcePort {
	var bing ports.SourcePort
	if cfg.SerpAPIKey != "" {
		log.Info("Using SerpAPI for Bing results")
		bing = NewSerpAPIBingSource(cfg.SerpAPIKey, log)
	} else {
		bing = NewBingSearchSource(fetcher, cfg.BingUserAgent, log)
	}

	return []ports.SourcePort{
		NewYahooNewsSource(fetcher, log),
		NewGoogleNewsSource(fetcher, log),
		NewBraveSearchSource(fetcher, log),
		bing,
		NewYahooRankingSource(fetcher, log),
		NewQuakeSource(fetcher, log),
	}
}
