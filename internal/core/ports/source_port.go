package ports

import (
	"context"

	"github.com/vibin/news-relay/internal/core/domain"
)

// SourcePort defines the interface for one external content source
type SourcePort interface {
	// Name returns the identifier triggers refer to
	Name() string

	// Fetch queries the source and returns its formatted results.
	// Sources that cannot tell failures apart from empty pages return empty Findings and a nil error.
	Fetch(ctx context.Context, query string) (domain.Findings, error)

	// Messages returns the fixed strings used for the header and fallbacks
	Messages() domain.Messages
}
