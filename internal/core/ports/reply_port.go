package ports

import (
	"context"

	"github.com/vibin/news-relay/internal/core/domain"
)

// ReplyPort is the interface for delivering a batch back to the conversation
type ReplyPort interface {
	// Reply sends the batch as one reply bound to the given token
	Reply(ctx context.Context, replyToken string, batch domain.ResponseBatch) error
}
