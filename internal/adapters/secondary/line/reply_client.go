package line

import (
	"context"
	"fmt"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/vibin/news-relay/config"
	"github.com/vibin/news-relay/internal/core/domain"
	"github.com/vibin/news-relay/internal/logger"
)

// replier is the subset of the Messaging API client used here
type replier interface {
	ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

// ReplyClient implements ports.ReplyPort over the LINE Messaging API
type ReplyClient struct {
	api    replier
	logger logger.Logger
}

// NewReplyClient creates a new ReplyClient from the channel configuration
func NewReplyClient(cfg *config.LINEConfig, log logger.Logger) (*ReplyClient, error) {
	if cfg.ChannelAccessToken == "" {
		return nil, fmt.Errorf("channel access token is not configured")
	}

	opts := []messaging_api.MessagingApiAPIOption{
		messaging_api.WithHTTPClient(&http.Client{Timeout: cfg.ReplyTimeout()}),
	}
	if cfg.APIEndpoint != "" {
		opts = append(opts, messaging_api.WithEndpoint(cfg.APIEndpoint))
	}

	api, err := messaging_api.NewMessagingApiAPI(cfg.ChannelAccessToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging api client: %w", err)
	}

	return &ReplyClient{api: api, logger: log}, nil
}

// Reply sends every segment of batch as a text message in a single reply call
func (c *ReplyClient) Reply(ctx context.Context, replyToken string, batch domain.ResponseBatch) error {
	if len(batch) == 0 {
		return fmt.Errorf("refusing to send an empty reply")
	}
	if len(batch) > domain.MaxBatchSegments {
		return fmt.Errorf("reply has %d segments, limit is %d", len(batch), domain.MaxBatchSegments)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	messages := make([]messaging_api.MessageInterface, 0, len(batch))
	for _, segment := range batch {
		messages = append(messages, messaging_api.TextMessage{Text: segment})
	}

	c.logger.Info("Sending LINE reply", "segments", len(messages))
	_, err := c.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
	if err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	return nil
}
