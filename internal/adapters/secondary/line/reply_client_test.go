package line

import (
	"context"
	"errors"
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/require"
	"github.com/vibin/news-relay/config"
	"github.com/vibin/news-relay/internal/core/domain"
	"github.com/vibin/news-relay/internal/logger"
)

type fakeReplier struct {
	requests []*messaging_api.ReplyMessageRequest
	err      error
}

func (f *fakeReplier) ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &messaging_api.ReplyMessageResponse{}, nil
}

func TestReplyClient_SendsOneTextMessagePerSegment(t *testing.T) {
	api := &fakeReplier{}
	client := &ReplyClient{api: api, logger: logger.Discard()}

	err := client.Reply(context.Background(), "reply-token", domain.ResponseBatch{"header", "a\nhttps://a", "b\nhttps://b"})

	require.NoError(t, err)
	require.Len(t, api.requests, 1)
	req := api.requests[0]
	require.Equal(t, "reply-token", req.ReplyToken)
	require.Equal(t, []messaging_api.MessageInterface{
		messaging_api.TextMessage{Text: "header"},
		messaging_api.TextMessage{Text: "a\nhttps://a"},
		messaging_api.TextMessage{Text: "b\nhttps://b"},
	}, req.Messages)
}

func TestReplyClient_RejectsInvalidBatches(t *testing.T) {
	api := &fakeReplier{}
	client := &ReplyClient{api: api, logger: logger.Discard()}

	require.Error(t, client.Reply(context.Background(), "tok", nil))
	require.Error(t, client.Reply(context.Background(), "tok", domain.ResponseBatch{"1", "2", "3", "4", "5", "6"}))
	require.Empty(t, api.requests)
}

func TestReplyClient_WrapsAPIError(t *testing.T) {
	apiErr := errors.New("400 Invalid reply token")
	client := &ReplyClient{api: &fakeReplier{err: apiErr}, logger: logger.Discard()}

	err := client.Reply(context.Background(), "tok", domain.ResponseBatch{"x"})

	require.ErrorIs(t, err, apiErr)
}

func TestReplyClient_CanceledContext(t *testing.T) {
	api := &fakeReplier{}
	client := &ReplyClient{api: api, logger: logger.Discard()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Reply(ctx, "tok", domain.ResponseBatch{"x"})

	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, api.requests)
}

func TestNewReplyClient_RequiresToken(t *testing.T) {
	_, err := NewReplyClient(&config.LINEConfig{}, logger.Discard())
	require.Error(t, err)

	client, err := NewReplyClient(&config.LINEConfig{ChannelAccessToken: "t", ReplyTimeoutSeconds: 5}, logger.Discard())
	require.NoError(t, err)
	require.NotNil(t, client)
}
