package http

import (
	"errors"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/vibin/news-relay/internal/core/domain"
)

// Callback receives LINE webhook deliveries. Text messages from one-to-one and
// group chats are relayed synchronously; everything else is acknowledged and dropped.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	cb, err := webhook.ParseRequest(h.channelSecret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warn("Invalid webhook signature, check the channel secret")
			h.respondWithError(w, http.StatusBadRequest, "invalid signature")
			return
		}
		h.logger.Error("Failed to parse webhook request", "error", err)
		h.respondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	for _, event := range cb.Events {
		msg, ok := incomingMessage(event)
		if !ok {
			continue
		}
		if err := h.service.Handle(r.Context(), msg); err != nil {
			h.logger.Error("Failed to handle message", "kind", msg.Kind, "error", err)
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// incomingMessage converts a webhook event into a domain message.
// Only text messages from users and groups qualify; room chats are ignored.
func incomingMessage(event webhook.EventInterface) (domain.IncomingMessage, bool) {
	e, ok := event.(webhook.MessageEvent)
	if !ok {
		return domain.IncomingMessage{}, false
	}
	text, ok := e.Message.(webhook.TextMessageContent)
	if !ok {
		return domain.IncomingMessage{}, false
	}

	var kind domain.ConversationKind
	switch e.Source.(type) {
	case webhook.UserSource:
		kind = domain.ConversationIndividual
	case webhook.GroupSource:
		kind = domain.ConversationGroup
	default:
		return domain.IncomingMessage{}, false
	}

	return domain.IncomingMessage{
		Text:       text.Text,
		Kind:       kind,
		ReplyToken: e.ReplyToken,
	}, true
}
