package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vibin/news-relay/internal/core/domain"
	"github.com/vibin/news-relay/internal/core/services"
	"github.com/vibin/news-relay/internal/logger"
)

const testSecret = "test-channel-secret"

type fakeRelay struct {
	handled    []domain.IncomingMessage
	handleErr  error
	previewErr error
}

func (f *fakeRelay) Handle(_ context.Context, msg domain.IncomingMessage) error {
	f.handled = append(f.handled, msg)
	return f.handleErr
}

func (f *fakeRelay) Preview(_ context.Context, msg domain.IncomingMessage) (services.Route, domain.ResponseBatch, error) {
	if f.previewErr != nil {
		return services.Route{}, nil, f.previewErr
	}
	route, ok := services.NewDefaultRouter().Route(msg)
	if !ok {
		return services.Route{}, nil, nil
	}
	return route, domain.ResponseBatch{"preview of " + route.Source}, nil
}

func (f *fakeRelay) Triggers() []services.Trigger {
	return services.DefaultTriggers
}

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func textEvent(sourceJSON, text, replyToken string) string {
	return `{
		"type": "message",
		"mode": "active",
		"timestamp": 1735668245000,
		"webhookEventId": "01HXYZ",
		"deliveryContext": {"isRedelivery": false},
		"replyToken": "` + replyToken + `",
		"source": ` + sourceJSON + `,
		"message": {"type": "text", "id": "1001", "quoteToken": "q", "text": "` + text + `"}
	}`
}

func callbackBody(events ...string) string {
	return `{"destination": "Uxxxxxxxx", "events": [` + strings.Join(events, ",") + `]}`
}

func newTestHandler(relay *fakeRelay) *Handler {
	return NewHandler(relay, testSecret, logger.Discard())
}

func TestCallback_RelaysUserAndGroupTextMessages(t *testing.T) {
	relay := &fakeRelay{}
	h := newTestHandler(relay)
	body := callbackBody(
		textEvent(`{"type": "user", "userId": "U1"}`, "typhoon", "tok-user"),
		textEvent(`{"type": "group", "groupId": "G1", "userId": "U2"}`, "@google election", "tok-group"),
		textEvent(`{"type": "room", "roomId": "R1", "userId": "U3"}`, "@bing ignored", "tok-room"),
	)

	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(body))
	req.Header.Set("X-Line-Signature", sign(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []domain.IncomingMessage{
		{Text: "typhoon", Kind: domain.ConversationIndividual, ReplyToken: "tok-user"},
		{Text: "@google election", Kind: domain.ConversationGroup, ReplyToken: "tok-group"},
	}, relay.handled)
}

func TestCallback_InvalidSignatureIsRejected(t *testing.T) {
	relay := &fakeRelay{}
	h := newTestHandler(relay)
	body := callbackBody(textEvent(`{"type": "user", "userId": "U1"}`, "typhoon", "tok"))

	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(body))
	req.Header.Set("X-Line-Signature", sign(body+"tampered"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, relay.handled)
}

func TestCallback_MissingSignatureIsRejected(t *testing.T) {
	relay := &fakeRelay{}
	h := newTestHandler(relay)
	body := callbackBody()

	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, relay.handled)
}

func TestCallback_HandleErrorStillAcknowledges(t *testing.T) {
	relay := &fakeRelay{handleErr: errors.New("unknown source")}
	h := newTestHandler(relay)
	body := callbackBody(textEvent(`{"type": "user", "userId": "U1"}`, "hello", "tok"))

	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(body))
	req.Header.Set("X-Line-Signature", sign(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, relay.handled, 1)
}

func TestHealth(t *testing.T) {
	h := newTestHandler(&fakeRelay{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListTriggers(t *testing.T) {
	h := newTestHandler(&fakeRelay{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/triggers", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var triggers []services.Trigger
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &triggers))
	require.Equal(t, services.DefaultTriggers, triggers)
}

func TestPreview(t *testing.T) {
	h := newTestHandler(&fakeRelay{})

	tests := []struct {
		name     string
		body     string
		wantCode int
		want     previewResponse
	}{
		{
			name:     "routed",
			body:     `{"text": "@brave go", "kind": "group"}`,
			wantCode: http.StatusOK,
			want: previewResponse{
				Routed: true,
				Source: domain.SourceBraveSearch,
				Query:  "go",
				Batch:  domain.ResponseBatch{"preview of " + domain.SourceBraveSearch},
			},
		},
		{
			name:     "group without trigger",
			body:     `{"text": "go", "kind": "group"}`,
			wantCode: http.StatusOK,
			want:     previewResponse{Routed: false},
		},
		{
			name:     "bad kind",
			body:     `{"text": "go", "kind": "room"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad json",
			body:     `{`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/preview", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tc.wantCode, rec.Code)
			if tc.wantCode != http.StatusOK {
				return
			}
			var got previewResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			require.Equal(t, tc.want, got)
		})
	}
}

func TestPreview_ServiceError(t *testing.T) {
	h := newTestHandler(&fakeRelay{previewErr: errors.New("boom")})

	req := httptest.NewRequest(http.MethodPost, "/api/preview", strings.NewReader(`{"text":"x","kind":"individual"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAPI_CORSPreflight(t *testing.T) {
	h := newTestHandler(&fakeRelay{})

	req := httptest.NewRequest(http.MethodOptions, "/api/preview", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
