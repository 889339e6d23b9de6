package domain

import (
	"errors"
	"fmt"
)

// MaxBatchSegments is the number of text segments a single reply can carry
const MaxBatchSegments = 5

// IncomingMessage represents a validated text message received from the chat platform
type IncomingMessage struct {
	Text       string           `json:"text"`
	Kind       ConversationKind `json:"kind"`
	ReplyToken string           `json:"reply_token,omitempty"`
}

// ResultItem is a single headline or search hit, in source order
type ResultItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// EarthquakeEvent is the most recent entry of the quake feed
type EarthquakeEvent struct {
	Title        string `json:"title"`
	Epicenter    string `json:"epicenter"`
	OccurredAt   string `json:"occurred_at"`
	Magnitude    string `json:"magnitude"`
	MaxIntensity string `json:"max_intensity"`
}

// Findings are the formatted results of one source call.
// An empty Header means no header segment is sent.
type Findings struct {
	Header   string
	Segments []string
}

// Empty reports whether the source produced nothing worth sending
func (f Findings) Empty() bool {
	return len(f.Segments) == 0
}

// Messages are the fixed strings a source replies with
type Messages struct {
	Header  string
	Empty   string
	Failure string
}

// ResponseBatch is the ordered list of text segments sent back for one message
type ResponseBatch []string

// RetrievalError is returned when a source could not be fetched or decoded
type RetrievalError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *RetrievalError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream returned status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// ErrUnknownSource is returned when a trigger references a source that is not registered
var ErrUnknownSource = errors.New("unknown source")
