package services

import (
	"strings"

	"github.com/vibin/news-relay/internal/core/domain"
)

// Trigger maps a message prefix to a source for the conversation kinds it is enabled in
type Trigger struct {
	Prefix string                    `json:"prefix"`
	Source string                    `json:"source"`
	Kinds  []domain.ConversationKind `json:"kinds"`
}

// enabledIn reports whether the trigger applies to the given conversation kind
func (t Trigger) enabledIn(kind domain.ConversationKind) bool {
	for _, k := range t.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

var (
	individualOnly = []domain.ConversationKind{domain.ConversationIndividual}
	groupOnly      = []domain.ConversationKind{domain.ConversationGroup}
	everywhere     = []domain.ConversationKind{domain.ConversationIndividual, domain.ConversationGroup}
)

// DefaultTriggers is the routing table, in priority order.
// @news is group only: one-to-one chats reach the same source through the default route.
var DefaultTriggers = []Trigger{
	{Prefix: "@news", Source: domain.SourceYahooNews, Kinds: groupOnly},
	{Prefix: "@google", Source: domain.SourceGoogleNews, Kinds: everywhere},
	{Prefix: "@brave", Source: domain.SourceBraveSearch, Kinds: everywhere},
	{Prefix: "@bing", Source: domain.SourceBingSearch, Kinds: everywhere},
	{Prefix: "@ranking", Source: domain.SourceYahooRanking, Kinds: everywhere},
	{Prefix: "@quake", Source: domain.SourceQuakeFeed, Kinds: individualOnly},
}

// Route is the outcome of routing one message
type Route struct {
	Source string `json:"source"`
	Query  string `json:"query"`
	// Prefix is empty when the individual-chat default was used
	Prefix string `json:"prefix,omitempty"`
}

// Router selects at most one source per message
type Router struct {
	triggers      []Trigger
	defaultSource string
}

// NewRouter creates a router over the given table. defaultSource is used for
// individual chats that match no trigger.
func NewRouter(triggers []Trigger, defaultSource string) *Router {
	return &Router{
		triggers:      triggers,
		defaultSource: defaultSource,
	}
}

// NewDefaultRouter creates a router with DefaultTriggers and Yahoo News as the fallback
func NewDefaultRouter() *Router {
	return NewRouter(DefaultTriggers, domain.SourceYahooNews)
}

// Triggers returns a copy of the routing table
func (r *Router) Triggers() []Trigger {
	out := make([]Trigger, len(r.triggers))
	copy(out, r.triggers)
	return out
}

// Route returns the source and query for msg. The second result is false when
// nothing should be done, which only happens in group chats.
func (r *Router) Route(msg domain.IncomingMessage) (Route, bool) {
	for _, t := range r.triggers {
		if !t.enabledIn(msg.Kind) {
			continue
		}
		if strings.HasPrefix(msg.Text, t.Prefix) {
			return Route{
				Source: t.Source,
				Query:  strings.TrimSpace(msg.Text[len(t.Prefix):]),
				Prefix: t.Prefix,
			}, true
		}
	}

	if msg.Kind == domain.ConversationIndividual && r.defaultSource != "" {
		return Route{Source: r.defaultSource, Query: msg.Text}, true
	}

	return Route{}, false
}
