package domain

// ConversationKind defines where an inbound message was posted
type ConversationKind string

const (
	// ConversationIndividual is a one-to-one chat with the bot
	ConversationIndividual ConversationKind = "individual"

	// ConversationGroup is a group chat the bot has joined
	ConversationGroup ConversationKind = "group"
)

// Valid reports whether k is one of the known conversation kinds
func (k ConversationKind) Valid() bool {
	return k == ConversationIndividual || k == ConversationGroup
}

// Source names shared by the trigger table and the source adapters
const (
	SourceYahooNews    = "yahoo_news"
	SourceGoogleNews   = "google_news"
	SourceBraveSearch  = "brave_search"
	SourceBingSearch   = "bing_search"
	SourceYahooRanking = "yahoo_ranking"
	SourceQuakeFeed    = "jma_quake"
)
