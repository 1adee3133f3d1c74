package chat

import "strings"

// Intent maps a trigger phrase to the catalogue filter it stands for.
// Phrases are matched as case-insensitive substrings of the user's message.
type Intent struct {
	Phrase string
	Filter string
}

// Intents is the full enumerated intent table of the scripted assistant.
var Intents = []Intent{
	{Phrase: "sản phẩm hot", Filter: "Sản phẩm hot"},
	{Phrase: "sản phẩm khuyến mãi", Filter: "Sản phẩm khuyến mãi"},
	{Phrase: "sản phẩm best seller", Filter: "Sản phẩm best seller"},
}

// MatchIntent scans the message for a known trigger phrase. When no phrase
// matches, the raw message text itself becomes the filter value — the
// fallback-echo case — and matched is false.
func MatchIntent(message string) (filter string, matched bool) {
	lower := strings.ToLower(message)
	for _, intent := range Intents {
		if strings.Contains(lower, intent.Phrase) {
			return intent.Filter, true
		}
	}
	return message, false
}

// remainingFilters returns the filter values of every intent except the one
// already matched. Used to draw the follow-up suggestion.
func remainingFilters(matched string) []string {
	filters := make([]string, 0, len(Intents))
	for _, intent := range Intents {
		if intent.Filter != matched {
			filters = append(filters, intent.Filter)
		}
	}
	return filters
}
