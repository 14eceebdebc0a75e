package models

// Intent is a named category of user purpose with example patterns and
// response templates. Patterns are ordered and duplicate-free; Responses is
// never empty for a persisted intent.
type Intent struct {
	Tag       string   `json:"tag"`
	Patterns  []string `json:"patterns"`
	Responses []string `json:"responses"`
}

// IntentCorpus is the full set of intents, persisted as the training source
// of truth. Iteration order is the order of the underlying file.
type IntentCorpus struct {
	Intents []Intent `json:"intents"`
}

// Get returns the intent with the given tag, or nil.
func (c *IntentCorpus) Get(tag string) *Intent {
	for i := range c.Intents {
		if c.Intents[i].Tag == tag {
			return &c.Intents[i]
		}
	}
	return nil
}

// CountPatterns returns the total number of patterns across all intents.
func (c *IntentCorpus) CountPatterns() int {
	count := 0
	for i := range c.Intents {
		count += len(c.Intents[i].Patterns)
	}
	return count
}

// Well-known intent tags. The clarification intent is what the resolver
// falls back to when neither the classifier nor the pattern matcher is
// confident.
const (
	IntentGreeting    = "greeting"
	IntentGoodbye     = "goodbye"
	IntentOpenHour    = "open_hour"
	IntentAccept      = "accept"
	IntentFindBook    = "find_book"
	IntentBookPrice   = "book_price"
	IntentOrderBook   = "order_book"
	IntentOrderStatus = "order_status"
	IntentPromotion   = "promotion"
	IntentSupport     = "support"
	IntentFallback    = "fallback"
)
