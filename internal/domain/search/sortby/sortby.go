package sortby

// Option is a named result ordering.
type Option string

// Sort option constants.
const (
	// BestMatch orders by relevance score, newest first on ties.
	BestMatch Option = "bestmatch"
	// Newest orders by creation time, descending.
	Newest Option = "newest"
	// Oldest orders by creation time, ascending.
	Oldest Option = "oldest"
)

// IsValid checks if the option is one of the supported values.
func (o Option) IsValid() bool {
	return o == BestMatch || o == Newest || o == Oldest
}

// Default returns the ordering used when the client does not pick one:
// relevance for keyword or suggest queries, recency for plain listings.
func Default(hasQuery bool) Option {
	if hasQuery {
		return BestMatch
	}
	return Newest
}
