package chat

// Config holds runtime knobs for the chat service.
type Config struct {
	// Threshold is the confidence score a best match must strictly
	// exceed to be accepted, on the 0-100 similarity scale.
	Threshold int
	// Fallback is the fixed answer returned for refused queries.
	Fallback string
	// RecentLimit caps the recent-interactions feed.
	RecentLimit int
}
