package chat

// Request encapsulates one chatbot query.
type Request struct {
	Query string `json:"query"`
}

// Response is returned to the HTTP transport. Answer carries either the
// matched stored answer or the configured fallback; AnswerID identifies
// the logged interaction so the client can rate it later.
type Response struct {
	Answer   string `json:"answer"`
	AnswerID int64  `json:"answerId"`
	Matched  bool   `json:"matched"`
}

// RateRequest revises the rating of a previously logged interaction.
type RateRequest struct {
	AnswerID int64  `json:"answer_id"`
	Rating   string `json:"rating"`
}
