package model

// UsageLog mirrors one line of a usage JSONL file. Unknown fields are ignored
// by the decoder; only the fields the ledger consumes are declared here.
type UsageLog struct {
	Timestamp         string   `json:"timestamp"`
	Type              string   `json:"type,omitempty"`
	Message           Message  `json:"message"`
	RequestId         string   `json:"requestId,omitempty"`
	CostUSD           *float64 `json:"costUSD,omitempty"`
	Version           string   `json:"version,omitempty"`
	SessionId         string   `json:"sessionId,omitempty"`
	IsApiErrorMessage bool     `json:"isApiErrorMessage,omitempty"`
}

type Message struct {
	Id    string `json:"id,omitempty"`
	Model string `json:"model,omitempty"`
	Usage *Usage `json:"usage,omitempty"`
}

// Usage carries the token counts of one API response. InputTokens and
// OutputTokens are pointers so a missing required field can be told apart
// from a legitimate zero.
type Usage struct {
	InputTokens              *int `json:"input_tokens"`
	OutputTokens             *int `json:"output_tokens"`
	CacheCreationInputTokens int  `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int  `json:"cache_read_input_tokens"`
}
