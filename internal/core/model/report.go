package model

import "time"

// BucketUsage is the aggregate for one grouping key (day, week, month,
// session or project). The session fields are populated only for session
// grouping.
type BucketUsage struct {
	Key string `json:"key"`
	TokenStats
	ModelsUsed      []string         `json:"modelsUsed"`
	ModelBreakdowns []ModelBreakdown `json:"modelBreakdowns,omitempty"`
	Project         string           `json:"project,omitempty"`

	SessionId    string    `json:"sessionId,omitempty"`
	ProjectPath  string    `json:"projectPath,omitempty"`
	LastActivity time.Time `json:"lastActivity"`
	Versions     []string  `json:"versions,omitempty"`
}

// SessionWindow is a calendar-aligned fixed-duration quota window.
type SessionWindow struct {
	Id        string    `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	TokenStats
	MessageCount      int `json:"messageCount"`
	ConversationCount int `json:"conversationCount"`
}

// CurrentWindowStatus describes the most recently started window of a month.
type CurrentWindowStatus struct {
	HasActiveSession bool  `json:"hasActiveSession"`
	TimeRemainingMs  int64 `json:"timeRemainingMs"`
}

// MonthlyWindowSummary reports window consumption against a monthly quota.
type MonthlyWindowSummary struct {
	Month              string  `json:"month"`
	TotalSessions      int     `json:"totalSessions"`
	SessionLimit       int     `json:"sessionLimit"`
	RemainingSessions  int     `json:"remainingSessions"`
	UtilizationPercent float64 `json:"utilizationPercent"`
	TokenStats
	Windows        []SessionWindow     `json:"windows"`
	CurrentSession CurrentWindowStatus `json:"currentSession"`
}

// TokenCounts holds the per-class token totals of a billing block.
type TokenCounts struct {
	InputTokens              int `json:"inputTokens"`
	OutputTokens             int `json:"outputTokens"`
	CacheCreationInputTokens int `json:"cacheCreationInputTokens"`
	CacheReadInputTokens     int `json:"cacheReadInputTokens"`
}

// Total returns the additive token total of the block.
func (tc TokenCounts) Total() int {
	return tc.InputTokens + tc.OutputTokens + tc.CacheCreationInputTokens + tc.CacheReadInputTokens
}

// BillingBlock is a floating, activity-anchored window. Gap blocks carry no
// entries and exist only to make idle time explicit on the timeline.
type BillingBlock struct {
	Id                  string       `json:"id"`
	StartTime           time.Time    `json:"startTime"`
	EndTime             time.Time    `json:"endTime"`
	ActualEndTime       *time.Time   `json:"actualEndTime,omitempty"`
	IsActive            bool         `json:"isActive"`
	IsGap               bool         `json:"isGap"`
	Entries             []UsageEvent `json:"entries,omitempty"`
	TokenCounts         TokenCounts  `json:"tokenCounts"`
	CostUSD             float64      `json:"costUSD"`
	Models              []string     `json:"models"`
	UsageLimitResetTime *time.Time   `json:"usageLimitResetTime,omitempty"`
}

// BurnRate is the usage velocity of an active block.
type BurnRate struct {
	TokensPerMinute float64 `json:"tokensPerMinute"`
	// TokensPerMinuteForIndicator excludes cache tokens so that heavy cache
	// reuse does not read as a high burn severity.
	TokensPerMinuteForIndicator float64 `json:"tokensPerMinuteForIndicator"`
	CostPerHour                 float64 `json:"costPerHour"`
}

// ProjectedUsage is the linear extrapolation of an active block to its
// scheduled end.
type ProjectedUsage struct {
	TotalTokens      int     `json:"totalTokens"`
	TotalCost        float64 `json:"totalCost"`
	RemainingMinutes float64 `json:"remainingMinutes"`
}

// TokenLimitStatus grades projected usage against a token limit.
type TokenLimitStatus struct {
	Limit          int     `json:"limit"`
	ProjectedUsage int     `json:"projectedUsage"`
	PercentUsed    float64 `json:"percentUsed"`
	Status         string  `json:"status"` // ok, warning or exceeds
}

// UnifiedUsage is one tool's aggregate mapped into the cross-tool shape.
// TotalTokens carries the tool's own formula verbatim; cross-tool totals sum
// only CostUSD.
type UnifiedUsage struct {
	Source              string   `json:"source"`
	Key                 string   `json:"key"` // date, month or session id
	InputTokens         int      `json:"inputTokens"`
	OutputTokens        int      `json:"outputTokens"`
	CacheCreationTokens int      `json:"cacheCreationTokens"`
	CacheReadTokens     int      `json:"cacheReadTokens"`
	TotalTokens         int      `json:"totalTokens"`
	CostUSD             float64  `json:"costUSD"`
	Models              []string `json:"models,omitempty"`
}
