package model

import (
	"time"
)

// UsageEvent is one validated usage record. Events are immutable after
// parsing; every aggregate in the ledger is built from them.
type UsageEvent struct {
	Timestamp           time.Time `json:"timestamp"`
	SessionId           string    `json:"sessionId,omitempty"`
	MessageId           string    `json:"messageId,omitempty"`
	RequestId           string    `json:"requestId,omitempty"`
	Model               string    `json:"model,omitempty"`
	Version             string    `json:"version,omitempty"`
	InputTokens         int       `json:"inputTokens"`
	OutputTokens        int       `json:"outputTokens"`
	CacheCreationTokens int       `json:"cacheCreationTokens"`
	CacheReadTokens     int       `json:"cacheReadTokens"`
	CostUSD             *float64  `json:"costUSD,omitempty"`
	ProjectPath         string    `json:"projectPath,omitempty"`
	SourceFile          string    `json:"-"`

	// Cost is the resolved cost under the run's cost mode, attached once
	// during the pipeline run while the pricing source is held.
	Cost float64 `json:"resolvedCost"`
}

// DedupKey returns the identity used for duplicate detection, or "" when
// either id is missing and the event must never be deduplicated.
func (e UsageEvent) DedupKey() string {
	if e.MessageId == "" || e.RequestId == "" {
		return ""
	}
	return e.MessageId + ":" + e.RequestId
}

// HasRecordedCost reports whether the source line carried its own costUSD.
func (e UsageEvent) HasRecordedCost() bool {
	return e.CostUSD != nil
}

// RecordedCost returns the recorded cost, or 0 when absent.
func (e UsageEvent) RecordedCost() float64 {
	if e.CostUSD == nil {
		return 0
	}
	return *e.CostUSD
}

// TokenStats is the universal accumulator for every aggregate.
type TokenStats struct {
	InputTokens         int     `json:"inputTokens"`
	OutputTokens        int     `json:"outputTokens"`
	CacheCreationTokens int     `json:"cacheCreationTokens"`
	CacheReadTokens     int     `json:"cacheReadTokens"`
	Cost                float64 `json:"cost"`
}

// AddEvent accumulates an event with its resolved cost.
func (s *TokenStats) AddEvent(e UsageEvent, cost float64) {
	s.InputTokens += e.InputTokens
	s.OutputTokens += e.OutputTokens
	s.CacheCreationTokens += e.CacheCreationTokens
	s.CacheReadTokens += e.CacheReadTokens
	s.Cost += cost
}

// Merge accumulates another TokenStats.
func (s *TokenStats) Merge(o TokenStats) {
	s.InputTokens += o.InputTokens
	s.OutputTokens += o.OutputTokens
	s.CacheCreationTokens += o.CacheCreationTokens
	s.CacheReadTokens += o.CacheReadTokens
	s.Cost += o.Cost
}

// TotalTokens is the additive total across all four token classes. Tools with
// a different accounting convention compute their own total at the unified
// layer instead of calling this.
func (s TokenStats) TotalTokens() int {
	return s.InputTokens + s.OutputTokens + s.CacheCreationTokens + s.CacheReadTokens
}

// ModelBreakdown is TokenStats keyed by model name.
type ModelBreakdown struct {
	Model string `json:"model"`
	TokenStats
}
