package model

// SyntheticModel marks assistant-internal bookkeeping entries, never real
// usage; it is excluded from every model breakdown.
const SyntheticModel = "<synthetic>"

// Message entry types that can carry usage data.
const (
	EntryMessage   = "message"
	EntryAssistant = "assistant"
)

// Tool sources for the cross-tool layer, in fixed combine priority order.
const (
	SourceClaude = "claude"
	SourceCodex  = "codex"
)

// SourcePriority orders tools in combined reports.
var SourcePriority = []string{SourceClaude, SourceCodex}

// Grouping keys for bucket reports.
const (
	GroupByDay     = "day"
	GroupByWeek    = "week"
	GroupByMonth   = "month"
	GroupBySession = "session"
	GroupByProject = "project"
)

// Defaults for window and block construction.
const (
	DefaultBlockDurationHours = 5
	DefaultWindowHours        = 5
	DefaultMonthlyWindowLimit = 50
)
