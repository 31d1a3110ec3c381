package aggregator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/penwyp/go-usage-ledger/internal/core/model"
	"github.com/penwyp/go-usage-ledger/internal/util"
)

// compositeSep joins composite grouping keys. NUL cannot appear in a date or
// a path segment, so the parts are always recoverable.
const compositeSep = "\x00"

// Aggregator groups events into buckets and model breakdowns. Events are
// expected to carry their resolved cost already; aggregation never touches
// the pricing source.
type Aggregator struct {
	location  *time.Location
	weekStart time.Weekday
}

// New creates an Aggregator. weekStart controls the first day used for week
// bucket keys.
func New(location *time.Location, weekStart time.Weekday) *Aggregator {
	if location == nil {
		location = time.Local
	}
	return &Aggregator{
		location:  location,
		weekStart: weekStart,
	}
}

// bucketState accumulates one group before conversion to BucketUsage.
type bucketState struct {
	usage    model.BucketUsage
	models   map[string]*model.TokenStats
	versions map[string]struct{}
}

// Aggregate groups events under the given grouping key. With byProject set,
// date groupings become composite date x project buckets.
func (a *Aggregator) Aggregate(events []model.UsageEvent, groupBy string, byProject bool) ([]model.BucketUsage, error) {
	buckets := make(map[string]*bucketState)

	for _, e := range events {
		key, project, err := a.bucketKey(e, groupBy, byProject)
		if err != nil {
			return nil, err
		}

		state, ok := buckets[key]
		if !ok {
			displayKey, _, _ := strings.Cut(key, compositeSep)
			state = &bucketState{
				usage: model.BucketUsage{
					Key:     displayKey,
					Project: project,
				},
				models:   make(map[string]*model.TokenStats),
				versions: make(map[string]struct{}),
			}
			if groupBy == model.GroupBySession {
				state.usage.SessionId = e.SessionId
				state.usage.ProjectPath = e.ProjectPath
			}
			buckets[key] = state
		}

		state.usage.AddEvent(e, e.Cost)

		if e.Model != "" && e.Model != model.SyntheticModel {
			stats, ok := state.models[e.Model]
			if !ok {
				stats = &model.TokenStats{}
				state.models[e.Model] = stats
			}
			stats.AddEvent(e, e.Cost)
		}

		if groupBy == model.GroupBySession {
			if e.Timestamp.After(state.usage.LastActivity) {
				state.usage.LastActivity = e.Timestamp
			}
			if e.Version != "" {
				state.versions[e.Version] = struct{}{}
			}
		}
	}

	result := make([]model.BucketUsage, 0, len(buckets))
	for _, state := range buckets {
		state.usage.ModelBreakdowns = buildBreakdowns(state.models)
		state.usage.ModelsUsed = util.SortModels(lo.Keys(state.models))
		if len(state.versions) > 0 {
			versions := lo.Keys(state.versions)
			sort.Strings(versions)
			state.usage.Versions = versions
		}
		result = append(result, state.usage)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Key != result[j].Key {
			return result[i].Key < result[j].Key
		}
		return result[i].Project < result[j].Project
	})

	util.LogDebugf("Aggregated %d events into %d %s buckets", len(events), len(result), groupBy)
	return result, nil
}

// bucketKey computes the grouping key and, for composite groupings, the
// project component.
func (a *Aggregator) bucketKey(e model.UsageEvent, groupBy string, byProject bool) (key, project string, err error) {
	switch groupBy {
	case model.GroupByDay:
		key = e.Timestamp.In(a.location).Format("2006-01-02")
	case model.GroupByWeek:
		key = util.StartOfWeek(e.Timestamp, a.location, a.weekStart).Format("2006-01-02")
	case model.GroupByMonth:
		key = e.Timestamp.In(a.location).Format("2006-01")
	case model.GroupBySession:
		key = e.ProjectPath + "/" + e.SessionId
	case model.GroupByProject:
		key = projectSegment(e.ProjectPath)
	default:
		return "", "", fmt.Errorf("unknown group-by: %s", groupBy)
	}

	switch groupBy {
	case model.GroupByDay, model.GroupByWeek, model.GroupByMonth:
		if byProject {
			project = projectSegment(e.ProjectPath)
			key = key + compositeSep + project
		}
	case model.GroupByProject:
		project = key
	}
	return key, project, nil
}

// projectSegment is the first path segment under the data root.
func projectSegment(projectPath string) string {
	if idx := strings.IndexByte(projectPath, '/'); idx >= 0 {
		return projectPath[:idx]
	}
	return projectPath
}

// buildBreakdowns converts per-model stats into a cost-descending slice.
func buildBreakdowns(models map[string]*model.TokenStats) []model.ModelBreakdown {
	breakdowns := make([]model.ModelBreakdown, 0, len(models))
	for name, stats := range models {
		breakdowns = append(breakdowns, model.ModelBreakdown{Model: name, TokenStats: *stats})
	}
	sort.Slice(breakdowns, func(i, j int) bool {
		if breakdowns[i].Cost != breakdowns[j].Cost {
			return breakdowns[i].Cost > breakdowns[j].Cost
		}
		return breakdowns[i].Model < breakdowns[j].Model
	})
	return breakdowns
}

// FilterRange keeps events whose local date falls inside [since, until].
// Zero bounds are open.
func FilterRange(events []model.UsageEvent, since, until time.Time, location *time.Location) []model.UsageEvent {
	if since.IsZero() && until.IsZero() {
		return events
	}

	filtered := make([]model.UsageEvent, 0, len(events))
	for _, e := range events {
		ts := e.Timestamp.In(location)
		if !since.IsZero() && ts.Before(since) {
			continue
		}
		if !until.IsZero() && !ts.Before(until) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}
