package window

import (
	"sort"
	"time"

	"github.com/penwyp/go-usage-ledger/internal/core/model"
)

// MonthlySummaries rolls windows up into per-month quota reports. limit is
// the window quota per month; now decides whether the most recently started
// window still counts as the current session.
func (b *Builder) MonthlySummaries(windows []model.SessionWindow, limit int, now time.Time) []model.MonthlyWindowSummary {
	if limit <= 0 {
		limit = model.DefaultMonthlyWindowLimit
	}

	byMonth := make(map[string][]model.SessionWindow)
	for _, w := range windows {
		month := w.StartTime.In(b.location).Format("2006-01")
		byMonth[month] = append(byMonth[month], w)
	}

	// The current session is the most recently started window of the whole
	// run, reported only in its own month.
	var latest *model.SessionWindow
	for i := range windows {
		if latest == nil || windows[i].StartTime.After(latest.StartTime) {
			latest = &windows[i]
		}
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	result := make([]model.MonthlyWindowSummary, 0, len(months))
	for _, month := range months {
		monthWindows := byMonth[month]
		summary := model.MonthlyWindowSummary{
			Month:         month,
			TotalSessions: len(monthWindows),
			SessionLimit:  limit,
			Windows:       monthWindows,
		}

		for _, w := range monthWindows {
			summary.Merge(w.TokenStats)
		}

		summary.RemainingSessions = limit - summary.TotalSessions
		if summary.RemainingSessions < 0 {
			summary.RemainingSessions = 0
		}
		summary.UtilizationPercent = 100 * float64(summary.TotalSessions) / float64(limit)

		if latest != nil && latest.StartTime.In(b.location).Format("2006-01") == month {
			summary.CurrentSession = b.currentStatus(*latest, now)
		}

		result = append(result, summary)
	}

	return result
}

// currentStatus reports whether the latest window is still open against its
// nominal slot end.
func (b *Builder) currentStatus(w model.SessionWindow, now time.Time) model.CurrentWindowStatus {
	_, slotEnd, err := b.SlotInterval(w.Id)
	if err != nil {
		return model.CurrentWindowStatus{}
	}
	if !now.Before(slotEnd) {
		return model.CurrentWindowStatus{}
	}
	return model.CurrentWindowStatus{
		HasActiveSession: true,
		TimeRemainingMs:  slotEnd.Sub(now).Milliseconds(),
	}
}
