package timesheet

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-agent-go/internal/domain/attendance"
)

// DayTotal is one day's worked time within a week.
type DayTotal struct {
	Date        time.Time
	WorkMinutes int
	CheckedIn   bool
}

// WeekSummary is the aggregation the weekly timesheet view renders.
type WeekSummary struct {
	WeekStart    time.Time // Monday
	Days         []DayTotal
	TotalMinutes int
}

// Service aggregates the user's attendance records into weekly summaries.
// Pure projection over server responses; nothing is persisted.
type Service struct {
	api attendance.Client
}

func NewService(client attendance.Client) *Service {
	return &Service{api: client}
}

// WeekOf fetches the month covering day and reduces it to the summary of
// day's ISO week. Open sessions count as checked-in with zero minutes until
// the server closes them.
func (s *Service) WeekOf(ctx context.Context, userID string, day time.Time) (WeekSummary, error) {
	records, err := s.api.MonthlyLog(ctx, userID, day.Format("2006-01"))
	if err != nil {
		return WeekSummary{}, fmt.Errorf("failed to fetch monthly log: %w", err)
	}
	return Summarize(records, day), nil
}

// Summarize filters records down to the week containing day and reduces
// worked minutes per day. Records outside the week are dropped.
func Summarize(records []attendance.Session, day time.Time) WeekSummary {
	weekStart := StartOfWeek(day)
	weekEnd := weekStart.AddDate(0, 0, 7)

	byDate := make(map[string]DayTotal)
	for _, rec := range records {
		d := truncateToDay(rec.Date)
		if d.Before(weekStart) || !d.Before(weekEnd) {
			continue
		}
		key := d.Format("2006-01-02")
		total := byDate[key]
		total.Date = d
		total.CheckedIn = total.CheckedIn || !rec.CheckInTime.IsZero()
		if rec.WorkMinutes != nil {
			total.WorkMinutes += *rec.WorkMinutes
		}
		byDate[key] = total
	}

	summary := WeekSummary{WeekStart: weekStart}
	for _, total := range byDate {
		summary.Days = append(summary.Days, total)
		summary.TotalMinutes += total.WorkMinutes
	}
	sort.Slice(summary.Days, func(i, j int) bool {
		return summary.Days[i].Date.Before(summary.Days[j].Date)
	})
	return summary
}

// StartOfWeek returns the Monday of day's week, normalized to midnight UTC.
func StartOfWeek(day time.Time) time.Time {
	d := truncateToDay(day)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
