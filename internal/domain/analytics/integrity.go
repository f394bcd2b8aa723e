package analytics

import (
	"math"
	"time"

	"github.com/goalboard/core/internal/domain/dates"
	"github.com/goalboard/core/internal/domain/entities"
)

// Late-completion checks compare local calendar days only; wall-clock hour
// differences never matter unless a local midnight boundary is crossed.

// IsLateCompletion reports whether completedAt falls on a later local
// calendar day than the assigned date.
func IsLateCompletion(assignedDate string, completedAt *time.Time) bool {
	return DaysLate(assignedDate, completedAt) > 0
}

// DaysLate returns the non-negative whole-day difference between the local
// calendar day of completedAt and the assigned date.
func DaysLate(assignedDate string, completedAt *time.Time) int {
	if completedAt == nil {
		return 0
	}
	assigned, err := dates.ParseKey(assignedDate)
	if err != nil {
		return 0
	}
	local := completedAt.Local()
	completedDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)

	diff := int(math.Floor(completedDay.Sub(assigned).Hours() / 24))
	if diff < 0 {
		return 0
	}
	return diff
}

// CountLateCompletions counts items across the whole history that were
// completed on a later calendar day than they were assigned to.
func CountLateCompletions(goals entities.GoalsByDate) int {
	count := 0
	for date, day := range goals {
		for _, v := range day.Videos {
			if v.Done && IsLateCompletion(date, v.CompletedAt) {
				count++
			}
		}
		for _, q := range day.Dsa {
			if q.Done && IsLateCompletion(date, q.CompletedAt) {
				count++
			}
		}
		for _, dv := range day.Dev {
			if dv.Done && IsLateCompletion(date, dv.CompletedAt) {
				count++
			}
		}
	}
	return count
}

// IsPastDateAt reports whether the date key is at least one full calendar
// day before the reference day.
func IsPastDateAt(dateKey string, ref time.Time) bool {
	day, err := dates.ParseKey(dateKey)
	if err != nil {
		return false
	}
	today := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.Local)
	return today.Sub(day).Hours()/24 >= 1
}

// IsPastDate is IsPastDateAt anchored at the wall clock.
func IsPastDate(dateKey string) bool {
	return IsPastDateAt(dateKey, time.Now())
}
