package analytics

import (
	"time"

	"github.com/goalboard/core/internal/domain/dates"
	"github.com/goalboard/core/internal/domain/entities"
)

func totalTasks(day entities.DayGoal) int {
	return len(day.Videos) + len(day.Dsa) + len(day.Dev) + len(day.Habits)
}

func doneTasks(day entities.DayGoal) int {
	done := 0
	for _, v := range day.Videos {
		if v.Done {
			done++
		}
	}
	for _, d := range day.Dsa {
		if d.Done {
			done++
		}
	}
	for _, d := range day.Dev {
		if d.Done {
			done++
		}
	}
	for _, h := range day.Habits {
		if h.Done {
			done++
		}
	}
	return done
}

// IsDayCompleted reports whether a day has at least one task and every
// task across videos, dsa, dev and habits is done. An empty day is never
// completed.
func IsDayCompleted(day entities.DayGoal) bool {
	total := totalTasks(day)
	if total == 0 {
		return false
	}
	return doneTasks(day) == total
}

// CompletedDays returns the set of date keys whose day is completed.
// Absent dates are simply not members, so gaps break streaks.
func CompletedDays(goals entities.GoalsByDate) map[string]bool {
	completed := make(map[string]bool)
	for date, day := range goals {
		if IsDayCompleted(day) {
			completed[date] = true
		}
	}
	return completed
}

// CurrentStreakAt counts consecutive completed days ending on the given
// reference day, or ending yesterday when the reference day itself is not
// yet completed.
func CurrentStreakAt(goals entities.GoalsByDate, ref time.Time) int {
	completed := CompletedDays(goals)
	if len(completed) == 0 {
		return 0
	}
	today := dates.FormatKey(ref)

	streak := 0
	cursor := today
	for completed[cursor] {
		streak++
		cursor = prevKey(cursor)
	}
	if streak > 0 {
		return streak
	}
	cursor = prevKey(today)
	for completed[cursor] {
		streak++
		cursor = prevKey(cursor)
	}
	return streak
}

// CurrentStreak is CurrentStreakAt anchored at the wall clock.
func CurrentStreak(goals entities.GoalsByDate) int {
	return CurrentStreakAt(goals, time.Now())
}

// BestStreak finds the longest run of consecutive completed calendar days
// anywhere in the dataset. Days already counted in an earlier run are
// skipped so no day is re-scanned.
func BestStreak(goals entities.GoalsByDate) int {
	completed := CompletedDays(goals)
	if len(completed) == 0 {
		return 0
	}

	best := 0
	seen := make(map[string]bool, len(completed))
	for start := range completed {
		if seen[start] {
			continue
		}
		count := 0
		cursor := start
		for completed[cursor] {
			count++
			seen[cursor] = true
			cursor = nextKey(cursor)
		}
		// rewind: the run may extend before the map-iteration start
		cursor = prevKey(start)
		for completed[cursor] && !seen[cursor] {
			count++
			seen[cursor] = true
			cursor = prevKey(cursor)
		}
		if count > best {
			best = count
		}
	}
	return best
}

func prevKey(key string) string {
	prev, err := dates.AddDays(key, -1)
	if err != nil {
		return ""
	}
	return prev
}

func nextKey(key string) string {
	next, err := dates.AddDays(key, 1)
	if err != nil {
		return ""
	}
	return next
}
