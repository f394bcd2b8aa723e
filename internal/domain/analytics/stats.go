package analytics

import (
	"fmt"
	"time"

	"github.com/goalboard/core/internal/domain/dates"
	"github.com/goalboard/core/internal/domain/entities"
)

// XP constants. Habits count toward day completion but never toward XP;
// that asymmetry is part of the scoring model.
const (
	XPPerTask  = 10
	XPDayBonus = 50
)

// totalDone counts done videos, dsa and dev items only (no habits).
func totalDone(day entities.DayGoal) int {
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
	return done
}

// TotalXP sums +10 per done task and +50 per fully completed day across
// the whole board.
func TotalXP(goals entities.GoalsByDate) int {
	xp := 0
	for _, day := range goals {
		xp += totalDone(day) * XPPerTask
		if IsDayCompleted(day) {
			xp += XPDayBonus
		}
	}
	return xp
}

// DayXP scores a single day.
func DayXP(day entities.DayGoal) int {
	xp := totalDone(day) * XPPerTask
	if IsDayCompleted(day) {
		xp += XPDayBonus
	}
	return xp
}

// WeekSummary aggregates the 7 local calendar days ending on ref.
type WeekSummary struct {
	DaysCompleted  int `json:"daysCompleted"`
	TasksCompleted int `json:"tasksCompleted"`
}

// WeekSummaryAt counts completed days and done tasks over the last 7 days
// including the reference day.
func WeekSummaryAt(goals entities.GoalsByDate, ref time.Time) WeekSummary {
	var summary WeekSummary
	cursor := dates.FormatKey(ref)
	for i := 0; i < 7; i++ {
		if day, ok := goals[cursor]; ok {
			if IsDayCompleted(day) {
				summary.DaysCompleted++
			}
			summary.TasksCompleted += totalDone(day)
		}
		cursor = prevKey(cursor)
	}
	return summary
}

// GetWeekSummary is WeekSummaryAt anchored at the wall clock.
func GetWeekSummary(goals entities.GoalsByDate) WeekSummary {
	return WeekSummaryAt(goals, time.Now())
}

// FormatTime renders minutes as "45m", "2h" or "2h 5m".
func FormatTime(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dh", hours)
}
