package analytics

import (
	"time"

	"github.com/goalboard/core/internal/domain/entities"
)

// BadgeDef pairs a badge with its predicate over the full goal history.
type BadgeDef struct {
	ID    string
	Label string
	Check func(goals entities.GoalsByDate, ref time.Time) bool
}

// BadgeDefs is the fixed, ordered badge catalogue.
var BadgeDefs = []BadgeDef{
	{
		ID:    "first_day",
		Label: "First day",
		Check: func(goals entities.GoalsByDate, _ time.Time) bool {
			for _, day := range goals {
				if isDayFullComplete(day) {
					return true
				}
			}
			return false
		},
	},
	{
		ID:    "streak_3",
		Label: "3-day streak",
		Check: func(goals entities.GoalsByDate, ref time.Time) bool {
			return CurrentStreakAt(goals, ref) >= 3
		},
	},
	{
		ID:    "streak_7",
		Label: "Week warrior",
		Check: func(goals entities.GoalsByDate, ref time.Time) bool {
			return CurrentStreakAt(goals, ref) >= 7
		},
	},
	{
		ID:    "streak_10",
		Label: "10-day streak",
		Check: func(goals entities.GoalsByDate, _ time.Time) bool {
			return BestStreak(goals) >= 10
		},
	},
	{
		ID:    "tasks_10",
		Label: "10 tasks",
		Check: func(goals entities.GoalsByDate, _ time.Time) bool {
			return TotalXP(goals) >= 100
		},
	},
	{
		ID:    "tasks_50",
		Label: "50 tasks",
		Check: func(goals entities.GoalsByDate, _ time.Time) bool {
			return TotalXP(goals) >= 500
		},
	},
}

// isDayFullComplete is the first_day check: videos/dsa/dev only, habits
// deliberately excluded.
func isDayFullComplete(day entities.DayGoal) bool {
	_, _, _, total, completed := taskCounts(day)
	if total == 0 {
		return false
	}
	return completed == total
}

// EvaluateBadgesAt runs every badge predicate. A badge is New when earned
// and its id is absent from the device-local seen set.
func EvaluateBadgesAt(goals entities.GoalsByDate, seen map[string]bool, ref time.Time) []entities.Badge {
	badges := make([]entities.Badge, 0, len(BadgeDefs))
	for _, def := range BadgeDefs {
		earned := def.Check(goals, ref)
		badges = append(badges, entities.Badge{
			ID:     def.ID,
			Label:  def.Label,
			Earned: earned,
			New:    earned && !seen[def.ID],
		})
	}
	return badges
}

// EvaluateBadges is EvaluateBadgesAt anchored at the wall clock.
func EvaluateBadges(goals entities.GoalsByDate, seen map[string]bool) []entities.Badge {
	return EvaluateBadgesAt(goals, seen, time.Now())
}
