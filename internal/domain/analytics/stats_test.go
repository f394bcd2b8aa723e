package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goalboard/core/internal/domain/entities"
)

func TestTotalXP(t *testing.T) {
	// 3 done videos + 2 done dsa, all items done => completed day
	day := entities.DayGoal{
		Date: "2024-01-01",
		Videos: []entities.VideoItem{
			{ID: "v1", Done: true}, {ID: "v2", Done: true}, {ID: "v3", Done: true},
		},
		Dsa: []entities.DsaItem{
			{ID: "d1", Done: true}, {ID: "d2", Done: true},
		},
		Dev: []entities.DevItem{},
	}
	goals := entities.GoalsByDate{"2024-01-01": day}

	assert.Equal(t, 3*10+2*10+50, TotalXP(goals))
	assert.Equal(t, 100, DayXP(day))
}

func TestXPExcludesHabits(t *testing.T) {
	day := entities.DayGoal{
		Date:   "2024-01-01",
		Videos: []entities.VideoItem{{ID: "v1", Done: true}},
		Habits: []entities.HabitItem{
			{ID: "h1", Done: true}, {ID: "h2", Done: true},
		},
	}
	goals := entities.GoalsByDate{"2024-01-01": day}

	// habits count toward completion (day bonus) but award no per-item XP
	assert.Equal(t, 10+50, TotalXP(goals))
}

func TestXPNoBonusForIncompleteDay(t *testing.T) {
	day := entities.DayGoal{
		Date: "2024-01-01",
		Videos: []entities.VideoItem{
			{ID: "v1", Done: true}, {ID: "v2", Done: false},
		},
	}
	assert.Equal(t, 10, DayXP(day))
}

func TestWeekSummary(t *testing.T) {
	goals := entities.GoalsByDate{
		"2024-01-08": completedDay("2024-01-08"), // today
		"2024-01-06": completedDay("2024-01-06"),
		"2024-01-02": completedDay("2024-01-02"), // inside the 7-day window
		"2024-01-01": completedDay("2024-01-01"), // outside
	}
	summary := WeekSummaryAt(goals, localDate("2024-01-08"))

	assert.Equal(t, 3, summary.DaysCompleted)
	assert.Equal(t, 3, summary.TasksCompleted)
}

func TestWeekSummaryCountsTasksOnIncompleteDays(t *testing.T) {
	day := entities.DayGoal{
		Date: "2024-01-08",
		Videos: []entities.VideoItem{
			{ID: "v1", Done: true}, {ID: "v2", Done: false},
		},
	}
	goals := entities.GoalsByDate{"2024-01-08": day}
	summary := WeekSummaryAt(goals, localDate("2024-01-08"))

	assert.Equal(t, 0, summary.DaysCompleted)
	assert.Equal(t, 1, summary.TasksCompleted)
}

func TestFormatTime(t *testing.T) {
	cases := map[int]string{
		0:   "0m",
		45:  "45m",
		59:  "59m",
		60:  "1h",
		61:  "1h 1m",
		125: "2h 5m",
		180: "3h",
	}
	for minutes, want := range cases {
		assert.Equal(t, want, FormatTime(minutes), "minutes=%d", minutes)
	}
}
