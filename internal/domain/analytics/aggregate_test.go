package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalboard/core/internal/domain/entities"
)

func mixedDay(date string) entities.DayGoal {
	return entities.DayGoal{
		Date: date,
		Videos: []entities.VideoItem{
			{ID: "v1", Done: true},
			{ID: "v2", Done: false},
		},
		Dsa: []entities.DsaItem{
			{ID: "d1", Done: true, Difficulty: entities.DifficultyEasy, TimeSpentMinutes: 20},
			{ID: "d2", Done: true, Difficulty: entities.DifficultyHard, TimeSpentMinutes: 40},
		},
		Dev: []entities.DevItem{
			{ID: "x1", Done: false},
		},
	}
}

func TestWeeklyData(t *testing.T) {
	goals := entities.GoalsByDate{
		"2024-01-08": mixedDay("2024-01-08"),
	}
	data := WeeklyDataAt(goals, 7, localDate("2024-01-08"))

	require.Len(t, data, 7)
	assert.Equal(t, "2024-01-02", data[0].Date, "oldest first")
	assert.Equal(t, "2024-01-08", data[6].Date)

	// empty days emit zeroes
	assert.Zero(t, data[0].Total)
	assert.Zero(t, data[0].Completed)

	last := data[6]
	assert.Equal(t, 1, last.Videos)
	assert.Equal(t, 2, last.Dsa)
	assert.Equal(t, 0, last.Dev)
	assert.Equal(t, 5, last.Total)
	assert.Equal(t, 3, last.Completed)
	assert.Equal(t, "Mon", last.DayLabel) // 2024-01-08 is a Monday
}

func TestCategoryBreakdown(t *testing.T) {
	goals := entities.GoalsByDate{
		"2024-01-07": mixedDay("2024-01-07"),
		"2024-01-08": mixedDay("2024-01-08"),
	}
	stats := CategoryBreakdown(goals)

	assert.Equal(t, 2, stats.Videos)
	assert.Equal(t, 4, stats.Dsa)
	assert.Equal(t, 0, stats.Dev)
	assert.Equal(t, 6, stats.Total)
}

func TestCompletionTrendSkipsMissingDays(t *testing.T) {
	goals := entities.GoalsByDate{
		"2024-01-08": mixedDay("2024-01-08"),
		"2024-01-06": completedDay("2024-01-06"),
	}
	trend := CompletionTrendAt(goals, 7, localDate("2024-01-08"))

	require.Len(t, trend, 2)
	assert.Equal(t, TrendPoint{Date: "2024-01-06", Rate: 100}, trend[0])
	assert.Equal(t, TrendPoint{Date: "2024-01-08", Rate: 60}, trend[1])
}

func TestDsaTimeStats(t *testing.T) {
	goals := entities.GoalsByDate{
		"2024-01-07": mixedDay("2024-01-07"),
		"2024-01-08": {
			Date: "2024-01-08",
			Dsa: []entities.DsaItem{
				{ID: "d1", Difficulty: entities.DifficultyEasy, TimeSpentMinutes: 15},
				{ID: "d2", TimeSpentMinutes: 0},  // no time tracked
				{ID: "d3", TimeSpentMinutes: 10}, // no difficulty set
			},
		},
	}
	stats := DsaTimeStats(goals)

	assert.Equal(t, 85, stats.TotalMinutes)
	assert.Equal(t, 4, stats.QuestionsWithTime)
	assert.Equal(t, 35, stats.ByDifficulty["easy"])
	assert.Equal(t, 0, stats.ByDifficulty["medium"])
	assert.Equal(t, 40, stats.ByDifficulty["hard"])
	assert.Equal(t, 21, stats.AveragePerQuestion) // round(85/4)
}

func TestDsaTimeStatsEmpty(t *testing.T) {
	stats := DsaTimeStats(entities.GoalsByDate{})
	assert.Zero(t, stats.TotalMinutes)
	assert.Zero(t, stats.AveragePerQuestion)
	assert.Zero(t, stats.QuestionsWithTime)
}

func TestGetTotalStats(t *testing.T) {
	goals := entities.GoalsByDate{
		"2024-01-07": mixedDay("2024-01-07"), // 5 tasks, 3 done
		"2024-01-08": {Date: "2024-01-08"},   // no items: not a data day
		"2024-01-09": {
			Date:   "2024-01-09",
			Habits: []entities.HabitItem{{ID: "h1", Done: true}},
		}, // habits only: not a data day
	}
	stats := GetTotalStats(goals)

	assert.Equal(t, 1, stats.DaysWithData)
	assert.Equal(t, 5, stats.TotalTasks)
	assert.Equal(t, 3, stats.CompletedTasks)
	assert.Equal(t, 60, stats.CompletionRate)
}

func TestGetTotalStatsEmpty(t *testing.T) {
	stats := GetTotalStats(entities.GoalsByDate{})
	assert.Zero(t, stats.CompletionRate)
	assert.Zero(t, stats.DaysWithData)
}

func TestWeeklyComparison(t *testing.T) {
	goals := entities.GoalsByDate{
		// this week: ref day only
		"2024-01-14": mixedDay("2024-01-14"),
		// last week
		"2024-01-05": completedDay("2024-01-05"),
	}
	cmp := WeeklyComparisonAt(goals, localDate("2024-01-14"))

	assert.Equal(t, 3, cmp.ThisWeek.TasksCompleted)
	assert.Equal(t, 60, cmp.ThisWeek.CompletionRate)
	assert.Equal(t, 60, cmp.ThisWeek.DsaTimeMinutes)

	assert.Equal(t, 1, cmp.LastWeek.TasksCompleted)
	assert.Equal(t, 100, cmp.LastWeek.CompletionRate)

	assert.Equal(t, 2, cmp.Changes.TasksCompleted)
	assert.Equal(t, -40, cmp.Changes.CompletionRate)
	assert.Equal(t, 60, cmp.Changes.DsaTimeMinutes)
}
