package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/goalboard/core/internal/domain/entities"
)

// completedDay builds a day with one done video so it satisfies the
// completion predicate.
func completedDay(date string) entities.DayGoal {
	now := time.Date(2024, time.January, 2, 9, 0, 0, 0, time.Local)
	return entities.DayGoal{
		Date:   date,
		Videos: []entities.VideoItem{{ID: "v1", Title: "done", Done: true, CompletedAt: &now}},
		Dsa:    []entities.DsaItem{},
		Dev:    []entities.DevItem{},
	}
}

func pendingDay(date string) entities.DayGoal {
	return entities.DayGoal{
		Date:   date,
		Videos: []entities.VideoItem{{ID: "v1", Title: "pending"}},
		Dsa:    []entities.DsaItem{},
		Dev:    []entities.DevItem{},
	}
}

func localDate(key string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", key, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func TestIsDayCompleted(t *testing.T) {
	assert.False(t, IsDayCompleted(entities.DayGoal{Date: "2024-01-01"}), "empty day never completed")
	assert.True(t, IsDayCompleted(completedDay("2024-01-01")))
	assert.False(t, IsDayCompleted(pendingDay("2024-01-01")))

	// a single undone habit blocks completion even when all tasks are done
	day := completedDay("2024-01-01")
	day.Habits = []entities.HabitItem{{ID: "h1", Title: "Workout"}}
	assert.False(t, IsDayCompleted(day))

	day.Habits[0].Done = true
	assert.True(t, IsDayCompleted(day))

	// habits alone can complete a day
	habitsOnly := entities.DayGoal{
		Date:   "2024-01-01",
		Habits: []entities.HabitItem{{ID: "h1", Title: "Workout", Done: true}},
	}
	assert.True(t, IsDayCompleted(habitsOnly))
}

func TestCompletedDays(t *testing.T) {
	goals := entities.GoalsByDate{
		"2024-01-01": completedDay("2024-01-01"),
		"2024-01-02": pendingDay("2024-01-02"),
		"2024-01-03": completedDay("2024-01-03"),
	}
	completed := CompletedDays(goals)
	assert.True(t, completed["2024-01-01"])
	assert.False(t, completed["2024-01-02"])
	assert.True(t, completed["2024-01-03"])
	assert.Len(t, completed, 2)
}

func TestCurrentStreakEndingToday(t *testing.T) {
	goals := entities.GoalsByDate{
		"2024-01-01": completedDay("2024-01-01"),
		"2024-01-02": completedDay("2024-01-02"),
	}
	assert.Equal(t, 2, CurrentStreakAt(goals, localDate("2024-01-02")))
}

func TestCurrentStreakYesterdayFallback(t *testing.T) {
	goals := entities.GoalsByDate{
		"2024-01-01": completedDay("2024-01-01"),
		"2024-01-02": completedDay("2024-01-02"),
	}
	// today (01-03) has no data; the streak is still alive through yesterday
	assert.Equal(t, 2, CurrentStreakAt(goals, localDate("2024-01-03")))
}

func TestCurrentStreakBrokenByGap(t *testing.T) {
	goals := entities.GoalsByDate{
		"2024-01-01": completedDay("2024-01-01"),
		"2024-01-02": pendingDay("2024-01-02"),
	}
	assert.Equal(t, 0, CurrentStreakAt(goals, localDate("2024-01-03")))
}

func TestCurrentStreakEmpty(t *testing.T) {
	assert.Equal(t, 0, CurrentStreakAt(entities.GoalsByDate{}, localDate("2024-01-03")))
}

func TestBestStreakFindsLongestRun(t *testing.T) {
	goals := entities.GoalsByDate{
		"2024-01-01": completedDay("2024-01-01"),
		"2024-01-02": completedDay("2024-01-02"),
		"2024-01-03": completedDay("2024-01-03"),
		"2024-01-10": completedDay("2024-01-10"),
	}
	assert.Equal(t, 3, BestStreak(goals), "disjoint day does not extend the run")
}

func TestBestStreakAcrossMonthBoundary(t *testing.T) {
	goals := entities.GoalsByDate{
		"2024-01-31": completedDay("2024-01-31"),
		"2024-02-01": completedDay("2024-02-01"),
		"2024-02-02": completedDay("2024-02-02"),
	}
	assert.Equal(t, 3, BestStreak(goals))
}

func TestBestStreakNoCompletedDays(t *testing.T) {
	goals := entities.GoalsByDate{
		"2024-01-01": pendingDay("2024-01-01"),
	}
	assert.Equal(t, 0, BestStreak(goals))
	assert.Equal(t, 0, BestStreak(entities.GoalsByDate{}))
}
