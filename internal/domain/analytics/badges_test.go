package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalboard/core/internal/domain/dates"
	"github.com/goalboard/core/internal/domain/entities"
)

func badgeByID(badges []entities.Badge, id string) entities.Badge {
	for _, b := range badges {
		if b.ID == id {
			return b
		}
	}
	return entities.Badge{}
}

func TestBadgeCatalogueOrder(t *testing.T) {
	badges := EvaluateBadgesAt(entities.GoalsByDate{}, nil, localDate("2024-01-01"))
	require.Len(t, badges, 6)

	ids := make([]string, 0, len(badges))
	for _, b := range badges {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"first_day", "streak_3", "streak_7", "streak_10", "tasks_10", "tasks_50"}, ids)

	for _, b := range badges {
		assert.False(t, b.Earned)
		assert.False(t, b.New)
	}
}

func TestFirstDayBadgeIgnoresHabits(t *testing.T) {
	// day completed through habits only: first_day must not trigger
	goals := entities.GoalsByDate{
		"2024-01-01": {
			Date:   "2024-01-01",
			Habits: []entities.HabitItem{{ID: "h1", Done: true}},
		},
	}
	badges := EvaluateBadgesAt(goals, nil, localDate("2024-01-01"))
	assert.False(t, badgeByID(badges, "first_day").Earned)

	goals["2024-01-02"] = completedDay("2024-01-02")
	badges = EvaluateBadgesAt(goals, nil, localDate("2024-01-02"))
	assert.True(t, badgeByID(badges, "first_day").Earned)
}

func TestStreakBadgeBecomesNewThenSeen(t *testing.T) {
	goals := entities.GoalsByDate{
		"2024-01-01": completedDay("2024-01-01"),
		"2024-01-02": completedDay("2024-01-02"),
	}
	ref := localDate("2024-01-03")

	badges := EvaluateBadgesAt(goals, nil, ref)
	b := badgeByID(badges, "streak_3")
	assert.False(t, b.Earned)
	assert.False(t, b.New)

	goals["2024-01-03"] = completedDay("2024-01-03")
	badges = EvaluateBadgesAt(goals, nil, ref)
	b = badgeByID(badges, "streak_3")
	assert.True(t, b.Earned)
	assert.True(t, b.New)

	badges = EvaluateBadgesAt(goals, map[string]bool{"streak_3": true}, ref)
	b = badgeByID(badges, "streak_3")
	assert.True(t, b.Earned)
	assert.False(t, b.New, "acknowledged badge is no longer new")
}

func TestBestStreakBadgeSurvivesBrokenStreak(t *testing.T) {
	goals := entities.GoalsByDate{}
	cursor := "2024-01-01"
	for i := 0; i < 10; i++ {
		goals[cursor] = completedDay(cursor)
		next, err := dates.AddDays(cursor, 1)
		require.NoError(t, err)
		cursor = next
	}

	// evaluated long after the run ended: current streak is 0, best is 10
	badges := EvaluateBadgesAt(goals, nil, localDate("2024-02-15"))
	assert.True(t, badgeByID(badges, "streak_10").Earned)
	assert.False(t, badgeByID(badges, "streak_3").Earned)
}

func TestXPBadges(t *testing.T) {
	// one completed day with 5 done videos = 50 + 50 bonus = 100 XP
	day := entities.DayGoal{Date: "2024-01-01"}
	for i := 0; i < 5; i++ {
		day.Videos = append(day.Videos, entities.VideoItem{ID: entities.NewID(), Done: true})
	}
	goals := entities.GoalsByDate{"2024-01-01": day}

	badges := EvaluateBadgesAt(goals, nil, localDate("2024-01-01"))
	assert.True(t, badgeByID(badges, "tasks_10").Earned)
	assert.False(t, badgeByID(badges, "tasks_50").Earned)
}
