package analytics

import (
	"math"
	"time"

	"github.com/goalboard/core/internal/domain/dates"
	"github.com/goalboard/core/internal/domain/entities"
)

// All aggregations here are pure reducers over the full GoalsByDate map,
// recomputed on every call.

// DailyStats is one day's counts for charting.
type DailyStats struct {
	Date      string `json:"date"`
	DayLabel  string `json:"dayLabel"`
	Videos    int    `json:"videos"`
	Dsa       int    `json:"dsa"`
	Dev       int    `json:"dev"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
}

// CategoryStats is the per-category done-item breakdown.
type CategoryStats struct {
	Videos int `json:"videos"`
	Dsa    int `json:"dsa"`
	Dev    int `json:"dev"`
	Total  int `json:"total"`
}

// TrendPoint is a single day's completion rate.
type TrendPoint struct {
	Date string `json:"date"`
	Rate int    `json:"rate"`
}

// TimeStats aggregates DSA time tracking.
type TimeStats struct {
	TotalMinutes       int            `json:"totalMinutes"`
	ByDifficulty       map[string]int `json:"byDifficulty"`
	AveragePerQuestion int            `json:"averagePerQuestion"`
	QuestionsWithTime  int            `json:"questionsWithTime"`
}

// TotalStats summarizes the whole board.
type TotalStats struct {
	TotalTasks     int `json:"totalTasks"`
	CompletedTasks int `json:"completedTasks"`
	CompletionRate int `json:"completionRate"`
	DaysWithData   int `json:"daysWithData"`
}

// WeekStats covers an inclusive day-offset window.
type WeekStats struct {
	TasksCompleted int `json:"tasksCompleted"`
	TotalTasks     int `json:"totalTasks"`
	CompletionRate int `json:"completionRate"`
	Videos         int `json:"videos"`
	Dsa            int `json:"dsa"`
	Dev            int `json:"dev"`
	DsaTimeMinutes int `json:"dsaTimeMinutes"`
}

// WeeklyComparison contrasts this week against last week.
type WeeklyComparison struct {
	ThisWeek WeekStats   `json:"thisWeek"`
	LastWeek WeekStats   `json:"lastWeek"`
	Changes  WeekChanges `json:"changes"`
}

// WeekChanges is the per-metric this-week-minus-last-week delta.
type WeekChanges struct {
	TasksCompleted int `json:"tasksCompleted"`
	CompletionRate int `json:"completionRate"`
	Videos         int `json:"videos"`
	Dsa            int `json:"dsa"`
	Dev            int `json:"dev"`
	DsaTimeMinutes int `json:"dsaTimeMinutes"`
}

func taskCounts(day entities.DayGoal) (videos, dsa, dev, total, completed int) {
	for _, v := range day.Videos {
		if v.Done {
			videos++
		}
	}
	for _, d := range day.Dsa {
		if d.Done {
			dsa++
		}
	}
	for _, d := range day.Dev {
		if d.Done {
			dev++
		}
	}
	total = len(day.Videos) + len(day.Dsa) + len(day.Dev)
	completed = videos + dsa + dev
	return
}

// WeeklyDataAt emits per-day counts for the last n days ending on ref,
// oldest first. Days with no row emit zeroes.
func WeeklyDataAt(goals entities.GoalsByDate, n int, ref time.Time) []DailyStats {
	result := make([]DailyStats, 0, n)
	for i := n - 1; i >= 0; i-- {
		d := ref.AddDate(0, 0, -i)
		key := dates.FormatKey(d)
		videos, dsa, dev, total, completed := taskCounts(goals[key])
		result = append(result, DailyStats{
			Date: key,
			// English-only labels; the stdlib carries no locale data.
			DayLabel:  d.Weekday().String()[:3],
			Videos:    videos,
			Dsa:       dsa,
			Dev:       dev,
			Total:     total,
			Completed: completed,
		})
	}
	return result
}

// WeeklyData is WeeklyDataAt anchored at the wall clock.
func WeeklyData(goals entities.GoalsByDate, n int) []DailyStats {
	return WeeklyDataAt(goals, n, time.Now())
}

// CategoryBreakdown sums done items per category across all days.
func CategoryBreakdown(goals entities.GoalsByDate) CategoryStats {
	var stats CategoryStats
	for _, day := range goals {
		videos, dsa, dev, _, _ := taskCounts(day)
		stats.Videos += videos
		stats.Dsa += dsa
		stats.Dev += dev
	}
	stats.Total = stats.Videos + stats.Dsa + stats.Dev
	return stats
}

// CompletionTrendAt emits the per-day completion rate over the last n days
// ending on ref, skipping days without a row.
func CompletionTrendAt(goals entities.GoalsByDate, n int, ref time.Time) []TrendPoint {
	result := make([]TrendPoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		key := dates.FormatKey(ref.AddDate(0, 0, -i))
		day, ok := goals[key]
		if !ok {
			continue
		}
		_, _, _, total, completed := taskCounts(day)
		rate := 0
		if total > 0 {
			rate = roundRate(completed, total)
		}
		result = append(result, TrendPoint{Date: key, Rate: rate})
	}
	return result
}

// CompletionTrend is CompletionTrendAt anchored at the wall clock.
func CompletionTrend(goals entities.GoalsByDate, n int) []TrendPoint {
	return CompletionTrendAt(goals, n, time.Now())
}

// DsaTimeStats sums positive time spent across all DSA items, bucketed by
// difficulty, with a rounded per-question average.
func DsaTimeStats(goals entities.GoalsByDate) TimeStats {
	stats := TimeStats{
		ByDifficulty: map[string]int{
			string(entities.DifficultyEasy):   0,
			string(entities.DifficultyMedium): 0,
			string(entities.DifficultyHard):   0,
		},
	}
	for _, day := range goals {
		for _, item := range day.Dsa {
			if item.TimeSpentMinutes <= 0 {
				continue
			}
			stats.TotalMinutes += item.TimeSpentMinutes
			stats.QuestionsWithTime++
			if _, ok := stats.ByDifficulty[string(item.Difficulty)]; ok {
				stats.ByDifficulty[string(item.Difficulty)] += item.TimeSpentMinutes
			}
		}
	}
	if stats.QuestionsWithTime > 0 {
		stats.AveragePerQuestion = int(math.Round(float64(stats.TotalMinutes) / float64(stats.QuestionsWithTime)))
	}
	return stats
}

// GetTotalStats totals items vs done items over days that have at least
// one video/dsa/dev item.
func GetTotalStats(goals entities.GoalsByDate) TotalStats {
	var stats TotalStats
	for _, day := range goals {
		_, _, _, total, completed := taskCounts(day)
		if total == 0 {
			continue
		}
		stats.DaysWithData++
		stats.TotalTasks += total
		stats.CompletedTasks += completed
	}
	if stats.TotalTasks > 0 {
		stats.CompletionRate = roundRate(stats.CompletedTasks, stats.TotalTasks)
	}
	return stats
}

// WeekStatsAt aggregates the inclusive window [startDaysAgo, endDaysAgo]
// counted backward from ref.
func WeekStatsAt(goals entities.GoalsByDate, startDaysAgo, endDaysAgo int, ref time.Time) WeekStats {
	var stats WeekStats
	for i := startDaysAgo; i >= endDaysAgo; i-- {
		key := dates.FormatKey(ref.AddDate(0, 0, -i))
		day, ok := goals[key]
		if !ok {
			continue
		}
		videos, dsa, dev, total, completed := taskCounts(day)
		stats.TotalTasks += total
		stats.Videos += videos
		stats.Dsa += dsa
		stats.Dev += dev
		stats.TasksCompleted += completed
		for _, item := range day.Dsa {
			if item.TimeSpentMinutes > 0 {
				stats.DsaTimeMinutes += item.TimeSpentMinutes
			}
		}
	}
	if stats.TotalTasks > 0 {
		stats.CompletionRate = roundRate(stats.TasksCompleted, stats.TotalTasks)
	}
	return stats
}

// WeeklyComparisonAt contrasts days [0,6] against days [7,13] before ref.
func WeeklyComparisonAt(goals entities.GoalsByDate, ref time.Time) WeeklyComparison {
	thisWeek := WeekStatsAt(goals, 6, 0, ref)
	lastWeek := WeekStatsAt(goals, 13, 7, ref)
	return WeeklyComparison{
		ThisWeek: thisWeek,
		LastWeek: lastWeek,
		Changes: WeekChanges{
			TasksCompleted: thisWeek.TasksCompleted - lastWeek.TasksCompleted,
			CompletionRate: thisWeek.CompletionRate - lastWeek.CompletionRate,
			Videos:         thisWeek.Videos - lastWeek.Videos,
			Dsa:            thisWeek.Dsa - lastWeek.Dsa,
			Dev:            thisWeek.Dev - lastWeek.Dev,
			DsaTimeMinutes: thisWeek.DsaTimeMinutes - lastWeek.DsaTimeMinutes,
		},
	}
}

// WeeklyComparison anchored at the wall clock.
func GetWeeklyComparison(goals entities.GoalsByDate) WeeklyComparison {
	return WeeklyComparisonAt(goals, time.Now())
}

func roundRate(completed, total int) int {
	return int(math.Round(float64(completed) / float64(total) * 100))
}
