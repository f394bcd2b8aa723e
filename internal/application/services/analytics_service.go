package services

import (
	"context"
	"fmt"
	"time"

	"github.com/goalboard/core/internal/domain/analytics"
	"github.com/goalboard/core/internal/domain/dates"
	"github.com/goalboard/core/internal/domain/entities"
	"github.com/goalboard/core/internal/infrastructure/logger"
	"github.com/goalboard/core/internal/ports"
)

// BoardSummary is the headline progress view for a board.
type BoardSummary struct {
	CurrentStreak   int                   `json:"currentStreak"`
	BestStreak      int                   `json:"bestStreak"`
	TotalXP         int                   `json:"totalXp"`
	TodayXP         int                   `json:"todayXp"`
	TodayComplete   bool                  `json:"todayComplete"`
	LateCompletions int                   `json:"lateCompletions"`
	Week            analytics.WeekSummary `json:"week"`
}

// StreakInfo reports the current and best completion runs.
type StreakInfo struct {
	CurrentStreak int `json:"currentStreak"`
	BestStreak    int `json:"bestStreak"`
}

// AnalyticsService derives progress views over a board's goal history
// and manages device-local acknowledgment state.
type AnalyticsService struct {
	goals  *GoalService
	device ports.DeviceStateRepository
	logger *logger.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(goals *GoalService, device ports.DeviceStateRepository, logger *logger.Logger) *AnalyticsService {
	return &AnalyticsService{
		goals:  goals,
		device: device,
		logger: logger,
	}
}

// Summary computes the headline stats for a board.
func (s *AnalyticsService) Summary(ctx context.Context, slug string) (BoardSummary, error) {
	goals, err := s.goals.GoalsFor(ctx, slug)
	if err != nil {
		return BoardSummary{}, fmt.Errorf("load goals for summary: %w", err)
	}

	now := time.Now()
	today := dates.FormatKey(now)
	day, ok := goals[today]

	return BoardSummary{
		CurrentStreak:   analytics.CurrentStreakAt(goals, now),
		BestStreak:      analytics.BestStreak(goals),
		TotalXP:         analytics.TotalXP(goals),
		TodayXP:         analytics.DayXP(day),
		TodayComplete:   ok && analytics.IsDayCompleted(day),
		LateCompletions: analytics.CountLateCompletions(goals),
		Week:            analytics.WeekSummaryAt(goals, now),
	}, nil
}

// Streaks computes the current and best streaks for a board.
func (s *AnalyticsService) Streaks(ctx context.Context, slug string) (StreakInfo, error) {
	goals, err := s.goals.GoalsFor(ctx, slug)
	if err != nil {
		return StreakInfo{}, fmt.Errorf("load goals for streaks: %w", err)
	}

	return StreakInfo{
		CurrentStreak: analytics.CurrentStreakAt(goals, time.Now()),
		BestStreak:    analytics.BestStreak(goals),
	}, nil
}

// Badges evaluates the badge catalogue, marking badges this device has
// not yet acknowledged as new.
func (s *AnalyticsService) Badges(ctx context.Context, slug string) ([]entities.Badge, error) {
	goals, err := s.goals.GoalsFor(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("load goals for badges: %w", err)
	}

	seen, err := s.device.SeenBadges(ctx, slug)
	if err != nil {
		// Device state is cosmetic; badges still render, just all new.
		s.logger.WithBoard(slug).WithError(err).Warn("Seen badges unavailable")
		seen = nil
	}

	return analytics.EvaluateBadgesAt(goals, seen, time.Now()), nil
}

// MarkBadgesSeen acknowledges earned badges on this device.
func (s *AnalyticsService) MarkBadgesSeen(ctx context.Context, slug string, badgeIDs []string) error {
	return s.device.MarkBadgesSeen(ctx, slug, badgeIDs)
}

// WeeklyData returns per-day task counts for the trailing week.
func (s *AnalyticsService) WeeklyData(ctx context.Context, slug string) ([]analytics.DailyStats, error) {
	goals, err := s.goals.GoalsFor(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("load goals for weekly data: %w", err)
	}
	return analytics.WeeklyDataAt(goals, 7, time.Now()), nil
}

// CategoryBreakdown returns all-time totals per section.
func (s *AnalyticsService) CategoryBreakdown(ctx context.Context, slug string) (analytics.CategoryStats, error) {
	goals, err := s.goals.GoalsFor(ctx, slug)
	if err != nil {
		return analytics.CategoryStats{}, fmt.Errorf("load goals for categories: %w", err)
	}
	return analytics.CategoryBreakdown(goals), nil
}

// CompletionTrend returns the day-by-day completion rate over the
// trailing 30 days, skipping days with no recorded goals.
func (s *AnalyticsService) CompletionTrend(ctx context.Context, slug string) ([]analytics.TrendPoint, error) {
	goals, err := s.goals.GoalsFor(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("load goals for trend: %w", err)
	}
	return analytics.CompletionTrendAt(goals, 30, time.Now()), nil
}

// DsaTimeStats aggregates practice time across DSA items.
func (s *AnalyticsService) DsaTimeStats(ctx context.Context, slug string) (analytics.TimeStats, error) {
	goals, err := s.goals.GoalsFor(ctx, slug)
	if err != nil {
		return analytics.TimeStats{}, fmt.Errorf("load goals for time stats: %w", err)
	}
	return analytics.DsaTimeStats(goals), nil
}

// TotalStats returns the all-time aggregate counters.
func (s *AnalyticsService) TotalStats(ctx context.Context, slug string) (analytics.TotalStats, error) {
	goals, err := s.goals.GoalsFor(ctx, slug)
	if err != nil {
		return analytics.TotalStats{}, fmt.Errorf("load goals for totals: %w", err)
	}
	return analytics.GetTotalStats(goals), nil
}

// WeeklyComparison compares this week's activity against last week's.
func (s *AnalyticsService) WeeklyComparison(ctx context.Context, slug string) (analytics.WeeklyComparison, error) {
	goals, err := s.goals.GoalsFor(ctx, slug)
	if err != nil {
		return analytics.WeeklyComparison{}, fmt.Errorf("load goals for comparison: %w", err)
	}
	return analytics.WeeklyComparisonAt(goals, time.Now()), nil
}

// Theme returns the device's stored theme preference.
func (s *AnalyticsService) Theme(ctx context.Context) (string, error) {
	return s.device.Theme(ctx)
}

// SetTheme stores the device's theme preference.
func (s *AnalyticsService) SetTheme(ctx context.Context, theme string) error {
	return s.device.SetTheme(ctx, theme)
}
