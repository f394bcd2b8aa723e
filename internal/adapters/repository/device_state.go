package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/goalboard/core/internal/ports"
)

const themeKey = "device:theme"

// DeviceStateRepositoryImpl keeps per-device acknowledgment state in
// Redis. The seen set and theme belong to the device, not the board, so
// they live outside the Postgres truth.
type DeviceStateRepositoryImpl struct {
	client *redis.Client
}

// NewDeviceStateRepository creates a new device state repository
func NewDeviceStateRepository(client *redis.Client) ports.DeviceStateRepository {
	return &DeviceStateRepositoryImpl{client: client}
}

func seenBadgesKey(slug string) string {
	return fmt.Sprintf("badges_seen:%s", slug)
}

func (r *DeviceStateRepositoryImpl) SeenBadges(ctx context.Context, slug string) (map[string]bool, error) {
	ids, err := r.client.SMembers(ctx, seenBadgesKey(slug)).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch seen badges for board %s: %w", slug, err)
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}

	return seen, nil
}

func (r *DeviceStateRepositoryImpl) MarkBadgesSeen(ctx context.Context, slug string, badgeIDs []string) error {
	if len(badgeIDs) == 0 {
		return nil
	}

	members := make([]interface{}, len(badgeIDs))
	for i, id := range badgeIDs {
		members[i] = id
	}

	if err := r.client.SAdd(ctx, seenBadgesKey(slug), members...).Err(); err != nil {
		return fmt.Errorf("mark badges seen for board %s: %w", slug, err)
	}

	return nil
}

func (r *DeviceStateRepositoryImpl) Theme(ctx context.Context) (string, error) {
	theme, err := r.client.Get(ctx, themeKey).Result()
	if err == redis.Nil {
		return "dark", nil
	}
	if err != nil {
		return "", fmt.Errorf("fetch theme: %w", err)
	}

	return theme, nil
}

func (r *DeviceStateRepositoryImpl) SetTheme(ctx context.Context, theme string) error {
	if err := r.client.Set(ctx, themeKey, theme, 0).Err(); err != nil {
		return fmt.Errorf("store theme: %w", err)
	}

	return nil
}
