package ports

import (
	"context"
	"io"

	"github.com/goalboard/core/internal/domain/entities"
)

// BoardRepository defines the remote persistence adapter: one row per
// (slug, date) holding the serialized DayGoal blob. UpsertDay is
// idempotent per key.
type BoardRepository interface {
	FetchAllDays(ctx context.Context, slug string) (entities.GoalsByDate, error)
	UpsertDay(ctx context.Context, slug, date string, day entities.DayGoal) error
}

// StoredFile is the result of a file store upload.
type StoredFile struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// FileStore defines the opaque object-storage adapter for note
// attachments.
type FileStore interface {
	Upload(ctx context.Context, slug, date, filename, contentType string, content io.Reader) (StoredFile, error)
	Delete(ctx context.Context, path string) error
}

// DeviceStateRepository holds device-local acknowledgment state. It is
// never part of a board's remote truth: two devices viewing the same
// board each keep their own seen set and theme.
type DeviceStateRepository interface {
	SeenBadges(ctx context.Context, slug string) (map[string]bool, error)
	MarkBadgesSeen(ctx context.Context, slug string, badgeIDs []string) error
	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
}
