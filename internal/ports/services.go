package ports

import (
	"github.com/goalboard/core/internal/domain/entities"
)

// Request types bound and validated at the HTTP layer.

// AddItemRequest creates a new item in one of the three sections.
type AddItemRequest struct {
	Kind       entities.SectionKind `json:"kind" validate:"required,oneof=videos dsa dev"`
	Title      string               `json:"title" validate:"required,min=1,max=500"`
	URL        string               `json:"url,omitempty" validate:"omitempty,max=2000"`
	Link       string               `json:"link,omitempty" validate:"omitempty,max=2000"`
	Platform   entities.DsaPlatform `json:"platform,omitempty" validate:"omitempty,oneof=leetcode hackerrank codeforces gfg other"`
	Difficulty entities.Difficulty  `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Notes      string               `json:"notes,omitempty"`
}

// UpdateDsaItemRequest partially updates a DSA item's metadata.
type UpdateDsaItemRequest struct {
	Title            *string               `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Link             *string               `json:"link,omitempty" validate:"omitempty,max=2000"`
	Platform         *entities.DsaPlatform `json:"platform,omitempty" validate:"omitempty,oneof=leetcode hackerrank codeforces gfg other"`
	Difficulty       *entities.Difficulty  `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Notes            *string               `json:"notes,omitempty"`
	TimeSpentMinutes *int                  `json:"timeSpentMinutes,omitempty" validate:"omitempty,min=0"`
}

// AddSubtaskRequest appends a subtask to a dev item.
type AddSubtaskRequest struct {
	Title string `json:"title" validate:"required,min=1,max=500"`
}

// AddHabitRequest appends a custom habit to a day.
type AddHabitRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
	Icon  string `json:"icon,omitempty" validate:"omitempty,max=16"`
}

// UpdateNotesRequest replaces a day's free-form notes.
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// MarkBadgesSeenRequest acknowledges earned badges on this device.
type MarkBadgesSeenRequest struct {
	BadgeIDs []string `json:"badgeIds" validate:"required,min=1,dive,required"`
}

// SetThemeRequest stores the device theme preference.
type SetThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}
