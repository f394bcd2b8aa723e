package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrItemNotFound    = errors.New("item not found")
	ErrSubtaskNotFound = errors.New("subtask not found")
	ErrHabitNotFound   = errors.New("habit not found")
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidSection  = errors.New("invalid section kind")
	ErrInvalidDateKey  = errors.New("invalid date key")
	ErrEmptyTitle      = errors.New("title must not be empty")
	ErrSessionNotOpen  = errors.New("board session not open")
	ErrBoardLoadFailed = errors.New("board load failed")
)

// Enums and types
type SectionKind string

const (
	SectionVideos SectionKind = "videos"
	SectionDsa    SectionKind = "dsa"
	SectionDev    SectionKind = "dev"
)

type DsaPlatform string

const (
	PlatformLeetcode   DsaPlatform = "leetcode"
	PlatformHackerrank DsaPlatform = "hackerrank"
	PlatformCodeforces DsaPlatform = "codeforces"
	PlatformGfg        DsaPlatform = "gfg"
	PlatformOther      DsaPlatform = "other"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// VideoItem is a video to watch on a given day.
type VideoItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Done        bool       `json:"done"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// DsaItem is a data-structure/algorithm problem to solve.
type DsaItem struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Link             string      `json:"link,omitempty"`
	Platform         DsaPlatform `json:"platform,omitempty"`
	Difficulty       Difficulty  `json:"difficulty,omitempty"`
	Notes            string      `json:"notes,omitempty"`
	TimeSpentMinutes int         `json:"timeSpentMinutes,omitempty"`
	Done             bool        `json:"done"`
	CompletedAt      *time.Time  `json:"completedAt,omitempty"`
}

// Subtask is a single step of a DevItem.
type Subtask struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// DevItem is a development task, optionally broken into subtasks. When
// subtasks exist, Done is derived from them and must be recomputed at
// every subtask mutation site.
type DevItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Link        string     `json:"link,omitempty"`
	Subtasks    []Subtask  `json:"subtasks"`
	Done        bool       `json:"done"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// HabitItem is a recurring daily habit.
type HabitItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Icon        string     `json:"icon,omitempty"`
	Done        bool       `json:"done"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// NoteFile is a file attached to a day's notes. ID equals the object-store
// path so a later delete can address the same blob.
type NoteFile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Type       string    `json:"type"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// DayGoal is the aggregate of everything planned for one calendar day on
// one board. JSON field names match the persisted blob format.
type DayGoal struct {
	Date      string      `json:"date"`
	Videos    []VideoItem `json:"videos"`
	Dsa       []DsaItem   `json:"dsa"`
	Dev       []DevItem   `json:"dev"`
	Habits    []HabitItem `json:"habits,omitempty"`
	Notes     string      `json:"notes,omitempty"`
	NoteFiles []NoteFile  `json:"noteFiles,omitempty"`
}

// GoalsByDate maps date keys to day goals. One map per board.
type GoalsByDate map[string]DayGoal

// Badge is a derived achievement. New means earned but not yet
// acknowledged on this device.
type Badge struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Earned bool   `json:"earned"`
	New    bool   `json:"new"`
}

// defaultHabitDefs is the fixed seed list for a fresh day.
var defaultHabitDefs = []struct {
	title string
	icon  string
}{
	{"Workout", "💪"},
	{"Walk", "🏃"},
	{"Study 3H", "📚"},
	{"2L Water", "💧"},
	{"Sunlight", "🌞"},
	{"Day Skincare", "🧴"},
	{"Night Skincare", "🌙"},
	{"Sleep <1:30 AM", "😴"},
}

// NewID generates an opaque unique item id.
func NewID() string {
	return uuid.NewString()
}

// DefaultHabits returns the seed habit list with freshly generated ids.
func DefaultHabits() []HabitItem {
	habits := make([]HabitItem, 0, len(defaultHabitDefs))
	for _, def := range defaultHabitDefs {
		habits = append(habits, HabitItem{
			ID:    NewID(),
			Title: def.title,
			Icon:  def.icon,
		})
	}
	return habits
}

// NewDayGoal materializes a fresh day with seeded habits and empty lists.
// It is never persisted until a mutation occurs.
func NewDayGoal(date string) DayGoal {
	return DayGoal{
		Date:   date,
		Videos: []VideoItem{},
		Dsa:    []DsaItem{},
		Dev:    []DevItem{},
		Habits: DefaultHabits(),
	}
}

// Clone returns a deep copy so mutations never alias the cached value.
func (d DayGoal) Clone() DayGoal {
	out := d
	out.Videos = append([]VideoItem(nil), d.Videos...)
	out.Dsa = append([]DsaItem(nil), d.Dsa...)
	out.Dev = make([]DevItem, len(d.Dev))
	for i, item := range d.Dev {
		item.Subtasks = append([]Subtask(nil), item.Subtasks...)
		out.Dev[i] = item
	}
	out.Habits = append([]HabitItem(nil), d.Habits...)
	out.NoteFiles = append([]NoteFile(nil), d.NoteFiles...)
	return out
}

// AddVideo appends a new undone video item and returns its id.
func (d *DayGoal) AddVideo(title, url string) (string, error) {
	if title == "" {
		return "", ErrEmptyTitle
	}
	id := NewID()
	d.Videos = append(d.Videos, VideoItem{ID: id, Title: title, URL: url})
	return id, nil
}

// AddDsa appends a new undone DSA item and returns its id.
func (d *DayGoal) AddDsa(title, link string, platform DsaPlatform, difficulty Difficulty, notes string) (string, error) {
	if title == "" {
		return "", ErrEmptyTitle
	}
	id := NewID()
	d.Dsa = append(d.Dsa, DsaItem{
		ID:         id,
		Title:      title,
		Link:       link,
		Platform:   platform,
		Difficulty: difficulty,
		Notes:      notes,
	})
	return id, nil
}

// AddDev appends a new undone dev item with an empty subtask list.
func (d *DayGoal) AddDev(title, link string) (string, error) {
	if title == "" {
		return "", ErrEmptyTitle
	}
	id := NewID()
	d.Dev = append(d.Dev, DevItem{ID: id, Title: title, Link: link, Subtasks: []Subtask{}})
	return id, nil
}

// ToggleItem flips an item's done state and stamps or clears CompletedAt.
func (d *DayGoal) ToggleItem(kind SectionKind, id string, now time.Time) error {
	switch kind {
	case SectionVideos:
		for i := range d.Videos {
			if d.Videos[i].ID == id {
				d.Videos[i].Done, d.Videos[i].CompletedAt = toggled(d.Videos[i].Done, now)
				return nil
			}
		}
	case SectionDsa:
		for i := range d.Dsa {
			if d.Dsa[i].ID == id {
				d.Dsa[i].Done, d.Dsa[i].CompletedAt = toggled(d.Dsa[i].Done, now)
				return nil
			}
		}
	case SectionDev:
		for i := range d.Dev {
			if d.Dev[i].ID == id {
				d.Dev[i].Done, d.Dev[i].CompletedAt = toggled(d.Dev[i].Done, now)
				return nil
			}
		}
	default:
		return ErrInvalidSection
	}
	return ErrItemNotFound
}

func toggled(done bool, now time.Time) (bool, *time.Time) {
	if done {
		return false, nil
	}
	return true, &now
}

// RemoveItem deletes an item from the given section.
func (d *DayGoal) RemoveItem(kind SectionKind, id string) error {
	switch kind {
	case SectionVideos:
		for i := range d.Videos {
			if d.Videos[i].ID == id {
				d.Videos = append(d.Videos[:i], d.Videos[i+1:]...)
				return nil
			}
		}
	case SectionDsa:
		for i := range d.Dsa {
			if d.Dsa[i].ID == id {
				d.Dsa = append(d.Dsa[:i], d.Dsa[i+1:]...)
				return nil
			}
		}
	case SectionDev:
		for i := range d.Dev {
			if d.Dev[i].ID == id {
				d.Dev = append(d.Dev[:i], d.Dev[i+1:]...)
				return nil
			}
		}
	default:
		return ErrInvalidSection
	}
	return ErrItemNotFound
}

// DsaItemUpdate carries optional field updates for a DSA item.
type DsaItemUpdate struct {
	Title            *string
	Link             *string
	Platform         *DsaPlatform
	Difficulty       *Difficulty
	Notes            *string
	TimeSpentMinutes *int
}

// UpdateDsaItem applies the non-nil fields of the update.
func (d *DayGoal) UpdateDsaItem(id string, upd DsaItemUpdate) error {
	for i := range d.Dsa {
		if d.Dsa[i].ID != id {
			continue
		}
		if upd.Title != nil {
			if *upd.Title == "" {
				return ErrEmptyTitle
			}
			d.Dsa[i].Title = *upd.Title
		}
		if upd.Link != nil {
			d.Dsa[i].Link = *upd.Link
		}
		if upd.Platform != nil {
			d.Dsa[i].Platform = *upd.Platform
		}
		if upd.Difficulty != nil {
			d.Dsa[i].Difficulty = *upd.Difficulty
		}
		if upd.Notes != nil {
			d.Dsa[i].Notes = *upd.Notes
		}
		if upd.TimeSpentMinutes != nil && *upd.TimeSpentMinutes >= 0 {
			d.Dsa[i].TimeSpentMinutes = *upd.TimeSpentMinutes
		}
		return nil
	}
	return ErrItemNotFound
}

// AddSubtask appends a subtask to a dev item. Adding an undone subtask
// always reopens the parent.
func (d *DayGoal) AddSubtask(devID, title string) (string, error) {
	if title == "" {
		return "", ErrEmptyTitle
	}
	for i := range d.Dev {
		if d.Dev[i].ID != devID {
			continue
		}
		id := NewID()
		d.Dev[i].Subtasks = append(d.Dev[i].Subtasks, Subtask{ID: id, Title: title})
		d.Dev[i].Done = false
		d.Dev[i].CompletedAt = nil
		return id, nil
	}
	return "", ErrItemNotFound
}

// ToggleSubtask flips a subtask and recomputes the parent: the dev item is
// done iff it has at least one subtask and all of them are done.
func (d *DayGoal) ToggleSubtask(devID, subtaskID string, now time.Time) error {
	for i := range d.Dev {
		if d.Dev[i].ID != devID {
			continue
		}
		found := false
		for j := range d.Dev[i].Subtasks {
			if d.Dev[i].Subtasks[j].ID == subtaskID {
				d.Dev[i].Subtasks[j].Done = !d.Dev[i].Subtasks[j].Done
				found = true
				break
			}
		}
		if !found {
			return ErrSubtaskNotFound
		}
		d.Dev[i].recomputeDone(now)
		return nil
	}
	return ErrItemNotFound
}

// RemoveSubtask deletes a subtask. If subtasks remain the parent is
// recomputed; if the list empties out the prior Done/CompletedAt are
// preserved.
func (d *DayGoal) RemoveSubtask(devID, subtaskID string, now time.Time) error {
	for i := range d.Dev {
		if d.Dev[i].ID != devID {
			continue
		}
		subs := d.Dev[i].Subtasks
		for j := range subs {
			if subs[j].ID == subtaskID {
				d.Dev[i].Subtasks = append(subs[:j], subs[j+1:]...)
				if len(d.Dev[i].Subtasks) > 0 {
					d.Dev[i].recomputeDone(now)
				}
				return nil
			}
		}
		return ErrSubtaskNotFound
	}
	return ErrItemNotFound
}

// recomputeDone derives Done from the subtask list, stamping CompletedAt
// on the transition to all-done and clearing it otherwise.
func (dev *DevItem) recomputeDone(now time.Time) {
	allDone := len(dev.Subtasks) > 0
	for _, s := range dev.Subtasks {
		if !s.Done {
			allDone = false
			break
		}
	}
	if allDone && !dev.Done {
		dev.Done = true
		dev.CompletedAt = &now
	} else if !allDone {
		dev.Done = false
		dev.CompletedAt = nil
	}
}

// AddHabit appends a custom habit and returns its id.
func (d *DayGoal) AddHabit(title, icon string) (string, error) {
	if title == "" {
		return "", ErrEmptyTitle
	}
	id := NewID()
	d.Habits = append(d.Habits, HabitItem{ID: id, Title: title, Icon: icon})
	return id, nil
}

// ToggleHabit flips a habit's done state.
func (d *DayGoal) ToggleHabit(id string, now time.Time) error {
	for i := range d.Habits {
		if d.Habits[i].ID == id {
			d.Habits[i].Done, d.Habits[i].CompletedAt = toggled(d.Habits[i].Done, now)
			return nil
		}
	}
	return ErrHabitNotFound
}

// RemoveHabit deletes a habit.
func (d *DayGoal) RemoveHabit(id string) error {
	for i := range d.Habits {
		if d.Habits[i].ID == id {
			d.Habits = append(d.Habits[:i], d.Habits[i+1:]...)
			return nil
		}
	}
	return ErrHabitNotFound
}

// AddNoteFile appends an attachment record.
func (d *DayGoal) AddNoteFile(file NoteFile) {
	d.NoteFiles = append(d.NoteFiles, file)
}

// RemoveNoteFile deletes an attachment record and returns it.
func (d *DayGoal) RemoveNoteFile(id string) (NoteFile, error) {
	for i := range d.NoteFiles {
		if d.NoteFiles[i].ID == id {
			file := d.NoteFiles[i]
			d.NoteFiles = append(d.NoteFiles[:i], d.NoteFiles[i+1:]...)
			return file, nil
		}
	}
	return NoteFile{}, ErrFileNotFound
}

// Utility methods
func (k SectionKind) IsValid() bool {
	switch k {
	case SectionVideos, SectionDsa, SectionDev:
		return true
	default:
		return false
	}
}

func (p DsaPlatform) IsValid() bool {
	switch p {
	case "", PlatformLeetcode, PlatformHackerrank, PlatformCodeforces, PlatformGfg, PlatformOther:
		return true
	default:
		return false
	}
}

func (df Difficulty) IsValid() bool {
	switch df {
	case "", DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}
