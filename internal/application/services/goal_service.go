package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/goalboard/core/internal/domain/dates"
	"github.com/goalboard/core/internal/domain/entities"
	"github.com/goalboard/core/internal/infrastructure/logger"
	"github.com/goalboard/core/internal/ports"
)

const (
	notesDebounceDelay = 500 * time.Millisecond
	syncTimeout        = 10 * time.Second
	slugLength         = 8
)

const slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GoalService manages board sessions. A session is an in-memory cache
// of one board's days: reads are served locally and writes land locally
// first, then sync to the repository in the background.
type GoalService struct {
	repo   ports.BoardRepository
	files  ports.FileStore
	logger *logger.Logger

	mu       sync.Mutex
	sessions map[string]*BoardSession
}

// NewGoalService creates a new goal service
func NewGoalService(repo ports.BoardRepository, files ports.FileStore, logger *logger.Logger) *GoalService {
	return &GoalService{
		repo:     repo,
		files:    files,
		logger:   logger,
		sessions: make(map[string]*BoardSession),
	}
}

// NewBoardSlug mints a random identifier for a fresh board.
func NewBoardSlug() (string, error) {
	buf := make([]byte, slugLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate board slug: %w", err)
	}
	for i, b := range buf {
		buf[i] = slugAlphabet[int(b)%len(slugAlphabet)]
	}
	return string(buf), nil
}

// OpenBoard loads a board's full history and caches it as a session.
// Reopening an already open board returns the existing session.
func (s *GoalService) OpenBoard(ctx context.Context, slug string) (*BoardSession, error) {
	s.mu.Lock()
	if sess, ok := s.sessions[slug]; ok {
		s.mu.Unlock()
		return sess, nil
	}
	s.mu.Unlock()

	days, err := s.repo.FetchAllDays(ctx, slug)
	if err != nil {
		s.logger.WithBoard(slug).WithError(err).Error("Board load failed")
		return nil, fmt.Errorf("%w: %v", entities.ErrBoardLoadFailed, err)
	}

	sess := newBoardSession(slug, days, s.repo, s.files, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another open may have raced us while we were fetching.
	if existing, ok := s.sessions[slug]; ok {
		return existing, nil
	}
	s.sessions[slug] = sess
	return sess, nil
}

// Session returns the open session for a board.
func (s *GoalService) Session(slug string) (*BoardSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[slug]
	if !ok {
		return nil, entities.ErrSessionNotOpen
	}
	return sess, nil
}

// CloseBoard flushes pending writes and drops the session cache.
func (s *GoalService) CloseBoard(ctx context.Context, slug string) error {
	s.mu.Lock()
	sess, ok := s.sessions[slug]
	delete(s.sessions, slug)
	s.mu.Unlock()

	if !ok {
		return nil
	}
	return sess.Close(ctx)
}

// GoalsFor returns a board's full history, preferring the open session
// cache and falling back to a direct repository read.
func (s *GoalService) GoalsFor(ctx context.Context, slug string) (entities.GoalsByDate, error) {
	s.mu.Lock()
	sess, ok := s.sessions[slug]
	s.mu.Unlock()

	if ok {
		return sess.Goals(), nil
	}
	return s.repo.FetchAllDays(ctx, slug)
}

// BoardSession is the cached working copy of one board. All reads and
// writes go through the cache under a single mutex; repository writes
// happen asynchronously and never roll the cache back on failure.
type BoardSession struct {
	slug   string
	repo   ports.BoardRepository
	files  ports.FileStore
	logger *logger.Logger

	mu          sync.Mutex
	days        entities.GoalsByDate
	lastSyncErr error
	notesTimers map[string]*time.Timer
}

func newBoardSession(slug string, days entities.GoalsByDate, repo ports.BoardRepository, files ports.FileStore, log *logger.Logger) *BoardSession {
	if days == nil {
		days = make(entities.GoalsByDate)
	}
	return &BoardSession{
		slug:        slug,
		repo:        repo,
		files:       files,
		logger:      log.WithBoard(slug),
		days:        days,
		notesTimers: make(map[string]*time.Timer),
	}
}

// Slug returns the board identifier.
func (b *BoardSession) Slug() string {
	return b.slug
}

// Goals returns a deep copy of every cached day.
func (b *BoardSession) Goals() entities.GoalsByDate {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(entities.GoalsByDate, len(b.days))
	for key, day := range b.days {
		out[key] = day.Clone()
	}
	return out
}

// Day returns the cached day, or a fresh default when the date has
// never been touched. Reading a day never persists it.
func (b *BoardSession) Day(date string) (entities.DayGoal, error) {
	if _, err := dates.ParseKey(date); err != nil {
		return entities.DayGoal{}, entities.ErrInvalidDateKey
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if day, ok := b.days[date]; ok {
		return day.Clone(), nil
	}
	return entities.NewDayGoal(date), nil
}

// SyncError reports the most recent background write failure, if any.
func (b *BoardSession) SyncError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastSyncErr
}

// mutate applies fn to a working copy of the day, commits it to the
// cache, and kicks off the background repository write. The returned
// channel delivers the sync result; the cache keeps the new state even
// when the sync fails.
func (b *BoardSession) mutate(date string, fn func(*entities.DayGoal) error) (entities.DayGoal, <-chan error, error) {
	if _, err := dates.ParseKey(date); err != nil {
		return entities.DayGoal{}, nil, entities.ErrInvalidDateKey
	}

	b.mu.Lock()
	day, ok := b.days[date]
	if ok {
		day = day.Clone()
	} else {
		day = entities.NewDayGoal(date)
	}

	if err := fn(&day); err != nil {
		b.mu.Unlock()
		return entities.DayGoal{}, nil, err
	}

	b.days[date] = day
	snapshot := day.Clone()
	b.mu.Unlock()

	return day.Clone(), b.persist(date, snapshot), nil
}

func (b *BoardSession) persist(date string, day entities.DayGoal) <-chan error {
	done := make(chan error, 1)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		err := b.repo.UpsertDay(ctx, b.slug, date, day)

		b.mu.Lock()
		b.lastSyncErr = err
		b.mu.Unlock()

		if err != nil {
			b.logger.LogSyncFailure(b.slug, date, err)
		}
		done <- err
	}()

	return done
}

// AddItem appends a new item to one of the day's sections.
func (b *BoardSession) AddItem(date string, req ports.AddItemRequest) (entities.DayGoal, <-chan error, error) {
	return b.mutate(date, func(day *entities.DayGoal) error {
		var err error
		switch req.Kind {
		case entities.SectionVideos:
			_, err = day.AddVideo(req.Title, req.URL)
		case entities.SectionDsa:
			_, err = day.AddDsa(req.Title, req.Link, req.Platform, req.Difficulty, req.Notes)
		case entities.SectionDev:
			_, err = day.AddDev(req.Title, req.Link)
		default:
			err = entities.ErrInvalidSection
		}
		return err
	})
}

// ToggleItem flips an item's done state.
func (b *BoardSession) ToggleItem(date string, kind entities.SectionKind, itemID string) (entities.DayGoal, <-chan error, error) {
	return b.mutate(date, func(day *entities.DayGoal) error {
		return day.ToggleItem(kind, itemID, time.Now())
	})
}

// RemoveItem deletes an item from a section.
func (b *BoardSession) RemoveItem(date string, kind entities.SectionKind, itemID string) (entities.DayGoal, <-chan error, error) {
	return b.mutate(date, func(day *entities.DayGoal) error {
		return day.RemoveItem(kind, itemID)
	})
}

// UpdateDsaItem applies a partial update to a DSA item.
func (b *BoardSession) UpdateDsaItem(date, itemID string, req ports.UpdateDsaItemRequest) (entities.DayGoal, <-chan error, error) {
	return b.mutate(date, func(day *entities.DayGoal) error {
		return day.UpdateDsaItem(itemID, entities.DsaItemUpdate{
			Title:            req.Title,
			Link:             req.Link,
			Platform:         req.Platform,
			Difficulty:       req.Difficulty,
			Notes:            req.Notes,
			TimeSpentMinutes: req.TimeSpentMinutes,
		})
	})
}

// AddSubtask appends a subtask to a dev item.
func (b *BoardSession) AddSubtask(date, itemID, title string) (entities.DayGoal, <-chan error, error) {
	return b.mutate(date, func(day *entities.DayGoal) error {
		_, err := day.AddSubtask(itemID, title)
		return err
	})
}

// ToggleSubtask flips a subtask and recomputes its parent's done state.
func (b *BoardSession) ToggleSubtask(date, itemID, subtaskID string) (entities.DayGoal, <-chan error, error) {
	return b.mutate(date, func(day *entities.DayGoal) error {
		return day.ToggleSubtask(itemID, subtaskID, time.Now())
	})
}

// RemoveSubtask deletes a subtask from a dev item.
func (b *BoardSession) RemoveSubtask(date, itemID, subtaskID string) (entities.DayGoal, <-chan error, error) {
	return b.mutate(date, func(day *entities.DayGoal) error {
		return day.RemoveSubtask(itemID, subtaskID, time.Now())
	})
}

// AddHabit appends a custom habit to the day.
func (b *BoardSession) AddHabit(date, title, icon string) (entities.DayGoal, <-chan error, error) {
	return b.mutate(date, func(day *entities.DayGoal) error {
		_, err := day.AddHabit(title, icon)
		return err
	})
}

// ToggleHabit flips a habit's done state.
func (b *BoardSession) ToggleHabit(date, habitID string) (entities.DayGoal, <-chan error, error) {
	return b.mutate(date, func(day *entities.DayGoal) error {
		return day.ToggleHabit(habitID, time.Now())
	})
}

// RemoveHabit deletes a habit from the day.
func (b *BoardSession) RemoveHabit(date, habitID string) (entities.DayGoal, <-chan error, error) {
	return b.mutate(date, func(day *entities.DayGoal) error {
		return day.RemoveHabit(habitID)
	})
}

// UpdateNotes replaces the day's notes in the cache and schedules a
// debounced background write. Rapid edits collapse into one sync.
func (b *BoardSession) UpdateNotes(date, notes string) (entities.DayGoal, error) {
	if _, err := dates.ParseKey(date); err != nil {
		return entities.DayGoal{}, entities.ErrInvalidDateKey
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	day, ok := b.days[date]
	if ok {
		day = day.Clone()
	} else {
		day = entities.NewDayGoal(date)
	}
	day.Notes = notes
	b.days[date] = day

	if timer, ok := b.notesTimers[date]; ok {
		timer.Stop()
	}
	b.notesTimers[date] = time.AfterFunc(notesDebounceDelay, func() {
		b.flushNotes(date)
	})

	return day.Clone(), nil
}

// FlushNotes persists the day's notes immediately, cancelling any
// pending debounce.
func (b *BoardSession) FlushNotes(ctx context.Context, date string) error {
	if _, err := dates.ParseKey(date); err != nil {
		return entities.ErrInvalidDateKey
	}

	b.mu.Lock()
	if timer, ok := b.notesTimers[date]; ok {
		timer.Stop()
		delete(b.notesTimers, date)
	}
	day, ok := b.days[date]
	if ok {
		day = day.Clone()
	}
	b.mu.Unlock()

	if !ok {
		return nil
	}

	err := b.repo.UpsertDay(ctx, b.slug, date, day)

	b.mu.Lock()
	b.lastSyncErr = err
	b.mu.Unlock()

	if err != nil {
		b.logger.LogSyncFailure(b.slug, date, err)
		return fmt.Errorf("flush notes for %s: %w", date, err)
	}
	return nil
}

func (b *BoardSession) flushNotes(date string) {
	b.mu.Lock()
	delete(b.notesTimers, date)
	day, ok := b.days[date]
	if ok {
		day = day.Clone()
	}
	b.mu.Unlock()

	if !ok {
		return
	}
	<-b.persist(date, day)
}

// AddNoteFile uploads an attachment and records it on the day. The
// upload happens first; a failed upload leaves the day untouched.
func (b *BoardSession) AddNoteFile(ctx context.Context, date, filename, contentType string, content io.Reader) (entities.DayGoal, <-chan error, error) {
	if _, err := dates.ParseKey(date); err != nil {
		return entities.DayGoal{}, nil, entities.ErrInvalidDateKey
	}

	stored, err := b.files.Upload(ctx, b.slug, date, filename, contentType, content)
	if err != nil {
		return entities.DayGoal{}, nil, fmt.Errorf("upload note file: %w", err)
	}

	return b.mutate(date, func(day *entities.DayGoal) error {
		day.AddNoteFile(entities.NoteFile{
			ID:         stored.Path,
			Name:       filename,
			URL:        stored.URL,
			Type:       contentType,
			UploadedAt: time.Now(),
		})
		return nil
	})
}

// RemoveNoteFile drops the attachment record and then deletes the
// stored object best-effort. A failed object delete only logs; the
// record stays removed.
func (b *BoardSession) RemoveNoteFile(ctx context.Context, date, fileID string) (entities.DayGoal, <-chan error, error) {
	var removed entities.NoteFile

	day, done, err := b.mutate(date, func(day *entities.DayGoal) error {
		f, err := day.RemoveNoteFile(fileID)
		if err != nil {
			return err
		}
		removed = f
		return nil
	})
	if err != nil {
		return entities.DayGoal{}, nil, err
	}

	if err := b.files.Delete(ctx, removed.ID); err != nil {
		b.logger.WithError(err).Warnw("Note file delete failed", "date", date, "file_id", removed.ID)
	}

	return day, done, nil
}

// Close flushes every pending notes debounce synchronously.
func (b *BoardSession) Close(ctx context.Context) error {
	b.mu.Lock()
	pending := make([]string, 0, len(b.notesTimers))
	for date, timer := range b.notesTimers {
		timer.Stop()
		pending = append(pending, date)
	}
	b.notesTimers = make(map[string]*time.Timer)
	b.mu.Unlock()

	var firstErr error
	for _, date := range pending {
		if err := b.FlushNotes(ctx, date); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
