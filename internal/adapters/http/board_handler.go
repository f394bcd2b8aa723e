package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goalboard/core/internal/application/services"
	"github.com/goalboard/core/internal/domain/analytics"
	"github.com/goalboard/core/internal/domain/entities"
	"github.com/goalboard/core/internal/infrastructure/logger"
	"github.com/goalboard/core/internal/ports"
)

// MessageResponse is a simple message payload
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateBoardResponse returns the slug of a freshly minted board
type CreateBoardResponse struct {
	Slug string `json:"slug"`
}

// DayResponse wraps a day along with the session's sync health
type DayResponse struct {
	Day       entities.DayGoal `json:"day"`
	IsPast    bool             `json:"isPast"`
	SyncError string           `json:"syncError,omitempty"`
}

// BoardHandler handles board and day-goal requests
type BoardHandler struct {
	goalService *services.GoalService
	logger      *logger.Logger
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(goalService *services.GoalService, logger *logger.Logger) *BoardHandler {
	return &BoardHandler{
		goalService: goalService,
		logger:      logger,
	}
}

// statusForError maps domain errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, entities.ErrItemNotFound),
		errors.Is(err, entities.ErrSubtaskNotFound),
		errors.Is(err, entities.ErrHabitNotFound),
		errors.Is(err, entities.ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrSessionNotOpen):
		return http.StatusConflict
	case errors.Is(err, entities.ErrInvalidSection),
		errors.Is(err, entities.ErrInvalidDateKey),
		errors.Is(err, entities.ErrEmptyTitle):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrBoardLoadFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func domainError(err error) *echo.HTTPError {
	return echo.NewHTTPError(statusForError(err), err.Error())
}

func (h *BoardHandler) session(c echo.Context) (*services.BoardSession, error) {
	sess, err := h.goalService.Session(c.Param("slug"))
	if err != nil {
		return nil, domainError(err)
	}
	return sess, nil
}

func (h *BoardHandler) dayResponse(sess *services.BoardSession, day entities.DayGoal) DayResponse {
	resp := DayResponse{
		Day:    day,
		IsPast: analytics.IsPastDate(day.Date),
	}
	if err := sess.SyncError(); err != nil {
		resp.SyncError = err.Error()
	}
	return resp
}

// CreateBoard mints a new board slug
func (h *BoardHandler) CreateBoard(c echo.Context) error {
	slug, err := services.NewBoardSlug()
	if err != nil {
		h.logger.Error("Create board failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not create board")
	}

	return c.JSON(http.StatusCreated, CreateBoardResponse{Slug: slug})
}

// OpenBoard loads a board into a session and returns its full history
func (h *BoardHandler) OpenBoard(c echo.Context) error {
	slug := c.Param("slug")

	sess, err := h.goalService.OpenBoard(c.Request().Context(), slug)
	if err != nil {
		h.logger.Error("Open board failed", "error", err, "board", slug)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, sess.Goals())
}

// CloseBoard flushes and drops a board session
func (h *BoardHandler) CloseBoard(c echo.Context) error {
	slug := c.Param("slug")

	if err := h.goalService.CloseBoard(c.Request().Context(), slug); err != nil {
		h.logger.Error("Close board failed", "error", err, "board", slug)
		return echo.NewHTTPError(http.StatusInternalServerError, "Close failed")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Board closed"})
}

// GetDays returns a board's full goal history
func (h *BoardHandler) GetDays(c echo.Context) error {
	goals, err := h.goalService.GoalsFor(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, goals)
}

// GetDay returns one day, defaulted if never touched
func (h *BoardHandler) GetDay(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	day, derr := sess.Day(c.Param("date"))
	if derr != nil {
		return domainError(derr)
	}

	return c.JSON(http.StatusOK, h.dayResponse(sess, day))
}

// AddItem creates an item in one of the day's sections
func (h *BoardHandler) AddItem(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	var req ports.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	day, _, derr := sess.AddItem(c.Param("date"), req)
	if derr != nil {
		return domainError(derr)
	}

	return c.JSON(http.StatusCreated, h.dayResponse(sess, day))
}

func sectionParam(c echo.Context) (entities.SectionKind, error) {
	kind := entities.SectionKind(c.Param("kind"))
	if !kind.IsValid() {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid section")
	}
	return kind, nil
}

// ToggleItem flips an item's done state
func (h *BoardHandler) ToggleItem(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	kind, err := sectionParam(c)
	if err != nil {
		return err
	}

	day, _, derr := sess.ToggleItem(c.Param("date"), kind, c.Param("id"))
	if derr != nil {
		return domainError(derr)
	}

	return c.JSON(http.StatusOK, h.dayResponse(sess, day))
}

// RemoveItem deletes an item
func (h *BoardHandler) RemoveItem(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	kind, err := sectionParam(c)
	if err != nil {
		return err
	}

	day, _, derr := sess.RemoveItem(c.Param("date"), kind, c.Param("id"))
	if derr != nil {
		return domainError(derr)
	}

	return c.JSON(http.StatusOK, h.dayResponse(sess, day))
}

// UpdateDsaItem partially updates a DSA item
func (h *BoardHandler) UpdateDsaItem(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	var req ports.UpdateDsaItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	day, _, derr := sess.UpdateDsaItem(c.Param("date"), c.Param("id"), req)
	if derr != nil {
		return domainError(derr)
	}

	return c.JSON(http.StatusOK, h.dayResponse(sess, day))
}

// AddSubtask appends a subtask to a dev item
func (h *BoardHandler) AddSubtask(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	var req ports.AddSubtaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	day, _, derr := sess.AddSubtask(c.Param("date"), c.Param("id"), req.Title)
	if derr != nil {
		return domainError(derr)
	}

	return c.JSON(http.StatusCreated, h.dayResponse(sess, day))
}

// ToggleSubtask flips a subtask's done state
func (h *BoardHandler) ToggleSubtask(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	day, _, derr := sess.ToggleSubtask(c.Param("date"), c.Param("id"), c.Param("subtaskId"))
	if derr != nil {
		return domainError(derr)
	}

	return c.JSON(http.StatusOK, h.dayResponse(sess, day))
}

// RemoveSubtask deletes a subtask
func (h *BoardHandler) RemoveSubtask(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	day, _, derr := sess.RemoveSubtask(c.Param("date"), c.Param("id"), c.Param("subtaskId"))
	if derr != nil {
		return domainError(derr)
	}

	return c.JSON(http.StatusOK, h.dayResponse(sess, day))
}

// AddHabit appends a custom habit
func (h *BoardHandler) AddHabit(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	var req ports.AddHabitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	day, _, derr := sess.AddHabit(c.Param("date"), req.Title, req.Icon)
	if derr != nil {
		return domainError(derr)
	}

	return c.JSON(http.StatusCreated, h.dayResponse(sess, day))
}

// ToggleHabit flips a habit's done state
func (h *BoardHandler) ToggleHabit(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	day, _, derr := sess.ToggleHabit(c.Param("date"), c.Param("id"))
	if derr != nil {
		return domainError(derr)
	}

	return c.JSON(http.StatusOK, h.dayResponse(sess, day))
}

// RemoveHabit deletes a habit
func (h *BoardHandler) RemoveHabit(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	day, _, derr := sess.RemoveHabit(c.Param("date"), c.Param("id"))
	if derr != nil {
		return domainError(derr)
	}

	return c.JSON(http.StatusOK, h.dayResponse(sess, day))
}

// UpdateNotes replaces the day's notes with a debounced sync
func (h *BoardHandler) UpdateNotes(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	var req ports.UpdateNotesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	day, derr := sess.UpdateNotes(c.Param("date"), req.Notes)
	if derr != nil {
		return domainError(derr)
	}

	return c.JSON(http.StatusOK, h.dayResponse(sess, day))
}

// FlushNotes persists pending notes immediately
func (h *BoardHandler) FlushNotes(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	if derr := sess.FlushNotes(c.Request().Context(), c.Param("date")); derr != nil {
		h.logger.Error("Flush notes failed", "error", derr, "board", c.Param("slug"))
		return domainError(derr)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Notes synced"})
}

// UploadNoteFile attaches a multipart file to the day's notes
func (h *BoardHandler) UploadNoteFile(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing file field")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unreadable file")
	}
	defer src.Close()

	day, _, derr := sess.AddNoteFile(
		c.Request().Context(),
		c.Param("date"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		src,
	)
	if derr != nil {
		h.logger.Error("Upload note file failed", "error", derr, "board", c.Param("slug"))
		return domainError(derr)
	}

	return c.JSON(http.StatusCreated, h.dayResponse(sess, day))
}

// RemoveNoteFile detaches a file record and deletes the stored object.
// The file ID is a storage path with slashes, so it travels as a query
// parameter rather than a path segment.
func (h *BoardHandler) RemoveNoteFile(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	fileID := c.QueryParam("id")
	if fileID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing file id")
	}

	day, _, derr := sess.RemoveNoteFile(c.Request().Context(), c.Param("date"), fileID)
	if derr != nil {
		return domainError(derr)
	}

	return c.JSON(http.StatusOK, h.dayResponse(sess, day))
}
