package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalboard/core/internal/application/services"
	"github.com/goalboard/core/internal/domain/entities"
	"github.com/goalboard/core/internal/infrastructure/config"
	"github.com/goalboard/core/internal/infrastructure/logger"
	"github.com/goalboard/core/internal/ports"
)

type memoryRepo struct {
	mu   sync.Mutex
	days map[string]entities.DayGoal
}

func (r *memoryRepo) FetchAllDays(ctx context.Context, slug string) (entities.GoalsByDate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	goals := make(entities.GoalsByDate)
	for key, day := range r.days {
		if strings.HasPrefix(key, slug+"/") {
			goals[day.Date] = day.Clone()
		}
	}
	return goals, nil
}

func (r *memoryRepo) UpsertDay(ctx context.Context, slug, date string, day entities.DayGoal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.days[slug+"/"+date] = day.Clone()
	return nil
}

type nullFileStore struct{}

func (nullFileStore) Upload(ctx context.Context, slug, date, filename, contentType string, content io.Reader) (ports.StoredFile, error) {
	path := slug + "/" + date + "/1-" + filename
	return ports.StoredFile{Path: path, URL: "http://files.local/" + path}, nil
}

func (nullFileStore) Delete(ctx context.Context, path string) error { return nil }

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestHandler(t *testing.T) (*BoardHandler, *echo.Echo) {
	t.Helper()

	log, err := logger.New(config.LoggerConfig{Level: "error", Format: "json", Output: "stdout"})
	require.NoError(t, err)

	repo := &memoryRepo{days: make(map[string]entities.DayGoal)}
	svc := services.NewGoalService(repo, nullFileStore{}, log)

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	return NewBoardHandler(svc, log), e
}

func doRequest(e *echo.Echo, h echo.HandlerFunc, method, body string, names []string, values []string) (*httptest.ResponseRecorder, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/", reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return rec, h(c)
}

func TestGetDayRequiresOpenSession(t *testing.T) {
	h, e := newTestHandler(t)

	_, err := doRequest(e, h.GetDay, http.MethodGet, "",
		[]string{"slug", "date"}, []string{"my-board", "2024-03-01"})

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestAddItemFlow(t *testing.T) {
	h, e := newTestHandler(t)

	_, err := h.goalService.OpenBoard(context.Background(), "my-board")
	require.NoError(t, err)

	rec, err := doRequest(e, h.AddItem, http.MethodPost,
		`{"kind":"videos","title":"Watch scheduler internals"}`,
		[]string{"slug", "date"}, []string{"my-board", "2024-03-01"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp DayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Day.Videos, 1)
	assert.Equal(t, "Watch scheduler internals", resp.Day.Videos[0].Title)

	// Toggle it done through the handler
	rec, err = doRequest(e, h.ToggleItem, http.MethodPost, "",
		[]string{"slug", "date", "kind", "id"},
		[]string{"my-board", "2024-03-01", "videos", resp.Day.Videos[0].ID})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Day.Videos[0].Done)
}

func TestAddItemValidation(t *testing.T) {
	h, e := newTestHandler(t)

	_, err := h.goalService.OpenBoard(context.Background(), "my-board")
	require.NoError(t, err)

	_, err = doRequest(e, h.AddItem, http.MethodPost,
		`{"kind":"videos","title":""}`,
		[]string{"slug", "date"}, []string{"my-board", "2024-03-01"})

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestToggleUnknownItem(t *testing.T) {
	h, e := newTestHandler(t)

	_, err := h.goalService.OpenBoard(context.Background(), "my-board")
	require.NoError(t, err)

	_, err = doRequest(e, h.ToggleItem, http.MethodPost, "",
		[]string{"slug", "date", "kind", "id"},
		[]string{"my-board", "2024-03-01", "dsa", "missing"})

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestInvalidSectionParam(t *testing.T) {
	h, e := newTestHandler(t)

	_, err := h.goalService.OpenBoard(context.Background(), "my-board")
	require.NoError(t, err)

	_, err = doRequest(e, h.ToggleItem, http.MethodPost, "",
		[]string{"slug", "date", "kind", "id"},
		[]string{"my-board", "2024-03-01", "chores", "x"})

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestUpdateNotesAndGetDay(t *testing.T) {
	h, e := newTestHandler(t)

	_, err := h.goalService.OpenBoard(context.Background(), "my-board")
	require.NoError(t, err)

	rec, err := doRequest(e, h.UpdateNotes, http.MethodPut,
		`{"notes":"reviewed graph algorithms"}`,
		[]string{"slug", "date"}, []string{"my-board", "2024-03-01"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, err = doRequest(e, h.GetDay, http.MethodGet, "",
		[]string{"slug", "date"}, []string{"my-board", "2024-03-01"})
	require.NoError(t, err)

	var resp DayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "reviewed graph algorithms", resp.Day.Notes)
}
