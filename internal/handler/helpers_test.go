package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/educare-hub/internal/middleware"
	"github.com/iliyamo/educare-hub/internal/model"
	"github.com/iliyamo/educare-hub/internal/queue"
	"github.com/iliyamo/educare-hub/internal/repository"
)

const testTimeout = time.Second

var errDown = errors.New("server selection timeout")

// downStore fails every call it overrides.  Calls it does not override
// panic, which keeps tests honest about what a handler touches.
type downStore struct{ repository.Store }

func (downStore) ListCourses(context.Context, repository.CourseQuery) ([]model.Course, error) {
	return nil, errDown
}
func (downStore) CountCourses(context.Context, repository.CourseFilter) (int64, error) {
	return 0, errDown
}
func (downStore) GetCourse(context.Context, string) (model.Course, error) {
	return model.Course{}, errDown
}
func (downStore) ListUsers(context.Context) ([]model.User, error) { return nil, errDown }
func (downStore) Ping(context.Context) error                      { return errDown }

// recorder captures published events.
type recorder struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
}

func (r *recorder) Publish(_ context.Context, ev queue.ActivityEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

type call struct {
	method string
	target string
	body   string
	params map[string]string // path parameters
	email  string
	role   string
}

func (tc call) do(t *testing.T, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if tc.body != "" {
		req = httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(tc.method, tc.target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(tc.params) > 0 {
		names := make([]string, 0, len(tc.params))
		values := make([]string, 0, len(tc.params))
		for name, value := range tc.params {
			names = append(names, name)
			values = append(values, value)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if tc.email != "" {
		c.Set(middleware.ContextEmail, tc.email)
	}
	if tc.role != "" {
		c.Set(middleware.ContextRole, tc.role)
	}
	require.NoError(t, h(c))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}
