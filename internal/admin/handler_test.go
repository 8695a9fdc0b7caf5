package admin

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"travel/internal/schedule"
	"travel/internal/web"
	"travel/pkg/apiclient"
	"travel/pkg/logger"
	"travel/pkg/notify"
	"travel/pkg/validate"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterIDs struct{ n atomic.Int64 }

func (c *counterIDs) GenerateID() int64      { return c.n.Add(1) }
func (c *counterIDs) GenerateString() string { return "s" + strconv.FormatInt(c.n.Add(1), 10) }

// backendStub answers the few backend endpoints the admin routes hit.
type backendStub struct {
	mu       sync.Mutex
	requests []string
	authz    []string
}

func (b *backendStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.requests = append(b.requests, r.Method+" "+r.URL.Path)
	b.authz = append(b.authz, r.Header.Get("Authorization"))
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/airlines":
		_, _ = w.Write([]byte(`{"content":[{"id":"a1","name":"Vietnam Airlines","code":"VN"}],"totalElements":1,"totalPages":1,"number":0,"size":10}`))
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/airlines":
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"a2","name":"Vietjet","code":"VJ"}`))
	case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/airlines/a1":
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Airline has active flights"}`))
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/api/v1/amenities/"):
		if strings.Contains(r.URL.Path, "bad") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Amenity not found"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/amenities":
		_, _ = w.Write([]byte(`{"content":[],"totalElements":0,"totalPages":0,"number":0,"size":10}`))
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/flight-schedules":
		_, _ = w.Write([]byte(`{"content":[],"totalElements":0,"totalPages":0,"number":0,"size":10}`))
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/flight-schedules":
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"s1","flightId":"f1","aircraftId":"ac1"}`))
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/payments/p1/saga-logs":
		_, _ = w.Write([]byte(`[{"id":"l1","sagaId":"s1","step":"RESERVE","status":"DONE"}]`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	}
}

func (b *backendStub) seen(req string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r == req {
			n++
		}
	}
	return n
}

type harness struct {
	router  *gin.Engine
	backend *backendStub
	feed    *notify.Feed
}

func newHarness(t *testing.T, identity web.IdentityFunc) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := &backendStub{}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	signer, err := apiclient.NewTokenSigner("secret", "portal", time.Minute)
	require.NoError(t, err)
	svc := apiclient.NewServices(apiclient.NewClient(srv.Client(), srv.URL, signer, logger.Nop()))

	ids := &counterIDs{}
	feed := notify.NewFeed(ids, logger.Nop(), time.Hour)
	t.Cleanup(feed.Cleanup)
	backends := Backends{Services: svc, Schedules: schedule.NewService(svc.Schedules, validate.New(), logger.Nop())}
	ws := NewWorkspaces(backends, validate.New(), feed, logger.Nop(), time.Hour)
	t.Cleanup(ws.Cleanup)

	r := gin.New()
	NewHandler(ws, web.NewBrowserSessions(false), identity).RegisterRoutes(r)
	return &harness{router: r, backend: backend, feed: feed}
}

func admin(*gin.Context) (string, bool) { return "admin-7", true }

func (h *harness) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: web.BrowserCookie, Value: "browser-1"})
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestHandlerRequiresIdentity(t *testing.T) {
	h := newHarness(t, web.Anonymous)

	w := h.do(http.MethodGet, "/v1/admin/airlines", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, h.backend.seen("GET /api/v1/airlines"))
}

func TestHandlerListSignsActor(t *testing.T) {
	h := newHarness(t, admin)

	w := h.do(http.MethodGet, "/v1/admin/airlines?search=VN&page=0&size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view View[apiclient.Airline]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, "VN", view.Items[0].Code)
	assert.True(t, strings.HasPrefix(h.backend.authz[0], "Bearer "))
}

func TestHandlerCreateValidation(t *testing.T) {
	h := newHarness(t, admin)

	w := h.do(http.MethodPost, "/v1/admin/airlines", gin.H{"name": "Solo", "code": "v"})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"validation failed","fields":{"code":"must be a 2-character IATA code"}}`, w.Body.String())
	assert.Zero(t, h.backend.seen("POST /api/v1/airlines"))
}

func TestHandlerCreateReloads(t *testing.T) {
	h := newHarness(t, admin)

	w := h.do(http.MethodPost, "/v1/admin/airlines", gin.H{"name": "Vietjet", "code": "vj"})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, h.backend.seen("GET /api/v1/airlines"))
	notes := h.feed.List("browser-1")
	require.Len(t, notes, 1)
	assert.Equal(t, "Airline created successfully", notes[0].Message)
}

func TestHandlerDeleteFailure(t *testing.T) {
	h := newHarness(t, admin)

	w := h.do(http.MethodDelete, "/v1/admin/airlines/a1", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"Airline has active flights"}`, w.Body.String())
	assert.Zero(t, h.backend.seen("GET /api/v1/airlines"))
	notes := h.feed.List("browser-1")
	require.Len(t, notes, 1)
	assert.Equal(t, notify.LevelError, notes[0].Level)
}

func TestHandlerBulkAmenityStatus(t *testing.T) {
	h := newHarness(t, admin)

	w := h.do(http.MethodPost, "/v1/admin/amenities/bulk-status", gin.H{"ids": []string{"m1", "bad", "m3"}, "active": true})
	require.Equal(t, http.StatusOK, w.Code)

	var res BulkResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.ElementsMatch(t, []string{"m1", "m3"}, res.Succeeded)
	assert.Equal(t, "Amenity not found", res.Failed["bad"])
	assert.Equal(t, 1, h.backend.seen("GET /api/v1/amenities"))

	notes := h.feed.List("browser-1")
	require.Len(t, notes, 1)
	assert.Equal(t, "1 of 3 amenities could not be activated", notes[0].Message)
}

func TestHandlerReadOnlyPayments(t *testing.T) {
	h := newHarness(t, admin)

	w := h.do(http.MethodPost, "/v1/admin/payments", gin.H{})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodGet, "/v1/admin/payments/p1/saga-logs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var logs []apiclient.SagaLog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "RESERVE", logs[0].Step)
}

func TestHandlerSagaLogsFailureNotifies(t *testing.T) {
	h := newHarness(t, admin)

	w := h.do(http.MethodGet, "/v1/admin/payments/p404/saga-logs", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	notes := h.feed.List("browser-1")
	require.Len(t, notes, 1)
	assert.Equal(t, notify.LevelError, notes[0].Level)
	assert.Equal(t, "not found", notes[0].Message)
}

func TestHandlerScheduleCreateReloads(t *testing.T) {
	h := newHarness(t, admin)
	dep := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Minute)

	w := h.do(http.MethodPost, "/v1/admin/schedules", gin.H{
		"flightId":      " f1 ",
		"aircraftId":    "ac1",
		"departureTime": dep,
		"arrivalTime":   dep.Add(2 * time.Hour),
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, h.backend.seen("POST /api/v1/flight-schedules"))
	assert.Equal(t, 1, h.backend.seen("GET /api/v1/flight-schedules"))
	notes := h.feed.List("browser-1")
	require.Len(t, notes, 1)
	assert.Equal(t, "Schedule created successfully", notes[0].Message)
}

func TestHandlerScheduleRuleViolation(t *testing.T) {
	h := newHarness(t, admin)
	dep := time.Now().Add(48 * time.Hour).UTC()

	w := h.do(http.MethodPost, "/v1/admin/schedules", gin.H{
		"flightId":      "f1",
		"aircraftId":    "ac1",
		"departureTime": dep,
		"arrivalTime":   dep.Add(5 * time.Minute),
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "duration must be at least 30 minutes")
	assert.Zero(t, h.backend.seen("POST /api/v1/flight-schedules"))
	assert.Empty(t, h.feed.List("browser-1"))
}

func TestListParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/admin/partners?search=acme&page=2&size=500&type=HOTEL&status=", nil)

	p := listParams(c)

	assert.Equal(t, "acme", p.Search)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, apiclient.DefaultPageSize, p.Size)
	assert.Equal(t, map[string]string{"type": "HOTEL"}, p.Filters)
}

func TestWorkspacesEvictIdle(t *testing.T) {
	ids := &counterIDs{}
	feed := notify.NewFeed(ids, logger.Nop(), time.Hour)
	defer feed.Cleanup()
	ws := NewWorkspaces(Backends{Services: &apiclient.Services{}}, validate.New(), feed, logger.Nop(), time.Minute)
	defer ws.Cleanup()

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	ws.now = func() time.Time { return now }

	first := ws.Get("a")
	assert.Same(t, first, ws.Get("a"))
	ws.Get("b")

	now = now.Add(30 * time.Second)
	ws.Get("b")
	ws.removeIdle(now.Add(45 * time.Second))

	assert.Equal(t, 1, ws.Len())
	assert.NotSame(t, first, ws.Get("a"))
}
