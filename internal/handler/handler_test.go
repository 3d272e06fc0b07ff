package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Leganyst/dj-booking/internal/db/dbtest"
	"github.com/Leganyst/dj-booking/internal/model"
	"github.com/Leganyst/dj-booking/internal/notify"
	"github.com/Leganyst/dj-booking/internal/repository"
	"github.com/Leganyst/dj-booking/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubNotifier struct{ sent bool }

func (s stubNotifier) NotifyBookingCreated(context.Context, notify.BookingContext) notify.Result {
	return notify.Result{Sent: s.sent}
}

func (s stubNotifier) NotifyBookingStatusChanged(context.Context, notify.BookingContext, model.BookingStatus) notify.Result {
	return notify.Result{Sent: s.sent}
}

func (s stubNotifier) NotifyContactMessage(context.Context, notify.ContactMessage) notify.Result {
	return notify.Result{Sent: s.sent}
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("db down") }

func newRouter(t *testing.T, sent bool) (*gin.Engine, *repository.GormStore) {
	t.Helper()
	gdb := dbtest.Open(t)
	_, err := model.SeedServices(gdb)
	require.NoError(t, err)

	store := repository.NewGormStore(gdb)
	n := stubNotifier{sent: sent}
	log := zap.NewNop()
	now := func() time.Time { return time.Date(2030, 3, 1, 10, 0, 0, 0, time.UTC) }

	h := New(Deps{
		Bookings:     service.NewBookingService(store, n, log, service.Options{Now: now}),
		Availability: service.NewAvailabilityChecker(store, nil),
		Contact:      service.NewContactService(n, log),
		Catalog:      service.NewCatalogService(store, log),
		Gigs:         service.NewGigService(store, log),
		Store:        store,
		ServiceName:  "test-api",
	}, log)

	r := gin.New()
	h.Register(r)
	return r, store
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func janBooking() map[string]any {
	return map[string]any{
		"name":       "Jan Kowalski",
		"email":      "jan@example.com",
		"phone":      "+48111222333",
		"event_type": "club",
		"event_date": "2030-03-15",
		"event_time": "21:00",
		"venue_name": "Klub X",
	}
}

func TestBookEvent_JanKowalskiScenario(t *testing.T) {
	r, _ := newRouter(t, true)

	w, body := do(t, r, http.MethodPost, "/api/book-event", janBooking())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["email_sent"])
	assert.NotEmpty(t, body["booking_id"])

	data := body["booking_data"].(map[string]any)
	assert.Equal(t, "Club - Klub X", data["event_title"])
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "2030-03-15", data["event_date"])
	assert.Equal(t, float64(4), data["duration"])

	_, avail := do(t, r, http.MethodPost, "/check-availability", map[string]string{"date": "2030-03-15"})
	assert.Equal(t, false, avail["available"])
	assert.Equal(t, "Termin zajęty", avail["message"])

	w, body = do(t, r, http.MethodPost, "/book-event", janBooking())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "CONFLICT", body["code"])
	assert.Equal(t, "date already booked", body["error"])
}

func TestBookEvent_Validation(t *testing.T) {
	r, _ := newRouter(t, true)

	req := janBooking()
	delete(req, "venue_name")
	w, body := do(t, r, http.MethodPost, "/book-event", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Equal(t, []any{"venue_name"}, body["missing_fields"])

	req = janBooking()
	req["email"] = "jan"
	_, body = do(t, r, http.MethodPost, "/book-event", req)
	assert.Equal(t, "invalid email format", body["error"])

	req = janBooking()
	req["event_date"] = "2030-02-28"
	_, body = do(t, r, http.MethodPost, "/book-event", req)
	assert.Equal(t, "cannot book in the past", body["error"])
}

func TestBookEvent_MalformedBody(t *testing.T) {
	r, _ := newRouter(t, true)

	req := httptest.NewRequest(http.MethodPost, "/book-event", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublic_EmptyBodyReportsMissingFields(t *testing.T) {
	r, _ := newRouter(t, true)

	w, body := do(t, r, http.MethodPost, "/book-event", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Equal(t, []any{"name", "email", "phone", "event_type", "event_date", "event_time", "venue_name"}, body["missing_fields"])

	w, body = do(t, r, http.MethodPost, "/contact", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []any{"name", "email", "phone", "message"}, body["missing_fields"])

	w, body = do(t, r, http.MethodPost, "/check-availability", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []any{"date"}, body["missing_fields"])
}

func TestBookEvent_NotifierDown(t *testing.T) {
	r, _ := newRouter(t, false)

	w, body := do(t, r, http.MethodPost, "/book-event", janBooking())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, false, body["email_sent"])
}

func TestCheckAvailability(t *testing.T) {
	r, _ := newRouter(t, true)

	w, body := do(t, r, http.MethodPost, "/check-availability", map[string]string{"date": "2030-03-15"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["available"])
	assert.Equal(t, "Termin dostępny", body["message"])

	w, body = do(t, r, http.MethodPost, "/check-availability", map[string]string{"date": "15-03-2030"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid date format", body["error"])

	w, _ = do(t, r, http.MethodPost, "/check-availability", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContact(t *testing.T) {
	r, _ := newRouter(t, true)

	w, body := do(t, r, http.MethodPost, "/contact", map[string]string{
		"name": "Anna", "email": "anna@example.com", "phone": "1", "message": "hej",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["email_sent"])

	w, body = do(t, r, http.MethodPost, "/contact", map[string]string{"name": "Anna"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []any{"email", "phone", "message"}, body["missing_fields"])
}

func TestListServices(t *testing.T) {
	r, _ := newRouter(t, true)

	w, body := do(t, r, http.MethodGet, "/api/services", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	services := body["services"].([]any)
	assert.Len(t, services, len(model.DefaultServices()))
}

func TestAdmin_ApproveRejectFlow(t *testing.T) {
	r, _ := newRouter(t, true)

	_, created := do(t, r, http.MethodPost, "/book-event", janBooking())
	id := created["booking_id"].(string)

	w, body := do(t, r, http.MethodGet, "/bookings?status=pending", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["total"])

	w, body = do(t, r, http.MethodGet, "/bookings/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	booking := body["booking"].(map[string]any)
	assert.Equal(t, "jan@example.com", booking["customer"].(map[string]any)["email"])

	w, body = do(t, r, http.MethodPost, "/bookings/"+id+"/approve", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", body["booking"].(map[string]any)["status"])

	w, body = do(t, r, http.MethodPost, "/bookings/"+id+"/reject", map[string]string{"reason": "x"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid status transition: confirmed -> cancelled", body["error"])
}

func TestAdmin_RejectWithoutBody(t *testing.T) {
	r, _ := newRouter(t, true)

	_, created := do(t, r, http.MethodPost, "/book-event", janBooking())
	id := created["booking_id"].(string)

	req := httptest.NewRequest(http.MethodPost, "/bookings/"+id+"/reject", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdmin_BadAndUnknownIDs(t *testing.T) {
	r, _ := newRouter(t, true)

	w, _ := do(t, r, http.MethodGet, "/bookings/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := do(t, r, http.MethodPost, "/bookings/"+uuid.NewString()+"/approve", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])

	w, _ = do(t, r, http.MethodGet, "/bookings?page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookedDates(t *testing.T) {
	r, _ := newRouter(t, true)

	w, body := do(t, r, http.MethodGet, "/api/booked-dates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, body["dates"])

	w, _ = do(t, r, http.MethodPost, "/book-event", janBooking())
	require.Equal(t, http.StatusCreated, w.Code)

	w, body = do(t, r, http.MethodGet, "/booked-dates?from=2030-03-01&to=2030-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []any{"2030-03-15"}, body["dates"])

	w, body = do(t, r, http.MethodGet, "/booked-dates?from=2030-04-01&to=2030-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid date range", body["error"])
}

func TestEvents_CRUD(t *testing.T) {
	r, _ := newRouter(t, true)

	w, body := do(t, r, http.MethodPost, "/api/events", map[string]any{
		"name": "HAOS Night", "date": "2030-05-10", "time": "23:00", "venue": "Klub X", "city": "Gdańsk", "price": 40,
	})
	require.Equal(t, http.StatusCreated, w.Code, body)
	created := body["event"].(map[string]any)
	id := created["id"].(string)
	assert.Equal(t, "upcoming", created["status"])
	assert.Equal(t, "club", created["type"])
	assert.Equal(t, float64(40), created["price"])

	w, body = do(t, r, http.MethodGet, "/events", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, body["events"], 1)

	w, body = do(t, r, http.MethodPut, "/events/"+id, map[string]any{"status": "cancelled", "price": nil})
	require.Equal(t, http.StatusOK, w.Code, body)
	updated := body["event"].(map[string]any)
	assert.Equal(t, "cancelled", updated["status"])
	assert.Nil(t, updated["price"])
	assert.Equal(t, "Klub X", updated["venue"])

	w, body = do(t, r, http.MethodGet, "/events/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", body["event"].(map[string]any)["status"])

	w, body = do(t, r, http.MethodDelete, "/events/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Event deleted successfully", body["message"])

	w, body = do(t, r, http.MethodGet, "/events/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])

	w, _ = do(t, r, http.MethodDelete, "/events/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = do(t, r, http.MethodPost, "/events", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []any{"name", "date", "venue"}, body["missing_fields"])
}

func TestHealthAndReady(t *testing.T) {
	r, _ := newRouter(t, true)

	w, body := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test-api", body["service"])
	assert.NotEmpty(t, body["timestamp"])

	w, _ = do(t, r, http.MethodGet, "/api/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	h := New(Deps{Store: failingPinger{}}, zap.NewNop())
	down := gin.New()
	down.GET("/ready", h.Ready)
	w, body = do(t, down, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "not ready", body["status"])
}
