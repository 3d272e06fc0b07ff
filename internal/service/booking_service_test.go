package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/dj-booking/internal/db/dbtest"
	"github.com/Leganyst/dj-booking/internal/model"
	"github.com/Leganyst/dj-booking/internal/notify"
	"github.com/Leganyst/dj-booking/internal/repository"
)

type fakeNotifier struct {
	mu      sync.Mutex
	sent    bool
	created []notify.BookingContext
	changed []model.BookingStatus
	contact []notify.ContactMessage
}

func (f *fakeNotifier) NotifyBookingCreated(_ context.Context, bc notify.BookingContext) notify.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, bc)
	return notify.Result{Sent: f.sent}
}

func (f *fakeNotifier) NotifyBookingStatusChanged(_ context.Context, _ notify.BookingContext, status model.BookingStatus) notify.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changed = append(f.changed, status)
	return notify.Result{Sent: f.sent}
}

func (f *fakeNotifier) NotifyContactMessage(_ context.Context, msg notify.ContactMessage) notify.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contact = append(f.contact, msg)
	return notify.Result{Sent: f.sent}
}

var testNow = time.Date(2030, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	store    *repository.GormStore
	notifier *fakeNotifier
	svc      *BookingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.Open(t)
	store := repository.NewGormStore(gdb)
	n := &fakeNotifier{sent: true}
	svc := NewBookingService(store, n, zap.NewNop(), Options{
		Now: func() time.Time { return testNow },
	})
	return &fixture{db: gdb, store: store, notifier: n, svc: svc}
}

func janRequest() BookingRequest {
	return BookingRequest{
		Name:      "Jan Kowalski",
		Email:     "jan@example.com",
		Phone:     "+48111222333",
		EventType: "club",
		EventDate: "2030-03-15",
		EventTime: "21:00",
		VenueName: "Klub X",
	}
}

func TestSubmit_CreatesPendingBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Submit(ctx, janRequest())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.BookingID)
	assert.True(t, res.EmailSent)
	assert.Equal(t, "2030-03-15", res.Booking.EventDate)
	assert.Equal(t, "21:00", res.Booking.EventTime)
	assert.Equal(t, "Club - Klub X", res.Booking.EventTitle)
	assert.Equal(t, model.DefaultDurationHours, res.Booking.Duration)
	assert.Equal(t, "pending", res.Booking.Status)
	assert.Equal(t, "DJ Set - Club", res.Booking.Service)

	b, err := f.store.Repos().Bookings.GetByID(ctx, res.BookingID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPending, b.Status)
	assert.True(t, b.ConfirmationSent)
	assert.Equal(t, "email", b.PreferredContactMethod)
	assert.Equal(t, "Klub X", b.EventLocation)
	assert.Equal(t, model.DefaultCalendarPlatforms, []string(b.CalendarPlatforms))
	require.NotNil(t, b.Customer)
	assert.Equal(t, "Jan", b.Customer.FirstName)
	assert.Equal(t, "Kowalski", b.Customer.LastName)

	events, err := f.store.Repos().Events.ListByBooking(ctx, res.BookingID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventTypeBookingCreated, events[0].EventType)

	require.Len(t, f.notifier.created, 1)
	assert.Equal(t, res.BookingID, f.notifier.created[0].Booking.ID)
}

func TestSubmit_SecondBookingSameDateConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, janRequest())
	require.NoError(t, err)

	other := janRequest()
	other.Email = "anna@example.com"
	other.EventTime = "12:00"
	_, err = f.svc.Submit(ctx, other)

	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "date already booked", ce.Message)

	var count int64
	require.NoError(t, f.db.Model(&model.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubmit_CancelledBookingFreesDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Submit(ctx, janRequest())
	require.NoError(t, err)
	_, err = f.svc.Reject(ctx, res.BookingID, "")
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, janRequest())
	assert.NoError(t, err)
}

func TestSubmit_ValidationErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		mutate  func(r *BookingRequest)
		message string
		missing []string
	}{
		{
			name:    "missing venue",
			mutate:  func(r *BookingRequest) { r.VenueName = "" },
			message: "missing required fields: venue_name",
			missing: []string{"venue_name"},
		},
		{
			name:    "several missing in order",
			mutate:  func(r *BookingRequest) { r.Name = ""; r.EventTime = "  " },
			message: "missing required fields: name, event_time",
			missing: []string{"name", "event_time"},
		},
		{
			name:    "invalid email",
			mutate:  func(r *BookingRequest) { r.Email = "jan@example" },
			message: "invalid email format",
		},
		{
			name:    "bad date",
			mutate:  func(r *BookingRequest) { r.EventDate = "15.03.2030" },
			message: "invalid date or time format",
		},
		{
			name:    "bad time",
			mutate:  func(r *BookingRequest) { r.EventTime = "9pm" },
			message: "invalid date or time format",
		},
		{
			name:    "yesterday",
			mutate:  func(r *BookingRequest) { r.EventDate = "2030-02-28" },
			message: "cannot book in the past",
		},
		{
			name:    "duration out of range",
			mutate:  func(r *BookingRequest) { d := 25; r.Duration = &d },
			message: "duration must be between 1 and 24 hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := janRequest()
			tt.mutate(&req)

			_, err := f.svc.Submit(context.Background(), req)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.message, ve.Message)
			assert.Equal(t, tt.missing, ve.MissingFields)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&model.Booking{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmit_TodayIsAllowed(t *testing.T) {
	f := newFixture(t)
	req := janRequest()
	req.EventDate = "2030-03-01"

	_, err := f.svc.Submit(context.Background(), req)
	assert.NoError(t, err)
}

func TestSubmit_TodayUsesBusinessTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	gdb := dbtest.Open(t)
	store := repository.NewGormStore(gdb)
	// 23:30 UTC 1 марта = уже 2 марта в Варшаве
	svc := NewBookingService(store, &fakeNotifier{}, zap.NewNop(), Options{
		Location: loc,
		Now:      func() time.Time { return time.Date(2030, 3, 1, 23, 30, 0, 0, time.UTC) },
	})

	req := janRequest()
	req.EventDate = "2030-03-01"
	_, err = svc.Submit(context.Background(), req)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "cannot book in the past", ve.Message)
}

func TestSubmit_NotifierFailureKeepsBooking(t *testing.T) {
	f := newFixture(t)
	f.notifier.sent = false
	ctx := context.Background()

	res, err := f.svc.Submit(ctx, janRequest())
	require.NoError(t, err)
	assert.False(t, res.EmailSent)

	b, err := f.store.Repos().Bookings.GetByID(ctx, res.BookingID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPending, b.Status)
	assert.False(t, b.ConfirmationSent)
}

func TestSubmit_SameEmailReusesCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, janRequest())
	require.NoError(t, err)

	second := janRequest()
	second.EventDate = "2030-04-10"
	second.Name = "Janusz Nowak"
	second.Phone = "+48999888777"
	second.Company = "Nowak Sp. z o.o."
	_, err = f.svc.Submit(ctx, second)
	require.NoError(t, err)

	var customers []model.Customer
	require.NoError(t, f.db.Find(&customers).Error)
	require.Len(t, customers, 1)
	assert.Equal(t, "Janusz", customers[0].FirstName)
	assert.Equal(t, "Nowak", customers[0].LastName)
	assert.Equal(t, "+48999888777", customers[0].Phone)
	require.NotNil(t, customers[0].Company)
	assert.Equal(t, "Nowak Sp. z o.o.", *customers[0].Company)
}

// raceStore подменяет чтения так, будто параллельный запрос успел
// записать данные между проверкой и вставкой.
type raceStore struct {
	*repository.GormStore

	blindDates     bool
	customerMisses int
}

func (s *raceStore) wrap(r repository.Repositories) repository.Repositories {
	if s.blindDates {
		r.Bookings = blindBookings{r.Bookings}
	}
	r.Customers = &lateCustomers{CustomerRepository: r.Customers, misses: &s.customerMisses}
	return r
}

func (s *raceStore) Repos() repository.Repositories {
	return s.wrap(s.GormStore.Repos())
}

func (s *raceStore) Transaction(ctx context.Context, fn func(r repository.Repositories) error) error {
	return s.GormStore.Transaction(ctx, func(r repository.Repositories) error {
		return fn(s.wrap(r))
	})
}

type blindBookings struct {
	repository.BookingRepository
}

func (blindBookings) ExistsActiveOnDate(context.Context, datatypes.Date) (bool, error) {
	return false, nil
}

type lateCustomers struct {
	repository.CustomerRepository
	misses *int
}

func (c *lateCustomers) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	if *c.misses > 0 {
		*c.misses--
		return nil, repository.ErrNotFound
	}
	return c.CustomerRepository.FindByEmail(ctx, email)
}

func TestSubmit_UniqueIndexViolationIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, janRequest())
	require.NoError(t, err)

	racy := NewBookingService(&raceStore{GormStore: f.store, blindDates: true}, f.notifier, zap.NewNop(), Options{
		Now: func() time.Time { return testNow },
	})
	other := janRequest()
	other.Email = "anna@example.com"
	_, err = racy.Submit(ctx, other)

	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "date already booked", ce.Message)

	// транзакция откатилась вместе с новым клиентом
	var customers int64
	require.NoError(t, f.db.Model(&model.Customer{}).Count(&customers).Error)
	assert.Equal(t, int64(1), customers)
	var bookings int64
	require.NoError(t, f.db.Model(&model.Booking{}).Count(&bookings).Error)
	assert.Equal(t, int64(1), bookings)
}

func TestSubmit_RetriesWhenCustomerCreatedConcurrently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Repos().Customers.Create(ctx, &model.Customer{
		FirstName: "Jan", LastName: "Kowalski", Email: "jan@example.com", Phone: "+48000000000",
	}))

	racy := NewBookingService(&raceStore{GormStore: f.store, customerMisses: 1}, f.notifier, zap.NewNop(), Options{
		Now: func() time.Time { return testNow },
	})
	res, err := racy.Submit(ctx, janRequest())
	require.NoError(t, err)

	var customers []model.Customer
	require.NoError(t, f.db.Find(&customers).Error)
	require.Len(t, customers, 1)
	assert.Equal(t, "+48111222333", customers[0].Phone)

	b, err := f.store.Repos().Bookings.GetByID(ctx, res.BookingID)
	require.NoError(t, err)
	assert.Equal(t, customers[0].ID, b.CustomerID)
}

// cancelingNotifier отменяет контекст запроса перед рассылкой.
type cancelingNotifier struct {
	fakeNotifier
	cancel context.CancelFunc
	errs   []error
}

func (n *cancelingNotifier) NotifyBookingCreated(ctx context.Context, bc notify.BookingContext) notify.Result {
	n.cancel()
	n.errs = append(n.errs, ctx.Err())
	return n.fakeNotifier.NotifyBookingCreated(ctx, bc)
}

func (n *cancelingNotifier) NotifyBookingStatusChanged(ctx context.Context, bc notify.BookingContext, status model.BookingStatus) notify.Result {
	n.cancel()
	n.errs = append(n.errs, ctx.Err())
	return n.fakeNotifier.NotifyBookingStatusChanged(ctx, bc, status)
}

func TestSubmit_NotificationsOutliveRequestContext(t *testing.T) {
	f := newFixture(t)
	n := &cancelingNotifier{fakeNotifier: fakeNotifier{sent: true}}
	svc := NewBookingService(f.store, n, zap.NewNop(), Options{
		Now: func() time.Time { return testNow },
	})

	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel
	res, err := svc.Submit(ctx, janRequest())
	require.NoError(t, err)
	assert.True(t, res.EmailSent)

	b, err := f.store.Repos().Bookings.GetByID(context.Background(), res.BookingID)
	require.NoError(t, err)
	assert.True(t, b.ConfirmationSent)

	ctx, cancel = context.WithCancel(context.Background())
	n.cancel = cancel
	_, err = svc.Approve(ctx, res.BookingID)
	require.NoError(t, err)

	require.Len(t, n.errs, 2)
	for _, e := range n.errs {
		assert.NoError(t, e)
	}
}

func TestSubmit_UsesRequestedServiceAndLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := model.SeedServices(f.db)
	require.NoError(t, err)

	services, err := f.store.Repos().Services.ListActive(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, services)
	wanted := services[len(services)-1]

	req := janRequest()
	req.Service = wanted.Name
	req.VenueCity = "Kraków"
	req.VenueAddress = "ul. Długa 1"
	res, err := f.svc.Submit(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, wanted.Name, res.Booking.Service)

	b, err := f.store.Repos().Bookings.GetByID(ctx, res.BookingID)
	require.NoError(t, err)
	assert.Equal(t, "Klub X, Kraków", b.EventLocation)
	require.NotNil(t, b.Customer.City)
	assert.Equal(t, "Kraków", *b.Customer.City)
}

func TestSubmit_UnknownServiceFallsBackToFirstActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := model.SeedServices(f.db)
	require.NoError(t, err)

	first, err := f.store.Repos().Services.FirstActive(ctx)
	require.NoError(t, err)

	req := janRequest()
	req.Service = "Nie ma takiej"
	res, err := f.svc.Submit(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.Name, res.Booking.Service)
}

func TestSubmit_StorageFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = f.svc.Submit(context.Background(), janRequest())
	var ie *InternalError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "internal error, please try again later", err.Error())
	assert.Empty(t, f.notifier.created)
}

func TestApprove_PendingToConfirmed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Submit(ctx, janRequest())
	require.NoError(t, err)

	out, err := f.svc.Approve(ctx, res.BookingID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, out.Booking.Status)
	require.NotNil(t, out.Booking.ConfirmedAt)
	assert.True(t, out.EmailSent)
	assert.Equal(t, []model.BookingStatus{model.BookingStatusConfirmed}, f.notifier.changed)

	// confirmed по-прежнему держит дату
	ok, err := NewAvailabilityChecker(f.store, nil).IsDateAvailable(ctx, time.Date(2030, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.svc.Approve(ctx, res.BookingID)
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "invalid status transition: confirmed -> confirmed", ce.Message)

	_, err = f.svc.Reject(ctx, res.BookingID, "late")
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "invalid status transition: confirmed -> cancelled", ce.Message)

	events, err := f.store.Repos().Events.ListByBooking(ctx, res.BookingID)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestReject_StoresReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Submit(ctx, janRequest())
	require.NoError(t, err)

	out, err := f.svc.Reject(ctx, res.BookingID, " termin zajęty ")
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, out.Booking.Status)
	assert.Equal(t, "termin zajęty", out.Booking.Notes)
	require.NotNil(t, out.Booking.CancelledAt)
}

func TestTransition_UnknownBooking(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Approve(context.Background(), uuid.New())
	var ne *NotFoundError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, "booking", ne.Resource)

	_, err = f.svc.Get(context.Background(), uuid.New())
	require.ErrorAs(t, err, &ne)
}

func TestList_FiltersAndPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, date := range []string{"2030-03-10", "2030-03-20", "2030-04-05"} {
		req := janRequest()
		req.EventDate = date
		_, err := f.svc.Submit(ctx, req)
		require.NoError(t, err)
	}

	page, err := f.svc.List(ctx, ListBookingsQuery{From: "2030-03-01", To: "2030-03-31", PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Items, 1)

	page, err = f.svc.List(ctx, ListBookingsQuery{Status: "confirmed"})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	_, err = f.svc.List(ctx, ListBookingsQuery{Status: "archived"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = f.svc.List(ctx, ListBookingsQuery{From: "yesterday"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "invalid date format", ve.Message)
}

func TestEventTitle(t *testing.T) {
	assert.Equal(t, "Club - Klub X", eventTitle("club", "Klub X"))
	assert.Equal(t, "Wesele Plenerowe - Dwór", eventTitle("wesele plenerowe", "Dwór"))
}

func TestAsTyped(t *testing.T) {
	assert.Nil(t, asTyped(errors.New("boom")))
	wrapped := errors.Join(errors.New("ctx"), dateAlreadyBooked())
	assert.IsType(t, &ConflictError{}, asTyped(wrapped))
}
