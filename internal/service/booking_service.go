package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Leganyst/dj-booking/internal/model"
	"github.com/Leganyst/dj-booking/internal/notify"
	"github.com/Leganyst/dj-booking/internal/repository"
	"github.com/Leganyst/dj-booking/internal/telemetry"
	"github.com/Leganyst/dj-booking/internal/utils"
)

// То, что нужно workflow от рассылки.
type BookingNotifier interface {
	NotifyBookingCreated(ctx context.Context, bc notify.BookingContext) notify.Result
	NotifyBookingStatusChanged(ctx context.Context, bc notify.BookingContext, status model.BookingStatus) notify.Result
}

type Options struct {
	// Часовой пояс бизнеса: в нём считаем "сегодня" и время начала.
	Location *time.Location
	Now      func() time.Time
	Tracer   trace.Tracer
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	o.Tracer = telemetry.TracerOrNoop(o.Tracer, "service")
	return o
}

type BookingSummary struct {
	EventDate  string `json:"event_date"`
	EventTime  string `json:"event_time"`
	VenueName  string `json:"venue_name"`
	EventType  string `json:"event_type"`
	Duration   int    `json:"duration"`
	EventTitle string `json:"event_title"`
	Status     string `json:"status"`
	Service    string `json:"service"`
}

type BookingResult struct {
	BookingID uuid.UUID
	Booking   BookingSummary
	EmailSent bool
}

type TransitionResult struct {
	Booking   *model.Booking
	EmailSent bool
}

// Параметры админского списка, строки из query.
type ListBookingsQuery struct {
	Status   string
	From     string
	To       string
	Page     int
	PageSize int
}

type BookingService struct {
	store    repository.Store
	notifier BookingNotifier
	log      *zap.Logger
	opts     Options
}

func NewBookingService(
	store repository.Store,
	notifier BookingNotifier,
	log *zap.Logger,
	opts Options,
) *BookingService {
	return &BookingService{
		store:    store,
		notifier: notifier,
		log:      log,
		opts:     opts.withDefaults(),
	}
}

// Submit принимает заявку: валидация, проверка даты, клиент, услуга,
// бронь в pending, затем уведомления. Ошибка рассылки бронь не откатывает.
func (s *BookingService) Submit(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	ctx, span := s.opts.Tracer.Start(ctx, "BookingService.Submit")
	defer span.End()

	in, err := validateBookingRequest(req, dayIn(s.opts.Now(), s.opts.Location))
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("event.date", in.date.Format(model.DateLayout)))

	free, err := isDateAvailable(ctx, s.store.Repos().Bookings, in.date)
	if err != nil {
		return nil, s.internal(span, "check availability", err)
	}
	if !free {
		return nil, dateAlreadyBooked()
	}

	var bc notify.BookingContext
	for attempt := 1; ; attempt++ {
		bc, err = s.create(ctx, req, in)
		// параллельная заявка с тем же новым email: повторяем один раз,
		// во второй раз клиент уже найдётся
		if errors.Is(err, repository.ErrCustomerExists) && attempt == 1 {
			s.log.Info("customer created concurrently, retrying", zap.String("email", req.Email))
			continue
		}
		break
	}
	if err != nil {
		if errors.Is(err, repository.ErrActiveBookingExists) {
			return nil, dateAlreadyBooked()
		}
		if typed := asTyped(err); typed != nil {
			return nil, typed
		}
		return nil, s.internal(span, "create booking", err)
	}

	b := bc.Booking
	s.log.Info("booking created",
		zap.String("booking_id", b.ID.String()),
		zap.String("event_date", b.EventDateString()),
		zap.String("customer_id", bc.Customer.ID.String()),
	)

	// бронь уже закоммичена: обрыв запроса не должен прерывать рассылку
	notifyCtx := context.WithoutCancel(ctx)

	emailSent := false
	if s.notifier != nil {
		res := s.notifier.NotifyBookingCreated(notifyCtx, bc)
		emailSent = res.Sent
	}
	if emailSent {
		if err := s.store.Repos().Bookings.MarkConfirmationSent(notifyCtx, b.ID); err != nil {
			s.log.Warn("mark confirmation sent", zap.String("booking_id", b.ID.String()), zap.Error(err))
		} else {
			b.ConfirmationSent = true
		}
	} else {
		s.log.Warn("booking confirmation not sent", zap.String("booking_id", b.ID.String()))
	}

	return &BookingResult{
		BookingID: b.ID,
		Booking: BookingSummary{
			EventDate:  b.EventDateString(),
			EventTime:  b.EventTimeString(),
			VenueName:  b.VenueName,
			EventType:  b.EventType,
			Duration:   b.EventDurationHours,
			EventTitle: b.EventTitle,
			Status:     string(b.Status),
			Service:    bc.Service.Name,
		},
		EmailSent: emailSent,
	}, nil
}

func (s *BookingService) create(ctx context.Context, req BookingRequest, in *validBooking) (notify.BookingContext, error) {
	var bc notify.BookingContext

	err := s.store.Transaction(ctx, func(r repository.Repositories) error {
		// повторная проверка уже внутри транзакции
		free, err := isDateAvailable(ctx, r.Bookings, in.date)
		if err != nil {
			return fmt.Errorf("check availability: %w", err)
		}
		if !free {
			return dateAlreadyBooked()
		}

		customer, err := ResolveCustomer(ctx, r.Customers, ContactInfo{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   strings.TrimSpace(req.Phone),
			Company: optional(req.Company),
			Address: optional(req.VenueAddress),
			City:    optional(req.VenueCity),
		})
		if err != nil {
			return err
		}

		svc, err := resolveService(ctx, r.Services, req.Service)
		if err != nil {
			return err
		}

		contact := strings.TrimSpace(req.PreferredContact)
		if contact == "" {
			contact = model.DefaultContactMethod
		}

		b := &model.Booking{
			CustomerID:             customer.ID,
			ServiceID:              svc.ID,
			EventDate:              model.DateOf(in.date),
			EventTime:              in.clock,
			EventDurationHours:     in.duration,
			EventType:              strings.TrimSpace(req.EventType),
			VenueName:              strings.TrimSpace(req.VenueName),
			VenueAddress:           optional(req.VenueAddress),
			VenueCity:              optional(req.VenueCity),
			Status:                 model.BookingStatusPending,
			GuestCount:             req.GuestCount,
			SpecialRequests:        strings.TrimSpace(req.SpecialRequests),
			Budget:                 req.Budget,
			PreferredContactMethod: contact,
			CalendarPlatforms:      svc.Platforms(),
		}
		b.EventTitle = eventTitle(b.EventType, b.VenueName)
		b.EventLocation = eventLocation(b.VenueName, b.VenueCity)

		if err := r.Bookings.Create(ctx, b); err != nil {
			return err
		}

		if err := r.Events.Create(ctx, &model.BookingEvent{
			EventType:  model.EventTypeBookingCreated,
			BookingID:  b.ID,
			CustomerID: &customer.ID,
			Details:    fmt.Sprintf("date=%s service=%s", b.EventDateString(), svc.Name),
		}); err != nil {
			return fmt.Errorf("write audit event: %w", err)
		}

		bc = notify.BookingContext{Booking: b, Customer: customer, Service: svc}
		return nil
	})

	return bc, err
}

// Активная услуга по точному имени, иначе первая активная,
// иначе создаём базовую.
func resolveService(ctx context.Context, services repository.ServiceRepository, name string) (*model.Service, error) {
	if name = strings.TrimSpace(name); name != "" {
		svc, err := services.FindActiveByName(ctx, name)
		if err == nil {
			return svc, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("find service: %w", err)
		}
	}

	svc, err := services.FirstActive(ctx)
	if err == nil {
		return svc, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("first active service: %w", err)
	}

	svc = model.FallbackService()
	if err := services.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("create fallback service: %w", err)
	}
	return svc, nil
}

// "club", "Klub X" -> "Club - Klub X".
func eventTitle(eventType, venue string) string {
	return cases.Title(language.Polish).String(eventType) + " - " + venue
}

func eventLocation(venue string, city *string) string {
	if city == nil || *city == "" {
		return venue
	}
	return venue + ", " + *city
}

// ===== Админка =====

func (s *BookingService) List(ctx context.Context, q ListBookingsQuery) (utils.Page[model.Booking], error) {
	ctx, span := s.opts.Tracer.Start(ctx, "BookingService.List")
	defer span.End()

	page, size, offset := utils.NormalizePage(q.Page, q.PageSize)
	filter := repository.BookingFilter{Limit: size, Offset: offset}

	if q.Status != "" {
		st := model.BookingStatus(q.Status)
		switch st {
		case model.BookingStatusPending, model.BookingStatusConfirmed, model.BookingStatusCancelled:
			filter.Status = st
		default:
			return utils.Page[model.Booking]{}, &ValidationError{Message: "invalid status filter"}
		}
	}
	from, to, err := parseDateRange(q.From, q.To)
	if err != nil {
		return utils.Page[model.Booking]{}, err
	}
	filter.From, filter.To = from, to

	items, total, err := s.store.Repos().Bookings.List(ctx, filter)
	if err != nil {
		return utils.Page[model.Booking]{}, s.internal(span, "list bookings", err)
	}
	return utils.NewPage(items, page, size, total), nil
}

func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	ctx, span := s.opts.Tracer.Start(ctx, "BookingService.Get")
	defer span.End()

	b, err := s.store.Repos().Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: id.String()}
		}
		return nil, s.internal(span, "get booking", err)
	}
	return b, nil
}

// pending -> confirmed
func (s *BookingService) Approve(ctx context.Context, id uuid.UUID) (*TransitionResult, error) {
	return s.transition(ctx, id, model.BookingStatusConfirmed, nil)
}

// pending -> cancelled, причина сохраняется в notes.
func (s *BookingService) Reject(ctx context.Context, id uuid.UUID, reason string) (*TransitionResult, error) {
	var notes *string
	if r := strings.TrimSpace(reason); r != "" {
		notes = &r
	}
	return s.transition(ctx, id, model.BookingStatusCancelled, notes)
}

func (s *BookingService) transition(
	ctx context.Context,
	id uuid.UUID,
	to model.BookingStatus,
	notes *string,
) (*TransitionResult, error) {
	ctx, span := s.opts.Tracer.Start(ctx, "BookingService.Transition",
		trace.WithAttributes(
			attribute.String("booking.id", id.String()),
			attribute.String("booking.to", string(to)),
		))
	defer span.End()

	var updated *model.Booking
	err := s.store.Transaction(ctx, func(r repository.Repositories) error {
		b, err := r.Bookings.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &NotFoundError{Resource: "booking", ID: id.String()}
			}
			return err
		}
		if b.Status.IsTerminal() {
			return invalidTransition(string(b.Status), string(to))
		}

		ok, err := r.Bookings.TransitionStatus(ctx, id, repository.StatusTransition{
			From:  model.BookingStatusPending,
			To:    to,
			At:    s.opts.Now().UTC(),
			Notes: notes,
		})
		if err != nil {
			return err
		}
		if !ok {
			// кто-то успел изменить статус между чтением и апдейтом
			return invalidTransition(string(b.Status), string(to))
		}

		evType := model.EventTypeBookingConfirmed
		if to == model.BookingStatusCancelled {
			evType = model.EventTypeBookingCancelled
		}
		details := ""
		if notes != nil {
			details = *notes
		}
		if err := r.Events.Create(ctx, &model.BookingEvent{
			EventType:  evType,
			BookingID:  id,
			CustomerID: &b.CustomerID,
			Details:    details,
		}); err != nil {
			return fmt.Errorf("write audit event: %w", err)
		}

		updated, err = r.Bookings.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if typed := asTyped(err); typed != nil {
			return nil, typed
		}
		return nil, s.internal(span, "transition booking", err)
	}

	s.log.Info("booking status changed",
		zap.String("booking_id", id.String()),
		zap.String("status", string(updated.Status)),
	)

	emailSent := false
	if s.notifier != nil && updated.Customer != nil {
		res := s.notifier.NotifyBookingStatusChanged(context.WithoutCancel(ctx), notify.BookingContext{
			Booking:  updated,
			Customer: updated.Customer,
			Service:  updated.Service,
		}, updated.Status)
		emailSent = res.Sent
	}

	return &TransitionResult{Booking: updated, EmailSent: emailSent}, nil
}

func (s *BookingService) internal(span trace.Span, op string, err error) error {
	ierr := &InternalError{Op: op, Err: err}
	s.log.Error("booking operation failed", zap.String("op", op), zap.Error(err))
	telemetry.SetSpanError(span, err)
	return ierr
}

// asTyped возвращает ожидаемую ошибку (валидация/конфликт/не найдено) или nil.
func asTyped(err error) error {
	var (
		ve *ValidationError
		ce *ConflictError
		ne *NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		return ve
	case errors.As(err, &ce):
		return ce
	case errors.As(err, &ne):
		return ne
	}
	return nil
}
