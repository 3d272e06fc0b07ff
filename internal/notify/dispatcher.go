package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Leganyst/dj-booking/internal/model"
	"github.com/Leganyst/dj-booking/internal/repository"
	"github.com/Leganyst/dj-booking/internal/telemetry"
	"github.com/Leganyst/dj-booking/internal/utils"
)

// Бронь вместе с клиентом и услугой.
type BookingContext struct {
	Booking  *model.Booking
	Customer *model.Customer
	Service  *model.Service
}

type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Итог рассылки. Sent=false не означает ошибку операции.
type Result struct {
	Sent bool
	ID   string
}

type Config struct {
	From           string
	BookingEmail   string
	BusinessPhone  string
	Website        string
	Timeout        time.Duration
	NotifyOnReject bool
	Location       *time.Location
}

const (
	defaultTimeout = 10 * time.Second
	icsFilename    = "arch1tect-booking.ics"
	icsContentType = "text/calendar; charset=utf-8"
)

type Dispatcher struct {
	email   EmailSender
	sms     SMSSender
	records repository.NotificationRepository
	cfg     Config
	log     *zap.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

// sms и records могут быть nil.
func NewDispatcher(
	email EmailSender,
	sms SMSSender,
	records repository.NotificationRepository,
	cfg Config,
	log *zap.Logger,
	tracer trace.Tracer,
) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Dispatcher{
		email:   email,
		sms:     sms,
		records: records,
		cfg:     cfg,
		log:     log,
		tracer:  telemetry.TracerOrNoop(tracer, "notify"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// NotifyBookingCreated шлёт подтверждение клиенту и алерт оператору,
// плюс SMS, если есть телефон и Twilio. Sent=true, только если ушли оба письма.
func (d *Dispatcher) NotifyBookingCreated(ctx context.Context, bc BookingContext) Result {
	ctx, span := d.tracer.Start(ctx, "notify.BookingCreated",
		trace.WithAttributes(attribute.String("booking.id", bc.Booking.ID.String())))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	view, ev := d.bookingView(bc)

	customerHTML, err := render(tmplBookingConfirmation, view)
	if err != nil {
		d.log.Error("render confirmation", zap.Error(err))
		return Result{}
	}
	alertHTML, err := render(tmplBookingAlert, view)
	if err != nil {
		d.log.Error("render booking alert", zap.Error(err))
		return Result{}
	}

	bookingID := bc.Booking.ID
	customerID := bc.Customer.ID

	subject := fmt.Sprintf("✅ Potwierdzenie rezerwacji - %s", view.Date)
	msgID, customerOK := d.sendEmail(ctx, &model.Notification{
		BookingID:        &bookingID,
		CustomerID:       &customerID,
		NotificationType: model.NotificationTypeBookingConfirmation,
		RecipientEmail:   bc.Customer.Email,
		Subject:          subject,
		Message:          customerHTML,
	}, Email{
		From:    d.cfg.From,
		To:      []string{bc.Customer.Email},
		ReplyTo: d.cfg.BookingEmail,
		Subject: subject,
		HTML:    customerHTML,
		Attachments: []Attachment{{
			Filename:    icsFilename,
			ContentType: icsContentType,
			Data:        []byte(utils.ICS(ev, d.now())),
		}},
	})

	alertSubject := fmt.Sprintf("🎧 Nowa rezerwacja: %s (%s)", view.Title, view.Date)
	_, alertOK := d.sendEmail(ctx, &model.Notification{
		BookingID:        &bookingID,
		CustomerID:       &customerID,
		NotificationType: model.NotificationTypeBookingAlert,
		RecipientEmail:   d.cfg.BookingEmail,
		Subject:          alertSubject,
		Message:          alertHTML,
	}, Email{
		From:    d.cfg.From,
		To:      []string{d.cfg.BookingEmail},
		ReplyTo: bc.Customer.Email,
		Subject: alertSubject,
		HTML:    alertHTML,
	})

	if d.sms != nil && bc.Customer.Phone != "" {
		body := fmt.Sprintf("ARCH1TECT: rezerwacja %s %s (%s) przyjęta, czeka na potwierdzenie. ID: %s",
			view.Date, view.Time, view.Location, view.BookingID)
		// SMS на флаг Sent не влияет
		d.sendSMS(ctx, &model.Notification{
			BookingID:        &bookingID,
			CustomerID:       &customerID,
			NotificationType: model.NotificationTypeBookingConfirmation,
			RecipientPhone:   bc.Customer.Phone,
			Message:          body,
		})
	}

	sent := customerOK && alertOK
	span.SetAttributes(attribute.Bool("notify.sent", sent))
	return Result{Sent: sent, ID: msgID}
}

// NotifyBookingStatusChanged шлёт письмо об одобрении; об отказе только при NotifyOnReject.
func (d *Dispatcher) NotifyBookingStatusChanged(ctx context.Context, bc BookingContext, status model.BookingStatus) Result {
	var (
		tmpl    string
		typ     model.NotificationType
		subject string
	)

	view, _ := d.bookingView(bc)

	switch status {
	case model.BookingStatusConfirmed:
		tmpl, typ = tmplBookingApproved, model.NotificationTypeBookingApproved
		subject = fmt.Sprintf("🎉 Rezerwacja potwierdzona - %s", view.Date)
	case model.BookingStatusCancelled:
		if !d.cfg.NotifyOnReject {
			return Result{}
		}
		tmpl, typ = tmplBookingRejected, model.NotificationTypeBookingRejected
		subject = fmt.Sprintf("Rezerwacja %s - informacja", view.Date)
	default:
		return Result{}
	}

	ctx, span := d.tracer.Start(ctx, "notify.BookingStatusChanged",
		trace.WithAttributes(
			attribute.String("booking.id", bc.Booking.ID.String()),
			attribute.String("booking.status", string(status)),
		))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	html, err := render(tmpl, view)
	if err != nil {
		d.log.Error("render status email", zap.Error(err))
		return Result{}
	}

	bookingID := bc.Booking.ID
	customerID := bc.Customer.ID
	id, ok := d.sendEmail(ctx, &model.Notification{
		BookingID:        &bookingID,
		CustomerID:       &customerID,
		NotificationType: typ,
		RecipientEmail:   bc.Customer.Email,
		Subject:          subject,
		Message:          html,
	}, Email{
		From:    d.cfg.From,
		To:      []string{bc.Customer.Email},
		ReplyTo: d.cfg.BookingEmail,
		Subject: subject,
		HTML:    html,
	})
	return Result{Sent: ok, ID: id}
}

// NotifyContactMessage пересылает сообщение из формы оператору.
func (d *Dispatcher) NotifyContactMessage(ctx context.Context, msg ContactMessage) Result {
	ctx, span := d.tracer.Start(ctx, "notify.ContactMessage")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	html, err := render(tmplContactMessage, ContactView{
		Business: d.business(),
		Name:     msg.Name,
		Email:    msg.Email,
		Phone:    msg.Phone,
		Message:  msg.Message,
	})
	if err != nil {
		d.log.Error("render contact email", zap.Error(err))
		return Result{}
	}

	subject := fmt.Sprintf("📩 Nowa wiadomość od %s", msg.Name)
	id, ok := d.sendEmail(ctx, &model.Notification{
		NotificationType: model.NotificationTypeContactMessage,
		RecipientEmail:   d.cfg.BookingEmail,
		Subject:          subject,
		Message:          msg.Message,
	}, Email{
		From:    d.cfg.From,
		To:      []string{d.cfg.BookingEmail},
		ReplyTo: msg.Email,
		Subject: subject,
		HTML:    html,
	})
	return Result{Sent: ok, ID: id}
}

func (d *Dispatcher) sendEmail(ctx context.Context, n *model.Notification, msg Email) (string, bool) {
	n.Channel = model.NotificationChannelEmail
	recorded := d.record(ctx, n)

	id, err := d.email.Send(ctx, msg)
	if err != nil {
		d.fail(ctx, n, recorded, n.RecipientEmail, err)
		return "", false
	}
	d.markSent(ctx, n, recorded, id)
	return id, true
}

func (d *Dispatcher) sendSMS(ctx context.Context, n *model.Notification) bool {
	n.Channel = model.NotificationChannelSMS
	recorded := d.record(ctx, n)

	id, err := d.sms.SendSMS(ctx, n.RecipientPhone, n.Message)
	if err != nil {
		d.fail(ctx, n, recorded, n.RecipientPhone, err)
		return false
	}
	d.markSent(ctx, n, recorded, id)
	return true
}

// record пишет попытку в notifications. Запись живёт дольше таймаута отправки.
func (d *Dispatcher) record(ctx context.Context, n *model.Notification) bool {
	if d.records == nil {
		return false
	}
	n.Status = model.NotificationStatusPending
	if err := d.records.Create(context.WithoutCancel(ctx), n); err != nil {
		d.log.Warn("record notification", zap.String("type", string(n.NotificationType)), zap.Error(err))
		return false
	}
	return true
}

func (d *Dispatcher) fail(ctx context.Context, n *model.Notification, recorded bool, recipient string, err error) {
	nerr := &NotificationError{
		Type:      n.NotificationType,
		Channel:   n.Channel,
		Recipient: recipient,
		Err:       err,
	}
	d.log.Warn("notification failed", zap.Error(nerr))
	trace.SpanFromContext(ctx).RecordError(nerr)

	if !recorded {
		return
	}
	if err := d.records.MarkFailed(context.WithoutCancel(ctx), n.ID, err.Error()); err != nil {
		d.log.Warn("mark notification failed", zap.String("id", n.ID.String()), zap.Error(err))
	}
}

func (d *Dispatcher) markSent(ctx context.Context, n *model.Notification, recorded bool, providerID string) {
	if !recorded {
		return
	}
	if err := d.records.MarkSent(context.WithoutCancel(ctx), n.ID, providerID, d.now()); err != nil {
		d.log.Warn("mark notification sent", zap.String("id", n.ID.String()), zap.Error(err))
	}
}

func (d *Dispatcher) business() Business {
	return Business{
		BookingEmail:  d.cfg.BookingEmail,
		BusinessPhone: d.cfg.BusinessPhone,
		Website:       d.cfg.Website,
	}
}

func (d *Dispatcher) bookingView(bc BookingContext) (BookingView, utils.CalendarEvent) {
	b := bc.Booking
	start := b.StartsAt(d.cfg.Location)

	window, err := utils.EventWindow(start, b.EventDurationHours)
	if err != nil {
		window, _ = utils.EventWindow(start, model.DefaultDurationHours)
	}

	location := b.EventLocation
	if location == "" {
		location = b.VenueName
	}

	view := BookingView{
		Business:         d.business(),
		BookingID:        b.ID.String(),
		Status:           string(b.Status),
		Title:            b.EventTitle,
		CustomerName:     bc.Customer.FullName(),
		CustomerEmail:    bc.Customer.Email,
		CustomerPhone:    bc.Customer.Phone,
		PreferredContact: b.PreferredContactMethod,
		Date:             utils.FormatDatePL(start),
		Time:             b.EventTimeString(),
		Window:           utils.FormatRangeForUser(window, d.cfg.Location),
		Duration:         b.EventDurationHours,
		EventType:        b.EventType,
		Location:         location,
		SpecialRequests:  b.SpecialRequests,
		Reason:           b.Notes,
	}
	if bc.Customer.Company != nil {
		view.Company = *bc.Customer.Company
	}
	if b.VenueAddress != nil {
		view.VenueAddress = *b.VenueAddress
	}
	if bc.Service != nil {
		view.Service = bc.Service.Name
	}
	if b.GuestCount != nil {
		view.GuestCount = *b.GuestCount
	}
	if b.Budget != nil {
		view.Budget = fmt.Sprintf("%.2f", *b.Budget)
	}

	ev := utils.CalendarEvent{
		UID:         bookingUID(b.ID),
		Title:       b.EventTitle,
		Description: fmt.Sprintf("Rezerwacja DJ ARCH1TECT\nUsługa: %s\nStatus: %s", view.Service, b.Status),
		Location:    location,
		Organizer:   d.cfg.BookingEmail,
		Window:      window,
	}
	view.GoogleURL = utils.GoogleCalendarURL(ev)
	view.OutlookURL = utils.OutlookCalendarURL(ev)
	view.Office365URL = utils.Office365CalendarURL(ev)

	return view, ev
}

func bookingUID(id uuid.UUID) string {
	return "booking-" + id.String() + "@arch1tect.pl"
}
