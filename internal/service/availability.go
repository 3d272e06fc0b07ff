package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Leganyst/dj-booking/internal/model"
	"github.com/Leganyst/dj-booking/internal/repository"
	"github.com/Leganyst/dj-booking/internal/telemetry"
)

type AvailabilityResult struct {
	Date      string
	Available bool
}

// AvailabilityChecker отвечает, свободна ли дата. Гранулярность в один день:
// одна активная бронь занимает всю дату независимо от времени.
type AvailabilityChecker struct {
	store  repository.Store
	tracer trace.Tracer
}

func NewAvailabilityChecker(store repository.Store, tracer trace.Tracer) *AvailabilityChecker {
	return &AvailabilityChecker{store: store, tracer: telemetry.TracerOrNoop(tracer, "service")}
}

// IsDateAvailable вернёт true, если на дату нет брони в pending/confirmed.
func (a *AvailabilityChecker) IsDateAvailable(ctx context.Context, date time.Time) (bool, error) {
	ctx, span := a.tracer.Start(ctx, "AvailabilityChecker.IsDateAvailable",
		trace.WithAttributes(attribute.String("event.date", date.Format(model.DateLayout))))
	defer span.End()

	ok, err := isDateAvailable(ctx, a.store.Repos().Bookings, date)
	if err != nil {
		telemetry.SetSpanError(span, err)
		return false, &InternalError{Op: "check availability", Err: err}
	}
	return ok, nil
}

// CheckDate делает то же по строке YYYY-MM-DD из запроса.
func (a *AvailabilityChecker) CheckDate(ctx context.Context, raw string) (*AvailabilityResult, error) {
	if missing := missingFields("date", raw); len(missing) > 0 {
		return nil, missingFieldsError(missing)
	}
	date, err := parseDate(raw)
	if err != nil {
		return nil, &ValidationError{Message: "invalid date format"}
	}

	ok, err := a.IsDateAvailable(ctx, date)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResult{Date: date.Format(model.DateLayout), Available: ok}, nil
}

// BookedDates отдаёт занятые даты (YYYY-MM-DD) для календаря на сайте.
// Границы необязательные и включительные.
func (a *AvailabilityChecker) BookedDates(ctx context.Context, rawFrom, rawTo string) ([]string, error) {
	ctx, span := a.tracer.Start(ctx, "AvailabilityChecker.BookedDates")
	defer span.End()

	from, to, err := parseDateRange(rawFrom, rawTo)
	if err != nil {
		return nil, err
	}

	dates, err := a.store.Repos().Bookings.ListActiveDates(ctx, from, to)
	if err != nil {
		telemetry.SetSpanError(span, err)
		return nil, &InternalError{Op: "list booked dates", Err: err}
	}

	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, time.Time(d).Format(model.DateLayout))
	}
	return out, nil
}

func isDateAvailable(ctx context.Context, bookings repository.BookingRepository, date time.Time) (bool, error) {
	taken, err := bookings.ExistsActiveOnDate(ctx, model.DateOf(date))
	if err != nil {
		return false, err
	}
	return !taken, nil
}
