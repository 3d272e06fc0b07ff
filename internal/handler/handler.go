// Package handler содержит HTTP-обработчики на gin.
package handler

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leganyst/dj-booking/internal/model"
	"github.com/Leganyst/dj-booking/internal/service"
	"github.com/Leganyst/dj-booking/internal/utils"
)

type BookingService interface {
	Submit(ctx context.Context, req service.BookingRequest) (*service.BookingResult, error)
	List(ctx context.Context, q service.ListBookingsQuery) (utils.Page[model.Booking], error)
	Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	Approve(ctx context.Context, id uuid.UUID) (*service.TransitionResult, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) (*service.TransitionResult, error)
}

type AvailabilityService interface {
	CheckDate(ctx context.Context, raw string) (*service.AvailabilityResult, error)
	BookedDates(ctx context.Context, from, to string) ([]string, error)
}

type ContactService interface {
	Send(ctx context.Context, req service.ContactRequest) (*service.ContactResult, error)
}

type CatalogService interface {
	ListActive(ctx context.Context) ([]model.Service, error)
}

type GigService interface {
	List(ctx context.Context, status string) ([]model.Gig, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Gig, error)
	Create(ctx context.Context, in service.GigInput) (*model.Gig, error)
	Update(ctx context.Context, id uuid.UUID, p service.GigPatch) (*model.Gig, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	bookings     BookingService
	availability AvailabilityService
	contact      ContactService
	catalog      CatalogService
	gigs         GigService
	store        Pinger
	serviceName  string
	log          *zap.Logger
}

type Deps struct {
	Bookings     BookingService
	Availability AvailabilityService
	Contact      ContactService
	Catalog      CatalogService
	Gigs         GigService
	Store        Pinger
	ServiceName  string
}

func New(d Deps, log *zap.Logger) *Handler {
	return &Handler{
		bookings:     d.Bookings,
		availability: d.Availability,
		contact:      d.Contact,
		catalog:      d.Catalog,
		gigs:         d.Gigs,
		store:        d.Store,
		serviceName:  d.ServiceName,
		log:          log,
	}
}
