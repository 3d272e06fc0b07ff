package handler

import (
	"time"

	"github.com/Leganyst/dj-booking/internal/model"
)

type ServiceResponse struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	ServiceType          string   `json:"service_type"`
	BasePrice            float64  `json:"base_price"`
	PricePerHour         *float64 `json:"price_per_hour"`
	MinHours             int      `json:"min_hours"`
	MaxHours             int      `json:"max_hours"`
	IsActive             bool     `json:"is_active"`
	RequiresConsultation bool     `json:"requires_consultation"`
	IncludesEquipment    bool     `json:"includes_equipment"`
	IncludesLighting     bool     `json:"includes_lighting"`
	IncludesMCServices   bool     `json:"includes_mc_services"`
	CalendarPlatforms    []string `json:"calendar_platforms"`
}

func toServiceResponse(s *model.Service) ServiceResponse {
	return ServiceResponse{
		ID:                   s.ID.String(),
		Name:                 s.Name,
		Description:          s.Description,
		ServiceType:          s.ServiceType,
		BasePrice:            s.BasePrice,
		PricePerHour:         s.PricePerHour,
		MinHours:             s.MinHours,
		MaxHours:             s.MaxHours,
		IsActive:             s.IsActive,
		RequiresConsultation: s.RequiresConsultation,
		IncludesEquipment:    s.IncludesEquipment,
		IncludesLighting:     s.IncludesLighting,
		IncludesMCServices:   s.IncludesMCServices,
		CalendarPlatforms:    s.Platforms(),
	}
}

type CustomerResponse struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Company   *string `json:"company"`
}

// Бронь для админки.
type BookingResponse struct {
	ID                     string            `json:"id"`
	CustomerID             string            `json:"customer_id"`
	ServiceID              string            `json:"service_id"`
	EventDate              string            `json:"event_date"`
	EventTime              string            `json:"event_time"`
	EventDurationHours     int               `json:"event_duration_hours"`
	EventType              string            `json:"event_type"`
	VenueName              string            `json:"venue_name"`
	VenueAddress           *string           `json:"venue_address"`
	VenueCity              *string           `json:"venue_city"`
	Status                 string            `json:"status"`
	GuestCount             *int              `json:"guest_count"`
	SpecialRequests        string            `json:"special_requests"`
	Budget                 *float64          `json:"budget"`
	Notes                  string            `json:"notes"`
	PreferredContactMethod string            `json:"preferred_contact_method"`
	ConfirmationSent       bool              `json:"confirmation_sent"`
	ReminderSent           bool              `json:"reminder_sent"`
	CalendarEventSent      bool              `json:"calendar_event_sent"`
	CalendarPlatforms      []string          `json:"calendar_platforms"`
	EventTitle             string            `json:"event_title"`
	EventLocation          string            `json:"event_location"`
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
	ConfirmedAt            *time.Time        `json:"confirmed_at"`
	CancelledAt            *time.Time        `json:"cancelled_at"`
	Customer               *CustomerResponse `json:"customer,omitempty"`
	Service                *ServiceResponse  `json:"service,omitempty"`
}

func toBookingResponse(b *model.Booking) BookingResponse {
	out := BookingResponse{
		ID:                     b.ID.String(),
		CustomerID:             b.CustomerID.String(),
		ServiceID:              b.ServiceID.String(),
		EventDate:              b.EventDateString(),
		EventTime:              b.EventTimeString(),
		EventDurationHours:     b.EventDurationHours,
		EventType:              b.EventType,
		VenueName:              b.VenueName,
		VenueAddress:           b.VenueAddress,
		VenueCity:              b.VenueCity,
		Status:                 string(b.Status),
		GuestCount:             b.GuestCount,
		SpecialRequests:        b.SpecialRequests,
		Budget:                 b.Budget,
		Notes:                  b.Notes,
		PreferredContactMethod: b.PreferredContactMethod,
		ConfirmationSent:       b.ConfirmationSent,
		ReminderSent:           b.ReminderSent,
		CalendarEventSent:      b.CalendarEventSent,
		CalendarPlatforms:      []string(b.CalendarPlatforms),
		EventTitle:             b.EventTitle,
		EventLocation:          b.EventLocation,
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
		ConfirmedAt:            b.ConfirmedAt,
		CancelledAt:            b.CancelledAt,
	}
	if c := b.Customer; c != nil {
		out.Customer = &CustomerResponse{
			ID:        c.ID.String(),
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Phone:     c.Phone,
			Company:   c.Company,
		}
	}
	if s := b.Service; s != nil {
		sr := toServiceResponse(s)
		out.Service = &sr
	}
	return out
}

// Запись афиши.
type GigResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Venue       string    `json:"venue"`
	City        string    `json:"city"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Artists     string    `json:"artists"`
	Price       *float64  `json:"price"`
	Capacity    *int      `json:"capacity"`
	ImageURL    string    `json:"image_url"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toGigResponse(g *model.Gig) GigResponse {
	return GigResponse{
		ID:          g.ID.String(),
		Name:        g.Name,
		Date:        g.DateString(),
		Time:        g.Time,
		Venue:       g.Venue,
		City:        g.City,
		Type:        g.Type,
		Description: g.Description,
		Artists:     g.Artists,
		Price:       g.Price,
		Capacity:    g.Capacity,
		ImageURL:    g.ImageURL,
		Status:      string(g.Status),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

type checkAvailabilityRequest struct {
	Date string `json:"date"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}
