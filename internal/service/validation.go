package service

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/Leganyst/dj-booking/internal/model"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	minDurationHours = 1
	maxDurationHours = 24
)

// Тело POST /book-event.
type BookingRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`

	EventType string `json:"event_type"`
	EventDate string `json:"event_date"`
	EventTime string `json:"event_time"`
	Duration  *int   `json:"duration"`

	VenueName    string `json:"venue_name"`
	VenueAddress string `json:"venue_address"`
	VenueCity    string `json:"venue_city"`

	GuestCount       *int     `json:"guest_count"`
	SpecialRequests  string   `json:"special_requests"`
	Budget           *float64 `json:"budget"`
	PreferredContact string   `json:"preferred_contact"`
	Service          string   `json:"service"`
}

// Тело POST /contact.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Разобранные и проверенные поля брони.
type validBooking struct {
	date     time.Time
	clock    datatypes.Time
	duration int
}

// validateBookingRequest проверяет запрос по порядку и останавливается
// на первой ошибке: обязательные поля, email, формат даты/времени, прошлое.
func validateBookingRequest(req BookingRequest, today time.Time) (*validBooking, error) {
	if missing := missingFields(
		"name", req.Name,
		"email", req.Email,
		"phone", req.Phone,
		"event_type", req.EventType,
		"event_date", req.EventDate,
		"event_time", req.EventTime,
		"venue_name", req.VenueName,
	); len(missing) > 0 {
		return nil, missingFieldsError(missing)
	}

	if !validEmail(req.Email) {
		return nil, &ValidationError{Message: "invalid email format"}
	}

	date, err := parseDate(req.EventDate)
	if err != nil {
		return nil, &ValidationError{Message: "invalid date or time format"}
	}
	clock, err := time.Parse(model.TimeLayout, strings.TrimSpace(req.EventTime))
	if err != nil {
		return nil, &ValidationError{Message: "invalid date or time format"}
	}

	duration := model.DefaultDurationHours
	if req.Duration != nil {
		duration = *req.Duration
		if duration < minDurationHours || duration > maxDurationHours {
			return nil, &ValidationError{Message: "duration must be between 1 and 24 hours"}
		}
	}
	if req.GuestCount != nil && *req.GuestCount < 0 {
		return nil, &ValidationError{Message: "guest_count must not be negative"}
	}
	if req.Budget != nil && *req.Budget < 0 {
		return nil, &ValidationError{Message: "budget must not be negative"}
	}

	if date.Before(today) {
		return nil, &ValidationError{Message: "cannot book in the past"}
	}

	return &validBooking{
		date:     date,
		clock:    model.TimeOf(clock),
		duration: duration,
	}, nil
}

func validateContactRequest(req ContactRequest) error {
	if missing := missingFields(
		"name", req.Name,
		"email", req.Email,
		"phone", req.Phone,
		"message", req.Message,
	); len(missing) > 0 {
		return missingFieldsError(missing)
	}
	if !validEmail(req.Email) {
		return &ValidationError{Message: "invalid email format"}
	}
	return nil
}

// missingFields принимает пары имя/значение.
func missingFields(pairs ...string) []string {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	return missing
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// parseDate разбирает YYYY-MM-DD в полночь UTC.
func parseDate(s string) (time.Time, error) {
	return time.Parse(model.DateLayout, strings.TrimSpace(s))
}

// parseDateRange разбирает необязательные границы YYYY-MM-DD.
func parseDateRange(rawFrom, rawTo string) (from, to *datatypes.Date, err error) {
	parse := func(raw string) (*datatypes.Date, error) {
		if strings.TrimSpace(raw) == "" {
			return nil, nil
		}
		t, err := parseDate(raw)
		if err != nil {
			return nil, &ValidationError{Message: "invalid date format"}
		}
		d := model.DateOf(t)
		return &d, nil
	}
	if from, err = parse(rawFrom); err != nil {
		return nil, nil, err
	}
	if to, err = parse(rawTo); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && time.Time(*from).After(time.Time(*to)) {
		return nil, nil, &ValidationError{Message: "invalid date range"}
	}
	return from, to, nil
}

// dayIn возвращает календарную дату момента t в зоне loc, как полночь UTC.
func dayIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
