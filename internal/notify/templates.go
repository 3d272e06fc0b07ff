package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	tmplBookingConfirmation = "booking_confirmation.html"
	tmplBookingAlert        = "booking_alert.html"
	tmplBookingApproved     = "booking_approved.html"
	tmplBookingRejected     = "booking_rejected.html"
	tmplContactMessage      = "contact_message.html"
)

// Контакты в подвале каждого письма.
type Business struct {
	BookingEmail  string
	BusinessPhone string
	Website       string
}

// Данные брони для шаблонов.
type BookingView struct {
	Business

	BookingID        string
	Status           string
	Title            string
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	Company          string
	PreferredContact string

	Date            string
	Time            string
	Window          string
	Duration        int
	EventType       string
	Location        string
	VenueAddress    string
	Service         string
	GuestCount      int
	Budget          string
	SpecialRequests string
	Reason          string

	GoogleURL    string
	OutlookURL   string
	Office365URL string
}

type ContactView struct {
	Business

	Name    string
	Email   string
	Phone   string
	Message string
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
