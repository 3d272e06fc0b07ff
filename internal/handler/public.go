package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/Leganyst/dj-booking/internal/response"
	"github.com/Leganyst/dj-booking/internal/service"
)

const (
	msgBookingAccepted = "Rezerwacja została przyjęta! Skontaktuję się wkrótce."
	msgContactSent     = "Wiadomość została wysłana. Odpiszę tak szybko jak to możliwe!"
	msgDateFree        = "Termin dostępny"
	msgDateTaken       = "Termin zajęty"
	msgInvalidBody     = "invalid request body"
)

// bindJSON разбирает тело. Пустое тело считается {}, дальше
// сработает обычная проверка обязательных полей.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// GET /services
func (h *Handler) ListServices(c *gin.Context) {
	items, err := h.catalog.ListActive(c.Request.Context())
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}

	out := make([]ServiceResponse, 0, len(items))
	for i := range items {
		out = append(out, toServiceResponse(&items[i]))
	}
	response.OK(c, gin.H{"services": out})
}

// POST /check-availability {date}
func (h *Handler) CheckAvailability(c *gin.Context) {
	var req checkAvailabilityRequest
	if err := bindJSON(c, &req); err != nil {
		response.BadRequest(c, msgInvalidBody)
		return
	}

	res, err := h.availability.CheckDate(c.Request.Context(), req.Date)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}

	msg := msgDateTaken
	if res.Available {
		msg = msgDateFree
	}
	response.OK(c, gin.H{
		"available": res.Available,
		"date":      res.Date,
		"message":   msg,
	})
}

// GET /booked-dates?from=&to=
func (h *Handler) BookedDates(c *gin.Context) {
	dates, err := h.availability.BookedDates(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.OK(c, gin.H{"dates": dates})
}

// POST /contact
func (h *Handler) Contact(c *gin.Context) {
	var req service.ContactRequest
	if err := bindJSON(c, &req); err != nil {
		response.BadRequest(c, msgInvalidBody)
		return
	}

	res, err := h.contact.Send(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.OK(c, gin.H{
		"message":    msgContactSent,
		"email_sent": res.EmailSent,
	})
}

// POST /book-event
func (h *Handler) BookEvent(c *gin.Context) {
	var req service.BookingRequest
	if err := bindJSON(c, &req); err != nil {
		response.BadRequest(c, msgInvalidBody)
		return
	}

	res, err := h.bookings.Submit(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.Created(c, gin.H{
		"message":      msgBookingAccepted,
		"booking_id":   res.BookingID.String(),
		"booking_data": res.Booking,
		"email_sent":   res.EmailSent,
	})
}
