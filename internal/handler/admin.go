package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Leganyst/dj-booking/internal/response"
	"github.com/Leganyst/dj-booking/internal/service"
)

// GET /bookings?status=&from=&to=&page=&page_size=
func (h *Handler) ListBookings(c *gin.Context) {
	page, err := queryInt(c, "page")
	if err != nil {
		response.BadRequest(c, "invalid page")
		return
	}
	size, err := queryInt(c, "page_size")
	if err != nil {
		response.BadRequest(c, "invalid page_size")
		return
	}

	res, err := h.bookings.List(c.Request.Context(), service.ListBookingsQuery{
		Status:   c.Query("status"),
		From:     c.Query("from"),
		To:       c.Query("to"),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}

	items := make([]BookingResponse, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, toBookingResponse(&res.Items[i]))
	}
	response.OK(c, gin.H{
		"bookings":  items,
		"page":      res.Page,
		"page_size": res.PageSize,
		"total":     res.Total,
		"has_next":  res.HasNext,
		"has_prev":  res.HasPrev,
	})
}

// GET /bookings/:id
func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}
	b, err := h.bookings.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.OK(c, gin.H{"booking": toBookingResponse(b)})
}

// POST /bookings/:id/approve
func (h *Handler) ApproveBooking(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}
	res, err := h.bookings.Approve(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.OK(c, gin.H{
		"booking":    toBookingResponse(res.Booking),
		"email_sent": res.EmailSent,
	})
}

// POST /bookings/:id/reject {reason?}
func (h *Handler) RejectBooking(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	var req rejectRequest
	// тело необязательное
	if err := bindJSON(c, &req); err != nil {
		response.BadRequest(c, msgInvalidBody)
		return
	}

	res, err := h.bookings.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.OK(c, gin.H{
		"booking":    toBookingResponse(res.Booking),
		"email_sent": res.EmailSent,
	})
}

func (h *Handler) bookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
