package handler

import (
	"github.com/gin-gonic/gin"
)

// Register вешает маршруты на корень и дублирует их под /api:
// фронтенд ходит на /api/...
func (h *Handler) Register(r gin.IRouter) {
	for _, g := range []gin.IRouter{r, r.Group("/api")} {
		h.routes(g)
	}
}

func (h *Handler) routes(g gin.IRouter) {
	g.GET("/health", h.Health)
	g.GET("/ready", h.Ready)

	g.GET("/services", h.ListServices)
	g.POST("/check-availability", h.CheckAvailability)
	g.POST("/contact", h.Contact)
	g.POST("/book-event", h.BookEvent)
	g.GET("/booked-dates", h.BookedDates)
	g.GET("/events", h.ListGigs)
	g.GET("/events/:id", h.GetGig)

	// TODO: закрыть админские маршруты авторизацией, пока доступны всем.
	bookings := g.Group("/bookings")
	bookings.GET("", h.ListBookings)
	bookings.GET("/:id", h.GetBooking)
	bookings.POST("/:id/approve", h.ApproveBooking)
	bookings.POST("/:id/reject", h.RejectBooking)

	g.POST("/events", h.CreateGig)
	g.PUT("/events/:id", h.UpdateGig)
	g.DELETE("/events/:id", h.DeleteGig)
}
