package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Leganyst/dj-booking/internal/response"
	"github.com/Leganyst/dj-booking/internal/service"
)

const msgEventDeleted = "Event deleted successfully"

// GET /events?status=
func (h *Handler) ListGigs(c *gin.Context) {
	gigs, err := h.gigs.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	out := make([]GigResponse, 0, len(gigs))
	for i := range gigs {
		out = append(out, toGigResponse(&gigs[i]))
	}
	response.OK(c, gin.H{"events": out})
}

// GET /events/:id
func (h *Handler) GetGig(c *gin.Context) {
	id, ok := h.gigID(c)
	if !ok {
		return
	}
	g, err := h.gigs.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.OK(c, gin.H{"event": toGigResponse(g)})
}

// POST /events
func (h *Handler) CreateGig(c *gin.Context) {
	var req service.GigInput
	if err := bindJSON(c, &req); err != nil {
		response.BadRequest(c, msgInvalidBody)
		return
	}
	g, err := h.gigs.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.Created(c, gin.H{"event": toGigResponse(g)})
}

// PUT /events/:id
func (h *Handler) UpdateGig(c *gin.Context) {
	id, ok := h.gigID(c)
	if !ok {
		return
	}
	var req service.GigPatch
	if err := bindJSON(c, &req); err != nil {
		response.BadRequest(c, msgInvalidBody)
		return
	}
	g, err := h.gigs.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.OK(c, gin.H{"event": toGigResponse(g)})
}

// DELETE /events/:id
func (h *Handler) DeleteGig(c *gin.Context) {
	id, ok := h.gigID(c)
	if !ok {
		return
	}
	if err := h.gigs.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.OK(c, gin.H{"message": msgEventDeleted})
}

func (h *Handler) gigID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return uuid.Nil, false
	}
	return id, true
}
