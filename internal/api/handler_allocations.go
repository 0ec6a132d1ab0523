package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"seating-backend/internal/engine"
	"seating-backend/internal/model"
	"seating-backend/internal/occupant"
)

// assignRequest is the body of the seat-now and reserve endpoints.
type assignRequest struct {
	OccupantKind    string     `json:"occupant_kind" binding:"required,oneof=reservation waitlist"`
	OccupantID      int64      `json:"occupant_id" binding:"required"`
	LayoutID        int64      `json:"layout_id"`
	SeatLabels      []string   `json:"seat_labels" binding:"required"`
	Date            string     `json:"date"` // "2006-01-02", restaurant-local
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationMinutes int        `json:"duration_minutes"`
}

func (r *assignRequest) toEngine(loc *time.Location) (engine.AssignRequest, error) {
	req := engine.AssignRequest{
		Occupant:   occupant.Ref{Kind: model.OccupantKind(r.OccupantKind), ID: r.OccupantID},
		LayoutID:   r.LayoutID,
		SeatLabels: r.SeatLabels,
		Start:      r.StartTime,
		End:        r.EndTime,
		Duration:   time.Duration(r.DurationMinutes) * time.Minute,
	}
	if r.Date != "" {
		date, err := time.ParseInLocation("2006-01-02", r.Date, loc)
		if err != nil {
			return engine.AssignRequest{}, err
		}
		req.Date = date
	}
	return req, nil
}

// SeatNow handles POST /api/allocations/seat-now.
func (h *Handler) SeatNow(c *gin.Context) {
	h.assign(c, h.engine.SeatNow)
}

// Reserve handles POST /api/allocations/reserve.
func (h *Handler) Reserve(c *gin.Context) {
	h.assign(c, h.engine.Reserve)
}

func (h *Handler) assign(c *gin.Context, op func(ctx context.Context, req engine.AssignRequest) ([]model.SeatAllocation, error)) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	engineReq, err := req.toEngine(h.engine.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	allocations, err := op(c.Request.Context(), engineReq)
	if err != nil {
		writeError(c, err)
		return
	}

	h.bustCache()
	c.JSON(http.StatusCreated, allocations)
}

// occupantRef extracts the occupant reference from the URL.
func occupantRef(c *gin.Context) (occupant.Ref, bool) {
	kind := model.OccupantKind(c.Param("kind"))
	if kind != model.OccupantReservation && kind != model.OccupantWaitlist {
		c.JSON(http.StatusBadRequest, gin.H{"error": "occupant kind must be reservation or waitlist"})
		return occupant.Ref{}, false
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid occupant id"})
		return occupant.Ref{}, false
	}
	return occupant.Ref{Kind: kind, ID: id}, true
}

// Arrive handles POST /api/occupants/:kind/:id/arrive.
func (h *Handler) Arrive(c *gin.Context) {
	h.lifecycle(c, h.engine.Arrive)
}

// Finish handles POST /api/occupants/:kind/:id/finish.
func (h *Handler) Finish(c *gin.Context) {
	h.lifecycle(c, h.engine.Finish)
}

// NoShow handles POST /api/occupants/:kind/:id/no-show.
func (h *Handler) NoShow(c *gin.Context) {
	h.lifecycle(c, h.engine.NoShow)
}

// Cancel handles POST /api/occupants/:kind/:id/cancel.
func (h *Handler) Cancel(c *gin.Context) {
	h.lifecycle(c, h.engine.Cancel)
}

func (h *Handler) lifecycle(c *gin.Context, op func(ctx context.Context, ref occupant.Ref) error) {
	ref, ok := occupantRef(c)
	if !ok {
		return
	}
	if err := op(c.Request.Context(), ref); err != nil {
		writeError(c, err)
		return
	}
	h.bustCache()
	c.Status(http.StatusNoContent)
}

// GetAllocations handles GET /api/allocations?date=YYYY-MM-DD[&section_id=...].
func (h *Handler) GetAllocations(c *gin.Context) {
	dateParam := c.Query("date")
	if dateParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}
	date, err := time.ParseInLocation("2006-01-02", dateParam, h.engine.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	var sectionIDs []int64
	for _, raw := range c.QueryArray("section_id") {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid section id"})
			return
		}
		sectionIDs = append(sectionIDs, id)
	}

	allocations, err := h.engine.ActiveAllocations(c.Request.Context(), date, sectionIDs...)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, allocations)
}
