package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seating-backend/internal/model"
)

// EvaluatePreferences handles GET /api/reservations/:reservation_id/preferences.
// It reports, per stored option, whether every seat in the option is
// currently free on the reservation's date.
func (h *Handler) EvaluatePreferences(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("reservation_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	statuses, err := h.matcher.Evaluate(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}

// AssignFromPreference handles
// POST /api/reservations/:reservation_id/preferences/:option/assign.
// A 409 means a seat in the option was taken since the last evaluate;
// the client offers another option instead of retrying.
func (h *Handler) AssignFromPreference(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("reservation_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}
	option, err := strconv.Atoi(c.Param("option"))
	if err != nil || option < 1 || option > model.MaxPreferenceOptions {
		c.JSON(http.StatusBadRequest, gin.H{"error": "option must be between 1 and 3"})
		return
	}

	allocations, err := h.matcher.AssignFrom(c.Request.Context(), id, option)
	if err != nil {
		writeError(c, err)
		return
	}

	h.bustCache()
	c.JSON(http.StatusCreated, allocations)
}
