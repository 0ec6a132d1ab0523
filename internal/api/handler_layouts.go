package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seating-backend/internal/geometry"
)

// GetLayouts handles GET /api/layouts.
func (h *Handler) GetLayouts(c *gin.Context) {
	layouts, err := h.layouts.GetAllLayouts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, layouts)
}

// GetLayout handles GET /api/layouts/:layout_id.
func (h *Handler) GetLayout(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("layout_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid layout id"})
		return
	}

	layout, err := h.layouts.GetLayout(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, layout)
}

// GetLayoutBounds handles GET /api/layouts/:layout_id/bounds, returning
// the canvas box the layout editor sizes itself to.
func (h *Handler) GetLayoutBounds(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("layout_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid layout id"})
		return
	}

	layout, err := h.layouts.GetLayout(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, geometry.Bounds(layout.Sections, h.tableDiameter))
}
