package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"seating-backend/internal/engine"
	"seating-backend/internal/prefs"
	"seating-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.AllocationStore
	layouts store.LayoutStore
	engine  *engine.Engine
	matcher *prefs.Matcher
	webpush *webpush.Options

	tableDiameter float64
	bustCache     func() // flushes the GET response cache after a successful write
}

// NewHandler creates a new API handler.
func NewHandler(s store.AllocationStore, layouts store.LayoutStore, eng *engine.Engine, matcher *prefs.Matcher, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:     s,
		layouts:   layouts,
		engine:    eng,
		matcher:   matcher,
		webpush:   webpushOptions,
		bustCache: func() {},
	}
}

// writeError maps engine and store failures onto HTTP statuses. All four
// typed failures are expected outcomes of normal operation; each implies
// a different corrective action for the caller.
func writeError(c *gin.Context, err error) {
	var (
		conflict  *store.ConflictError
		notFound  *store.NotFoundError
		mismatch  *engine.PartySizeMismatchError
		malformed *engine.ValidationError
	)
	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error(), "seat": conflict.SeatLabel})
	case errors.As(err, &mismatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": mismatch.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &malformed):
		c.JSON(http.StatusBadRequest, gin.H{"error": malformed.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
