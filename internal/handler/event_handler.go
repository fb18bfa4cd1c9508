package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tickethub/reservation-service/internal/cache"
	"github.com/tickethub/reservation-service/internal/dto"
	"github.com/tickethub/reservation-service/internal/repository"
	"gorm.io/gorm"
)

// EventHandler serves the read-only event surface over the locally synced
// event rows. These reads never take the row lock.
type EventHandler struct {
	eventRepo  repository.EventRepository
	eventCache *cache.EventCache
}

func NewEventHandler(eventRepo repository.EventRepository, eventCache *cache.EventCache) *EventHandler {
	return &EventHandler{eventRepo: eventRepo, eventCache: eventCache}
}

func (h *EventHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/events/:id", h.GetEvent)
	e.GET("/api/v1/events/:id/status", h.GetEventStatus)
}

func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := pathID(c, "event id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	if event, ok := h.eventCache.Get(ctx, id); ok {
		return c.JSON(http.StatusOK, dto.ToEventResponse(event))
	}

	event, err := h.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load event")
	}
	h.eventCache.Set(ctx, event)

	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

// GetEventStatus reports live capacity, so it always reads the database; the
// cached copy may carry a stale counter.
func (h *EventHandler) GetEventStatus(c echo.Context) error {
	id, err := pathID(c, "event id")
	if err != nil {
		return err
	}

	event, err := h.eventRepo.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load event")
	}

	return c.JSON(http.StatusOK, dto.ToEventStatusResponse(event))
}
