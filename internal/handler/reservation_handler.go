package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tickethub/reservation-service/internal/dto"
	"github.com/tickethub/reservation-service/internal/service"
)

// HeaderUserID carries the caller's identity, resolved by the gateway in
// front of this service. It is treated as an opaque, already-authenticated
// user id.
const HeaderUserID = "X-User-ID"

type ReservationHandler struct {
	svc service.ReservationService
}

func NewReservationHandler(svc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

func (h *ReservationHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/events/:id/reservations", h.CreateReservation)
	e.GET("/api/v1/reservations/:id", h.GetReservation)
	e.PATCH("/api/v1/reservations/:id", h.UpdateReservation)
	e.DELETE("/api/v1/reservations/:id", h.DeleteReservation)
	e.GET("/api/v1/users/:id/reservations", h.ListReservations)
}

func callerID(c echo.Context) (uint, error) {
	raw := c.Request().Header.Get(HeaderUserID)
	if raw == "" {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "X-User-ID header is required")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid X-User-ID header")
	}
	return uint(id), nil
}

func pathID(c echo.Context, what string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+what)
	}
	return uint(id), nil
}

func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	eventID, err := pathID(c, "event id")
	if err != nil {
		return err
	}
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req dto.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	reservation, err := h.svc.CreateReservation(c.Request().Context(), eventID, userID, service.ContactInfo{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		PostCode:    req.PostCode,
		Address:     req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEntityNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrDateNotAllowed):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEventSoldOut):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToReservationResponse(reservation))
}

func (h *ReservationHandler) GetReservation(c echo.Context) error {
	id, err := pathID(c, "reservation id")
	if err != nil {
		return err
	}

	reservation, err := h.svc.GetReservation(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEntityNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "reservation not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

func (h *ReservationHandler) UpdateReservation(c echo.Context) error {
	id, err := pathID(c, "reservation id")
	if err != nil {
		return err
	}

	var req dto.UpdateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.EventID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "event_id is required")
	}

	reservation, err := h.svc.UpdateReservation(c.Request().Context(), id, req.EventID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEntityNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrDateNotAllowed):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEventSoldOut):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

func (h *ReservationHandler) DeleteReservation(c echo.Context) error {
	id, err := pathID(c, "reservation id")
	if err != nil {
		return err
	}
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteReservation(c.Request().Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrEntityNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *ReservationHandler) ListReservations(c echo.Context) error {
	userID, err := pathID(c, "user id")
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	reservations, total, err := h.svc.ListReservations(c.Request().Context(), userID, page, pageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := dto.ReservationPageResponse{
		Reservations: make([]dto.ReservationResponse, len(reservations)),
		Page:         page,
		PageSize:     pageSize,
		Total:        total,
	}
	for i, r := range reservations {
		resp.Reservations[i] = dto.ToReservationResponse(&r)
	}

	return c.JSON(http.StatusOK, resp)
}
