package dto

import (
	"time"

	"github.com/tickethub/reservation-service/internal/models"
)

type ReservationResponse struct {
	ID          uint      `json:"id"`
	EventID     uint      `json:"event_id"`
	UserID      uint      `json:"user_id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	PostCode    int       `json:"post_code"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
}

type ReservationPageResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
	Total        int64                 `json:"total"`
}

type EventResponse struct {
	ID                 uint      `json:"id"`
	Name               string    `json:"name"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	MaxAttendees       int       `json:"max_attendees"`
	ReservationStartAt time.Time `json:"reservation_start_at"`
	ReservationEndAt   time.Time `json:"reservation_end_at"`
}

type EventStatusResponse struct {
	ID                 uint      `json:"id"`
	Name               string    `json:"name"`
	MaxAttendees       int       `json:"max_attendees"`
	TotalAttendees     int       `json:"total_attendees"`
	SlotsAvailable     int       `json:"slots_available"`
	ReservationStartAt time.Time `json:"reservation_start_at"`
	ReservationEndAt   time.Time `json:"reservation_end_at"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToReservationResponse(r *models.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:          r.ID,
		EventID:     r.EventID,
		UserID:      r.UserID,
		Name:        r.Name,
		PhoneNumber: r.PhoneNumber,
		PostCode:    r.PostCode,
		Address:     r.Address,
		CreatedAt:   r.CreatedAt,
	}
}

func ToEventResponse(e *models.Event) EventResponse {
	return EventResponse{
		ID:                 e.ID,
		Name:               e.Name,
		StartDate:          e.StartDate,
		EndDate:            e.EndDate,
		MaxAttendees:       e.MaxAttendees,
		ReservationStartAt: e.ReservationStartAt,
		ReservationEndAt:   e.ReservationEndAt,
	}
}

func ToEventStatusResponse(e *models.Event) EventStatusResponse {
	return EventStatusResponse{
		ID:                 e.ID,
		Name:               e.Name,
		MaxAttendees:       e.MaxAttendees,
		TotalAttendees:     e.TotalAttendees,
		SlotsAvailable:     e.MaxAttendees - e.TotalAttendees,
		ReservationStartAt: e.ReservationStartAt,
		ReservationEndAt:   e.ReservationEndAt,
	}
}
