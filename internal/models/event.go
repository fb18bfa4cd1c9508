package models

import "time"

// Event is a local replica of an event owned by the upstream event service.
// Rows arrive via the AMQP entity consumer; only TotalAttendees is mutated
// here, and only inside a locked reservation transaction.
type Event struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Name               string    `gorm:"not null" json:"name"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	MaxAttendees       int       `gorm:"not null" json:"max_attendees"`
	TotalAttendees     int       `gorm:"not null;default:0" json:"total_attendees"`
	ReservationStartAt time.Time `gorm:"not null" json:"reservation_start_at"`
	ReservationEndAt   time.Time `gorm:"not null" json:"reservation_end_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
