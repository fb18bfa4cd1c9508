package dto

type CreateReservationRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	PostCode    int    `json:"post_code"`
	Address     string `json:"address"`
}

type UpdateReservationRequest struct {
	EventID uint `json:"event_id"`
}
