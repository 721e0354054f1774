package models

import "time"

// Reservation - заявка на бронь в том виде, в каком её прислал клиент.
type Reservation struct {
	Name  string `json:"name" form:"name" validate:"required"`
	Email string `json:"email" form:"email" validate:"required"`
	Date  string `json:"date" form:"date" validate:"required"`
	Time  string `json:"time" form:"time" validate:"required"`
}

// StoredReservation - бронь после вставки в базу.
type StoredReservation struct {
	ID        int64
	CreatedAt time.Time
	Reservation
}
