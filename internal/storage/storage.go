package storage

import "errors"

var (
	ErrInvalidReservation = errors.New("reservation rejected by storage constraints")
)
