package repository

import "errors"

// ErrDuplicateAppointmentNumber is returned when a doctor already holds the
// appointment number being inserted.
var ErrDuplicateAppointmentNumber = errors.New("appointment number already issued for doctor")
