// Package queue holds the first-come-first-served numbering and display
// ordering rules for doctor appointment queues. Both are pure: storage and
// locking live in the service layer.
package queue

import (
	"sort"

	"hospital-queue/internal/domain/entity"
)

// FirstNumber is the number given to a doctor's first appointment.
const FirstNumber = 1

// NextNumber returns the number following the highest one already issued.
// A max below FirstNumber means the doctor has no appointments yet.
func NextNumber(max int) int {
	if max < FirstNumber {
		return FirstNumber
	}
	return max + 1
}

// MaxNumber returns the highest appointment number held by doctorID in
// appointments, or 0 when there is none.
func MaxNumber(appointments []entity.Appointment, doctorID uint) int {
	max := 0
	for _, a := range appointments {
		if a.DoctorID == doctorID && a.AppointmentNumber > max {
			max = a.AppointmentNumber
		}
	}
	return max
}

// Next computes the next appointment number for doctorID from the given set.
func Next(appointments []entity.Appointment, doctorID uint) int {
	return NextNumber(MaxNumber(appointments, doctorID))
}

func less(a, b entity.AppointmentView) bool {
	if a.DoctorName != b.DoctorName {
		return a.DoctorName < b.DoctorName
	}
	return a.AppointmentNumber < b.AppointmentNumber
}

// SortAppointments orders views by doctor name, then appointment number, in
// place. The sort is stable, so equal keys keep their input order and sorting
// already ordered input changes nothing.
func SortAppointments(views []entity.AppointmentView) {
	sort.SliceStable(views, func(i, j int) bool {
		return less(views[i], views[j])
	})
}

// IsOrdered reports whether views already satisfy SortAppointments.
func IsOrdered(views []entity.AppointmentView) bool {
	return sort.SliceIsSorted(views, func(i, j int) bool {
		return less(views[i], views[j])
	})
}
