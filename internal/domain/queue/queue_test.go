package queue

import (
	"testing"

	"hospital-queue/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestNextNumber(t *testing.T) {
	tests := []struct {
		name string
		max  int
		want int
	}{
		{"no appointments", 0, 1},
		{"negative treated as empty", -3, 1},
		{"after first", 1, 2},
		{"after gap", 41, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextNumber(tt.max))
		})
	}
}

func TestNext_ScopesByDoctor(t *testing.T) {
	appointments := []entity.Appointment{
		{DoctorID: 1, AppointmentNumber: 1},
		{DoctorID: 2, AppointmentNumber: 1},
		{DoctorID: 1, AppointmentNumber: 3},
		{DoctorID: 2, AppointmentNumber: 2},
		{DoctorID: 1, AppointmentNumber: 2},
	}

	assert.Equal(t, 4, Next(appointments, 1))
	assert.Equal(t, 3, Next(appointments, 2))
	assert.Equal(t, 1, Next(appointments, 3))
	assert.Equal(t, 1, Next(nil, 1))
}

func TestNext_SequentialRegistrations(t *testing.T) {
	var appointments []entity.Appointment
	order := []uint{1, 2, 1, 1, 2, 3, 1}
	issued := map[uint][]int{}

	for i, doctorID := range order {
		n := Next(appointments, doctorID)
		appointments = append(appointments, entity.Appointment{ID: uint(i + 1), DoctorID: doctorID, AppointmentNumber: n})
		issued[doctorID] = append(issued[doctorID], n)
	}

	assert.Equal(t, []int{1, 2, 3, 4}, issued[1])
	assert.Equal(t, []int{1, 2}, issued[2])
	assert.Equal(t, []int{1}, issued[3])
}

func TestSortAppointments(t *testing.T) {
	views := []entity.AppointmentView{
		{AppointmentID: 3, DoctorName: "Dr. Park", AppointmentNumber: 1, PatientName: "Bob"},
		{AppointmentID: 4, DoctorName: "Dr. Lee", AppointmentNumber: 2, PatientName: "Carl"},
		{AppointmentID: 1, DoctorName: "Dr. Lee", AppointmentNumber: 1, PatientName: "Alice"},
	}

	SortAppointments(views)

	got := make([]string, len(views))
	for i, v := range views {
		got[i] = v.PatientName
	}
	assert.Equal(t, []string{"Alice", "Carl", "Bob"}, got)
	assert.True(t, IsOrdered(views))
}

func TestSortAppointments_IdempotentAndStable(t *testing.T) {
	views := []entity.AppointmentView{
		{AppointmentID: 10, DoctorName: "B", AppointmentNumber: 1},
		{AppointmentID: 11, DoctorName: "A", AppointmentNumber: 1},
		{AppointmentID: 12, DoctorName: "A", AppointmentNumber: 1},
		{AppointmentID: 13, DoctorName: "A", AppointmentNumber: 0},
	}

	SortAppointments(views)
	once := append([]entity.AppointmentView(nil), views...)
	SortAppointments(views)

	assert.Equal(t, once, views)
	assert.Equal(t, []uint{13, 11, 12, 10}, []uint{views[0].AppointmentID, views[1].AppointmentID, views[2].AppointmentID, views[3].AppointmentID})
}

func TestSortAppointments_SharedDoctorNameInterleaves(t *testing.T) {
	views := []entity.AppointmentView{
		{DoctorID: 1, DoctorName: "Dr. Kim", AppointmentNumber: 2},
		{DoctorID: 2, DoctorName: "Dr. Kim", AppointmentNumber: 1},
		{DoctorID: 1, DoctorName: "Dr. Kim", AppointmentNumber: 1},
	}

	SortAppointments(views)

	assert.Equal(t, []uint{2, 1, 1}, []uint{views[0].DoctorID, views[1].DoctorID, views[2].DoctorID})
}

func TestIsOrdered(t *testing.T) {
	assert.True(t, IsOrdered(nil))
	assert.False(t, IsOrdered([]entity.AppointmentView{
		{DoctorName: "Dr. Lee", AppointmentNumber: 2},
		{DoctorName: "Dr. Lee", AppointmentNumber: 1},
	}))
}
