package model

import (
	"time"
)

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Appointment is one booked slot. EndTime is always StartTime plus the
// fixed slot duration; StartTime alone determines the interval.
// Rows are never deleted, only transitioned out of "active".
type Appointment struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	DoctorID    int64     `json:"doctor_id" bson:"doctor_id" validate:"required,gt=0"`
	PatientName string    `json:"patient_name" bson:"patient_name" validate:"required,min=1,max=255"`
	StartTime   time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status      string    `json:"status" bson:"status" validate:"required,oneof=active cancelled completed"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// AppointmentRequest is the external booking request shape. Start is a
// naive local timestamp at minute granularity, e.g. "2024-01-15 09:00".
type AppointmentRequest struct {
	DoctorID    int64  `json:"doctor_id" validate:"required,gt=0"`
	PatientName string `json:"patient_name" validate:"required,min=1,max=255"`
	Start       string `json:"start" validate:"required"`
}

// DayAvailability lists the free slot starts ("09:00", "09:30", ...) of
// one doctor on one date.
type DayAvailability struct {
	DoctorID int64    `json:"doctor_id"`
	Date     string   `json:"date"`
	Slots    []string `json:"slots"`
}

// BookedAppointment is the success response, enriched with the doctor's
// display data.
type BookedAppointment struct {
	ID          string    `json:"id"`
	DoctorID    int64     `json:"doctor_id"`
	DoctorName  string    `json:"doctor_name"`
	PatientName string    `json:"patient_name"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
}
