package events

import (
	"context"
	"strconv"
	"time"

	"clinicbook/pkg/config"
	"clinicbook/pkg/kafka"
	"clinicbook/pkg/model"
)

const EventTypeAppointmentCreated = "appointment.created"

// AppointmentCreatedEvent is the payload published after a booking
// commits. Keyed by doctor id so per-doctor ordering is preserved.
type AppointmentCreatedEvent struct {
	AppointmentID string    `json:"appointment_id"`
	DoctorID      int64     `json:"doctor_id"`
	PatientName   string    `json:"patient_name"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
}

// Publisher emits domain events. Publishing is best-effort: the booking
// has already committed when it is called.
type Publisher interface {
	AppointmentCreated(ctx context.Context, appointment *model.Appointment) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(cfg *config.Config, source string) (Publisher, error) {
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaAppointmentsTopic)
	if err != nil {
		return nil, err
	}
	return &kafkaPublisher{
		producer: producer,
		source:   source,
	}, nil
}

func (p *kafkaPublisher) AppointmentCreated(ctx context.Context, appointment *model.Appointment) error {
	msg := kafka.NewMessage().
		WithKey(strconv.FormatInt(appointment.DoctorID, 10)).
		WithValue(AppointmentCreatedEvent{
			AppointmentID: appointment.ID,
			DoctorID:      appointment.DoctorID,
			PatientName:   appointment.PatientName,
			StartTime:     appointment.StartTime,
			EndTime:       appointment.EndTime,
			Status:        appointment.Status,
		}).
		WithEventType(EventTypeAppointmentCreated).
		WithSource(p.source).
		Build()

	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}
