package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	appointmenterrors "clinicbook/internal/appointments/errors"
	"clinicbook/internal/appointments/events"
	"clinicbook/internal/appointments/repository"
	"clinicbook/internal/appointments/validator"
	doctorerrors "clinicbook/internal/doctors/errors"
	doctorrepo "clinicbook/internal/doctors/repository"
	"clinicbook/pkg/config"
	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/model"
	"clinicbook/pkg/sanitizer"
)

// ConflictMessage is the single caller-visible conflict reason. Both
// detection layers (the in-transaction overlap read and the unique index
// at insert) surface it identically.
const ConflictMessage = "slot already booked, choose another"

type AppointmentService interface {
	Book(ctx context.Context, req *model.AppointmentRequest) (*model.BookedAppointment, error)
	Availability(ctx context.Context, doctorID int64, date string) (*model.DayAvailability, error)
}

type appointmentService struct {
	repo      repository.AppointmentRepository
	lockRepo  repository.SlotLockRepository
	doctors   doctorrepo.DoctorRepository
	validator *validator.SlotValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	lockRepo repository.SlotLockRepository,
	doctors doctorrepo.DoctorRepository,
	slotValidator *validator.SlotValidator,
	publisher events.Publisher,
	cfg *config.Config,
) AppointmentService {
	return &appointmentService{
		repo:      repo,
		lockRepo:  lockRepo,
		doctors:   doctors,
		validator: slotValidator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Book runs the slot reservation as a strict sequence:
// validate, resolve doctor, acquire the per-slot advisory lock, then one
// transaction doing the overlap read and the insert. Every failure after
// the transaction opens rolls it back; the lock is released on every
// exit path. The service keeps no state between calls.
func (s *appointmentService) Book(ctx context.Context, req *model.AppointmentRequest) (*model.BookedAppointment, error) {
	req.PatientName = sanitizer.NormalizePatientName(req.PatientName)

	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "error", err)
		return nil, apperrors.Validation("Invalid booking request", map[string]any{"error": err.Error()})
	}

	start, end, err := s.validator.NormalizeSlot(req.Start)
	if err != nil {
		s.cfg.Log.Warn("Slot validation failed", "start", req.Start, "error", err)
		return nil, apperrors.Validation("Invalid slot start", map[string]any{"error": err.Error()})
	}

	doctor, err := s.doctors.FindByID(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, doctorerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Doctor", strconv.FormatInt(req.DoctorID, 10))
		}
		return nil, apperrors.Internal("Failed to resolve doctor", err)
	}

	lockID, err := s.acquireSlotLock(ctx, req.DoctorID, start)
	if err != nil {
		return nil, err
	}
	defer func() {
		// The lock must come off even if the caller disconnected.
		releaseCtx := context.WithoutCancel(ctx)
		if releaseErr := s.lockRepo.Release(releaseCtx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	appointment := &model.Appointment{
		DoctorID:    req.DoctorID,
		PatientName: req.PatientName,
		StartTime:   start,
		EndTime:     end,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.LockOverlapping(sessCtx, req.DoctorID, start, end)
		if err != nil {
			return apperrors.Internal("Failed to check overlapping appointments", err)
		}
		if len(existing) > 0 {
			return apperrors.Conflict(ConflictMessage)
		}

		if err := s.repo.InsertActive(sessCtx, appointment); err != nil {
			if errors.Is(err, appointmenterrors.ErrDuplicateSlot) {
				return apperrors.Conflict(ConflictMessage)
			}
			return apperrors.Internal("Failed to create appointment", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to book appointment",
			"doctor_id", req.DoctorID,
			"start_time", start,
			"error", err,
		)
		return nil, apperrors.AsAppError(err)
	}

	s.cfg.Log.Info("Appointment booked",
		"id", appointment.ID,
		"doctor_id", appointment.DoctorID,
		"start_time", appointment.StartTime,
	)

	s.publishCreated(ctx, appointment)

	return &model.BookedAppointment{
		ID:          appointment.ID,
		DoctorID:    appointment.DoctorID,
		DoctorName:  doctor.Name,
		PatientName: appointment.PatientName,
		StartTime:   appointment.StartTime,
		EndTime:     appointment.EndTime,
		Status:      appointment.Status,
	}, nil
}

// acquireSlotLock claims the advisory lock for (doctor, start), waiting
// out a concurrent holder with bounded backoff. Because slots are fixed
// length and grid aligned, every pair of overlapping candidate windows
// shares its start, so the per-start lock serializes all attempts that
// could race on the same region while disjoint slots proceed in
// parallel. Exhausting the wait is an infrastructure condition, not a
// booking conflict: the caller may retry the same slot.
func (s *appointmentService) acquireSlotLock(ctx context.Context, doctorID int64, start time.Time) (string, error) {
	lockID := fmt.Sprintf("slot_%d_%d", doctorID, start.Unix())

	for attempt := 0; attempt < s.cfg.SlotLockAttempts; attempt++ {
		lock := &model.SlotLock{
			ID:        lockID,
			Owner:     uuid.NewString(),
			ExpiresAt: time.Now().Add(s.cfg.SlotLockTTL),
		}

		err := s.lockRepo.Acquire(ctx, lock)
		if err == nil {
			return lockID, nil
		}
		if !errors.Is(err, appointmenterrors.ErrLockHeld) {
			return "", apperrors.Internal("Failed to acquire slot lock", err)
		}

		select {
		case <-ctx.Done():
			return "", apperrors.Internal("Booking interrupted while waiting for slot lock", ctx.Err())
		case <-time.After(s.cfg.SlotLockBackoff):
		}
	}

	s.cfg.Log.Error("Slot lock wait exhausted", "lock_id", lockID, "attempts", s.cfg.SlotLockAttempts)
	return "", apperrors.Internal("Timed out waiting for slot lock", appointmenterrors.ErrLockHeld)
}

func (s *appointmentService) publishCreated(ctx context.Context, appointment *model.Appointment) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.AppointmentCreated(ctx, appointment); err != nil {
		// The booking is committed; event delivery failure must not
		// surface to the caller.
		s.cfg.Log.Warn("Failed to publish appointment.created event",
			"id", appointment.ID,
			"error", err,
		)
	}
}
