package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	doctorerrors "clinicbook/internal/doctors/errors"
	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/model"
)

// DateLayout is the external wire format for availability dates.
const DateLayout = "2006-01-02"

// Availability enumerates the operating-hours slot starts of one day and
// subtracts the starts of active appointments. Plain read, no locking:
// two bookings racing this query are resolved by Book, not here.
// Weekend dates have no operating hours and return an empty list.
func (s *appointmentService) Availability(ctx context.Context, doctorID int64, date string) (*model.DayAvailability, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid date, must be YYYY-MM-DD")
	}

	if _, err := s.doctors.FindByID(ctx, doctorID); err != nil {
		if errors.Is(err, doctorerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Doctor", strconv.FormatInt(doctorID, 10))
		}
		return nil, apperrors.Internal("Failed to resolve doctor", err)
	}

	availability := &model.DayAvailability{
		DoctorID: doctorID,
		Date:     date,
		Slots:    []string{},
	}

	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return availability, nil
	}

	dayStart := day.Add(time.Duration(s.cfg.OpeningHour) * time.Hour)
	dayEnd := day.Add(time.Duration(s.cfg.ClosingHour) * time.Hour)

	booked, err := s.repo.FindByDoctorAndDay(ctx, doctorID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.Internal("Failed to load appointments", err)
	}

	taken := make(map[string]struct{}, len(booked))
	for _, appointment := range booked {
		taken[appointment.StartTime.Format("15:04")] = struct{}{}
	}

	for slot := dayStart; slot.Before(dayEnd); slot = slot.Add(s.cfg.SlotDuration()) {
		label := slot.Format("15:04")
		if _, ok := taken[label]; ok {
			continue
		}
		availability.Slots = append(availability.Slots, label)
	}

	return availability, nil
}
