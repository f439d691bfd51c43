package service

import (
	"context"
	"errors"
	"testing"

	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/model"
)

func TestAvailabilityEmptyWeekday(t *testing.T) {
	cfg := newTestConfig()
	svc := newTestService(cfg, newFakeAppointmentStore(), newFakeSlotLockRepo(), newFakeDoctorRepo(drJones()), &fakePublisher{})

	availability, err := svc.Availability(context.Background(), 1, "2024-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if availability.DoctorID != 1 {
		t.Errorf("expected doctor 1, got %d", availability.DoctorID)
	}
	if availability.Date != "2024-01-15" {
		t.Errorf("expected date echoed back, got %q", availability.Date)
	}
	if len(availability.Slots) != 16 {
		t.Fatalf("expected 16 free slots, got %d: %v", len(availability.Slots), availability.Slots)
	}
	if availability.Slots[0] != "09:00" {
		t.Errorf("expected first slot 09:00, got %q", availability.Slots[0])
	}
	if availability.Slots[len(availability.Slots)-1] != "16:30" {
		t.Errorf("expected last slot 16:30, got %q", availability.Slots[len(availability.Slots)-1])
	}
}

func TestAvailabilityExcludesBookedSlot(t *testing.T) {
	cfg := newTestConfig()
	store := newFakeAppointmentStore()
	svc := newTestService(cfg, store, newFakeSlotLockRepo(), newFakeDoctorRepo(drJones()), &fakePublisher{})

	if _, err := svc.Book(context.Background(), &model.AppointmentRequest{
		DoctorID:    1,
		PatientName: "Jane Doe",
		Start:       "2024-01-16 10:00",
	}); err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	availability, err := svc.Availability(context.Background(), 1, "2024-01-16")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(availability.Slots) != 15 {
		t.Fatalf("expected 15 free slots, got %d", len(availability.Slots))
	}
	for _, slot := range availability.Slots {
		if slot == "10:00" {
			t.Error("booked slot 10:00 must not be listed as free")
		}
	}
}

func TestAvailabilityWeekendIsEmpty(t *testing.T) {
	cfg := newTestConfig()
	svc := newTestService(cfg, newFakeAppointmentStore(), newFakeSlotLockRepo(), newFakeDoctorRepo(drJones()), &fakePublisher{})

	for _, date := range []string{"2024-01-13", "2024-01-14"} {
		availability, err := svc.Availability(context.Background(), 1, date)
		if err != nil {
			t.Fatalf("Availability(%q) unexpected error: %v", date, err)
		}
		if availability.Slots == nil {
			t.Errorf("Availability(%q): expected empty list, got nil", date)
		}
		if len(availability.Slots) != 0 {
			t.Errorf("Availability(%q): expected no slots, got %v", date, availability.Slots)
		}
	}
}

func TestAvailabilityBadDate(t *testing.T) {
	cfg := newTestConfig()
	svc := newTestService(cfg, newFakeAppointmentStore(), newFakeSlotLockRepo(), newFakeDoctorRepo(drJones()), &fakePublisher{})

	for _, date := range []string{"", "15-01-2024", "2024/01/15", "not-a-date"} {
		_, err := svc.Availability(context.Background(), 1, date)
		if code := appErrCode(t, err); code != apperrors.CodeInvalidInput {
			t.Errorf("Availability(%q): expected %s, got %s", date, apperrors.CodeInvalidInput, code)
		}
	}
}

func TestAvailabilityUnknownDoctor(t *testing.T) {
	cfg := newTestConfig()
	svc := newTestService(cfg, newFakeAppointmentStore(), newFakeSlotLockRepo(), newFakeDoctorRepo(), &fakePublisher{})

	_, err := svc.Availability(context.Background(), 42, "2024-01-15")
	if code := appErrCode(t, err); code != apperrors.CodeNotFound {
		t.Errorf("expected %s, got %s", apperrors.CodeNotFound, code)
	}
}

func TestAvailabilityRepeatedReadsAreStable(t *testing.T) {
	cfg := newTestConfig()
	store := newFakeAppointmentStore()
	svc := newTestService(cfg, store, newFakeSlotLockRepo(), newFakeDoctorRepo(drJones()), &fakePublisher{})

	if _, err := svc.Book(context.Background(), &model.AppointmentRequest{
		DoctorID:    1,
		PatientName: "Jane Doe",
		Start:       "2024-01-15 09:00",
	}); err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	first, err := svc.Availability(context.Background(), 1, "2024-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Availability(context.Background(), 1, "2024-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first.Slots) != len(second.Slots) {
		t.Fatalf("reads disagree: %d vs %d slots", len(first.Slots), len(second.Slots))
	}
	for i := range first.Slots {
		if first.Slots[i] != second.Slots[i] {
			t.Errorf("slot %d differs: %q vs %q", i, first.Slots[i], second.Slots[i])
		}
	}
}

func TestAvailabilityUnchangedAfterFailedBooking(t *testing.T) {
	cfg := newTestConfig()
	store := newFakeAppointmentStore()
	svc := newTestService(cfg, store, newFakeSlotLockRepo(), newFakeDoctorRepo(drJones()), &fakePublisher{})

	before, err := svc.Availability(context.Background(), 1, "2024-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store.insertErr = errors.New("storage unavailable")
	if _, err := svc.Book(context.Background(), &model.AppointmentRequest{
		DoctorID:    1,
		PatientName: "Jane Doe",
		Start:       "2024-01-15 11:00",
	}); err == nil {
		t.Fatal("expected booking to fail")
	}
	store.insertErr = nil

	after, err := svc.Availability(context.Background(), 1, "2024-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(after.Slots) != len(before.Slots) {
		t.Errorf("aborted booking changed availability: %d vs %d slots", len(after.Slots), len(before.Slots))
	}
}
