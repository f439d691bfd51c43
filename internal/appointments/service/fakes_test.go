package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	appointmenterrors "clinicbook/internal/appointments/errors"
	doctorerrors "clinicbook/internal/doctors/errors"
	mongotx "clinicbook/pkg/db/mongo"
	"clinicbook/pkg/model"
)

// ────────────────────────────────────────────────
// In-memory appointment store
// ────────────────────────────────────────────────

// fakeAppointmentStore substitutes Mongo for deterministic concurrency
// tests. It keeps the two guarantees the service relies on: the unique
// active-slot constraint inside InsertActive, and all-or-nothing
// visibility per ExecuteTransaction (snapshot restore on error, one
// transaction at a time).
type fakeAppointmentStore struct {
	mu           sync.Mutex
	txMu         sync.Mutex
	appointments []*model.Appointment
	nextID       int
	insertErr    error
}

func newFakeAppointmentStore() *fakeAppointmentStore {
	return &fakeAppointmentStore{}
}

func (f *fakeAppointmentStore) LockOverlapping(_ context.Context, doctorID int64, start, end time.Time) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.Appointment
	for _, a := range f.appointments {
		if a.DoctorID == doctorID && a.Status == model.StatusActive &&
			a.StartTime.Before(end) && a.EndTime.After(start) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) InsertActive(_ context.Context, appointment *model.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return f.insertErr
	}

	for _, a := range f.appointments {
		if a.DoctorID == appointment.DoctorID && a.Status == model.StatusActive &&
			a.StartTime.Equal(appointment.StartTime) && a.EndTime.Equal(appointment.EndTime) {
			return appointmenterrors.ErrDuplicateSlot
		}
	}

	f.nextID++
	appointment.ID = fmt.Sprintf("appt-%d", f.nextID)
	appointment.Status = model.StatusActive
	appointment.CreatedAt = time.Now()
	f.appointments = append(f.appointments, appointment)
	return nil
}

func (f *fakeAppointmentStore) FindByDoctorAndDay(_ context.Context, doctorID int64, dayStart, dayEnd time.Time) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.Appointment
	for _, a := range f.appointments {
		if a.DoctorID == doctorID && a.Status == model.StatusActive &&
			!a.StartTime.Before(dayStart) && a.StartTime.Before(dayEnd) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.mu.Lock()
	snapshot := append([]*model.Appointment(nil), f.appointments...)
	f.mu.Unlock()

	var sessCtx mongo.SessionContext
	if err := fn(sessCtx); err != nil {
		f.mu.Lock()
		f.appointments = snapshot
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeAppointmentStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.appointments)
}

// ────────────────────────────────────────────────
// In-memory slot lock repository
// ────────────────────────────────────────────────

type fakeSlotLockRepo struct {
	mu   sync.Mutex
	held map[string]string

	acquireErr error
}

func newFakeSlotLockRepo() *fakeSlotLockRepo {
	return &fakeSlotLockRepo{held: make(map[string]string)}
}

func (f *fakeSlotLockRepo) Acquire(_ context.Context, lock *model.SlotLock) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.acquireErr != nil {
		return f.acquireErr
	}
	if _, ok := f.held[lock.ID]; ok {
		return appointmenterrors.ErrLockHeld
	}
	f.held[lock.ID] = lock.Owner
	return nil
}

func (f *fakeSlotLockRepo) Release(_ context.Context, lockID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.held, lockID)
	return nil
}

func (f *fakeSlotLockRepo) heldCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.held)
}

// ────────────────────────────────────────────────
// Doctor repository fake
// ────────────────────────────────────────────────

type fakeDoctorRepo struct {
	doctors map[int64]*model.Doctor
}

func newFakeDoctorRepo(doctors ...*model.Doctor) *fakeDoctorRepo {
	m := make(map[int64]*model.Doctor, len(doctors))
	for _, d := range doctors {
		m[d.ID] = d
	}
	return &fakeDoctorRepo{doctors: m}
}

func (f *fakeDoctorRepo) FindByID(_ context.Context, id int64) (*model.Doctor, error) {
	if d, ok := f.doctors[id]; ok {
		return d, nil
	}
	return nil, doctorerrors.ErrNotFound
}

func (f *fakeDoctorRepo) FindAll(_ context.Context, limit int, offset int64) ([]*model.Doctor, error) {
	var out []*model.Doctor
	for _, d := range f.doctors {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDoctorRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.doctors)), nil
}

// ────────────────────────────────────────────────
// Event publisher fake
// ────────────────────────────────────────────────

type fakePublisher struct {
	mu         sync.Mutex
	published  []*model.Appointment
	publishErr error
}

func (f *fakePublisher) AppointmentCreated(_ context.Context, appointment *model.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, appointment)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) publishedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}
