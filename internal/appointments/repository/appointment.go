package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appointmenterrors "clinicbook/internal/appointments/errors"
	"clinicbook/pkg/config"
	mongotx "clinicbook/pkg/db/mongo"
	"clinicbook/pkg/model"
)

const (
	CollectionName = "Appointments"
)

// AppointmentRepository is the narrow booking store surface. The two
// slot-reservation operations, LockOverlapping and InsertActive, are only
// meaningful inside an open ExecuteTransaction scope.
type AppointmentRepository interface {
	LockOverlapping(ctx context.Context, doctorID int64, start, end time.Time) ([]*model.Appointment, error)
	InsertActive(ctx context.Context, appointment *model.Appointment) error
	FindByDoctorAndDay(ctx context.Context, doctorID int64, dayStart, dayEnd time.Time) ([]*model.Appointment, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoAppointmentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoAppointmentRepository(cfg *config.Config) AppointmentRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoAppointmentRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo.Client),
	}
}

// withTimeout wraps the context with a timeout unless it is already a
// session context: wrapping a SessionContext would break transaction
// semantics, so inside a transaction the context passes through with a
// no-op cancel.
func (r *mongoAppointmentRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}

	return context.WithTimeout(ctx, timeout)
}

// LockOverlapping returns every active appointment of the doctor whose
// half-open interval overlaps [start, end):
// start_time < end AND end_time > start.
func (r *mongoAppointmentRepository) LockOverlapping(ctx context.Context, doctorID int64, start, end time.Time) ([]*model.Appointment, error) {
	filter := bson.M{
		"doctor_id":  doctorID,
		"status":     model.StatusActive,
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read overlapping appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appointments []*model.Appointment
	if err = cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping appointments: %w", err)
	}

	return appointments, nil
}

// InsertActive persists the appointment with status "active". The unique
// partial index on (doctor_id, start_time, end_time) rejects a second
// identical active slot; that is surfaced as ErrDuplicateSlot so the
// service can classify it as a conflict.
func (r *mongoAppointmentRepository) InsertActive(ctx context.Context, appointment *model.Appointment) error {
	appointment.Status = model.StatusActive
	appointment.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, appointment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return appointmenterrors.ErrDuplicateSlot
		}
		return fmt.Errorf("failed to insert appointment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		appointment.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAppointmentRepository) FindByDoctorAndDay(ctx context.Context, doctorID int64, dayStart, dayEnd time.Time) ([]*model.Appointment, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"doctor_id":  doctorID,
		"status":     model.StatusActive,
		"start_time": bson.M{"$gte": dayStart, "$lt": dayEnd},
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appointments []*model.Appointment
	if err = cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}

	return appointments, nil
}

func (r *mongoAppointmentRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
