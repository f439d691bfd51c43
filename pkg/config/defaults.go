package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "clinicbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Slot geometry is fixed system-wide: the unique index on
	// (doctor_id, start_time, end_time) only covers every overlap case
	// because all slots share one duration and one alignment.
	DefaultSlotDurationMin = 30
	DefaultOpeningHour     = 9
	DefaultClosingHour     = 17

	DefaultSlotLockAttempts = 20
	DefaultSlotLockBackoff  = 100 * time.Millisecond
	DefaultSlotLockTTL      = 10 * time.Second

	DefaultKafkaBrokers           = "localhost:9092"
	DefaultKafkaAppointmentsTopic = "appointments.events"

	DefaultPaginationLimit = 100
)
