package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSlotDurationMin  = "SLOT_DURATION_MIN"
	EnvOpeningHour      = "OPENING_HOUR"
	EnvClosingHour      = "CLOSING_HOUR"
	EnvSlotLockAttempts = "SLOT_LOCK_ATTEMPTS"
	EnvSlotLockBackoff  = "SLOT_LOCK_BACKOFF"
	EnvSlotLockTTL      = "SLOT_LOCK_TTL"

	EnvKafkaBrokers           = "KAFKA_BROKERS"
	EnvKafkaAppointmentsTopic = "KAFKA_APPOINTMENTS_TOPIC"
)
