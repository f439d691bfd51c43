package model

import "time"

// SlotLock is an advisory lock document keyed by (doctor, slot start).
// Inserting it claims the slot for the duration of one booking attempt;
// a duplicate key error means another attempt currently holds it.
// ExpiresAt backs a TTL index so a crashed holder cannot wedge the slot.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
