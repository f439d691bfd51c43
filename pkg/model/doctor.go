package model

// Doctor is a bookable resource. Rows are read-shared and never mutated
// by the booking core.
type Doctor struct {
	ID        int64  `json:"id" bson:"_id" validate:"required,gt=0"`
	Name      string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Specialty string `json:"specialty" bson:"specialty" validate:"required,min=2,max=100"`
}
