package types

import (
	"time"
)

// BaseModel is a base model for all domain models that need to be persisted
// in the database. Any changes to this model should be reflected in the
// database schema by updating the migrations.
type BaseModel struct {
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func GetDefaultBaseModel() BaseModel {
	now := time.Now().UTC()
	return BaseModel{
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
