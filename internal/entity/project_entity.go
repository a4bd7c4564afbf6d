package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project is the persisted form of a builder document: the full component
// tree serialized as JSON. The schema stays flat on purpose; the document
// structure lives in the payload, not in relations.
type Project struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string
	Components datatypes.JSON
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
