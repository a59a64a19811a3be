package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Technology is a tag such as a language or framework used by projects
type Technology struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name string    `json:"name" db:"name" gorm:"type:varchar(50);not null;uniqueIndex:idx_technologies_name"`
}

func (t *Technology) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
