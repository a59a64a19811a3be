package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups projects; a project belongs to at most one
type Category struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name string    `json:"name" db:"name" gorm:"type:varchar(50);not null;uniqueIndex:idx_categories_name"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
