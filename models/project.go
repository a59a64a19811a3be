package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project represents a portfolio entry shown on the site and served by the API
type Project struct {
	ID           uuid.UUID    `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title        string       `json:"title" db:"title" gorm:"type:varchar(100);not null;uniqueIndex:idx_projects_title"`
	Description  string       `json:"description" db:"description" gorm:"type:text;not null"`
	CategoryID   *uuid.UUID   `json:"category_id,omitempty" db:"category_id" gorm:"type:uuid;index:idx_projects_category_id"`
	Image        *string      `json:"image,omitempty" db:"image" gorm:"type:varchar(255)"`
	Link         *string      `json:"link,omitempty" db:"link" gorm:"type:varchar(200)"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at" gorm:"not null;autoCreateTime;<-:create;index:idx_projects_created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at" gorm:"not null;autoUpdateTime"`
	Category     *Category    `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Technologies []Technology `json:"technologies,omitempty" gorm:"many2many:project_technologies;constraint:OnDelete:CASCADE"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TechnologyNames returns the names of the technologies attached to the project
func (p Project) TechnologyNames() []string {
	names := make([]string, 0, len(p.Technologies))
	for _, t := range p.Technologies {
		names = append(names, t.Name)
	}
	return names
}

// HasTechnology reports whether the technology is attached to the project
func (p Project) HasTechnology(id uuid.UUID) bool {
	for _, t := range p.Technologies {
		if t.ID == id {
			return true
		}
	}
	return false
}

// ProjectTechnology is a row of the project/technology association table
type ProjectTechnology struct {
	ProjectID    uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;primaryKey"`
	TechnologyID uuid.UUID `json:"technology_id" db:"technology_id" gorm:"type:uuid;primaryKey"`
}

func (ProjectTechnology) TableName() string {
	return "project_technologies"
}
