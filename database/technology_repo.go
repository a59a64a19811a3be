package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
)

type TechnologyRepo struct {
	db *gorm.DB
}

func NewTechnologyRepo(db *gorm.DB) *TechnologyRepo {
	return &TechnologyRepo{db}
}

// FindAll returns all technologies ordered by name
func (r *TechnologyRepo) FindAll(ctx context.Context) ([]*models.Technology, error) {
	var technologies []*models.Technology
	err := r.db.WithContext(ctx).Order("name ASC").Find(&technologies).Error
	return technologies, err
}

func (r *TechnologyRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Technology, error) {
	var technology models.Technology
	err := r.db.WithContext(ctx).First(&technology, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("technology")
	}
	if err != nil {
		return nil, err
	}
	return &technology, nil
}

// FindByName matches the name exactly, including case
func (r *TechnologyRepo) FindByName(ctx context.Context, name string) (*models.Technology, error) {
	var technology models.Technology
	err := r.db.WithContext(ctx).First(&technology, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("technology")
	}
	if err != nil {
		return nil, err
	}
	return &technology, nil
}

// NameExists reports whether another technology already uses the name
func (r *TechnologyRepo) NameExists(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Technology{}).Where("name = ?", name)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *TechnologyRepo) Add(ctx context.Context, technology *models.Technology) error {
	return r.db.WithContext(ctx).Create(technology).Error
}

func (r *TechnologyRepo) Update(ctx context.Context, technology *models.Technology) error {
	res := r.db.WithContext(ctx).Model(&models.Technology{}).
		Where("id = ?", technology.ID).
		Update("name", technology.Name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("technology")
	}
	return nil
}

// Delete removes the technology from every project that uses it, then the technology itself.
// Projects are never deleted.
func (r *TechnologyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("technology_id = ?", id).Delete(&models.ProjectTechnology{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Technology{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewNotFound("technology")
		}
		return nil
	})
}
