package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

func (r *ProjectRepo) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Technologies", func(db *gorm.DB) *gorm.DB {
			return db.Order("technologies.name ASC")
		})
}

// FindAll returns all projects, newest first
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.withAssociations(ctx).
		Order("projects.created_at DESC").
		Order("projects.title ASC").
		Find(&projects).Error
	return projects, err
}

// FindByTechnology returns every project tagged with the technology, newest first
func (r *ProjectRepo) FindByTechnology(ctx context.Context, technologyID uuid.UUID) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.withAssociations(ctx).
		Joins("JOIN project_technologies ON project_technologies.project_id = projects.id").
		Where("project_technologies.technology_id = ?", technologyID).
		Order("projects.created_at DESC").
		Order("projects.title ASC").
		Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.withAssociations(ctx).First(&project, "projects.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("project")
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByTitle returns the project with exactly this title
func (r *ProjectRepo) FindByTitle(ctx context.Context, title string) (*models.Project, error) {
	var project models.Project
	err := r.withAssociations(ctx).First(&project, "projects.title = ?", title).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("project")
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// TitleExists reports whether another project already uses the title.
// exclude is the project being edited and may be uuid.Nil.
func (r *ProjectRepo) TitleExists(ctx context.Context, title string, exclude uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{}).Where("title = ?", title)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *ProjectRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&count).Error
	return count, err
}

// Add inserts a new project and its technology associations
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}
		return replaceTechnologies(tx, project.ID, project.Technologies)
	})
}

// Update writes every editable column of the project and replaces its technology set.
// created_at is never written; updated_at is set to the current time.
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := tx.NowFunc()
		res := tx.Model(&models.Project{}).
			Where("id = ?", project.ID).
			Updates(map[string]any{
				"title":       project.Title,
				"description": project.Description,
				"category_id": project.CategoryID,
				"image":       project.Image,
				"link":        project.Link,
				"updated_at":  now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewNotFound("project")
		}
		project.UpdatedAt = now
		return replaceTechnologies(tx, project.ID, project.Technologies)
	})
}

// Delete removes a project and its technology associations
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectTechnology{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Project{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewNotFound("project")
		}
		return nil
	})
}

func replaceTechnologies(tx *gorm.DB, projectID uuid.UUID, technologies []models.Technology) error {
	if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectTechnology{}).Error; err != nil {
		return err
	}
	unique := lo.UniqBy(technologies, func(t models.Technology) uuid.UUID { return t.ID })
	if len(unique) == 0 {
		return nil
	}
	rows := lo.Map(unique, func(t models.Technology, _ int) models.ProjectTechnology {
		return models.ProjectTechnology{ProjectID: projectID, TechnologyID: t.ID}
	})
	return tx.Create(&rows).Error
}
