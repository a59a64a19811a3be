package database

import (
	"context"

	"gorm.io/gorm"
)

type Database struct {
	db             *gorm.DB
	projectRepo    *ProjectRepo
	technologyRepo *TechnologyRepo
	categoryRepo   *CategoryRepo
	userRepo       *UserRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:             db,
		projectRepo:    NewProjectRepo(db),
		technologyRepo: NewTechnologyRepo(db),
		categoryRepo:   NewCategoryRepo(db),
		userRepo:       NewUserRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) TechnologyRepo() *TechnologyRepo {
	return d.technologyRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

// Ping checks that the database answers a trivial query
func (d Database) Ping(ctx context.Context) error {
	var result int
	return d.db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error
}
