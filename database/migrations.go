package database

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-site/models"
)

// Migrations lists every schema change in the order it was introduced
func Migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202501060001_create_portfolio_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Category{}, &models.Technology{}, &models.Project{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("project_technologies", &models.Project{}, &models.Technology{}, &models.Category{})
			},
		},
		{
			ID: "202501060002_create_users",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.User{})
			},
		},
	}
}

// Migrate applies all pending migrations
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, Migrations())
	return m.Migrate()
}

// RollbackLast reverts the most recently applied migration
func RollbackLast(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, Migrations())
	return m.RollbackLast()
}
