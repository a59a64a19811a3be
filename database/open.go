package database

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/samber/lo"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
	_ "modernc.org/sqlite"

	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/errs"
)

// DefaultLogger is the gorm logger used when the caller does not supply one
func DefaultLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
}

// Open connects to the configured database. gormConfig may be nil.
// Replica DSNs, when present, are registered as read replicas of the same driver.
func Open(cfg config.DatabaseConfig, gormConfig *gorm.Config) (*gorm.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	if gormConfig == nil {
		gormConfig = &gorm.Config{}
	}
	if gormConfig.Logger == nil {
		gormConfig.Logger = DefaultLogger()
	}
	gormConfig.PrepareStmt = false

	db, err := gorm.Open(dialector(cfg.Type, dsn), gormConfig)
	if err != nil {
		return nil, errs.NewDatabaseError("connect to", "database", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Type == config.DBTypeSQLite {
		// sqlite allows a single writer, and an in-memory database lives only as long as its connection
		sqlDB.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if len(cfg.ReplicaDSNs) > 0 {
		replicas := lo.Map(cfg.ReplicaDSNs, func(replicaDSN string, _ int) gorm.Dialector {
			return dialector(cfg.Type, replicaDSN)
		})
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, errs.NewDatabaseError("register replicas for", "database", err)
		}
	}

	if err := New(db).Ping(context.Background()); err != nil {
		return nil, errs.NewDatabaseError("ping", "database", err)
	}

	return db, nil
}

func dialector(dbType, dsn string) gorm.Dialector {
	if dbType == config.DBTypeSQLite {
		return sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn})
	}
	return postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	})
}
