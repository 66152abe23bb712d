package repositories

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/maxaizer/talentflow/internal/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SchemaVersion is the only layout this build reads and writes.
const SchemaVersion = 1

const defaultBusyTimeout = 5 * time.Second

type schemaVersion struct {
	ID      int
	Version int
}

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string, plugins ...gorm.Plugin) (*DbContext, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite has a single writer; one connection also serializes transactions
	sqlDB.SetMaxOpenConns(1)

	dbContext := &DbContext{DB: db}
	if err = dbContext.SetBusyTimeout(defaultBusyTimeout); err != nil {
		return nil, err
	}

	for _, plugin := range plugins {
		if err = db.Use(plugin); err != nil {
			return nil, fmt.Errorf("failed to use plugin %s: %w", plugin.Name(), err)
		}
	}

	return dbContext, nil
}

// SetBusyTimeout sets how long a statement waits for a locked database file.
func (c *DbContext) SetBusyTimeout(timeout time.Duration) error {
	if err := c.DB.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", timeout.Milliseconds())).Error; err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}
	return nil
}

func (c *DbContext) Migrate() error {
	err := c.DB.AutoMigrate(schemaVersion{})
	if err != nil {
		return fmt.Errorf("failed to migrate schema version: %w", err)
	}

	var current schemaVersion
	result := c.DB.Limit(1).Find(&current)
	if result.Error != nil {
		return fmt.Errorf("failed to read schema version: %w", result.Error)
	}
	if result.RowsAffected > 0 && current.Version != SchemaVersion {
		return fmt.Errorf("store schema version %d is not supported, expected %d", current.Version, SchemaVersion)
	}

	err = c.DB.AutoMigrate(entities.Job{})
	if err != nil {
		return fmt.Errorf("failed to migrate Job entity: %w", err)
	}

	err = c.DB.AutoMigrate(entities.Candidate{})
	if err != nil {
		return fmt.Errorf("failed to migrate Candidate entity: %w", err)
	}

	err = c.DB.AutoMigrate(entities.Assessment{})
	if err != nil {
		return fmt.Errorf("failed to migrate Assessment entity: %w", err)
	}

	err = c.DB.AutoMigrate(entities.Response{})
	if err != nil {
		return fmt.Errorf("failed to migrate Response entity: %w", err)
	}

	if result.RowsAffected == 0 {
		if err = c.DB.Create(&schemaVersion{Version: SchemaVersion}).Error; err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}

	return nil
}

func (c *DbContext) Store() *Store {
	return NewStore(c.DB)
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
