package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tailor-service/internal/model"
	"tailor-service/pkg/config"
)

var DB *gorm.DB

// Initialize opens the PostgreSQL connection, configures the pool and
// migrates all models.
func Initialize(cfg *config.Config) error {
	var err error

	// PreferSimpleProtocol disables implicit prepared statement usage,
	// which avoids "prepared statement already exists" errors behind
	// connection poolers.
	pgConfig := postgres.Config{
		DSN:                  cfg.DB.GetDSN(),
		PreferSimpleProtocol: true,
	}

	DB, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.DB.LogLevel),
	})
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		return err
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("Failed to get database connection: %v", err)
		return err
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	if err := MigrateModels(DB); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	fmt.Println("Database connected and migrated successfully")
	return nil
}

// MigrateModels runs AutoMigrate for every model in the service. Tests
// reuse it against their own database instances.
func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Tenant{},
		&model.TenantSettings{},
		&model.SubscriptionPlan{},
		&model.TenantSubscription{},
		&model.Worker{},
		&model.Customer{},
		&model.Inquiry{},
		&model.ItemType{},
		&model.OrderStatus{},
		&model.OrderPriority{},
		&model.WorkflowStage{},
		&model.Order{},
		&model.OrderItem{},
		&model.Invoice{},
		&model.Payment{},
		&model.TenantSequence{},
		&model.StageEvent{},
	)
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
