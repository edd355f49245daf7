package database

import (
	"fmt"
	"log"
	"time"

	"lapor/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Options tunes the underlying sql.DB pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string, opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.Location{},
		&model.Department{},
		&model.ProjectType{},
		&model.DailyReport{},
		&model.ReportTask{},
		&model.ReportTaskAttachment{},
		&model.ReportMaterial{},
		&model.ReportTomorrowPlan{},
		&model.Notification{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// SeedMasterData inserts the default departments and an initial location when
// the reference tables are empty, so a fresh install has working pickers.
func SeedMasterData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Department{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count departments: %w", err)
	}
	if count > 0 {
		return nil
	}

	depts := []model.Department{
		{DeptName: "Operasional"},
		{DeptName: "Maintenance"},
		{DeptName: model.DeptProyek},
		{DeptName: "Administrasi"},
	}
	if err := db.Create(&depts).Error; err != nil {
		return fmt.Errorf("seed departments: %w", err)
	}

	loc := model.Location{LocationName: "Kantor Pusat"}
	if err := db.Create(&loc).Error; err != nil {
		return fmt.Errorf("seed location: %w", err)
	}

	log.Println("Seeded default master data")
	return nil
}
