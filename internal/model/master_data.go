package model

import "time"

// Master data reference tables. Reports point at these by id; inactive rows are
// hidden from pickers but kept for historical reports.

// Location is a work site a report is filed against.
type Location struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LocationName string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"location_name"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Department is the organizational unit of the report creator.
type Department struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DeptName  string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"dept_name"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// DeptProyek is the department name that makes the project type field mandatory.
const DeptProyek = "Proyek"

// ProjectType classifies project work; only required for the Proyek department.
type ProjectType struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectName string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"project_name"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
