package repository

import (
	"context"

	"lapor/internal/model"

	"gorm.io/gorm"
)

// MasterDataRepository serves the reference tables reports point at.
type MasterDataRepository interface {
	ListLocations(ctx context.Context, activeOnly bool) ([]model.Location, error)
	ListDepartments(ctx context.Context, activeOnly bool) ([]model.Department, error)
	ListProjectTypes(ctx context.Context, activeOnly bool) ([]model.ProjectType, error)
	GetDepartment(ctx context.Context, id uint) (*model.Department, error)
	CreateLocation(ctx context.Context, loc *model.Location) error
	CreateDepartment(ctx context.Context, dept *model.Department) error
	CreateProjectType(ctx context.Context, pt *model.ProjectType) error
	SetLocationActive(ctx context.Context, id uint, active bool) error
	SetDepartmentActive(ctx context.Context, id uint, active bool) error
	SetProjectTypeActive(ctx context.Context, id uint, active bool) error
}

type masterDataRepository struct {
	db *gorm.DB
}

func NewMasterDataRepository(db *gorm.DB) MasterDataRepository {
	return &masterDataRepository{db: db}
}

func (r *masterDataRepository) ListLocations(ctx context.Context, activeOnly bool) ([]model.Location, error) {
	var out []model.Location
	db := GetDB(ctx, r.db).Order("location_name ASC")
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	if err := db.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *masterDataRepository) ListDepartments(ctx context.Context, activeOnly bool) ([]model.Department, error) {
	var out []model.Department
	db := GetDB(ctx, r.db).Order("dept_name ASC")
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	if err := db.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *masterDataRepository) ListProjectTypes(ctx context.Context, activeOnly bool) ([]model.ProjectType, error) {
	var out []model.ProjectType
	db := GetDB(ctx, r.db).Order("project_name ASC")
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	if err := db.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *masterDataRepository) GetDepartment(ctx context.Context, id uint) (*model.Department, error) {
	var dept model.Department
	if err := GetDB(ctx, r.db).First(&dept, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *masterDataRepository) CreateLocation(ctx context.Context, loc *model.Location) error {
	return GetDB(ctx, r.db).Create(loc).Error
}

func (r *masterDataRepository) CreateDepartment(ctx context.Context, dept *model.Department) error {
	return GetDB(ctx, r.db).Create(dept).Error
}

func (r *masterDataRepository) CreateProjectType(ctx context.Context, pt *model.ProjectType) error {
	return GetDB(ctx, r.db).Create(pt).Error
}

func (r *masterDataRepository) SetLocationActive(ctx context.Context, id uint, active bool) error {
	return GetDB(ctx, r.db).Model(&model.Location{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *masterDataRepository) SetDepartmentActive(ctx context.Context, id uint, active bool) error {
	return GetDB(ctx, r.db).Model(&model.Department{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *masterDataRepository) SetProjectTypeActive(ctx context.Context, id uint, active bool) error {
	return GetDB(ctx, r.db).Model(&model.ProjectType{}).Where("id = ?", id).Update("is_active", active).Error
}
