package service

import (
	"context"

	"lapor/internal/model"
	"lapor/internal/repository"
)

type CreateLocationRequest struct {
	LocationName string `json:"location_name" binding:"required"`
}

type CreateDepartmentRequest struct {
	DeptName string `json:"dept_name" binding:"required"`
}

type CreateProjectTypeRequest struct {
	ProjectName string `json:"project_name" binding:"required"`
}

// MasterData bundles the three reference lists the report form needs in one
// round trip.
type MasterData struct {
	Locations    []model.Location    `json:"locations"`
	Departments  []model.Department  `json:"departments"`
	ProjectTypes []model.ProjectType `json:"project_types"`
}

type MasterDataService interface {
	GetAll(ctx context.Context, activeOnly bool) (*MasterData, error)
	CreateLocation(ctx context.Context, req CreateLocationRequest) (*model.Location, error)
	CreateDepartment(ctx context.Context, req CreateDepartmentRequest) (*model.Department, error)
	CreateProjectType(ctx context.Context, req CreateProjectTypeRequest) (*model.ProjectType, error)
	SetLocationActive(ctx context.Context, id uint, active bool) error
	SetDepartmentActive(ctx context.Context, id uint, active bool) error
	SetProjectTypeActive(ctx context.Context, id uint, active bool) error
}

type masterDataService struct {
	repo repository.MasterDataRepository
}

func NewMasterDataService(repo repository.MasterDataRepository) MasterDataService {
	return &masterDataService{repo: repo}
}

func (s *masterDataService) GetAll(ctx context.Context, activeOnly bool) (*MasterData, error) {
	locations, err := s.repo.ListLocations(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	departments, err := s.repo.ListDepartments(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	projectTypes, err := s.repo.ListProjectTypes(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return &MasterData{
		Locations:    locations,
		Departments:  departments,
		ProjectTypes: projectTypes,
	}, nil
}

func (s *masterDataService) CreateLocation(ctx context.Context, req CreateLocationRequest) (*model.Location, error) {
	loc := &model.Location{LocationName: req.LocationName, IsActive: true}
	if err := s.repo.CreateLocation(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *masterDataService) CreateDepartment(ctx context.Context, req CreateDepartmentRequest) (*model.Department, error) {
	dept := &model.Department{DeptName: req.DeptName, IsActive: true}
	if err := s.repo.CreateDepartment(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *masterDataService) CreateProjectType(ctx context.Context, req CreateProjectTypeRequest) (*model.ProjectType, error) {
	pt := &model.ProjectType{ProjectName: req.ProjectName, IsActive: true}
	if err := s.repo.CreateProjectType(ctx, pt); err != nil {
		return nil, err
	}
	return pt, nil
}

func (s *masterDataService) SetLocationActive(ctx context.Context, id uint, active bool) error {
	return s.repo.SetLocationActive(ctx, id, active)
}

func (s *masterDataService) SetDepartmentActive(ctx context.Context, id uint, active bool) error {
	return s.repo.SetDepartmentActive(ctx, id, active)
}

func (s *masterDataService) SetProjectTypeActive(ctx context.Context, id uint, active bool) error {
	return s.repo.SetProjectTypeActive(ctx, id, active)
}
