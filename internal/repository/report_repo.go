package repository

import (
	"context"
	"time"

	"lapor/internal/lifecycle"
	"lapor/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportFilter narrows the report list. Zero values mean "no filter".
type ReportFilter struct {
	CreatorID  *uuid.UUID
	LocationID uint
	DeptID     uint
	Since      time.Time // reports created at or after this instant
	Search     string    // matches creator name, location, department, project type
	Page       int
	Limit      int
}

type ReportRepository interface {
	Create(ctx context.Context, report *model.DailyReport) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DailyReport, error)
	FindByIDWithChildren(ctx context.Context, id uuid.UUID) (*model.DailyReport, error)
	List(ctx context.Context, filter ReportFilter) ([]model.DailyReport, int64, error)
	LatestByCreator(ctx context.Context, creatorID uuid.UUID) (*model.DailyReport, error)
	TasksByReport(ctx context.Context, reportID uuid.UUID) ([]model.ReportTask, error)
	UpdateScalars(ctx context.Context, report *model.DailyReport) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateTask(ctx context.Context, task *model.ReportTask) error
	CreateAttachments(ctx context.Context, attachments []model.ReportTaskAttachment) error
	CreateMaterials(ctx context.Context, materials []model.ReportMaterial) error
	CreatePlans(ctx context.Context, plans []model.ReportTomorrowPlan) error
	DeleteChildren(ctx context.Context, reportID uuid.UUID) error

	ApplyApproval(ctx context.Context, reportID uuid.UUID, change lifecycle.ApprovalChange) error
	AppendReader(ctx context.Context, reportID uuid.UUID, viewerID uuid.UUID) error

	StatsRows(ctx context.Context, creatorID *uuid.UUID) ([]model.DailyReport, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.DailyReport) error {
	return GetDB(ctx, r.db).Create(report).Error
}

func (r *reportRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.DailyReport, error) {
	var report model.DailyReport
	if err := GetDB(ctx, r.db).
		Preload("Creator").
		Preload("Location").
		Preload("Department").
		Preload("ProjectType").
		First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) FindByIDWithChildren(ctx context.Context, id uuid.UUID) (*model.DailyReport, error) {
	var report model.DailyReport
	if err := GetDB(ctx, r.db).
		Preload("Creator").
		Preload("Location").
		Preload("Department").
		Preload("ProjectType").
		Preload("Spv").
		Preload("Manager").
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Preload("Tasks.Attachments").
		Preload("Materials").
		Preload("TomorrowPlans", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, filter ReportFilter) ([]model.DailyReport, int64, error) {
	db := GetDB(ctx, r.db)

	base := db.Model(&model.DailyReport{})
	if filter.CreatorID != nil {
		base = base.Where("daily_reports.creator_id = ?", *filter.CreatorID)
	}
	if filter.LocationID != 0 {
		base = base.Where("daily_reports.location_id = ?", filter.LocationID)
	}
	if filter.DeptID != 0 {
		base = base.Where("daily_reports.dept_id = ?", filter.DeptID)
	}
	if !filter.Since.IsZero() {
		base = base.Where("daily_reports.created_at >= ?", filter.Since)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.
			Joins("LEFT JOIN users ON users.id = daily_reports.creator_id").
			Joins("LEFT JOIN locations ON locations.id = daily_reports.location_id").
			Joins("LEFT JOIN departments ON departments.id = daily_reports.dept_id").
			Joins("LEFT JOIN project_types ON project_types.id = daily_reports.project_type_id").
			Where("users.fullname ILIKE ? OR locations.location_name ILIKE ? OR departments.dept_name ILIKE ? OR project_types.project_name ILIKE ?",
				pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	offset := (filter.Page - 1) * filter.Limit

	var reports []model.DailyReport
	if err := base.
		Preload("Creator").
		Preload("Location").
		Preload("Department").
		Preload("ProjectType").
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Order("daily_reports.created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

func (r *reportRepository) LatestByCreator(ctx context.Context, creatorID uuid.UUID) (*model.DailyReport, error) {
	var report model.DailyReport
	err := GetDB(ctx, r.db).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) TasksByReport(ctx context.Context, reportID uuid.UUID) ([]model.ReportTask, error) {
	var tasks []model.ReportTask
	if err := GetDB(ctx, r.db).
		Where("report_id = ?", reportID).
		Order("order_index ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateScalars rewrites the report row's own columns only; children are
// replaced separately through DeleteChildren and the Create* methods.
func (r *reportRepository) UpdateScalars(ctx context.Context, report *model.DailyReport) error {
	return GetDB(ctx, r.db).Model(&model.DailyReport{}).
		Where("id = ?", report.ID).
		Updates(map[string]interface{}{
			"location_id":     report.LocationID,
			"dept_id":         report.DeptID,
			"project_type_id": report.ProjectTypeID,
			"tomorrow_plan":   report.TomorrowPlan,
			"important_notes": report.ImportantNotes,
			"status":          report.Status,
		}).Error
}

func (r *reportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.DailyReport{}).Error
}

func (r *reportRepository) CreateTask(ctx context.Context, task *model.ReportTask) error {
	return GetDB(ctx, r.db).Create(task).Error
}

func (r *reportRepository) CreateAttachments(ctx context.Context, attachments []model.ReportTaskAttachment) error {
	if len(attachments) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&attachments).Error
}

func (r *reportRepository) CreateMaterials(ctx context.Context, materials []model.ReportMaterial) error {
	if len(materials) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&materials).Error
}

func (r *reportRepository) CreatePlans(ctx context.Context, plans []model.ReportTomorrowPlan) error {
	if len(plans) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&plans).Error
}

// DeleteChildren removes every task (attachments cascade through the task
// delete), material, and tomorrow-plan of the report. Edits always replace
// the whole collection, never a partial diff.
func (r *reportRepository) DeleteChildren(ctx context.Context, reportID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Exec(
		"DELETE FROM report_task_attachments WHERE task_id IN (SELECT id FROM report_tasks WHERE report_id = ?)",
		reportID,
	).Error; err != nil {
		return err
	}
	if err := db.Where("report_id = ?", reportID).Delete(&model.ReportTask{}).Error; err != nil {
		return err
	}
	if err := db.Where("report_id = ?", reportID).Delete(&model.ReportMaterial{}).Error; err != nil {
		return err
	}
	return db.Where("report_id = ?", reportID).Delete(&model.ReportTomorrowPlan{}).Error
}

// ApplyApproval persists an approval as one conditional UPDATE. The WHERE
// clause re-checks that the approval slot is still empty, so two reviewers
// racing past the in-memory guard cannot both land: the loser matches zero
// rows and gets ErrAlreadyApproved.
func (r *reportRepository) ApplyApproval(ctx context.Context, reportID uuid.UUID, change lifecycle.ApprovalChange) error {
	db := GetDB(ctx, r.db)

	var res *gorm.DB
	switch change.Level {
	case lifecycle.LevelSpv:
		res = db.Model(&model.DailyReport{}).
			Where("id = ? AND approved_by_spv IS NULL", reportID).
			Updates(map[string]interface{}{
				"approved_by_spv": change.ApproverID,
				"approved_at_spv": change.At,
			})
	case lifecycle.LevelManager:
		res = db.Model(&model.DailyReport{}).
			Where("id = ? AND approved_by_manager IS NULL", reportID).
			Updates(map[string]interface{}{
				"approved_by_manager": change.ApproverID,
				"approved_at_manager": change.At,
				"status":              model.StatusVerified,
				"is_verified":         true,
				"verified_by":         change.ApproverID,
				"verified_at":         change.At,
			})
	default:
		return lifecycle.ErrUnauthorized
	}

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return lifecycle.ErrAlreadyApproved
	}
	return nil
}

// AppendReader adds the viewer to the reader-set and advances submitted ->
// read, in one UPDATE. The array_append is guarded against duplicates so
// concurrent first views stay idempotent.
func (r *reportRepository) AppendReader(ctx context.Context, reportID uuid.UUID, viewerID uuid.UUID) error {
	return GetDB(ctx, r.db).Exec(`
		UPDATE daily_reports
		SET read_by = array_append(read_by, ?),
		    status = CASE WHEN status = ? THEN ? ELSE status END
		WHERE id = ? AND NOT (read_by @> ARRAY[?]::text[])
	`, viewerID.String(), model.StatusSubmitted, model.StatusRead, reportID, viewerID.String()).Error
}

// StatsRows fetches the minimal column set the dashboard counters need.
func (r *reportRepository) StatsRows(ctx context.Context, creatorID *uuid.UUID) ([]model.DailyReport, error) {
	db := GetDB(ctx, r.db).Model(&model.DailyReport{}).
		Select("id", "status", "is_verified").
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Select("id", "report_id", "status") })
	if creatorID != nil {
		db = db.Where("creator_id = ?", *creatorID)
	}
	var reports []model.DailyReport
	if err := db.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}
