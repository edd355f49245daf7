package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"lapor/internal/lifecycle"
	"lapor/internal/model"
	"lapor/internal/planner"
	"lapor/internal/repository"
	ws "lapor/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- DTOs ---

type AttachmentInput struct {
	Type string `json:"type" binding:"required,oneof=image document link"`
	URL  string `json:"url" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type TaskInput struct {
	Description       string            `json:"description" binding:"required"`
	ResponsiblePerson string            `json:"responsible_person"`
	Status            string            `json:"status" binding:"required,oneof='Dalam Proses' 'Selesai' 'Bermasalah'" example:"Dalam Proses"`
	Attachments       []AttachmentInput `json:"attachments"`
}

type MaterialInput struct {
	ItemName string          `json:"item_name" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Unit     string          `json:"unit" binding:"required"`
}

type PlanInput struct {
	Description       string `json:"description" binding:"required"`
	ResponsiblePerson string `json:"responsible_person"`
}

// SubmitReportRequest carries the full report payload for both create and
// edit. Children always replace the previous collections wholesale.
type SubmitReportRequest struct {
	LocationID     uint            `json:"location_id" binding:"required"`
	DeptID         uint            `json:"dept_id" binding:"required"`
	ProjectTypeID  *uint           `json:"project_type_id"`
	ImportantNotes string          `json:"important_notes"`
	AsDraft        bool            `json:"as_draft"`
	Tasks          []TaskInput     `json:"tasks"`
	Materials      []MaterialInput `json:"materials"`
	TomorrowPlans  []PlanInput     `json:"tomorrow_plans"`
}

// ListReportsQuery is the dashboard filter set.
type ListReportsQuery struct {
	LocationID uint
	DeptID     uint
	DateFilter string // today, week, month, all
	Search     string
	Page       int
	Limit      int
}

// PlanSuggestionRequest feeds the stateless tomorrow-plan derivation.
type PlanSuggestionRequest struct {
	Plans []planner.PlanItem `json:"plans"`
	Tasks []planner.TaskItem `json:"tasks"`
}

var (
	ErrReportNotFound = errors.New("report not found")
	ErrNotCreator     = errors.New("only the report creator may modify it")
	ErrReportLocked   = errors.New("report is verified and can no longer be modified")
)

// --- Interface ---

// ReportService owns the daily report lifecycle: the submission write path,
// the read/approve transitions, dashboard queries, and plan derivation.
type ReportService interface {
	Create(ctx context.Context, creatorID string, req SubmitReportRequest) (*model.DailyReport, error)
	Update(ctx context.Context, actorID string, reportID string, req SubmitReportRequest) (*model.DailyReport, error)
	SubmitDraft(ctx context.Context, actorID string, reportID string) (*model.DailyReport, error)
	Delete(ctx context.Context, actorID string, reportID string) error

	GetDetail(ctx context.Context, viewerID string, reportID string) (*model.DailyReport, error)
	List(ctx context.Context, viewerID, viewerRole string, query ListReportsQuery) ([]model.DailyReport, int64, error)
	Stats(ctx context.Context, viewerID, viewerRole string) (model.ReportStats, error)

	Approve(ctx context.Context, approverID, approverRole string, reportID string) (*model.DailyReport, error)

	CarryOverTasks(ctx context.Context, creatorID string) ([]planner.TaskItem, error)
	PlanSuggestions(req PlanSuggestionRequest) []planner.PlanItem
	Summary(ctx context.Context, reportID string) (string, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	masterRepo repository.MasterDataRepository
	userRepo   repository.UserRepository
	notifRepo  repository.NotificationRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
	hub        *ws.Hub
	logger     *zap.Logger
}

func NewReportService(
	reportRepo repository.ReportRepository,
	masterRepo repository.MasterDataRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	logger *zap.Logger,
) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		masterRepo: masterRepo,
		userRepo:   userRepo,
		notifRepo:  notifRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
		hub:        hub,
		logger:     logger,
	}
}

// --- Submission write path ---

// legacyPlanText renders the denormalized tomorrow_plan column kept for older
// report views: one "- description (PJ: person)" line per plan.
func legacyPlanText(plans []PlanInput) *string {
	if len(plans) == 0 {
		return nil
	}
	lines := make([]string, 0, len(plans))
	for _, p := range plans {
		lines = append(lines, fmt.Sprintf("- %s (PJ: %s)", p.Description, p.ResponsiblePerson))
	}
	text := strings.Join(lines, "\n")
	return &text
}

func (s *reportService) validate(ctx context.Context, req SubmitReportRequest) error {
	var deptName string
	if req.DeptID != 0 {
		dept, err := s.masterRepo.GetDepartment(ctx, req.DeptID)
		if err != nil {
			return &lifecycle.ValidationError{Field: "dept_id", Reason: "does not exist"}
		}
		deptName = dept.DeptName
	}
	return lifecycle.ValidateSubmission(req.LocationID, req.DeptID, deptName, req.ProjectTypeID)
}

// Create persists a new report and its children. The report row and the task
// rows are essential: any failure there aborts and surfaces to the caller.
// Attachment, material, and plan failures are logged and swallowed: the
// report stays committed without them. There is deliberately no outer
// transaction spanning the whole sequence.
func (s *reportService) Create(ctx context.Context, creatorID string, req SubmitReportRequest) (*model.DailyReport, error) {
	creatorUUID, err := uuid.Parse(creatorID)
	if err != nil {
		return nil, fmt.Errorf("invalid creator id: %w", err)
	}

	if req.AsDraft {
		// Drafts may be incomplete, but the row itself needs its references
		if req.LocationID == 0 || req.DeptID == 0 {
			return nil, &lifecycle.ValidationError{Field: "location_id/dept_id", Reason: "is required"}
		}
	} else if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	status := model.StatusSubmitted
	if req.AsDraft {
		status = model.StatusDraft
	}

	var notes *string
	if req.ImportantNotes != "" {
		notes = &req.ImportantNotes
	}

	report := &model.DailyReport{
		CreatorID:      creatorUUID,
		LocationID:     req.LocationID,
		DeptID:         req.DeptID,
		ProjectTypeID:  req.ProjectTypeID,
		TomorrowPlan:   legacyPlanText(req.TomorrowPlans),
		ImportantNotes: notes,
		Status:         status,
		ReportDate:     time.Now(),
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	if err := s.insertChildren(ctx, report.ID, req); err != nil {
		return nil, err
	}

	if !req.AsDraft {
		s.afterSubmit(ctx, report, creatorUUID, model.ActionSubmitReport)
	}
	s.hub.PublishChange("daily_reports", ws.ActionInsert, report.ID.String())

	return s.reportRepo.FindByIDWithChildren(ctx, report.ID)
}

/// insertChildren runs the shared child-insert sequence: tasks (with their
// attachments), then materials, then tomorrow-plans, all with 0-based order
// indexes. Task failures propagate; the rest degrade to warnings.
func (s *reportService) insertChildren(ctx context.Context, reportID uuid.UUID, req SubmitReportRequest) error {
	for idx, t := range req.Tasks {
		var person *string
		if t.ResponsiblePerson != "" {
			p := t.ResponsiblePerson
			person = &p
		}
		task := model.ReportTask{
			ReportID:          reportID,
			TaskDescription:   t.Description,
			ResponsiblePerson: person,
			Status:            t.Status,
			OrderIndex:        idx,
		}
		if err := s.reportRepo.CreateTask(ctx, &task); err != nil {
			return fmt.Errorf("failed to insert task %d: %w", idx, err)
		}

		if len(t.Attachments) > 0 {
			attachments := make([]model.ReportTaskAttachment, 0, len(t.Attachments))
			for _, a := range t.Attachments {
				attachments = append(attachments, model.ReportTaskAttachment{
					TaskID:   task.ID,
					FileType: a.Type,
					FileURL:  a.URL,
					FileName: a.Name,
				})
			}
			if err := s.reportRepo.CreateAttachments(ctx, attachments); err != nil {
				s.logger.Warn("attachment insert failed",
					zap.String("report_id", reportID.String()),
					zap.String("task_id", task.ID.String()),
					zap.Error(err))
			}
		}
	}

	if len(req.Materials) > 0 {
		materials := make([]model.ReportMaterial, 0, len(req.Materials))
		for _, m := range req.Materials {
			materials = append(materials, model.ReportMaterial{
				ReportID: reportID,
				ItemName: m.ItemName,
				Quantity: m.Quantity,
				Unit:     m.Unit,
			})
		}
		if err := s.reportRepo.CreateMaterials(ctx, materials); err != nil {
			s.logger.Warn("material insert failed",
				zap.String("report_id", reportID.String()),
				zap.Error(err))
		}
	}

	if len(req.TomorrowPlans) > 0 {
		plans := make([]model.ReportTomorrowPlan, 0, len(req.TomorrowPlans))
		for idx, p := range req.TomorrowPlans {
			var person *string
			if p.ResponsiblePerson != "" {
				rp := p.ResponsiblePerson
				person = &rp
			}
			plans = append(plans, model.ReportTomorrowPlan{
				ReportID:          reportID,
				PlanDescription:   p.Description,
				ResponsiblePerson: person,
				OrderIndex:        idx,
			})
		}
		if err := s.reportRepo.CreatePlans(ctx, plans); err != nil {
			s.logger.Warn("tomorrow plan insert failed",
				zap.String("report_id", reportID.String()),
				zap.Error(err))
		}
	}

	return nil
}

// afterSubmit fans out reviewer notifications and the audit entry. Both are
// best-effort: the report is already committed.
func (s *reportService) afterSubmit(ctx context.Context, report *model.DailyReport, creatorUUID uuid.UUID, action string) {
	reviewers, err := s.userRepo.ListReviewers(ctx)
	if err != nil {
		s.logger.Warn("failed to list reviewers for notification", zap.Error(err))
	} else {
		link := "/report/" + report.ID.String()
		notifs := make([]model.Notification, 0, len(reviewers))
		for _, r := range reviewers {
			if r.ID == creatorUUID {
				continue
			}
			notifs = append(notifs, model.Notification{
				UserID:  r.ID,
				Title:   "Laporan harian baru",
				Message: "Laporan baru menunggu review",
				Type:    model.NotifInfo,
				Link:    &link,
			})
		}
		if err := s.notifRepo.CreateBatch(ctx, notifs); err != nil {
			s.logger.Warn("failed to create submission notifications", zap.Error(err))
		}
	}

	details, _ := json.Marshal(map[string]interface{}{
		"location_id": report.LocationID,
		"dept_id":     report.DeptID,
	})
	audit := model.AuditLog{
		UserID:   &creatorUUID,
		Action:   action,
		EntityID: report.ID.String(),
		Details:  string(details),
	}
	if err := s.auditRepo.Log(ctx, &audit); err != nil {
		s.logger.Warn("failed to write audit log", zap.Error(err))
	}
}

// Update rewrites a report in place: scalar fields updated, then every child
// row deleted and re-inserted. The delete-then-reinsert trades referential
// churn for the absence of per-task diffing; child ids are not stable across
// edits.
func (s *reportService) Update(ctx context.Context, actorID string, reportID string, req SubmitReportRequest) (*model.DailyReport, error) {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return nil, ErrReportNotFound
	}

	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrReportNotFound
	}
	if report.CreatorID.String() != actorID {
		return nil, ErrNotCreator
	}
	if !lifecycle.Editable(report) {
		return nil, ErrReportLocked
	}

	if report.Status != model.StatusDraft || !req.AsDraft {
		if err := s.validate(ctx, req); err != nil {
			return nil, err
		}
	}

	report.LocationID = req.LocationID
	report.DeptID = req.DeptID
	report.ProjectTypeID = req.ProjectTypeID
	report.TomorrowPlan = legacyPlanText(req.TomorrowPlans)
	if req.ImportantNotes != "" {
		report.ImportantNotes = &req.ImportantNotes
	} else {
		report.ImportantNotes = nil
	}
	promoted := false
	if report.Status == model.StatusDraft && !req.AsDraft {
		report.Status = model.StatusSubmitted
		promoted = true
	}

	if err := s.reportRepo.UpdateScalars(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}

	if err := s.reportRepo.DeleteChildren(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to replace report contents: %w", err)
	}

	if err := s.insertChildren(ctx, id, req); err != nil {
		return nil, err
	}

	actorUUID, _ := uuid.Parse(actorID)
	if promoted {
		// A draft leaving draft through an edit enters the approval flow the
		// same way a direct submission does
		s.afterSubmit(ctx, report, report.CreatorID, model.ActionSubmitReport)
	} else {
		details, _ := json.Marshal(map[string]interface{}{"report_id": reportID})
		if err := s.auditRepo.Log(ctx, &model.AuditLog{
			UserID:   &actorUUID,
			Action:   model.ActionUpdateReport,
			EntityID: reportID,
			Details:  string(details),
		}); err != nil {
			s.logger.Warn("failed to write audit log", zap.Error(err))
		}
	}

	s.hub.PublishChange("daily_reports", ws.ActionUpdate, reportID)
	return s.reportRepo.FindByIDWithChildren(ctx, id)
}

// SubmitDraft promotes a draft into the approval flow.
func (s *reportService) SubmitDraft(ctx context.Context, actorID string, reportID string) (*model.DailyReport, error) {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return nil, ErrReportNotFound
	}
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrReportNotFound
	}
	if report.CreatorID.String() != actorID {
		return nil, ErrNotCreator
	}
	if report.Status != model.StatusDraft {
		return nil, &lifecycle.ValidationError{Field: "status", Reason: "is not draft"}
	}

	deptName := ""
	if report.Department != nil {
		deptName = report.Department.DeptName
	}
	if err := lifecycle.ValidateSubmission(report.LocationID, report.DeptID, deptName, report.ProjectTypeID); err != nil {
		return nil, err
	}

	report.Status = model.StatusSubmitted
	if err := s.reportRepo.UpdateScalars(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to submit report: %w", err)
	}

	s.afterSubmit(ctx, report, report.CreatorID, model.ActionSubmitReport)
	s.hub.PublishChange("daily_reports", ws.ActionUpdate, reportID)
	return s.reportRepo.FindByIDWithChildren(ctx, id)
}

// Delete removes a report and its children. Blocked once the manager
// signature has landed.
func (s *reportService) Delete(ctx context.Context, actorID string, reportID string) error {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return ErrReportNotFound
	}
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return ErrReportNotFound
	}
	if report.CreatorID.String() != actorID {
		return ErrNotCreator
	}
	if !lifecycle.Editable(report) {
		return ErrReportLocked
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.reportRepo.DeleteChildren(txCtx, id); err != nil {
			return err
		}
		return s.reportRepo.Delete(txCtx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	actorUUID, _ := uuid.Parse(actorID)
	if err := s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:   &actorUUID,
		Action:   model.ActionDeleteReport,
		EntityID: reportID,
		Details:  "{}",
	}); err != nil {
		s.logger.Warn("failed to write audit log", zap.Error(err))
	}

	s.hub.PublishChange("daily_reports", ws.ActionDelete, reportID)
	return nil
}

// --- Read path ---

// GetDetail loads the full report and, as a side effect, marks it read for
// the viewer. The read-marking is non-critical: if the write fails the viewer
// still gets the report.
func (s *reportService) GetDetail(ctx context.Context, viewerID string, reportID string) (*model.DailyReport, error) {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return nil, ErrReportNotFound
	}
	report, err := s.reportRepo.FindByIDWithChildren(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	viewerUUID, err := uuid.Parse(viewerID)
	if err != nil {
		return report, nil
	}

	// Drafts stay out of the read flow entirely
	if report.Status != model.StatusDraft && lifecycle.MarkRead(report, viewerUUID) {
		if err := s.reportRepo.AppendReader(ctx, id, viewerUUID); err != nil {
			s.logger.Warn("mark read failed",
				zap.String("report_id", reportID),
				zap.String("viewer_id", viewerID),
				zap.Error(err))
		} else {
			s.hub.PublishChange("daily_reports", ws.ActionUpdate, reportID)
		}
	}

	return report, nil
}

// sinceFor translates the dashboard date filter into a lower bound. Weeks
// start on Monday.
func sinceFor(filter string, now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch filter {
	case "today":
		return midnight
	case "week":
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday belongs to the week that started the previous Monday
		}
		return midnight.AddDate(0, 0, -(weekday - 1))
	case "month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}
	}
}

func (s *reportService) List(ctx context.Context, viewerID, viewerRole string, query ListReportsQuery) ([]model.DailyReport, int64, error) {
	filter := repository.ReportFilter{
		LocationID: query.LocationID,
		DeptID:     query.DeptID,
		Since:      sinceFor(query.DateFilter, time.Now()),
		Search:     query.Search,
		Page:       query.Page,
		Limit:      query.Limit,
	}

	// Staff only see their own reports
	if !model.ReviewerRole(viewerRole) {
		viewerUUID, err := uuid.Parse(viewerID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid viewer id: %w", err)
		}
		filter.CreatorID = &viewerUUID
	}

	return s.reportRepo.List(ctx, filter)
}

func (s *reportService) Stats(ctx context.Context, viewerID, viewerRole string) (model.ReportStats, error) {
	var creatorID *uuid.UUID
	if !model.ReviewerRole(viewerRole) {
		viewerUUID, err := uuid.Parse(viewerID)
		if err != nil {
			return model.ReportStats{}, fmt.Errorf("invalid viewer id: %w", err)
		}
		creatorID = &viewerUUID
	}

	rows, err := s.reportRepo.StatsRows(ctx, creatorID)
	if err != nil {
		return model.ReportStats{}, err
	}

	return CountReportStats(rows), nil
}

// CountReportStats derives the dashboard counters from report rows with their
// task statuses loaded.
func CountReportStats(reports []model.DailyReport) model.ReportStats {
	var stats model.ReportStats
	stats.Total = len(reports)
	for _, r := range reports {
		if r.IsVerified {
			stats.Verified++
		}
		if r.Status == model.StatusDraft {
			stats.Draft++
			continue
		}

		hasProblem := false
		hasInProgress := false
		allDone := len(r.Tasks) > 0
		for _, t := range r.Tasks {
			switch t.Status {
			case model.TaskProblem:
				hasProblem = true
				allDone = false
			case model.TaskInProgress:
				hasInProgress = true
				allDone = false
			}
		}

		if hasProblem {
			stats.Problematic++
		}
		if hasInProgress && !hasProblem {
			stats.InProgress++
		}
		if allDone {
			stats.Completed++
		}
	}
	return stats
}

// --- Approval ---

// Approve records the caller's signature on the report. The guard check is
// re-run inside the UPDATE's WHERE clause, so concurrent approvals at the
// same level cannot both land, and the whole field set of one approval lands
// atomically or not at all.
func (s *reportService) Approve(ctx context.Context, approverID, approverRole string, reportID string) (*model.DailyReport, error) {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return nil, ErrReportNotFound
	}
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return nil, fmt.Errorf("invalid approver id: %w", err)
	}

	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrReportNotFound
	}

	change, err := lifecycle.RecordApproval(report, approverUUID, approverRole, time.Now())
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.reportRepo.ApplyApproval(txCtx, id, change); err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]interface{}{
			"level": change.Level,
		})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:   &approverUUID,
			Action:   model.ActionApproveReport,
			EntityID: reportID,
			Details:  string(details),
		})
	})
	if err != nil {
		return nil, err
	}

	// Creator notification is best-effort
	link := "/report/" + reportID
	title := "Laporan disetujui Supervisor"
	if change.Verifies() {
		title = "Laporan terverifikasi"
	}
	if err := s.notifRepo.Create(ctx, &model.Notification{
		UserID:  report.CreatorID,
		Title:   title,
		Message: "Laporan harian Anda telah disetujui",
		Type:    model.NotifSuccess,
		Link:    &link,
	}); err != nil {
		s.logger.Warn("failed to create approval notification", zap.Error(err))
	}

	s.hub.PublishChange("daily_reports", ws.ActionUpdate, reportID)
	return s.reportRepo.FindByIDWithChildren(ctx, id)
}

// --- Plan derivation ---

// CarryOverTasks returns the unfinished tasks of the creator's most recent
// report, prefixed as carried over, for seeding a new report. A creator with
// no prior reports gets an empty list.
func (s *reportService) CarryOverTasks(ctx context.Context, creatorID string) ([]planner.TaskItem, error) {
	creatorUUID, err := uuid.Parse(creatorID)
	if err != nil {
		return nil, fmt.Errorf("invalid creator id: %w", err)
	}

	last, err := s.reportRepo.LatestByCreator(ctx, creatorUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []planner.TaskItem{}, nil
		}
		return nil, err
	}

	tasks, err := s.reportRepo.TasksByReport(ctx, last.ID)
	if err != nil {
		return nil, err
	}

	items := make([]planner.TaskItem, 0, len(tasks))
	for _, t := range tasks {
		person := ""
		if t.ResponsiblePerson != nil {
			person = *t.ResponsiblePerson
		}
		items = append(items, planner.TaskItem{
			Description:       t.TaskDescription,
			ResponsiblePerson: person,
			Status:            t.Status,
		})
	}

	return planner.CarryForward(items), nil
}

// PlanSuggestions is the stateless derivation the client re-invokes on every
// task change.
func (s *reportService) PlanSuggestions(req PlanSuggestionRequest) []planner.PlanItem {
	return planner.DeriveAutoPlans(req.Plans, req.Tasks)
}

func (s *reportService) Summary(ctx context.Context, reportID string) (string, error) {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return "", ErrReportNotFound
	}
	report, err := s.reportRepo.FindByIDWithChildren(ctx, id)
	if err != nil {
		return "", ErrReportNotFound
	}
	return BuildReportSummary(report), nil
}
