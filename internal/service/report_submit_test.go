package service

import (
	"context"
	"testing"
	"time"

	"lapor/internal/lifecycle"
	"lapor/internal/model"
	"lapor/internal/repository"
	ws "lapor/internal/websocket"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// In-memory stand-ins for the repository layer, enough to drive the
// submission write path without a database.

type memReportRepo struct {
	report *model.DailyReport
	tasks  []model.ReportTask
}

func (m *memReportRepo) Create(ctx context.Context, r *model.DailyReport) error {
	r.ID = uuid.New()
	m.report = r
	return nil
}
func (m *memReportRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.DailyReport, error) {
	if m.report == nil || m.report.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.report
	return &cp, nil
}
func (m *memReportRepo) FindByIDWithChildren(ctx context.Context, id uuid.UUID) (*model.DailyReport, error) {
	return m.FindByID(ctx, id)
}
func (m *memReportRepo) List(ctx context.Context, f repository.ReportFilter) ([]model.DailyReport, int64, error) {
	return nil, 0, nil
}
func (m *memReportRepo) LatestByCreator(ctx context.Context, creatorID uuid.UUID) (*model.DailyReport, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *memReportRepo) TasksByReport(ctx context.Context, reportID uuid.UUID) ([]model.ReportTask, error) {
	return m.tasks, nil
}
func (m *memReportRepo) UpdateScalars(ctx context.Context, r *model.DailyReport) error {
	m.report = r
	return nil
}
func (m *memReportRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (m *memReportRepo) CreateTask(ctx context.Context, t *model.ReportTask) error {
	t.ID = uuid.New()
	m.tasks = append(m.tasks, *t)
	return nil
}
func (m *memReportRepo) CreateAttachments(ctx context.Context, a []model.ReportTaskAttachment) error {
	return nil
}
func (m *memReportRepo) CreateMaterials(ctx context.Context, mats []model.ReportMaterial) error {
	return nil
}
func (m *memReportRepo) CreatePlans(ctx context.Context, p []model.ReportTomorrowPlan) error {
	return nil
}
func (m *memReportRepo) DeleteChildren(ctx context.Context, reportID uuid.UUID) error {
	m.tasks = nil
	return nil
}
func (m *memReportRepo) ApplyApproval(ctx context.Context, reportID uuid.UUID, change lifecycle.ApprovalChange) error {
	return nil
}
func (m *memReportRepo) AppendReader(ctx context.Context, reportID, viewerID uuid.UUID) error {
	return nil
}
func (m *memReportRepo) StatsRows(ctx context.Context, creatorID *uuid.UUID) ([]model.DailyReport, error) {
	return nil, nil
}

type memMasterRepo struct{ deptName string }

func (m *memMasterRepo) ListLocations(ctx context.Context, activeOnly bool) ([]model.Location, error) {
	return nil, nil
}
func (m *memMasterRepo) ListDepartments(ctx context.Context, activeOnly bool) ([]model.Department, error) {
	return nil, nil
}
func (m *memMasterRepo) ListProjectTypes(ctx context.Context, activeOnly bool) ([]model.ProjectType, error) {
	return nil, nil
}
func (m *memMasterRepo) GetDepartment(ctx context.Context, id uint) (*model.Department, error) {
	return &model.Department{ID: id, DeptName: m.deptName, IsActive: true}, nil
}
func (m *memMasterRepo) CreateLocation(ctx context.Context, l *model.Location) error     { return nil }
func (m *memMasterRepo) CreateDepartment(ctx context.Context, d *model.Department) error { return nil }
func (m *memMasterRepo) CreateProjectType(ctx context.Context, p *model.ProjectType) error {
	return nil
}
func (m *memMasterRepo) SetLocationActive(ctx context.Context, id uint, active bool) error {
	return nil
}
func (m *memMasterRepo) SetDepartmentActive(ctx context.Context, id uint, active bool) error {
	return nil
}
func (m *memMasterRepo) SetProjectTypeActive(ctx context.Context, id uint, active bool) error {
	return nil
}

type memUserRepo struct{ reviewers []model.User }

func (m *memUserRepo) Create(ctx context.Context, u *model.User) error { return nil }
func (m *memUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *memUserRepo) ListPending(ctx context.Context) ([]model.User, error) { return nil, nil }
func (m *memUserRepo) ListReviewers(ctx context.Context) ([]model.User, error) {
	return m.reviewers, nil
}
func (m *memUserRepo) Update(ctx context.Context, u *model.User) error { return nil }
func (m *memUserRepo) Delete(ctx context.Context, id string) error     { return nil }

type memNotifRepo struct{ created []model.Notification }

func (m *memNotifRepo) Create(ctx context.Context, n *model.Notification) error {
	m.created = append(m.created, *n)
	return nil
}
func (m *memNotifRepo) CreateBatch(ctx context.Context, ns []model.Notification) error {
	m.created = append(m.created, ns...)
	return nil
}
func (m *memNotifRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	return nil, nil
}
func (m *memNotifRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) error { return nil }
func (m *memNotifRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error  { return nil }

type memAuditRepo struct{ actions []string }

func (m *memAuditRepo) Log(ctx context.Context, e *model.AuditLog) error {
	m.actions = append(m.actions, e.Action)
	return nil
}
func (m *memAuditRepo) List(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error) {
	return nil, 0, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type submitFixture struct {
	svc    ReportService
	repo   *memReportRepo
	notifs *memNotifRepo
	audits *memAuditRepo
}

func newSubmitFixture(reviewers []model.User) *submitFixture {
	repo := &memReportRepo{}
	notifs := &memNotifRepo{}
	audits := &memAuditRepo{}
	svc := NewReportService(
		repo,
		&memMasterRepo{deptName: "Operasional"},
		&memUserRepo{reviewers: reviewers},
		notifs,
		audits,
		passthroughTx{},
		ws.NewHub(),
		zap.NewNop(),
	)
	return &submitFixture{svc: svc, repo: repo, notifs: notifs, audits: audits}
}

func hasAction(actions []string, want string) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}

func TestUpdatePromotingDraftNotifiesReviewers(t *testing.T) {
	creatorID := uuid.New()
	reviewer := model.User{ID: uuid.New(), Role: model.RoleSupervisor}
	fx := newSubmitFixture([]model.User{reviewer})

	fx.repo.report = &model.DailyReport{
		ID:         uuid.New(),
		CreatorID:  creatorID,
		LocationID: 1,
		DeptID:     2,
		Status:     model.StatusDraft,
		ReportDate: time.Now(),
	}

	req := SubmitReportRequest{
		LocationID: 1,
		DeptID:     2,
		AsDraft:    false,
		Tasks:      []TaskInput{{Description: "Pasang pipa", Status: model.TaskInProgress}},
	}

	got, err := fx.svc.Update(context.Background(), creatorID.String(), fx.repo.report.ID.String(), req)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Status != model.StatusSubmitted {
		t.Fatalf("status = %q, want submitted", got.Status)
	}

	// Leaving draft through an edit enters the approval flow like a direct
	// submission: reviewers are notified and the submission is audited
	if len(fx.notifs.created) != 1 {
		t.Fatalf("got %d notifications, want 1 for the reviewer", len(fx.notifs.created))
	}
	if fx.notifs.created[0].UserID != reviewer.ID {
		t.Fatal("notification not addressed to the reviewer")
	}
	if !hasAction(fx.audits.actions, model.ActionSubmitReport) {
		t.Fatalf("audit actions = %v, want %s", fx.audits.actions, model.ActionSubmitReport)
	}
}

func TestUpdateOfSubmittedReportDoesNotRenotify(t *testing.T) {
	creatorID := uuid.New()
	fx := newSubmitFixture([]model.User{{ID: uuid.New(), Role: model.RoleManager}})

	fx.repo.report = &model.DailyReport{
		ID:         uuid.New(),
		CreatorID:  creatorID,
		LocationID: 1,
		DeptID:     2,
		Status:     model.StatusSubmitted,
		ReportDate: time.Now(),
	}

	req := SubmitReportRequest{
		LocationID: 1,
		DeptID:     2,
		Tasks:      []TaskInput{{Description: "Cek genset", Status: model.TaskDone}},
	}

	if _, err := fx.svc.Update(context.Background(), creatorID.String(), fx.repo.report.ID.String(), req); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(fx.notifs.created) != 0 {
		t.Fatalf("plain edit must not notify, got %d notifications", len(fx.notifs.created))
	}
	if !hasAction(fx.audits.actions, model.ActionUpdateReport) {
		t.Fatalf("audit actions = %v, want %s", fx.audits.actions, model.ActionUpdateReport)
	}
	if hasAction(fx.audits.actions, model.ActionSubmitReport) {
		t.Fatal("plain edit must not log a submission")
	}
}
