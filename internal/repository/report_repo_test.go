package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"lapor/internal/database"
	"lapor/internal/lifecycle"
	"lapor/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// testDB connects to the database named by TEST_DATABASE_DSN, or skips.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	db, err := database.NewConnection(dsn, database.Options{})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) *model.User {
	t.Helper()
	user := &model.User{
		Email:      uuid.NewString() + "@example.test",
		Fullname:   "Test " + role,
		Password:   "x",
		Role:       role,
		IsApproved: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(user) })
	return user
}

func seedReport(t *testing.T, db *gorm.DB, creator *model.User) *model.DailyReport {
	t.Helper()
	loc := &model.Location{LocationName: "loc-" + uuid.NewString()}
	dept := &model.Department{DeptName: "dept-" + uuid.NewString()}
	if err := db.Create(loc).Error; err != nil {
		t.Fatalf("seed location: %v", err)
	}
	if err := db.Create(dept).Error; err != nil {
		t.Fatalf("seed department: %v", err)
	}
	report := &model.DailyReport{
		CreatorID:  creator.ID,
		LocationID: loc.ID,
		DeptID:     dept.ID,
		Status:     model.StatusSubmitted,
		ReportDate: time.Now(),
	}
	if err := db.Create(report).Error; err != nil {
		t.Fatalf("seed report: %v", err)
	}
	t.Cleanup(func() {
		db.Delete(report)
		db.Delete(dept)
		db.Delete(loc)
	})
	return report
}

func TestApplyApprovalGuard(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewReportRepository(db)

	creator := seedUser(t, db, model.RoleStaff)
	manager := seedUser(t, db, model.RoleManager)
	report := seedReport(t, db, creator)

	change := lifecycle.ApprovalChange{
		Level:      lifecycle.LevelManager,
		ApproverID: manager.ID,
		At:         time.Now(),
	}
	if err := repo.ApplyApproval(ctx, report.ID, change); err != nil {
		t.Fatalf("first approval: %v", err)
	}

	// The manager slot is occupied: the WHERE guard rejects a second write
	second := seedUser(t, db, model.RoleOwner)
	change.ApproverID = second.ID
	if err := repo.ApplyApproval(ctx, report.ID, change); !errors.Is(err, lifecycle.ErrAlreadyApproved) {
		t.Fatalf("second approval: got %v, want ErrAlreadyApproved", err)
	}

	got, err := repo.FindByID(ctx, report.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != model.StatusVerified || !got.IsVerified {
		t.Fatalf("report not verified: status=%q is_verified=%v", got.Status, got.IsVerified)
	}
	if got.ApprovedByManager == nil || *got.ApprovedByManager != manager.ID {
		t.Fatal("first signature was overwritten")
	}
	if got.VerifiedAt == nil || got.ApprovedAtManager == nil || !got.VerifiedAt.Equal(*got.ApprovedAtManager) {
		t.Fatal("verification timestamp must match the signature")
	}
}

func TestAppendReaderIdempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewReportRepository(db)

	creator := seedUser(t, db, model.RoleStaff)
	viewer := seedUser(t, db, model.RoleSupervisor)
	report := seedReport(t, db, creator)

	for i := 0; i < 3; i++ {
		if err := repo.AppendReader(ctx, report.ID, viewer.ID); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, err := repo.FindByID(ctx, report.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got.ReadBy) != 1 {
		t.Fatalf("reader set has %d entries, want 1", len(got.ReadBy))
	}
	if got.Status != model.StatusRead {
		t.Fatalf("status = %q, want read", got.Status)
	}
}
