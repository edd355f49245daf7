package lifecycle

import (
	"errors"
	"testing"
	"time"

	"lapor/internal/model"

	"github.com/google/uuid"
)

func submittedReport() *model.DailyReport {
	return &model.DailyReport{
		ID:     uuid.New(),
		Status: model.StatusSubmitted,
	}
}

func TestRecordApprovalSupervisor(t *testing.T) {
	r := submittedReport()
	spv := uuid.New()
	now := time.Now()

	change, err := RecordApproval(r, spv, model.RoleSupervisor, now)
	if err != nil {
		t.Fatalf("RecordApproval: %v", err)
	}
	if change.Level != LevelSpv {
		t.Fatalf("level = %q, want %q", change.Level, LevelSpv)
	}
	if change.Verifies() {
		t.Fatal("supervisor approval must not verify")
	}

	change.Apply(r)
	if r.ApprovedBySpv == nil || *r.ApprovedBySpv != spv {
		t.Fatal("spv signature not recorded")
	}
	if r.Status != model.StatusSubmitted {
		t.Fatalf("status = %q, supervisor approval must not change status", r.Status)
	}
	if r.IsVerified {
		t.Fatal("supervisor approval must not verify the report")
	}

	// Second supervisor attempt hits the occupied slot
	if _, err := RecordApproval(r, uuid.New(), model.RoleSupervisor, now); !errors.Is(err, ErrAlreadyApproved) {
		t.Fatalf("second spv approval: got %v, want ErrAlreadyApproved", err)
	}
}

func TestRecordApprovalManagerVerifies(t *testing.T) {
	for _, role := range []string{model.RoleManager, model.RoleOwner} {
		t.Run(role, func(t *testing.T) {
			r := submittedReport()
			mgr := uuid.New()
			now := time.Now()

			change, err := RecordApproval(r, mgr, role, now)
			if err != nil {
				t.Fatalf("RecordApproval: %v", err)
			}
			if !change.Verifies() {
				t.Fatal("manager-level approval must verify")
			}

			change.Apply(r)
			if r.Status != model.StatusVerified {
				t.Fatalf("status = %q, want verified", r.Status)
			}
			if !r.IsVerified {
				t.Fatal("is_verified not set")
			}
			if r.VerifiedBy == nil || *r.VerifiedBy != mgr {
				t.Fatal("verified_by not mirrored from the signature")
			}
			if r.VerifiedAt == nil || r.ApprovedAtManager == nil || !r.VerifiedAt.Equal(*r.ApprovedAtManager) {
				t.Fatal("verified_at must match the manager signature time")
			}
		})
	}
}

func TestRecordApprovalManagerBeforeSupervisor(t *testing.T) {
	// The two slots are independent: manager may sign first
	r := submittedReport()
	change, err := RecordApproval(r, uuid.New(), model.RoleManager, time.Now())
	if err != nil {
		t.Fatalf("manager approval without spv: %v", err)
	}
	change.Apply(r)

	// And a supervisor can still sign afterwards
	if _, err := RecordApproval(r, uuid.New(), model.RoleSupervisor, time.Now()); err != nil {
		t.Fatalf("spv approval after verification: %v", err)
	}

	if _, err := RecordApproval(r, uuid.New(), model.RoleManager, time.Now()); !errors.Is(err, ErrAlreadyApproved) {
		t.Fatalf("second manager approval: got %v, want ErrAlreadyApproved", err)
	}
}

func TestRecordApprovalSpvThenManager(t *testing.T) {
	r := submittedReport()
	now := time.Now()

	spvChange, err := RecordApproval(r, uuid.New(), model.RoleSupervisor, now)
	if err != nil {
		t.Fatalf("spv approval: %v", err)
	}
	spvChange.Apply(r)

	mgrChange, err := RecordApproval(r, uuid.New(), model.RoleManager, now)
	if err != nil {
		t.Fatalf("manager approval after spv: %v", err)
	}
	mgrChange.Apply(r)

	if r.ApprovedBySpv == nil || r.ApprovedByManager == nil {
		t.Fatal("both signatures must persist")
	}
	if r.Status != model.StatusVerified {
		t.Fatalf("status = %q, want verified", r.Status)
	}
}

func TestRecordApprovalRejections(t *testing.T) {
	now := time.Now()

	if _, err := RecordApproval(submittedReport(), uuid.New(), model.RoleStaff, now); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("staff approval: got %v, want ErrUnauthorized", err)
	}

	draft := &model.DailyReport{ID: uuid.New(), Status: model.StatusDraft}
	if _, err := RecordApproval(draft, uuid.New(), model.RoleManager, now); !errors.Is(err, ErrDraft) {
		t.Fatalf("draft approval: got %v, want ErrDraft", err)
	}
}

func TestMarkRead(t *testing.T) {
	r := submittedReport()
	viewer := uuid.New()

	if !MarkRead(r, viewer) {
		t.Fatal("first view must mutate")
	}
	if r.Status != model.StatusRead {
		t.Fatalf("status = %q, want read", r.Status)
	}
	if !r.HasRead(viewer.String()) {
		t.Fatal("viewer missing from reader set")
	}

	// Same viewer again: no change
	if MarkRead(r, viewer) {
		t.Fatal("repeat view must be a no-op")
	}
	if len(r.ReadBy) != 1 {
		t.Fatalf("reader set has %d entries, want 1", len(r.ReadBy))
	}

	// A later viewer accumulates without touching status
	second := uuid.New()
	if !MarkRead(r, second) {
		t.Fatal("second viewer must mutate")
	}
	if r.Status != model.StatusRead {
		t.Fatalf("status = %q, read must be sticky", r.Status)
	}
}

func TestMarkReadNeverDowngradesVerified(t *testing.T) {
	r := submittedReport()
	r.Status = model.StatusVerified

	MarkRead(r, uuid.New())
	if r.Status != model.StatusVerified {
		t.Fatalf("status = %q, viewing must not downgrade verified", r.Status)
	}
}

func TestValidateSubmission(t *testing.T) {
	pt := uint(3)
	tests := []struct {
		name       string
		locationID uint
		deptID     uint
		deptName   string
		projectPtr *uint
		wantField  string
	}{
		{"complete non-project", 1, 2, "Operasional", nil, ""},
		{"complete project", 1, 2, model.DeptProyek, &pt, ""},
		{"missing location", 0, 2, "Operasional", nil, "location_id"},
		{"missing department", 1, 0, "", nil, "dept_id"},
		{"project without type", 1, 2, model.DeptProyek, nil, "project_type_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubmission(tt.locationID, tt.deptID, tt.deptName, tt.projectPtr)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateSubmission: %v", err)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("got %v, want ValidationError", err)
			}
			if vErr.Field != tt.wantField {
				t.Fatalf("field = %q, want %q", vErr.Field, tt.wantField)
			}
		})
	}
}

func TestEditable(t *testing.T) {
	r := submittedReport()
	if !Editable(r) {
		t.Fatal("unverified report must be editable")
	}

	// Supervisor signature alone does not lock
	spvChange, _ := RecordApproval(r, uuid.New(), model.RoleSupervisor, time.Now())
	spvChange.Apply(r)
	if !Editable(r) {
		t.Fatal("spv-approved report must stay editable")
	}

	mgrChange, _ := RecordApproval(r, uuid.New(), model.RoleManager, time.Now())
	mgrChange.Apply(r)
	if Editable(r) {
		t.Fatal("verified report must be immutable")
	}
}
