// Package lifecycle implements the dual-approval state machine of a daily
// report as pure functions, so the rules stay testable without a database.
// The service layer applies the returned change sets as single guarded
// UPDATE statements.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"lapor/internal/model"

	"github.com/google/uuid"
)

// Approval levels.
const (
	LevelSpv     = "spv"
	LevelManager = "manager"
)

var (
	// ErrAlreadyApproved is returned when the caller's approval slot is
	// already signed on the report.
	ErrAlreadyApproved = errors.New("report already approved at this level")

	// ErrUnauthorized is returned when the caller's role cannot approve.
	ErrUnauthorized = errors.New("role is not permitted to approve reports")

	// ErrDraft is returned when approving a report that was never submitted.
	ErrDraft = errors.New("draft reports are excluded from the approval flow")
)

// ValidationError describes a missing required selection before submission.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("incomplete required fields: %s %s", e.Field, e.Reason)
}

// ApprovalChange is the field-change set produced by one approval. It must be
// persisted as one atomic UPDATE covering every field in the set; a partial
// write (spv fields without status, say) must never be observable.
type ApprovalChange struct {
	Level      string
	ApproverID uuid.UUID
	At         time.Time
}

// Verifies reports whether this change marks the report globally verified.
// Only the manager signature does.
func (c ApprovalChange) Verifies() bool {
	return c.Level == LevelManager
}

// Apply mutates the in-memory report with the change. Supervisor approval
// never touches Status; manager approval forces the terminal verified state
// and mirrors the signature into the verification fields.
func (c ApprovalChange) Apply(r *model.DailyReport) {
	at := c.At
	id := c.ApproverID
	switch c.Level {
	case LevelSpv:
		r.ApprovedBySpv = &id
		r.ApprovedAtSpv = &at
	case LevelManager:
		r.ApprovedByManager = &id
		r.ApprovedAtManager = &at
		r.Status = model.StatusVerified
		r.IsVerified = true
		r.VerifiedBy = &id
		r.VerifiedAt = &at
	}
}

// RecordApproval validates an approval attempt against the current report
// state and returns the change to persist.
//
// Supervisors sign their own slot and never advance Status. Manager and Owner
// roles sign the manager slot, which is the authoritative global verification.
// The two slots are independent: a manager may approve before any supervisor
// has. Approval fields, once set, are never cleared.
func RecordApproval(r *model.DailyReport, approverID uuid.UUID, role string, now time.Time) (ApprovalChange, error) {
	if r.Status == model.StatusDraft {
		return ApprovalChange{}, ErrDraft
	}
	switch role {
	case model.RoleSupervisor:
		if r.ApprovedBySpv != nil {
			return ApprovalChange{}, ErrAlreadyApproved
		}
		return ApprovalChange{Level: LevelSpv, ApproverID: approverID, At: now}, nil
	case model.RoleManager, model.RoleOwner:
		if r.ApprovedByManager != nil {
			return ApprovalChange{}, ErrAlreadyApproved
		}
		return ApprovalChange{Level: LevelManager, ApproverID: approverID, At: now}, nil
	default:
		return ApprovalChange{}, ErrUnauthorized
	}
}

// MarkRead records that viewerID opened the report detail. It is idempotent:
// a viewer already in the reader-set leaves the report untouched and the
// function reports false. The submitted -> read transition fires at most once;
// for reports already read or verified only the reader-set accumulates.
func MarkRead(r *model.DailyReport, viewerID uuid.UUID) bool {
	if r.HasRead(viewerID.String()) {
		return false
	}
	r.ReadBy = append(r.ReadBy, viewerID.String())
	if r.Status == model.StatusSubmitted {
		r.Status = model.StatusRead
	}
	return true
}

// ValidateSubmission checks the required selections before a report may be
// submitted. Location and department are always required; the project type is
// required only when the department is Proyek and ignored otherwise.
func ValidateSubmission(locationID, deptID uint, deptName string, projectTypeID *uint) error {
	if locationID == 0 {
		return &ValidationError{Field: "location_id", Reason: "is required"}
	}
	if deptID == 0 {
		return &ValidationError{Field: "dept_id", Reason: "is required"}
	}
	if deptName == model.DeptProyek && projectTypeID == nil {
		return &ValidationError{Field: "project_type_id", Reason: "is required for department Proyek"}
	}
	return nil
}

// Editable reports whether the report may still be edited or deleted. Once
// the manager signature lands the record is immutable.
func Editable(r *model.DailyReport) bool {
	return r.ApprovedByManager == nil
}
