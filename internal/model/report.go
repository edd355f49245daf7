package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Report status values. The only transitions are draft -> submitted -> read ->
// verified; a status is never downgraded. "read" is a side effect of a reviewer
// opening the detail view, "verified" is reached only through a manager-level
// approval.
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusRead      = "read"
	StatusVerified  = "verified"
)

// Task status values (Indonesian, as displayed to users).
const (
	TaskInProgress = "Dalam Proses"
	TaskDone       = "Selesai"
	TaskProblem    = "Bermasalah"
)

// Attachment kinds.
const (
	AttachmentImage    = "image"
	AttachmentDocument = "document"
	AttachmentLink     = "link"
)

// DailyReport is one submitted (or draft) unit of work for one creator on one
// day. Supervisor and manager approvals are independent signatures; the
// manager signature is the authoritative global verification and is mirrored
// into IsVerified/VerifiedBy/VerifiedAt.
type DailyReport struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CreatorID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator           *User          `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	LocationID        uint           `gorm:"not null;index" json:"location_id"`
	Location          *Location      `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	DeptID            uint           `gorm:"not null;index" json:"dept_id"`
	Department        *Department    `gorm:"foreignKey:DeptID" json:"department,omitempty"`
	ProjectTypeID     *uint          `gorm:"index" json:"project_type_id"`
	ProjectType       *ProjectType   `gorm:"foreignKey:ProjectTypeID" json:"project_type,omitempty"`
	TomorrowPlan      *string        `gorm:"type:text" json:"tomorrow_plan"` // legacy denormalized plan text
	ImportantNotes    *string        `gorm:"type:text" json:"important_notes"`
	Status            string         `gorm:"type:varchar(20);not null;default:'submitted';index" json:"status"`
	IsVerified        bool           `gorm:"not null;default:false" json:"is_verified"`
	VerifiedBy        *uuid.UUID     `gorm:"type:uuid" json:"verified_by"`
	VerifiedAt        *time.Time     `json:"verified_at"`
	ApprovedBySpv     *uuid.UUID     `gorm:"type:uuid" json:"approved_by_spv"`
	Spv               *User          `gorm:"foreignKey:ApprovedBySpv" json:"spv,omitempty"`
	ApprovedAtSpv     *time.Time     `json:"approved_at_spv"`
	ApprovedByManager *uuid.UUID     `gorm:"type:uuid" json:"approved_by_manager"`
	Manager           *User          `gorm:"foreignKey:ApprovedByManager" json:"manager,omitempty"`
	ApprovedAtManager *time.Time     `json:"approved_at_manager"`
	ReadBy            pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"read_by"`
	FooterText        string         `gorm:"type:text;not null;default:''" json:"footer_text"`
	ReportDate        time.Time      `gorm:"type:date;not null;index" json:"report_date"`
	CreatedAt         time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Tasks         []ReportTask         `gorm:"foreignKey:ReportID" json:"tasks,omitempty"`
	Materials     []ReportMaterial     `gorm:"foreignKey:ReportID" json:"materials,omitempty"`
	TomorrowPlans []ReportTomorrowPlan `gorm:"foreignKey:ReportID" json:"tomorrow_plans,omitempty"`
}

// HasRead reports whether the given user id is already in the reader-set.
func (r *DailyReport) HasRead(userID string) bool {
	for _, id := range r.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// ReportTask is one line item of work within a report. On edit, all tasks of a
// report are deleted and re-inserted wholesale, so task ids are not stable
// across edits.
type ReportTask struct {
	ID                uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID          uuid.UUID              `gorm:"type:uuid;not null;index" json:"report_id"`
	TaskDescription   string                 `gorm:"type:text;not null" json:"task_description"`
	ResponsiblePerson *string                `gorm:"type:varchar(255)" json:"responsible_person"`
	Status            string                 `gorm:"type:varchar(20);not null;default:'Dalam Proses'" json:"status"`
	OrderIndex        int                    `gorm:"not null;default:0" json:"order_index"`
	CreatedAt         time.Time              `gorm:"autoCreateTime" json:"created_at"`
	Attachments       []ReportTaskAttachment `gorm:"foreignKey:TaskID" json:"attachments,omitempty"`
}

// ReportTaskAttachment is a file or external link bound to a task.
type ReportTaskAttachment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	FileType  string    `gorm:"type:varchar(20);not null;default:'image'" json:"file_type"`
	FileURL   string    `gorm:"type:text;not null" json:"file_url"`
	FileName  string    `gorm:"type:varchar(255);not null" json:"file_name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ReportMaterial is one material consumption line owned by a report.
type ReportMaterial struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"report_id"`
	ItemName  string          `gorm:"type:varchar(255);not null" json:"item_name"`
	Quantity  decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"quantity"`
	Unit      string          `gorm:"type:varchar(50);not null" json:"unit"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// ReportTomorrowPlan is one planned activity for the next day.
type ReportTomorrowPlan struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID          uuid.UUID `gorm:"type:uuid;not null;index" json:"report_id"`
	PlanDescription   string    `gorm:"type:text;not null" json:"plan_description"`
	ResponsiblePerson *string   `gorm:"type:varchar(255)" json:"responsible_person"`
	OrderIndex        int       `gorm:"not null;default:0" json:"order_index"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}
