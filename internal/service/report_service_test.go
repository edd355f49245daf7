package service

import (
	"testing"
	"time"

	"lapor/internal/model"
)

func TestCountReportStats(t *testing.T) {
	reports := []model.DailyReport{
		// Verified, all tasks done
		{
			Status:     model.StatusVerified,
			IsVerified: true,
			Tasks:      []model.ReportTask{{Status: model.TaskDone}, {Status: model.TaskDone}},
		},
		// In progress, no problems
		{
			Status: model.StatusSubmitted,
			Tasks:  []model.ReportTask{{Status: model.TaskDone}, {Status: model.TaskInProgress}},
		},
		// Problematic beats in-progress
		{
			Status: model.StatusRead,
			Tasks:  []model.ReportTask{{Status: model.TaskInProgress}, {Status: model.TaskProblem}},
		},
		// Draft is counted separately and excluded from the work counters
		{
			Status: model.StatusDraft,
			Tasks:  []model.ReportTask{{Status: model.TaskInProgress}},
		},
		// No tasks: neither completed nor in-progress
		{
			Status: model.StatusSubmitted,
		},
	}

	stats := CountReportStats(reports)

	if stats.Total != 5 {
		t.Errorf("Total = %d, want 5", stats.Total)
	}
	if stats.Verified != 1 {
		t.Errorf("Verified = %d, want 1", stats.Verified)
	}
	if stats.Completed != 1 {
		t.Errorf("Completed = %d, want 1", stats.Completed)
	}
	if stats.InProgress != 1 {
		t.Errorf("InProgress = %d, want 1", stats.InProgress)
	}
	if stats.Problematic != 1 {
		t.Errorf("Problematic = %d, want 1", stats.Problematic)
	}
	if stats.Draft != 1 {
		t.Errorf("Draft = %d, want 1", stats.Draft)
	}
}

func TestCountReportStatsEmpty(t *testing.T) {
	stats := CountReportStats(nil)
	if stats != (model.ReportStats{}) {
		t.Fatalf("empty input must yield zero stats, got %+v", stats)
	}
}

func TestSinceFor(t *testing.T) {
	// Tuesday 2026-09-01, 15:04 local
	now := time.Date(2026, 9, 1, 15, 4, 0, 0, time.UTC)

	tests := []struct {
		filter string
		want   time.Time
	}{
		{"today", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
		{"week", time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)}, // Monday
		{"month", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
		{"all", time.Time{}},
		{"", time.Time{}},
	}
	for _, tt := range tests {
		if got := sinceFor(tt.filter, now); !got.Equal(tt.want) {
			t.Errorf("sinceFor(%q) = %v, want %v", tt.filter, got, tt.want)
		}
	}
}

func TestSinceForSundayBelongsToCurrentWeek(t *testing.T) {
	// Sunday 2026-09-06 still belongs to the week started Monday 2026-08-31
	sunday := time.Date(2026, 9, 6, 9, 0, 0, 0, time.UTC)
	want := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	if got := sinceFor("week", sunday); !got.Equal(want) {
		t.Fatalf("sinceFor(week, sunday) = %v, want %v", got, want)
	}
}

func TestLegacyPlanText(t *testing.T) {
	if legacyPlanText(nil) != nil {
		t.Fatal("no plans must yield nil text")
	}

	got := legacyPlanText([]PlanInput{
		{Description: "Lanjut pengecoran", ResponsiblePerson: "Andi"},
		{Description: "Rapat koordinasi", ResponsiblePerson: "Sari"},
	})
	want := "- Lanjut pengecoran (PJ: Andi)\n- Rapat koordinasi (PJ: Sari)"
	if got == nil || *got != want {
		t.Fatalf("legacyPlanText = %v, want %q", got, want)
	}
}
