package service

import (
	"testing"
	"time"

	"lapor/internal/model"

	"github.com/shopspring/decimal"
)

func TestFlattenReportsOneRowPerTask(t *testing.T) {
	report := model.DailyReport{
		Creator:    &model.User{Fullname: "Budi Santoso"},
		Location:   &model.Location{LocationName: "Kantor Pusat"},
		Department: &model.Department{DeptName: "Maintenance"},
		ReportDate: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Status:     model.StatusRead,
		Tasks: []model.ReportTask{
			{TaskDescription: "Pasang pipa", Status: "Dalam Proses", ResponsiblePerson: strPtr("Budi")},
			{TaskDescription: "Cek genset", Status: "Selesai"},
		},
		Materials: []model.ReportMaterial{
			{ItemName: "Semen", Quantity: decimal.NewFromInt(5), Unit: "sak"},
			{ItemName: "Pasir", Quantity: decimal.NewFromFloat(0.5), Unit: "truk"},
		},
		TomorrowPlans: []model.ReportTomorrowPlan{
			{PlanDescription: "Lanjut pengecoran"},
		},
	}

	rows := FlattenReports([]model.DailyReport{report})
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want one per task", len(rows))
	}

	first := rows[0]
	if len(first) != len(exportHeader) {
		t.Fatalf("row has %d columns, header has %d", len(first), len(exportHeader))
	}
	if first[0] != "31-08-2026" || first[1] != "Budi Santoso" || first[5] != "Pasang pipa" || first[7] != "Budi" {
		t.Fatalf("unexpected first row: %v", first)
	}
	if first[8] != "Semen: 5 sak; Pasir: 0.5 truk" {
		t.Fatalf("material column = %q", first[8])
	}

	// Report-level columns repeat on every row
	second := rows[1]
	if second[8] != first[8] || second[9] != first[9] || second[11] != first[11] {
		t.Fatal("report columns must repeat across task rows")
	}
	if second[5] != "Cek genset" || second[7] != "" {
		t.Fatalf("unexpected second row: %v", second)
	}
}

func TestFlattenReportsTasklessReport(t *testing.T) {
	report := model.DailyReport{
		Creator:      &model.User{Fullname: "Sari"},
		ReportDate:   time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Status:       model.StatusDraft,
		TomorrowPlan: strPtr("- Lanjut pengecoran"),
	}

	rows := FlattenReports([]model.DailyReport{report})
	if len(rows) != 1 {
		t.Fatalf("taskless report must still produce one row, got %d", len(rows))
	}
	if rows[0][5] != "" || rows[0][11] != model.StatusDraft {
		t.Fatalf("unexpected row: %v", rows[0])
	}
	if rows[0][9] != "- Lanjut pengecoran" {
		t.Fatalf("legacy plan column = %q", rows[0][9])
	}
}
