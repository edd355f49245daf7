package service

import (
	"strings"
	"testing"
	"time"

	"lapor/internal/model"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func sampleReport() *model.DailyReport {
	return &model.DailyReport{
		Creator:     &model.User{Fullname: "Budi Santoso"},
		Location:    &model.Location{LocationName: "Kantor Pusat"},
		Department:  &model.Department{DeptName: "Proyek"},
		ProjectType: &model.ProjectType{ProjectName: "Renovasi"},
		ReportDate:  time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Status:      model.StatusSubmitted,
		Tasks: []model.ReportTask{
			{TaskDescription: "Pasang pipa", Status: "Dalam Proses", ResponsiblePerson: strPtr("Budi")},
			{TaskDescription: "Cek genset", Status: "Selesai"},
		},
		Materials: []model.ReportMaterial{
			{ItemName: "Semen", Quantity: decimal.NewFromInt(5), Unit: "sak"},
		},
		TomorrowPlans: []model.ReportTomorrowPlan{
			{PlanDescription: "[Hari Ini] Pasang pipa", ResponsiblePerson: strPtr("Budi")},
		},
		ImportantNotes: strPtr("Hujan deras siang hari"),
	}
}

func TestBuildReportSummary(t *testing.T) {
	got := BuildReportSummary(sampleReport())

	for _, want := range []string{
		"*Laporan Harian*",
		"Nama: Budi Santoso",
		"Lokasi: Kantor Pusat",
		"Departemen: Proyek",
		"Jenis Proyek: Renovasi",
		"Tanggal: 31-08-2026",
		"1. Pasang pipa [Dalam Proses] (PIC: Budi)",
		"2. Cek genset [Selesai]",
		"- Semen: 5 sak",
		"- [Hari Ini] Pasang pipa (PJ: Budi)",
		"Hujan deras siang hari",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q\n%s", want, got)
		}
	}

	if strings.HasSuffix(got, "\n") {
		t.Error("summary must not end with a newline")
	}
}

func TestBuildReportSummaryOmitsEmptySections(t *testing.T) {
	r := sampleReport()
	r.Materials = nil
	r.TomorrowPlans = nil
	r.ImportantNotes = nil

	got := BuildReportSummary(r)
	for _, absent := range []string{"*Material:*", "*Rencana Besok:*", "*Catatan Penting:*"} {
		if strings.Contains(got, absent) {
			t.Errorf("summary must omit empty section %q\n%s", absent, got)
		}
	}
}

func TestBuildReportSummaryLegacyPlanFallback(t *testing.T) {
	r := sampleReport()
	r.TomorrowPlans = nil
	r.TomorrowPlan = strPtr("- Lanjut pengecoran (PJ: Andi)")

	got := BuildReportSummary(r)
	if !strings.Contains(got, "*Rencana Besok:*\n- Lanjut pengecoran (PJ: Andi)") {
		t.Errorf("legacy plan text not rendered:\n%s", got)
	}
}
