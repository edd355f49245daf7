package planner

import (
	"reflect"
	"testing"
)

func TestStripPrefix(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Pasang pipa", "Pasang pipa"},
		{"[Lanjutan] Pasang pipa", "Pasang pipa"},
		{"[Hari Ini] Pasang pipa", "Pasang pipa"},
		{"[Hari Ini] [Lanjutan] Pasang pipa", "[Lanjutan] Pasang pipa"}, // single strip only
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripPrefix(tt.in); got != tt.want {
			t.Errorf("StripPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCarryForward(t *testing.T) {
	prev := []TaskItem{
		{Description: "Pasang pipa", ResponsiblePerson: "Budi", Status: "Dalam Proses"},
		{Description: "Cek genset", ResponsiblePerson: "Sari", Status: "Selesai"},
		{Description: "[Lanjutan] Perbaiki atap", ResponsiblePerson: "Andi", Status: "Bermasalah"},
	}

	got := CarryForward(prev)
	want := []TaskItem{
		{Description: "[Lanjutan] Pasang pipa", ResponsiblePerson: "Budi", Status: "Dalam Proses"},
		{Description: "[Lanjutan] Perbaiki atap", ResponsiblePerson: "Andi", Status: "Bermasalah"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CarryForward = %v, want %v", got, want)
	}
}

func TestCarryForwardEmpty(t *testing.T) {
	if got := CarryForward(nil); len(got) != 0 {
		t.Fatalf("CarryForward(nil) = %v, want empty", got)
	}
	done := []TaskItem{{Description: "Cek genset", Status: "Selesai"}}
	if got := CarryForward(done); len(got) != 0 {
		t.Fatalf("all-done input must carry nothing, got %v", got)
	}
}

func TestDeriveAutoPlans(t *testing.T) {
	plans := []PlanItem{
		{Description: "Rapat koordinasi", ResponsiblePerson: "Sari"},
		{Description: "[Hari Ini] Pasang pipa", ResponsiblePerson: "Budi"},
	}
	tasks := []TaskItem{
		{Description: "Pasang pipa", ResponsiblePerson: "Budi", Status: "Dalam Proses"},
		{Description: "[Lanjutan] Cek genset", ResponsiblePerson: "Andi", Status: "Bermasalah"},
		{Description: "Laporan mingguan", ResponsiblePerson: "Sari", Status: "Selesai"},
	}

	got := DeriveAutoPlans(plans, tasks)
	want := []PlanItem{
		{Description: "Rapat koordinasi", ResponsiblePerson: "Sari"},
		{Description: "[Hari Ini] Pasang pipa", ResponsiblePerson: "Budi"},
		{Description: "[Hari Ini] Cek genset", ResponsiblePerson: "Andi"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DeriveAutoPlans = %v, want %v", got, want)
	}
}

func TestDeriveAutoPlansMatchesAcrossPrefixes(t *testing.T) {
	// A plan carrying the other marker still blocks re-adding the same work
	plans := []PlanItem{{Description: "[Lanjutan] Pasang pipa"}}
	tasks := []TaskItem{{Description: "[Hari Ini] Pasang pipa", Status: "Dalam Proses"}}

	got := DeriveAutoPlans(plans, tasks)
	if len(got) != 1 {
		t.Fatalf("got %d plans, want 1 (no duplicate)", len(got))
	}
}

func TestDeriveAutoPlansDuplicateTasks(t *testing.T) {
	tasks := []TaskItem{
		{Description: "Pasang pipa", Status: "Dalam Proses"},
		{Description: "[Lanjutan] Pasang pipa", Status: "Bermasalah"},
	}

	got := DeriveAutoPlans(nil, tasks)
	if len(got) != 1 {
		t.Fatalf("got %d plans, want 1 (same base description)", len(got))
	}
	if got[0].Description != "[Hari Ini] Pasang pipa" {
		t.Fatalf("description = %q", got[0].Description)
	}
}

func TestDeriveAutoPlansDoesNotMutateInput(t *testing.T) {
	plans := make([]PlanItem, 1, 4)
	plans[0] = PlanItem{Description: "Rapat koordinasi"}
	tasks := []TaskItem{{Description: "Pasang pipa", Status: "Dalam Proses"}}

	_ = DeriveAutoPlans(plans, tasks)

	grown := plans[:cap(plans)]
	for _, p := range grown[1:] {
		if p.Description != "" {
			t.Fatal("DeriveAutoPlans wrote into the caller's backing array")
		}
	}
}

func TestDeriveAutoPlansKeepsEntryAfterTaskCompletes(t *testing.T) {
	tasks := []TaskItem{{Description: "Pasang pipa", ResponsiblePerson: "Budi", Status: "Dalam Proses"}}

	plans := DeriveAutoPlans(nil, tasks)
	want := []PlanItem{{Description: "[Hari Ini] Pasang pipa", ResponsiblePerson: "Budi"}}
	if !reflect.DeepEqual(plans, want) {
		t.Fatalf("DeriveAutoPlans = %v, want %v", plans, want)
	}

	// Completing the task later must not retract the plan already derived
	// from it. Only the user removes plan entries.
	tasks[0].Status = "Selesai"
	plans = DeriveAutoPlans(plans, tasks)
	if !reflect.DeepEqual(plans, want) {
		t.Fatalf("re-derivation after completion = %v, want %v", plans, want)
	}
}

func TestDeriveAutoPlansIdempotent(t *testing.T) {
	tasks := []TaskItem{{Description: "Pasang pipa", ResponsiblePerson: "Budi", Status: "Dalam Proses"}}

	once := DeriveAutoPlans(nil, tasks)
	twice := DeriveAutoPlans(once, tasks)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second derivation changed the result: %v vs %v", once, twice)
	}
}
