package model

// ReportStats aggregates dashboard counters over the reports visible to the
// caller. "Completed" means every task is Selesai (and the report has at least
// one task); a single Bermasalah task makes the whole report problematic.
type ReportStats struct {
	Total       int `json:"total"`
	Verified    int `json:"verified"`
	Completed   int `json:"completed"`
	InProgress  int `json:"in_progress"`
	Problematic int `json:"problematic"`
	Draft       int `json:"draft"`
}
