package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"lapor/internal/model"
	"lapor/internal/repository"

	"github.com/xuri/excelize/v2"
)

// exportHeader is the column set of both export formats.
var exportHeader = []string{
	"Tanggal", "Nama", "Lokasi", "Departemen", "Jenis Proyek",
	"Pekerjaan", "Status Pekerjaan", "PIC",
	"Material", "Rencana Besok", "Catatan Penting", "Status Laporan",
}

type ExportService interface {
	ExportXLSX(ctx context.Context, query ListReportsQuery) ([]byte, error)
	ExportCSV(ctx context.Context, query ListReportsQuery) ([]byte, error)
}

type exportService struct {
	reportRepo repository.ReportRepository
}

func NewExportService(reportRepo repository.ReportRepository) ExportService {
	return &exportService{reportRepo: reportRepo}
}

// FlattenReports turns reports into one row per task, with the report-level
// columns repeated on each row. Reports with no tasks still produce a single
// row so they are not silently dropped from the export.
func FlattenReports(reports []model.DailyReport) [][]string {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		creator, location, dept, projectType := "", "", "", ""
		if r.Creator != nil {
			creator = r.Creator.Fullname
		}
		if r.Location != nil {
			location = r.Location.LocationName
		}
		if r.Department != nil {
			dept = r.Department.DeptName
		}
		if r.ProjectType != nil {
			projectType = r.ProjectType.ProjectName
		}

		materials := make([]string, 0, len(r.Materials))
		for _, m := range r.Materials {
			materials = append(materials, fmt.Sprintf("%s: %s %s", m.ItemName, m.Quantity.String(), m.Unit))
		}
		materialCol := strings.Join(materials, "; ")

		plans := make([]string, 0, len(r.TomorrowPlans))
		for _, p := range r.TomorrowPlans {
			plans = append(plans, p.PlanDescription)
		}
		planCol := strings.Join(plans, "; ")
		if planCol == "" && r.TomorrowPlan != nil {
			planCol = *r.TomorrowPlan
		}

		notes := ""
		if r.ImportantNotes != nil {
			notes = *r.ImportantNotes
		}

		date := r.ReportDate.Format("02-01-2006")

		if len(r.Tasks) == 0 {
			rows = append(rows, []string{
				date, creator, location, dept, projectType,
				"", "", "",
				materialCol, planCol, notes, r.Status,
			})
			continue
		}

		for _, t := range r.Tasks {
			pic := ""
			if t.ResponsiblePerson != nil {
				pic = *t.ResponsiblePerson
			}
			rows = append(rows, []string{
				date, creator, location, dept, projectType,
				t.TaskDescription, t.Status, pic,
				materialCol, planCol, notes, r.Status,
			})
		}
	}
	return rows
}

func (s *exportService) fetch(ctx context.Context, query ListReportsQuery) ([]model.DailyReport, error) {
	filter := repository.ReportFilter{
		LocationID: query.LocationID,
		DeptID:     query.DeptID,
		Search:     query.Search,
		Page:       1,
		Limit:      5000,
	}
	if query.DateFilter != "" {
		filter.Since = sinceFor(query.DateFilter, time.Now())
	}

	reports, _, err := s.reportRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Children beyond tasks are not part of the list projection
	full := make([]model.DailyReport, 0, len(reports))
	for _, r := range reports {
		detail, err := s.reportRepo.FindByIDWithChildren(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		full = append(full, *detail)
	}
	return full, nil
}

func (s *exportService) ExportXLSX(ctx context.Context, query ListReportsQuery) ([]byte, error) {
	reports, err := s.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Laporan Harian"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
	if err := f.SetCellStyle(sheet, "A1", lastCol, headerStyle); err != nil {
		return nil, err
	}

	widths := []float64{12, 20, 18, 16, 16, 40, 15, 18, 30, 30, 30, 14}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, err
		}
	}

	for rowIdx, row := range FlattenReports(reports) {
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *exportService) ExportCSV(ctx context.Context, query ListReportsQuery) ([]byte, error) {
	reports, err := s.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, row := range FlattenReports(reports) {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
