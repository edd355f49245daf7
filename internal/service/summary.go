package service

import (
	"fmt"
	"strings"

	"lapor/internal/model"
)

// BuildReportSummary renders a report as the WhatsApp-style share text used by
// the mobile client. Sections with no content are omitted entirely.
func BuildReportSummary(r *model.DailyReport) string {
	var b strings.Builder

	b.WriteString("*Laporan Harian*\n")
	if r.Creator != nil {
		fmt.Fprintf(&b, "Nama: %s\n", r.Creator.Fullname)
	}
	if r.Location != nil {
		fmt.Fprintf(&b, "Lokasi: %s\n", r.Location.LocationName)
	}
	if r.Department != nil {
		fmt.Fprintf(&b, "Departemen: %s\n", r.Department.DeptName)
	}
	if r.ProjectType != nil {
		fmt.Fprintf(&b, "Jenis Proyek: %s\n", r.ProjectType.ProjectName)
	}
	fmt.Fprintf(&b, "Tanggal: %s\n", r.ReportDate.Format("02-01-2006"))

	if len(r.Tasks) > 0 {
		b.WriteString("\n*Pekerjaan:*\n")
		for i, t := range r.Tasks {
			fmt.Fprintf(&b, "%d. %s [%s]", i+1, t.TaskDescription, t.Status)
			if t.ResponsiblePerson != nil && *t.ResponsiblePerson != "" {
				fmt.Fprintf(&b, " (PIC: %s)", *t.ResponsiblePerson)
			}
			b.WriteString("\n")
		}
	}

	if len(r.Materials) > 0 {
		b.WriteString("\n*Material:*\n")
		for _, m := range r.Materials {
			fmt.Fprintf(&b, "- %s: %s %s\n", m.ItemName, m.Quantity.String(), m.Unit)
		}
	}

	if len(r.TomorrowPlans) > 0 {
		b.WriteString("\n*Rencana Besok:*\n")
		for _, p := range r.TomorrowPlans {
			fmt.Fprintf(&b, "- %s", p.PlanDescription)
			if p.ResponsiblePerson != nil && *p.ResponsiblePerson != "" {
				fmt.Fprintf(&b, " (PJ: %s)", *p.ResponsiblePerson)
			}
			b.WriteString("\n")
		}
	} else if r.TomorrowPlan != nil && *r.TomorrowPlan != "" {
		b.WriteString("\n*Rencana Besok:*\n")
		b.WriteString(*r.TomorrowPlan)
		b.WriteString("\n")
	}

	if r.ImportantNotes != nil && *r.ImportantNotes != "" {
		b.WriteString("\n*Catatan Penting:*\n")
		b.WriteString(*r.ImportantNotes)
		b.WriteString("\n")
	}

	if r.FooterText != "" {
		b.WriteString("\n")
		b.WriteString(r.FooterText)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
