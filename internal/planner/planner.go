// Package planner derives tomorrow-plan entries from unfinished work. The
// functions are pure: the client re-invokes them on every task-list change and
// nothing here is persisted until the report is submitted.
package planner

import "strings"

// Prefixes marking where an auto-derived entry came from.
const (
	PrefixCarryOver = "[Lanjutan] " // carried over from a previous day's report
	PrefixToday     = "[Hari Ini] " // unfinished task from the current report
)

// TaskItem is the slice of a report task the planner cares about.
type TaskItem struct {
	Description       string `json:"description"`
	ResponsiblePerson string `json:"responsible_person"`
	Status            string `json:"status"`
}

// PlanItem is one tomorrow-plan entry.
type PlanItem struct {
	Description       string `json:"description"`
	ResponsiblePerson string `json:"responsible_person"`
}

const taskDone = "Selesai"

// StripPrefix removes a single leading carry-over or today marker, if any.
func StripPrefix(desc string) string {
	if rest, ok := strings.CutPrefix(desc, PrefixCarryOver); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(desc, PrefixToday); ok {
		return rest
	}
	return desc
}

// CarryForward selects the unfinished tasks of a previous report and marks
// them as carried over, for seeding a new report's task list.
func CarryForward(prevTasks []TaskItem) []TaskItem {
	var out []TaskItem
	for _, t := range prevTasks {
		if t.Status == taskDone {
			continue
		}
		out = append(out, TaskItem{
			Description:       PrefixCarryOver + StripPrefix(t.Description),
			ResponsiblePerson: t.ResponsiblePerson,
			Status:            t.Status,
		})
	}
	return out
}

// DeriveAutoPlans appends a plan entry for every unfinished task that is not
// already planned. An entry counts as already planned when any existing plan
// has the same description after stripping either prefix, so an item the user
// removed (or that arrived both carried-over and today) is never re-added.
//
// The merge is append-only: existing entries, including user-added ones, are
// never removed or reordered; new entries preserve the task list's order and
// go at the end.
func DeriveAutoPlans(currentPlans []PlanItem, tasks []TaskItem) []PlanItem {
	existing := make(map[string]struct{}, len(currentPlans))
	for _, p := range currentPlans {
		existing[StripPrefix(p.Description)] = struct{}{}
	}

	out := make([]PlanItem, len(currentPlans), len(currentPlans)+len(tasks))
	copy(out, currentPlans)
	for _, t := range tasks {
		if t.Status == taskDone {
			continue
		}
		base := StripPrefix(t.Description)
		if _, ok := existing[base]; ok {
			continue
		}
		existing[base] = struct{}{}
		out = append(out, PlanItem{
			Description:       PrefixToday + base,
			ResponsiblePerson: t.ResponsiblePerson,
		})
	}
	return out
}
