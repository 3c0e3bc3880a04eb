package printers

import (
	"fmt"

	"tableflip.dev/spool/pkg/app"
)

const noProject = "(no project)"

// Report prints the usage recorded in a window, grouped by project.
func (pp *PrettyPrint) Report(result app.ReportResult, label string) {
	out := pp.out()
	since := result.Since.Local().Format("2006-01-02 15:04")
	until := result.Until.Local().Format("2006-01-02 15:04")
	_, _ = fmt.Fprintf(out, "Usage · last %s (%s → %s)\n", label, since, until)

	if result.Total == 0 {
		_, _ = fmt.Fprintln(out, "  No filament used in this window.")
		_, _ = fmt.Fprintln(out)
		return
	}

	for _, section := range result.Sections {
		name := section.Project
		if name == "" {
			name = noProject
		}
		_, _ = fmt.Fprintf(out, "\n%s  %s\n", title.Sprint(name),
			faint.Sprintf("%s · %s", Grams(section.Grams), Money(section.Cost)))
		for _, item := range section.Items {
			what := item.Event.RollID
			if item.Roll != nil {
				what = fmt.Sprintf("%s (%s)", item.Roll.Label(), item.Roll.ID)
			}
			when := item.Event.Timestamp.Local().Format("2006-01-02 15:04")
			_, _ = fmt.Fprintf(out, "  %s  %8s  %9s  %s\n", when, Grams(item.Event.UsedGrams), Money(item.Event.Cost), what)
		}
	}
	_, _ = fmt.Fprintf(out, "\n%d event(s) · %s · %s\n\n", result.Total, Grams(result.Grams), Money(result.Cost))
}
