package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/spool/pkg/app"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Calendar prints the month of then with the days filament was used in bold.
// days are daily totals labelled YYYY-MM-DD.
func (pp *PrettyPrint) Calendar(then time.Time, days []app.Total) {
	count := make([]float64, DaysIn(then))
	prefix := then.Format("2006-01-")
	for _, d := range days {
		if !strings.HasPrefix(d.Label, prefix) {
			continue
		}
		day, err := time.Parse(time.DateOnly, d.Label)
		if err != nil {
			continue
		}
		count[day.Day()-1] += d.Grams
	}
	pp.PrintMonthUsage(then, count)
}

// CalendarYear prints the twelve months of then's year.
func (pp *PrettyPrint) CalendarYear(then time.Time, days []app.Total) {
	month := time.Date(then.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		pp.Calendar(month, days)
		month = NextMonth(month)
	}
}

// PrintMonthUsage prints a month grid, one entry of grams per day.
func (pp *PrettyPrint) PrintMonthUsage(then time.Time, grams []float64) {
	out := pp.out()
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)

	m := fmt.Sprintf("%s %d", then.Month(), then.Year())
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(out, "%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(out, "   ")
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)

	total := 0.0
	for i := 0; i < DaysIn(then); i++ {
		if i < len(grams) && grams[i] > 0 {
			total += grams[i]
			_, _ = l2.Fprintf(out, "%2d ", i+1)
		} else {
			_, _ = l1.Fprintf(out, "%2d ", i+1)
		}

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(out, "\n")
		}
	}
	if d != time.Sunday {
		_, _ = fmt.Fprint(out, "\n")
	}
	if total > 0 {
		_, _ = faint.Fprintf(out, "%s used\n", Grams(total))
	}
	_, _ = fmt.Fprint(out, "\n")
}

// NextMonth is the first of the month after then.
func NextMonth(then time.Time) time.Time {
	return time.Date(then.Year(), then.Month()+1, 1, 0, 0, 0, 0, then.Location())
}

// DaysIn is the number of days in the month of then.
func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartDay is the weekday the month of then starts on.
func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 1, 0, 0, 0, time.UTC).Weekday()
}
