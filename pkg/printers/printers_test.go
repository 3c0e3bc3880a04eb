package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/roll"
)

func init() {
	color.NoColor = true
}

func TestMoney(t *testing.T) {
	tests := map[string]struct {
		in   float64
		want string
	}{
		"zero":      {0, "$0.00"},
		"cents":     {0.25, "$0.25"},
		"thousands": {1234.56, "$1,234.56"},
		"millions":  {1234567.891, "$1,234,567.89"},
		"rounds":    {7.005, "$7.01"},
		"negative":  {-1500, "-$1,500.00"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Money(tc.in); got != tc.want {
				t.Errorf("Money(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestGrams(t *testing.T) {
	if got := Grams(250); got != "250 g" {
		t.Errorf("Grams(250) = %q", got)
	}
	if got := Grams(12.5); got != "12.5 g" {
		t.Errorf("Grams(12.5) = %q", got)
	}
	if got := PerGram(0.035); got != "0.0350" {
		t.Errorf("PerGram(0.035) = %q", got)
	}
}

func TestColorHex(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
		ok   bool
	}{
		"hex":       {"#FF0000", "#ff0000", true},
		"named":     {"Red", "#d32f2f", true},
		"last word": {"Galaxy Black", "#1a1a1a", true},
		"unknown":   {"Mystery", "", false},
		"empty":     {"", "", false},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := ColorHex(tc.in)
			if got != tc.want || ok != tc.ok {
				t.Errorf("ColorHex(%q) = %q, %v, want %q, %v", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestBarChart(t *testing.T) {
	var buf bytes.Buffer
	chart := &BarChart{Width: 10, Days: true}
	err := chart.RenderChart(&buf, app.Aggregates{
		Materials: []app.Total{{Label: "PETG", Grams: 50}, {Label: "PLA", Grams: 100}},
		Days:      []app.Total{{Label: "2026-10-16", Grams: 150}},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Filament used by material",
		"PETG           █████ 50 g",
		"PLA            ██████████ 100 g",
		"Filament used per day",
		"2026-10-16     ██████████ 150 g",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q:\n%s", want, out)
		}
	}
}

func TestBarChartEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := (&BarChart{}).RenderChart(&buf, app.Aggregates{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "no usage") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "per day") {
		t.Errorf("days series printed without Days:\n%s", buf.String())
	}
}

func TestMonthMath(t *testing.T) {
	oct := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)
	if got := StartDay(oct); got != time.Thursday {
		t.Errorf("StartDay = %v", got)
	}
	if got := DaysIn(oct); got != 31 {
		t.Errorf("DaysIn = %d", got)
	}
	if got := DaysIn(time.Date(2024, time.February, 3, 0, 0, 0, 0, time.UTC)); got != 29 {
		t.Errorf("DaysIn(leap February) = %d", got)
	}
	if got := NextMonth(time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)); got.Month() != time.January || got.Year() != 2027 {
		t.Errorf("NextMonth = %v", got)
	}
}

func TestCalendar(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Calendar(time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), []app.Total{
		{Label: "2026-09-30", Grams: 999},
		{Label: "2026-10-02", Grams: 50},
		{Label: "2026-10-16", Grams: 150},
	})
	out := buf.String()
	if !strings.Contains(out, "October 2026") {
		t.Errorf("missing month heading:\n%s", out)
	}
	if !strings.Contains(out, "200 g used") {
		t.Errorf("month total not printed:\n%s", out)
	}
	// October 2026 starts on a Thursday: four blank days before the 1st.
	lines := strings.Split(out, "\n")
	if len(lines) < 2 || !strings.HasPrefix(lines[1], strings.Repeat("   ", 4)+" 1  2  3") {
		t.Errorf("first week misaligned:\n%s", out)
	}
}

func TestRollsTable(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	r := roll.New("Red", "PLA", "A rather long description that will not fit the column", 1000, 20, 250, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	pp.Rolls([]app.RollView{{Roll: r, Threshold: 300, Status: roll.StatusLow, Low: true}})
	out := buf.String()
	for _, want := range []string{r.ID, "PLA", "250.0", "0.0200", "low", "…"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	pp.Rolls(nil)
	if !strings.Contains(buf.String(), "no rolls") {
		t.Errorf("empty table: %q", buf.String())
	}
}

func TestStats(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Stats(app.Stats{RollsArchived: 1, RollsActive: 2, RollsTracked: 3, GramsUsed: 1222.5, MoneyUsed: 1234.5})
	out := buf.String()
	for _, want := range []string{"Rolls used (archived):", "1222.5 g", "$1,234.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats missing %q:\n%s", want, out)
		}
	}
}
