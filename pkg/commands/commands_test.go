package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"

	"tableflip.dev/spool/pkg/store"
)

func init() {
	color.NoColor = true
}

// sandbox points the config lookup at an empty home and returns the
// inventory path to pass with --path.
func sandbox(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SPOOL_CONFIG_PATH", t.TempDir())
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	return filepath.Join(home, "inventory.json")
}

func run(t *testing.T, path string, args ...string) error {
	t.Helper()
	cmd := New()
	cmd.SetArgs(append(args, "--path", path, "--log-level", "off"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.ExecuteContext(context.Background())
}

func TestCommandsRegistered(t *testing.T) {
	root := New()
	want := []string{
		"list", "show", "add", "edit", "archive", "use", "thresholds", "alerts",
		"stats", "projects", "report", "chart", "calendar", "photo", "history",
		"restore", "watch", "info", "mcp", "version", "completion",
	}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("command %q not registered", name)
		}
	}
	if _, _, err := root.Find([]string{"thresholds", "set"}); err != nil {
		t.Errorf("thresholds set: %v", err)
	}
}

func TestAddUseAndExport(t *testing.T) {
	path := sandbox(t)

	if err := run(t, path, "add", "--color", "Red", "--material", "PLA", "--weight", "1000", "--price", "20"); err != nil {
		t.Fatalf("add: %v", err)
	}
	doc, err := store.Open(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Active) != 1 {
		t.Fatalf("active = %d, want 1", len(doc.Active))
	}
	id := doc.Active[0].ID

	if err := run(t, path, "use", id, "250", "--project", "Benchy"); err != nil {
		t.Fatalf("use: %v", err)
	}
	if err := run(t, path, "thresholds", "set", "PLA", "800"); err != nil {
		t.Fatalf("thresholds set: %v", err)
	}

	csvPath := filepath.Join(t.TempDir(), "usage.csv")
	if err := run(t, path, "projects", "--export="+csvPath); err != nil {
		t.Fatalf("projects: %v", err)
	}
	got, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "project,grams,cost,events\nBenchy,250.00,5.00,1\n"
	if string(got) != want {
		t.Errorf("csv = %q, want %q", got, want)
	}

	doc, err = store.Open(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Active[0].RemainingGrams != 750 {
		t.Errorf("remaining = %v, want 750", doc.Active[0].RemainingGrams)
	}
	if doc.ThresholdFor("PLA") != 800 {
		t.Errorf("threshold = %v, want 800", doc.ThresholdFor("PLA"))
	}
}

func TestUseUnknownRoll(t *testing.T) {
	path := sandbox(t)
	err := run(t, path, "use", "r-missing", "10")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestJSONErrorsAreSwallowed(t *testing.T) {
	path := sandbox(t)
	if err := run(t, path, "show", "r-missing", "--json"); err != nil {
		t.Errorf("show --json returned %v", err)
	}
}

func TestCorruptInventoryWarnsOnce(t *testing.T) {
	path := sandbox(t)
	if err := os.WriteFile(path, []byte(`{"active": [`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	var logs bytes.Buffer
	ro := &rootOptions{Path: path, LogLevel: "warn", logOut: &logs}
	s, err := ro.open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.Service.Stats(context.Background()); err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if n := strings.Count(logs.String(), "starting from an empty inventory"); n != 1 {
		t.Errorf("warning logged %d times:\n%s", n, logs.String())
	}
}

func TestUseRequiresArgs(t *testing.T) {
	path := sandbox(t)
	if err := run(t, path, "use", "only-one"); err == nil {
		t.Error("use with one argument succeeded")
	}
}
