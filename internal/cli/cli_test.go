package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/monarkh/site/internal/carousel"
	"github.com/monarkh/site/internal/config"
	"github.com/monarkh/site/internal/live"
	"github.com/monarkh/site/internal/store"
	"github.com/monarkh/site/internal/testutil"
)

// useTempDB points the package-level db path at a fresh database.
func useTempDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "monarkh.db")
	old := dbPath
	dbPath = path
	t.Cleanup(func() { dbPath = old })

	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	s.Close()
	return path
}

func runSubscribers(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newSubscribersCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSubscribersList_Empty(t *testing.T) {
	useTempDB(t)

	out, err := runSubscribers(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "No subscribers yet.") {
		t.Errorf("expected empty message, got:\n%s", out)
	}
}

func TestSubscribersAddAndList(t *testing.T) {
	useTempDB(t)

	out, err := runSubscribers(t, "add", "  Jane@Example.com ")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(out, "Subscribed jane@example.com") {
		t.Errorf("unexpected add output: %s", out)
	}

	out, err = runSubscribers(t, "add", "jane@example.com")
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if !strings.Contains(out, "already subscribed") {
		t.Errorf("expected duplicate message, got: %s", out)
	}

	if _, err := runSubscribers(t, "add", "bob@example.com", "--source", "home"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	out, err = runSubscribers(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"EMAIL", "jane@example.com", "bob@example.com", "2 subscribers", "cli: 1", "home: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestSubscribersAdd_Invalid(t *testing.T) {
	useTempDB(t)

	if _, err := runSubscribers(t, "add", "not-an-email"); err == nil {
		t.Error("expected error for invalid email")
	}
}

func TestSubscribersRemove(t *testing.T) {
	path := useTempDB(t)
	s, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	testutil.Seed(t, s, "home", "jane@example.com")
	s.Close()

	out, err := runSubscribers(t, "remove", "jane@example.com", "--yes")
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if !strings.Contains(out, "Removed jane@example.com") {
		t.Errorf("unexpected output: %s", out)
	}

	_, err = runSubscribers(t, "remove", "jane@example.com", "--yes")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestSubscribersExport_CSV(t *testing.T) {
	path := useTempDB(t)
	s, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	testutil.Seed(t, s, "home", "a@example.com", "b@example.com")
	s.Close()

	out, err := runSubscribers(t, "export")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != "id,email,source,created_at" {
		t.Errorf("unexpected header: %v", records[0])
	}
}

func TestSubscribersExport_JSON(t *testing.T) {
	path := useTempDB(t)
	s, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	testutil.Seed(t, s, "articles", "a@example.com")
	s.Close()

	out, err := runSubscribers(t, "export", "--format", "json")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var rows []exportedSubscriber
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if len(rows) != 1 || rows[0].Email != "a@example.com" || rows[0].Source != "articles" {
		t.Errorf("unexpected rows: %+v", rows)
	}
	if _, err := time.Parse(time.RFC3339, rows[0].CreatedAt); err != nil {
		t.Errorf("created_at not RFC3339: %q", rows[0].CreatedAt)
	}
}

func TestSubscribersExport_InvalidFormat(t *testing.T) {
	useTempDB(t)

	if _, err := runSubscribers(t, "export", "--format", "xml"); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestToken(t *testing.T) {
	path := useTempDB(t)

	cmd := tokenCmd
	var out bytes.Buffer
	cmd.SetOut(&out)
	t.Cleanup(func() { cmd.SetOut(nil) })

	if err := runToken(cmd, nil); err == nil {
		t.Fatal("expected error without token file")
	}

	tokenFile := filepath.Join(filepath.Dir(path), ".monarkh-token")
	if err := os.WriteFile(tokenFile, []byte("abc12345"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := runToken(cmd, nil); err != nil {
		t.Fatalf("token failed: %v", err)
	}
	if !strings.Contains(out.String(), "/admin?token=abc12345") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestValidatePort(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"8080", false},
		{" 443 ", false},
		{"0", true},
		{"70000", true},
		{"abc", true},
	}

	for _, tt := range tests {
		err := validatePort(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("validatePort(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateBaseURL(t *testing.T) {
	if err := validateBaseURL(""); err != nil {
		t.Errorf("blank URL should be accepted: %v", err)
	}
	if err := validateBaseURL("https://johnny.ae"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := validateBaseURL("johnny.ae"); err == nil {
		t.Error("expected error for URL without scheme")
	}
}

func TestRenderEnvFile(t *testing.T) {
	got := renderEnvFile(initSettings{
		Port:         9000,
		BaseURL:      "https://johnny.ae",
		DBPath:       "/var/lib/monarkh.db",
		CarouselMode: carousel.ModeScroll,
	})

	for _, want := range []string{
		"MONARKH_PORT=9000\n",
		"MONARKH_DB_PATH=/var/lib/monarkh.db\n",
		"MONARKH_BASE_URL=https://johnny.ae\n",
		"MONARKH_MOTION_CAROUSEL_MODE=scroll\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("env file missing %q:\n%s", want, got)
		}
	}

	got = renderEnvFile(initSettings{Port: 8080, DBPath: "./monarkh.db", CarouselMode: carousel.ModePaged})
	if strings.Contains(got, "MONARKH_BASE_URL") {
		t.Errorf("blank base URL should be omitted:\n%s", got)
	}
}

func TestParseNavEvents(t *testing.T) {
	events, err := parseNavEvents([]string{"prev@8s", "next@6s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 || events[0].Dir != live.DirNext || events[0].At != 6*time.Second {
		t.Errorf("events not sorted by time: %+v", events)
	}

	for _, bad := range []string{"next", "up@1s", "next@soon"} {
		if _, err := parseNavEvents([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func defaultSimulation(t *testing.T) simulation {
	t.Helper()
	c, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return simulation{
		Page:     "home",
		Items:    12,
		Duration: 16 * time.Second,
		Step:     250 * time.Millisecond,
		Options:  c.Motion.LiveOptions(12),
	}
}

func TestRunSimulation_CarouselCycles(t *testing.T) {
	sim := defaultSimulation(t)

	var out bytes.Buffer
	if err := runSimulation(&out, sim); err != nil {
		t.Fatalf("simulation failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"1/3 auto",
		"2/3 auto",
		"3/3 auto",
		"[4 20 15 30 50]",
		"hero 3/3",
		"portfolio 10/10",
		"newsletter 3/3",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("timeline missing %q:\n%s", want, got)
		}
	}
}

func TestRunSimulation_NavPausesCarousel(t *testing.T) {
	sim := defaultSimulation(t)
	sim.Nav = []navEvent{{At: 6 * time.Second, Dir: live.DirPrev}}

	var out bytes.Buffer
	if err := runSimulation(&out, sim); err != nil {
		t.Fatalf("simulation failed: %v", err)
	}

	// Page 2 at 5s, back to page 1 on the click, resumes after the cooldown.
	if !strings.Contains(out.String(), "1/3 paused") {
		t.Errorf("expected paused carousel:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "13.00s") {
		t.Errorf("expected resume after cooldown at 13s:\n%s", out.String())
	}
}

func TestRunSimulation_HideResets(t *testing.T) {
	sim := defaultSimulation(t)
	sim.Duration = 4 * time.Second
	sim.HiddenAt = 3 * time.Second

	var out bytes.Buffer
	if err := runSimulation(&out, sim); err != nil {
		t.Fatalf("simulation failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	last := lines[len(lines)-1]
	if !strings.Contains(last, "[0 0 0 0 0]") || !strings.Contains(last, "hero 0/3") {
		t.Errorf("expected reset state after hide, got %q", last)
	}
}

func TestRunSimulation_UnknownPage(t *testing.T) {
	sim := defaultSimulation(t)
	sim.Page = "contact"

	if err := runSimulation(&bytes.Buffer{}, sim); err == nil {
		t.Error("expected error for unknown page")
	}
}
