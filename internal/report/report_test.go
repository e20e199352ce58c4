package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"internscout/internal/model"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func sampleResult() model.RunResult {
	posted := now.Add(-3 * time.Hour)
	return model.RunResult{
		Groups: []model.RoleGroup{
			{
				Role: "Product Management Intern",
				Listings: []model.Listing{
					{
						IdentityKey:  "x.com/job/1",
						Title:        "Product Management Intern",
						Company:      "Acme",
						Location:     "Remote",
						URL:          "https://x.com/job/1",
						Source:       "linkedin",
						PostedAt:     &posted,
						MatchedRoles: []string{"Product Management Intern"},
						FirstSeen:    now,
					},
				},
			},
		},
	}
}

func TestWriteRun_AndLoadSnapshots(t *testing.T) {
	dir := t.TempDir()

	jsonPath, htmlPath, err := WriteRun(dir, sampleResult(), now)
	if err != nil {
		t.Fatalf("WriteRun: %v", err)
	}
	for _, p := range []string{jsonPath, htmlPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing output file %s: %v", p, err)
		}
	}

	listings, err := LoadSnapshots(dir)
	if err != nil {
		t.Fatalf("LoadSnapshots: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("listings = %d, want 1", len(listings))
	}
	l := listings[0]
	if l.IdentityKey != "x.com/job/1" {
		t.Errorf("identity_key = %q", l.IdentityKey)
	}
	if !l.FirstSeen.Equal(now) {
		t.Errorf("first_seen = %v, want %v", l.FirstSeen, now)
	}
}

func TestLoadSnapshots_ChronologicalAcrossRuns(t *testing.T) {
	dir := t.TempDir()

	earlier := now.Add(-4 * time.Hour)
	if _, _, err := WriteRun(dir, sampleResult(), earlier); err != nil {
		t.Fatal(err)
	}
	later := sampleResult()
	later.Groups[0].Listings[0].IdentityKey = "x.com/job/2"
	later.Groups[0].Listings[0].URL = "https://x.com/job/2"
	if _, _, err := WriteRun(dir, later, now); err != nil {
		t.Fatal(err)
	}

	listings, err := LoadSnapshots(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(listings) != 2 {
		t.Fatalf("listings = %d, want 2", len(listings))
	}
	if listings[0].IdentityKey != "x.com/job/1" || listings[1].IdentityKey != "x.com/job/2" {
		t.Errorf("snapshots not in chronological order: %s, %s",
			listings[0].IdentityKey, listings[1].IdentityKey)
	}
}

func TestLoadSnapshots_MissingDir(t *testing.T) {
	listings, err := LoadSnapshots(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("listings = %d, want 0", len(listings))
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(sampleResult(), now)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	for _, want := range []string{
		"Product Management Intern",
		"https://x.com/job/1",
		"at Acme",
		"via linkedin",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderHTML_EscapesMarkup(t *testing.T) {
	r := sampleResult()
	r.Groups[0].Listings[0].Title = `<script>alert("x")</script>`

	html, err := RenderHTML(r, now)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "<script>") {
		t.Error("listing title not escaped")
	}
}
