package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validConfig = `
schedule_interval: 2h
location: United States
max_age: 24h
unknown_recency: reject
retention: 720h
roles:
  - name: Product Management Intern
  - name: Technical Program Management Intern
    synonyms: ["TPM"]
scrapers: [internlist, linkedin]
notification:
  type: log
`

func TestLoad_Valid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ScheduleInterval != 2*time.Hour {
		t.Errorf("interval = %v, want 2h", cfg.ScheduleInterval)
	}
	if cfg.MaxAge != 24*time.Hour {
		t.Errorf("max_age = %v, want 24h", cfg.MaxAge)
	}
	if cfg.Retention != 720*time.Hour {
		t.Errorf("retention = %v, want 720h", cfg.Retention)
	}
	if len(cfg.Roles) != 2 {
		t.Fatalf("roles = %d, want 2", len(cfg.Roles))
	}
	if got := cfg.Roles[1].Synonyms; len(got) != 1 || got[0] != "TPM" {
		t.Errorf("synonyms = %v, want [TPM]", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
roles:
  - name: Data Analyst Intern
scrapers: [simplyhired]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ScheduleInterval != 4*time.Hour {
		t.Errorf("default interval = %v, want 4h", cfg.ScheduleInterval)
	}
	if cfg.MaxAge != 24*time.Hour {
		t.Errorf("default max_age = %v, want 24h", cfg.MaxAge)
	}
	if cfg.UnknownRecency != "reject" {
		t.Errorf("default unknown_recency = %q, want reject", cfg.UnknownRecency)
	}
	if cfg.Retention != 720*time.Hour {
		t.Errorf("default retention = %v, want 720h", cfg.Retention)
	}
	if cfg.Location != "United States" {
		t.Errorf("default location = %q", cfg.Location)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_SMTP_PASSWORD", "hunter2")
	cfg, err := Load(writeConfig(t, `
roles:
  - name: Data Analyst Intern
scrapers: [simplyhired]
notification:
  type: email
  email:
    smtp_host: smtp.example.com
    smtp_port: 587
    from: me@example.com
    password: ${TEST_SMTP_PASSWORD}
    to: you@example.com
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Notification.Email.Password != "hunter2" {
		t.Errorf("password = %q, want expanded env value", cfg.Notification.Email.Password)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "no roles",
			content: "scrapers: [internlist]",
			wantErr: "at least one target role",
		},
		{
			name: "no scrapers",
			content: `
roles:
  - name: PM Intern
`,
			wantErr: "at least one scraper",
		},
		{
			name: "bad unknown_recency",
			content: `
unknown_recency: maybe
roles:
  - name: PM Intern
scrapers: [internlist]
`,
			wantErr: "unknown_recency",
		},
		{
			name: "postgres without dsn",
			content: `
roles:
  - name: PM Intern
scrapers: [internlist]
store:
  backend: postgres
`,
			wantErr: "store.dsn is required",
		},
		{
			name: "email without credentials",
			content: `
roles:
  - name: PM Intern
scrapers: [internlist]
notification:
  type: email
`,
			wantErr: "notification.email requires",
		},
		{
			name: "retention shorter than max_age",
			content: `
max_age: 48h
retention: 24h
roles:
  - name: PM Intern
scrapers: [internlist]
`,
			wantErr: "retention",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
