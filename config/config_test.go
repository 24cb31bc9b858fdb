package config

import (
	"strings"
	"testing"
	"time"

	"github.com/ichika06/ojt-tracker/metrics"
)

func TestValidateYAMLContent_AppliesDefaults(t *testing.T) {
	t.Parallel()

	content := []byte(`remote:
  url: "https://ojt-tracker.example.com"
`)

	cfg, err := ValidateYAMLContent(content)
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if cfg.Timezone != "Asia/Manila" {
		t.Fatalf("timezone = %q, want Asia/Manila", cfg.Timezone)
	}
	if cfg.Goal.Default != metrics.DefaultGoal {
		t.Fatalf("goal default = %v, want %d", cfg.Goal.Default, metrics.DefaultGoal)
	}
	if cfg.Sync.PollInterval != 30*time.Second {
		t.Fatalf("poll interval = %v, want 30s", cfg.Sync.PollInterval)
	}
}

func TestValidateYAMLContent_RequiresRemoteURL(t *testing.T) {
	t.Parallel()

	if _, err := ValidateYAMLContent([]byte(`timezone: "Asia/Manila"`)); err == nil {
		t.Fatalf("expected validation error for missing remote url")
	}
}

func TestValidateYAMLContent_RejectsBadTimezone(t *testing.T) {
	t.Parallel()

	content := []byte(`remote:
  url: "https://ojt-tracker.example.com"
timezone: "Mars/Olympus"
`)

	_, err := ValidateYAMLContent(content)
	if err == nil {
		t.Fatalf("expected validation error for unknown timezone")
	}
	if !strings.Contains(err.Error(), "timezone") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateYAMLContent_RejectsNonPositiveGoal(t *testing.T) {
	t.Parallel()

	content := []byte(`remote:
  url: "https://ojt-tracker.example.com"
goal:
  default: 0
`)

	if _, err := ValidateYAMLContent(content); err == nil {
		t.Fatalf("expected validation error for non-positive goal")
	}
}

func TestExampleYAMLValidates(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("example config must validate: %v", err)
	}
	if cfg.Remote.URL == "" {
		t.Fatalf("example config missing remote url")
	}
}
