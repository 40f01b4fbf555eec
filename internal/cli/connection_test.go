package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/quill/pkg/quill"
)

// newSettingsCmd builds a command carrying the same flags the root command
// declares persistently, so resolveSettings can be exercised in isolation.
func newSettingsCmd(dir string) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().Bool("verbose", false, "")
	cmd.Flags().String("ledger", "", "")
	cmd.Flags().String("region", "", "")
	cmd.Flags().String("endpoint", "", "")
	cmd.Flags().String("dir", dir, "")
	return cmd
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "quill.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("writing quill.yaml: %v", err)
	}
}

func TestResolveSettings_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
connection:
  ledger: from-file
  region: eu-west-1
`)

	cmd := newSettingsCmd(dir)
	if err := cmd.Flags().Set("ledger", "from-flag"); err != nil {
		t.Fatal(err)
	}

	settings, err := resolveSettings(cmd)
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	if settings.ledger != "from-flag" {
		t.Errorf("Expected flag to win, got ledger %q", settings.ledger)
	}
	if settings.region != "eu-west-1" {
		t.Errorf("Expected region from file, got %q", settings.region)
	}
}

func TestResolveSettings_RegionFallsBackToEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
connection:
  ledger: my-ledger
`)
	t.Setenv("AWS_REGION", "us-east-2")

	settings, err := resolveSettings(newSettingsCmd(dir))
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	if settings.region != "us-east-2" {
		t.Errorf("Expected region from environment, got %q", settings.region)
	}
}

func TestResolveSettings_MissingLedgerIsConfigError(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AWS_REGION", "us-east-1")

	_, err := resolveSettings(newSettingsCmd(dir))
	if err == nil {
		t.Fatal("Expected error for missing ledger")
	}
	if !errors.Is(err, quill.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got: %v", err)
	}
	if code := quill.ExitCodeForError(err); code != quill.ExitConfigError {
		t.Errorf("Expected exit code %d, got %d", quill.ExitConfigError, code)
	}
}

func TestResolveSettings_MissingRegionIsConfigError(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AWS_REGION", "")

	cmd := newSettingsCmd(dir)
	if err := cmd.Flags().Set("ledger", "my-ledger"); err != nil {
		t.Fatal(err)
	}

	_, err := resolveSettings(cmd)
	if !errors.Is(err, quill.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got: %v", err)
	}
}

func TestResolveSettings_RetryTuningFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
connection:
  ledger: my-ledger
  region: us-east-1
retry:
  limit: 7
  backoff_base: 20ms
  backoff_cap: 2s
`)

	settings, err := resolveSettings(newSettingsCmd(dir))
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	if settings.retryLimit != 7 {
		t.Errorf("Expected retry limit 7, got %d", settings.retryLimit)
	}
	if settings.backoffBase != 20*time.Millisecond {
		t.Errorf("Expected backoff base 20ms, got %v", settings.backoffBase)
	}
	if settings.backoffCap != 2*time.Second {
		t.Errorf("Expected backoff cap 2s, got %v", settings.backoffCap)
	}
}

func TestResolveSettings_DefaultsWithoutConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AWS_REGION", "us-east-1")

	cmd := newSettingsCmd(dir)
	if err := cmd.Flags().Set("ledger", "my-ledger"); err != nil {
		t.Fatal(err)
	}

	settings, err := resolveSettings(cmd)
	if err != nil {
		t.Fatalf("resolveSettings: %v", err)
	}
	if settings.retryLimit != quill.DefaultRetryLimit {
		t.Errorf("Expected default retry limit, got %d", settings.retryLimit)
	}
	if settings.backoffBase != quill.DefaultBackoffBase || settings.backoffCap != quill.DefaultBackoffCap {
		t.Errorf("Expected default backoff tuning, got %v/%v", settings.backoffBase, settings.backoffCap)
	}
}

func TestResolveSettings_MalformedBackoffIsConfigError(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
connection:
  ledger: my-ledger
  region: us-east-1
retry:
  backoff_base: not-a-duration
`)

	_, err := resolveSettings(newSettingsCmd(dir))
	if !errors.Is(err, quill.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got: %v", err)
	}
}
