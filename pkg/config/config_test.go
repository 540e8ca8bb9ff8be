package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate runs the test from an empty directory with an empty specex home.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SPECEX_HOME", filepath.Join(dir, "home"))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.Check.Format != "text" {
		t.Errorf("expected default format text, got %q", config.Check.Format)
	}
	if !config.Lint.Enable || config.Lint.Rules != "v1" {
		t.Errorf("expected lint v1 enabled by default, got %+v", config.Lint)
	}
	if config.Engine.ProcessingMode != "json-ld-1.1" {
		t.Errorf("unexpected processing mode %q", config.Engine.ProcessingMode)
	}
	if config.Source != "" {
		t.Errorf("expected no config file, got %q", config.Source)
	}
}

func TestLoadConfig_ProjectFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".specex.yaml"), `
check:
  example_dir: out/examples
  format: markdown
lint:
  enable: false
engine:
  contexts:
    - url: https://www.w3.org/ns/credentials/v2
      file: contexts/credentials.jsonld
prefixes:
  vc: https://www.w3.org/2018/credentials#
`)

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.Source != ".specex.yaml" {
		t.Errorf("expected project config to be used, got %q", config.Source)
	}
	if config.Check.ExampleDir != "out/examples" || config.Check.Format != "markdown" {
		t.Errorf("unexpected check config %+v", config.Check)
	}
	if config.Lint.Enable {
		t.Error("expected lint to be disabled")
	}
	if config.Lint.Rules != "v1" {
		t.Errorf("expected default rules to survive, got %q", config.Lint.Rules)
	}
	contexts := config.Engine.ContextMap()
	if contexts["https://www.w3.org/ns/credentials/v2"] != "contexts/credentials.jsonld" {
		t.Errorf("unexpected contexts %v", contexts)
	}
	if config.Prefixes["vc"] != "https://www.w3.org/2018/credentials#" {
		t.Errorf("unexpected prefixes %v", config.Prefixes)
	}
}

func TestLoadConfig_HomeFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "home", "config", "specex.yaml"), "check:\n  verbose: true\n")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if !config.Check.Verbose {
		t.Error("expected verbose from home config")
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "check:\n  format: json\n")
	t.Setenv("SPECEX_CHECK_FORMAT", "html")
	t.Setenv("SPECEX_CHECK_VERBOSE", "true")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.Check.Format != "html" {
		t.Errorf("expected env to win, got %q", config.Check.Format)
	}
	if !config.Check.Verbose {
		t.Error("expected verbose from environment")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := isolate(t)

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad format", "check:\n  format: pdf\n", "check.format"},
		{"bad rules", "lint:\n  rules: latest\n", "lint.rules"},
		{"bad mode", "engine:\n  processing_mode: json-ld-2.0\n", "engine.processing_mode"},
		{"context without file", "engine:\n  contexts:\n    - url: https://example.org/ctx\n", "file"},
		{"bad yaml", "check: [\n", "error reading config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			writeFile(t, path, tt.content)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	a := Default()
	a.Check.Format = "json"
	if Default().Check.Format != "text" {
		t.Error("Default() must return an independent copy")
	}
}

func TestGetSpecexHome(t *testing.T) {
	t.Setenv("SPECEX_HOME", "/tmp/specex-home")
	home, err := GetSpecexHome()
	if err != nil || home != "/tmp/specex-home" {
		t.Errorf("GetSpecexHome() = %q, %v", home, err)
	}

	t.Setenv("SPECEX_HOME", "")
	home, err = GetSpecexHome()
	if err != nil {
		t.Fatalf("GetSpecexHome() failed: %v", err)
	}
	if filepath.Base(home) != ".specex" {
		t.Errorf("expected ~/.specex, got %q", home)
	}
}
