package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestVersionShort(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if out != "dev\n" {
		t.Errorf("output = %q, want %q", out, "dev\n")
	}
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", "/users/{id}", "/a//b")
	if !errors.Is(err, errInvalidPatterns) {
		t.Errorf("err = %v, want errInvalidPatterns", err)
	}

	for _, want := range []string{"/users/{id} (1 captures)", "two slashes may not appear next to each other", "Expected one of:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestMatch(t *testing.T) {
	out, err := run(t, "match", "/users/{id}/{}", "/users/42/posts")
	if err != nil {
		t.Fatalf("match: %v", err)
	}

	for _, want := range []string{"id:", "42", "#1:", "posts"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}

	if _, err := run(t, "match", "--strict", "/users", "/users/"); !errors.Is(err, errNoMatch) {
		t.Errorf("err = %v, want errNoMatch", err)
	}

	if _, err := run(t, "match", "-i", "--url", "/users", "https://example.com/USERS"); err != nil {
		t.Errorf("match --url: %v", err)
	}
}

func TestExpand(t *testing.T) {
	out, err := run(t, "expand", "/users/{id}(/{tab})", "id=42")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if out != "/users/42\n" {
		t.Errorf("output = %q, want %q", out, "/users/42\n")
	}

	if _, err := run(t, "expand", "/users/{id}", "id"); err == nil {
		t.Error("expected an error for a value without '='")
	}
}

func TestResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.yaml")
	content := `
routes:
  - name: user
    pattern: /users/{id}
  - name: home
    pattern: /
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := run(t, "--config", path, "resolve", "/users/42", "https://example.com/")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	for _, want := range []string{"user", "42", "home"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}

	if _, err := run(t, "--config", path, "resolve", "/nope/nope"); !errors.Is(err, errNoMatch) {
		t.Errorf("err = %v, want errNoMatch", err)
	}

	if _, err := run(t, "--config", path, "--log-level", "loud", "resolve", "/"); err == nil {
		t.Error("expected an error for an invalid log level")
	}
}
