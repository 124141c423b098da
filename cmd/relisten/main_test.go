package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"240101_0900.mp3", "231231_2359.mp3", "skipped.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("audio"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	configFlag := filepath.Join(t.TempDir(), "config.toml")
	cmd := newListCommand(&configFlag)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{dir})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("list: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "240101_0900.mp3") {
		t.Errorf("output missing newest file:\n%s", got)
	}
	if strings.Contains(got, "skipped.txt") {
		t.Errorf("output lists non-matching file:\n%s", got)
	}
	if !strings.Contains(got, "2 recordings") {
		t.Errorf("output missing count:\n%s", got)
	}
	// Newest first.
	if strings.Index(got, "240101_0900.mp3") > strings.Index(got, "231231_2359.mp3") {
		t.Errorf("listing not newest first:\n%s", got)
	}
}

func TestListCommandNoFolder(t *testing.T) {
	configFlag := filepath.Join(t.TempDir(), "config.toml")
	cmd := newListCommand(&configFlag)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error without folder or configured library_dir")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newVersionCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out.String(), version) {
		t.Errorf("output = %q", out.String())
	}
}
