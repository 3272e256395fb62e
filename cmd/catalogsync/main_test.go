package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(&buf, "warn", "json")
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	log.Info("hidden")
	log.Warn("shown", "page", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["msg"] != "shown" || rec["page"] != float64(3) {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestNewLogger_Invalid(t *testing.T) {
	if _, err := newLogger(&bytes.Buffer{}, "LOUD", "text"); err == nil {
		t.Error("expected an error for an unknown level")
	}
	if _, err := newLogger(&bytes.Buffer{}, "INFO", "xml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestRootCmd_RequiresPDF(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("expected an error without --pdf")
	}
}

func TestRootCmd_RejectsNegativePages(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--pdf", "cat.pdf", "--start-page=-2"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "positive") {
		t.Errorf("expected a page bound error, got %v", err)
	}
}
