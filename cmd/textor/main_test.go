package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
)

func TestRunVersion(t *testing.T) {
	if err := run([]string{"-version"}); err != nil {
		t.Errorf("-version: %v", err)
	}
}

func TestRunMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")
	err := run([]string{path})
	if err == nil {
		t.Fatal("expected an error for an unreadable file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
	var ue usageError
	if errors.As(err, &ue) {
		t.Error("a load failure is not a usage error")
	}
}

func TestRunTooManyArgs(t *testing.T) {
	err := run([]string{"a.txt", "b.txt"})
	var ue usageError
	if !errors.As(err, &ue) {
		t.Errorf("expected usage error, got %v", err)
	}
}

func TestRunBadFlag(t *testing.T) {
	err := run([]string{"-nope"})
	var ue usageError
	if !errors.As(err, &ue) {
		t.Errorf("expected usage error, got %v", err)
	}
}

func TestSetupLog(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "textor.log")
	closeLog, err := setupLog(path)
	if err != nil {
		t.Fatalf("setupLog: %v", err)
	}
	log.Println("hello from the test")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello from the test") {
		t.Errorf("log file content: %q", string(data))
	}
}

func TestSetupLogBadPath(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "no", "such", "dir", "textor.log")
	if _, err := setupLog(path); err == nil {
		t.Error("expected an error for an unwritable log path")
	}
}

type fakeRestorer struct{ calls int }

func (r *fakeRestorer) Restore() { r.calls++ }

func TestShutdownRestoresAndClosesLog(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "textor.log")
	closeLog, err := setupLog(path)
	if err != nil {
		t.Fatalf("setupLog: %v", err)
	}
	r := &fakeRestorer{}
	shutdown(syscall.SIGTERM, r, closeLog)
	log.Println("written after close")
	closeLog()

	if r.calls != 1 {
		t.Errorf("expected one Restore, got %d", r.calls)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "terminated by terminated") {
		t.Errorf("log should record the signal: %q", string(data))
	}
	if strings.Contains(string(data), "written after close") {
		t.Errorf("log file should be closed by shutdown: %q", string(data))
	}
}
