package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetupLogger_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thumbnailer.log")
	if err := SetupLogger(path, true); err != nil {
		t.Fatalf("SetupLogger: %v", err)
	}
	LogInfo("starting run %s", "abc")
	LogImageProcessed("/in/a.png", false, "decode: bad data")
	DebugLog("debug line")
	CloseLogger()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	got := string(b)
	for _, want := range []string{`"starting run abc"`, `"path":"/in/a.png"`, `"error":"decode: bad data"`, `"debug line"`} {
		if !strings.Contains(got, want) {
			t.Errorf("log missing %s:\n%s", want, got)
		}
	}
}

func TestSetupLogger_InfoLevelDropsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thumbnailer.log")
	if err := SetupLogger(path, false); err != nil {
		t.Fatalf("SetupLogger: %v", err)
	}
	DebugLog("hidden")
	LogWarning("visible")
	CloseLogger()

	b, _ := os.ReadFile(path)
	if strings.Contains(string(b), "hidden") {
		t.Errorf("debug line written at info level")
	}
	if !strings.Contains(string(b), "visible") {
		t.Errorf("warning missing")
	}
}

func TestSetLogger_RoutesHelpers(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogError("boom %d", 1)
	LogImageProcessed("/in/b.jpg", true, "")

	if logs.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", logs.Len())
	}
	if msg := logs.All()[0].Message; msg != "boom 1" {
		t.Errorf("unexpected message %q", msg)
	}
	if Logger() == nil {
		t.Errorf("Logger() returned nil")
	}
}
