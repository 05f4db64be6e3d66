package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewNopWhenNoFile(t *testing.T) {
	log, err := New("debug", "")
	if err != nil {
		t.Fatal(err)
	}
	log.Info("dropped")
	if err := log.Sync(); err != nil {
		t.Errorf("nop logger sync: %v", err)
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New("info", path)
	if err != nil {
		t.Fatal(err)
	}
	log.Info("hello", zap.Int("zoom", 4))
	log.Debug("filtered out")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "hello") {
		t.Errorf("info line missing: %q", out)
	}
	if strings.Contains(out, "filtered out") {
		t.Error("debug line written at info level")
	}
}
