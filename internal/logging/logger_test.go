package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dalil-edge/dalil-edge/internal/config"
)

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	_, err := InitLogger(config.GlobalConfig{LogLevel: "chatty"})
	if err == nil {
		t.Fatalf("expected error for unknown log level")
	}
}

func TestInitLoggerDefaultsToStdout(t *testing.T) {
	logger, err := InitLogger(config.GlobalConfig{LogLevel: "debug"})
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	if logger.Out != os.Stdout {
		t.Fatalf("expected stdout output when no file path is set")
	}
}

func TestInitLoggerCreatesLogDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "edge.log")
	logger, err := InitLogger(config.GlobalConfig{LogLevel: "info", LogFilePath: path})
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}

	logger.Info("probe")

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("log directory was not created: %v", err)
	}
}
