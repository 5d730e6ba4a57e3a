package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSetupLoggerWithWritersDualOutput(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("evento registrado", "curso", "Finanzas personales")

	// Text handler on the stderr writer.
	if !strings.Contains(stderr.String(), "evento registrado") {
		t.Errorf("stderr output = %q, missing message", stderr.String())
	}
	if !strings.Contains(stderr.String(), "curso=") {
		t.Errorf("stderr output = %q, missing text-format attribute", stderr.String())
	}

	// JSON handler on the file writer.
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(file.Bytes()), &entry); err != nil {
		t.Fatalf("file output is not valid JSON: %v\n%s", err, file.String())
	}
	if entry["msg"] != "evento registrado" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["curso"] != "Finanzas personales" {
		t.Errorf("curso = %v", entry["curso"])
	}
	if entry["level"] != "INFO" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestSetupLoggerWithWritersLevelFilter(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelWarn)

	logger.Info("detalle silenciado")
	logger.Warn("aviso visible")

	if strings.Contains(stderr.String(), "detalle silenciado") || strings.Contains(file.String(), "detalle silenciado") {
		t.Error("info record leaked through a warn-level logger")
	}
	if !strings.Contains(stderr.String(), "aviso visible") {
		t.Errorf("stderr output = %q, missing warn record", stderr.String())
	}
	if !strings.Contains(file.String(), "aviso visible") {
		t.Errorf("file output = %q, missing warn record", file.String())
	}
}
