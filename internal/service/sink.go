package service

import (
	"log/slog"
	"time"

	"github.com/jmfuertes/coursegen/internal/models"
)

// ProgressSink receives run lifecycle events. Implementations must tolerate
// TopicFinished being called from multiple goroutines.
type ProgressSink interface {
	RunStarted(courseName string, totalTopics int)
	TopicFinished(result models.TopicResult, done, total int)
	RunFinished(report *models.RunReport)
}

// NopSink discards all events.
type NopSink struct{}

var _ ProgressSink = NopSink{}

func (NopSink) RunStarted(string, int)                     {}
func (NopSink) TopicFinished(models.TopicResult, int, int) {}
func (NopSink) RunFinished(*models.RunReport)              {}

// LogSink reports progress through slog. It is the default sink when no
// interactive UI is attached.
type LogSink struct{}

var _ ProgressSink = LogSink{}

func (LogSink) RunStarted(courseName string, totalTopics int) {
	slog.Info("run started", "course", courseName, "topics", totalTopics)
}

func (LogSink) TopicFinished(result models.TopicResult, done, total int) {
	if result.Status == models.TopicFailed {
		slog.Warn("topic failed",
			"module", result.ModuleNumber,
			"topic", result.TopicNumber,
			"error", result.Error,
			"done", done,
			"total", total)
		return
	}
	slog.Info("topic completed",
		"module", result.ModuleNumber,
		"topic", result.TopicNumber,
		"done", done,
		"total", total)
}

func (LogSink) RunFinished(report *models.RunReport) {
	slog.Info("run finished",
		"run_id", report.RunID,
		"completed", report.CompletedTopics,
		"failed", report.FailedTopics,
		"duration", report.EndTime.Sub(report.StartTime).Round(time.Millisecond))
}
