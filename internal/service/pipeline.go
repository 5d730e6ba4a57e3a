package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jmfuertes/coursegen/internal/generator"
	"github.com/jmfuertes/coursegen/internal/metrics"
	"github.com/jmfuertes/coursegen/internal/models"
	"github.com/jmfuertes/coursegen/internal/parser"
	"github.com/jmfuertes/coursegen/internal/store"
)

// ContentGenerator produces the three artifacts of one topic.
type ContentGenerator interface {
	Generate(ctx context.Context, course generator.CourseContext, topic models.Topic) (*generator.Content, error)
}

// PipelineConfig configures one pipeline run.
type PipelineConfig struct {
	// Concurrency bounds the number of topics generated in parallel
	// (default 3).
	Concurrency int
	// PersistReport writes the run report as a JSON document under the
	// course folder.
	PersistReport bool
	// Sink receives progress events (default NopSink).
	Sink ProgressSink
	// Metrics receives store-write timings when set.
	Metrics *metrics.Collector
}

// Pipeline runs the full Parsing → Structuring → Generating → Reporting
// sequence for one course outline.
type Pipeline struct {
	store store.DocumentStore
	gen   ContentGenerator
	cfg   PipelineConfig
}

// NewPipeline creates a pipeline over an explicit store and generator.
func NewPipeline(st store.DocumentStore, gen ContentGenerator, cfg PipelineConfig) *Pipeline {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 3
	}
	if cfg.Sink == nil {
		cfg.Sink = NopSink{}
	}
	return &Pipeline{store: st, gen: gen, cfg: cfg}
}

// Run reads the outline document from the store, parses it, and executes the
// run under the given root folder. The returned report is always populated,
// also when the returned error is non-nil.
func (p *Pipeline) Run(ctx context.Context, sourceDocID, rootID string) (*models.RunReport, error) {
	report := newReport(sourceDocID, rootID)

	raw, err := p.store.ReadContent(ctx, sourceDocID)
	if err != nil {
		return p.fail(report, fmt.Errorf("read outline %s: %w", sourceDocID, err))
	}

	spec, err := parser.Parse(raw, sourceDocID)
	if err != nil {
		return p.fail(report, fmt.Errorf("parse outline: %w", err))
	}

	return p.runSpec(ctx, report, spec)
}

// RunWithSpec executes the run for an already-parsed spec.
func (p *Pipeline) RunWithSpec(ctx context.Context, spec *models.CourseSpec, sourceID, rootID string) (*models.RunReport, error) {
	report := newReport(sourceID, rootID)

	if result := models.Validate(spec); !result.Valid {
		return p.fail(report, fmt.Errorf("validate spec: %w", result.Err()))
	}

	return p.runSpec(ctx, report, spec)
}

func newReport(sourceID, rootID string) *models.RunReport {
	return &models.RunReport{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
		SourceID:  sourceID,
		RootID:    rootID,
	}
}

// fail finalizes a report after a hard gate failure. The error is recorded in
// the report and returned.
func (p *Pipeline) fail(report *models.RunReport, err error) (*models.RunReport, error) {
	report.Errors = append(report.Errors, err.Error())
	p.finalize(report)
	return report, err
}

func (p *Pipeline) runSpec(ctx context.Context, report *models.RunReport, spec *models.CourseSpec) (*models.RunReport, error) {
	report.CourseName = spec.CourseName
	report.TotalTopics = spec.TopicCount()

	structure, err := NewMaterializer(p.store).Materialize(ctx, spec, report.RootID)
	if err != nil {
		return p.fail(report, fmt.Errorf("materialize structure: %w", err))
	}
	report.CourseFolderID = structure.CourseFolderID

	p.cfg.Sink.RunStarted(spec.CourseName, report.TotalTopics)
	p.generateAll(ctx, report, spec, structure)
	p.finalize(report)

	if p.cfg.PersistReport {
		if err := p.persistReport(ctx, report); err != nil {
			slog.Warn("failed to persist run report", "run_id", report.RunID, "error", err)
			report.Errors = append(report.Errors, fmt.Sprintf("persist report: %v", err))
		}
	}

	return report, nil
}

// generateAll fans out one task per topic over a bounded worker pool. A
// failing topic settles as a failed result and never stops its siblings.
func (p *Pipeline) generateAll(ctx context.Context, report *models.RunReport, spec *models.CourseSpec, structure *models.FolderStructure) {
	type task struct {
		module models.Module
		topic  models.Topic
	}

	tasks := make(chan task, report.TotalTopics)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for i := 0; i < p.cfg.Concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for t := range tasks {
				if ctx.Err() != nil {
					return
				}

				slog.Info("generating topic",
					"worker", workerID,
					"module", t.module.ModuleNumber,
					"topic", t.topic.TopicNumber)

				result := p.processTopic(ctx, spec, t.module, t.topic, structure)

				mu.Lock()
				report.TopicResults = append(report.TopicResults, result)
				done := len(report.TopicResults)
				p.cfg.Sink.TopicFinished(result, done, report.TotalTopics)
				mu.Unlock()
			}
		}(i)
	}

	for _, mod := range spec.Modules {
		for _, topic := range mod.Topics {
			tasks <- task{module: mod, topic: topic}
		}
	}
	close(tasks)

	wg.Wait()
}

func (p *Pipeline) processTopic(ctx context.Context, spec *models.CourseSpec, mod models.Module, topic models.Topic, structure *models.FolderStructure) models.TopicResult {
	result := models.TopicResult{
		ModuleNumber: mod.ModuleNumber,
		TopicNumber:  topic.TopicNumber,
		TopicName:    topic.TopicName,
		Status:       models.TopicGenerating,
	}

	folder, ok := structure.Topic(mod.ModuleNumber, topic.TopicNumber)
	if !ok {
		result.Status = models.TopicFailed
		result.Error = "topic folder missing from materialized structure"
		return result
	}
	result.FolderID = folder.FolderID
	result.Docs = folder.Docs

	course := generator.CourseContext{
		CourseName:   spec.CourseName,
		Level:        spec.Level,
		Objective:    spec.Objective,
		ModuleNumber: mod.ModuleNumber,
		ModuleName:   mod.ModuleName,
	}

	content, err := p.gen.Generate(ctx, course, topic)
	if err != nil {
		result.Status = models.TopicFailed
		result.Error = err.Error()
		return result
	}

	for _, doc := range []struct {
		id      string
		name    string
		content string
	}{
		{folder.Docs.Index, DocNameIndex, content.Index},
		{folder.Docs.Development, DocNameDevelopment, content.Development},
		{folder.Docs.Voiceover, DocNameVoiceover, content.Voiceover},
	} {
		if err := p.writeContent(ctx, doc.id, doc.content); err != nil {
			result.Status = models.TopicFailed
			result.Error = fmt.Sprintf("write %s: %v", doc.name, err)
			return result
		}
	}

	result.Status = models.TopicCompleted
	return result
}

func (p *Pipeline) writeContent(ctx context.Context, docID, content string) error {
	if p.cfg.Metrics != nil {
		defer p.cfg.Metrics.Timed(metrics.OpStoreWrite, time.Now())
	}
	return p.store.WriteContent(ctx, docID, content)
}

// finalize seals the report: end time, counts, terminal sink event, summary
// log line.
func (p *Pipeline) finalize(report *models.RunReport) {
	report.EndTime = time.Now()

	report.CompletedTopics = 0
	report.FailedTopics = 0
	for _, r := range report.TopicResults {
		switch r.Status {
		case models.TopicCompleted:
			report.CompletedTopics++
		case models.TopicFailed:
			report.FailedTopics++
		}
	}

	if p.cfg.Sink != nil {
		p.cfg.Sink.RunFinished(report)
	}

	attrs := []any{
		"run_id", report.RunID,
		"completed", report.CompletedTopics,
		"failed", report.FailedTopics,
		"total", report.TotalTopics,
	}
	if p.cfg.Metrics != nil {
		snap := p.cfg.Metrics.Snapshot()
		if snap.Development != nil {
			attrs = append(attrs, "avg_development_ms", snap.Development.AvgTimeMs)
		}
		if snap.StoreWrite != nil {
			attrs = append(attrs, "store_writes", snap.StoreWrite.Count)
		}
	}
	slog.Info("pipeline finished", attrs...)
}
