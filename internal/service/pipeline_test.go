package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmfuertes/coursegen/internal/generator"
	"github.com/jmfuertes/coursegen/internal/models"
	"github.com/jmfuertes/coursegen/internal/store"
)

// stubGenerator is a ContentGenerator double with optional per-topic failures,
// an artificial delay, and concurrency tracking.
type stubGenerator struct {
	failTopics map[string]bool
	delay      time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (s *stubGenerator) Generate(ctx context.Context, course generator.CourseContext, topic models.Topic) (*generator.Content, error) {
	cur := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		max := s.maxInFlight.Load()
		if cur <= max || s.maxInFlight.CompareAndSwap(max, cur) {
			break
		}
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if s.failTopics[topic.TopicNumber] {
		return nil, fmt.Errorf("topic %s index: generation blew up", topic.TopicNumber)
	}

	return &generator.Content{
		Index:       "ÍNDICE " + topic.TopicNumber + "\n",
		Development: "Desarrollo de " + topic.TopicName + "\n",
		Voiceover:   "Guion de " + topic.TopicName + "\n\n" + generator.ClosingSentence,
	}, nil
}

// recordingSink captures sink events for assertions.
type recordingSink struct {
	mu       sync.Mutex
	started  []string
	finished []models.TopicResult
	doneSeq  []int
	report   *models.RunReport
}

func (r *recordingSink) RunStarted(courseName string, totalTopics int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, fmt.Sprintf("%s/%d", courseName, totalTopics))
}

func (r *recordingSink) TopicFinished(result models.TopicResult, done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, result)
	r.doneSeq = append(r.doneSeq, done)
}

func (r *recordingSink) RunFinished(report *models.RunReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report = report
}

const outlineText = `Curso: Finanzas personales
MÓDULO 1: Finanzas básicas
1.1 Presupuesto
1.2 Ahorro
MÓDULO 2: Inversión
2.1 Fondos indexados
`

func seedOutline(t *testing.T, mem *store.Memory) (sourceID, rootID string) {
	t.Helper()
	ctx := context.Background()
	rootID, err := mem.CreateFolder(ctx, "raíz", "")
	require.NoError(t, err)
	sourceID = mem.AddDocument("esquema", rootID, outlineText)
	return sourceID, rootID
}

func TestPipelineRunHappyPath(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	sourceID, rootID := seedOutline(t, mem)

	sink := &recordingSink{}
	p := NewPipeline(mem, &stubGenerator{}, PipelineConfig{Sink: sink})

	report, err := p.Run(ctx, sourceID, rootID)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "Finanzas personales", report.CourseName)
	assert.Equal(t, 3, report.TotalTopics)
	assert.Equal(t, 3, report.CompletedTopics)
	assert.Zero(t, report.FailedTopics)
	assert.Len(t, report.TopicResults, 3)
	assert.Empty(t, report.Errors)
	assert.False(t, report.EndTime.Before(report.StartTime))

	for _, r := range report.TopicResults {
		assert.Equal(t, models.TopicCompleted, r.Status)
		assert.NotEmpty(t, r.FolderID)

		content, err := mem.ReadContent(ctx, r.Docs.Development)
		require.NoError(t, err)
		assert.Contains(t, content, "Desarrollo de")

		voiceover, err := mem.ReadContent(ctx, r.Docs.Voiceover)
		require.NoError(t, err)
		assert.Contains(t, voiceover, generator.ClosingSentence)
	}

	// Sink saw the full lifecycle, with a monotonically increasing done count.
	require.Equal(t, []string{"Finanzas personales/3"}, sink.started)
	require.Equal(t, []int{1, 2, 3}, sink.doneSeq)
	require.NotNil(t, sink.report)
	assert.Equal(t, report.RunID, sink.report.RunID)
}

func TestPipelineFailureIsolation(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	sourceID, rootID := seedOutline(t, mem)

	gen := &stubGenerator{failTopics: map[string]bool{"1.2": true}}
	p := NewPipeline(mem, gen, PipelineConfig{})

	report, err := p.Run(ctx, sourceID, rootID)
	require.NoError(t, err)

	assert.Equal(t, 2, report.CompletedTopics)
	assert.Equal(t, 1, report.FailedTopics)
	require.Len(t, report.TopicResults, 3)

	var failed *models.TopicResult
	for i := range report.TopicResults {
		if report.TopicResults[i].Status == models.TopicFailed {
			failed = &report.TopicResults[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "1.2", failed.TopicNumber)
	assert.Contains(t, failed.Error, "generation blew up")

	// The failed topic's documents exist but stay empty.
	content, err := mem.ReadContent(ctx, failed.Docs.Development)
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestPipelineConcurrencyBound(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	rootID, err := mem.CreateFolder(ctx, "raíz", "")
	require.NoError(t, err)

	// Six topics, two workers.
	outline := "Curso: Mecanografía táctil completa\nMÓDULO 1: Teclado\n"
	for i := 1; i <= 6; i++ {
		outline += fmt.Sprintf("1.%d Tema número %d\n", i, i)
	}
	sourceID := mem.AddDocument("esquema", rootID, outline)

	gen := &stubGenerator{delay: 20 * time.Millisecond}
	p := NewPipeline(mem, gen, PipelineConfig{Concurrency: 2})

	report, err := p.Run(ctx, sourceID, rootID)
	require.NoError(t, err)
	require.Equal(t, 6, report.CompletedTopics)

	max := gen.maxInFlight.Load()
	assert.LessOrEqual(t, max, int32(2), "worker pool exceeded its bound")
	assert.Greater(t, max, int32(1), "topics never overlapped")
}

func TestPipelineEmptyOutlineZeroTopicRun(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	rootID, err := mem.CreateFolder(ctx, "raíz", "")
	require.NoError(t, err)
	sourceID := mem.AddDocument("esquema", rootID, "")

	sink := &recordingSink{}
	p := NewPipeline(mem, &stubGenerator{}, PipelineConfig{Sink: sink})

	report, err := p.Run(ctx, sourceID, rootID)
	require.NoError(t, err)
	require.NotNil(t, report)

	// An empty outline degrades to a placeholder course with no topics.
	assert.Equal(t, models.DefaultCourseName, report.CourseName)
	assert.Zero(t, report.TotalTopics)
	assert.Zero(t, report.CompletedTopics)
	assert.Zero(t, report.FailedTopics)
	assert.Empty(t, report.TopicResults)
	assert.Empty(t, report.Errors)

	// The course folder is still materialized under the root.
	require.NotEmpty(t, report.CourseFolderID)
	folderID, err := mem.FindFolder(ctx, models.DefaultCourseName, rootID)
	require.NoError(t, err)
	assert.Equal(t, report.CourseFolderID, folderID)

	require.Equal(t, []string{models.DefaultCourseName + "/0"}, sink.started)
	assert.Empty(t, sink.doneSeq)
	require.NotNil(t, sink.report)
}

func TestPipelineMissingSource(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	rootID, err := mem.CreateFolder(ctx, "raíz", "")
	require.NoError(t, err)

	p := NewPipeline(mem, &stubGenerator{}, PipelineConfig{})

	report, err := p.Run(ctx, "doc-inexistente", rootID)
	require.Error(t, err)
	require.NotNil(t, report)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPipelinePersistsReport(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	sourceID, rootID := seedOutline(t, mem)

	p := NewPipeline(mem, &stubGenerator{}, PipelineConfig{PersistReport: true})

	report, err := p.Run(ctx, sourceID, rootID)
	require.NoError(t, err)

	docID, err := mem.FindDocument(ctx, ReportDocName, report.CourseFolderID)
	require.NoError(t, err)
	require.NotEmpty(t, docID)

	raw, err := mem.ReadContent(ctx, docID)
	require.NoError(t, err)

	var persisted models.RunReport
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, report.RunID, persisted.RunID)
	assert.Equal(t, report.CompletedTopics, persisted.CompletedTopics)
	assert.Len(t, persisted.TopicResults, 3)
}

func TestPipelineRerunReusesTree(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	sourceID, rootID := seedOutline(t, mem)

	p := NewPipeline(mem, &stubGenerator{}, PipelineConfig{})

	first, err := p.Run(ctx, sourceID, rootID)
	require.NoError(t, err)
	countAfterFirst := mem.Len()

	second, err := p.Run(ctx, sourceID, rootID)
	require.NoError(t, err)

	// Same tree, fresh run identity.
	assert.Equal(t, countAfterFirst, mem.Len())
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.CourseFolderID, second.CourseFolderID)
}

func TestRunWithSpecRejectsInvalidSpec(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	p := NewPipeline(mem, &stubGenerator{}, PipelineConfig{})

	spec := &models.CourseSpec{CourseName: "X", Level: "nivel raro"}
	report, err := p.RunWithSpec(ctx, spec, "src", "root")
	require.Error(t, err)
	require.NotNil(t, report)

	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Empty(t, report.TopicResults)
}
