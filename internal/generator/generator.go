// Package generator produces the three content artifacts of a topic through
// a fixed multi-step, multi-pass generation sequence.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmfuertes/coursegen/internal/llm"
	"github.com/jmfuertes/coursegen/internal/metrics"
	"github.com/jmfuertes/coursegen/internal/models"
	"github.com/jmfuertes/coursegen/internal/parser"
)

// CourseContext carries the course- and module-level framing for one topic's
// generation.
type CourseContext struct {
	CourseName   string
	Level        string
	Objective    string
	ModuleNumber int
	ModuleName   string
}

// Content holds the three finished artifacts of a topic, already normalized
// to plain text.
type Content struct {
	Index       string
	Development string
	Voiceover   string
}

// Options configure a Generator.
type Options struct {
	// Review enables the second editor pass on development and voiceover.
	Review bool
	// Call overrides applied to every generation request.
	Model       string
	MaxTokens   int
	Temperature float64
	// Metrics receives per-step timings when set.
	Metrics *metrics.Collector
}

// Generator drives the generation sequence for single topics. Safe for
// concurrent use by multiple topic tasks.
type Generator struct {
	llm  llm.TextGenerator
	opts Options
}

// New creates a generator on top of a text-generation client.
func New(client llm.TextGenerator, opts Options) *Generator {
	return &Generator{llm: client, opts: opts}
}

// Generate runs the three-step sequence for one topic: structured index,
// development prose conditioned on the rendered outline, then a voiceover
// script conditioned on the development. Each of the last two optionally goes
// through a review pass. The voiceover closing-sentence invariant is enforced
// unconditionally, after any review.
func (g *Generator) Generate(ctx context.Context, course CourseContext, topic models.Topic) (*Content, error) {
	idx, err := g.generateIndex(ctx, course, topic)
	if err != nil {
		return nil, fmt.Errorf("topic %s index: %w", topic.TopicNumber, err)
	}
	outline := idx.Outline()

	development, err := g.generateDevelopment(ctx, course, topic, outline)
	if err != nil {
		return nil, fmt.Errorf("topic %s development: %w", topic.TopicNumber, err)
	}
	if g.opts.Review {
		development, err = g.review(ctx, "el desarrollo de una lección", development)
		if err != nil {
			return nil, fmt.Errorf("topic %s development review: %w", topic.TopicNumber, err)
		}
	}

	voiceover, err := g.generateVoiceover(ctx, topic, development)
	if err != nil {
		return nil, fmt.Errorf("topic %s voiceover: %w", topic.TopicNumber, err)
	}
	if g.opts.Review {
		voiceover, err = g.review(ctx, "el guion de voz de una lección", voiceover)
		if err != nil {
			return nil, fmt.Errorf("topic %s voiceover review: %w", topic.TopicNumber, err)
		}
	}
	voiceover = EnsureClosing(voiceover)

	return &Content{
		Index:       parser.MarkdownToPlain(outline),
		Development: parser.MarkdownToPlain(development),
		Voiceover:   parser.MarkdownToPlain(voiceover),
	}, nil
}

// timed records a step timing when a collector is configured. Meant to be
// deferred with the step's start time.
func (g *Generator) timed(op string, start time.Time) {
	if g.opts.Metrics != nil {
		g.opts.Metrics.Timed(op, start)
	}
}

func (g *Generator) callOptions() llm.Options {
	return llm.Options{
		Model:       g.opts.Model,
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
	}
}

func (g *Generator) generateIndex(ctx context.Context, course CourseContext, topic models.Topic) (TopicIndex, error) {
	defer g.timed(metrics.OpIndex, time.Now())

	user := fmt.Sprintf(indexUserPrompt,
		course.CourseName, course.Level, course.Objective,
		course.ModuleNumber, course.ModuleName,
		topic.TopicNumber, topic.TopicName)

	return llm.GenerateStructured[TopicIndex](ctx, g.llm, indexSystemPrompt, user, g.callOptions())
}

func (g *Generator) generateDevelopment(ctx context.Context, course CourseContext, topic models.Topic, outline string) (string, error) {
	defer g.timed(metrics.OpDevelopment, time.Now())

	user := fmt.Sprintf(developmentUserPrompt,
		course.CourseName, course.Level,
		topic.TopicNumber, topic.TopicName, outline)

	return g.llm.GenerateText(ctx, developmentSystemPrompt, user, g.callOptions())
}

func (g *Generator) generateVoiceover(ctx context.Context, topic models.Topic, development string) (string, error) {
	defer g.timed(metrics.OpVoiceover, time.Now())

	user := fmt.Sprintf(voiceoverUserPrompt, topic.TopicNumber, topic.TopicName, development)

	return g.llm.GenerateText(ctx, voiceoverSystemPrompt, user, g.callOptions())
}

// review resubmits a draft with the editor persona. The reviewed output
// replaces the draft.
func (g *Generator) review(ctx context.Context, artifact, draft string) (string, error) {
	defer g.timed(metrics.OpReview, time.Now())

	slog.Debug("running review pass", "artifact", artifact, "draft_len", len(draft))

	user := fmt.Sprintf(reviewUserPrompt, artifact, draft)
	return g.llm.GenerateText(ctx, reviewSystemPrompt, user, g.callOptions())
}
