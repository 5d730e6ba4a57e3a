package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmfuertes/coursegen/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Options tune a single generation call. Zero values fall back to the
// client's configured defaults.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// Client wraps a langchaingo LLM with transient-failure retries.
type Client struct {
	llm         llms.Model
	modelName   string
	maxTokens   int
	temperature float64
	maxAttempts int
}

// NewClient creates an LLM client based on configuration.
func NewClient(cfg config.Config) (*Client, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	maxAttempts := cfg.LLMMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	return &Client{
		llm:         model,
		modelName:   cfg.LLMModel,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		maxAttempts: maxAttempts,
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.modelName
}

// GenerateText sends a system+user prompt pair and returns the response
// text. Transient failures are retried with capped exponential backoff up to
// the configured attempt count; other failures propagate immediately.
func (c *Client) GenerateText(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	callOpts := c.callOptions(opts)

	operation := func() (string, error) {
		start := time.Now()
		response, err := c.llm.GenerateContent(ctx, messages, callOpts...)
		if err != nil {
			if isTransient(err) {
				slog.Warn("generation failed, will retry", "model", c.modelName, "error", err)
				return "", err
			}
			return "", backoff.Permanent(err)
		}

		if len(response.Choices) == 0 {
			return "", backoff.Permanent(fmt.Errorf("no response choices"))
		}

		slog.Debug("generation complete",
			"model", c.modelName,
			"prompt_len", len(userPrompt),
			"duration_ms", time.Since(start).Milliseconds())
		return response.Choices[0].Content, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 0

	text, err := backoff.RetryWithData(operation, backoff.WithContext(
		backoff.WithMaxRetries(b, uint64(c.maxAttempts-1)), ctx))
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return text, nil
}

func (c *Client) callOptions(opts Options) []llms.CallOption {
	model := opts.Model
	if model == "" {
		model = c.modelName
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}
	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = c.temperature
	}

	return []llms.CallOption{
		llms.WithModel(model),
		llms.WithMaxTokens(maxTokens),
		llms.WithTemperature(temperature),
	}
}
