package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	summaryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "logbook",
		Subsystem: "ai",
		Name:      "summary_duration_seconds",
		Help:      "Duration of AI summary requests",
	}, []string{"model"})

	summaryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "logbook",
		Subsystem: "ai",
		Name:      "summary_failures_total",
		Help:      "Number of AI summary failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI summarizer.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	BaseURL     string
	Logger      zerolog.Logger
}

// OpenAISummarizer implements Summarizer against the OpenAI chat completion API.
type OpenAISummarizer struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAISummarizer builds a new summarizer using the provided configuration.
func NewOpenAISummarizer(cfg OpenAIConfig) (*OpenAISummarizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 256
	}

	tracer := otel.Tracer("github.com/staffroom/logbook-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(config)

	return &OpenAISummarizer{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Summarize sends the rendered logs to OpenAI and returns the synopsis.
func (s *OpenAISummarizer) Summarize(parent context.Context, entries []DigestEntry) (string, error) {
	ctx, span := s.tracer.Start(parent, "openai.summarize", trace.WithAttributes(
		attribute.String("model", s.cfg.Model),
		attribute.Int("entries", len(entries)),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: summarySystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildSummaryPrompt(entries),
			},
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, request)
	summaryDuration.WithLabelValues(s.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		summaryFailures.WithLabelValues(s.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("openai summarize: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		summaryFailures.WithLabelValues(s.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func summarySystemPrompt() string {
	return "You are an assistant to a school principal. Analyze the daily activity logs from teachers and provide a concise, p" +
		"rofessional executive summary of at most three sentences covering key activities, anomalies such as many free periods" +
		" or office work, and the general productivity level."
}

func buildSummaryPrompt(entries []DigestEntry) string {
	builder := strings.Builder{}
	builder.WriteString("Here are today's logs:\n")
	for _, entry := range entries {
		builder.WriteString("- Teacher: ")
		builder.WriteString(entry.TeacherName)
		builder.WriteString(", Activity: ")
		builder.WriteString(entry.ActivityType)
		builder.WriteString(", Description: ")
		builder.WriteString(entry.Description)
		builder.WriteString("\n")
	}
	return builder.String()
}
