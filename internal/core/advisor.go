package core

import (
	"context"
	"strings"
	"time"

	"drspecialist/internal/llm"
	"drspecialist/internal/logger"
	"drspecialist/internal/metrics"
	"drspecialist/pkg"
)

// Advisor turns a free-text symptom description into a specialist
// recommendation with a single model call.  It keeps no state between calls,
// never retries and never caches.
type Advisor struct {
	LLM    llm.Client
	logger logger.Logger
}

// NewAdvisor constructs an Advisor over the given model client.
func NewAdvisor(client llm.Client, log logger.Logger) *Advisor {
	return &Advisor{
		LLM:    client,
		logger: log.With(map[string]interface{}{"component": "advisor", "provider": client.Name()}),
	}
}

// Analyze sends input to the model and returns the validated result.  Blank
// input returns ErrEmptyQuery without calling the model.  Every other failure
// matches ErrAnalysisFailed and carries a FailureKind.
func (a *Advisor) Analyze(ctx context.Context, input string) (*pkg.SearchResult, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyQuery
	}

	start := time.Now()
	text, err := a.LLM.Generate(ctx, llm.Request{
		SystemInstruction: SystemInstruction,
		Prompt:            BuildPrompt(input),
		Schema:            ResponseSchema,
		SchemaName:        ResponseSchemaName,
	})
	metrics.QueryDuration.WithLabelValues(a.LLM.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, a.fail(upstreamFailure(err))
	}

	result, err := ParseResult(text)
	if err != nil {
		return nil, a.fail(err)
	}

	metrics.QueriesTotal.WithLabelValues(string(pkg.OutcomeSuccess)).Inc()
	if result.Specialist.Urgent() {
		metrics.UrgentRecommendations.Inc()
	}
	a.logger.Info("specialist recommended", map[string]interface{}{
		"specialist": result.Specialist.SpecialistName,
		"urgent":     result.Specialist.Urgent(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return result, nil
}

func (a *Advisor) fail(err error) error {
	kind := KindOf(err)
	metrics.QueriesTotal.WithLabelValues(string(pkg.OutcomeFailure)).Inc()
	metrics.QueryFailures.WithLabelValues(string(kind)).Inc()
	a.logger.Warn("analysis failed", map[string]interface{}{
		"kind":  kind,
		"error": err.Error(),
	})
	return err
}
