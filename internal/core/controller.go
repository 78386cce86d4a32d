package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"drspecialist/internal/logger"
	"drspecialist/internal/metrics"
	"drspecialist/pkg"
)

// Analyzer is the query adapter the controller drives.
type Analyzer interface {
	Analyze(ctx context.Context, input string) (*pkg.SearchResult, error)
}

// InquiryRecorder receives one Inquiry per completed query.
type InquiryRecorder interface {
	Record(ctx context.Context, in pkg.Inquiry) error
}

// Controller owns the per-session view state and runs queries on its
// behalf.
type Controller struct {
	analyzer  Analyzer
	store     StateStore
	inquiries InquiryRecorder
	logger    logger.Logger
}

// NewController wires a controller.  inquiries may be nil.
func NewController(a Analyzer, store StateStore, inquiries InquiryRecorder, log logger.Logger) *Controller {
	return &Controller{
		analyzer:  a,
		store:     store,
		inquiries: inquiries,
		logger:    log.With(map[string]interface{}{"component": "controller"}),
	}
}

// State returns the session's current state, or the initial state for an
// unknown session.
func (c *Controller) State(ctx context.Context, sid string) (*ViewState, error) {
	st, err := c.store.Load(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("load session state: %w", err)
	}
	if st == nil {
		return NewViewState(), nil
	}
	return st, nil
}

// Submit runs a query for the session and returns the resulting state.  A
// blank query changes nothing.  Analysis failures end up in the state's
// Error field; the returned error is reserved for session store failures.
func (c *Controller) Submit(ctx context.Context, sid, query string) (*ViewState, error) {
	if strings.TrimSpace(query) == "" {
		return c.State(ctx, sid)
	}

	var attempt uint64
	if _, err := c.store.Update(ctx, sid, func(s *ViewState) { attempt = s.Begin(query) }); err != nil {
		return nil, fmt.Errorf("begin query: %w", err)
	}

	start := time.Now()
	result, analyzeErr := c.analyzer.Analyze(ctx, query)
	elapsed := time.Since(start)

	// The outcome is saved even if the client went away mid-call.
	saveCtx := context.WithoutCancel(ctx)

	applied := false
	st, err := c.store.Update(saveCtx, sid, func(s *ViewState) {
		if analyzeErr != nil {
			applied = s.Fail(attempt, FailureMessage)
			return
		}
		applied = s.Succeed(attempt, result)
	})
	if err != nil {
		return nil, fmt.Errorf("complete query: %w", err)
	}

	log := c.logger.With(map[string]interface{}{"session": sid, "attempt": attempt})
	if analyzeErr != nil {
		log.Warn("query failed", map[string]interface{}{"kind": KindOf(analyzeErr), "error": analyzeErr.Error()})
	}
	if !applied {
		metrics.StaleCompletions.Inc()
		log.Warn("discarding completion of superseded query", map[string]interface{}{"latest_attempt": st.Attempt})
	}

	c.record(saveCtx, result, analyzeErr, elapsed)
	return st, nil
}

// Reset clears the session back to the home view.
func (c *Controller) Reset(ctx context.Context, sid string) (*ViewState, error) {
	st, err := c.store.Update(ctx, sid, func(s *ViewState) { s.Reset() })
	if err != nil {
		return nil, fmt.Errorf("reset session: %w", err)
	}
	return st, nil
}

// Navigate switches the session to view.
func (c *Controller) Navigate(ctx context.Context, sid string, view pkg.View) (*ViewState, error) {
	st, err := c.store.Update(ctx, sid, func(s *ViewState) { s.Navigate(view) })
	if err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}
	return st, nil
}

func (c *Controller) record(ctx context.Context, result *pkg.SearchResult, analyzeErr error, elapsed time.Duration) {
	if c.inquiries == nil || errors.Is(analyzeErr, ErrEmptyQuery) {
		return
	}
	in := pkg.Inquiry{
		ID:        uuid.NewString(),
		Outcome:   pkg.OutcomeFailure,
		LatencyMS: elapsed.Milliseconds(),
		CreatedAt: time.Now().UTC(),
	}
	if analyzeErr == nil && result != nil {
		in.Outcome = pkg.OutcomeSuccess
		in.SpecialistName = result.Specialist.SpecialistName
		in.Category = result.Specialist.Category
		in.Urgent = result.Specialist.Urgent()
	}
	if err := c.inquiries.Record(ctx, in); err != nil {
		c.logger.Error("failed to record inquiry", map[string]interface{}{"error": err.Error()})
	}
}
