package core

import (
	"errors"
	"fmt"
)

var (
	// ErrAnalysisFailed matches every failure returned by Advisor.Analyze.
	ErrAnalysisFailed = errors.New("analysis failed")
	// ErrEmptyQuery is returned for blank input; no call is made.
	ErrEmptyQuery = errors.New("empty query")
)

// FailureKind separates transport problems from bad replies.
type FailureKind string

const (
	// KindUpstream covers network/service errors and empty replies.
	KindUpstream FailureKind = "upstream"
	// KindShape covers replies that are not JSON or do not match the schema.
	KindShape FailureKind = "shape"
)

// AnalysisError is the categorized failure of one analysis call.
type AnalysisError struct {
	Kind FailureKind
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrAnalysisFailed, e.Kind, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrAnalysisFailed) succeed for every kind.
func (e *AnalysisError) Is(target error) bool { return target == ErrAnalysisFailed }

func upstreamFailure(err error) error { return &AnalysisError{Kind: KindUpstream, Err: err} }

func shapeFailure(err error) error { return &AnalysisError{Kind: KindShape, Err: err} }

// KindOf returns the failure kind of err, or "" if err is not an
// AnalysisError.
func KindOf(err error) FailureKind {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}
