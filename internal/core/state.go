package core

import (
	"context"
	"time"

	"drspecialist/pkg"
)

// ViewState is everything the UI shows for one browser session.  It moves
// idle -> searching -> result|error -> idle; Attempt identifies the query a
// completion belongs to.
type ViewState struct {
	View      pkg.View          `json:"view"`
	Query     string            `json:"query"`
	Searching bool              `json:"searching"`
	Result    *pkg.SearchResult `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
	Attempt   uint64            `json:"attempt"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewViewState returns the initial state: home view, nothing searched.
func NewViewState() *ViewState {
	return &ViewState{View: pkg.ViewHome, UpdatedAt: time.Now().UTC()}
}

// Begin starts a new query, dropping any previous result or error, and
// returns the attempt number the completion must present.
func (s *ViewState) Begin(query string) uint64 {
	s.Attempt++
	s.View = pkg.ViewSearch
	s.Query = query
	s.Searching = true
	s.Result = nil
	s.Error = ""
	s.touch()
	return s.Attempt
}

// Succeed stores result if attempt is still the latest.
func (s *ViewState) Succeed(attempt uint64, result *pkg.SearchResult) bool {
	if attempt != s.Attempt {
		return false
	}
	s.Searching = false
	s.Result = result
	s.Error = ""
	s.touch()
	return true
}

// Fail stores msg if attempt is still the latest.  Any result is cleared.
func (s *ViewState) Fail(attempt uint64, msg string) bool {
	if attempt != s.Attempt {
		return false
	}
	s.Searching = false
	s.Result = nil
	s.Error = msg
	s.touch()
	return true
}

// Reset returns to the initial state.  The attempt counter still advances so
// a query in flight cannot repopulate the cleared state.
func (s *ViewState) Reset() {
	attempt := s.Attempt + 1
	*s = *NewViewState()
	s.Attempt = attempt
}

// Navigate switches view without touching the query lifecycle.
func (s *ViewState) Navigate(v pkg.View) {
	if !v.Valid() {
		v = pkg.ViewHome
	}
	s.View = v
	s.touch()
}

// Clone returns a deep copy.
func (s *ViewState) Clone() *ViewState {
	c := *s
	if s.Result != nil {
		r := *s.Result
		r.Specialist.CommonConditions = append([]string(nil), s.Result.Specialist.CommonConditions...)
		c.Result = &r
	}
	return &c
}

func (s *ViewState) touch() { s.UpdatedAt = time.Now().UTC() }

// StateStore keeps one ViewState per session id.
type StateStore interface {
	// Load returns the stored state or nil when the session is unknown.
	Load(ctx context.Context, id string) (*ViewState, error)
	// Update applies fn atomically to the stored state, starting from
	// NewViewState when absent, and returns the saved copy.
	Update(ctx context.Context, id string, fn func(*ViewState)) (*ViewState, error)
	Delete(ctx context.Context, id string) error
}
