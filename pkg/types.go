package pkg

import "time"

// SpecialistInfo describes the specialist recommended for a symptom
// description.  Field names match the JSON shape requested from the model.
type SpecialistInfo struct {
	SpecialistName   string   `json:"specialistName"`
	Category         string   `json:"category"`
	Description      string   `json:"description"`
	CommonConditions []string `json:"commonConditions"`
	WhenToSeeThem    string   `json:"whenToSeeThem"`
	UrgencyWarning   string   `json:"urgencyWarning,omitempty"`
}

// Urgent reports whether the model attached an urgency warning.
func (s SpecialistInfo) Urgent() bool { return s.UrgencyWarning != "" }

// SearchResult pairs a recommendation with the reason it was chosen.
type SearchResult struct {
	Specialist  SpecialistInfo `json:"specialist"`
	Explanation string         `json:"explanation"`
}

// DirectoryEntry is a static summary card shown on the browse page.  It is
// unrelated to SearchResult.
type DirectoryEntry struct {
	Name        string `json:"name"`
	Field       string `json:"field"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// View selects which page the UI renders.
type View string

const (
	ViewHome   View = "home"
	ViewSearch View = "search"
	ViewBrowse View = "browse"
	ViewAbout  View = "about"
)

// Valid reports whether v is one of the known views.
func (v View) Valid() bool {
	switch v {
	case ViewHome, ViewSearch, ViewBrowse, ViewAbout:
		return true
	}
	return false
}

// InquiryOutcome is the result category stored in the inquiry log.
type InquiryOutcome string

const (
	OutcomeSuccess InquiryOutcome = "success"
	OutcomeFailure InquiryOutcome = "failure"
)

// Inquiry is one row of the inquiry log.  The user's symptom text is never
// stored, only what was recommended and how long it took.
type Inquiry struct {
	ID             string         `json:"id"`
	Outcome        InquiryOutcome `json:"outcome"`
	SpecialistName string         `json:"specialist_name,omitempty"`
	Category       string         `json:"category,omitempty"`
	Urgent         bool           `json:"urgent"`
	LatencyMS      int64          `json:"latency_ms"`
	CreatedAt      time.Time      `json:"created_at"`
}

// SpecialistCount is an aggregate row returned by the stats endpoint.
type SpecialistCount struct {
	SpecialistName string `json:"specialist_name"`
	Category       string `json:"category"`
	Total          int    `json:"total"`
	Urgent         int    `json:"urgent"`
}
