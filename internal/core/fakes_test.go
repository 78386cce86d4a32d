package core

import (
	"context"
	"errors"
	"sync"

	"drspecialist/internal/llm"
	"drspecialist/pkg"
)

type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []llm.Request
}

func (f *fakeLLM) Generate(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type analyzeFunc func(ctx context.Context, input string) (*pkg.SearchResult, error)

func (f analyzeFunc) Analyze(ctx context.Context, input string) (*pkg.SearchResult, error) {
	return f(ctx, input)
}

type mapStore struct {
	mu     sync.Mutex
	states map[string]*ViewState
	fail   error
}

func newMapStore() *mapStore { return &mapStore{states: map[string]*ViewState{}} }

func (m *mapStore) Load(_ context.Context, id string) (*ViewState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	st, ok := m.states[id]
	if !ok {
		return nil, nil
	}
	return st.Clone(), nil
}

func (m *mapStore) Update(_ context.Context, id string, fn func(*ViewState)) (*ViewState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	st, ok := m.states[id]
	if !ok {
		st = NewViewState()
	}
	fn(st)
	m.states[id] = st
	return st.Clone(), nil
}

func (m *mapStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
	return nil
}

type recorder struct {
	mu   sync.Mutex
	rows []pkg.Inquiry
	err  error
}

func (r *recorder) Record(_ context.Context, in pkg.Inquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, in)
	return r.err
}

var errNetwork = errors.New("dial tcp: connection refused")

const cardiologyReply = `{
  "specialist": {
    "specialistName": "Cardiologist",
    "category": "Heart & Blood Vessels",
    "description": "Diagnoses and treats diseases of the heart and blood vessels.",
    "commonConditions": ["Angina", "Arrhythmia", "Heart failure"],
    "whenToSeeThem": "When you have chest discomfort, palpitations or shortness of breath.",
    "urgencyWarning": "Chest pain can signal a heart attack. Call emergency services now."
  },
  "explanation": "Chest pain radiating to the arm is a classic cardiac symptom."
}`

const dermatologyReply = `{
  "specialist": {
    "specialistName": "Dermatologist",
    "category": "Skin, Hair & Nails",
    "description": "Treats conditions of the skin.",
    "commonConditions": ["Eczema", "Psoriasis"],
    "whenToSeeThem": "When a rash persists for more than a few days."
  },
  "explanation": "An itchy rash is a skin condition."
}`
