package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGemini_Generate(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"name\":"},{"text":"\"x\"}"}]}}]}`))
	}))
	defer srv.Close()

	g := NewGemini(Options{APIKey: "secret", Model: "test-model", BaseURL: srv.URL + "/", Temperature: 0.3})
	text, err := g.Generate(context.Background(), Request{
		SystemInstruction: "be helpful",
		Prompt:            "hello",
		Schema:            sampleSchema(),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x"}`, text)

	sys := captured["systemInstruction"].(map[string]interface{})
	parts := sys["parts"].([]interface{})
	assert.Equal(t, "be helpful", parts[0].(map[string]interface{})["text"])

	gen := captured["generationConfig"].(map[string]interface{})
	assert.Equal(t, "application/json", gen["responseMimeType"])
	assert.Equal(t, "OBJECT", gen["responseSchema"].(map[string]interface{})["type"])
	assert.InDelta(t, 0.3, gen["temperature"], 0.0001)

	contents := captured["contents"].([]interface{})
	require.Len(t, contents, 1)
	userParts := contents[0].(map[string]interface{})["parts"].([]interface{})
	assert.Equal(t, "hello", userParts[0].(map[string]interface{})["text"])
}

func TestGemini_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		isEmpty bool
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`, isEmpty: true},
		{name: "blank text", status: http.StatusOK, body: `{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`, isEmpty: true},
		{name: "not json", status: http.StatusOK, body: `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := NewGemini(Options{BaseURL: srv.URL})
			_, err := g.Generate(context.Background(), Request{Prompt: "p", Schema: sampleSchema()})
			require.Error(t, err)
			assert.Equal(t, tt.isEmpty, err == ErrEmptyResponse)
		})
	}
}

func TestGemini_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	g := NewGemini(Options{BaseURL: url})
	_, err := g.Generate(context.Background(), Request{Prompt: "p", Schema: sampleSchema()})
	assert.Error(t, err)
}
