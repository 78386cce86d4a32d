package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drspecialist/internal/logger"
)

func TestAnalyze_Success(t *testing.T) {
	fake := &fakeLLM{reply: cardiologyReply}
	a := NewAdvisor(fake, logger.NewTestLogger(t))

	res, err := a.Analyze(context.Background(), "chest pain radiating to left arm")
	require.NoError(t, err)

	assert.Equal(t, "Cardiologist", res.Specialist.SpecialistName)
	assert.Equal(t, []string{"Angina", "Arrhythmia", "Heart failure"}, res.Specialist.CommonConditions)
	assert.Equal(t, "Chest pain can signal a heart attack. Call emergency services now.", res.Specialist.UrgencyWarning)
	assert.True(t, res.Specialist.Urgent())

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, SystemInstruction, req.SystemInstruction)
	assert.Equal(t, ResponseSchemaName, req.SchemaName)
	assert.Contains(t, req.Prompt, `Symptoms/Inquiry: "chest pain radiating to left arm"`)
	assert.Equal(t, []string{"specialist", "explanation"}, req.Schema.Required)
}

func TestAnalyze_NoUrgencyWarning(t *testing.T) {
	a := NewAdvisor(&fakeLLM{reply: dermatologyReply}, logger.NewNoOpLogger())

	res, err := a.Analyze(context.Background(), "itchy red rash on forearm")
	require.NoError(t, err)
	assert.Equal(t, "Dermatologist", res.Specialist.SpecialistName)
	assert.Empty(t, res.Specialist.UrgencyWarning)
	assert.False(t, res.Specialist.Urgent())
}

func TestAnalyze_BlankInputMakesNoCall(t *testing.T) {
	fake := &fakeLLM{reply: cardiologyReply}
	a := NewAdvisor(fake, logger.NewNoOpLogger())

	for _, in := range []string{"", "   ", "\n\t"} {
		res, err := a.Analyze(context.Background(), in)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
	assert.Equal(t, 0, fake.calls())
}

func TestAnalyze_Failures(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		kind  FailureKind
	}{
		{name: "network error", err: errNetwork, kind: KindUpstream},
		{name: "empty reply", reply: "  ", kind: KindUpstream},
		{name: "not json", reply: "I think you should see a cardiologist.", kind: KindShape},
		{name: "truncated json", reply: `{"specialist": {"specialistName": "Cardio`, kind: KindShape},
		{
			name:  "missing explanation",
			reply: strings.Replace(dermatologyReply, `"explanation": "An itchy rash is a skin condition."`, `"note": "x"`, 1),
			kind:  KindShape,
		},
		{
			name:  "missing specialist",
			reply: `{"explanation": "no specialist here"}`,
			kind:  KindShape,
		},
		{
			name:  "conditions not an array",
			reply: strings.Replace(dermatologyReply, `["Eczema", "Psoriasis"]`, `"Eczema"`, 1),
			kind:  KindShape,
		},
		{
			name:  "blank specialist name",
			reply: strings.Replace(dermatologyReply, `"Dermatologist"`, `"  "`, 1),
			kind:  KindShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeLLM{reply: tt.reply, err: tt.err}
			a := NewAdvisor(fake, logger.NewNoOpLogger())

			res, err := a.Analyze(context.Background(), "headache")
			assert.Nil(t, res)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrAnalysisFailed)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, 1, fake.calls())

			var ae *AnalysisError
			require.True(t, errors.As(err, &ae))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestParseResult_FillsMissingConditions(t *testing.T) {
	reply := `{"specialist":{"specialistName":"Neurologist","category":"Brain","description":"Nerves.","commonConditions":[],"whenToSeeThem":"Soon."},"explanation":"Headaches."}`
	res, err := ParseResult(reply)
	require.NoError(t, err)
	assert.NotNil(t, res.Specialist.CommonConditions)
	assert.Empty(t, res.Specialist.CommonConditions)
}

func TestBuildPrompt_QuotesInput(t *testing.T) {
	p := BuildPrompt(`pain "here"`)
	assert.True(t, strings.HasSuffix(p, `Symptoms/Inquiry: "pain \"here\""`))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, FailureKind(""), KindOf(errNetwork))
}
