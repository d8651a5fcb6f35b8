package services

import (
	"testing"

	"github.com/rastreiaserra/atendimento-backend/internal/conversation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(f *executorFixture) *Engine {
	menus := &conversation.Catalog{
		CompanyName:    "RASTREIA SERRA",
		PlanMonthlyFee: 79.90,
		PlanSetupFee:   150.00,
	}
	interp := conversation.NewInterpreter(menus, true)
	return NewEngine(f.sessions, interp, f.exec)
}

func textEnvelope(from, body string) *conversation.Envelope {
	return &conversation.Envelope{Entry: []conversation.Entry{{Changes: []conversation.Change{{
		Value: conversation.ChangeValue{
			Contacts: []conversation.Contact{{WaID: from, Profile: conversation.Profile{Name: "Ana"}}},
			Messages: []conversation.Message{{From: from, Type: "text", Text: &conversation.TextBody{Body: body}}},
		},
	}}}}}
}

func TestEngineProcessEventFullFlow(t *testing.T) {
	f := newExecutorFixture()
	engine := newTestEngine(f)

	engine.ProcessEvent(textEnvelope(contact, "oi"))
	require.Len(t, f.gateway.texts, 1)
	_, ok := f.sessions.Get(contact)
	assert.False(t, ok, "greeting leaves the contact idle")

	engine.ProcessEvent(textEnvelope(contact, "3"))
	sess, ok := f.sessions.Get(contact)
	require.True(t, ok)
	assert.Equal(t, conversation.StepFinanceMenu, sess.Step)

	engine.ProcessEvent(textEnvelope(contact, "2"))
	sess, _ = f.sessions.Get(contact)
	assert.Equal(t, conversation.StepProofAskID, sess.Step)

	engine.ProcessEvent(textEnvelope(contact, "#RS-2025-0001"))
	sess, _ = f.sessions.Get(contact)
	assert.Equal(t, conversation.StepProofWaitFile, sess.Step)
	assert.Equal(t, "#RS-2025-0001", sess.FaturaID)

	assert.Len(t, f.gateway.texts, 4, "every hop answered with one message")
}

func TestEngineIgnoresMessagelessEvents(t *testing.T) {
	f := newExecutorFixture()
	engine := newTestEngine(f)

	engine.ProcessEvent(nil)
	engine.ProcessEvent(&conversation.Envelope{})

	assert.Empty(t, f.gateway.texts)
	assert.Equal(t, 0, f.sessions.Len())
}
