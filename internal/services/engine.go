package services

import (
	"log"

	"github.com/rastreiaserra/atendimento-backend/internal/conversation"
)

// Engine wires the conversation pipeline: normalizer → session store →
// interpreter → executor. One call per inbound webhook event.
type Engine struct {
	sessions conversation.SessionStore
	interp   *conversation.Interpreter
	exec     *Executor
}

// NewEngine creates the conversation engine.
func NewEngine(sessions conversation.SessionStore, interp *conversation.Interpreter, exec *Executor) *Engine {
	return &Engine{sessions: sessions, interp: interp, exec: exec}
}

// ProcessEvent handles one provider webhook envelope. Message-less events are
// ignored; everything else is interpreted against the contact's current step.
func (e *Engine) ProcessEvent(env *conversation.Envelope) {
	ev := conversation.Normalize(env)
	if ev == nil {
		return
	}

	sess, _ := e.sessions.Get(ev.ContactID)
	log.Printf("📱 Message from %s (step=%q, type=%s)", ev.ContactID, sess.Step, ev.Type)

	decision := e.interp.Decide(sess, ev)
	if decision.Clear {
		e.sessions.Clear(ev.ContactID)
	} else {
		e.sessions.Set(ev.ContactID, decision.Session)
	}

	e.exec.Run(decision.Actions)
}
