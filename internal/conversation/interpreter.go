package conversation

import (
	"regexp"
	"strconv"
	"strings"
)

// HelpButtonPayload is the fixed quick-reply payload that routes straight to a
// human attendant, whatever step the contact is in.
const HelpButtonPayload = "falar_atendente"

// Decision is the outcome of interpreting one inbound event.
// When Clear is set the session is deleted (conversation back to idle);
// otherwise Session replaces the stored one. Actions are executed in order.
type Decision struct {
	Session Session
	Clear   bool
	Actions []Action
}

// Interpreter decides transitions for the conversation state machine. It is a
// pure dispatch over the current step: no network, no storage, no clock.
// Protocol generation is injected so tests can pin it.
type Interpreter struct {
	menus             *Catalog
	billingConfigured bool
	newProtocol       func() string
}

// NewInterpreter creates the conversation interpreter.
func NewInterpreter(menus *Catalog, billingConfigured bool) *Interpreter {
	return &Interpreter{
		menus:             menus,
		billingConfigured: billingConfigured,
		newProtocol:       NewProtocol,
	}
}

// SetProtocolFunc overrides the protocol generator (tests).
func (i *Interpreter) SetProtocolFunc(fn func() string) {
	i.newProtocol = fn
}

var greetings = []string{"oi", "olá", "ola", "bom dia", "boa tarde", "boa noite", "menu", "iniciar", "start"}

// Decide maps (current session, normalized input) to the next session state
// and the side effects to perform. Numeric menu replies take priority over
// keyword matches; keywords are substring-based on the lowercased input.
func (i *Interpreter) Decide(sess Session, ev *InboundEvent) Decision {
	raw := strings.TrimSpace(ev.Text)
	text := strings.ToLower(raw)
	to := ev.ContactID

	// The help button short-circuits every step.
	if ev.ButtonPayload == HelpButtonPayload {
		return i.handoff(sess, to)
	}

	switch sess.Step {
	case StepFinanceMenu:
		return i.decideFinanceMenu(sess, to, text)
	case StepFinanceSecondCopy:
		return i.decideSecondCopy(sess, ev, raw, text)
	case StepProofAskID:
		return i.decideProofAskID(sess, to, raw)
	case StepProofWaitFile:
		return i.decideProofWaitFile(sess, ev)
	case StepPlansMenu:
		return i.decidePlansMenu(sess, ev, text)
	case StepPlansForm:
		return i.decidePlansForm(sess, ev, raw, text)
	case StepSupportMenu:
		return i.decideSupportMenu(sess, ev, text)
	case StepSupportRecovery:
		return i.decideSupportRecovery(sess, ev, raw, text)
	case StepHumanHandoff:
		return i.decideHandoff(sess, to, text)
	case StepFeedbackAsk:
		return i.decideFeedbackAsk(sess, to, text)
	case StepFeedbackComment:
		return i.decideFeedbackComment(sess, ev, raw, text)
	case StepEnded:
		return i.mainMenuReset(ev)
	default:
		return i.decideRoot(sess, ev, text)
	}
}

// ---- root (no step) ----

func (i *Interpreter) decideRoot(sess Session, ev *InboundEvent, text string) Decision {
	to := ev.ContactID

	for _, g := range greetings {
		if strings.HasPrefix(text, g) {
			return Decision{Clear: true, Actions: []Action{SendText{To: to, Body: i.menus.Welcome(ev.DisplayName)}}}
		}
	}

	switch {
	case text == "1" || containsAny(text, "plano", "valores", "preço", "preco", "contratar"):
		return Decision{
			Session: Session{Step: StepPlansMenu},
			Actions: []Action{SendText{To: to, Body: i.menus.PlansMenu()}},
		}
	case text == "2" || strings.Contains(text, "suporte"):
		return Decision{
			Session: Session{Step: StepSupportMenu},
			Actions: []Action{SendText{To: to, Body: i.menus.SupportMenu()}},
		}
	case text == "3" || strings.Contains(text, "financeiro"):
		return Decision{
			Session: Session{Step: StepFinanceMenu},
			Actions: []Action{SendText{To: to, Body: i.menus.FinanceMenu()}},
		}
	case text == "4" || containsAny(text, "atendente", "humano"):
		return i.handoff(sess, to)
	case text == "0":
		return i.end(to)
	default:
		return Decision{Clear: true, Actions: []Action{SendText{To: to, Body: i.menus.Fallback()}}}
	}
}

// ---- financeiro ----

func (i *Interpreter) decideFinanceMenu(sess Session, to, text string) Decision {
	switch {
	case text == "1" || strings.Contains(text, "segunda via"):
		if !i.billingConfigured {
			return Decision{Clear: true, Actions: []Action{SendText{To: to, Body: i.menus.SecondCopyUnavailable()}}}
		}
		return Decision{
			Session: Session{Step: StepFinanceSecondCopy},
			Actions: []Action{SendText{To: to, Body: i.menus.SecondCopyPrompt()}},
		}
	case text == "2" || strings.Contains(text, "comprovante"):
		return Decision{
			Session: Session{Step: StepProofAskID},
			Actions: []Action{SendText{To: to, Body: i.menus.ProofIntro()}},
		}
	case text == "3":
		return Decision{Clear: true, Actions: []Action{SendText{To: to, Body: i.menus.NegotiationSoon()}}}
	case text == "9":
		return Decision{Clear: true, Actions: []Action{SendText{To: to, Body: i.menus.Welcome("")}}}
	default:
		return Decision{Session: sess, Actions: []Action{SendText{To: to, Body: i.menus.FinanceNotUnderstood()}}}
	}
}

func (i *Interpreter) decideSecondCopy(sess Session, ev *InboundEvent, raw, text string) Decision {
	to := ev.ContactID
	if !i.billingConfigured {
		return Decision{Clear: true, Actions: []Action{SendText{To: to, Body: i.menus.SecondCopyUnavailable()}}}
	}

	digits := onlyDigits(raw)
	isTaxID := len(digits) >= 11 && len(digits) <= 14
	isEmail := strings.Contains(raw, "@") && strings.Contains(raw, ".")

	// 11–14 digits always wins over the e-mail pattern.
	switch {
	case isTaxID:
		return Decision{
			Session: sess,
			Actions: []Action{SecondCopyLookup{To: to, Name: ev.DisplayName, CPFCNPJ: digits}},
		}
	case isEmail:
		return Decision{
			Session: sess,
			Actions: []Action{SecondCopyLookup{To: to, Name: ev.DisplayName, Email: strings.ToLower(raw)}},
		}
	default:
		return Decision{Session: sess, Actions: []Action{SendText{To: to, Body: i.menus.SecondCopyInvalidID()}}}
	}
}

func (i *Interpreter) decideProofAskID(sess Session, to, raw string) Decision {
	if raw == "" {
		return Decision{Session: sess, Actions: []Action{SendText{To: to, Body: i.menus.ProofAskID()}}}
	}
	next := sess
	next.Step = StepProofWaitFile
	next.FaturaID = raw
	return Decision{Session: next, Actions: []Action{SendText{To: to, Body: i.menus.ProofWaitFile(raw)}}}
}

func (i *Interpreter) decideProofWaitFile(sess Session, ev *InboundEvent) Decision {
	to := ev.ContactID
	if ev.Media == nil || (ev.Type != TypeImage && ev.Type != TypeDocument) {
		return Decision{Session: sess, Actions: []Action{SendText{To: to, Body: i.menus.ProofNeedsAttachment()}}}
	}

	faturaID := sess.FaturaID
	if faturaID == "" {
		faturaID = "N/D"
	}
	filename := ev.Media.Filename
	if filename == "" {
		if ev.Type == TypeImage {
			filename = "comprovante_" + faturaID + ".jpg"
		} else {
			filename = "comprovante_" + faturaID + ".pdf"
		}
	}
	return Decision{
		Session: sess,
		Actions: []Action{RelayProof{
			To:       to,
			FaturaID: faturaID,
			MediaID:  ev.Media.ID,
			MimeType: ev.Media.MimeType,
			Filename: filename,
		}},
	}
}

// ---- planos ----

func (i *Interpreter) decidePlansMenu(sess Session, ev *InboundEvent, text string) Decision {
	to := ev.ContactID
	switch text {
	case "0":
		return i.end(to)
	case "9":
		return Decision{Clear: true, Actions: []Action{SendText{To: to, Body: i.menus.Welcome(ev.DisplayName)}}}
	case "10":
		return i.handoff(sess, to)
	}
	if tipo, ok := VehicleTypes[text]; ok {
		next := sess
		next.Step = StepPlansForm
		next.Tipo = tipo
		return Decision{Session: next, Actions: []Action{SendText{To: to, Body: i.menus.PlansAskQuantity(tipo)}}}
	}
	return Decision{Session: sess, Actions: []Action{SendText{To: to, Body: i.menus.PlansNotUnderstood()}}}
}

func (i *Interpreter) decidePlansForm(sess Session, ev *InboundEvent, raw, text string) Decision {
	to := ev.ContactID
	switch text {
	case "0":
		return i.end(to)
	case "9":
		return Decision{Clear: true, Actions: []Action{SendText{To: to, Body: i.menus.Welcome(ev.DisplayName)}}}
	case "10":
		return i.handoff(sess, to)
	}

	qty, ok := ParseQuantity(raw)
	if !ok {
		return Decision{Session: sess, Actions: []Action{SendText{To: to, Body: i.menus.PlansAskQuantityAgain()}}}
	}

	next := sess
	next.Step = StepPlansMenu
	body := i.menus.PlansQuote(sess.Tipo, qty)
	if qty > 3 {
		body = i.menus.PlansFleetReferral(sess.Tipo, qty)
	}
	return Decision{Session: next, Actions: []Action{SendText{To: to, Body: body}}}
}

var numberToken = regexp.MustCompile(`\d+`)

// ParseQuantity extracts the vehicle quantity from free text: the last integer
// between 1 and 100. Four-digit tokens are skipped so years ("meu carro 2019")
// never read as a quantity.
func ParseQuantity(text string) (int, bool) {
	qty, found := 0, false
	for _, tok := range numberToken.FindAllString(text, -1) {
		if len(tok) == 4 {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n < 1 || n > 100 {
			continue
		}
		qty, found = n, true
	}
	return qty, found
}

// ---- suporte ----

func (i *Interpreter) decideSupportMenu(sess Session, ev *InboundEvent, text string) Decision {
	to := ev.ContactID
	switch text {
	case "0":
		return i.end(to)
	case "9":
		return i.handoff(sess, to)
	case "5":
		return Decision{Clear: true, Actions: []Action{SendText{To: to, Body: i.menus.Welcome(ev.DisplayName)}}}
	}

	switch {
	case text == "1" || containsAny(text, "sinal", "atualiza"):
		return Decision{Session: sess, Actions: []Action{SendText{To: to, Body: i.menus.SupportTopicSignal()}}}
	case text == "2" || containsAny(text, "app", "acesso", "senha"):
		return Decision{Session: sess, Actions: []Action{SendText{To: to, Body: i.menus.SupportTopicApp()}}}
	case text == "3" || containsAny(text, "roubo", "furto", "recupera"):
		return Decision{
			Session: Session{Step: StepSupportRecovery},
			Actions: []Action{SendText{To: to, Body: i.menus.SupportRecoveryPrompt()}},
		}
	case text == "4" || containsAny(text, "manuten", "instala"):
		return Decision{Session: sess, Actions: []Action{SendText{To: to, Body: i.menus.SupportTopicMaintenance()}}}
	default:
		return Decision{Session: sess, Actions: []Action{SendText{To: to, Body: i.menus.SupportNotUnderstood()}}}
	}
}

func (i *Interpreter) decideSupportRecovery(sess Session, ev *InboundEvent, raw, text string) Decision {
	to := ev.ContactID
	switch text {
	case "0":
		return i.end(to)
	case "9":
		return i.handoff(sess, to)
	case "5":
		return Decision{Clear: true, Actions: []Action{SendText{To: to, Body: i.menus.Welcome(ev.DisplayName)}}}
	}
	if raw == "" {
		return Decision{Session: sess, Actions: []Action{SendText{To: to, Body: i.menus.SupportRecoveryPrompt()}}}
	}

	protocol := i.newProtocol()
	next := sess
	next.Step = StepSupportMenu
	next.Protocol = protocol
	return Decision{
		Session: next,
		Actions: []Action{
			CreateTicket{ContactID: to, Name: ev.DisplayName, Protocol: protocol, Description: raw},
			SendText{To: to, Body: i.menus.SupportRecoveryAck(raw, protocol)},
		},
	}
}

// ---- atendente / feedback / encerramento ----

func (i *Interpreter) decideHandoff(sess Session, to, text string) Decision {
	switch {
	case containsAny(text, "encerra", "finalizar", "fim"):
		return i.end(to)
	case text == "não" || text == "nao" || text == "n":
		next := sess
		next.Step = StepFeedbackAsk
		return Decision{Session: next, Actions: []Action{SendText{To: to, Body: i.menus.FeedbackAsk()}}}
	default:
		// A human attendant owns the conversation; the bot keeps quiet.
		return Decision{Session: sess}
	}
}

func (i *Interpreter) decideFeedbackAsk(sess Session, to, text string) Decision {
	if len(text) == 1 && text >= "1" && text <= "5" {
		next := sess
		next.Step = StepFeedbackComment
		next.FBScore = int(text[0] - '0')
		return Decision{Session: next, Actions: []Action{SendText{To: to, Body: i.menus.FeedbackAskComment()}}}
	}
	return Decision{Session: sess, Actions: []Action{SendText{To: to, Body: i.menus.FeedbackInvalidScore()}}}
}

func (i *Interpreter) decideFeedbackComment(sess Session, ev *InboundEvent, raw, text string) Decision {
	to := ev.ContactID
	comment := raw
	if text == "pular" {
		comment = ""
	}
	next := sess
	next.Step = StepEnded
	return Decision{
		Session: next,
		Actions: []Action{
			RecordFeedback{ContactID: to, Score: sess.FBScore, Comment: comment},
			SendText{To: to, Body: i.menus.Goodbye()},
		},
	}
}

func (i *Interpreter) mainMenuReset(ev *InboundEvent) Decision {
	return Decision{Clear: true, Actions: []Action{SendText{To: ev.ContactID, Body: i.menus.Welcome(ev.DisplayName)}}}
}

func (i *Interpreter) handoff(sess Session, to string) Decision {
	next := sess
	next.Step = StepHumanHandoff
	return Decision{Session: next, Actions: []Action{SendText{To: to, Body: i.menus.Handoff()}}}
}

func (i *Interpreter) end(to string) Decision {
	return Decision{
		Session: Session{Step: StepEnded},
		Actions: []Action{SendText{To: to, Body: i.menus.Goodbye()}},
	}
}

func containsAny(text string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
