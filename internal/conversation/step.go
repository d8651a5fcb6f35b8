package conversation

// Step identifies a position in the menu-driven conversation.
// StepNone means the contact has no active flow (main menu territory).
type Step string

const (
	StepNone              Step = ""
	StepFinanceMenu       Step = "financeiro_menu"
	StepFinanceSecondCopy Step = "financeiro_segundavia"
	StepProofAskID        Step = "financeiro_comprovante_ask_id"
	StepProofWaitFile     Step = "financeiro_comprovante_wait_file"
	StepPlansMenu         Step = "planos_menu"
	StepPlansForm         Step = "planos_form"
	StepSupportMenu       Step = "suporte_menu"
	StepSupportRecovery   Step = "suporte_recuperacao"
	StepHumanHandoff      Step = "atendente"
	StepFeedbackAsk       Step = "feedback_nota"
	StepFeedbackComment   Step = "feedback_comentario"
	StepEnded             Step = "encerrado"
)

// AllSteps is the closed set of reachable steps.
var AllSteps = []Step{
	StepNone,
	StepFinanceMenu,
	StepFinanceSecondCopy,
	StepProofAskID,
	StepProofWaitFile,
	StepPlansMenu,
	StepPlansForm,
	StepSupportMenu,
	StepSupportRecovery,
	StepHumanHandoff,
	StepFeedbackAsk,
	StepFeedbackComment,
	StepEnded,
}

// Valid reports whether s is a member of the closed step set.
func (s Step) Valid() bool {
	for _, known := range AllSteps {
		if s == known {
			return true
		}
	}
	return false
}

// Session holds the conversation state for a single contact.
type Session struct {
	Step     Step
	FaturaID string
	Protocol string
	Tipo     string
	FBScore  int
}
