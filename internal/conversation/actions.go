package conversation

// Action is a side effect requested by the interpreter. Actions are immutable
// once issued and fire-and-forget: the executor logs failures but never
// surfaces them to the contact beyond a generic retry message.
type Action interface {
	isAction()
}

// SendText sends a plain text message to a contact.
type SendText struct {
	To   string
	Body string
}

// SecondCopyLookup asks the executor to resolve a billing customer and reply
// with the open charges. Exactly one of CPFCNPJ or Email is set. The executor
// owns the resulting transition: on a match the session is cleared, on a miss
// the contact stays in the second-copy step to retry.
type SecondCopyLookup struct {
	To      string
	Name    string
	CPFCNPJ string
	Email   string
}

// RelayProof asks the executor to download the attachment and relay it to the
// finance team (mail first, webhook fallback). The executor clears the session
// afterwards regardless of outcome.
type RelayProof struct {
	To       string
	FaturaID string
	MediaID  string
	MimeType string
	Filename string
}

// CreateTicket records a support-recovery request under the given protocol.
type CreateTicket struct {
	ContactID   string
	Name        string
	Protocol    string
	Description string
}

// RecordFeedback persists a finished feedback survey.
type RecordFeedback struct {
	ContactID string
	Score     int
	Comment   string
}

func (SendText) isAction()         {}
func (SecondCopyLookup) isAction() {}
func (RelayProof) isAction()       {}
func (CreateTicket) isAction()     {}
func (RecordFeedback) isAction()   {}
