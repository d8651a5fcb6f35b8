package conversation

import "strings"

// MessageType classifies an inbound message.
type MessageType string

const (
	TypeText     MessageType = "text"
	TypeImage    MessageType = "image"
	TypeDocument MessageType = "document"
	TypeButton   MessageType = "button"
	TypeUnknown  MessageType = "unknown"
)

// Media points at an attachment carried by an inbound message.
type Media struct {
	ID       string
	MimeType string
	Filename string
}

// InboundEvent is the normalized view of a provider webhook payload.
type InboundEvent struct {
	ContactID     string
	Type          MessageType
	Text          string
	ButtonPayload string
	DisplayName   string
	Media         *Media
}

// Envelope mirrors the WhatsApp Cloud API webhook payload, down to the single
// message this bot cares about.
type Envelope struct {
	Entry []Entry `json:"entry"`
}

type Entry struct {
	Changes []Change `json:"changes"`
}

type Change struct {
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	Contacts []Contact `json:"contacts"`
	Messages []Message `json:"messages"`
}

type Contact struct {
	WaID    string  `json:"wa_id"`
	Profile Profile `json:"profile"`
}

type Profile struct {
	Name string `json:"name"`
}

type Message struct {
	From        string       `json:"from"`
	Type        string       `json:"type"`
	Text        *TextBody    `json:"text"`
	Image       *MediaBody   `json:"image"`
	Document    *MediaBody   `json:"document"`
	Button      *ButtonBody  `json:"button"`
	Interactive *Interactive `json:"interactive"`
}

type TextBody struct {
	Body string `json:"body"`
}

type MediaBody struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	Filename string `json:"filename"`
}

type ButtonBody struct {
	Payload string `json:"payload"`
	Text    string `json:"text"`
}

type Interactive struct {
	ButtonReply *ButtonReply `json:"button_reply"`
}

type ButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Normalize extracts the single user message from a webhook envelope, or nil
// when the event carries none (delivery receipts, status updates). The contact
// id is the sender with every non-digit stripped; an empty result means there
// is nothing to process.
func Normalize(env *Envelope) *InboundEvent {
	if env == nil || len(env.Entry) == 0 || len(env.Entry[0].Changes) == 0 {
		return nil
	}

	value := env.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return nil
	}
	msg := value.Messages[0]

	from := msg.From
	var waID, name string
	if len(value.Contacts) > 0 {
		waID = value.Contacts[0].WaID
		name = value.Contacts[0].Profile.Name
	}
	if from == "" {
		from = waID
	}

	contactID := onlyDigits(from)
	if contactID == "" {
		return nil
	}

	ev := &InboundEvent{
		ContactID:   contactID,
		Type:        TypeUnknown,
		DisplayName: name,
	}

	switch msg.Type {
	case "text":
		ev.Type = TypeText
		if msg.Text != nil {
			ev.Text = strings.TrimSpace(msg.Text.Body)
		}
	case "image":
		ev.Type = TypeImage
		if msg.Image != nil {
			ev.Media = &Media{ID: msg.Image.ID, MimeType: msg.Image.MimeType}
		}
	case "document":
		ev.Type = TypeDocument
		if msg.Document != nil {
			ev.Media = &Media{ID: msg.Document.ID, MimeType: msg.Document.MimeType, Filename: msg.Document.Filename}
		}
	case "button":
		ev.Type = TypeButton
		if msg.Button != nil {
			ev.ButtonPayload = msg.Button.Payload
			ev.Text = strings.TrimSpace(msg.Button.Text)
		}
	case "interactive":
		ev.Type = TypeButton
		if msg.Interactive != nil && msg.Interactive.ButtonReply != nil {
			ev.ButtonPayload = msg.Interactive.ButtonReply.ID
			ev.Text = strings.TrimSpace(msg.Interactive.ButtonReply.Title)
		}
	}

	return ev
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
