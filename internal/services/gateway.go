package services

// Gateway sends outbound WhatsApp messages. Implementations are
// fire-and-forget from the conversation's point of view: errors are logged by
// callers, never surfaced to the contact beyond a generic retry message.
type Gateway interface {
	SendText(to, body string) error
	SendTemplate(to, templateName string, params []string) error
}

// MediaFetcher retrieves inbound attachments from the messaging provider.
type MediaFetcher interface {
	ResolveMediaURL(mediaID string) (url, mimeType string, err error)
	DownloadBinary(url string) (data []byte, contentType string, err error)
}
