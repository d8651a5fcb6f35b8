package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// MetaClient talks to the WhatsApp Cloud API (graph.facebook.com). It is the
// default outbound gateway and also serves media retrieval for inbound
// attachments.
type MetaClient struct {
	base          string
	token         string
	phoneNumberID string
	http          *http.Client
}

// NewMetaClient creates a Cloud API client.
func NewMetaClient(base, token, phoneNumberID string) (*MetaClient, error) {
	if token == "" || phoneNumberID == "" {
		return nil, fmt.Errorf("missing WhatsApp Cloud API credentials (WHATS_TOKEN / PHONE_NUMBER_ID)")
	}
	return &MetaClient{
		base:          base,
		token:         token,
		phoneNumberID: phoneNumberID,
		http:          &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type metaTextPayload struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type,omitempty"`
	Text             metaTextBody `json:"text"`
}

type metaTextBody struct {
	Body string `json:"body"`
}

// SendText sends a plain text message.
func (c *MetaClient) SendText(to, body string) error {
	payload := metaTextPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             metaTextBody{Body: body},
	}
	return c.postMessage(payload)
}

type metaTemplatePayload struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Template         metaTemplate `json:"template"`
}

type metaTemplate struct {
	Name       string          `json:"name"`
	Language   metaLanguage    `json:"language"`
	Components []metaComponent `json:"components,omitempty"`
}

type metaLanguage struct {
	Code string `json:"code"`
}

type metaComponent struct {
	Type       string          `json:"type"`
	Parameters []metaParameter `json:"parameters"`
}

type metaParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SendTemplate sends an approved pt_BR template with positional body params.
func (c *MetaClient) SendTemplate(to, templateName string, params []string) error {
	parameters := make([]metaParameter, 0, len(params))
	for _, p := range params {
		parameters = append(parameters, metaParameter{Type: "text", Text: p})
	}

	payload := metaTemplatePayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
		Template: metaTemplate{
			Name:     templateName,
			Language: metaLanguage{Code: "pt_BR"},
		},
	}
	if len(parameters) > 0 {
		payload.Template.Components = []metaComponent{{Type: "body", Parameters: parameters}}
	}
	return c.postMessage(payload)
}

func (c *MetaClient) postMessage(payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.base, c.phoneNumberID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cloud api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.Printf("❌ Cloud API error %d: %s", resp.StatusCode, string(respBody))
		return fmt.Errorf("cloud api returned status %d", resp.StatusCode)
	}
	return nil
}

type metaMediaMeta struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
}

// ResolveMediaURL exchanges a media id for its temporary download URL.
func (c *MetaClient) ResolveMediaURL(mediaID string) (string, string, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/%s", c.base, mediaID), nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("media metadata request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("media metadata returned status %d", resp.StatusCode)
	}

	var meta metaMediaMeta
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return "", "", fmt.Errorf("failed to decode media metadata: %w", err)
	}
	if meta.URL == "" {
		return "", "", fmt.Errorf("media url not found")
	}
	if meta.MimeType == "" {
		meta.MimeType = "application/octet-stream"
	}
	return meta.URL, meta.MimeType, nil
}

// DownloadBinary fetches the media bytes from a temporary URL.
func (c *MetaClient) DownloadBinary(url string) ([]byte, string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("media download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("media download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}
