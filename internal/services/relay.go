package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"net/smtp"
	"net/textproto"
	"time"

	"github.com/google/uuid"
)

// ProofRelay forwards payment proofs to the finance team: e-mail first, then
// the external webhook. First success wins; both failing is reported to the
// caller so the contact can be pointed at the support e-mail.
type ProofRelay struct {
	smtpHost string
	smtpPort int
	smtpUser string
	smtpPass string
	mailTo   string

	webhookURL  string
	companyName string

	http *http.Client
}

// NewProofRelay creates the proof relay. Empty SMTP or webhook settings
// disable the respective channel.
func NewProofRelay(smtpHost string, smtpPort int, smtpUser, smtpPass, mailTo, webhookURL, companyName string) *ProofRelay {
	return &ProofRelay{
		smtpHost:    smtpHost,
		smtpPort:    smtpPort,
		smtpUser:    smtpUser,
		smtpPass:    smtpPass,
		mailTo:      mailTo,
		webhookURL:  webhookURL,
		companyName: companyName,
		// The webhook relay is the only outbound call with a hard deadline.
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *ProofRelay) mailConfigured() bool {
	return r.smtpHost != "" && r.smtpUser != "" && r.smtpPass != ""
}

// Deliver relays a proof file. Returns true when at least one channel
// accepted it.
func (r *ProofRelay) Deliver(faturaID, contactID, filename, contentType string, data []byte) bool {
	if r.mailConfigured() {
		if err := r.sendMail(faturaID, contactID, filename, data); err != nil {
			log.Printf("❌ Proof mail relay failed: %v", err)
		} else {
			return true
		}
	}

	if r.webhookURL != "" {
		if err := r.postWebhook(faturaID, contactID, filename, contentType, data); err != nil {
			log.Printf("❌ Proof webhook relay failed: %v", err)
		} else {
			return true
		}
	}

	return false
}

func (r *ProofRelay) sendMail(faturaID, contactID, filename string, data []byte) error {
	subject := fmt.Sprintf("[Comprovante] %s - %s", faturaID, r.companyName)
	text := fmt.Sprintf(`Comprovante recebido via WhatsApp
Empresa: %s
Fatura: %s
Remetente (WhatsApp): %s
Data: %s`, r.companyName, faturaID, contactID, time.Now().Format("02/01/2006 15:04:05"))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: \"Financeiro %s\" <%s>\r\n", r.companyName, r.smtpUser)
	fmt.Fprintf(&buf, "To: %s\r\n", r.mailTo)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", writer.Boundary())

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=utf-8")
	textPart, err := writer.CreatePart(textHeader)
	if err != nil {
		return err
	}
	if _, err := textPart.Write([]byte(text)); err != nil {
		return err
	}

	fileHeader := textproto.MIMEHeader{}
	fileHeader.Set("Content-Type", "application/octet-stream")
	fileHeader.Set("Content-Transfer-Encoding", "base64")
	fileHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	filePart, err := writer.CreatePart(fileHeader)
	if err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	if _, err := filePart.Write([]byte(encoded)); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", r.smtpHost, r.smtpPort)
	auth := smtp.PlainAuth("", r.smtpUser, r.smtpPass, r.smtpHost)
	return smtp.SendMail(addr, auth, r.smtpUser, []string{r.mailTo}, buf.Bytes())
}

type proofWebhookPayload struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	FaturaID    string `json:"faturaId"`
	From        string `json:"from"`
	ContentType string `json:"contentType"`
	Filename    string `json:"filename"`
	ReceivedAt  string `json:"receivedAt"`
	FileBase64  string `json:"fileBase64"`
}

func (r *ProofRelay) postWebhook(faturaID, contactID, filename, contentType string, data []byte) error {
	payload := proofWebhookPayload{
		ID:          uuid.NewString(),
		Company:     r.companyName,
		FaturaID:    faturaID,
		From:        contactID,
		ContentType: contentType,
		Filename:    filename,
		ReceivedAt:  time.Now().UTC().Format(time.RFC3339),
		FileBase64:  base64.StdEncoding.EncodeToString(data),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := r.http.Post(r.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("proof webhook returned status %d", resp.StatusCode)
	}
	return nil
}
