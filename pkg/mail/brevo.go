package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBrevoURL = "https://api.brevo.com/v3/smtp/email"

// BrevoProvider delivers through the Brevo (ex Sendinblue) transactional
// email API.
type BrevoProvider struct {
	cfg        Config
	apiURL     string
	httpClient *http.Client
}

// NewBrevoProvider creates the Brevo-backed provider.
func NewBrevoProvider(cfg Config) *BrevoProvider {
	return &BrevoProvider{
		cfg:    cfg,
		apiURL: defaultBrevoURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (p *BrevoProvider) Name() string { return "brevo" }

func (p *BrevoProvider) Configured() bool {
	return p.cfg.BrevoAPIKey != ""
}

// Brevo wire types. Attachments carry base64 content; templateId plus params
// delegates rendering to the API.
type (
	brevoAddress struct {
		Email string `json:"email"`
		Name  string `json:"name,omitempty"`
	}

	brevoAttachment struct {
		Name        string `json:"name"`
		Content     string `json:"content"`
		ContentType string `json:"contentType,omitempty"`
	}

	brevoRequest struct {
		Sender      brevoAddress      `json:"sender"`
		To          []brevoAddress    `json:"to"`
		Subject     string            `json:"subject,omitempty"`
		HTMLContent string            `json:"htmlContent,omitempty"`
		TextContent string            `json:"textContent,omitempty"`
		Attachment  []brevoAttachment `json:"attachment,omitempty"`
		TemplateID  json.Number       `json:"templateId,omitempty"`
		Params      map[string]any    `json:"params,omitempty"`
	}
)

func (p *BrevoProvider) Send(ctx context.Context, msg Message) error {
	if !p.Configured() {
		return ErrNotConfigured
	}

	to := make([]brevoAddress, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, brevoAddress{Email: addr})
	}

	req := brevoRequest{
		Sender:      brevoAddress{Email: p.cfg.FromEmail, Name: p.cfg.FromName},
		To:          to,
		Subject:     msg.Subject,
		HTMLContent: msg.BodyHTML,
		TextContent: msg.BodyText,
	}
	for _, a := range msg.Attachments {
		req.Attachment = append(req.Attachment, brevoAttachment{
			Name:        a.Filename,
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			ContentType: a.ContentType,
		})
	}
	if msg.TemplateID != "" {
		req.TemplateID = json.Number(msg.TemplateID)
		req.Params = msg.TemplateParams
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: brevo: marshal request: %v", ErrSendFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: brevo: build request: %v", ErrSendFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", p.cfg.BrevoAPIKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: brevo: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// Brevo error bodies carry a short machine code and a message.
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return classifyBrevoError(resp.StatusCode, string(respBody))
}

func classifyBrevoError(status int, body string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: brevo: status %d: %s", ErrAuthFailed, status, body)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: brevo: status %d: %s", ErrSenderNotVerified, status, body)
	default:
		return fmt.Errorf("%w: brevo: status %d: %s", ErrSendFailed, status, body)
	}
}
