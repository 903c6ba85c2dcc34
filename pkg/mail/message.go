package mail

import (
	"fmt"
	"regexp"
	"strings"
)

// Priority controls whether a submission triggers an immediate processing
// pass or waits for the next scheduled one. It never reorders the queue.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Attachment is a file attached to an outgoing message. Content is the raw
// binary payload; providers encode it for their wire format themselves.
type Attachment struct {
	Filename    string `json:"filename"`
	Content     []byte `json:"content"`
	ContentType string `json:"content_type,omitempty"`
}

// Message is a caller-supplied delivery request. Either a body (text or
// HTML) or a template reference must be present; template rendering happens
// server-side at the provider, never here.
type Message struct {
	To             []string          `json:"to"`
	Subject        string            `json:"subject"`
	BodyText       string            `json:"body_text,omitempty"`
	BodyHTML       string            `json:"body_html,omitempty"`
	Attachments    []Attachment      `json:"attachments,omitempty"`
	TemplateID     string            `json:"template_id,omitempty"`
	TemplateParams map[string]any    `json:"template_params,omitempty"`
	Priority       Priority          `json:"priority,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Validate checks the message shape before anything is persisted.
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return fmt.Errorf("%w: at least one recipient is required", ErrInvalidMessage)
	}
	for _, addr := range m.To {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("%w: recipient address is empty", ErrInvalidMessage)
		}
		if !emailRegex.MatchString(addr) {
			return fmt.Errorf("%w: %q is not a valid email address", ErrInvalidMessage, addr)
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	}
	if strings.TrimSpace(m.BodyText) == "" &&
		strings.TrimSpace(m.BodyHTML) == "" &&
		strings.TrimSpace(m.TemplateID) == "" {
		return fmt.Errorf("%w: one of body text, body html or template id is required", ErrInvalidMessage)
	}
	return nil
}

// HighPriority reports whether the message asked for an immediate
// processing pass.
func (m Message) HighPriority() bool {
	return m.Priority == PriorityHigh
}
