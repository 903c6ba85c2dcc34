package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// FileProvider writes each message to a single .eml file in a local
// directory so a human can inspect would-be emails. It is only registered
// outside production-like environments.
type FileProvider struct {
	cfg Config
	dir string
}

// NewFileProvider creates a file provider writing into the configured
// output directory. The directory is created lazily on first send.
func NewFileProvider(cfg Config) *FileProvider {
	return &FileProvider{cfg: cfg, dir: cfg.FileOutputDir}
}

func (p *FileProvider) Name() string { return "file" }

func (p *FileProvider) Configured() bool { return true }

func (p *FileProvider) Send(ctx context.Context, msg Message) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("%w: file: create output dir: %v", ErrSendFailed, err)
	}

	now := time.Now()
	recipient := "unknown"
	if len(msg.To) > 0 {
		recipient = msg.To[0]
	}
	filename := fmt.Sprintf("%s_%s_%s.eml",
		now.Format("2006-01-02T15-04-05.000"),
		sanitizeFilename(recipient),
		sanitizeFilename(truncate(msg.Subject, 30)),
	)

	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n", now.Format(time.RFC1123Z))
	fmt.Fprintf(&b, "From: %s\n", p.cfg.fromAddress())
	fmt.Fprintf(&b, "To: %s\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\n")

	switch {
	case msg.BodyHTML != "":
		b.WriteString("Content-Type: text/html; charset=utf-8\n\n")
		b.WriteString(msg.BodyHTML)
	case msg.BodyText != "":
		b.WriteString("Content-Type: text/plain; charset=utf-8\n\n")
		b.WriteString(msg.BodyText)
	}

	if msg.TemplateID != "" {
		params, _ := json.Marshal(msg.TemplateParams)
		fmt.Fprintf(&b, "\n\n<!-- Template-ID: %s -->\n", msg.TemplateID)
		fmt.Fprintf(&b, "<!-- Template-Params: %s -->\n", params)
	}

	path := filepath.Join(p.dir, filename)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("%w: file: write %s: %v", ErrSendFailed, path, err)
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename converts an arbitrary string into a safe filename
// fragment.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "_")
	if s == "" {
		s = "mail"
	}
	return strings.ToLower(s)
}
