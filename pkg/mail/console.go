package mail

import (
	"context"
	"log/slog"
	"strings"
)

// htmlDumpLimit keeps console dumps readable; full bodies belong in the
// file provider.
const htmlDumpLimit = 300

// ConsoleProvider writes a structured dump of the message to the process
// log instead of sending it anywhere. It is always configured and always
// succeeds, which makes it the terminal fallback of the cascade.
type ConsoleProvider struct {
	cfg Config
	log *slog.Logger
}

// NewConsoleProvider creates the console provider. A nil logger falls back
// to slog.Default.
func NewConsoleProvider(cfg Config, log *slog.Logger) *ConsoleProvider {
	if log == nil {
		log = slog.Default()
	}
	return &ConsoleProvider{cfg: cfg, log: log}
}

func (p *ConsoleProvider) Name() string { return "console" }

func (p *ConsoleProvider) Configured() bool { return true }

func (p *ConsoleProvider) Send(ctx context.Context, msg Message) error {
	attrs := []any{
		slog.String("to", strings.Join(msg.To, ", ")),
		slog.String("from", p.cfg.fromAddress()),
		slog.String("subject", msg.Subject),
	}
	if msg.TemplateID != "" {
		attrs = append(attrs,
			slog.String("template_id", msg.TemplateID),
			slog.Any("template_params", msg.TemplateParams),
		)
	}
	if msg.BodyText != "" {
		attrs = append(attrs, slog.String("body_text", msg.BodyText))
	}
	if msg.BodyHTML != "" {
		attrs = append(attrs, slog.String("body_html", truncate(msg.BodyHTML, htmlDumpLimit)))
	}
	if len(msg.Attachments) > 0 {
		names := make([]string, 0, len(msg.Attachments))
		for _, a := range msg.Attachments {
			names = append(names, a.Filename)
		}
		attrs = append(attrs, slog.Any("attachments", names))
	}

	p.log.InfoContext(ctx, "development email (not actually sent)", attrs...)
	return nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
