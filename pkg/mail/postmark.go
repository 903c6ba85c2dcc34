package mail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mrz1836/postmark"
)

// PostmarkProvider delivers through Postmark's transactional API.
type PostmarkProvider struct {
	client *postmark.Client
	cfg    Config
}

// NewPostmarkProvider creates the Postmark-backed provider. The provider is
// returned even without tokens so the registry can build the full variant
// list and filter on Configured at send time.
func NewPostmarkProvider(cfg Config) *PostmarkProvider {
	return &PostmarkProvider{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		cfg:    cfg,
	}
}

func (p *PostmarkProvider) Name() string { return "postmark" }

func (p *PostmarkProvider) Configured() bool {
	return p.cfg.PostmarkServerToken != ""
}

// Send translates the message into Postmark's wire shape and classifies API
// error codes into the package's error taxonomy.
func (p *PostmarkProvider) Send(ctx context.Context, msg Message) error {
	if !p.Configured() {
		return ErrNotConfigured
	}

	attachments := make([]postmark.Attachment, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		attachments = append(attachments, postmark.Attachment{
			Name:        a.Filename,
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			ContentType: a.ContentType,
		})
	}

	var (
		resp postmark.EmailResponse
		err  error
	)
	if msg.TemplateID != "" {
		templated := postmark.TemplatedEmail{
			From:          p.cfg.fromAddress(),
			To:            strings.Join(msg.To, ","),
			TemplateModel: msg.TemplateParams,
			Attachments:   attachments,
		}
		// Postmark addresses templates either by numeric ID or by alias.
		if id, parseErr := strconv.ParseInt(msg.TemplateID, 10, 64); parseErr == nil {
			templated.TemplateID = id
		} else {
			templated.TemplateAlias = msg.TemplateID
		}
		resp, err = p.client.SendTemplatedEmail(ctx, templated)
	} else {
		resp, err = p.client.SendEmail(ctx, postmark.Email{
			From:        p.cfg.fromAddress(),
			To:          strings.Join(msg.To, ","),
			Subject:     msg.Subject,
			TextBody:    msg.BodyText,
			HTMLBody:    msg.BodyHTML,
			Attachments: attachments,
		})
	}
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return classifyPostmarkError(resp.ErrorCode, resp.Message)
	}
	return nil
}

// classifyPostmarkError maps Postmark API error codes to human-readable
// failure reasons. Codes: 10 is a bad or missing server token, 400/401 are
// sender signature problems, 406 is a recipient deactivated by a previous
// hard bounce, everything else stays generic.
func classifyPostmarkError(code int64, message string) error {
	switch code {
	case 10:
		return fmt.Errorf("%w: postmark: %s", ErrAuthFailed, message)
	case 400, 401:
		return fmt.Errorf("%w: postmark: %s", ErrSenderNotVerified, message)
	case 406:
		return fmt.Errorf("%w: postmark: inactive recipient: %s", ErrSendFailed, message)
	default:
		return fmt.Errorf("%w: postmark error %d: %s", ErrSendFailed, code, message)
	}
}

// fromAddress renders the configured sender identity in RFC 5322 form.
func (c Config) fromAddress() string {
	if c.FromName == "" {
		return c.FromEmail
	}
	return fmt.Sprintf("%s <%s>", c.FromName, c.FromEmail)
}
