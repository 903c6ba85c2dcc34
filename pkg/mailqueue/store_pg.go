package mailqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// recipientSeparator delimits addresses in the recipients column.
const recipientSeparator = ","

// PgStore is the postgres-backed Store. One row per message in mail_queue;
// see migrations/00001_create_mail_queue.sql for the schema.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a postgres store over the given pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) Enqueue(ctx context.Context, entry Entry) (uuid.UUID, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	attachments, err := json.Marshal(entry.Message.Attachments)
	if err != nil {
		return uuid.Nil, errors.Join(ErrEnqueueFailed, err)
	}
	templateParams, err := json.Marshal(entry.Message.TemplateParams)
	if err != nil {
		return uuid.Nil, errors.Join(ErrEnqueueFailed, err)
	}
	metadata, err := json.Marshal(entry.Message.Metadata)
	if err != nil {
		return uuid.Nil, errors.Join(ErrEnqueueFailed, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO mail_queue (
			id, recipients, subject, body_text, body_html,
			attachments, template_id, template_params, metadata,
			status, retry_count, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending', 0, $10)`,
		entry.ID,
		strings.Join(entry.Message.To, recipientSeparator),
		entry.Message.Subject,
		entry.Message.BodyText,
		entry.Message.BodyHTML,
		attachments,
		entry.Message.TemplateID,
		templateParams,
		metadata,
		entry.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, errors.Join(ErrEnqueueFailed, err)
	}
	return entry.ID, nil
}

func (s *PgStore) NextPending(ctx context.Context, maxRetries int) (Entry, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, recipients, subject, body_text, body_html,
		       attachments, template_id, template_params, metadata,
		       status, retry_count, created_at, sent_at, error, provider
		FROM mail_queue
		WHERE status = 'pending' AND retry_count < $1
		ORDER BY created_at, id
		LIMIT 1`,
		maxRetries,
	)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrNoPendingEntries
		}
		return Entry{}, fmt.Errorf("mailqueue: fetch next pending: %w", err)
	}
	return entry, nil
}

func (s *PgStore) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE mail_queue SET status = 'processing'
		WHERE id = $1 AND status = 'pending'`,
		id,
	)
	if err != nil {
		return fmt.Errorf("mailqueue: mark processing %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *PgStore) MarkSent(ctx context.Context, id uuid.UUID, provider string) error {
	// The status guard makes the call idempotent: a row that is already
	// sent is left untouched.
	_, err := s.pool.Exec(ctx, `
		UPDATE mail_queue
		SET status = 'sent', sent_at = now(), provider = $2, error = ''
		WHERE id = $1 AND status <> 'sent'`,
		id, provider,
	)
	if err != nil {
		return fmt.Errorf("mailqueue: mark sent %s: %w", id, err)
	}
	return nil
}

func (s *PgStore) MarkRetryOrFailed(ctx context.Context, id uuid.UUID, errMsg, provider string, maxRetries int) error {
	// Retry bookkeeping happens in one atomic statement so a crash between
	// increment and status change cannot leave the row inconsistent.
	tag, err := s.pool.Exec(ctx, `
		UPDATE mail_queue
		SET retry_count = retry_count + 1,
		    error = $2,
		    provider = $3,
		    status = CASE WHEN retry_count + 1 >= $4 THEN 'failed' ELSE 'pending' END
		WHERE id = $1 AND status NOT IN ('sent', 'failed')`,
		id, errMsg, provider, maxRetries,
	)
	if err != nil {
		return fmt.Errorf("mailqueue: mark retry/failed %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// Get returns a single entry by id for administrative inspection of failed
// rows. Not part of the Store contract.
func (s *PgStore) Get(ctx context.Context, id uuid.UUID) (Entry, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, recipients, subject, body_text, body_html,
		       attachments, template_id, template_params, metadata,
		       status, retry_count, created_at, sent_at, error, provider
		FROM mail_queue
		WHERE id = $1`,
		id,
	)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrEntryNotFound
		}
		return Entry{}, fmt.Errorf("mailqueue: get %s: %w", id, err)
	}
	return entry, nil
}

func scanEntry(row pgx.Row) (Entry, error) {
	var (
		e              Entry
		recipients     string
		attachments    []byte
		templateParams []byte
		metadata       []byte
		status         string
	)
	err := row.Scan(
		&e.ID, &recipients, &e.Message.Subject, &e.Message.BodyText, &e.Message.BodyHTML,
		&attachments, &e.Message.TemplateID, &templateParams, &metadata,
		&status, &e.RetryCount, &e.CreatedAt, &e.SentAt, &e.Error, &e.Provider,
	)
	if err != nil {
		return Entry{}, err
	}

	e.Status = Status(status)
	if recipients != "" {
		e.Message.To = strings.Split(recipients, recipientSeparator)
	}
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &e.Message.Attachments); err != nil {
			return Entry{}, fmt.Errorf("decode attachments: %w", err)
		}
	}
	if len(templateParams) > 0 {
		if err := json.Unmarshal(templateParams, &e.Message.TemplateParams); err != nil {
			return Entry{}, fmt.Errorf("decode template params: %w", err)
		}
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &e.Message.Metadata); err != nil {
			return Entry{}, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return e, nil
}
