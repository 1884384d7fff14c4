package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/briefwire/briefwire/internal/models"
)

// Postgres persists summaries and formatted outputs in Postgres.
type Postgres struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

// NewPostgres wires a sql.DB implementation.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Migrate creates the result tables if they do not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS summaries (
			fingerprint TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			model_used TEXT NOT NULL,
			generated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS formatted_outputs (
			fingerprint TEXT NOT NULL,
			platform TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (fingerprint, platform)
		)`,
	}

	for _, stmt := range statements {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("run migration: %w", err)
		}
	}
	return nil
}

// WriteSummary upserts the summary; on conflict the last writer wins.
func (p *Postgres) WriteSummary(ctx context.Context, summary models.Summary) error {
	query, args, err := p.builder.
		Insert("summaries").
		Columns("fingerprint", "text", "model_used", "generated_at").
		Values(summary.ArticleFingerprint, summary.Text, summary.ModelUsed, summary.GeneratedAt).
		Suffix(`ON CONFLICT (fingerprint) DO UPDATE
			SET text = EXCLUDED.text,
			    model_used = EXCLUDED.model_used,
			    generated_at = EXCLUDED.generated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build summary insert: %w", err)
	}

	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}
	return nil
}

// WriteOutput upserts one formatted output for its (fingerprint, platform).
func (p *Postgres) WriteOutput(ctx context.Context, output models.FormattedOutput) error {
	query, args, err := p.builder.
		Insert("formatted_outputs").
		Columns("fingerprint", "platform", "content", "status", "reason").
		Values(output.SummaryFingerprint, string(output.Platform), output.Content, string(output.Status), output.Reason).
		Suffix(`ON CONFLICT (fingerprint, platform) DO UPDATE
			SET content = EXCLUDED.content,
			    status = EXCLUDED.status,
			    reason = EXCLUDED.reason`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build output insert: %w", err)
	}

	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert output: %w", err)
	}
	return nil
}

// ReadExisting loads the persisted record for a fingerprint, or nil when no
// summary exists.
func (p *Postgres) ReadExisting(ctx context.Context, fingerprint string) (*Record, error) {
	query, args, err := p.builder.
		Select("fingerprint", "text", "model_used", "generated_at").
		From("summaries").
		Where(sq.Eq{"fingerprint": fingerprint}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build summary select: %w", err)
	}

	var summary models.Summary
	row := p.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&summary.ArticleFingerprint, &summary.Text, &summary.ModelUsed, &summary.GeneratedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read summary: %w", err)
	}

	record := &Record{Summary: summary}

	query, args, err = p.builder.
		Select("fingerprint", "platform", "content", "status", "reason").
		From("formatted_outputs").
		Where(sq.Eq{"fingerprint": fingerprint}).
		OrderBy("platform").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build outputs select: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read outputs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var out models.FormattedOutput
		var platform, status string
		if err := rows.Scan(&out.SummaryFingerprint, &platform, &out.Content, &status, &out.Reason); err != nil {
			return nil, fmt.Errorf("scan output: %w", err)
		}
		out.Platform = models.Platform(platform)
		out.Status = models.OutputStatus(status)
		record.Outputs = append(record.Outputs, out)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outputs: %w", err)
	}

	return record, nil
}
