package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const notesSchema = `
CREATE TABLE IF NOT EXISTS notes (
	seq        BIGSERIAL PRIMARY KEY,
	id         TEXT UNIQUE NOT NULL,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresNotes stores notes durably via a pgx connection pool. Ids keep
// the same "note-N" shape as the in-memory store, derived from a sequence.
type PostgresNotes struct {
	pool *pgxpool.Pool
}

// NewPostgresNotes connects to dsn and ensures the notes table exists.
func NewPostgresNotes(ctx context.Context, dsn string) (*PostgresNotes, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect notes db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping notes db: %w", err)
	}
	if _, err := pool.Exec(ctx, notesSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create notes table: %w", err)
	}
	log.Info().Msg("postgres notes store ready")
	return &PostgresNotes{pool: pool}, nil
}

func (s *PostgresNotes) Create(ctx context.Context, title, content string) (Note, error) {
	var (
		id        string
		createdAt time.Time
	)
	// The id is derived from the same sequence value as seq, in one
	// statement, so concurrent creates cannot collide on the id column.
	err := s.pool.QueryRow(ctx,
		`INSERT INTO notes (seq, id, title, content)
		 SELECT s, 'note-' || s, $1, $2 FROM nextval('notes_seq_seq') AS s
		 RETURNING id, created_at`, title, content).Scan(&id, &createdAt)
	if err != nil {
		return Note{}, fmt.Errorf("insert note: %w", err)
	}

	return Note{
		ID:        id,
		Title:     title,
		Content:   content,
		CreatedAt: createdAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *PostgresNotes) Get(ctx context.Context, id string) (Note, error) {
	var (
		note      Note
		createdAt time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, content, created_at FROM notes WHERE id = $1`, id).
		Scan(&note.ID, &note.Title, &note.Content, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Note{}, fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	if err != nil {
		return Note{}, fmt.Errorf("get note: %w", err)
	}
	note.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	return note, nil
}

func (s *PostgresNotes) List(ctx context.Context) ([]Note, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, content, created_at FROM notes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var (
			note      Note
			createdAt time.Time
		)
		if err := rows.Scan(&note.ID, &note.Title, &note.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		note.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		out = append(out, note)
	}
	return out, rows.Err()
}

func (s *PostgresNotes) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	return nil
}

func (s *PostgresNotes) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresNotes) Close() {
	s.pool.Close()
}
