package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// PostgresStore keeps every collection in a single JSONB documents table.
// The id and timestamps live in columns; everything else is document data.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) Add(ctx context.Context, collection string, data map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	id := uuid.NewString()
	var createdAt, updatedAt time.Time
	err = p.db.QueryRowContext(ctx, `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, collection, id, raw).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add document: %w", err)
	}

	return mergedDoc(id, data, createdAt, updatedAt), nil
}

func (p *PostgresStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	var raw []byte
	var createdAt, updatedAt time.Time
	err := p.db.QueryRowContext(ctx, `
		SELECT data, created_at, updated_at
		FROM documents
		WHERE collection = $1 AND id = $2
	`, collection, id).Scan(&raw, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return decodeDoc(id, raw, createdAt, updatedAt)
}

func (p *PostgresStore) List(ctx context.Context, collection string, filters ...Filter) ([]map[string]any, error) {
	query := `
		SELECT id, data, created_at, updated_at
		FROM documents
		WHERE collection = $1`
	args := []any{collection}
	for _, f := range filters {
		query += fmt.Sprintf(" AND data->>$%d = $%d", len(args)+1, len(args)+2)
		args = append(args, f.Field, fmt.Sprint(f.Value))
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []map[string]any
	for rows.Next() {
		var id string
		var raw []byte
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &raw, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc, err := decodeDoc(id, raw, createdAt, updatedAt)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (p *PostgresStore) Update(ctx context.Context, collection, id string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	result, err := p.db.ExecContext(ctx, `
		UPDATE documents
		SET data = data || $3, updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`, collection, id, raw)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	return checkAffected(result)
}

func (p *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	result, err := p.db.ExecContext(ctx, `
		DELETE FROM documents
		WHERE collection = $1 AND id = $2
	`, collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return checkAffected(result)
}

// Increment is a single UPDATE so concurrent notifications cannot lose
// counter updates.
func (p *PostgresStore) Increment(ctx context.Context, collection, id, field string, delta int) (int64, error) {
	var value int64
	err := p.db.QueryRowContext(ctx, `
		UPDATE documents
		SET data = jsonb_set(data, ARRAY[$3], to_jsonb(COALESCE((data->>$3)::bigint, 0) + $4), true),
		    updated_at = NOW()
		WHERE collection = $1 AND id = $2
		RETURNING (data->>$3)::bigint
	`, collection, id, field, delta).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", field, err)
	}
	return value, nil
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}

func checkAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeDoc(id string, raw []byte, createdAt, updatedAt time.Time) (map[string]any, error) {
	data := make(map[string]any)
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	return mergedDoc(id, data, createdAt, updatedAt), nil
}

func mergedDoc(id string, data map[string]any, createdAt, updatedAt time.Time) map[string]any {
	out := cloneDoc(data)
	out["id"] = id
	out["createdAt"] = createdAt.UTC().Format(time.RFC3339Nano)
	out["updatedAt"] = updatedAt.UTC().Format(time.RFC3339Nano)
	return out
}
