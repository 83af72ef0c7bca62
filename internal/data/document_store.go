package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pbflix/neteflix-api/internal/data/pgxutil"
	apperrors "github.com/pbflix/neteflix-api/internal/errors"
	"github.com/pbflix/neteflix-api/internal/ports"
)

// createdAtField is the logical field name that maps to the created_at column
// instead of a JSONB key, so collections can be ordered by insertion time.
const createdAtField = "createdAt"

// DocumentStore persists path-addressed documents in PostgreSQL. Each document
// carries a free-form JSONB payload; collections are just shared path prefixes.
type DocumentStore struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewDocumentStore creates a new DocumentStore with real time provider.
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewDocumentStoreWithTimeProvider creates a new DocumentStore with a custom time provider (useful for tests).
func NewDocumentStoreWithTimeProvider(db *sql.DB, tp TimeProvider) *DocumentStore {
	return &DocumentStore{DB: db, timeProvider: tp}
}

var _ ports.DocumentStore = (*DocumentStore)(nil)

// Add inserts a new document into the collection at path and returns its ref.
func (s *DocumentStore) Add(ctx context.Context, path string, fields map[string]any) (string, error) {
	if path == "" {
		return "", apperrors.ValidationField("path", "collection path is required")
	}
	if len(fields) == 0 {
		return "", apperrors.ValidationField("fields", "document fields are required")
	}

	id := uuid.New()
	createdAt := s.timeProvider.Now().UTC()
	if err := pgxutil.WithPgxConn(ctx, s.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO documents (id, path, fields, created_at)
			VALUES ($1, $2, $3, $4)
		`, id, path, fields, createdAt)
		return err
	}); err != nil {
		return "", apperrors.MapDBError(err)
	}
	return id.String(), nil
}

// QueryOrdered returns every document in the collection at path ordered by the
// given field. Ordering by "createdAt" uses the insertion timestamp; any other
// field orders by its JSONB value as text.
func (s *DocumentStore) QueryOrdered(ctx context.Context, path, field string, dir ports.Direction) ([]ports.Document, error) {
	if path == "" {
		return nil, apperrors.ValidationField("path", "collection path is required")
	}
	if field == "" {
		return nil, apperrors.ValidationField("field", "order field is required")
	}

	query := `
		SELECT id::text AS id, fields, created_at
		FROM documents
		WHERE path = $1
		ORDER BY ` + orderExpr(field) + ` ` + orderDir(dir)

	args := append([]any{path}, queryArg(field)...)

	var rowsOut []documentRow
	if err := pgxutil.WithPgxConn(ctx, s.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[documentRow])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}

	docs := make([]ports.Document, 0, len(rowsOut))
	for _, row := range rowsOut {
		docs = append(docs, ports.Document{
			Ref:       row.ID,
			Fields:    row.Fields,
			CreatedAt: row.CreatedAt,
		})
	}
	return docs, nil
}

// Delete removes the document identified by ref. Deleting a ref that no longer
// exists is a no-op so callers may retry freely.
func (s *DocumentStore) Delete(ctx context.Context, ref string) error {
	id, err := uuid.Parse(ref)
	if err != nil {
		return apperrors.ValidationField("ref", fmt.Sprintf("invalid document ref %q", ref))
	}

	if err := pgxutil.WithPgxConn(ctx, s.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
		return execErr
	}); err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

type documentRow struct {
	ID        string         `db:"id"`
	Fields    map[string]any `db:"fields"`
	CreatedAt time.Time      `db:"created_at"`
}

func orderExpr(field string) string {
	if field == createdAtField {
		return "created_at"
	}
	// The field name is passed as a bind parameter; only the direction is
	// interpolated, from a fixed set.
	return "fields->>$2"
}

func orderDir(dir ports.Direction) string {
	if dir == ports.Descending {
		return "DESC"
	}
	return "ASC"
}

func queryArg(field string) []any {
	if field == createdAtField {
		return nil
	}
	return []any{field}
}
