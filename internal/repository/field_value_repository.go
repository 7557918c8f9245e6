package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/document-service/internal/domain"
)

// FieldValueRepository stores extracted field values per document.
type FieldValueRepository interface {
	ListByDocument(ctx context.Context, documentID string) ([]domain.FieldValue, error)
	// Replace swaps the full value set of a document and marks it processed, atomically.
	Replace(ctx context.Context, documentID string, values []domain.FieldValue) error
}

type fieldValueRepository struct {
	pool *pgxpool.Pool
}

// NewFieldValueRepository constructs repository.
func NewFieldValueRepository(pool *pgxpool.Pool) FieldValueRepository {
	return &fieldValueRepository{pool: pool}
}

func (r *fieldValueRepository) ListByDocument(ctx context.Context, documentID string) ([]domain.FieldValue, error) {
	const query = `
        SELECT document_id, field_name, value, COALESCE(updated_by::text, ''), updated_at
        FROM document_field_values
        WHERE document_id=$1
        ORDER BY field_name`

	rows, err := r.pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make([]domain.FieldValue, 0)
	for rows.Next() {
		var v domain.FieldValue
		if err := rows.Scan(&v.DocumentID, &v.FieldName, &v.Value, &v.UpdatedBy, &v.UpdatedAt); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *fieldValueRepository) Replace(ctx context.Context, documentID string, values []domain.FieldValue) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM document_field_values WHERE document_id=$1`, documentID); err != nil {
			return fmt.Errorf("clear field values: %w", err)
		}

		batch := &pgx.Batch{}
		for _, v := range values {
			batch.Queue(`
                INSERT INTO document_field_values (document_id, field_name, value, updated_by)
                VALUES ($1, $2, $3, NULLIF($4, '')::uuid)`,
				documentID, v.FieldName, v.Value, v.UpdatedBy)
		}
		batch.Queue(`UPDATE documents SET status=$1, updated_at=NOW() WHERE id=$2`,
			domain.DocumentStatusProcessed, documentID)

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("write field values: %w", err)
		}
		return nil
	})
}
