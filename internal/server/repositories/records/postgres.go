// Package records provides PostgreSQL-backed storage and query support for
// health measurement records.
package records

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/healthsync/healthsync/internal/dbx"
	"github.com/healthsync/healthsync/internal/server/models"
)

// PostgresRepository implements record storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, record *models.HealthRecord) (*models.HealthRecord, error) {

	query :=
		`INSERT INTO health_records (id, account_id, measurement_type, value, unit, notes, measured_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	var notes sql.NullString
	if record.Notes != "" {
		notes = sql.NullString{String: record.Notes, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.AccountID, string(record.Type), record.Value,
		record.Unit, notes, record.MeasuredAt, record.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return record, nil
}

// List returns records owned by accountID matching the filter, ordered by
// measured_at descending. The WHERE clause is built incrementally so each
// absent filter simply drops out.
func (r *PostgresRepository) List(ctx context.Context, accountID string, filter ListFilter) ([]*models.HealthRecord, error) {

	query := `SELECT id, account_id, measurement_type, value, unit, notes, measured_at, created_at
		 FROM health_records
		 WHERE account_id = $1`
	args := []any{accountID}

	if len(filter.Types) > 0 {
		placeholders := make([]string, len(filter.Types))
		for i, k := range filter.Types {
			args = append(args, string(k))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		query += " AND measurement_type IN (" + strings.Join(placeholders, ", ") + ")"
	}
	if filter.Start != nil {
		args = append(args, *filter.Start)
		query += fmt.Sprintf(" AND measured_at >= $%d", len(args))
	}
	if filter.End != nil {
		args = append(args, *filter.End)
		query += fmt.Sprintf(" AND measured_at <= $%d", len(args))
	}

	query += " ORDER BY measured_at DESC"

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	return r.queryRecords(ctx, query, args...)
}

// Aggregate computes whole-account counters in a single scan.
func (r *PostgresRepository) Aggregate(ctx context.Context, accountID string) (*Aggregate, error) {
	query :=
		`SELECT COUNT(*), COUNT(DISTINCT measurement_type), MIN(measured_at), MAX(measured_at)
		 FROM health_records
		 WHERE account_id = $1
		 `

	agg := &Aggregate{}
	var first, last sql.NullTime

	err := r.db.QueryRowContext(ctx, query, accountID).
		Scan(&agg.TotalRecords, &agg.TypeCount, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if first.Valid {
		t := first.Time
		agg.FirstAt = &t
	}
	if last.Valid {
		t := last.Time
		agg.LastAt = &t
	}

	return agg, nil
}

// Latest returns the n most recent records by measured_at.
func (r *PostgresRepository) Latest(ctx context.Context, accountID string, n int) ([]*models.HealthRecord, error) {
	query :=
		`SELECT id, account_id, measurement_type, value, unit, notes, measured_at, created_at
		 FROM health_records
		 WHERE account_id = $1
		 ORDER BY measured_at DESC
		 LIMIT $2
		 `

	return r.queryRecords(ctx, query, accountID, n)
}

func (r *PostgresRepository) queryRecords(ctx context.Context, query string, args ...any) ([]*models.HealthRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.HealthRecord{}
	for rows.Next() {
		var item models.HealthRecord
		var notes sql.NullString
		if err := rows.Scan(
			&item.ID, &item.AccountID, &item.Type, &item.Value, &item.Unit,
			&notes, &item.MeasuredAt, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		item.Notes = notes.String
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
