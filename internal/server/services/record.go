package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthsync/healthsync/internal/common"
	"github.com/healthsync/healthsync/internal/dbx"
	"github.com/healthsync/healthsync/internal/server/config"
	"github.com/healthsync/healthsync/internal/server/measurements"
	"github.com/healthsync/healthsync/internal/server/models"
	"github.com/healthsync/healthsync/internal/server/repositories/records"
	"github.com/healthsync/healthsync/internal/server/repositories/repomanager"
)

const (
	defaultListLimit = 50
	maxListLimit     = 1000
	latestCount      = 5
)

// RecordService implements measurement record creation, listing, and
// summarizing for one account at a time.
type RecordService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewRecordService constructs a RecordService using repositories and
// server config.
func NewRecordService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *RecordService {
	return &RecordService{
		db:          db,
		repomanager: m,
	}
}

// DateRange is the measured-at extent over an account's records.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// HealthSummary is the dashboard aggregate over one account's records.
// DateRange is nil when the account has no records.
type HealthSummary struct {
	TotalRecords          int64
	MeasurementTypesCount int64
	DateRange             *DateRange
	LatestMeasurements    []*models.HealthRecord
}

// buildRecord validates one spec and materializes it as a storable record.
func (s *RecordService) buildRecord(accountID string, spec measurements.Spec) (*models.HealthRecord, error) {
	if err := measurements.Validate(spec.Type, spec.Value); err != nil {
		return nil, err
	}
	if err := measurements.ValidateNotes(spec.Notes); err != nil {
		return nil, err
	}

	measuredAt := spec.MeasuredAt
	if measuredAt.IsZero() {
		measuredAt = measurements.DefaultMeasuredAt()
	}

	return &models.HealthRecord{
		ID:         uuid.NewString(),
		AccountID:  accountID,
		Type:       spec.Type,
		Value:      spec.Value,
		Unit:       spec.Unit,
		Notes:      spec.Notes,
		MeasuredAt: measuredAt,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Create validates and persists a single measurement record.
func (s *RecordService) Create(ctx context.Context, accountID string, spec measurements.Spec) (*models.HealthRecord, error) {
	record, err := s.buildRecord(accountID, spec)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Records(s.db)
	created, err := repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("error creating record: %w", err)
	}

	return created, nil
}

// CreateBatch validates every spec up front and persists the whole batch
// inside a single transaction: either all records are stored or none are.
func (s *RecordService) CreateBatch(ctx context.Context, accountID string, specs []measurements.Spec) ([]*models.HealthRecord, error) {
	result := make([]*models.HealthRecord, 0, len(specs))

	for _, spec := range specs {
		record, err := s.buildRecord(accountID, spec)
		if err != nil {
			return nil, err
		}
		result = append(result, record)
	}

	if len(result) == 0 {
		return result, nil
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Records(tx)
		for _, record := range result {
			if _, err := repoTx.Create(ctx, record); err != nil {
				return fmt.Errorf("error creating record: %w", err)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// QuickAdd expands the shorthand payload and stores the resulting records
// as one atomic batch. An all-absent shorthand stores nothing and succeeds.
func (s *RecordService) QuickAdd(ctx context.Context, accountID string, q measurements.QuickAdd) ([]*models.HealthRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return s.CreateBatch(ctx, accountID, q.Expand())
}

// List returns the account's records matching the filter, most recent
// first. Limit defaults to 50 and is capped at 1000.
func (s *RecordService) List(ctx context.Context, accountID string, filter records.ListFilter) ([]*models.HealthRecord, error) {
	if filter.Limit == 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit < 1 || filter.Limit > maxListLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", common.ErrorValidation, maxListLimit)
	}
	if filter.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", common.ErrorValidation)
	}

	repo := s.repomanager.Records(s.db)
	result, err := repo.List(ctx, accountID, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}

	return result, nil
}

// Summarize computes the account's dashboard aggregate with a full scan
// over its records.
func (s *RecordService) Summarize(ctx context.Context, accountID string) (*HealthSummary, error) {
	repo := s.repomanager.Records(s.db)

	agg, err := repo.Aggregate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("error aggregating records: %w", err)
	}

	summary := &HealthSummary{
		TotalRecords:          agg.TotalRecords,
		MeasurementTypesCount: agg.TypeCount,
		LatestMeasurements:    []*models.HealthRecord{},
	}

	if agg.FirstAt != nil && agg.LastAt != nil {
		summary.DateRange = &DateRange{Start: *agg.FirstAt, End: *agg.LastAt}
	}

	if agg.TotalRecords > 0 {
		latest, err := repo.Latest(ctx, accountID, latestCount)
		if err != nil {
			return nil, fmt.Errorf("error loading latest records: %w", err)
		}
		summary.LatestMeasurements = latest
	}

	return summary, nil
}
