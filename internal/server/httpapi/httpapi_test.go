package httpapi

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/healthsync/healthsync/internal/common"
	"github.com/healthsync/healthsync/internal/dbx"
	"github.com/healthsync/healthsync/internal/logging"
	"github.com/healthsync/healthsync/internal/server/config"
	"github.com/healthsync/healthsync/internal/server/models"
	accountsrepo "github.com/healthsync/healthsync/internal/server/repositories/accounts"
	recordsrepo "github.com/healthsync/healthsync/internal/server/repositories/records"
	"github.com/healthsync/healthsync/internal/server/services"
)

// In-memory repositories backing the services under test. They keep
// real state so request flows can be exercised end to end.

type memAccountsRepo struct {
	byEmail map[string]*models.Account
	byID    map[string]*models.Account
}

func newMemAccountsRepo() *memAccountsRepo {
	return &memAccountsRepo{
		byEmail: make(map[string]*models.Account),
		byID:    make(map[string]*models.Account),
	}
}

func (m *memAccountsRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	if _, ok := m.byEmail[a.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	m.byEmail[a.Email] = a
	m.byID[a.ID] = a
	return a, nil
}

func (m *memAccountsRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if a, ok := m.byEmail[email]; ok {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memAccountsRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if a, ok := m.byID[id]; ok {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

type memRecordsRepo struct {
	records []*models.HealthRecord
}

func (m *memRecordsRepo) Create(ctx context.Context, r *models.HealthRecord) (*models.HealthRecord, error) {
	m.records = append(m.records, r)
	return r, nil
}

func (m *memRecordsRepo) owned(accountID string) []*models.HealthRecord {
	var out []*models.HealthRecord
	for _, r := range m.records {
		if r.AccountID == accountID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MeasuredAt.After(out[j].MeasuredAt) })
	return out
}

func (m *memRecordsRepo) List(ctx context.Context, accountID string, filter recordsrepo.ListFilter) ([]*models.HealthRecord, error) {
	var out []*models.HealthRecord
	for _, r := range m.owned(accountID) {
		if len(filter.Types) > 0 {
			match := false
			for _, k := range filter.Types {
				if r.Type == k {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		if filter.Start != nil && r.MeasuredAt.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && r.MeasuredAt.After(*filter.End) {
			continue
		}
		out = append(out, r)
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *memRecordsRepo) Aggregate(ctx context.Context, accountID string) (*recordsrepo.Aggregate, error) {
	owned := m.owned(accountID)
	agg := &recordsrepo.Aggregate{TotalRecords: int64(len(owned))}
	types := make(map[string]struct{})
	for _, r := range owned {
		types[string(r.Type)] = struct{}{}
		if agg.FirstAt == nil || r.MeasuredAt.Before(*agg.FirstAt) {
			t := r.MeasuredAt
			agg.FirstAt = &t
		}
		if agg.LastAt == nil || r.MeasuredAt.After(*agg.LastAt) {
			t := r.MeasuredAt
			agg.LastAt = &t
		}
	}
	agg.TypeCount = int64(len(types))
	return agg, nil
}

func (m *memRecordsRepo) Latest(ctx context.Context, accountID string, n int) ([]*models.HealthRecord, error) {
	owned := m.owned(accountID)
	if len(owned) > n {
		owned = owned[:n]
	}
	return owned, nil
}

type memRepoManager struct {
	accounts *memAccountsRepo
	records  *memRecordsRepo
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *memRepoManager) Accounts(db dbx.DBTX) accountsrepo.Repository { return m.accounts }

func (m *memRepoManager) Records(db dbx.DBTX) recordsrepo.Repository { return m.records }

type testEnv struct {
	accounts *services.AccountService
	records  *services.RecordService
	mock     sqlmock.Sqlmock
	logger   logging.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	mock.MatchExpectationsInOrder(false)

	cfg := &config.Config{
		SecretKey:                   "test-secret",
		AccessTokenValidityDuration: time.Hour,
	}
	rm := &memRepoManager{accounts: newMemAccountsRepo(), records: &memRecordsRepo{}}

	return &testEnv{
		accounts: services.NewAccountService(db, rm, cfg),
		records:  services.NewRecordService(db, rm, cfg),
		mock:     mock,
		logger:   logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil))),
	}
}
