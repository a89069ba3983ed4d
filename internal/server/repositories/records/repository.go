package records

import (
	"context"
	"time"

	"github.com/healthsync/healthsync/internal/server/measurements"
	"github.com/healthsync/healthsync/internal/server/models"
)

// ListFilter narrows a List query. All present filters apply conjunctively;
// Start and End bound measured_at inclusively.
type ListFilter struct {
	Types  []measurements.Kind
	Start  *time.Time
	End    *time.Time
	Limit  int
	Offset int
}

// Aggregate holds whole-account counters and the measured-at extent.
// FirstAt/LastAt are nil when the account has no records.
type Aggregate struct {
	TotalRecords int64
	TypeCount    int64
	FirstAt      *time.Time
	LastAt       *time.Time
}

type Repository interface {
	Create(ctx context.Context, record *models.HealthRecord) (*models.HealthRecord, error)
	List(ctx context.Context, accountID string, filter ListFilter) ([]*models.HealthRecord, error)
	Aggregate(ctx context.Context, accountID string) (*Aggregate, error)
	Latest(ctx context.Context, accountID string, n int) ([]*models.HealthRecord, error)
}
