package models

import (
	"time"

	"github.com/healthsync/healthsync/internal/server/measurements"
)

// HealthRecord is a single timestamped measurement owned by one account.
// Records are immutable once stored.
type HealthRecord struct {
	ID         string
	AccountID  string
	Type       measurements.Kind
	Value      float64
	Unit       string
	Notes      string
	MeasuredAt time.Time
	CreatedAt  time.Time
}
