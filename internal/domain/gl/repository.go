package gl

import (
	"context"
	"time"

	"stockroom/internal/core/id"
)

// Repository defines persistence for journal entries.
type Repository interface {
	InsertEntries(ctx context.Context, entries []Entry) error
	DeleteByRecorder(ctx context.Context, companyID string, recorderID id.ID) (int64, error)
	GetByRecorder(ctx context.Context, companyID string, recorderID id.ID) ([]Entry, error)

	// TrialBalance sums debits and credits per account over a period.
	TrialBalance(ctx context.Context, companyID string, from, to time.Time) ([]AccountBalance, error)
}
