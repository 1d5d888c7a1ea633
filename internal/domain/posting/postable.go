// Package posting implements document posting: turning a document's planned
// movements into register rows and balance updates, atomically.
package posting

import (
	"context"
	"time"

	"stockroom/internal/core/id"
)

// Postable is implemented by every document type that records register
// movements. entity.Document provides defaults for everything except
// GetDocumentType and GenerateMovements.
type Postable interface {
	GetID() id.ID
	GetCompanyID() string
	GetDate() time.Time
	GetPostedVersion() int
	IsPosted() bool

	// CanPost validates business rules before posting (no database access).
	CanPost(ctx context.Context) error

	// GetDocumentType returns the recorder type name (e.g. "StockTransaction").
	GetDocumentType() string

	// GenerateMovements produces the planned register changes for this
	// document. Pure calculation: balances are not consulted here.
	GenerateMovements(ctx context.Context) (*MovementSet, error)

	MarkPosted()
	MarkUnposted()
}
