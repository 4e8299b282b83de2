package guide

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter holds the query options for listing guides
type ListFilter struct {
	Status       Status
	OriginCityID *int64
	DestCityID   *int64
	CreatedBy    uuid.UUID
	Search       string
	DateFrom     *time.Time
	DateTo       *time.Time
	Limit        int
	Offset       int
}

// Stats aggregates guide counts for the operational dashboard
type Stats struct {
	TotalToday     int64            `json:"total_today"`
	TotalProcessed int64            `json:"total_processed"`
	TotalPending   int64            `json:"total_pending"`
	ByStatus       map[string]int64 `json:"by_status"`
}

// Repository provides persistence for the guide aggregate. Creation of the
// aggregate's rows happens only through a TransactionScope so that guide,
// parties, package, initial history entry and optional override commit or
// roll back as one unit.
type Repository interface {
	// CreateGuide inserts the guide row and populates its allocated ID
	CreateGuide(ctx context.Context, g *Guide) error
	// CreateParty inserts a sender or receiver row keyed by the guide ID
	CreateParty(ctx context.Context, p *Party) error
	// CreatePackage inserts the package row keyed by the guide ID
	CreatePackage(ctx context.Context, pkg *Package) error
	// AppendHistory appends a status history entry; entries are never updated
	AppendHistory(ctx context.Context, entry *StatusHistoryEntry) error
	// CreateOverride inserts the price override audit row
	CreateOverride(ctx context.Context, o *PriceOverride) error

	// FindByID loads a guide with its parties, package and history
	FindByID(ctx context.Context, guideID int64) (*Guide, error)
	// List returns guides matching the filter plus the unpaginated total
	List(ctx context.Context, filter ListFilter) ([]Guide, int64, error)
	// Exists reports whether a guide row exists
	Exists(ctx context.Context, guideID int64) (bool, error)
	// UpdateStatus overwrites the current status; callers must append the
	// matching history entry in the same transaction
	UpdateStatus(ctx context.Context, guideID int64, status Status) error
	// SetDocument writes the published document reference back onto the
	// guide. This is the secondary, non-transactional update that follows
	// a successful publish.
	SetDocument(ctx context.Context, guideID int64, url, storageKey string) error
	// Stats returns today's counters and the per-status breakdown
	Stats(ctx context.Context) (*Stats, error)
}
