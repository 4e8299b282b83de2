package persistence

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shipguide/backend/internal/domain/guide"
	"github.com/shipguide/backend/internal/domain/reference"
	"github.com/shipguide/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormGuideRepository implements guide.Repository using GORM
type GormGuideRepository struct {
	db *gorm.DB
}

// NewGormGuideRepository creates a new GormGuideRepository
func NewGormGuideRepository(db *gorm.DB) *GormGuideRepository {
	return &GormGuideRepository{db: db}
}

// CreateGuide inserts the guide row and populates the allocated ID
func (r *GormGuideRepository) CreateGuide(ctx context.Context, g *guide.Guide) error {
	return r.db.WithContext(ctx).Create(g).Error
}

// CreateParty inserts a sender or receiver row
func (r *GormGuideRepository) CreateParty(ctx context.Context, p *guide.Party) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// CreatePackage inserts the package row
func (r *GormGuideRepository) CreatePackage(ctx context.Context, pkg *guide.Package) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

// AppendHistory appends a status history entry
func (r *GormGuideRepository) AppendHistory(ctx context.Context, entry *guide.StatusHistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CreateOverride inserts the price override audit row
func (r *GormGuideRepository) CreateOverride(ctx context.Context, o *guide.PriceOverride) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// FindByID loads a guide with its parties, package, history and city names
func (r *GormGuideRepository) FindByID(ctx context.Context, guideID int64) (*guide.Guide, error) {
	var g guide.Guide
	if err := r.db.WithContext(ctx).First(&g, "guide_id = ?", guideID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	var parties []guide.Party
	if err := r.db.WithContext(ctx).
		Where("guide_id = ?", guideID).
		Find(&parties).Error; err != nil {
		return nil, err
	}
	for i := range parties {
		switch parties[i].Role {
		case guide.RoleSender:
			g.Sender = &parties[i]
		case guide.RoleReceiver:
			g.Receiver = &parties[i]
		}
	}

	var pkg guide.Package
	err := r.db.WithContext(ctx).First(&pkg, "guide_id = ?", guideID).Error
	switch {
	case err == nil:
		g.Package = &pkg
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("guide_id = ?", guideID).
		Order("updated_at ASC, history_id ASC").
		Find(&g.History).Error; err != nil {
		return nil, err
	}

	if err := r.resolveCityNames(ctx, &g); err != nil {
		return nil, err
	}

	return &g, nil
}

// resolveCityNames fills the display-only city name fields on the guide and
// its parties from the cities catalog
func (r *GormGuideRepository) resolveCityNames(ctx context.Context, g *guide.Guide) error {
	ids := []int64{g.OriginCityID, g.DestCityID}
	if g.Sender != nil {
		ids = append(ids, g.Sender.CityID)
	}
	if g.Receiver != nil {
		ids = append(ids, g.Receiver.CityID)
	}

	var cities []reference.City
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&cities).Error; err != nil {
		return err
	}

	names := make(map[int64]string, len(cities))
	for _, c := range cities {
		names[c.ID] = c.Name
	}

	g.OriginCityName = names[g.OriginCityID]
	g.DestCityName = names[g.DestCityID]
	if g.Sender != nil {
		g.Sender.CityName = names[g.Sender.CityID]
	}
	if g.Receiver != nil {
		g.Receiver.CityName = names[g.Receiver.CityID]
	}
	return nil
}

// List returns guides matching the filter plus the unpaginated total,
// newest first
func (r *GormGuideRepository) List(ctx context.Context, filter guide.ListFilter) ([]guide.Guide, int64, error) {
	query := r.db.WithContext(ctx).Model(&guide.Guide{})

	if filter.Status != "" {
		query = query.Where("current_status = ?", filter.Status)
	}
	if filter.OriginCityID != nil {
		query = query.Where("origin_city_id = ?", *filter.OriginCityID)
	}
	if filter.DestCityID != nil {
		query = query.Where("destination_city_id = ?", *filter.DestCityID)
	}
	if filter.CreatedBy != uuid.Nil {
		query = query.Where("created_by = ?", filter.CreatedBy)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at < ?", *filter.DateTo)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		query = query.Where(r.searchCondition(term))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var guides []guide.Guide
	if err := query.Order("created_at DESC, guide_id DESC").Find(&guides).Error; err != nil {
		return nil, 0, err
	}
	return guides, total, nil
}

// searchCondition matches guides by their number or by a party's name or
// document. A purely numeric term may be either a guide number, including
// zero-padded input like 00000042, or a party document number.
func (r *GormGuideRepository) searchCondition(term string) *gorm.DB {
	pattern := "%" + strings.ToLower(term) + "%"
	partyMatch := "EXISTS (SELECT 1 FROM guide_parties gp WHERE gp.guide_id = shipping_guides.guide_id" +
		" AND (LOWER(gp.full_name) LIKE ? OR gp.document_number = ?))"

	if id, err := strconv.ParseInt(term, 10, 64); err == nil {
		return r.db.Where("guide_id = ? OR "+partyMatch, id, pattern, term)
	}
	return r.db.Where(partyMatch, pattern, term)
}

// Exists reports whether a guide row exists
func (r *GormGuideRepository) Exists(ctx context.Context, guideID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&guide.Guide{}).
		Where("guide_id = ?", guideID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus overwrites the current status
func (r *GormGuideRepository) UpdateStatus(ctx context.Context, guideID int64, status guide.Status) error {
	result := r.db.WithContext(ctx).Model(&guide.Guide{}).
		Where("guide_id = ?", guideID).
		Updates(map[string]any{
			"current_status": status,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetDocument writes the published document reference back onto the guide
func (r *GormGuideRepository) SetDocument(ctx context.Context, guideID int64, url, storageKey string) error {
	result := r.db.WithContext(ctx).Model(&guide.Guide{}).
		Where("guide_id = ?", guideID).
		Updates(map[string]any{
			"pdf_url":    url,
			"pdf_s3_key": storageKey,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Stats returns today's counters and the per-status breakdown
func (r *GormGuideRepository) Stats(ctx context.Context) (*guide.Stats, error) {
	type statusCount struct {
		CurrentStatus string
		Count         int64
	}

	var counts []statusCount
	if err := r.db.WithContext(ctx).Model(&guide.Guide{}).
		Select("current_status, COUNT(*) AS count").
		Group("current_status").
		Find(&counts).Error; err != nil {
		return nil, err
	}

	stats := &guide.Stats{ByStatus: make(map[string]int64, len(counts))}
	for _, c := range counts {
		stats.ByStatus[c.CurrentStatus] = c.Count
		if c.CurrentStatus == string(guide.StatusDelivered) {
			stats.TotalProcessed += c.Count
		} else {
			stats.TotalPending += c.Count
		}
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := r.db.WithContext(ctx).Model(&guide.Guide{}).
		Where("created_at >= ?", startOfDay).
		Count(&stats.TotalToday).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// Ensure GormGuideRepository implements guide.Repository
var _ guide.Repository = (*GormGuideRepository)(nil)
