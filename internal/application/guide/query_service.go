package guide

import (
	"context"
	"strings"

	"github.com/shipguide/backend/internal/domain/guide"
	"github.com/shipguide/backend/internal/domain/identity"
	"github.com/shipguide/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// QueryService serves reads and post-creation operations on existing guides:
// listing, detail, search, stats, status transitions and document links.
type QueryService struct {
	guideRepo guide.Repository
	txScope   TransactionScope
	publisher *Publisher
	logger    *zap.Logger
}

// NewQueryService creates a query service
func NewQueryService(guideRepo guide.Repository, txScope TransactionScope, publisher *Publisher, logger *zap.Logger) *QueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryService{
		guideRepo: guideRepo,
		txScope:   txScope,
		publisher: publisher,
		logger:    logger,
	}
}

// List returns guides matching the filter plus the unpaginated total
func (s *QueryService) List(ctx context.Context, filter guide.ListFilter) ([]GuideResponse, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	guides, total, err := s.guideRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("guide list failed", zap.Error(err))
		return nil, 0, shared.ErrPersistence
	}

	items := make([]GuideResponse, 0, len(guides))
	for i := range guides {
		items = append(items, ToGuideResponse(&guides[i]))
	}
	return items, total, nil
}

// GetByID returns the full guide detail with parties, package and history
func (s *QueryService) GetByID(ctx context.Context, guideID int64) (*GuideDetailResponse, error) {
	g, err := s.guideRepo.FindByID(ctx, guideID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, err
		}
		s.logger.Error("guide lookup failed", zap.Int64("guide_id", guideID), zap.Error(err))
		return nil, shared.ErrPersistence
	}
	detail := ToGuideDetailResponse(g)
	return &detail, nil
}

// Search performs a quick free-text lookup over guide number, party names
// and document numbers. Queries shorter than three characters are rejected
// to keep the scan bounded.
func (s *QueryService) Search(ctx context.Context, query string) ([]GuideResponse, error) {
	query = strings.TrimSpace(query)
	if len(query) < 3 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Search query must be at least 3 characters")
	}
	items, _, err := s.List(ctx, guide.ListFilter{Search: query, Limit: 20})
	return items, err
}

// Stats returns today's operational counters
func (s *QueryService) Stats(ctx context.Context) (*StatsResponse, error) {
	stats, err := s.guideRepo.Stats(ctx)
	if err != nil {
		s.logger.Error("guide stats failed", zap.Error(err))
		return nil, shared.ErrPersistence
	}
	return &StatsResponse{
		TotalToday:     stats.TotalToday,
		TotalProcessed: stats.TotalProcessed,
		TotalPending:   stats.TotalPending,
		ByStatus:       stats.ByStatus,
	}, nil
}

// UpdateStatus moves a guide to a new lifecycle status. The status column
// and the audit entry are written in one transaction: the current status
// never changes without its history row. Admins may set any status;
// secretaries only register warehouse arrival.
func (s *QueryService) UpdateStatus(ctx context.Context, actor identity.Actor, guideID int64, status guide.Status) (*GuideDetailResponse, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Unknown guide status")
	}
	if !status.CanBeSetBy(actor.Role) {
		s.logger.Warn("status change attempt without authorization",
			zap.Int64("guide_id", guideID),
			zap.String("status", status.String()),
			zap.String("actor_id", actor.ID.String()),
			zap.String("role", string(actor.Role)))
		return nil, shared.NewDomainError(shared.CodeAuthorization, "Role may not set this status")
	}

	g, err := s.guideRepo.FindByID(ctx, guideID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, err
		}
		return nil, shared.ErrPersistence
	}
	if g.CurrentStatus == status {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Guide is already in this status")
	}

	entry := guide.NewStatusHistoryEntry(guideID, status, actor.ID)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.GuideRepo()
		if err := repo.UpdateStatus(ctx, guideID, status); err != nil {
			return err
		}
		return repo.AppendHistory(ctx, entry)
	})
	if err != nil {
		s.logger.Error("status transition failed", zap.Int64("guide_id", guideID), zap.Error(err))
		return nil, shared.ErrPersistence
	}

	s.logger.Info("guide status updated",
		zap.Int64("guide_id", guideID),
		zap.String("from", g.CurrentStatus.String()),
		zap.String("to", status.String()),
		zap.String("actor_id", actor.ID.String()))

	g.CurrentStatus = status
	g.History = append(g.History, *entry)
	detail := ToGuideDetailResponse(g)
	return &detail, nil
}

// DocumentLink mints a fresh presigned link for a guide's published document
func (s *QueryService) DocumentLink(ctx context.Context, guideID int64) (*DocumentInfo, error) {
	g, err := s.guideRepo.FindByID(ctx, guideID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, err
		}
		return nil, shared.ErrPersistence
	}
	return s.publisher.FreshLink(ctx, g)
}

// Republish regenerates and re-uploads a guide's document. Used to recover
// from a publishing failure after creation.
func (s *QueryService) Republish(ctx context.Context, guideID int64) (*DocumentInfo, error) {
	g, err := s.guideRepo.FindByID(ctx, guideID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, err
		}
		return nil, shared.ErrPersistence
	}
	return s.publisher.Publish(ctx, g)
}
