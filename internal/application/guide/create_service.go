package guide

import (
	"context"

	"github.com/shipguide/backend/internal/domain/guide"
	"github.com/shipguide/backend/internal/domain/identity"
	"github.com/shipguide/backend/internal/domain/reference"
	"github.com/shipguide/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CreateService orchestrates guide creation: input validation, price
// verification, the atomic creation transaction, then document publishing.
type CreateService struct {
	engine    *PriceEngine
	guard     *OverrideGuard
	txScope   TransactionScope
	publisher *Publisher
	cities    reference.CityRepository
	logger    *zap.Logger
}

// NewCreateService creates the guide creation orchestrator
func NewCreateService(
	engine *PriceEngine,
	guard *OverrideGuard,
	txScope TransactionScope,
	publisher *Publisher,
	cities reference.CityRepository,
	logger *zap.Logger,
) *CreateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreateService{
		engine:    engine,
		guard:     guard,
		txScope:   txScope,
		publisher: publisher,
		cities:    cities,
		logger:    logger,
	}
}

// Create runs the full creation pipeline. All validation and price
// verification happens before the transaction opens, so a rejected request
// leaves no trace. The transaction inserts guide, sender, receiver, package,
// the initial CREATED history entry and the optional override as one unit.
// Publishing runs after commit; its failure downgrades the result to a
// success with a warning, never an error.
func (s *CreateService) Create(ctx context.Context, actor identity.Actor, req CreateGuideRequest) (*CreateGuideResponse, error) {
	sender, err := guide.NewParty(guide.RoleSender, req.Sender.FullName, req.Sender.DocumentType,
		req.Sender.DocumentNumber, req.Sender.Phone, req.Sender.Email, req.Sender.Address, req.Sender.CityID)
	if err != nil {
		return nil, err
	}
	receiver, err := guide.NewParty(guide.RoleReceiver, req.Receiver.FullName, req.Receiver.DocumentType,
		req.Receiver.DocumentNumber, req.Receiver.Phone, req.Receiver.Email, req.Receiver.Address, req.Receiver.CityID)
	if err != nil {
		return nil, err
	}
	pkg, err := guide.NewPackage(req.Package.WeightKg, req.Package.Pieces,
		req.Package.LengthCm, req.Package.WidthCm, req.Package.HeightCm,
		req.Package.Insured, req.Package.Description, req.Package.SpecialNotes)
	if err != nil {
		return nil, err
	}

	origin, err := s.cities.FindByID(ctx, req.OriginCityID)
	if err != nil {
		return nil, shared.ErrPersistence
	}
	dest, err := s.cities.FindByID(ctx, req.DestCityID)
	if err != nil {
		return nil, shared.ErrPersistence
	}
	if origin == nil || dest == nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Unknown origin or destination city")
	}

	computed, err := s.engine.Compute(ctx, req.OriginCityID, req.DestCityID, req.ServiceType,
		req.Package.WeightKg, req.Package.LengthCm, req.Package.WidthCm, req.Package.HeightCm)
	if err != nil {
		return nil, err
	}

	price := req.Price
	var override *guide.PriceOverride
	switch s.engine.Classify(req.Price, computed.Amount, computed.Resolved) {
	case ClassificationRejected:
		s.logger.Warn("guide creation rejected on price integrity",
			zap.String("submitted", req.Price.String()),
			zap.String("computed", computed.Amount.String()),
			zap.Bool("resolved", computed.Resolved))
		return nil, shared.NewDomainError(shared.CodePriceIntegrity, "Submitted price is outside the allowed range")
	case ClassificationAccepted:
		if computed.Resolved {
			price = computed.Amount
		}
	case ClassificationRequiresOverride:
		override, err = s.guard.Authorize(actor, req.Price, computed.Amount, req.OverrideReason)
		if err != nil {
			return nil, err
		}
	}

	g, err := guide.NewGuide(req.ServiceType, req.PaymentMethod, req.DeclaredValue, price,
		req.OriginCityID, req.DestCityID, actor.ID)
	if err != nil {
		return nil, err
	}
	g.OriginCityName = origin.Name
	g.DestCityName = dest.Name

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.GuideRepo()
		if err := repo.CreateGuide(ctx, g); err != nil {
			return err
		}
		sender.GuideID = g.ID
		if err := repo.CreateParty(ctx, sender); err != nil {
			return err
		}
		receiver.GuideID = g.ID
		if err := repo.CreateParty(ctx, receiver); err != nil {
			return err
		}
		pkg.GuideID = g.ID
		if err := repo.CreatePackage(ctx, pkg); err != nil {
			return err
		}
		entry := guide.NewStatusHistoryEntry(g.ID, guide.StatusCreated, actor.ID)
		if err := repo.AppendHistory(ctx, entry); err != nil {
			return err
		}
		if override != nil {
			override.GuideID = g.ID
			if err := repo.CreateOverride(ctx, override); err != nil {
				return err
			}
		}
		g.History = append(g.History, *entry)
		return nil
	})
	if err != nil {
		s.logger.Error("guide creation transaction rolled back", zap.Error(err))
		if _, ok := err.(*shared.DomainError); ok {
			return nil, err
		}
		return nil, shared.ErrPersistence
	}
	g.Sender = sender
	g.Receiver = receiver
	g.Package = pkg

	s.logger.Info("guide created",
		zap.Int64("guide_id", g.ID),
		zap.String("number", g.Number()),
		zap.String("price", g.Price.String()),
		zap.Bool("overridden", override != nil),
		zap.String("created_by", actor.ID.String()))

	resp := &CreateGuideResponse{Guide: ToGuideResponse(g)}
	doc, err := s.publisher.Publish(ctx, g)
	if err != nil {
		s.logger.Warn("guide committed but document publishing failed",
			zap.Int64("guide_id", g.ID),
			zap.Error(err))
		resp.Warning = "Guide was created but its document could not be published"
		return resp, nil
	}
	resp.Guide.HasDocument = true
	resp.Document = doc
	return resp, nil
}
