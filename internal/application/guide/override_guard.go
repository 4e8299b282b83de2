package guide

import (
	"strings"
	"time"

	"github.com/shipguide/backend/internal/domain/guide"
	"github.com/shipguide/backend/internal/domain/identity"
	"github.com/shipguide/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OverrideGuard validates intentional price deviations. It fails closed:
// every check must pass before an override value is produced, and the checks
// run in a fixed order so an unauthorized caller learns nothing about bounds.
type OverrideGuard struct {
	logger *zap.Logger
}

// NewOverrideGuard creates an override guard
func NewOverrideGuard(logger *zap.Logger) *OverrideGuard {
	return &OverrideGuard{logger: logger}
}

// Authorize validates that the actor may persist the submitted price instead
// of the computed one. The bounds already checked by classification are
// re-validated here; the guard does not trust its caller to have classified
// first. Success yields an in-memory override record to be persisted inside
// the creation transaction.
func (g *OverrideGuard) Authorize(
	actor identity.Actor,
	submitted, computed decimal.Decimal,
	reason string,
) (*guide.PriceOverride, error) {
	if !actor.Role.CanOverridePrice() {
		g.logger.Warn("price override attempt without authorization",
			zap.String("actor_id", actor.ID.String()),
			zap.String("role", string(actor.Role)),
			zap.String("submitted", submitted.String()),
			zap.String("computed", computed.String()))
		return nil, shared.NewDomainError(shared.CodeAuthorization, "Only administrators may override the computed price")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewDomainError(shared.CodePriceIntegrity, "Price override requires a justification")
	}
	if submitted.IsNegative() {
		return nil, shared.NewDomainError(shared.CodePriceIntegrity, "Price cannot be negative")
	}
	if submitted.IsZero() && computed.IsPositive() {
		return nil, shared.NewDomainError(shared.CodePriceIntegrity, "Price cannot be zero when a rate applies")
	}
	if submitted.LessThan(computed.Mul(discountFloor)) {
		return nil, shared.NewDomainError(shared.CodePriceIntegrity, "Price is below the allowed discount floor")
	}

	return &guide.PriceOverride{
		OriginalPrice: computed,
		NewPrice:      submitted,
		Reason:        strings.TrimSpace(reason),
		OverriddenBy:  actor.ID,
		CreatedAt:     time.Now(),
	}, nil
}
