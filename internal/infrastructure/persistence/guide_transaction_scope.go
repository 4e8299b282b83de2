package persistence

import (
	"context"

	guideapp "github.com/shipguide/backend/internal/application/guide"
	"github.com/shipguide/backend/internal/domain/guide"
	"gorm.io/gorm"
)

// GormTransactionScope implements the guide creation TransactionScope using
// GORM transactions. All repository calls made through it commit or roll back
// as one unit.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction. If the
// function returns an error the transaction is rolled back, otherwise it is
// committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos guideapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories exposes repositories scoped to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// GuideRepo returns the guide repository scoped to the current transaction
func (r *gormTransactionalRepositories) GuideRepo() guide.Repository {
	return NewGormGuideRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ guideapp.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ guideapp.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
