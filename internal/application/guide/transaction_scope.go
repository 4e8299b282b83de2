package guide

import (
	"context"

	"github.com/shipguide/backend/internal/domain/guide"
)

// TransactionScope provides transactional access to the guide repository.
// All repository operations performed inside Execute share one database
// transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the guide repository bound to
// the current transaction
type TransactionalRepositories interface {
	// GuideRepo returns the guide repository scoped to the current transaction
	GuideRepo() guide.Repository
}

// NoOpTransactionScope runs the function against a fixed repository without a
// real transaction. Used in tests.
type NoOpTransactionScope struct {
	guideRepo guide.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repository
func NewNoOpTransactionScope(guideRepo guide.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{guideRepo: guideRepo}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// GuideRepo returns the guide repository
func (s *NoOpTransactionScope) GuideRepo() guide.Repository {
	return s.guideRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
