package persistence

import (
	"context"

	"github.com/taskflow/backend/internal/application/transaction"
	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/invitation"
	"github.com/taskflow/backend/internal/domain/task"
	"github.com/taskflow/backend/internal/domain/team"
	"gorm.io/gorm"
)

// GormTransactionScope implements transaction.Scope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos transaction.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Users() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

func (r *gormTransactionalRepositories) Teams() team.Repository {
	return NewGormTeamRepository(r.tx)
}

func (r *gormTransactionalRepositories) Memberships() team.MembershipRepository {
	return NewGormMembershipRepository(r.tx)
}

func (r *gormTransactionalRepositories) Tasks() task.Repository {
	return NewGormTaskRepository(r.tx)
}

func (r *gormTransactionalRepositories) Invitations() invitation.Repository {
	return NewGormInvitationRepository(r.tx)
}

var (
	_ transaction.Scope        = (*GormTransactionScope)(nil)
	_ transaction.Repositories = (*gormTransactionalRepositories)(nil)
)
