// Package transaction declares the unit-of-work boundary used by services
// whose use cases span several aggregates.
package transaction

import (
	"context"

	"github.com/taskflow/backend/internal/domain/identity"
	"github.com/taskflow/backend/internal/domain/invitation"
	"github.com/taskflow/backend/internal/domain/task"
	"github.com/taskflow/backend/internal/domain/team"
)

// Scope runs work atomically.
type Scope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories provides access to all repositories within a transaction.
// All repositories returned share the same underlying database transaction.
type Repositories interface {
	Users() identity.UserRepository
	Teams() team.Repository
	Memberships() team.MembershipRepository
	Tasks() task.Repository
	Invitations() invitation.Repository
}
