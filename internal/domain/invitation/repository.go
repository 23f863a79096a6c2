package invitation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists invitations
type Repository interface {
	Create(ctx context.Context, inv *Invitation) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invitation, error)
	FindByToken(ctx context.Context, token string) (*Invitation, error)
	// FindPending lists invitations of the given teams that expire after now, newest first
	FindPending(ctx context.Context, teamIDs []uuid.UUID, now time.Time) ([]*Invitation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes invitations that expired before now and returns how many
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
