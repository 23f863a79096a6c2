package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/invitation"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvitationRepository implements invitation.Repository using GORM
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewGormInvitationRepository creates a new GormInvitationRepository
func NewGormInvitationRepository(db *gorm.DB) *GormInvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Create creates a new invitation
func (r *GormInvitationRepository) Create(ctx context.Context, inv *invitation.Invitation) error {
	if err := r.db.WithContext(ctx).Create(models.InvitationModelFromDomain(inv)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewConflictError("Invitation token collision, please retry")
		}
		return err
	}
	return nil
}

// FindByID finds an invitation by ID
func (r *GormInvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*invitation.Invitation, error) {
	var model models.InvitationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByToken finds an invitation by its token
func (r *GormInvitationRepository) FindByToken(ctx context.Context, token string) (*invitation.Invitation, error) {
	if token == "" {
		return nil, shared.ErrNotFound
	}
	var model models.InvitationModel
	if err := r.db.WithContext(ctx).First(&model, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPending lists unexpired invitations of the given teams, newest first
func (r *GormInvitationRepository) FindPending(ctx context.Context, teamIDs []uuid.UUID, now time.Time) ([]*invitation.Invitation, error) {
	if len(teamIDs) == 0 {
		return []*invitation.Invitation{}, nil
	}
	var rows []models.InvitationModel
	if err := r.db.WithContext(ctx).
		Where("team_id IN ? AND expires_at > ? AND accepted = ?", teamIDs, now, false).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	invitations := make([]*invitation.Invitation, len(rows))
	for i := range rows {
		invitations[i] = rows[i].ToDomain()
	}
	return invitations, nil
}

// Delete deletes an invitation by ID
func (r *GormInvitationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InvitationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteExpired removes invitations that expired before now
func (r *GormInvitationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.InvitationModel{})
	return result.RowsAffected, result.Error
}

// Ensure GormInvitationRepository implements invitation.Repository
var _ invitation.Repository = (*GormInvitationRepository)(nil)
