package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/taskflow/backend/internal/domain/shared"
	"github.com/taskflow/backend/internal/domain/team"
	"github.com/taskflow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTeamRepository implements team.Repository using GORM
type GormTeamRepository struct {
	db *gorm.DB
}

// NewGormTeamRepository creates a new GormTeamRepository
func NewGormTeamRepository(db *gorm.DB) *GormTeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a new team
func (r *GormTeamRepository) Create(ctx context.Context, t *team.Team) error {
	return r.db.WithContext(ctx).Create(models.TeamModelFromDomain(t)).Error
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	var model models.TeamModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByMember returns the teams userID belongs to, oldest membership first
func (r *GormTeamRepository) FindByMember(ctx context.Context, userID uuid.UUID) ([]*team.Team, error) {
	var teamModels []models.TeamModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Order("team_members.created_at ASC").
		Find(&teamModels).Error; err != nil {
		return nil, err
	}
	teams := make([]*team.Team, len(teamModels))
	for i := range teamModels {
		teams[i] = teamModels[i].ToDomain()
	}
	return teams, nil
}

// Delete removes the team with its memberships and invitations.
// It runs in its own transaction unless called inside one.
func (r *GormTeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.InvitationModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", id).Delete(&models.MembershipModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.TeamModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormTeamRepository implements team.Repository
var _ team.Repository = (*GormTeamRepository)(nil)
