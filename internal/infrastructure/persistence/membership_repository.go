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

// GormMembershipRepository implements team.MembershipRepository using GORM
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewGormMembershipRepository creates a new GormMembershipRepository
func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

// Create persists a membership; the (team, user) unique index rejects duplicates
func (r *GormMembershipRepository) Create(ctx context.Context, m *team.Membership) error {
	if err := r.db.WithContext(ctx).Create(models.MembershipModelFromDomain(m)).Error; err != nil {
		if isUniqueViolation(err) {
			return team.ErrAlreadyMember
		}
		return err
	}
	return nil
}

// Find returns the membership of userID in teamID
func (r *GormMembershipRepository) Find(ctx context.Context, teamID, userID uuid.UUID) (*team.Membership, error) {
	var model models.MembershipModel
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser lists every membership of userID, oldest first
func (r *GormMembershipRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*team.Membership, error) {
	var rows []models.MembershipModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	memberships := make([]*team.Membership, len(rows))
	for i := range rows {
		memberships[i] = rows[i].ToDomain()
	}
	return memberships, nil
}

// FindMembers lists the members of teamID with their users, oldest first
func (r *GormMembershipRepository) FindMembers(ctx context.Context, teamID uuid.UUID) ([]team.MemberDetail, error) {
	var rows []models.MembershipModel
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("team_id = ?", teamID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	members := make([]team.MemberDetail, len(rows))
	for i := range rows {
		members[i] = rows[i].ToMemberDetail()
	}
	return members, nil
}

// Exists reports whether userID is a member of teamID
func (r *GormMembershipRepository) Exists(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.MembershipModel{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormMembershipRepository implements team.MembershipRepository
var _ team.MembershipRepository = (*GormMembershipRepository)(nil)
