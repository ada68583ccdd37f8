package reaction

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"linkup/internal/dbmysql"
)

// Repository is the store surface the toggle needs. ProfilesByIDs is
// here so the read path can batch the reactor lookup in one query.
type Repository interface {
	BySubjectAndUser(ctx context.Context, subjectType, subjectID, userID string) (*dbmysql.Reaction, error)
	Create(ctx context.Context, reaction *dbmysql.Reaction) error
	Delete(ctx context.Context, id int64) error
	ListBySubject(ctx context.Context, subjectType, subjectID string) ([]dbmysql.Reaction, error)
	ProfilesByIDs(ctx context.Context, ids []string) ([]dbmysql.Profile, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// BySubjectAndUser returns nil with no error when the user has no
// reaction on the subject.
func (r *repository) BySubjectAndUser(ctx context.Context, subjectType, subjectID, userID string) (*dbmysql.Reaction, error) {
	var reaction dbmysql.Reaction
	err := r.db.WithContext(ctx).
		Where("subject_type = ? AND subject_id = ? AND user_id = ?", subjectType, subjectID, userID).
		First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load reaction: %w", err)
	}
	return &reaction, nil
}

func (r *repository) Create(ctx context.Context, reaction *dbmysql.Reaction) error {
	if err := r.db.WithContext(ctx).Create(reaction).Error; err != nil {
		return fmt.Errorf("failed to create reaction: %w", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&dbmysql.Reaction{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete reaction: %w", err)
	}
	return nil
}

func (r *repository) ListBySubject(ctx context.Context, subjectType, subjectID string) ([]dbmysql.Reaction, error) {
	var reactions []dbmysql.Reaction
	err := r.db.WithContext(ctx).
		Where("subject_type = ? AND subject_id = ?", subjectType, subjectID).
		Order("created_at ASC").
		Find(&reactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reactions: %w", err)
	}
	return reactions, nil
}

func (r *repository) ProfilesByIDs(ctx context.Context, ids []string) ([]dbmysql.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var profiles []dbmysql.Profile
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reactor profiles: %w", err)
	}
	return profiles, nil
}
