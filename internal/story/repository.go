package story

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"linkup/internal/dbmysql"
)

type Repository interface {
	Create(ctx context.Context, story *dbmysql.Story) error
	ActiveByAuthors(ctx context.Context, authorIDs []string, now time.Time) ([]dbmysql.Story, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, story *dbmysql.Story) error {
	if err := r.db.WithContext(ctx).Create(story).Error; err != nil {
		return fmt.Errorf("failed to create story: %w", err)
	}
	return nil
}

func (r *repository) ActiveByAuthors(ctx context.Context, authorIDs []string, now time.Time) ([]dbmysql.Story, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var stories []dbmysql.Story
	err := r.db.WithContext(ctx).
		Where("author_id IN ? AND expires_at > ?", authorIDs, now).
		Order("created_at DESC").
		Find(&stories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return stories, nil
}

func (r *repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&dbmysql.Story{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired stories: %w", result.Error)
	}
	return result.RowsAffected, nil
}
