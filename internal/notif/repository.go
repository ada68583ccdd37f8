package notif

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"linkup/internal/dbmysql"
)

type Repository interface {
	Create(ctx context.Context, notification *dbmysql.Notification) error
	RecentByUser(ctx context.Context, userID string, limit int) ([]dbmysql.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	ProfilesByIDs(ctx context.Context, ids []string) ([]dbmysql.Profile, error)
	PostsByIDs(ctx context.Context, ids []string) ([]dbmysql.Post, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, notification *dbmysql.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *repository) RecentByUser(ctx context.Context, userID string, limit int) ([]dbmysql.Notification, error) {
	var notifications []dbmysql.Notification
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to get user notifications: %w", err)
	}
	return notifications, nil
}

// MarkAllRead flips every currently-unread row for the user and
// returns how many it touched.
func (r *repository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&dbmysql.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Update("read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *repository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *repository) ProfilesByIDs(ctx context.Context, ids []string) ([]dbmysql.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var profiles []dbmysql.Profile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to load actor profiles: %w", err)
	}
	return profiles, nil
}

func (r *repository) PostsByIDs(ctx context.Context, ids []string) ([]dbmysql.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []dbmysql.Post
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	return posts, nil
}
