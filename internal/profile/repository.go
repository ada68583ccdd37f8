package profile

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"linkup/internal/dbmysql"
)

var ErrNotFound = errors.New("profile not found")

type Repository interface {
	Create(ctx context.Context, profile *dbmysql.Profile) error
	ByID(ctx context.Context, id string) (*dbmysql.Profile, error)
	ByUsername(ctx context.Context, username string) (*dbmysql.Profile, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, profile *dbmysql.Profile) error

	FollowPair(ctx context.Context, followerID, followeeID string) (*dbmysql.Follow, error)
	CreateFollow(ctx context.Context, follow *dbmysql.Follow) error
	DeleteFollow(ctx context.Context, id int64) error
	Followers(ctx context.Context, userID string) ([]dbmysql.Profile, error)
	Following(ctx context.Context, userID string) ([]dbmysql.Profile, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, profile *dbmysql.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *repository) ByID(ctx context.Context, id string) (*dbmysql.Profile, error) {
	var profile dbmysql.Profile
	err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

func (r *repository) ByUsername(ctx context.Context, username string) (*dbmysql.Profile, error) {
	var profile dbmysql.Profile
	err := r.db.WithContext(ctx).First(&profile, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

func (r *repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Profile{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

func (r *repository) Update(ctx context.Context, profile *dbmysql.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// FollowPair returns nil with no error when the relation is absent.
func (r *repository) FollowPair(ctx context.Context, followerID, followeeID string) (*dbmysql.Follow, error) {
	var follow dbmysql.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		First(&follow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load follow: %w", err)
	}
	return &follow, nil
}

func (r *repository) CreateFollow(ctx context.Context, follow *dbmysql.Follow) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}
	return nil
}

func (r *repository) DeleteFollow(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&dbmysql.Follow{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	return nil
}

func (r *repository) Followers(ctx context.Context, userID string) ([]dbmysql.Profile, error) {
	var profiles []dbmysql.Profile
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = profiles.id").
		Where("follows.followee_id = ?", userID).
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return profiles, nil
}

func (r *repository) Following(ctx context.Context, userID string) ([]dbmysql.Profile, error) {
	var profiles []dbmysql.Profile
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.followee_id = profiles.id").
		Where("follows.follower_id = ?", userID).
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return profiles, nil
}
