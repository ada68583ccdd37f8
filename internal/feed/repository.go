package feed

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"linkup/internal/dbmysql"
)

var ErrNotFound = errors.New("post not found")

type Repository interface {
	CreatePost(ctx context.Context, post *dbmysql.Post) error
	PostByID(ctx context.Context, id string) (*dbmysql.Post, error)
	DeletePost(ctx context.Context, id string) error
	TimelinePosts(ctx context.Context, authorIDs []string, limit int) ([]dbmysql.Post, error)

	LikePair(ctx context.Context, postID, userID string) (*dbmysql.Like, error)
	CreateLike(ctx context.Context, like *dbmysql.Like) error
	DeleteLike(ctx context.Context, id int64) error
	LikeCount(ctx context.Context, postID string) (int64, error)
	LikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)

	CreateComment(ctx context.Context, comment *dbmysql.Comment) error
	CommentByID(ctx context.Context, id string) (*dbmysql.Comment, error)
	CommentsByPost(ctx context.Context, postID string) ([]dbmysql.Comment, error)
	CommentCounts(ctx context.Context, postIDs []string) (map[string]int64, error)

	FolloweeIDs(ctx context.Context, userID string) ([]string, error)
	ProfilesByIDs(ctx context.Context, ids []string) ([]dbmysql.Profile, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePost(ctx context.Context, post *dbmysql.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *repository) PostByID(ctx context.Context, id string) (*dbmysql.Post, error) {
	var post dbmysql.Post
	err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	return &post, nil
}

func (r *repository) DeletePost(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&dbmysql.Post{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func (r *repository) TimelinePosts(ctx context.Context, authorIDs []string, limit int) ([]dbmysql.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var posts []dbmysql.Post
	query := r.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to load timeline: %w", err)
	}
	return posts, nil
}

// LikePair returns nil with no error when the user has not liked the
// post.
func (r *repository) LikePair(ctx context.Context, postID, userID string) (*dbmysql.Like, error) {
	var like dbmysql.Like
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load like: %w", err)
	}
	return &like, nil
}

func (r *repository) CreateLike(ctx context.Context, like *dbmysql.Like) error {
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

func (r *repository) DeleteLike(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&dbmysql.Like{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}

func (r *repository) LikeCount(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

func (r *repository) LikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool)
	if len(postIDs) == 0 {
		return liked, nil
	}
	var likes []dbmysql.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Find(&likes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}
	for _, l := range likes {
		liked[l.PostID] = true
	}
	return liked, nil
}

func (r *repository) CreateComment(ctx context.Context, comment *dbmysql.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *repository) CommentByID(ctx context.Context, id string) (*dbmysql.Comment, error) {
	var comment dbmysql.Comment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}
	return &comment, nil
}

func (r *repository) CommentsByPost(ctx context.Context, postID string) ([]dbmysql.Comment, error) {
	var comments []dbmysql.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (r *repository) CommentCounts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64)
	if len(postIDs) == 0 {
		return counts, nil
	}

	type row struct {
		PostID string
		N      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Comment{}).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	for _, r := range rows {
		counts[r.PostID] = r.N
	}
	return counts, nil
}

func (r *repository) FolloweeIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load followees: %w", err)
	}
	return ids, nil
}

func (r *repository) ProfilesByIDs(ctx context.Context, ids []string) ([]dbmysql.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var profiles []dbmysql.Profile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	return profiles, nil
}
