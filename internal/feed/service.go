package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"linkup/internal/cache"
	"linkup/internal/common"
	"linkup/internal/config"
	"linkup/internal/dbmongo"
	"linkup/internal/dbmysql"
)

var ErrForbidden = errors.New("not the author")

const timelineLimit = 100

// Notifier is the slice of the notification service the feed needs.
type Notifier interface {
	NotifyLike(ctx context.Context, actorID, recipientID, postID string) error
	NotifyComment(ctx context.Context, actorID, recipientID, postID, commentID string) error
}

// Upload carries an incoming media file.
type Upload struct {
	Ext      string
	MimeType string
	Content  io.Reader
}

// PostView is a post enriched with the derived counts the page needs.
type PostView struct {
	dbmysql.Post
	Author        common.ProfileSummary `json:"author"`
	LikesCount    int64                 `json:"likes_count"`
	CommentsCount int64                 `json:"comments_count"`
	IsLiked       bool                  `json:"is_liked"`
}

type CommentView struct {
	dbmysql.Comment
	Author common.ProfileSummary `json:"author"`
}

type Service interface {
	CreatePost(ctx context.Context, authorID, content string, image *Upload) (*dbmysql.Post, error)
	GetPost(ctx context.Context, viewerID, postID string) (*PostView, error)
	DeletePost(ctx context.Context, userID, postID string) error
	Timeline(ctx context.Context, userID string) ([]PostView, error)
	ToggleLike(ctx context.Context, userID, postID string) (bool, error)
	AddComment(ctx context.Context, userID, postID, content string) (*dbmysql.Comment, error)
	Comments(ctx context.Context, postID string) ([]CommentView, error)
}

type service struct {
	repo     Repository
	media    *dbmongo.MediaStorage
	likes    *cache.LikeCache
	notifier Notifier
	mediaURL string
}

func NewService(cfg *config.Config, repo Repository, media *dbmongo.MediaStorage, likes *cache.LikeCache, notifier Notifier) Service {
	return &service{
		repo:     repo,
		media:    media,
		likes:    likes,
		notifier: notifier,
		mediaURL: cfg.Media.BaseURL,
	}
}

func (s *service) CreatePost(ctx context.Context, authorID, content string, image *Upload) (*dbmysql.Post, error) {
	post := &dbmysql.Post{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		Content:  content,
	}

	if image != nil {
		filename := fmt.Sprintf("posts/%s/%d.%s", authorID, time.Now().UnixNano(), image.Ext)
		file, err := s.media.UploadFile(ctx, filename, image.MimeType, authorID, image.Content)
		if err != nil {
			return nil, fmt.Errorf("image upload failed: %w", err)
		}
		url := s.mediaURL + file.ID
		post.ImageURL = &url
	}

	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *service) GetPost(ctx context.Context, viewerID, postID string) (*PostView, error) {
	post, err := s.repo.PostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	views, err := s.enrich(ctx, viewerID, []dbmysql.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *service) DeletePost(ctx context.Context, userID, postID string) error {
	post, err := s.repo.PostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return ErrForbidden
	}
	if err := s.repo.DeletePost(ctx, postID); err != nil {
		return err
	}
	if s.likes != nil {
		if err := s.likes.Delete(ctx, postID); err != nil {
			log.Printf("like cache cleanup failed: %v", err)
		}
	}
	return nil
}

// Timeline returns the newest posts from the user and everyone they
// follow, enriched with likes_count, comments_count and is_liked.
func (s *service) Timeline(ctx context.Context, userID string) ([]PostView, error) {
	authorIDs, err := s.repo.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	authorIDs = append(authorIDs, userID)

	posts, err := s.repo.TimelinePosts(ctx, authorIDs, timelineLimit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, userID, posts)
}

// ToggleLike returns true when the post is now liked by the user. The
// like fans out a notification to the post owner, best-effort.
func (s *service) ToggleLike(ctx context.Context, userID, postID string) (bool, error) {
	post, err := s.repo.PostByID(ctx, postID)
	if err != nil {
		return false, err
	}

	existing, err := s.repo.LikePair(ctx, postID, userID)
	if err != nil {
		return false, err
	}

	if existing != nil {
		if err := s.repo.DeleteLike(ctx, existing.ID); err != nil {
			return false, err
		}
		if s.likes != nil {
			if err := s.likes.Decr(ctx, postID); err != nil {
				log.Printf("like cache decr failed: %v", err)
			}
		}
		return false, nil
	}

	if err := s.repo.CreateLike(ctx, &dbmysql.Like{PostID: postID, UserID: userID}); err != nil {
		return false, err
	}
	if s.likes != nil {
		if err := s.likes.Incr(ctx, postID); err != nil {
			log.Printf("like cache incr failed: %v", err)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyLike(ctx, userID, post.AuthorID, postID); err != nil {
			log.Printf("like notification failed: %v", err)
		}
	}
	return true, nil
}

func (s *service) AddComment(ctx context.Context, userID, postID, content string) (*dbmysql.Comment, error) {
	post, err := s.repo.PostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &dbmysql.Comment{
		ID:       uuid.NewString(),
		PostID:   postID,
		AuthorID: userID,
		Content:  content,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyComment(ctx, userID, post.AuthorID, postID, comment.ID); err != nil {
			log.Printf("comment notification failed: %v", err)
		}
	}
	return comment, nil
}

func (s *service) Comments(ctx context.Context, postID string) ([]CommentView, error) {
	if _, err := s.repo.PostByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.repo.CommentsByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	authors, err := s.authorSummaries(ctx, commentAuthorIDs(comments))
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{Comment: c, Author: authors[c.AuthorID]})
	}
	return views, nil
}

// enrich adds the client-derived fields: author summary, like count
// (cache first, lazy backfill), comment count and is_liked.
func (s *service) enrich(ctx context.Context, viewerID string, posts []dbmysql.Post) ([]PostView, error) {
	if len(posts) == 0 {
		return []PostView{}, nil
	}

	postIDs := make([]string, 0, len(posts))
	authorSeen := make(map[string]bool)
	var authorIDs []string
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		if !authorSeen[p.AuthorID] {
			authorSeen[p.AuthorID] = true
			authorIDs = append(authorIDs, p.AuthorID)
		}
	}

	authors, err := s.authorSummaries(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	commentCounts, err := s.repo.CommentCounts(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	liked, err := s.repo.LikedPostIDs(ctx, viewerID, postIDs)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, PostView{
			Post:          p,
			Author:        authors[p.AuthorID],
			LikesCount:    s.likeCount(ctx, p.ID),
			CommentsCount: commentCounts[p.ID],
			IsLiked:       liked[p.ID],
		})
	}
	return views, nil
}

func (s *service) likeCount(ctx context.Context, postID string) int64 {
	if s.likes != nil {
		count, cached, err := s.likes.Get(ctx, postID)
		if err != nil {
			log.Printf("like cache read failed: %v", err)
		} else if cached {
			return count
		}
	}

	count, err := s.repo.LikeCount(ctx, postID)
	if err != nil {
		log.Printf("like count failed: %v", err)
		return 0
	}
	if s.likes != nil {
		if err := s.likes.Set(ctx, postID, count); err != nil {
			log.Printf("like cache backfill failed: %v", err)
		}
	}
	return count
}

func (s *service) authorSummaries(ctx context.Context, ids []string) (map[string]common.ProfileSummary, error) {
	profiles, err := s.repo.ProfilesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]common.ProfileSummary, len(profiles))
	for _, p := range profiles {
		out[p.ID] = common.ProfileSummary{
			ID:          p.ID,
			Username:    p.Username,
			DisplayName: p.DisplayName,
			AvatarURL:   p.AvatarURL,
		}
	}
	return out, nil
}

func commentAuthorIDs(comments []dbmysql.Comment) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, c := range comments {
		if !seen[c.AuthorID] {
			seen[c.AuthorID] = true
			ids = append(ids, c.AuthorID)
		}
	}
	return ids
}
