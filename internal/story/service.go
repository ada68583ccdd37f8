package story

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"linkup/internal/config"
	"linkup/internal/dbmongo"
	"linkup/internal/dbmysql"
)

const (
	storyTTL        = 24 * time.Hour
	cleanerInterval = 10 * time.Minute
)

// FolloweeSource answers "whose stories should this user see"; the
// feed repository already knows.
type FolloweeSource interface {
	FolloweeIDs(ctx context.Context, userID string) ([]string, error)
}

type Upload struct {
	Ext      string
	MimeType string
	Content  io.Reader
}

type Service interface {
	PostStory(ctx context.Context, authorID string, media Upload) (*dbmysql.Story, error)
	ActiveStories(ctx context.Context, userID string) ([]dbmysql.Story, error)
}

type service struct {
	repo      Repository
	media     *dbmongo.MediaStorage
	followees FolloweeSource
	mediaURL  string
}

// NewService also starts the background reaper that deletes expired
// rows; it stops when ctx is cancelled.
func NewService(ctx context.Context, cfg *config.Config, repo Repository, media *dbmongo.MediaStorage, followees FolloweeSource) Service {
	s := &service{
		repo:      repo,
		media:     media,
		followees: followees,
		mediaURL:  cfg.Media.BaseURL,
	}
	go s.runCleaner(ctx)
	return s
}

func (s *service) PostStory(ctx context.Context, authorID string, media Upload) (*dbmysql.Story, error) {
	filename := fmt.Sprintf("stories/%s/%d.%s", authorID, time.Now().UnixNano(), media.Ext)
	file, err := s.media.UploadFile(ctx, filename, media.MimeType, authorID, media.Content)
	if err != nil {
		return nil, fmt.Errorf("story upload failed: %w", err)
	}

	now := time.Now()
	story := &dbmysql.Story{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		MediaURL:  s.mediaURL + file.ID,
		MediaType: file.FileType.String(),
		CreatedAt: now,
		ExpiresAt: now.Add(storyTTL),
	}
	if err := s.repo.Create(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

// ActiveStories returns unexpired stories from the user and everyone
// they follow, newest first.
func (s *service) ActiveStories(ctx context.Context, userID string) ([]dbmysql.Story, error) {
	authorIDs, err := s.followees.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	authorIDs = append(authorIDs, userID)
	return s.repo.ActiveByAuthors(ctx, authorIDs, time.Now())
}

func (s *service) runCleaner(ctx context.Context) {
	ticker := time.NewTicker(cleanerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deleted, err := s.repo.DeleteExpired(ctx, time.Now())
			if err != nil {
				log.Printf("story cleanup failed: %v", err)
				continue
			}
			if deleted > 0 {
				log.Printf("reaped %d expired stories", deleted)
			}
		case <-ctx.Done():
			return
		}
	}
}
