package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"linkup/internal/common"
	"linkup/internal/config"
	"linkup/internal/dbmongo"
	"linkup/internal/dbmysql"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Notifier is the slice of the notification service the follow toggle
// needs. Fan-out failures are logged here, never surfaced to the user.
type Notifier interface {
	NotifyFollow(ctx context.Context, actorID, recipientID string) error
}

type Service interface {
	Register(ctx context.Context, username, email, password string) (*dbmysql.Profile, string, error)
	Login(ctx context.Context, username, password string) (*dbmysql.Profile, string, error)
	ByUsername(ctx context.Context, username string) (*dbmysql.Profile, error)
	UpdateProfile(ctx context.Context, userID, displayName, bio string) error
	UploadAvatar(ctx context.Context, userID, ext, mimeType string, content io.Reader) (string, error)
	ToggleFollow(ctx context.Context, followerID, followeeID string) (bool, error)
	Followers(ctx context.Context, userID string) ([]common.ProfileSummary, error)
	Following(ctx context.Context, userID string) ([]common.ProfileSummary, error)
}

type service struct {
	repo     Repository
	media    *dbmongo.MediaStorage
	notifier Notifier
	tokens   *common.TokenManager
	mediaURL string
}

func NewService(cfg *config.Config, repo Repository, media *dbmongo.MediaStorage, notifier Notifier, tokens *common.TokenManager) Service {
	return &service{
		repo:     repo,
		media:    media,
		notifier: notifier,
		tokens:   tokens,
		mediaURL: cfg.Media.BaseURL,
	}
}

func (s *service) Register(ctx context.Context, username, email, password string) (*dbmysql.Profile, string, error) {
	if err := common.ValidateUsername(username); err != nil {
		return nil, "", err
	}
	if err := common.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := common.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	exists, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrUsernameTaken
	}

	hashed, err := common.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	profile := &dbmysql.Profile{
		ID:           uuid.NewString(),
		Username:     username,
		DisplayName:  username,
		Email:        email,
		PasswordHash: hashed,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(profile.ID, profile.Username)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*dbmysql.Profile, string, error) {
	profile, err := s.repo.ByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if !common.CheckPassword(profile.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(profile.ID, profile.Username)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

func (s *service) ByUsername(ctx context.Context, username string) (*dbmysql.Profile, error) {
	return s.repo.ByUsername(ctx, username)
}

func (s *service) UpdateProfile(ctx context.Context, userID, displayName, bio string) error {
	profile, err := s.repo.ByID(ctx, userID)
	if err != nil {
		return err
	}
	profile.DisplayName = displayName
	profile.Bio = bio
	return s.repo.Update(ctx, profile)
}

// UploadAvatar stores the blob under avatars/<user>/<ts>.<ext> and
// points the profile at its public URL.
func (s *service) UploadAvatar(ctx context.Context, userID, ext, mimeType string, content io.Reader) (string, error) {
	profile, err := s.repo.ByID(ctx, userID)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("avatars/%s/%d.%s", userID, time.Now().UnixNano(), ext)
	file, err := s.media.UploadFile(ctx, filename, mimeType, userID, content)
	if err != nil {
		return "", err
	}

	url := s.mediaURL + file.ID
	profile.AvatarURL = &url
	if err := s.repo.Update(ctx, profile); err != nil {
		return "", err
	}
	return url, nil
}

// ToggleFollow returns true when the caller now follows the target.
func (s *service) ToggleFollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	if followerID == followeeID {
		return false, errors.New("cannot follow yourself")
	}

	existing, err := s.repo.FollowPair(ctx, followerID, followeeID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if err := s.repo.DeleteFollow(ctx, existing.ID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.repo.CreateFollow(ctx, &dbmysql.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
	}); err != nil {
		return false, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyFollow(ctx, followerID, followeeID); err != nil {
			log.Printf("follow notification failed: %v", err)
		}
	}
	return true, nil
}

func (s *service) Followers(ctx context.Context, userID string) ([]common.ProfileSummary, error) {
	profiles, err := s.repo.Followers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summaries(profiles), nil
}

func (s *service) Following(ctx context.Context, userID string) ([]common.ProfileSummary, error) {
	profiles, err := s.repo.Following(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summaries(profiles), nil
}

func summaries(profiles []dbmysql.Profile) []common.ProfileSummary {
	out := make([]common.ProfileSummary, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, common.ProfileSummary{
			ID:          p.ID,
			Username:    p.Username,
			DisplayName: p.DisplayName,
			AvatarURL:   p.AvatarURL,
		})
	}
	return out
}
