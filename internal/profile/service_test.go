package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"linkup/internal/common"
	"linkup/internal/config"
	"linkup/internal/dbmysql"
)

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *dbmysql.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) ByID(ctx context.Context, id string) (*dbmysql.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmysql.Profile), args.Error(1)
}

func (m *MockProfileRepository) ByUsername(ctx context.Context, username string) (*dbmysql.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmysql.Profile), args.Error(1)
}

func (m *MockProfileRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *dbmysql.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) FollowPair(ctx context.Context, followerID, followeeID string) (*dbmysql.Follow, error) {
	args := m.Called(ctx, followerID, followeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmysql.Follow), args.Error(1)
}

func (m *MockProfileRepository) CreateFollow(ctx context.Context, follow *dbmysql.Follow) error {
	args := m.Called(ctx, follow)
	return args.Error(0)
}

func (m *MockProfileRepository) DeleteFollow(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProfileRepository) Followers(ctx context.Context, userID string) ([]dbmysql.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dbmysql.Profile), args.Error(1)
}

func (m *MockProfileRepository) Following(ctx context.Context, userID string) ([]dbmysql.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dbmysql.Profile), args.Error(1)
}

type MockFollowNotifier struct {
	mock.Mock
}

func (m *MockFollowNotifier) NotifyFollow(ctx context.Context, actorID, recipientID string) error {
	args := m.Called(ctx, actorID, recipientID)
	return args.Error(0)
}

func newProfileService(repo Repository, notifier Notifier) Service {
	cfg := &config.Config{}
	cfg.Media.BaseURL = "http://localhost:8081/media/"
	tokens := common.NewTokenManager("test-secret", 1)
	return NewService(cfg, repo, nil, notifier, tokens)
}

func TestRegister_HashesPasswordAndIssuesToken(t *testing.T) {
	repo := &MockProfileRepository{}
	svc := newProfileService(repo, nil)

	var created *dbmysql.Profile
	repo.On("UsernameExists", mock.Anything, "alice").Return(false, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *dbmysql.Profile) bool {
		created = p
		return p.Username == "alice" && p.ID != ""
	})).Return(nil)

	profile, token, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cretpw")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "s3cretpw", created.PasswordHash)
	assert.True(t, common.CheckPassword(created.PasswordHash, "s3cretpw"))

	claims, err := common.NewTokenManager("test-secret", 1).Validate(token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestRegister_UsernameTaken(t *testing.T) {
	repo := &MockProfileRepository{}
	svc := newProfileService(repo, nil)

	repo.On("UsernameExists", mock.Anything, "alice").Return(true, nil)

	_, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cretpw")

	assert.ErrorIs(t, err, ErrUsernameTaken)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_RejectsBadInput(t *testing.T) {
	repo := &MockProfileRepository{}
	svc := newProfileService(repo, nil)

	_, _, err := svc.Register(context.Background(), "a", "alice@example.com", "s3cretpw")
	assert.Error(t, err)

	_, _, err = svc.Register(context.Background(), "alice", "not-an-email", "s3cretpw")
	assert.Error(t, err)

	_, _, err = svc.Register(context.Background(), "alice", "alice@example.com", "short")
	assert.Error(t, err)

	repo.AssertNotCalled(t, "UsernameExists", mock.Anything, mock.Anything)
}

func TestLogin_GoodAndBadPassword(t *testing.T) {
	repo := &MockProfileRepository{}
	svc := newProfileService(repo, nil)

	hashed, err := common.HashPassword("s3cretpw")
	require.NoError(t, err)
	repo.On("ByUsername", mock.Anything, "alice").Return(&dbmysql.Profile{
		ID: "user-1", Username: "alice", PasswordHash: hashed,
	}, nil)

	_, token, err := svc.Login(context.Background(), "alice", "s3cretpw")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	repo := &MockProfileRepository{}
	svc := newProfileService(repo, nil)

	repo.On("ByUsername", mock.Anything, "ghost").Return(nil, ErrNotFound)

	_, _, err := svc.Login(context.Background(), "ghost", "whatever")

	// the response never says whether the username or password was wrong
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestToggleFollow_FollowNotifies(t *testing.T) {
	repo := &MockProfileRepository{}
	notifier := &MockFollowNotifier{}
	svc := newProfileService(repo, notifier)

	repo.On("FollowPair", mock.Anything, "follower", "followee").Return(nil, nil)
	repo.On("CreateFollow", mock.Anything, mock.MatchedBy(func(f *dbmysql.Follow) bool {
		return f.FollowerID == "follower" && f.FolloweeID == "followee"
	})).Return(nil)
	notifier.On("NotifyFollow", mock.Anything, "follower", "followee").Return(nil)

	following, err := svc.ToggleFollow(context.Background(), "follower", "followee")

	require.NoError(t, err)
	assert.True(t, following)
	notifier.AssertExpectations(t)
}

func TestToggleFollow_UnfollowSilently(t *testing.T) {
	repo := &MockProfileRepository{}
	notifier := &MockFollowNotifier{}
	svc := newProfileService(repo, notifier)

	repo.On("FollowPair", mock.Anything, "follower", "followee").Return(&dbmysql.Follow{ID: 4}, nil)
	repo.On("DeleteFollow", mock.Anything, int64(4)).Return(nil)

	following, err := svc.ToggleFollow(context.Background(), "follower", "followee")

	require.NoError(t, err)
	assert.False(t, following)
	notifier.AssertNotCalled(t, "NotifyFollow", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleFollow_SelfFollowRejected(t *testing.T) {
	repo := &MockProfileRepository{}
	svc := newProfileService(repo, nil)

	_, err := svc.ToggleFollow(context.Background(), "user-1", "user-1")

	assert.Error(t, err)
	repo.AssertNotCalled(t, "FollowPair", mock.Anything, mock.Anything, mock.Anything)
}

func TestFollowers_Summaries(t *testing.T) {
	repo := &MockProfileRepository{}
	svc := newProfileService(repo, nil)

	repo.On("Followers", mock.Anything, "user-1").Return([]dbmysql.Profile{
		{ID: "a", Username: "alice", DisplayName: "Alice"},
		{ID: "b", Username: "bob", DisplayName: "Bob"},
	}, nil)

	followers, err := svc.Followers(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, "alice", followers[0].Username)
}
