package story

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"linkup/internal/config"
	"linkup/internal/dbmysql"
)

type MockStoryRepository struct {
	mock.Mock
}

func (m *MockStoryRepository) Create(ctx context.Context, story *dbmysql.Story) error {
	args := m.Called(ctx, story)
	return args.Error(0)
}

func (m *MockStoryRepository) ActiveByAuthors(ctx context.Context, authorIDs []string, now time.Time) ([]dbmysql.Story, error) {
	args := m.Called(ctx, authorIDs, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dbmysql.Story), args.Error(1)
}

func (m *MockStoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockFolloweeSource struct {
	mock.Mock
}

func (m *MockFolloweeSource) FolloweeIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func TestActiveStories_IncludesSelfAndFollowees(t *testing.T) {
	repo := &MockStoryRepository{}
	followees := &MockFolloweeSource{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := NewService(ctx, &config.Config{}, repo, nil, followees)

	followees.On("FolloweeIDs", mock.Anything, "viewer").Return([]string{"friend-a", "friend-b"}, nil)
	repo.On("ActiveByAuthors", mock.Anything, []string{"friend-a", "friend-b", "viewer"}, mock.AnythingOfType("time.Time")).
		Return([]dbmysql.Story{
			{ID: "s-1", AuthorID: "friend-a"},
			{ID: "s-2", AuthorID: "viewer"},
		}, nil)

	stories, err := svc.ActiveStories(context.Background(), "viewer")

	require.NoError(t, err)
	assert.Len(t, stories, 2)
	repo.AssertExpectations(t)
}

func TestActiveStories_NoFollowees(t *testing.T) {
	repo := &MockStoryRepository{}
	followees := &MockFolloweeSource{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := NewService(ctx, &config.Config{}, repo, nil, followees)

	followees.On("FolloweeIDs", mock.Anything, "loner").Return([]string{}, nil)
	repo.On("ActiveByAuthors", mock.Anything, []string{"loner"}, mock.AnythingOfType("time.Time")).
		Return([]dbmysql.Story{}, nil)

	stories, err := svc.ActiveStories(context.Background(), "loner")

	require.NoError(t, err)
	assert.Empty(t, stories)
}
