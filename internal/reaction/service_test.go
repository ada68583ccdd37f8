package reaction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"linkup/internal/common"
	"linkup/internal/dbmysql"
)

type MockReactionRepository struct {
	mock.Mock
}

func (m *MockReactionRepository) BySubjectAndUser(ctx context.Context, subjectType, subjectID, userID string) (*dbmysql.Reaction, error) {
	args := m.Called(ctx, subjectType, subjectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmysql.Reaction), args.Error(1)
}

func (m *MockReactionRepository) Create(ctx context.Context, reaction *dbmysql.Reaction) error {
	args := m.Called(ctx, reaction)
	return args.Error(0)
}

func (m *MockReactionRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReactionRepository) ListBySubject(ctx context.Context, subjectType, subjectID string) ([]dbmysql.Reaction, error) {
	args := m.Called(ctx, subjectType, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dbmysql.Reaction), args.Error(1)
}

func (m *MockReactionRepository) ProfilesByIDs(ctx context.Context, ids []string) ([]dbmysql.Profile, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dbmysql.Profile), args.Error(1)
}

func TestToggle_AddsWhenNoPriorReaction(t *testing.T) {
	repo := &MockReactionRepository{}
	svc := NewService(repo)

	repo.On("BySubjectAndUser", mock.Anything, "post", "post-1", "user-1").Return(nil, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *dbmysql.Reaction) bool {
		return r.SubjectType == "post" && r.SubjectID == "post-1" && r.UserID == "user-1" && r.Emoji == "❤️"
	})).Return(nil)

	added, err := svc.Toggle(context.Background(), common.SubjectPost, "post-1", "user-1", "❤️")

	assert.NoError(t, err)
	assert.True(t, added)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestToggle_RemovesSameEmoji(t *testing.T) {
	repo := &MockReactionRepository{}
	svc := NewService(repo)

	existing := &dbmysql.Reaction{ID: 7, SubjectType: "post", SubjectID: "post-1", UserID: "user-1", Emoji: "❤️"}
	repo.On("BySubjectAndUser", mock.Anything, "post", "post-1", "user-1").Return(existing, nil)
	repo.On("Delete", mock.Anything, int64(7)).Return(nil)

	added, err := svc.Toggle(context.Background(), common.SubjectPost, "post-1", "user-1", "❤️")

	assert.NoError(t, err)
	assert.False(t, added)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestToggle_ReplacesDifferentEmoji(t *testing.T) {
	repo := &MockReactionRepository{}
	svc := NewService(repo)

	existing := &dbmysql.Reaction{ID: 7, SubjectType: "post", SubjectID: "post-1", UserID: "user-1", Emoji: "❤️"}
	repo.On("BySubjectAndUser", mock.Anything, "post", "post-1", "user-1").Return(existing, nil)
	repo.On("Delete", mock.Anything, int64(7)).Return(nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *dbmysql.Reaction) bool {
		return r.Emoji == "😂" && r.UserID == "user-1"
	})).Return(nil)

	added, err := svc.Toggle(context.Background(), common.SubjectPost, "post-1", "user-1", "😂")

	assert.NoError(t, err)
	assert.True(t, added)
	repo.AssertExpectations(t)
}

func TestToggle_RoundTripLeavesNothing(t *testing.T) {
	repo := &MockReactionRepository{}
	svc := NewService(repo)

	// first call: nothing there, insert
	repo.On("BySubjectAndUser", mock.Anything, "comment", "c-1", "user-1").Return(nil, nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	added, err := svc.Toggle(context.Background(), common.SubjectComment, "c-1", "user-1", "👍")
	assert.NoError(t, err)
	assert.True(t, added)

	// second call: the row from the first call comes back, delete it
	repo.On("BySubjectAndUser", mock.Anything, "comment", "c-1", "user-1").
		Return(&dbmysql.Reaction{ID: 3, SubjectType: "comment", SubjectID: "c-1", UserID: "user-1", Emoji: "👍"}, nil).Once()
	repo.On("Delete", mock.Anything, int64(3)).Return(nil).Once()

	added, err = svc.Toggle(context.Background(), common.SubjectComment, "c-1", "user-1", "👍")
	assert.NoError(t, err)
	assert.False(t, added)
	repo.AssertExpectations(t)
}

func TestToggle_InvalidSubjectType(t *testing.T) {
	repo := &MockReactionRepository{}
	svc := NewService(repo)

	_, err := svc.Toggle(context.Background(), common.SubjectType("story"), "s-1", "user-1", "❤️")

	assert.ErrorIs(t, err, ErrInvalidSubject)
	repo.AssertNotCalled(t, "BySubjectAndUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestToggle_StoreErrorPropagates(t *testing.T) {
	repo := &MockReactionRepository{}
	svc := NewService(repo)

	storeErr := errors.New("connection refused")
	repo.On("BySubjectAndUser", mock.Anything, "post", "post-1", "user-1").Return(nil, storeErr)

	_, err := svc.Toggle(context.Background(), common.SubjectPost, "post-1", "user-1", "❤️")

	assert.ErrorIs(t, err, storeErr)
}

func TestList_EmptySubject(t *testing.T) {
	repo := &MockReactionRepository{}
	svc := NewService(repo)

	repo.On("ListBySubject", mock.Anything, "post", "post-1").Return([]dbmysql.Reaction{}, nil)
	repo.On("ProfilesByIDs", mock.Anything, []string{}).Return([]dbmysql.Profile{}, nil)

	result, err := svc.List(context.Background(), common.SubjectPost, "post-1")

	assert.NoError(t, err)
	assert.NotNil(t, result.Reactions)
	assert.NotNil(t, result.Profiles)
	assert.Empty(t, result.Reactions)
	assert.Empty(t, result.Profiles)
}

func TestList_BatchesProfileLookup(t *testing.T) {
	repo := &MockReactionRepository{}
	svc := NewService(repo)

	reactions := []dbmysql.Reaction{
		{SubjectType: "post", SubjectID: "post-1", UserID: "user-a", Emoji: "❤️"},
		{SubjectType: "post", SubjectID: "post-1", UserID: "user-b", Emoji: "😂"},
		{SubjectType: "post", SubjectID: "post-1", UserID: "user-a", Emoji: "👍"},
	}
	repo.On("ListBySubject", mock.Anything, "post", "post-1").Return(reactions, nil)
	// user-a appears twice but gets looked up once
	repo.On("ProfilesByIDs", mock.Anything, []string{"user-a", "user-b"}).Return([]dbmysql.Profile{
		{ID: "user-a", Username: "alice", DisplayName: "Alice"},
		{ID: "user-b", Username: "bob", DisplayName: "Bob"},
	}, nil)

	result, err := svc.List(context.Background(), common.SubjectPost, "post-1")

	assert.NoError(t, err)
	assert.Len(t, result.Reactions, 3)
	assert.Len(t, result.Profiles, 2)
	assert.Equal(t, "alice", result.Profiles["user-a"].Username)
	assert.Equal(t, "bob", result.Profiles["user-b"].Username)
	repo.AssertNumberOfCalls(t, "ProfilesByIDs", 1)
}

func TestList_InvalidSubjectType(t *testing.T) {
	repo := &MockReactionRepository{}
	svc := NewService(repo)

	_, err := svc.List(context.Background(), common.SubjectType("bogus"), "x")

	assert.ErrorIs(t, err, ErrInvalidSubject)
}
