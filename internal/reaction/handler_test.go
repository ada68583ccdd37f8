package reaction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"linkup/internal/common"
)

type MockReactionService struct {
	mock.Mock
}

func (m *MockReactionService) Toggle(ctx context.Context, subjectType common.SubjectType, subjectID, userID, emoji string) (bool, error) {
	args := m.Called(ctx, subjectType, subjectID, userID, emoji)
	return args.Bool(0), args.Error(1)
}

func (m *MockReactionService) List(ctx context.Context, subjectType common.SubjectType, subjectID string) (*ListResult, error) {
	args := m.Called(ctx, subjectType, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ListResult), args.Error(1)
}

func newTestRouter(svc Service) *mux.Router {
	router := mux.NewRouter()
	NewHandler(svc).Routes(router)
	return router
}

func TestToggleEndpoint_AddHeart(t *testing.T) {
	svc := &MockReactionService{}
	svc.On("Toggle", mock.Anything, common.SubjectPost, "post-1", "user-1", "❤️").Return(true, nil)

	body, _ := json.Marshal(map[string]string{
		"type": "post", "id": "post-1", "emoji": "❤️", "userId": "user-1",
	})
	req := httptest.NewRequest("POST", "/api/reactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"added":true}`, rec.Body.String())
}

func TestToggleEndpoint_RemoveOnSecondCall(t *testing.T) {
	svc := &MockReactionService{}
	svc.On("Toggle", mock.Anything, common.SubjectPost, "post-1", "user-1", "❤️").Return(true, nil).Once()
	svc.On("Toggle", mock.Anything, common.SubjectPost, "post-1", "user-1", "❤️").Return(false, nil).Once()

	router := newTestRouter(svc)
	body := `{"type":"post","id":"post-1","emoji":"❤️","userId":"user-1"}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/reactions", bytes.NewReader([]byte(body))))
	assert.JSONEq(t, `{"added":true}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/reactions", bytes.NewReader([]byte(body))))
	assert.JSONEq(t, `{"removed":true}`, rec.Body.String())
}

func TestToggleEndpoint_MissingEmoji(t *testing.T) {
	svc := &MockReactionService{}

	body := `{"type":"post","id":"post-1","userId":"user-1"}`
	req := httptest.NewRequest("POST", "/api/reactions", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleEndpoint_InvalidBody(t *testing.T) {
	svc := &MockReactionService{}

	req := httptest.NewRequest("POST", "/api/reactions", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleEndpoint_StoreFailure(t *testing.T) {
	svc := &MockReactionService{}
	svc.On("Toggle", mock.Anything, common.SubjectPost, "post-1", "user-1", "❤️").
		Return(false, errors.New("failed to create reaction: deadlock"))

	body := `{"type":"post","id":"post-1","emoji":"❤️","userId":"user-1"}`
	req := httptest.NewRequest("POST", "/api/reactions", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "deadlock")
}

func TestListEndpoint_TwoReactors(t *testing.T) {
	svc := &MockReactionService{}
	svc.On("List", mock.Anything, common.SubjectPost, "post-1").Return(&ListResult{
		Reactions: []Entry{
			{Emoji: "❤️", UserID: "user-a"},
			{Emoji: "😂", UserID: "user-b"},
		},
		Profiles: map[string]common.ProfileSummary{
			"user-a": {ID: "user-a", Username: "alice"},
			"user-b": {ID: "user-b", Username: "bob"},
		},
	}, nil)

	req := httptest.NewRequest("GET", "/api/reactions?type=post&id=post-1", nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result ListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result.Reactions, 2)
	assert.Len(t, result.Profiles, 2)
	assert.Contains(t, result.Profiles, "user-a")
	assert.Contains(t, result.Profiles, "user-b")
}

func TestListEndpoint_EmptySubject(t *testing.T) {
	svc := &MockReactionService{}
	svc.On("List", mock.Anything, common.SubjectPost, "post-9").Return(&ListResult{
		Reactions: []Entry{},
		Profiles:  map[string]common.ProfileSummary{},
	}, nil)

	req := httptest.NewRequest("GET", "/api/reactions?type=post&id=post-9", nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reactions":[],"profiles":{}}`, rec.Body.String())
}

func TestListEndpoint_MissingParams(t *testing.T) {
	svc := &MockReactionService{}

	req := httptest.NewRequest("GET", "/api/reactions?type=post", nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}
