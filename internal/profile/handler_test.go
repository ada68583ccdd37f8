package profile

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"linkup/internal/common"
	"linkup/internal/dbmysql"
)

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Register(ctx context.Context, username, email, password string) (*dbmysql.Profile, string, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*dbmysql.Profile), args.String(1), args.Error(2)
}

func (m *MockProfileService) Login(ctx context.Context, username, password string) (*dbmysql.Profile, string, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*dbmysql.Profile), args.String(1), args.Error(2)
}

func (m *MockProfileService) ByUsername(ctx context.Context, username string) (*dbmysql.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmysql.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID, displayName, bio string) error {
	args := m.Called(ctx, userID, displayName, bio)
	return args.Error(0)
}

func (m *MockProfileService) UploadAvatar(ctx context.Context, userID, ext, mimeType string, content io.Reader) (string, error) {
	args := m.Called(ctx, userID, ext, mimeType, content)
	return args.String(0), args.Error(1)
}

func (m *MockProfileService) ToggleFollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileService) Followers(ctx context.Context, userID string) ([]common.ProfileSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]common.ProfileSummary), args.Error(1)
}

func (m *MockProfileService) Following(ctx context.Context, userID string) ([]common.ProfileSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]common.ProfileSummary), args.Error(1)
}

func newProfileRouter(svc Service) *mux.Router {
	router := mux.NewRouter()
	handler := NewHandler(svc)
	handler.PublicRoutes(router)
	handler.Routes(router)
	return router
}

func TestRegisterEndpoint(t *testing.T) {
	svc := &MockProfileService{}
	svc.On("Register", mock.Anything, "alice", "alice@example.com", "s3cretpw").
		Return(&dbmysql.Profile{ID: "user-1", Username: "alice"}, "a.jwt.token", nil)

	body := `{"username":"alice","email":"alice@example.com","password":"s3cretpw"}`
	rec := httptest.NewRecorder()
	newProfileRouter(svc).ServeHTTP(rec, httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader([]byte(body))))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "a.jwt.token")
}

func TestRegisterEndpoint_Conflict(t *testing.T) {
	svc := &MockProfileService{}
	svc.On("Register", mock.Anything, "alice", "", "s3cretpw").Return(nil, "", ErrUsernameTaken)

	body := `{"username":"alice","password":"s3cretpw"}`
	rec := httptest.NewRecorder()
	newProfileRouter(svc).ServeHTTP(rec, httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader([]byte(body))))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	svc := &MockProfileService{}
	svc.On("Login", mock.Anything, "alice", "wrong").Return(nil, "", ErrInvalidCredentials)

	body := `{"username":"alice","password":"wrong"}`
	rec := httptest.NewRecorder()
	newProfileRouter(svc).ServeHTTP(rec, httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader([]byte(body))))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestByUsernameEndpoint_NotFound(t *testing.T) {
	svc := &MockProfileService{}
	svc.On("ByUsername", mock.Anything, "ghost").Return(nil, ErrNotFound)

	req := httptest.NewRequest("GET", "/api/profiles/ghost", nil)
	req = req.WithContext(common.WithUser(req.Context(), "viewer"))
	rec := httptest.NewRecorder()
	newProfileRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleFollowEndpoint(t *testing.T) {
	svc := &MockProfileService{}
	svc.On("ToggleFollow", mock.Anything, "follower", "followee").Return(true, nil)

	req := httptest.NewRequest("POST", "/api/follows/followee", nil)
	req = req.WithContext(common.WithUser(req.Context(), "follower"))
	rec := httptest.NewRecorder()
	newProfileRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"following":true}`, rec.Body.String())
}
