package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	identityapp "github.com/agrisupply/backend/internal/application/identity"
	"github.com/agrisupply/backend/internal/domain/identity"
	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/agrisupply/backend/internal/interfaces/http/middleware"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// newUserMeRouter builds a router serving /users/me, optionally injecting
// the authenticated user ID the way the JWT middleware does.
func newUserMeRouter(users *MockUserRepository, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewUserHandler(identityapp.NewUserService(users, zap.NewNop()))

	router := gin.New()
	router.GET("/users/me", func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.JWTUserIDKey, userID)
		}
	}, handler.Me)
	return router
}

func TestUserHandler_Me(t *testing.T) {
	t.Run("returns the authenticated user's profile", func(t *testing.T) {
		users := new(MockUserRepository)
		user, err := identity.NewUser("receiver@example.com", "Jordan Reyes", "hash")
		require.NoError(t, err)
		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		router := newUserMeRouter(users, user.ID.String())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		data, ok := body["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "receiver@example.com", data["email"])
		assert.Equal(t, user.ID.String(), data["id"])
	})

	t.Run("rejects a request without claims", func(t *testing.T) {
		users := new(MockUserRepository)
		router := newUserMeRouter(users, "")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("deleted account maps to not found", func(t *testing.T) {
		users := new(MockUserRepository)
		id := uuid.New()
		users.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		router := newUserMeRouter(users, id.String())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
