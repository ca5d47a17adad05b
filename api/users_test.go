package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/evgall/ticketline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserUseCase is a mock implementation of users.UserUseCase.
type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) Create(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUseCase) Authenticate(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func TestUserHandler_create(t *testing.T) {
	mockService := &MockUserUseCase{}
	handler := NewUserHandler(mockService)

	c, w := newTestContext(t, "POST", "/v1/users", createUserRequest{Username: "alice", Password: "s3cret-pass"})
	mockService.On("Create", c.Request.Context(), "alice", "s3cret-pass").Return(&domain.User{ID: "u1", Username: "alice"}, nil).Once()

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestUserHandler_create_DuplicateUsername(t *testing.T) {
	mockService := &MockUserUseCase{}
	handler := NewUserHandler(mockService)

	c, w := newTestContext(t, "POST", "/v1/users", createUserRequest{Username: "alice", Password: "s3cret-pass"})
	mockService.On("Create", c.Request.Context(), "alice", "s3cret-pass").Return(nil, domain.ErrDuplicateName).Once()

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUserHandler_create_ShortPassword(t *testing.T) {
	mockService := &MockUserUseCase{}
	handler := NewUserHandler(mockService)

	c, w := newTestContext(t, "POST", "/v1/users", createUserRequest{Username: "alice", Password: "short"})

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestBasicAuth_MissingHeader(t *testing.T) {
	mockService := &MockUserUseCase{}

	c, w := newTestContext(t, "POST", "/v1/book", nil)
	BasicAuth(mockService)(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
}

func TestBasicAuth_ValidCredentials(t *testing.T) {
	mockService := &MockUserUseCase{}

	c, _ := newTestContext(t, "POST", "/v1/book", nil)
	c.Request.SetBasicAuth("alice", "s3cret-pass")
	mockService.On("Authenticate", c.Request.Context(), "alice", "s3cret-pass").Return("u1", nil).Once()

	BasicAuth(mockService)(c)

	assert.False(t, c.IsAborted())
	assert.Equal(t, "u1", c.GetString(userIDKey))
}

func TestBasicAuth_InvalidCredentials(t *testing.T) {
	mockService := &MockUserUseCase{}

	c, w := newTestContext(t, "POST", "/v1/book", nil)
	c.Request.SetBasicAuth("alice", "wrong")
	mockService.On("Authenticate", c.Request.Context(), "alice", "wrong").Return("", domain.ErrInvalidCredentials).Once()

	BasicAuth(mockService)(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
}
