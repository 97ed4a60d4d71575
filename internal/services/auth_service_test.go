package services_test

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"gaspedidos/internal/models"
	"gaspedidos/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePushToken(id string, token string) error {
	args := m.Called(id, token)
	return args.Error(0)
}

// TestMain suppresses service logging during tests for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Test successful registration
	user := &models.User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
		Nombre:   "Test User",
		Rol:      models.RolUsuario,
	}

	mockRepo.On("GetByUsername", user.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", user.Email).Return(nil, nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterUser(user)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test username already taken
	mockRepo.On("GetByUsername", user.Username).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(user)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "el nombre de usuario 'testuser' ya está en uso")
	mockRepo.AssertExpectations(t)

	// Test email already registered
	mockRepo.On("GetByUsername", user.Username).Return(nil, nil).Once()
	mockRepo.On("GetByEmail", user.Email).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(user)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "el correo 'test@example.com' ya está registrado")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Rol:      models.RolProveedor,
	}

	// Test successful login
	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()

	token, err := authService.LoginUser("testuser", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// The token carries identity and rol claims.
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Username, claims["username"])
	assert.Equal(t, models.RolProveedor, claims["rol"])
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()
	_, err = authService.LoginUser("testuser", "wrongpassword")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "credenciales inválidas")
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (user not found): same generic message, so the
	// response does not reveal whether the username exists.
	mockRepo.On("GetByUsername", "nonexistentuser").Return(nil, fmt.Errorf("user with username nonexistentuser not found")).Once()
	_, err = authService.LoginUser("nonexistentuser", "password123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "credenciales inválidas")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	testJWTSecret := "test_jwt_secret"
	authService := services.NewAuthService(mockRepo, testJWTSecret)

	// Generate a valid token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"rol":      models.RolUsuario,
		"exp":      jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	// Test valid token
	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "testuser", claims["username"])

	// Test invalid token (malformed)
	invalidTokenString := "invalid.token.string"
	_, err = authService.ValidateToken(invalidTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Test expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"exp":      jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestAuthService_RegisterPushToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	mockRepo.On("UpdatePushToken", "user-123", "device-token").Return(nil).Once()
	err := authService.RegisterPushToken("user-123", "device-token")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	mockRepo.On("UpdatePushToken", "user-404", "device-token").Return(fmt.Errorf("user not found")).Once()
	err = authService.RegisterPushToken("user-404", "device-token")
	assert.Error(t, err)
	mockRepo.AssertExpectations(t)
}
