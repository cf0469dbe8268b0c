package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/augentlabs/innovation-hub/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a demo portal account.
type User struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// SampleUsers are the demo accounts. Production would use SSO.
var SampleUsers = map[string]struct {
	Password   string
	Name       string
	Role       string
	Department string
}{
	"user@example.com": {
		Password:   "password123",
		Name:       "John Doe",
		Role:       "Employee",
		Department: "Engineering",
	},
	"manager@example.com": {
		Password:   "password123",
		Name:       "Manager User",
		Role:       "Manager",
		Department: "Operations",
	},
	"director@example.com": {
		Password:   "password123",
		Name:       "Director User",
		Role:       "Director",
		Department: "Executive",
	},
}

const tokenTTL = 12 * time.Hour

var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService hands out and validates bearer session tokens.
type AuthService struct {
	DB *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db}
}

// Login checks credentials against the demo accounts and issues a token.
func (s *AuthService) Login(email, password string) (string, *User, error) {
	account, ok := SampleUsers[email]
	if !ok || account.Password != password {
		return "", nil, ErrInvalidCredentials
	}

	token := models.SessionToken{
		Token:      uuid.NewString(),
		Email:      email,
		Name:       account.Name,
		Role:       account.Role,
		Department: account.Department,
		ExpiresAt:  time.Now().Add(tokenTTL),
	}
	if err := s.DB.Create(&token).Error; err != nil {
		log.Printf("❌ Failed to create session token: %v", err)
		return "", nil, err
	}

	user := &User{Email: email, Name: account.Name, Role: account.Role, Department: account.Department}
	log.Printf("🔑 Session issued for %s (%s)", email, account.Role)
	return token.Token, user, nil
}

// Logout revokes a session token.
func (s *AuthService) Logout(token string) error {
	return s.DB.Delete(&models.SessionToken{}, "token = ?", token).Error
}

// Validate resolves a bearer token into its user, rejecting expired tokens.
func (s *AuthService) Validate(token string) (*User, error) {
	var row models.SessionToken
	err := s.DB.First(&row, "token = ?", token).Error
	if err != nil {
		return nil, errors.New("unknown session token")
	}
	if time.Now().After(row.ExpiresAt) {
		s.DB.Delete(&row)
		return nil, errors.New("session expired")
	}
	return &User{Email: row.Email, Name: row.Name, Role: row.Role, Department: row.Department}, nil
}

const userContextKey = "currentUser"

// RequireAuth is gin middleware that resolves the Authorization bearer token
// and stores the user on the request context.
func (s *AuthService) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		user, err := s.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireReviewer gates routes to Manager and Director accounts. Must run
// after RequireAuth.
func RequireReviewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !IsReviewer(user) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "reviewer role required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *User {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := value.(*User)
	return user
}

// IsReviewer reports whether the user may review ideas.
func IsReviewer(user *User) bool {
	return user.Role == "Manager" || user.Role == "Director"
}
