package identity

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/garagedesk/garagedesk/internal/models"
)

// LocalProvider verifies credentials against the users table. Used in
// development and tests, and as a fallback when no external identity
// service is configured.
type LocalProvider struct {
	conn   *gorm.DB
	secret []byte
	ttl    time.Duration
}

func NewLocalProvider(conn *gorm.DB, secret string) *LocalProvider {
	return &LocalProvider{conn: conn, secret: []byte(secret), ttl: 24 * time.Hour}
}

type localClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Principal, error) {
	var user models.User
	if err := p.conn.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Disabled {
		return nil, ErrUserDisabled
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	expires := time.Now().Add(p.ttl)
	claims := localClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, err
	}
	return &Principal{ID: user.ID, Email: user.Email, Token: token, ExpiresAt: expires}, nil
}

// Register creates a local account with a bcrypt-hashed password.
func (p *LocalProvider) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{ID: uuid.NewString(), Email: email, Password: string(hash), Name: name}
	if err := p.conn.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
