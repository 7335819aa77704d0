package service

import (
	"context"
	"errors"
	"time"

	"github.com/dom/emblem-vtt/internal/config"
	"github.com/dom/emblem-vtt/internal/domain"
	"github.com/dom/emblem-vtt/internal/repository"
	"github.com/dom/emblem-vtt/internal/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	userRepo repository.UserRepository
	sessions session.Store
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, sessions session.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		cfg:      cfg,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User        *domain.User
	AccessToken string
}

// Identity is the resolved principal of a request: the user plus the session
// the token was minted for.
type Identity struct {
	UserID    uuid.UUID
	SessionID string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, domain.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		DisplayName:  input.DisplayName,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.createSession(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createSession(ctx, user)
}

// createSession stores an opaque session id in the key-value store and wraps
// it in a signed access token. The token is only accepted while the session
// id is still present, so logout revokes immediately.
func (s *AuthService) createSession(ctx context.Context, user *domain.User) (*AuthResult, error) {
	sessionID := uuid.New().String()
	ttl := time.Duration(s.cfg.JWTExpirationHours) * time.Hour

	if err := s.sessions.Create(ctx, sessionID, user.ID, ttl); err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"sid": sessionID,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:        user,
		AccessToken: signed,
	}, nil
}

// ResolveToken validates the token signature and checks the session still
// exists in the store.
func (s *AuthService) ResolveToken(ctx context.Context, tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrUnauthenticated
	}

	sessionID, ok := claims["sid"].(string)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	userID, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	sub, _ := claims["sub"].(string)
	if sub != userID.String() {
		return nil, domain.ErrUnauthenticated
	}

	return &Identity{UserID: userID, SessionID: sessionID}, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *AuthService) Logout(ctx context.Context, identity *Identity) error {
	return s.sessions.Delete(ctx, identity.SessionID)
}
