package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Dosada05/swiss-tables/models"
	"github.com/Dosada05/swiss-tables/repositories"
	"github.com/Dosada05/swiss-tables/utils"
)

type LoginInput struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Caller    models.Caller `json:"caller"`
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	// ParseToken verifies a signed token and returns the caller it names.
	// Participant tokens must still name a stored participant.
	ParseToken(ctx context.Context, tokenString string) (models.Caller, error)
}

type AuthConfig struct {
	Secret            []byte
	TTL               time.Duration
	AdminName         string
	AdminPasswordHash string
}

// callerClaims: содержимое JWT.
type callerClaims struct {
	ParticipantID *int   `json:"participant_id,omitempty"`
	IsAdmin       bool   `json:"is_admin"`
	Name          string `json:"name"`
	jwt.RegisteredClaims
}

type authService struct {
	store repositories.Store
	cfg   AuthConfig
	now   func() time.Time
}

func NewAuthService(store repositories.Store, cfg AuthConfig) AuthService {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &authService{store: store, cfg: cfg, now: time.Now}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Password == "" {
		return nil, ErrAuthInvalidCredentials
	}

	if s.cfg.AdminName != "" && name == s.cfg.AdminName && s.cfg.AdminPasswordHash != "" {
		if !utils.CheckPasswordHash(input.Password, s.cfg.AdminPasswordHash) {
			return nil, ErrAuthInvalidCredentials
		}
		return s.issue(models.AdminCaller(name))
	}

	p, err := s.store.Participants().GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find participant by name: %w", err)
	}
	if !utils.CheckPasswordHash(input.Password, p.PasswordHash) {
		return nil, ErrAuthInvalidCredentials
	}
	return s.issue(models.ParticipantCaller(p.ID, p.Name))
}

func (s *authService) issue(caller models.Caller) (*LoginResult, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.TTL)
	claims := callerClaims{
		ParticipantID: caller.ParticipantID,
		IsAdmin:       caller.IsAdmin,
		Name:          caller.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Caller: caller}, nil
}

func (s *authService) ParseToken(ctx context.Context, tokenString string) (models.Caller, error) {
	claims := &callerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.cfg.Secret, nil
	})
	if err != nil || !token.Valid {
		return models.Anonymous, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	if claims.ParticipantID == nil && !claims.IsAdmin {
		return models.Anonymous, fmt.Errorf("%w: token names no caller", ErrAuthenticationFailed)
	}
	if claims.ParticipantID != nil && !claims.IsAdmin {
		// после сброса турнира id выдаются заново
		p, err := s.store.Participants().GetByID(ctx, *claims.ParticipantID)
		if err != nil {
			if errors.Is(err, repositories.ErrParticipantNotFound) {
				return models.Anonymous, fmt.Errorf("%w: participant %d no longer exists", ErrAuthenticationFailed, *claims.ParticipantID)
			}
			return models.Anonymous, fmt.Errorf("failed to load participant: %w", err)
		}
		if p.Name != claims.Name {
			return models.Anonymous, fmt.Errorf("%w: token was issued to another participant", ErrAuthenticationFailed)
		}
	}
	return models.Caller{
		ParticipantID: claims.ParticipantID,
		Name:          claims.Name,
		IsAdmin:       claims.IsAdmin,
	}, nil
}
