package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrWrongTokenType = errors.New("wrong token type")

type Claims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	TokenType        string    `json:"token_type"`
	ExpiresAt        time.Time `json:"expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type Service struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(secretKey string) *Service {
	return &Service{
		secretKey:  []byte(secretKey),
		accessTTL:  30 * time.Minute,
		refreshTTL: 7 * 24 * time.Hour,
	}
}

// WithTTL overrides the access and refresh lifetimes.
func (s *Service) WithTTL(access, refresh time.Duration) *Service {
	if access > 0 {
		s.accessTTL = access
	}
	if refresh > 0 {
		s.refreshTTL = refresh
	}
	return s
}

// GenerateToken issues an access token.
func (s *Service) GenerateToken(userID, role string) (string, error) {
	token, _, err := s.sign(userID, role, TokenTypeAccess, s.accessTTL)
	return token, err
}

func (s *Service) GenerateTokenPair(userID, role string) (*TokenPair, error) {
	access, accessExp, err := s.sign(userID, role, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.sign(userID, role, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		TokenType:        "bearer",
		ExpiresAt:        accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *Service) sign(userID, role, tokenType string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		UserID:    userID,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies any token issued by this service.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validateType(tokenString, TokenTypeAccess)
}

func (s *Service) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validateType(tokenString, TokenTypeRefresh)
}

func (s *Service) validateType(tokenString, tokenType string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
