// Package auth issues and verifies the bearer tokens that identify callers.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tendant/simple-membership/pkg/domain"
)

const (
	// DefaultAccessTokenTTL is used when TokenConfig.AccessTokenTTL is zero.
	DefaultAccessTokenTTL = 15 * time.Minute

	// MinSecretLength is the minimum accepted HMAC secret length.
	MinSecretLength = 32
)

// TokenConfig holds token configuration.
type TokenConfig struct {
	AccessTokenTTL time.Duration
	JWTSecret      []byte
	Issuer         string
}

// TokenService signs and validates caller tokens.
type TokenService struct {
	config TokenConfig
	now    func() time.Time
}

// NewTokenService creates a new token service.
func NewTokenService(config TokenConfig) *TokenService {
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = DefaultAccessTokenTTL
	}
	return &TokenService{
		config: config,
		now:    time.Now,
	}
}

// AccessTokenTTL returns the access token TTL.
func (s *TokenService) AccessTokenTTL() time.Duration {
	return s.config.AccessTokenTTL
}

// AccessTokenClaims represents the claims in an access token.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
}

// IssueToken returns a signed token whose subject is the principal.
func (s *TokenService) IssueToken(p domain.Principal) (string, time.Time, error) {
	if p.IsZero() || p.IsAnonymous() {
		return "", time.Time{}, domain.ErrInvalidToken
	}

	now := s.now()
	expiresAt := now.Add(s.config.AccessTokenTTL)
	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    s.config.Issuer,
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.config.JWTSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken validates a token and returns the principal it names.
func (s *TokenService) ValidateToken(tokenString string) (domain.Principal, error) {
	opts := []jwt.ParserOption{jwt.WithTimeFunc(s.now)}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.config.JWTSecret, nil
	}, opts...)
	if err != nil {
		return domain.Principal{}, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccessTokenClaims)
	if !ok || !token.Valid {
		return domain.Principal{}, domain.ErrInvalidToken
	}

	p, err := domain.ParsePrincipal(claims.Subject)
	if err != nil {
		return domain.Principal{}, domain.ErrInvalidToken
	}
	return p, nil
}
