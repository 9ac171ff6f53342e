// Package identity issues and checks the anonymous stable-id tokens used by
// the friend-request system.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"videomatch/backend/internal/config"
	"videomatch/backend/internal/logger"
	"videomatch/backend/internal/models"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrMissingIdentity = errors.New("neither user id nor token given")

// ProfileLoader looks up the stored profile behind a stable id.
type ProfileLoader interface {
	GetProfile(ctx context.Context, id string) (*models.User, error)
}

// Claims carries the anonymous id inside a signed token.
type Claims struct {
	AnonID string `json:"anon_id"`
	jwt.RegisteredClaims
}

type Service struct {
	Secret   []byte
	Profiles ProfileLoader
	TTL      time.Duration
	now      func() time.Time
}

func NewService(secret string, profiles ProfileLoader) *Service {
	return &Service{
		Secret:   []byte(secret),
		Profiles: profiles,
		TTL:      config.TokenTTL,
		now:      time.Now,
	}
}

// NewAnonID returns a fresh token together with the anonymous id it carries.
func (s *Service) NewAnonID() (anonID, token string, err error) {
	anonID = uuid.New().String()
	token, err = s.Issue(anonID)
	return anonID, token, err
}

// Issue signs a token for anonID.
func (s *Service) Issue(anonID string) (string, error) {
	now := s.now()
	claims := Claims{
		AnonID: anonID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    config.TokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// Parse validates token and returns the anonymous id inside it.
func (s *Service) Parse(token string) (string, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(config.TokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", err
	}
	if claims.AnonID == "" {
		return "", fmt.Errorf("%w: anon_id claim missing", jwt.ErrTokenInvalidClaims)
	}
	return claims.AnonID, nil
}

// Resolve picks the stable id for a register-friend-system payload. A token
// wins over the raw user id. The stored profile is attached when one exists;
// a failing lookup only costs the fallback snapshot.
func (s *Service) Resolve(ctx context.Context, userID, token string) (*models.Identity, error) {
	if token != "" {
		anonID, err := s.Parse(token)
		if err != nil {
			return nil, fmt.Errorf("resolve identity: %w", err)
		}
		userID = anonID
	}
	if userID == "" {
		return nil, ErrMissingIdentity
	}

	id := &models.Identity{UserID: userID}
	if s.Profiles == nil {
		return id, nil
	}

	user, err := s.Profiles.GetProfile(ctx, userID)
	switch {
	case err == nil:
		p := user.Profile()
		id.Stored = &p
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		logger.Warn("stored profile lookup failed", "user", userID, "err", err)
	}
	return id, nil
}
