package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"videomatch/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is the persistence behind the realtime core: stored profiles in
// PostgreSQL and the published hub counters in Redis.
type Storage interface {
	SaveProfile(ctx context.Context, id string, p models.Profile) (*models.User, error)
	GetProfile(ctx context.Context, id string) (*models.User, error)

	PublishStats(ctx context.Context, s models.Stats) error
	GetStats(ctx context.Context) (*models.Stats, error)
}

var ErrInvalidProfile = errors.New("profile name is required")

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// SaveProfile creates the user record for id or overwrites its profile
// fields. An empty id lets the BeforeCreate hook assign one.
func (s *Service) SaveProfile(ctx context.Context, id string, p models.Profile) (*models.User, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("save profile: %w", ErrInvalidProfile)
	}

	var user models.User
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{ID: id}
	case err != nil:
		return nil, fmt.Errorf("load profile %s: %w", id, err)
	}

	user.ApplyProfile(p)
	if err := s.DB.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, fmt.Errorf("save profile %s: %w", id, err)
	}
	return &user, nil
}

// GetProfile returns the stored record for id. A missing record is reported
// as gorm.ErrRecordNotFound.
func (s *Service) GetProfile(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
