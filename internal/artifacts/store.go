// Package artifacts hands generated media between workflow tasks. Job
// variables only carry the store key; the bytes live in Redis until the TTL
// expires.
package artifacts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "costume-studio/internal/common/errors"
	"costume-studio/internal/models"
)

const (
	DefaultPrefix = "artifact"
	DefaultTTL    = 24 * time.Hour

	fieldMediaType = "media_type"
	fieldData      = "data"
)

// Recorder observes every stored artifact.
type Recorder interface {
	RecordArtifact(ctx context.Context, mediaType string, size int)
}

type Store struct {
	rdb      redis.Cmdable
	prefix   string
	ttl      time.Duration
	newID    func() string
	recorder Recorder
}

// NewStore returns a store writing keys "<prefix>:<uuid>". Zero values fall
// back to DefaultPrefix and DefaultTTL.
func NewStore(rdb redis.Cmdable, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
		newID:  func() string { return uuid.New().String() },
	}
}

// WithRecorder sets the observer notified after each successful Put.
func (s *Store) WithRecorder(r Recorder) *Store {
	s.recorder = r
	return s
}

// Owns reports whether key was issued by this store.
func (s *Store) Owns(key string) bool {
	return strings.HasPrefix(key, s.prefix+":") && len(key) > len(s.prefix)+1
}

// Put stores a and returns its key.
func (s *Store) Put(ctx context.Context, a *models.GeneratedArtifact) (string, error) {
	if a == nil || len(a.Data) == 0 {
		return "", fmt.Errorf("%w: only inline artifacts can be stored", apperrors.ErrInvalidInput)
	}

	key := s.prefix + ":" + s.newID()
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldMediaType, a.MediaType, fieldData, a.Data)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return "", apperrors.NewArtifactStoreFailedError(err)
	}
	if s.recorder != nil {
		s.recorder.RecordArtifact(ctx, a.MediaType, len(a.Data))
	}
	return key, nil
}

// Get loads the artifact stored under key.
func (s *Store) Get(ctx context.Context, key string) (*models.GeneratedArtifact, error) {
	if !s.Owns(key) {
		return nil, fmt.Errorf("%w: %q is not an artifact key", apperrors.ErrInvalidInput, key)
	}

	fields, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, apperrors.NewArtifactStoreFailedError(err)
	}
	data, ok := fields[fieldData]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrArtifactNotFound, key)
	}

	return &models.GeneratedArtifact{
		MediaType: fields[fieldMediaType],
		Data:      []byte(data),
	}, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return apperrors.NewArtifactStoreFailedError(err)
	}
	return nil
}
