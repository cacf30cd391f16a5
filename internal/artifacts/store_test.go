package artifacts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "costume-studio/internal/common/errors"
	"costume-studio/internal/models"
)

func newMiniStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewStore(rdb, "", time.Hour), mr
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	store, mr := newMiniStore(t)
	ctx := context.Background()

	in := &models.GeneratedArtifact{MediaType: "image/png", Data: []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}}
	key, err := store.Put(ctx, in)
	require.NoError(t, err)
	assert.True(t, store.Owns(key))
	assert.Equal(t, time.Hour, mr.TTL(key))

	out, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, in.MediaType, out.MediaType)
	assert.Equal(t, in.Data, out.Data)
}

func TestStore_ExpiredKeyIsNotFound(t *testing.T) {
	store, mr := newMiniStore(t)
	ctx := context.Background()

	key, err := store.Put(ctx, &models.GeneratedArtifact{MediaType: "video/mp4", Data: []byte("mp4")})
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, apperrors.ErrArtifactNotFound)
}

func TestStore_Delete(t *testing.T) {
	store, mr := newMiniStore(t)
	ctx := context.Background()

	key, err := store.Put(ctx, &models.GeneratedArtifact{MediaType: "image/png", Data: []byte("x")})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, key))
	assert.False(t, mr.Exists(key))
}

func TestStore_RejectsInvalidInput(t *testing.T) {
	store, _ := newMiniStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = store.Put(ctx, &models.GeneratedArtifact{MediaType: "video/mp4", URI: "https://example.com/v.mp4"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = store.Get(ctx, "session:123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = store.Get(ctx, "artifact:")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestStore_PutUsesTransaction(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewStore(rdb, "studio", 30*time.Minute)
	store.newID = func() string { return "fixed" }

	mock.ExpectTxPipeline()
	mock.ExpectHSet("studio:fixed", "media_type", "image/png", "data", []byte("png")).SetVal(2)
	mock.ExpectExpire("studio:fixed", 30*time.Minute).SetVal(true)
	mock.ExpectTxPipelineExec()

	key, err := store.Put(context.Background(), &models.GeneratedArtifact{MediaType: "image/png", Data: []byte("png")})
	require.NoError(t, err)
	assert.Equal(t, "studio:fixed", key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_BackendFailureIsRetryable(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewStore(rdb, "", 0)

	mock.ExpectHGetAll("artifact:abc").SetErr(errors.New("connection reset"))

	_, err := store.Get(context.Background(), "artifact:abc")
	require.Error(t, err)

	classified := apperrors.Classify(err)
	assert.Equal(t, apperrors.ErrCodeArtifactStoreFailed, classified.Code)
	assert.True(t, classified.Retryable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type sizeRecorder struct {
	mediaTypes []string
	sizes      []int
}

func (r *sizeRecorder) RecordArtifact(_ context.Context, mediaType string, size int) {
	r.mediaTypes = append(r.mediaTypes, mediaType)
	r.sizes = append(r.sizes, size)
}

func TestStore_RecorderSeesSuccessfulPuts(t *testing.T) {
	store, mr := newMiniStore(t)
	rec := &sizeRecorder{}
	store.WithRecorder(rec)
	ctx := context.Background()

	_, err := store.Put(ctx, &models.GeneratedArtifact{MediaType: "video/mp4", Data: []byte("frames")})
	require.NoError(t, err)

	mr.Close()
	_, err = store.Put(ctx, &models.GeneratedArtifact{MediaType: "image/png", Data: []byte("x")})
	require.Error(t, err)

	assert.Equal(t, []string{"video/mp4"}, rec.mediaTypes)
	assert.Equal(t, []int{6}, rec.sizes)
}
