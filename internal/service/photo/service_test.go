package photo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoprint/internal/blob"
	"photoprint/internal/domain"
	photorepo "photoprint/internal/repository/photo"
)

const owner = domain.UserID("user-1")

func newService() (*Service, photorepo.Repository, *blob.MemoryStore) {
	repo := photorepo.NewMemory()
	blobs := blob.NewMemory()
	return New(repo, blobs), repo, blobs
}

func register(t *testing.T, svc *Service, blobs *blob.MemoryStore, filename string, sizeBytes int64) *domain.Photo {
	t.Helper()
	ref := "blobs/" + filename
	blobs.Put(ref, sizeBytes)
	photo, err := svc.Register(context.Background(), owner, RegisterInput{
		Filename:  filename,
		BlobRef:   ref,
		WidthPx:   3000,
		HeightPx:  4000,
		SizeBytes: sizeBytes,
	})
	require.NoError(t, err)
	return photo
}

func TestRegisterAndGet(t *testing.T) {
	svc, _, blobs := newService()
	photo := register(t, svc, blobs, "beach.jpg", 1024)

	got, err := svc.Get(context.Background(), owner, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, "beach.jpg", got.Filename)
	assert.False(t, got.Locked())
}

func TestRegisterRequiresFilenameAndBlobRef(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.Register(context.Background(), owner, RegisterInput{BlobRef: "blobs/x"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Register(context.Background(), owner, RegisterInput{Filename: "x.jpg"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetScopedToOwner(t *testing.T) {
	svc, _, blobs := newService()
	photo := register(t, svc, blobs, "beach.jpg", 1024)

	_, err := svc.Get(context.Background(), "someone-else", photo.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteRemovesBlobAndRecord(t *testing.T) {
	svc, _, blobs := newService()
	photo := register(t, svc, blobs, "beach.jpg", 1024)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, owner, photo.ID))

	_, err := svc.Get(ctx, owner, photo.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	exists, err := blobs.Exists(ctx, photo.BlobRef)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteRejectsLockedPhoto(t *testing.T) {
	svc, repo, blobs := newService()
	photo := register(t, svc, blobs, "beach.jpg", 1024)
	ctx := context.Background()

	require.NoError(t, repo.Lock(ctx, []domain.PhotoID{photo.ID}, "order-1"))

	err := svc.Delete(ctx, owner, photo.ID)
	assert.ErrorIs(t, err, domain.ErrPhotoLocked)

	// Blob and record both survive.
	exists, err := blobs.Exists(ctx, photo.BlobRef)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestListDeletableExcludesLockedPhotos(t *testing.T) {
	svc, repo, blobs := newService()
	free := register(t, svc, blobs, "free.jpg", 1024)
	locked := register(t, svc, blobs, "locked.jpg", 1024)
	ctx := context.Background()

	require.NoError(t, repo.Lock(ctx, []domain.PhotoID{locked.ID}, "order-1"))

	deletable, err := svc.ListDeletable(ctx, owner)
	require.NoError(t, err)
	require.Len(t, deletable, 1)
	assert.Equal(t, free.ID, deletable[0].ID)
}

func TestLockAllOrNothing(t *testing.T) {
	svc, _, blobs := newService()
	a := register(t, svc, blobs, "a.jpg", 1024)
	b := register(t, svc, blobs, "b.jpg", 1024)
	ctx := context.Background()

	require.NoError(t, svc.Lock(ctx, []domain.PhotoID{a.ID}, "order-1"))

	err := svc.Lock(ctx, []domain.PhotoID{a.ID, b.ID}, "order-2")
	assert.ErrorIs(t, err, domain.ErrAlreadyLocked)

	// The failed claim left b unlocked.
	got, err := svc.Get(ctx, owner, b.ID)
	require.NoError(t, err)
	assert.False(t, got.Locked())
}

func TestLockIdempotentPerOrder(t *testing.T) {
	svc, _, blobs := newService()
	a := register(t, svc, blobs, "a.jpg", 1024)
	ctx := context.Background()

	require.NoError(t, svc.Lock(ctx, []domain.PhotoID{a.ID}, "order-1"))
	assert.NoError(t, svc.Lock(ctx, []domain.PhotoID{a.ID}, "order-1"))
}

func TestUnlockReleasesOnlyOwnLock(t *testing.T) {
	svc, _, blobs := newService()
	a := register(t, svc, blobs, "a.jpg", 1024)
	ctx := context.Background()

	require.NoError(t, svc.Lock(ctx, []domain.PhotoID{a.ID}, "order-1"))
	require.NoError(t, svc.Unlock(ctx, []domain.PhotoID{a.ID}, "order-2"))

	got, err := svc.Get(ctx, owner, a.ID)
	require.NoError(t, err)
	assert.True(t, got.Locked())

	require.NoError(t, svc.Unlock(ctx, []domain.PhotoID{a.ID}, "order-1"))
	got, err = svc.Get(ctx, owner, a.ID)
	require.NoError(t, err)
	assert.False(t, got.Locked())
}

func TestPurgeFreesScheduledPhotos(t *testing.T) {
	svc, _, blobs := newService()
	a := register(t, svc, blobs, "a.jpg", 2048)
	b := register(t, svc, blobs, "b.jpg", 512)
	ctx := context.Background()

	deleteAt := time.Now().Add(-time.Hour)
	require.NoError(t, svc.ScheduleDeletion(ctx, []domain.PhotoID{a.ID, b.ID}, deleteAt))

	freed, err := svc.Purge(ctx, time.Now(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2560), freed)

	_, err = svc.Get(ctx, owner, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// A second sweep finds nothing left.
	freed, err = svc.Purge(ctx, time.Now(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), freed)
}

func TestPurgeSkipsFutureSchedules(t *testing.T) {
	svc, _, blobs := newService()
	a := register(t, svc, blobs, "a.jpg", 2048)
	ctx := context.Background()

	require.NoError(t, svc.ScheduleDeletion(ctx, []domain.PhotoID{a.ID}, time.Now().Add(24*time.Hour)))

	freed, err := svc.Purge(ctx, time.Now(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), freed)

	_, err = svc.Get(ctx, owner, a.ID)
	assert.NoError(t, err)
}

func TestPurgeToleratesMissingBlob(t *testing.T) {
	svc, _, blobs := newService()
	a := register(t, svc, blobs, "a.jpg", 2048)
	ctx := context.Background()

	_, err := blobs.Delete(ctx, a.BlobRef)
	require.NoError(t, err)
	require.NoError(t, svc.ScheduleDeletion(ctx, []domain.PhotoID{a.ID}, time.Now().Add(-time.Hour)))

	freed, err := svc.Purge(ctx, time.Now(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), freed)

	// The record is still purged.
	_, err = svc.Get(ctx, owner, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// failingStore rejects every delete, standing in for a storage outage.
type failingStore struct{}

func (failingStore) Exists(context.Context, string) (bool, error) { return true, nil }
func (failingStore) Delete(context.Context, string) (int64, error) {
	return 0, errors.New("storage unavailable")
}

func TestPurgeRetriesFailedBlobsNextSweep(t *testing.T) {
	repo := photorepo.NewMemory()
	svc := New(repo, failingStore{})
	ctx := context.Background()

	photo, err := svc.Register(ctx, owner, RegisterInput{Filename: "a.jpg", BlobRef: "blobs/a.jpg", SizeBytes: 2048})
	require.NoError(t, err)
	require.NoError(t, svc.ScheduleDeletion(ctx, []domain.PhotoID{photo.ID}, time.Now().Add(-time.Hour)))

	freed, err := svc.Purge(ctx, time.Now(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), freed)

	// The record stays purgeable for the next sweep.
	purgeable, err := repo.ListPurgeable(ctx, time.Now(), 100)
	require.NoError(t, err)
	assert.Len(t, purgeable, 1)
}
