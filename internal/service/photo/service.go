package photo

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"photoprint/internal/blob"
	"photoprint/internal/domain"
	"photoprint/internal/metrics"
	photorepo "photoprint/internal/repository/photo"
)

// Service tracks photo ownership, the order lock and the deletion schedule.
// Physical removal happens in exactly two places: a user-initiated delete of
// an unlocked photo, and the purge sweep once a completed order's retention
// window has passed.
type Service struct {
	repo   photorepo.Repository
	blobs  blob.Store
	logger *log.Entry
	now    func() time.Time
}

func New(repo photorepo.Repository, blobs blob.Store) *Service {
	return &Service{
		repo:   repo,
		blobs:  blobs,
		logger: log.WithField("component", "photo-lifecycle"),
		now:    time.Now,
	}
}

// RegisterInput is the metadata for a freshly uploaded photo. Byte upload
// and dimension extraction happen upstream; the lifecycle engine only
// records the result.
type RegisterInput struct {
	Filename  string
	BlobRef   string
	WidthPx   int
	HeightPx  int
	SizeBytes int64
}

// Register records an uploaded photo under its owner.
func (s *Service) Register(ctx context.Context, owner domain.UserID, in RegisterInput) (*domain.Photo, error) {
	if in.Filename == "" || in.BlobRef == "" {
		return nil, domain.ErrValidation
	}
	photo := domain.Photo{
		ID:         domain.NewPhotoID(),
		OwnerID:    owner,
		BlobRef:    in.BlobRef,
		Filename:   in.Filename,
		WidthPx:    in.WidthPx,
		HeightPx:   in.HeightPx,
		SizeBytes:  in.SizeBytes,
		UploadedAt: s.now(),
	}
	if err := s.repo.Create(ctx, photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

// Get returns the owner's photo or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, owner domain.UserID, id domain.PhotoID) (*domain.Photo, error) {
	return s.repo.GetByOwner(ctx, owner, id)
}

// List returns a page of the owner's photos, newest first.
func (s *Service) List(ctx context.Context, owner domain.UserID, limit, offset int) ([]domain.Photo, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByOwner(ctx, owner, limit, offset)
}

// ListDeletable returns the owner's photos eligible for manual deletion. A
// photo locked by any order never appears here.
func (s *Service) ListDeletable(ctx context.Context, owner domain.UserID) ([]domain.Photo, error) {
	return s.repo.ListDeletableByOwner(ctx, owner)
}

// Delete is the user-initiated removal path. Locked photos are rejected
// with domain.ErrPhotoLocked.
func (s *Service) Delete(ctx context.Context, owner domain.UserID, id domain.PhotoID) error {
	photo, err := s.repo.GetByOwner(ctx, owner, id)
	if err != nil {
		return err
	}
	if photo.Locked() {
		return domain.ErrPhotoLocked
	}
	if _, err := s.blobs.Delete(ctx, photo.BlobRef); err != nil && !errors.Is(err, blob.ErrNotFound) {
		return errors.Join(domain.ErrDependency, err)
	}
	return s.repo.MarkDeleted(ctx, id, s.now())
}

// Lock claims photos for an order. Idempotent per order; held photos fail
// with domain.ErrAlreadyLocked and nothing is claimed.
func (s *Service) Lock(ctx context.Context, ids []domain.PhotoID, orderID domain.OrderID) error {
	return s.repo.Lock(ctx, ids, orderID)
}

// Unlock releases photos held by the order. Used to roll back a failed
// order creation.
func (s *Service) Unlock(ctx context.Context, ids []domain.PhotoID, orderID domain.OrderID) error {
	return s.repo.Unlock(ctx, ids, orderID)
}

// ScheduleDeletion marks photos for removal at the given date. No data is
// removed here; the purge sweep does that once the date passes.
func (s *Service) ScheduleDeletion(ctx context.Context, ids []domain.PhotoID, at time.Time) error {
	return s.repo.ScheduleDeletion(ctx, ids, at)
}

// Purge removes photos whose scheduled deletion date is at or before
// beforeDate, deleting blobs and marking the records, and returns the total
// bytes reclaimed. A photo whose blob is already gone is logged and counted
// as zero bytes, never aborting the sweep; re-running is idempotent because
// purged photos carry a deleted-at marker.
func (s *Service) Purge(ctx context.Context, beforeDate time.Time, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 200
	}
	photos, err := s.repo.ListPurgeable(ctx, beforeDate, batchSize)
	if err != nil {
		return 0, err
	}

	var bytesFreed int64
	for _, photo := range photos {
		freed, err := s.blobs.Delete(ctx, photo.BlobRef)
		switch {
		case errors.Is(err, blob.ErrNotFound):
			s.logger.WithFields(log.Fields{
				"photo": photo.ID,
				"blob":  photo.BlobRef,
			}).Warn("blob already missing, purging record only")
		case err != nil:
			// Leave the record untouched; the next sweep retries it.
			s.logger.WithError(err).WithField("photo", photo.ID).Error("blob delete failed, skipping photo")
			continue
		}
		if err := s.repo.MarkDeleted(ctx, photo.ID, s.now()); err != nil {
			s.logger.WithError(err).WithField("photo", photo.ID).Error("mark deleted failed")
			continue
		}
		bytesFreed += freed
		metrics.PhotosPurged.Inc()
	}
	if bytesFreed > 0 {
		metrics.PurgeBytesFreed.Add(float64(bytesFreed))
	}
	return bytesFreed, nil
}
