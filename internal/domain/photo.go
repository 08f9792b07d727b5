package domain

import "time"

// Photo is the metadata record for an uploaded photograph. The bytes live in
// the blob store under BlobRef; this record tracks ownership, the order lock
// and the deletion schedule.
type Photo struct {
	ID              PhotoID    `json:"id"`
	OwnerID         UserID     `json:"-"`
	BlobRef         string     `json:"-"`
	Filename        string     `json:"filename"`
	WidthPx         int        `json:"widthPx"`
	HeightPx        int        `json:"heightPx"`
	SizeBytes       int64      `json:"sizeBytes"`
	UploadedAt      time.Time  `json:"uploadedAt"`
	LockedByOrderID *OrderID   `json:"lockedByOrderId,omitempty"`
	ScheduledDelAt  *time.Time `json:"scheduledDeletionAt,omitempty"`
	DeletedAt       *time.Time `json:"-"`
}

// Locked reports whether the photo is referenced by an order and therefore
// protected from deletion.
func (p Photo) Locked() bool { return p.LockedByOrderID != nil }

// Deletable reports whether the owner may manually delete the photo.
func (p Photo) Deletable() bool { return !p.Locked() && p.DeletedAt == nil }
