package domain

import "time"

// Cart is the per-user mutable set of print selections. One cart per user,
// created lazily on first write.
type Cart struct {
	ID        CartID     `json:"id"`
	OwnerID   UserID     `json:"-"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"lastModified"`
}

// CartLine is one (photo, print size) selection. UnitPriceCents is captured
// from the catalog once, when the line is created or updated, and is never
// re-read while the line exists.
type CartLine struct {
	PhotoID        PhotoID `json:"photoId"`
	SizeCode       string  `json:"sizeCode"`
	SizeName       string  `json:"sizeName"`
	Quantity       int     `json:"quantity"`
	UnitPriceCents int64   `json:"unitPriceCents"`
	TotalCents     int64   `json:"totalCents"`
}

// CartSummary is the display rollup for a cart. Tax here is an estimate at a
// default rate; the authoritative tax is computed at order creation once the
// shipping state is known.
type CartSummary struct {
	PhotoCount        int   `json:"photoCount"`
	PrintCount        int   `json:"printCount"`
	SubtotalCents     int64 `json:"subtotalCents"`
	EstimatedTaxBps   int64 `json:"estimatedTaxBps"`
	EstimatedTaxCents int64 `json:"estimatedTaxCents"`
	EstimatedTotal    int64 `json:"estimatedTotalCents"`
}

// SubtotalCents sums the frozen line totals.
func (c Cart) SubtotalCents() int64 {
	var sum int64
	for _, l := range c.Lines {
		sum += l.TotalCents
	}
	return sum
}

// PhotoIDs returns the distinct photo ids referenced by the cart, in line
// order.
func (c Cart) PhotoIDs() []PhotoID {
	seen := make(map[PhotoID]struct{}, len(c.Lines))
	ids := make([]PhotoID, 0, len(c.Lines))
	for _, l := range c.Lines {
		if _, ok := seen[l.PhotoID]; ok {
			continue
		}
		seen[l.PhotoID] = struct{}{}
		ids = append(ids, l.PhotoID)
	}
	return ids
}
