package domain

import "time"

// PrintSize is a catalog entry for an orderable print format. UnitPriceCents
// is mutable by admins; carts and orders never read it directly, only
// through a pricing snapshot taken at selection time.
type PrintSize struct {
	SizeCode       string    `json:"sizeCode"`
	DisplayName    string    `json:"displayName"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Active         bool      `json:"active"`
	MinPixelWidth  int       `json:"minPixelWidth"`
	MinPixelHeight int       `json:"minPixelHeight"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FitsDimensions reports whether a photo of the given pixel dimensions meets
// the minimum resolution for this print size, in either orientation.
func (s PrintSize) FitsDimensions(widthPx, heightPx int) bool {
	if widthPx >= s.MinPixelWidth && heightPx >= s.MinPixelHeight {
		return true
	}
	return heightPx >= s.MinPixelWidth && widthPx >= s.MinPixelHeight
}
