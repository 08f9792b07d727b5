package domain

import "time"

// OrderStatus is the fulfillment state of an order. The lifecycle is linear
// and forward-only; see Next for the single legal successor of each state.
type OrderStatus string

const (
	StatusPending         OrderStatus = "pending"
	StatusPaymentVerified OrderStatus = "payment_verified"
	StatusProcessing      OrderStatus = "processing"
	StatusPrinted         OrderStatus = "printed"
	StatusShipped         OrderStatus = "shipped"
	StatusCompleted       OrderStatus = "completed"
)

// transitions is the full transition table. Each status maps to its only
// legal successor; completed has none.
var transitions = map[OrderStatus]OrderStatus{
	StatusPending:         StatusPaymentVerified,
	StatusPaymentVerified: StatusProcessing,
	StatusProcessing:      StatusPrinted,
	StatusPrinted:         StatusShipped,
	StatusShipped:         StatusCompleted,
}

// Next returns the single legal successor status, if any.
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := transitions[s]
	return next, ok
}

// CanTransitionTo reports whether moving to target is legal from s.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	next, ok := transitions[s]
	return ok && next == target
}

// Terminal reports whether the status has no outgoing transition.
func (s OrderStatus) Terminal() bool {
	_, ok := transitions[s]
	return !ok
}

// Known reports whether s is a recognised status value.
func (s OrderStatus) Known() bool {
	if _, ok := transitions[s]; ok {
		return true
	}
	return s == StatusCompleted
}

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentBranch     PaymentMethod = "branch_payment"
)

// PaymentStatus tracks the payment side independently of fulfillment.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusVerified   PaymentStatus = "verified"
)

// Address is the shipping destination. State selects the tax jurisdiction.
type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
}

// OrderLine is a frozen copy of a cart line. Never mutated after order
// creation.
type OrderLine struct {
	PhotoID        PhotoID `json:"photoId"`
	SizeCode       string  `json:"sizeCode"`
	SizeName       string  `json:"sizeName"`
	Quantity       int     `json:"quantity"`
	UnitPriceCents int64   `json:"unitPriceCents"`
	TotalCents     int64   `json:"totalCents"`
}

// StatusNote is one audit-trail entry recorded at a status transition.
type StatusNote struct {
	Status    OrderStatus `json:"status"`
	Note      string      `json:"note,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Order is a price-locked, immutable purchase created from a cart. Lines,
// Number, OwnerID and the money fields never change after creation; only
// status, payment status, timestamps and shipping metadata do. Orders are
// never physically deleted once created.
type Order struct {
	ID                OrderID       `json:"id"`
	Number            string        `json:"orderNumber"`
	OwnerID           UserID        `json:"-"`
	Lines             []OrderLine   `json:"lines"`
	ShippingAddress   Address       `json:"shippingAddress"`
	PaymentMethod     PaymentMethod `json:"paymentMethod"`
	PaymentBranch     string        `json:"paymentBranch,omitempty"`
	PaymentStatus     PaymentStatus `json:"paymentStatus"`
	Status            OrderStatus   `json:"status"`
	SubtotalCents     int64         `json:"subtotalCents"`
	TaxRateBps        int64         `json:"taxRateBps"`
	TaxAmountCents    int64         `json:"taxAmountCents"`
	TotalCents        int64         `json:"totalCents"`
	CreatedAt         time.Time     `json:"createdAt"`
	PaymentVerifiedAt *time.Time    `json:"paymentVerifiedAt,omitempty"`
	ShippedAt         *time.Time    `json:"shippedAt,omitempty"`
	CompletedAt       *time.Time    `json:"completedAt,omitempty"`
	TrackingNumber    *string       `json:"trackingNumber,omitempty"`
	Notes             []StatusNote  `json:"statusNotes,omitempty"`
}

// PhotoIDs returns the distinct photo ids referenced by the order's lines.
func (o Order) PhotoIDs() []PhotoID {
	seen := make(map[PhotoID]struct{}, len(o.Lines))
	ids := make([]PhotoID, 0, len(o.Lines))
	for _, l := range o.Lines {
		if _, ok := seen[l.PhotoID]; ok {
			continue
		}
		seen[l.PhotoID] = struct{}{}
		ids = append(ids, l.PhotoID)
	}
	return ids
}
