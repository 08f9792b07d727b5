package domain

import "github.com/google/uuid"

// UserID is the pre-authenticated identity the gateway injects. This
// service never mints user ids; it only scopes data by them.
type UserID string

// PhotoID identifies an uploaded photo.
type PhotoID string

// OrderID identifies an order. Distinct from the human-readable order
// number issued by the sequence generator.
type OrderID string

// CartID identifies a cart row.
type CartID string

func NewPhotoID() PhotoID { return PhotoID(uuid.NewString()) }

func NewOrderID() OrderID { return OrderID(uuid.NewString()) }

func NewCartID() CartID { return CartID(uuid.NewString()) }

func (id UserID) String() string  { return string(id) }
func (id PhotoID) String() string { return string(id) }
func (id OrderID) String() string { return string(id) }
func (id CartID) String() string  { return string(id) }
