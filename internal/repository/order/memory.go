package order

import (
	"context"
	"sort"
	"sync"
	"time"

	"photoprint/internal/domain"
)

type memoryRepo struct {
	mu     sync.RWMutex
	orders map[domain.OrderID]domain.Order
}

// NewMemory returns an in-memory order store for tests and local runs.
func NewMemory() Repository {
	return &memoryRepo{orders: make(map[domain.OrderID]domain.Order)}
}

func (r *memoryRepo) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[o.ID]; exists {
		return domain.ErrAlreadyExists
	}
	r.orders[o.ID] = copyOrder(*o)
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id domain.OrderID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copyOrder(o)
	return &out, nil
}

func (r *memoryRepo) GetByOwner(_ context.Context, owner domain.UserID, id domain.OrderID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok || o.OwnerID != owner {
		return nil, domain.ErrNotFound
	}
	out := copyOrder(o)
	return &out, nil
}

func (r *memoryRepo) ListByOwner(_ context.Context, owner domain.UserID, limit, offset int) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	orders := r.collect(func(o domain.Order) bool { return o.OwnerID == owner })
	// Owner listings are newest first, matching the backing store's ordering.
	sort.Slice(orders, func(i, j int) bool { return orders[j].CreatedAt.Before(orders[i].CreatedAt) })
	return page(orders, limit, offset), nil
}

func (r *memoryRepo) ListByStatus(_ context.Context, status domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return page(r.collect(func(o domain.Order) bool { return o.Status == status }), limit, offset), nil
}

func (r *memoryRepo) ListCreatedBetween(_ context.Context, from, to time.Time, limit, offset int) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return page(r.collect(func(o domain.Order) bool {
		return !o.CreatedAt.Before(from) && o.CreatedAt.Before(to)
	}), limit, offset), nil
}

func (r *memoryRepo) UpdateStatus(_ context.Context, id domain.OrderID, upd StatusUpdate) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if o.Status != upd.From {
		return nil, domain.ErrInvalidTransition
	}
	o.Status = upd.To
	if upd.PaymentVerifiedAt != nil {
		o.PaymentVerifiedAt = upd.PaymentVerifiedAt
		o.PaymentStatus = domain.PaymentStatusVerified
	}
	if upd.ShippedAt != nil {
		o.ShippedAt = upd.ShippedAt
	}
	if upd.CompletedAt != nil {
		o.CompletedAt = upd.CompletedAt
	}
	if upd.TrackingNumber != nil {
		o.TrackingNumber = upd.TrackingNumber
	}
	o.Notes = append(o.Notes, domain.StatusNote{Status: upd.To, Note: upd.Note, CreatedAt: upd.At})
	r.orders[id] = copyOrder(o)
	out := copyOrder(o)
	return &out, nil
}

func (r *memoryRepo) Delete(_ context.Context, id domain.OrderID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
	return nil
}

func (r *memoryRepo) collect(keep func(domain.Order) bool) []domain.Order {
	var orders []domain.Order
	for _, o := range r.orders {
		if keep(o) {
			orders = append(orders, copyOrder(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.Before(orders[j].CreatedAt) })
	return orders
}

func page(orders []domain.Order, limit, offset int) []domain.Order {
	if offset >= len(orders) {
		return nil
	}
	orders = orders[offset:]
	if limit > 0 && limit < len(orders) {
		orders = orders[:limit]
	}
	return orders
}

func copyOrder(o domain.Order) domain.Order {
	o.Lines = append([]domain.OrderLine(nil), o.Lines...)
	o.Notes = append([]domain.StatusNote(nil), o.Notes...)
	return o
}
