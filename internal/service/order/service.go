package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"photoprint/internal/domain"
	"photoprint/internal/metrics"
	orderrepo "photoprint/internal/repository/order"
	"photoprint/internal/service/payment"
	"photoprint/internal/service/tax"
)

type cartRepo interface {
	GetByOwner(ctx context.Context, owner domain.UserID) (*domain.Cart, error)
	Clear(ctx context.Context, owner domain.UserID) error
}

type photoRepo interface {
	GetByOwner(ctx context.Context, owner domain.UserID, id domain.PhotoID) (*domain.Photo, error)
	Lock(ctx context.Context, ids []domain.PhotoID, orderID domain.OrderID) error
	ScheduleDeletion(ctx context.Context, ids []domain.PhotoID, at time.Time) error
}

type numberSource interface {
	OrderNumber(ctx context.Context) (string, error)
}

// Service converts carts into immutable orders and drives the forward-only
// status state machine through to completion.
type Service struct {
	orders    orderrepo.Repository
	carts     cartRepo
	photos    photoRepo
	numbers   numberSource
	tax       tax.Calculator
	cipher    *payment.Cipher
	processor payment.Processor
	branches  payment.Branches
	retention time.Duration
	logger    *log.Entry
	now       func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(
	orders orderrepo.Repository,
	carts cartRepo,
	photos photoRepo,
	numbers numberSource,
	taxCalc tax.Calculator,
	cipher *payment.Cipher,
	processor payment.Processor,
	branches payment.Branches,
	retention time.Duration,
	opts ...Option,
) *Service {
	s := &Service{
		orders:    orders,
		carts:     carts,
		photos:    photos,
		numbers:   numbers,
		tax:       taxCalc,
		cipher:    cipher,
		processor: processor,
		branches:  branches,
		retention: retention,
		logger:    log.WithField("component", "order-lifecycle"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput carries everything needed to convert a cart into an order.
type CreateInput struct {
	ShippingAddress domain.Address
	PaymentMethod   domain.PaymentMethod
	// CardEnvelope is the encrypted card payload for credit_card orders.
	CardEnvelope string
	// Branch is the branch code for branch_payment orders.
	Branch string
}

// CreateOrder converts the owner's cart into a price-locked order. The cart
// is read-only input here; it is cleared only after the order is persisted
// and every referenced photo is locked, so a duplicate submit observes
// either an empty cart or photos already locked by the first order, never
// a second order.
func (s *Service) CreateOrder(ctx context.Context, owner domain.UserID, in CreateInput) (*domain.Order, error) {
	if err := validateAddress(in.ShippingAddress); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// Re-validate every referenced photo: cart lines can go stale if a
	// photo was deleted or claimed by another order since they were added.
	photoIDs := cart.PhotoIDs()
	for _, id := range photoIDs {
		photo, err := s.photos.GetByOwner(ctx, owner, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: photo %s", domain.ErrPhotoUnavailable, id)
			}
			return nil, err
		}
		if photo.Locked() {
			return nil, fmt.Errorf("%w: photo %s", domain.ErrPhotoUnavailable, id)
		}
	}

	subtotal := cart.SubtotalCents()
	taxes, err := s.tax.Compute(ctx, subtotal, in.ShippingAddress.State)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedJurisdiction) {
			return nil, err
		}
		return nil, errors.Join(domain.ErrDependency, err)
	}

	now := s.now()
	order := &domain.Order{
		ID:              domain.NewOrderID(),
		OwnerID:         owner,
		Lines:           freezeLines(cart.Lines),
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		Status:          domain.StatusPending,
		SubtotalCents:   subtotal,
		TaxRateBps:      taxes.RateBps,
		TaxAmountCents:  taxes.TaxCents,
		TotalCents:      taxes.TotalCents,
		CreatedAt:       now,
		Notes:           []domain.StatusNote{{Status: domain.StatusPending, Note: "order created", CreatedAt: now}},
	}

	if err := s.applyPayment(ctx, order, in); err != nil {
		return nil, err
	}

	number, err := s.numbers.OrderNumber(ctx)
	if err != nil {
		return nil, errors.Join(domain.ErrDependency, err)
	}
	order.Number = number

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	// Lock before clearing the cart. A crash after the lock leaves stale
	// cart lines, but the lock itself stops those lines from ever producing
	// a second order.
	if err := s.photos.Lock(ctx, photoIDs, order.ID); err != nil {
		if delErr := s.orders.Delete(ctx, order.ID); delErr != nil {
			s.logger.WithError(delErr).WithField("order", order.ID).Error("rollback of unlockable order failed")
		}
		if errors.Is(err, domain.ErrAlreadyLocked) {
			return nil, fmt.Errorf("%w: claimed by a concurrent order", domain.ErrPhotoUnavailable)
		}
		return nil, err
	}

	// Clearing last keeps the whole flow safe to retry; failure here only
	// leaves stale lines that the lock check above already neutralizes.
	if err := s.carts.Clear(ctx, owner); err != nil {
		s.logger.WithError(err).WithField("owner", owner).Warn("cart clear after order creation failed")
	}

	metrics.OrdersCreated.Inc()
	s.logger.WithFields(log.Fields{
		"order":       order.ID,
		"number":      order.Number,
		"total_cents": order.TotalCents,
	}).Info("order created")
	return order, nil
}

// TransitionInput carries one admin status advance.
type TransitionInput struct {
	Note string
	// ShippedDate is required when entering completed.
	ShippedDate    *time.Time
	TrackingNumber *string
}

// Transition advances the order to newStatus, which must be the single
// legal next step from its current status. The write is conditional on the
// stored status, so racing admins cannot both advance the same order.
// Entering completed schedules deletion of the order's photos after the
// retention window; that is the sole trigger for photo deletion.
func (s *Service) Transition(ctx context.Context, id domain.OrderID, newStatus domain.OrderStatus, in TransitionInput) (*domain.Order, error) {
	if !newStatus.Known() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, newStatus)
	}

	current, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, newStatus)
	}

	now := s.now()
	upd := orderrepo.StatusUpdate{
		From: current.Status,
		To:   newStatus,
		Note: in.Note,
		At:   now,
	}
	switch newStatus {
	case domain.StatusPaymentVerified:
		upd.PaymentVerifiedAt = &now
	case domain.StatusCompleted:
		if in.ShippedDate == nil {
			return nil, fmt.Errorf("%w: shipping date required to complete an order", domain.ErrValidation)
		}
		upd.ShippedAt = in.ShippedDate
		upd.CompletedAt = &now
		upd.TrackingNumber = in.TrackingNumber
	}

	updated, err := s.orders.UpdateStatus(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	metrics.OrderTransitions.WithLabelValues(string(newStatus)).Inc()

	if newStatus == domain.StatusCompleted {
		deleteAt := now.Add(s.retention)
		if err := s.photos.ScheduleDeletion(ctx, updated.PhotoIDs(), deleteAt); err != nil {
			s.logger.WithError(err).WithField("order", id).Error("scheduling photo deletion failed")
			return nil, errors.Join(domain.ErrDependency, err)
		}
		s.logger.WithFields(log.Fields{
			"order":     id,
			"delete_at": deleteAt,
		}).Info("order completed, photo deletion scheduled")
	}
	return updated, nil
}

// Get returns an order scoped to its owner.
func (s *Service) Get(ctx context.Context, owner domain.UserID, id domain.OrderID) (*domain.Order, error) {
	return s.orders.GetByOwner(ctx, owner, id)
}

// GetAdmin returns any order by id.
func (s *Service) GetAdmin(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// ListByOwner returns a page of the owner's orders, newest first.
func (s *Service) ListByOwner(ctx context.Context, owner domain.UserID, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.orders.ListByOwner(ctx, owner, limit, offset)
}

// ListByStatus returns a page of orders in the given status, oldest first,
// for the operations queue.
func (s *Service) ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	if !status.Known() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.orders.ListByStatus(ctx, status, limit, offset)
}

func (s *Service) applyPayment(ctx context.Context, order *domain.Order, in CreateInput) error {
	switch in.PaymentMethod {
	case domain.PaymentCreditCard:
		if s.cipher == nil {
			return fmt.Errorf("%w: card payments not configured", domain.ErrDependency)
		}
		card, err := s.cipher.Open(in.CardEnvelope)
		if err != nil {
			return fmt.Errorf("%w: card payload unreadable", domain.ErrValidation)
		}
		if err := s.processor.Authorize(ctx, card, order.TotalCents); err != nil {
			return errors.Join(domain.ErrDependency, err)
		}
		order.PaymentStatus = domain.PaymentStatusProcessing
	case domain.PaymentBranch:
		if !s.branches.Valid(in.Branch) {
			return fmt.Errorf("%w: unknown branch %q", domain.ErrValidation, in.Branch)
		}
		order.PaymentBranch = strings.ToLower(strings.TrimSpace(in.Branch))
		// Awaiting in-person verification at the branch.
		order.PaymentStatus = domain.PaymentStatusPending
	default:
		return domain.ErrInvalidPaymentMethod
	}
	return nil
}

func validateAddress(addr domain.Address) error {
	switch {
	case strings.TrimSpace(addr.Name) == "":
		return fmt.Errorf("%w: shipping name required", domain.ErrValidation)
	case strings.TrimSpace(addr.Line1) == "":
		return fmt.Errorf("%w: shipping address line required", domain.ErrValidation)
	case strings.TrimSpace(addr.City) == "":
		return fmt.Errorf("%w: shipping city required", domain.ErrValidation)
	case strings.TrimSpace(addr.State) == "":
		return fmt.Errorf("%w: shipping state required", domain.ErrValidation)
	case strings.TrimSpace(addr.PostalCode) == "":
		return fmt.Errorf("%w: shipping postal code required", domain.ErrValidation)
	}
	return nil
}

func freezeLines(lines []domain.CartLine) []domain.OrderLine {
	frozen := make([]domain.OrderLine, len(lines))
	for i, l := range lines {
		frozen[i] = domain.OrderLine{
			PhotoID:        l.PhotoID,
			SizeCode:       l.SizeCode,
			SizeName:       l.SizeName,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			TotalCents:     l.TotalCents,
		}
	}
	return frozen
}
