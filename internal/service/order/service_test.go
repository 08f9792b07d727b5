package order

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoprint/internal/domain"
	cartrepo "photoprint/internal/repository/cart"
	orderrepo "photoprint/internal/repository/order"
	photorepo "photoprint/internal/repository/photo"
	seqrepo "photoprint/internal/repository/sequence"
	"photoprint/internal/service/payment"
	seqsvc "photoprint/internal/service/sequence"
	"photoprint/internal/service/tax"
)

const owner = domain.UserID("user-1")

var testTime = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

type stubProcessor struct {
	calls      int
	lastAmount int64
	err        error
}

func (p *stubProcessor) Authorize(_ context.Context, _ payment.CardDetails, amountCents int64) error {
	p.calls++
	p.lastAmount = amountCents
	return p.err
}

type fixture struct {
	svc       *Service
	orders    orderrepo.Repository
	carts     cartrepo.Repository
	photos    photorepo.Repository
	cipher    *payment.Cipher
	processor *stubProcessor
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	cipher, err := payment.NewCipher(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)

	f := &fixture{
		orders:    orderrepo.NewMemory(),
		carts:     cartrepo.NewMemory(),
		photos:    photorepo.NewMemory(),
		cipher:    cipher,
		processor: &stubProcessor{},
	}
	clock := func() time.Time { return testTime }
	numbers := seqsvc.NewGenerator(seqrepo.NewMemory(), seqsvc.WithClock(clock))
	opts = append([]Option{WithClock(clock)}, opts...)
	f.svc = New(
		f.orders,
		f.carts,
		f.photos,
		numbers,
		tax.NewStatic(tax.DefaultRates()),
		cipher,
		f.processor,
		payment.NewBranches([]string{"downtown", "eastside"}),
		30*24*time.Hour,
		opts...,
	)
	return f
}

func (f *fixture) seedCart(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []domain.Photo{
		{ID: "p1", OwnerID: owner, BlobRef: "blobs/p1", Filename: "p1.jpg", WidthPx: 3000, HeightPx: 4000, UploadedAt: testTime},
		{ID: "p2", OwnerID: owner, BlobRef: "blobs/p2", Filename: "p2.jpg", WidthPx: 3000, HeightPx: 4000, UploadedAt: testTime},
	} {
		require.NoError(t, f.photos.Create(ctx, p))
	}
	for _, line := range []domain.CartLine{
		{PhotoID: "p1", SizeCode: "4x6", SizeName: "4\" x 6\"", Quantity: 10, UnitPriceCents: 25, TotalCents: 250},
		{PhotoID: "p2", SizeCode: "8x10", SizeName: "8\" x 10\"", Quantity: 1, UnitPriceCents: 300, TotalCents: 300},
	} {
		require.NoError(t, f.carts.UpsertLine(ctx, owner, line))
	}
}

func shippingTo(state string) domain.Address {
	return domain.Address{
		Name:       "Alice Example",
		Line1:      "1 Main St",
		City:       "Boston",
		State:      state,
		PostalCode: "02108",
	}
}

func branchInput() CreateInput {
	return CreateInput{
		ShippingAddress: shippingTo("MA"),
		PaymentMethod:   domain.PaymentBranch,
		Branch:          "downtown",
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateOrder(context.Background(), owner, branchInput())
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCreateOrderBranchPayment(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, owner, branchInput())
	require.NoError(t, err)

	assert.Equal(t, "ORD-2026-000001", order.Number)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, "downtown", order.PaymentBranch)
	assert.Equal(t, int64(550), order.SubtotalCents)
	assert.Equal(t, int64(625), order.TaxRateBps)
	assert.Equal(t, int64(34), order.TaxAmountCents)
	assert.Equal(t, int64(584), order.TotalCents)
	require.Len(t, order.Lines, 2)

	// Photos are locked to the order and the cart is cleared.
	for _, id := range []domain.PhotoID{"p1", "p2"} {
		photo, err := f.photos.GetByOwner(ctx, owner, id)
		require.NoError(t, err)
		require.NotNil(t, photo.LockedByOrderID)
		assert.Equal(t, order.ID, *photo.LockedByOrderID)
	}
	cart, err := f.carts.GetByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestCreateOrderCreditCard(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t)

	envelope, err := f.cipher.Seal(payment.CardDetails{
		Number: "4242424242424242", Holder: "ALICE EXAMPLE", ExpiryMonth: 12, ExpiryYear: 2030, CVC: "123",
	})
	require.NoError(t, err)

	order, err := f.svc.CreateOrder(context.Background(), owner, CreateInput{
		ShippingAddress: shippingTo("MA"),
		PaymentMethod:   domain.PaymentCreditCard,
		CardEnvelope:    envelope,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentStatusProcessing, order.PaymentStatus)
	assert.Equal(t, 1, f.processor.calls)
	assert.Equal(t, int64(584), f.processor.lastAmount)
}

func TestCreateOrderCreditCardNotConfigured(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t)

	clock := func() time.Time { return testTime }
	svc := New(
		f.orders,
		f.carts,
		f.photos,
		seqsvc.NewGenerator(seqrepo.NewMemory(), seqsvc.WithClock(clock)),
		tax.NewStatic(tax.DefaultRates()),
		nil,
		f.processor,
		payment.NewBranches([]string{"downtown"}),
		30*24*time.Hour,
		WithClock(clock),
	)

	_, err := svc.CreateOrder(context.Background(), owner, CreateInput{
		ShippingAddress: shippingTo("MA"),
		PaymentMethod:   domain.PaymentCreditCard,
		CardEnvelope:    "irrelevant",
	})
	assert.ErrorIs(t, err, domain.ErrDependency)
	assert.Equal(t, 0, f.processor.calls)

	// Branch payment still works without a card key.
	order, err := svc.CreateOrder(context.Background(), owner, branchInput())
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
}

func TestCreateOrderUnreadableCardEnvelope(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t)

	_, err := f.svc.CreateOrder(context.Background(), owner, CreateInput{
		ShippingAddress: shippingTo("MA"),
		PaymentMethod:   domain.PaymentCreditCard,
		CardEnvelope:    "garbage",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, f.processor.calls)
}

func TestCreateOrderUnknownPaymentMethod(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t)

	_, err := f.svc.CreateOrder(context.Background(), owner, CreateInput{
		ShippingAddress: shippingTo("MA"),
		PaymentMethod:   "cash",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentMethod)
}

func TestCreateOrderUnknownBranch(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t)

	in := branchInput()
	in.Branch = "atlantis"
	_, err := f.svc.CreateOrder(context.Background(), owner, in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateOrderIncompleteAddress(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t)

	in := branchInput()
	in.ShippingAddress.PostalCode = ""
	_, err := f.svc.CreateOrder(context.Background(), owner, in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateOrderUnsupportedState(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t)

	in := branchInput()
	in.ShippingAddress.State = "ZZ"
	_, err := f.svc.CreateOrder(context.Background(), owner, in)
	assert.ErrorIs(t, err, domain.ErrUnsupportedJurisdiction)
}

func TestCreateOrderPhotoLockedByAnotherOrder(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t)
	ctx := context.Background()

	require.NoError(t, f.photos.Lock(ctx, []domain.PhotoID{"p1"}, "other-order"))

	_, err := f.svc.CreateOrder(ctx, owner, branchInput())
	assert.ErrorIs(t, err, domain.ErrPhotoUnavailable)

	// The stale cart survives for the user to fix.
	cart, err := f.carts.GetByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 2)
}

func TestCreateOrderPhotoDeleted(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t)
	ctx := context.Background()

	require.NoError(t, f.photos.MarkDeleted(ctx, "p2", testTime))

	_, err := f.svc.CreateOrder(ctx, owner, branchInput())
	assert.ErrorIs(t, err, domain.ErrPhotoUnavailable)
}

// raceLockRepo simulates another order claiming the photos between the
// availability check and the lock.
type raceLockRepo struct {
	photorepo.Repository
}

func (raceLockRepo) Lock(context.Context, []domain.PhotoID, domain.OrderID) error {
	return domain.ErrAlreadyLocked
}

func TestCreateOrderLockRaceRollsBackOrder(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t)
	ctx := context.Background()

	clock := func() time.Time { return testTime }
	svc := New(
		f.orders,
		f.carts,
		raceLockRepo{f.photos},
		seqsvc.NewGenerator(seqrepo.NewMemory(), seqsvc.WithClock(clock)),
		tax.NewStatic(tax.DefaultRates()),
		f.cipher,
		f.processor,
		payment.NewBranches([]string{"downtown"}),
		30*24*time.Hour,
		WithClock(clock),
	)

	_, err := svc.CreateOrder(ctx, owner, branchInput())
	assert.ErrorIs(t, err, domain.ErrPhotoUnavailable)

	// The half-created order was deleted again.
	orders, err := f.orders.ListByOwner(ctx, owner, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestTransitionFullLifecycle(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, owner, branchInput())
	require.NoError(t, err)

	order, err = f.svc.Transition(ctx, order.ID, domain.StatusPaymentVerified, TransitionInput{Note: "paid at branch"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusVerified, order.PaymentStatus)
	require.NotNil(t, order.PaymentVerifiedAt)
	assert.True(t, order.PaymentVerifiedAt.Equal(testTime))

	order, err = f.svc.Transition(ctx, order.ID, domain.StatusProcessing, TransitionInput{})
	require.NoError(t, err)
	order, err = f.svc.Transition(ctx, order.ID, domain.StatusPrinted, TransitionInput{})
	require.NoError(t, err)
	order, err = f.svc.Transition(ctx, order.ID, domain.StatusShipped, TransitionInput{})
	require.NoError(t, err)

	shipped := testTime.Add(48 * time.Hour)
	tracking := "1Z999AA10123456784"
	order, err = f.svc.Transition(ctx, order.ID, domain.StatusCompleted, TransitionInput{
		Note:           "delivered",
		ShippedDate:    &shipped,
		TrackingNumber: &tracking,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, order.Status)
	require.NotNil(t, order.ShippedAt)
	assert.True(t, order.ShippedAt.Equal(shipped))
	require.NotNil(t, order.CompletedAt)
	require.NotNil(t, order.TrackingNumber)
	assert.Equal(t, tracking, *order.TrackingNumber)

	// One note per transition plus the creation note.
	require.Len(t, order.Notes, 6)
	assert.Equal(t, "paid at branch", order.Notes[1].Note)
	assert.Equal(t, "delivered", order.Notes[5].Note)
}

func TestTransitionRejectsSkippedStep(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, owner, branchInput())
	require.NoError(t, err)

	_, err = f.svc.Transition(ctx, order.ID, domain.StatusProcessing, TransitionInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.svc.Transition(ctx, order.ID, domain.StatusCompleted, TransitionInput{ShippedDate: &testTime})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, owner, branchInput())
	require.NoError(t, err)

	_, err = f.svc.Transition(ctx, order.ID, "cancelled", TransitionInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTransitionCompletedRequiresShippedDate(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t)
	ctx := context.Background()

	order := walkToShipped(t, f, ctx)

	_, err := f.svc.Transition(ctx, order.ID, domain.StatusCompleted, TransitionInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTransitionCompletedSchedulesPhotoDeletion(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t)
	ctx := context.Background()

	order := walkToShipped(t, f, ctx)

	shipped := testTime.Add(24 * time.Hour)
	_, err := f.svc.Transition(ctx, order.ID, domain.StatusCompleted, TransitionInput{ShippedDate: &shipped})
	require.NoError(t, err)

	wantDeleteAt := testTime.Add(30 * 24 * time.Hour)
	for _, id := range []domain.PhotoID{"p1", "p2"} {
		photo, err := f.photos.GetByOwner(ctx, owner, id)
		require.NoError(t, err)
		require.NotNil(t, photo.ScheduledDelAt)
		assert.True(t, photo.ScheduledDelAt.Equal(wantDeleteAt))
	}
}

func walkToShipped(t *testing.T, f *fixture, ctx context.Context) *domain.Order {
	t.Helper()
	order, err := f.svc.CreateOrder(ctx, owner, branchInput())
	require.NoError(t, err)
	for _, status := range []domain.OrderStatus{
		domain.StatusPaymentVerified,
		domain.StatusProcessing,
		domain.StatusPrinted,
		domain.StatusShipped,
	} {
		order, err = f.svc.Transition(ctx, order.ID, status, TransitionInput{})
		require.NoError(t, err)
	}
	return order
}

func TestGetScopedToOwner(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, owner, branchInput())
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, "someone-else", order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.svc.GetAdmin(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestListByStatus(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, owner, branchInput())
	require.NoError(t, err)

	pending, err := f.svc.ListByStatus(ctx, domain.StatusPending, 10, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, order.ID, pending[0].ID)

	verified, err := f.svc.ListByStatus(ctx, domain.StatusPaymentVerified, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, verified)

	_, err = f.svc.ListByStatus(ctx, "bogus", 10, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
