package sheets_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EthanNaitwe/KampalaGrocery/domain"
	"github.com/EthanNaitwe/KampalaGrocery/internal/infrastructure/storage/sheets"
	"github.com/EthanNaitwe/KampalaGrocery/internal/mocks"
)

func newStore(t *testing.T) *sheets.Store {
	t.Helper()
	s := sheets.NewStore(mocks.NewMockRowAPI())
	require.NoError(t, s.Init(context.Background()))
	return s
}

func TestInitFailsWhenBackendDown(t *testing.T) {
	s := sheets.NewStore(mocks.NewFailingRowAPI())
	err := s.Init(context.Background())
	assert.ErrorIs(t, err, mocks.ErrRowAPIDown)
}

func TestProductRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created, err := s.CreateProduct(ctx, domain.ProductInput{
		Name:        "Fresh Tomatoes",
		Description: "Locally grown",
		Price:       "2500",
		CategoryID:  1,
		InStock:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	got, err := s.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Fresh Tomatoes", got.Name)
	assert.Equal(t, "2500", got.Price)
	assert.Equal(t, 1, got.CategoryID)
	assert.True(t, got.InStock)

	_, err = s.GetProduct(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductIDsSurviveDeletes(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := s.CreateProduct(ctx, domain.ProductInput{Name: name, Price: "100"})
		require.NoError(t, err)
	}
	require.NoError(t, s.DeleteProduct(ctx, 2))

	p, err := s.CreateProduct(ctx, domain.ProductInput{Name: "d", Price: "100"})
	require.NoError(t, err)
	assert.Equal(t, 4, p.ID, "max+1 over surviving rows")

	products, err := s.GetProducts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func TestUpdateProductWritesBackRow(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.CreateProduct(ctx, domain.ProductInput{Name: "Milk", Price: "4500", InStock: true})
	require.NoError(t, err)

	price := "5000"
	inStock := false
	updated, err := s.UpdateProduct(ctx, 1, domain.ProductUpdate{Price: &price, InStock: &inStock})
	require.NoError(t, err)
	assert.Equal(t, "5000", updated.Price)
	assert.False(t, updated.InStock)

	got, err := s.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "5000", got.Price)
	assert.Equal(t, "Milk", got.Name)
}

func TestSearchProductsMatchesNameAndDescription(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.CreateProduct(ctx, domain.ProductInput{Name: "Fresh Milk", Description: "Farm fresh", Price: "4500"})
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, domain.ProductInput{Name: "Bread", Description: "Baked fresh daily", Price: "2000"})
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, domain.ProductInput{Name: "Rice", Description: "Long grain", Price: "6000"})
	require.NoError(t, err)

	found, err := s.SearchProducts(ctx, "fresh")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestCartMergeAndClear(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.CreateProduct(ctx, domain.ProductInput{Name: "Milk", Price: "4500"})
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, domain.ProductInput{Name: "Bread", Price: "2000"})
	require.NoError(t, err)

	item, err := s.AddToCart(ctx, "u1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	merged, err := s.AddToCart(ctx, "u1", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, merged.Quantity)
	assert.Equal(t, item.ID, merged.ID)

	_, err = s.AddToCart(ctx, "u1", 2, 1)
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, "u2", 2, 4)
	require.NoError(t, err)

	require.NoError(t, s.ClearCart(ctx, "u1"))

	mine, err := s.GetCartItems(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := s.GetCartItems(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, 4, theirs[0].Quantity)
}

func TestUpdateCartItemQuantityDeletesAtZero(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.CreateProduct(ctx, domain.ProductInput{Name: "Milk", Price: "4500"})
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, "u1", 1, 2)
	require.NoError(t, err)

	require.NoError(t, s.UpdateCartItemQuantity(ctx, "u1", 1, 0))

	entries, err := s.GetCartItems(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	err = s.UpdateCartItemQuantity(ctx, "u1", 1, 1)
	assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
}

func TestCreateOrderWritesLinesAndClearsCart(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, &domain.User{ID: "u1", PhoneNumber: "+256700000001"})
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, domain.ProductInput{Name: "Milk", Price: "4500"})
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, "u1", 1, 2)
	require.NoError(t, err)

	order, err := s.CreateOrder(ctx,
		domain.OrderInput{UserID: "u1", Total: "9000", DeliveryAddress: "Plot 5, Kampala Rd"},
		[]domain.OrderLineInput{{ProductID: 1, Quantity: 2, Price: "4500"}},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, order.ID)
	assert.Equal(t, domain.OrderPending, order.Status)

	entries, err := s.GetCartItems(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	detail, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "9000", detail.Total)
	require.Len(t, detail.OrderItems, 1)
	assert.Equal(t, "4500", detail.OrderItems[0].Price)
	assert.Equal(t, "Milk", detail.OrderItems[0].Product.Name)

	withUsers, err := s.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, withUsers, 1)
	assert.Equal(t, "+256700000001", withUsers[0].User.PhoneNumber)
}

func TestOtpChallengeSingleUse(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created, err := s.CreateOtpChallenge(ctx, &domain.OtpChallenge{
		PhoneNumber: "+256700000001",
		Code:        "4321",
		ExpiresAt:   time.Now().Add(10 * time.Minute),
	})
	require.NoError(t, err)

	got, err := s.GetOtpChallenge(ctx, "+256700000001", "4321")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	require.NoError(t, s.MarkOtpVerified(ctx, created.ID))

	_, err = s.GetOtpChallenge(ctx, "+256700000001", "4321")
	assert.ErrorIs(t, err, domain.ErrOTPInvalidOrExpired)
}

func TestSessionRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	expire := time.Now().Add(time.Hour).Truncate(time.Second)
	sess := &domain.Session{
		SID:    "sid-1",
		Data:   domain.SessionData{UserID: "u1", PhoneNumber: "+256700000001"},
		Expire: expire,
	}
	require.NoError(t, s.CreateSession(ctx, sess))

	got, err := s.GetSession(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.Data.UserID)
	assert.Equal(t, "+256700000001", got.Data.PhoneNumber)
	assert.True(t, got.Expire.Equal(expire), "expire survives the string codec")

	require.NoError(t, s.DeleteSession(ctx, "sid-1"))
	_, err = s.GetSession(ctx, "sid-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestReadErrorsPropagate(t *testing.T) {
	s := sheets.NewStore(mocks.NewFailingRowAPI())
	ctx := context.Background()

	_, err := s.GetProducts(ctx, 0)
	assert.ErrorIs(t, err, mocks.ErrRowAPIDown)

	_, err = s.AddToCart(ctx, "u1", 1, 1)
	assert.ErrorIs(t, err, mocks.ErrRowAPIDown)

	_, err = s.CreateOrder(ctx, domain.OrderInput{UserID: "u1"}, nil)
	assert.ErrorIs(t, err, mocks.ErrRowAPIDown)
}
