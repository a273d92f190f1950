package memory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EthanNaitwe/KampalaGrocery/domain"
)

func TestSeedData(t *testing.T) {
	s := NewStore(WithSeedData())
	ctx := context.Background()

	categories, err := s.GetCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 4)

	products, err := s.GetProducts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, products, 6)

	// Seeded ids are dense, so the next product continues the sequence.
	p, err := s.CreateProduct(ctx, domain.ProductInput{Name: "Rice", Price: "6000", InStock: true})
	require.NoError(t, err)
	assert.Equal(t, 7, p.ID)
}

func TestProductIDsNeverReused(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := s.CreateProduct(ctx, domain.ProductInput{Name: name, Price: "100"})
		require.NoError(t, err)
	}

	require.NoError(t, s.DeleteProduct(ctx, 3))

	p, err := s.CreateProduct(ctx, domain.ProductInput{Name: "d", Price: "100"})
	require.NoError(t, err)
	assert.Equal(t, 4, p.ID, "freed id must not be reused")

	// But deleting the max id does free that id.
	require.NoError(t, s.DeleteProduct(ctx, 4))
	p, err = s.CreateProduct(ctx, domain.ProductInput{Name: "e", Price: "100"})
	require.NoError(t, err)
	assert.Equal(t, 4, p.ID)
}

func TestGetProductsFiltersByCategory(t *testing.T) {
	s := NewStore(WithSeedData())
	ctx := context.Background()

	products, err := s.GetProducts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, products, 2)
	for _, p := range products {
		assert.Equal(t, 2, p.CategoryID)
	}
}

func TestSearchProducts(t *testing.T) {
	s := NewStore(WithSeedData())
	ctx := context.Background()

	products, err := s.SearchProducts(ctx, "FRESH")
	require.NoError(t, err)
	// Matches name or description, case-insensitively.
	require.NotEmpty(t, products)
	for _, p := range products {
		match := strings.Contains(strings.ToLower(p.Name), "fresh") ||
			strings.Contains(strings.ToLower(p.Description), "fresh")
		assert.True(t, match, "product %q should match", p.Name)
	}

	none, err := s.SearchProducts(ctx, "no such thing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateProductPartial(t *testing.T) {
	s := NewStore(WithSeedData())
	ctx := context.Background()

	price := "9999"
	inStock := false
	p, err := s.UpdateProduct(ctx, 1, domain.ProductUpdate{Price: &price, InStock: &inStock})
	require.NoError(t, err)
	assert.Equal(t, "9999", p.Price)
	assert.False(t, p.InStock)
	assert.Equal(t, "Fresh Tomatoes", p.Name, "unset fields stay untouched")

	_, err = s.UpdateProduct(ctx, 999, domain.ProductUpdate{Price: &price})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestAddToCartMergesQuantity(t *testing.T) {
	s := NewStore(WithSeedData())
	ctx := context.Background()

	first, err := s.AddToCart(ctx, "u1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	merged, err := s.AddToCart(ctx, "u1", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, merged.ID, "same row, not a second one")
	assert.Equal(t, 5, merged.Quantity)

	entries, err := s.GetCartItems(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Fresh Tomatoes", entries[0].Product.Name)
}

func TestUpdateCartItemQuantity(t *testing.T) {
	s := NewStore(WithSeedData())
	ctx := context.Background()

	_, err := s.AddToCart(ctx, "u1", 1, 2)
	require.NoError(t, err)

	require.NoError(t, s.UpdateCartItemQuantity(ctx, "u1", 1, 7))
	entries, err := s.GetCartItems(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 7, entries[0].Quantity)

	// Zero or negative deletes the row.
	require.NoError(t, s.UpdateCartItemQuantity(ctx, "u1", 1, 0))
	entries, err = s.GetCartItems(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	err = s.UpdateCartItemQuantity(ctx, "u1", 1, 3)
	assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
}

func TestRemoveFromCartIdempotent(t *testing.T) {
	s := NewStore(WithSeedData())
	ctx := context.Background()

	_, err := s.AddToCart(ctx, "u1", 1, 1)
	require.NoError(t, err)

	require.NoError(t, s.RemoveFromCart(ctx, "u1", 1))
	require.NoError(t, s.RemoveFromCart(ctx, "u1", 1), "second remove is a no-op")
}

func TestCartHidesDeletedProducts(t *testing.T) {
	s := NewStore(WithSeedData())
	ctx := context.Background()

	_, err := s.AddToCart(ctx, "u1", 1, 1)
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, "u1", 2, 1)
	require.NoError(t, err)

	require.NoError(t, s.DeleteProduct(ctx, 1))

	entries, err := s.GetCartItems(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].ProductID)
}

func TestCreateOrderClearsOwnerCartOnly(t *testing.T) {
	s := NewStore(WithSeedData())
	ctx := context.Background()

	_, err := s.AddToCart(ctx, "u1", 1, 2)
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, "u2", 2, 1)
	require.NoError(t, err)

	order, err := s.CreateOrder(ctx,
		domain.OrderInput{UserID: "u1", Total: "5000"},
		[]domain.OrderLineInput{{ProductID: 1, Quantity: 2, Price: "2500"}},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, order.ID)
	assert.Equal(t, domain.OrderPending, order.Status)

	mine, err := s.GetCartItems(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, mine, "checkout empties the owner's cart")

	theirs, err := s.GetCartItems(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, theirs, 1, "other carts are untouched")

	detail, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, detail.OrderItems, 1)
	assert.Equal(t, "2500", detail.OrderItems[0].Price)
	assert.Equal(t, 2, detail.OrderItems[0].Quantity)
}

func TestOrderLinePriceSurvivesCatalogChange(t *testing.T) {
	s := NewStore(WithSeedData())
	ctx := context.Background()

	order, err := s.CreateOrder(ctx,
		domain.OrderInput{UserID: "u1", Total: "2500"},
		[]domain.OrderLineInput{{ProductID: 1, Quantity: 1, Price: "2500"}},
	)
	require.NoError(t, err)

	newPrice := "9000"
	_, err = s.UpdateProduct(ctx, 1, domain.ProductUpdate{Price: &newPrice})
	require.NoError(t, err)

	detail, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, detail.OrderItems, 1)
	assert.Equal(t, "2500", detail.OrderItems[0].Price, "line price is a snapshot")
	assert.Equal(t, "9000", detail.OrderItems[0].Product.Price, "joined product is current")
}

func TestGetOrdersJoinsOwners(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, &domain.User{PhoneNumber: "+256700000001"})
	require.NoError(t, err)

	_, err = s.CreateOrder(ctx, domain.OrderInput{UserID: u.ID, Total: "100"}, nil)
	require.NoError(t, err)
	_, err = s.CreateOrder(ctx, domain.OrderInput{UserID: "ghost", Total: "200"}, nil)
	require.NoError(t, err)

	orders, err := s.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1, "orders with no owning user are dropped")
	assert.Equal(t, u.ID, orders[0].User.ID)
}

func TestUpdateOrderStatus(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	order, err := s.CreateOrder(ctx, domain.OrderInput{UserID: "u1", Total: "100"}, nil)
	require.NoError(t, err)

	updated, err := s.UpdateOrderStatus(ctx, order.ID, domain.OrderDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderDelivered, updated.Status)

	_, err = s.UpdateOrderStatus(ctx, 999, domain.OrderDelivered)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOtpChallengeLifecycle(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	created, err := s.CreateOtpChallenge(ctx, &domain.OtpChallenge{
		PhoneNumber: "+256700000001",
		Code:        "1234",
		ExpiresAt:   time.Now().Add(10 * time.Minute),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.GetOtpChallenge(ctx, "+256700000001", "1234")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = s.GetOtpChallenge(ctx, "+256700000001", "0000")
	assert.ErrorIs(t, err, domain.ErrOTPInvalidOrExpired)

	require.NoError(t, s.MarkOtpVerified(ctx, created.ID))
	_, err = s.GetOtpChallenge(ctx, "+256700000001", "1234")
	assert.ErrorIs(t, err, domain.ErrOTPInvalidOrExpired, "verified challenge never matches again")
}

func TestExpiredOtpChallengeNeverMatches(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.CreateOtpChallenge(ctx, &domain.OtpChallenge{
		PhoneNumber: "+256700000001",
		Code:        "1234",
		ExpiresAt:   time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	_, err = s.GetOtpChallenge(ctx, "+256700000001", "1234")
	assert.ErrorIs(t, err, domain.ErrOTPInvalidOrExpired)
}

func TestSessionUpsert(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	sess := &domain.Session{
		SID:    "sid-1",
		Data:   domain.SessionData{UserID: "u1", PhoneNumber: "+256700000001"},
		Expire: time.Now().Add(time.Hour),
	}
	require.NoError(t, s.CreateSession(ctx, sess))

	got, err := s.GetSession(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.Data.UserID)

	sess.Expire = sess.Expire.Add(time.Hour)
	require.NoError(t, s.UpdateSession(ctx, sess))

	// Updating an unknown sid inserts it.
	other := &domain.Session{SID: "sid-2", Expire: time.Now().Add(time.Hour)}
	require.NoError(t, s.UpdateSession(ctx, other))
	_, err = s.GetSession(ctx, "sid-2")
	require.NoError(t, err)

	require.NoError(t, s.DeleteSession(ctx, "sid-1"))
	_, err = s.GetSession(ctx, "sid-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	require.NoError(t, s.DeleteSession(ctx, "sid-1"), "deleting a missing sid is not an error")
}

func TestUserFindAndUpdate(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, &domain.User{PhoneNumber: "+256700000001"})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)

	byPhone, err := s.GetUserByPhone(ctx, "+256700000001")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byPhone.ID)

	_, err = s.GetUserByPhone(ctx, "+256700000002")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	first := "Asha"
	admin := true
	updated, err := s.UpdateUser(ctx, u.ID, domain.UserUpdate{FirstName: &first, IsAdmin: &admin})
	require.NoError(t, err)
	assert.Equal(t, "Asha", updated.FirstName)
	assert.True(t, updated.IsAdmin)
}
