package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalauth "github.com/kisanbazar/kisanbazar-backend/internal/auth"
	"github.com/kisanbazar/kisanbazar-backend/internal/cart"
	"github.com/kisanbazar/kisanbazar-backend/internal/products"
	"github.com/kisanbazar/kisanbazar-backend/internal/users"
	pkgauth "github.com/kisanbazar/kisanbazar-backend/pkg/auth"
	"github.com/kisanbazar/kisanbazar-backend/pkg/config"
	"github.com/kisanbazar/kisanbazar-backend/pkg/db"
	"github.com/kisanbazar/kisanbazar-backend/pkg/enums"
)

type flowSessionManager struct {
	refreshTokens map[string]string
}

func (s *flowSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	s.refreshTokens[accessID] = token
	return token, nil
}

func (s *flowSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	if s.refreshTokens[oldAccessID] != provided {
		return "", "", fmt.Errorf("refresh token mismatch")
	}
	delete(s.refreshTokens, oldAccessID)
	next := uuid.NewString()
	return next, "refresh-" + next, nil
}

func (s *flowSessionManager) Revoke(_ context.Context, accessID string) error {
	delete(s.refreshTokens, accessID)
	return nil
}

type flowCartStore struct {
	byUser map[uuid.UUID]*cart.Cart
}

func (s *flowCartStore) Load(_ context.Context, userID uuid.UUID) (*cart.Cart, error) {
	if c, ok := s.byUser[userID]; ok {
		clone := *c
		clone.Items = append([]cart.CartItem(nil), c.Items...)
		return &clone, nil
	}
	return &cart.Cart{Items: []cart.CartItem{}}, nil
}

func (s *flowCartStore) Save(_ context.Context, userID uuid.UUID, c *cart.Cart) error {
	clone := *c
	clone.Items = append([]cart.CartItem(nil), c.Items...)
	s.byUser[userID] = &clone
	return nil
}

func (s *flowCartStore) Clear(_ context.Context, userID uuid.UUID) error {
	delete(s.byUser, userID)
	return nil
}

// Walks the whole consumer journey against one database: register both
// parties, log the consumer in, stock a listing, fill the cart, and check
// out. The order must capture the price at purchase time.
func TestConsumerJourneyFromRegisterToOrder(t *testing.T) {
	gdb := setupOrdersTestDB(t, "orders_flow")
	require.NoError(t, gdb.Exec(`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'consumer',
  phone TEXT,
  address TEXT,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)

	ctx := context.Background()
	jwtCfg := config.JWTConfig{Secret: "flow-secret", Issuer: "kisanbazar", ExpirationMinutes: 30}
	passwordCfg := config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}
	sessions := &flowSessionManager{refreshTokens: map[string]string{}}

	registerSvc, err := internalauth.NewRegisterService(internalauth.RegisterServiceParams{
		DB:             db.NewWithConn(gdb),
		SessionManager: sessions,
		PasswordConfig: passwordCfg,
		JWTConfig:      jwtCfg,
	})
	require.NoError(t, err)

	farmerResp, err := registerSvc.Register(ctx, internalauth.RegisterRequest{
		Name:     "Meera Patel",
		Email:    "meera@example.com",
		Password: "springharvest1",
		Role:     "farmer",
	})
	require.NoError(t, err)

	_, err = registerSvc.Register(ctx, internalauth.RegisterRequest{
		Name:     "Arjun Rao",
		Email:    "arjun@example.com",
		Password: "weeklybasket1",
		Role:     "consumer",
	})
	require.NoError(t, err)

	userRepo := users.NewRepository(gdb)
	loginSvc, err := internalauth.NewService(internalauth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessions,
		JWTConfig:      jwtCfg,
	})
	require.NoError(t, err)

	login, err := loginSvc.Login(ctx, internalauth.LoginRequest{Email: "arjun@example.com", Password: "weeklybasket1"})
	require.NoError(t, err)

	claims, err := pkgauth.ParseAccessToken(jwtCfg, login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, enums.RoleConsumer, claims.Role)
	consumerID := claims.UserID

	productRepo := products.NewRepository(gdb)
	productSvc, err := products.NewService(productRepo)
	require.NoError(t, err)

	listing, err := productSvc.Create(ctx, farmerResp.User.ID, products.CreateProductRequest{
		Name:              "Tomatoes",
		CategoryID:        uuid.New(),
		Price:             decimal.NewFromInt(10),
		Unit:              "kg",
		QuantityAvailable: 10,
	})
	require.NoError(t, err)

	cartSvc, err := cart.NewService(&flowCartStore{byUser: map[uuid.UUID]*cart.Cart{}}, productRepo, userRepo)
	require.NoError(t, err)

	basket, err := cartSvc.AddItem(ctx, consumerID, cart.AddItemRequest{ProductID: listing.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, basket.Items, 1)
	assert.True(t, basket.Total().Equal(decimal.NewFromInt(30)))
	require.NotNil(t, basket.FarmerID)
	assert.Equal(t, farmerResp.User.ID, *basket.FarmerID)

	orderSvc := newCheckoutService(t, gdb, false)
	items := make([]OrderItemRequest, 0, len(basket.Items))
	for _, line := range basket.Items {
		items = append(items, OrderItemRequest{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	order, err := orderSvc.Create(ctx, consumerID, pickupReq(items...))
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, consumerID, order.ConsumerID)
	assert.Equal(t, farmerResp.User.ID, order.FarmerID)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(30)), "total %s", order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.True(t, order.Items[0].Price.Equal(decimal.NewFromInt(10)))

	// The order handler clears the cart after checkout; mirror it here since
	// this flow drives the services directly.
	require.NoError(t, cartSvc.Clear(ctx, consumerID))
	emptied, err := cartSvc.Get(ctx, consumerID)
	require.NoError(t, err)
	assert.True(t, emptied.IsEmpty())

	// Duplicate registration against the same email must conflict.
	_, err = registerSvc.Register(ctx, internalauth.RegisterRequest{
		Name:     "Arjun Rao",
		Email:    "arjun@example.com",
		Password: "weeklybasket1",
		Role:     "consumer",
	})
	require.Error(t, err)
}
