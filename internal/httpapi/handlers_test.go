package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"market-be/internal/address"
	"market-be/internal/cart"
	"market-be/internal/inventory"
	"market-be/internal/order"
	"market-be/internal/payment"
	"market-be/internal/product"
	"market-be/internal/user"
	"market-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Register(ctx context.Context, input user.RegisterInput) (string, user.User, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Get(1).(user.User), args.Error(2)
}

func (m *MockUserService) Login(ctx context.Context, input user.LoginInput) (string, user.User, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Get(1).(user.User), args.Error(2)
}

func (m *MockUserService) Me(ctx context.Context) (user.User, error) {
	args := m.Called(ctx)
	return args.Get(0).(user.User), args.Error(1)
}

type MockProductService struct{ mock.Mock }

func (m *MockProductService) Get(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) List(ctx context.Context) ([]*product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, input product.NewProductInput) (*product.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) AddVariant(ctx context.Context, input product.NewVariantInput) (*product.Variant, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Variant), args.Error(1)
}

type MockCartService struct{ mock.Mock }

func (m *MockCartService) AddItem(ctx context.Context, params cart.AddItemParams) (*cart.Line, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Line), args.Error(1)
}

func (m *MockCartService) UpdateItem(ctx context.Context, params cart.UpdateItemParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID uint, lineID string) error {
	args := m.Called(ctx, userID, lineID)
	return args.Error(0)
}

func (m *MockCartService) Clear(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCartService) View(ctx context.Context, userID uint) (*cart.View, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.View), args.Error(1)
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) Checkout(ctx context.Context, input order.CheckoutInput) (*order.Order, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) Cancel(ctx context.Context, orderID uint) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, input order.UpdateStatusInput) (*order.Order, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) Get(ctx context.Context, orderID uint) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockPaymentService struct{ mock.Mock }

func (m *MockPaymentService) Process(ctx context.Context, input payment.ProcessInput) (*payment.Payment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentService) GetForOrder(ctx context.Context, orderID uint) (*payment.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentService) ListMethods(ctx context.Context) ([]*payment.StoredMethod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.StoredMethod), args.Error(1)
}

func (m *MockPaymentService) CreateMethod(ctx context.Context, input payment.CreateMethodInput) (*payment.StoredMethod, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.StoredMethod), args.Error(1)
}

func (m *MockPaymentService) DeleteMethod(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentService) SetDefaultMethod(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAddressService struct{ mock.Mock }

func (m *MockAddressService) List(ctx context.Context) ([]*address.Address, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*address.Address), args.Error(1)
}

func (m *MockAddressService) Get(ctx context.Context, id uuid.UUID) (*address.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*address.Address), args.Error(1)
}

func (m *MockAddressService) Create(ctx context.Context, input address.CreateAddressInput) (*address.Address, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*address.Address), args.Error(1)
}

func (m *MockAddressService) Update(ctx context.Context, input address.UpdateAddressInput) (*address.Address, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*address.Address), args.Error(1)
}

func (m *MockAddressService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAddressService) SetDefault(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type testServer struct {
	server    *Server
	users     *MockUserService
	products  *MockProductService
	carts     *MockCartService
	orders    *MockOrderService
	payments  *MockPaymentService
	addresses *MockAddressService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		users:     new(MockUserService),
		products:  new(MockProductService),
		carts:     new(MockCartService),
		orders:    new(MockOrderService),
		payments:  new(MockPaymentService),
		addresses: new(MockAddressService),
	}
	ts.server = NewServer(ts.users, ts.products, ts.carts, ts.orders, ts.payments, ts.addresses)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.server.Engine().ServeHTTP(w, req)
	return w
}

func userToken(t *testing.T) string {
	t.Helper()
	token, err := user.GenerateJWT(1, "USER", "buyer@example.com")
	require.NoError(t, err)
	return token
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := user.GenerateJWT(99, utils.RoleAdmin, "admin@example.com")
	require.NoError(t, err)
	return token
}

func TestCheckoutEndpoint(t *testing.T) {
	shippingID := uuid.New()
	billingID := uuid.New()
	body := gin.H{
		"shipping_address_id": shippingID.String(),
		"billing_address_id":  billingID.String(),
	}

	t.Run("Created", func(t *testing.T) {
		ts := newTestServer(t)

		ts.orders.On("Checkout", mock.Anything, order.CheckoutInput{
			ShippingAddressID: shippingID,
			BillingAddressID:  billingID,
		}).Return(&order.Order{
			ID:     7,
			UserID: 1,
			Status: order.StatusPending,
			Total:  decimal.RequireFromString("58.60"),
		}, nil)

		w := ts.do(t, "POST", "/api/v1/orders", userToken(t), body)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"pending"`)
	})

	t.Run("InsufficientStockIsConflict", func(t *testing.T) {
		ts := newTestServer(t)

		ts.orders.On("Checkout", mock.Anything, mock.Anything).
			Return(nil, &inventory.InsufficientStockError{
				Item:      inventory.ProductItem("prod-a"),
				Available: 1,
			})

		w := ts.do(t, "POST", "/api/v1/orders", userToken(t), body)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"available":1`)
		assert.Contains(t, w.Body.String(), "product:prod-a")
	})

	t.Run("EmptyCartIsBadRequest", func(t *testing.T) {
		ts := newTestServer(t)

		ts.orders.On("Checkout", mock.Anything, mock.Anything).Return(nil, order.ErrEmptyCart)

		w := ts.do(t, "POST", "/api/v1/orders", userToken(t), body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("AnonymousRejected", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do(t, "POST", "/api/v1/orders", "", body)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		ts.orders.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything)
	})
}

func TestCancelEndpoint(t *testing.T) {
	t.Run("Conflict", func(t *testing.T) {
		ts := newTestServer(t)

		ts.orders.On("Cancel", mock.Anything, uint(7)).Return(nil, order.ErrInvalidTransition)

		w := ts.do(t, "POST", "/api/v1/orders/7/cancel", userToken(t), nil)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Forbidden", func(t *testing.T) {
		ts := newTestServer(t)

		ts.orders.On("Cancel", mock.Anything, uint(7)).Return(nil, order.ErrForbidden)

		w := ts.do(t, "POST", "/api/v1/orders/7/cancel", userToken(t), nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestUpdateStatusEndpoint(t *testing.T) {
	body := gin.H{"status": "shipped", "tracking_number": "TRK-42"}

	t.Run("AdminAllowed", func(t *testing.T) {
		ts := newTestServer(t)

		tracking := "TRK-42"
		ts.orders.On("UpdateStatus", mock.Anything, order.UpdateStatusInput{
			OrderID:        7,
			Status:         "shipped",
			TrackingNumber: &tracking,
		}).Return(&order.Order{ID: 7, Status: order.StatusShipped, TrackingNumber: &tracking}, nil)

		w := ts.do(t, "POST", "/api/v1/orders/7/update_status", adminToken(t), body)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("PlainUserForbidden", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do(t, "POST", "/api/v1/orders/7/update_status", userToken(t), body)

		assert.Equal(t, http.StatusForbidden, w.Code)
		ts.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	})
}

func TestCartEndpoints(t *testing.T) {
	t.Run("AddItem", func(t *testing.T) {
		ts := newTestServer(t)

		ts.carts.On("AddItem", mock.Anything, cart.AddItemParams{
			UserID:    1,
			ProductID: "prod-a",
			Quantity:  2,
		}).Return(&cart.Line{ID: "line-1", UserID: 1, ProductID: "prod-a", Quantity: 2}, nil)

		w := ts.do(t, "POST", "/api/v1/cart/add_item", userToken(t), gin.H{
			"product_id": "prod-a",
			"quantity":   2,
		})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("AddItemOverStockIsConflict", func(t *testing.T) {
		ts := newTestServer(t)

		ts.carts.On("AddItem", mock.Anything, mock.Anything).
			Return(nil, &inventory.InsufficientStockError{
				Item:      inventory.ProductItem("prod-a"),
				Available: 4,
			})

		w := ts.do(t, "POST", "/api/v1/cart/add_item", userToken(t), gin.H{
			"product_id": "prod-a",
			"quantity":   9,
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"available":4`)
	})

	t.Run("ViewTotals", func(t *testing.T) {
		ts := newTestServer(t)

		ts.carts.On("View", mock.Anything, uint(1)).Return(&cart.View{
			Lines:      []cart.Line{{ID: "line-1", Quantity: 3}},
			TotalPrice: decimal.RequireFromString("45.00"),
			TotalItems: 3,
		}, nil)

		w := ts.do(t, "GET", "/api/v1/cart", userToken(t), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_items":3`)
	})
}

func TestPaymentEndpoints(t *testing.T) {
	t.Run("Declined", func(t *testing.T) {
		ts := newTestServer(t)

		ts.payments.On("Process", mock.Anything, payment.ProcessInput{
			OrderID: 7,
			Method:  payment.MethodCreditCard,
		}).Return(&payment.Payment{OrderID: 7, Status: payment.StatusFailed}, payment.ErrPaymentDeclined)

		w := ts.do(t, "POST", "/api/v1/payments/process_payment", userToken(t), gin.H{
			"order_id":       7,
			"payment_method": "credit_card",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"failed"`)
	})

	t.Run("AlreadyPaidIsConflict", func(t *testing.T) {
		ts := newTestServer(t)

		ts.payments.On("Process", mock.Anything, mock.Anything).
			Return(nil, payment.ErrAlreadyPaid)

		w := ts.do(t, "POST", "/api/v1/payments/process_payment", userToken(t), gin.H{
			"order_id":       7,
			"payment_method": "credit_card",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAuthEndpoints(t *testing.T) {
	t.Run("Register", func(t *testing.T) {
		ts := newTestServer(t)

		ts.users.On("Register", mock.Anything, user.RegisterInput{
			Email:    "buyer@example.com",
			Password: "s3cret-pass",
			Name:     "Buyer",
		}).Return("a.jwt.token", user.User{ID: 1, Email: "buyer@example.com"}, nil)

		w := ts.do(t, "POST", "/api/v1/users/register", "", gin.H{
			"email":    "buyer@example.com",
			"password": "s3cret-pass",
			"name":     "Buyer",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "a.jwt.token")
	})

	t.Run("RegisterShortPassword", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do(t, "POST", "/api/v1/users/register", "", gin.H{
			"email":    "buyer@example.com",
			"password": "short",
			"name":     "Buyer",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		ts.users.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("LoginBadCredentials", func(t *testing.T) {
		ts := newTestServer(t)

		ts.users.On("Login", mock.Anything, mock.Anything).
			Return("", user.User{}, user.ErrInvalidCredentials)

		w := ts.do(t, "POST", "/api/v1/users/login", "", gin.H{
			"email":    "buyer@example.com",
			"password": "wrong-pass",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestProductEndpoints(t *testing.T) {
	t.Run("ListIsPublic", func(t *testing.T) {
		ts := newTestServer(t)

		ts.products.On("List", mock.Anything).
			Return([]*product.Product{{ID: "prod-a", Name: "Mug", Price: decimal.RequireFromString("10.00")}}, nil)

		w := ts.do(t, "GET", "/api/v1/products", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("CreateNeedsAdmin", func(t *testing.T) {
		ts := newTestServer(t)

		w := ts.do(t, "POST", "/api/v1/products", userToken(t), gin.H{
			"name":  "Mug",
			"slug":  "mug",
			"price": "10.00",
			"stock": 5,
		})

		assert.Equal(t, http.StatusForbidden, w.Code)
		ts.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAddressEndpoints(t *testing.T) {
	t.Run("CreateDefault", func(t *testing.T) {
		ts := newTestServer(t)

		ts.addresses.On("Create", mock.Anything, mock.MatchedBy(func(in address.CreateAddressInput) bool {
			return in.Type == address.TypeShipping && in.SetAsDefault
		})).Return(&address.Address{ID: uuid.New(), UserID: 1, Type: address.TypeShipping, IsDefault: true}, nil)

		w := ts.do(t, "POST", "/api/v1/addresses", userToken(t), gin.H{
			"address_type":   "shipping",
			"name":           "Home",
			"phone":          "555-0101",
			"address_line1":  "1 Main St",
			"city":           "Springfield",
			"state":          "IL",
			"postal_code":    "62701",
			"country":        "US",
			"set_as_default": true,
		})

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("InvalidTypeIsBadRequest", func(t *testing.T) {
		ts := newTestServer(t)

		ts.addresses.On("Create", mock.Anything, mock.Anything).
			Return(nil, address.ErrInvalidType)

		w := ts.do(t, "POST", "/api/v1/addresses", userToken(t), gin.H{
			"address_type":  "warehouse",
			"name":          "Home",
			"phone":         "555-0101",
			"address_line1": "1 Main St",
			"city":          "Springfield",
			"state":         "IL",
			"postal_code":   "62701",
			"country":       "US",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
