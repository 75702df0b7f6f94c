package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-restaurant-pos/cart"
	"go-restaurant-pos/catalog"
	"go-restaurant-pos/checkout"
	"go-restaurant-pos/controllers"
	"go-restaurant-pos/database"
	"go-restaurant-pos/helpers"
	"go-restaurant-pos/middleware"
	"go-restaurant-pos/models"
	"go-restaurant-pos/receipt"
	"go-restaurant-pos/routes"
	"go-restaurant-pos/settings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
	helpers.PasswordCost = bcrypt.MinCost
}

type server struct {
	router  *gin.Engine
	store   *database.MemoryStore
	tokens  *helpers.TokenMaker
	hub     *controllers.Hub
	cashier string
	admin   string
}

func newServer(t *testing.T) *server {
	t.Helper()
	store := database.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.CreateCategory(ctx, &models.Category{Category_id: "mains", Name: "Mains", Is_active: true}))
	require.NoError(t, store.CreateMenuItem(ctx, &models.MenuItem{
		Menu_id: "nasi", Category_id: "mains", Name: "Nasi Goreng", Price: 50000, Stock: 10, Is_active: true,
	}))
	require.NoError(t, store.CreateMenuItem(ctx, &models.MenuItem{
		Menu_id: "sate", Category_id: "mains", Name: "Sate Ayam", Price: 30000, Stock: 0, Is_active: true,
	}))

	carts := cart.NewMemoryStore()
	prefs := settings.NewService(store, models.Setting{
		Restaurant_name:        "Warung Test",
		Order_discount_percent: 5,
		Discount_min_amount:    50000,
		Tax_percent:            11,
	})
	tokens := helpers.NewTokenMaker("test-secret")
	hub := controllers.NewHub()
	ctl := &controllers.Controller{
		Carts:    cart.NewService(carts, store, prefs),
		Orders:   checkout.NewService(store, carts, prefs),
		Catalog:  catalog.NewService(store),
		Settings: prefs,
		Receipts: receipt.NewGenerator(store, prefs),
		Users:    store,
		Tokens:   tokens,
		Hub:      hub,
		Timeout:  5 * time.Second,
	}
	router := gin.New()
	routes.Register(router, ctl)

	cashier, _, err := tokens.GenerateAllTokens("kasir@example.com", "Kasir", "cashier-1", models.RoleCashier)
	require.NoError(t, err)
	admin, _, err := tokens.GenerateAllTokens("admin@example.com", "Admin", "admin-1", models.RoleAdmin)
	require.NoError(t, err)
	return &server{router: router, store: store, tokens: tokens, hub: hub, cashier: cashier, admin: admin}
}

func (s *server) do(t *testing.T, method, path, token, session string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("token", token)
	}
	if session != "" {
		req.Header.Set(middleware.SessionHeader, session)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func errorKind(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Kind string `json:"kind"`
	}
	decode(t, w, &body)
	return body.Kind
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	w := s.do(t, http.MethodGet, "/health", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodGet, "/cart", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/cart", "not-a-token", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesRejectCashier(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodGet, "/settings", s.cashier, "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/settings", s.admin, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var current models.Setting
	decode(t, w, &current)
	assert.Equal(t, "Warung Test", current.Restaurant_name)
}

func TestSessionIssuedWhenMissing(t *testing.T) {
	s := newServer(t)
	w := s.do(t, http.MethodGet, "/cart", s.cashier, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	sid := w.Header().Get(middleware.SessionHeader)
	_, err := uuid.Parse(sid)
	assert.NoError(t, err)
	assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.SessionCookie+"="+sid)
}

func TestCartToReceipt(t *testing.T) {
	s := newServer(t)
	sid := uuid.NewString()

	w := s.do(t, http.MethodPost, "/cart/items", s.cashier, sid, gin.H{"menu_id": "nasi", "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var current cart.Cart
	decode(t, w, &current)
	require.Len(t, current.Lines, 1)
	assert.EqualValues(t, 100000, current.Totals.Subtotal)

	w = s.do(t, http.MethodPost, "/cart/discount", s.cashier, sid, gin.H{"apply": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &current)
	assert.EqualValues(t, 105450, current.Totals.Total)

	w = s.do(t, http.MethodPost, "/checkout", s.cashier, sid, gin.H{
		"customer_name": "Budi", "order_type": "Take Away", "payment_method": "Cash", "cash_tendered": 110000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var result checkout.Result
	decode(t, w, &result)
	assert.EqualValues(t, 105450, result.Order.Total_amount)
	assert.EqualValues(t, 4550, result.Payment.Change_amount)
	assert.Equal(t, models.StatusCompleted, result.Order.Status)
	assert.Equal(t, "cashier-1", result.Order.User_id)

	item, err := s.store.GetMenuItemById(context.Background(), "nasi")
	require.NoError(t, err)
	assert.Equal(t, 8, item.Stock)

	w = s.do(t, http.MethodGet, "/cart", s.cashier, sid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &current)
	assert.Empty(t, current.Lines)

	w = s.do(t, http.MethodGet, "/orders/"+result.Order.Order_id+"/receipt", s.cashier, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var r receipt.Receipt
	decode(t, w, &r)
	assert.Equal(t, "Warung Test", r.Restaurant.Name)
	assert.Equal(t, result.Order.Order_number, r.Order_number)
	assert.EqualValues(t, 5000, r.Order_discount)
	assert.EqualValues(t, 110000, r.Amount_paid)
}

func TestErrorKindsMapToStatus(t *testing.T) {
	s := newServer(t)
	sid := uuid.NewString()

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		kind   string
	}{
		{"unknown item", http.MethodPost, "/cart/items", gin.H{"menu_id": "ghost", "quantity": 1}, http.StatusNotFound, "NotFound"},
		{"out of stock", http.MethodPost, "/cart/items", gin.H{"menu_id": "sate", "quantity": 1}, http.StatusUnprocessableEntity, "InsufficientStock"},
		{"zero quantity", http.MethodPost, "/cart/items", gin.H{"menu_id": "nasi", "quantity": 0}, http.StatusUnprocessableEntity, "InvalidQuantity"},
		{"empty cart checkout", http.MethodPost, "/checkout", gin.H{"order_type": "Take Away", "cash_tendered": 1000}, http.StatusUnprocessableEntity, "EmptyCart"},
		{"bad order type", http.MethodPost, "/checkout", gin.H{"order_type": "Delivery"}, http.StatusBadRequest, "InvalidInput"},
		{"missing body field", http.MethodPost, "/cart/items", gin.H{"quantity": 1}, http.StatusBadRequest, "InvalidInput"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, s.cashier, sid, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.kind, errorKind(t, w))
		})
	}
}

func TestCheckoutPreconditions(t *testing.T) {
	s := newServer(t)
	sid := uuid.NewString()
	w := s.do(t, http.MethodPost, "/cart/items", s.cashier, sid, gin.H{"menu_id": "nasi", "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/checkout", s.cashier, sid, gin.H{"order_type": "Dine In", "cash_tendered": 100000})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "MissingTableNumber", errorKind(t, w))

	w = s.do(t, http.MethodPost, "/checkout", s.cashier, sid, gin.H{"order_type": "Take Away", "cash_tendered": 1000})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "InsufficientPayment", errorKind(t, w))

	assert.Zero(t, s.store.OrderCount())
}

func TestCancelOrderTwice(t *testing.T) {
	s := newServer(t)
	sid := uuid.NewString()
	s.do(t, http.MethodPost, "/cart/items", s.cashier, sid, gin.H{"menu_id": "nasi", "quantity": 1})
	w := s.do(t, http.MethodPost, "/checkout", s.cashier, sid, gin.H{
		"order_type": "Dine In", "table_number": 3, "payment_method": "QRIS", "cash_tendered": 55500,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var result checkout.Result
	decode(t, w, &result)

	path := "/orders/" + result.Order.Order_id + "/cancel"
	w = s.do(t, http.MethodPost, path, s.cashier, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, path, s.cashier, "", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "PreconditionFailed", errorKind(t, w))

	item, err := s.store.GetMenuItemById(context.Background(), "nasi")
	require.NoError(t, err)
	assert.Equal(t, 10, item.Stock)
}

func TestSignUpAndLogin(t *testing.T) {
	s := newServer(t)
	signup := gin.H{
		"name": "Siti", "email": "Siti@Example.com", "password": "rahasia123", "phone": "0812", "user_role": "ADMIN",
	}

	w := s.do(t, http.MethodPost, "/users/signup", "", "", signup)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "rahasia123")

	duplicate := gin.H{
		"name": "Siti", "email": "siti@example.com", "password": "rahasia123", "phone": "0899", "user_role": "CASHIER",
	}
	w = s.do(t, http.MethodPost, "/users/signup", "", "", duplicate)
	assert.Equal(t, http.StatusConflict, w.Code)

	second := gin.H{"name": "Andi", "email": "andi@example.com", "password": "rahasia123", "phone": "0813", "user_role": "ADMIN"}
	w = s.do(t, http.MethodPost, "/users/signup", "", "", second)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/users/login", "", "", gin.H{"email": "siti@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/users/login", "", "", gin.H{"email": "siti@example.com", "password": "rahasia123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Token string `json:"token"`
	}
	decode(t, w, &body)
	claims, err := s.tokens.ValidateToken(body.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.User_role)

	w = s.do(t, http.MethodGet, "/users", body.Token, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMenuListEnvelope(t *testing.T) {
	s := newServer(t)
	w := s.do(t, http.MethodGet, "/menus", s.cashier, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Status  int                `json:"status"`
		Message string             `json:"message"`
		Data    []catalog.MenuView `json:"data"`
	}
	decode(t, w, &body)
	assert.Len(t, body.Data, 2)
}

func TestCheckoutBroadcastsNewOrder(t *testing.T) {
	s := newServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + s.cashier
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	sid := uuid.NewString()
	s.do(t, http.MethodPost, "/cart/items", s.cashier, sid, gin.H{"menu_id": "nasi", "quantity": 1})
	w := s.do(t, http.MethodPost, "/checkout", s.cashier, sid, gin.H{"order_type": "Take Away", "cash_tendered": 60000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var result checkout.Result
	decode(t, w, &result)

	var event struct {
		Event   string `json:"event"`
		Payload struct {
			Order_number string `json:"order_number"`
		} `json:"payload"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, models.EventNewOrder, event.Event)
	assert.Equal(t, result.Order.Order_number, event.Payload.Order_number)

	conn.Close()
	require.Eventually(t, func() bool { return s.hub.Clients() == 0 }, time.Second, 10*time.Millisecond)
}
