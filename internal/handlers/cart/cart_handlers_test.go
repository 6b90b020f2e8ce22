package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vmhuong/dacsan_shop/internal/models"
	"github.com/vmhuong/dacsan_shop/internal/mykafka"
	"github.com/vmhuong/dacsan_shop/internal/orders"
)

func newTestHandler(t *testing.T) (*CartHandler, *echo.Echo, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	h := &CartHandler{
		DB:       db,
		Engine:   orders.NewEngine(db),
		Producer: &mykafka.Producer{},
	}
	return h, echo.New(), db
}

func request(t *testing.T, e *echo.Echo, userID uint, method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userID", userID)
	return rec, c
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	p := models.Product{Name: name, Price: price, Category: "specialty", StockQuantity: stock}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestAddToCartMergesQuantities(t *testing.T) {
	h, e, db := newTestHandler(t)
	p := seedProduct(t, db, "banh trang", 35000, 10)

	rec, c := request(t, e, 1, http.MethodPost, "/api/v1/cart", map[string]interface{}{
		"product_id": p.ID, "quantity": 2,
	})
	require.NoError(t, h.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = request(t, e, 1, http.MethodPost, "/api/v1/cart", map[string]interface{}{
		"product_id": p.ID, "quantity": 3,
	})
	require.NoError(t, h.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.CartItem
	require.NoError(t, db.Where("user_id = ?", 1).Find(&items).Error)
	require.Len(t, items, 1)
	require.Equal(t, 5, items[0].Quantity)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	h, e, _ := newTestHandler(t)

	_, c := request(t, e, 1, http.MethodPost, "/api/v1/cart", map[string]interface{}{
		"product_id": 42, "quantity": 1,
	})
	err := h.AddToCart(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestAddToCartRequiresUser(t *testing.T) {
	h, e, _ := newTestHandler(t)

	_, c := request(t, e, 0, http.MethodPost, "/api/v1/cart", map[string]interface{}{
		"product_id": 1, "quantity": 1,
	})
	err := h.AddToCart(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestDeleteOneFromCart(t *testing.T) {
	h, e, db := newTestHandler(t)
	p := seedProduct(t, db, "keo dua", 30000, 10)

	item := models.CartItem{UserID: 1, ProductID: p.ID, Quantity: 2}
	require.NoError(t, db.Create(&item).Error)

	rec, c := request(t, e, 1, http.MethodDelete, "/api/v1/cart/1", nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(item.ID))
	require.NoError(t, h.DeleteOneFromCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.CartItem
	require.NoError(t, db.First(&got, item.ID).Error)
	require.Equal(t, 1, got.Quantity)

	// dropping the last unit removes the row
	rec, c = request(t, e, 1, http.MethodDelete, "/api/v1/cart/1", nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(item.ID))
	require.NoError(t, h.DeleteOneFromCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("id = ?", item.ID).Count(&count).Error)
	require.Zero(t, count)
}

func checkoutBody() map[string]interface{} {
	return map[string]interface{}{
		"shipping_address": map[string]interface{}{
			"name":    "Tran Thi B",
			"phone":   "0987654321",
			"address": "5 Nguyen Hue",
			"city":    "Ho Chi Minh",
		},
		"payment_method": "cod",
	}
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	h, e, db := newTestHandler(t)
	p1 := seedProduct(t, db, "nuoc mam", 80000, 5)
	p2 := seedProduct(t, db, "tra sen", 120000, 5)

	require.NoError(t, db.Create(&models.CartItem{UserID: 1, ProductID: p1.ID, Quantity: 2}).Error)
	require.NoError(t, db.Create(&models.CartItem{UserID: 1, ProductID: p2.ID, Quantity: 1}).Error)

	rec, c := request(t, e, 1, http.MethodPost, "/api/v1/cart/checkout", checkoutBody())
	require.NoError(t, h.Checkout(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.Equal(t, float64(280000), order.Total)
	require.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)

	var stock models.Product
	require.NoError(t, db.First(&stock, p1.ID).Error)
	require.Equal(t, 3, stock.StockQuantity)

	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&remaining).Error)
	require.Zero(t, remaining)
}

func TestCheckoutInsufficientStockKeepsCart(t *testing.T) {
	h, e, db := newTestHandler(t)
	p := seedProduct(t, db, "hat dieu", 200000, 1)

	require.NoError(t, db.Create(&models.CartItem{UserID: 1, ProductID: p.ID, Quantity: 3}).Error)

	_, c := request(t, e, 1, http.MethodPost, "/api/v1/cart/checkout", checkoutBody())
	err := h.Checkout(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusConflict, httpErr.Code)

	var stock models.Product
	require.NoError(t, db.First(&stock, p.ID).Error)
	require.Equal(t, 1, stock.StockQuantity)

	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&remaining).Error)
	require.EqualValues(t, 1, remaining)

	var ordersCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&ordersCount).Error)
	require.Zero(t, ordersCount)
}

func TestCheckoutEmptyCart(t *testing.T) {
	h, e, _ := newTestHandler(t)

	_, c := request(t, e, 1, http.MethodPost, "/api/v1/cart/checkout", checkoutBody())
	err := h.Checkout(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusBadRequest, httpErr.Code)
}
