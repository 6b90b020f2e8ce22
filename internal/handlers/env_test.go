package handlers

import (
	"bytes"
	"encoding/json"
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

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
	A  *AuthHandler
	P  *ProductHandler
	O  *OrderHandler
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	prod := &mykafka.Producer{}
	return &testEnv{
		T:  t,
		E:  echo.New(),
		DB: db,
		A:  &AuthHandler{DB: db, JWTSecret: []byte("test_secret"), RefreshSecret: []byte("test_refresh"), Producer: prod},
		P:  &ProductHandler{DB: db, Producer: prod},
		O:  &OrderHandler{Engine: orders.NewEngine(db), Query: orders.NewQuery(db), Producer: prod},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) asUser(c echo.Context, userID uint, role string) {
	c.Set("userID", userID)
	c.Set("role", role)
}

func (env *testEnv) seedProduct(name string, price float64, stock int) models.Product {
	p := models.Product{Name: name, Price: price, Category: "specialty", StockQuantity: stock}
	require.NoError(env.T, env.DB.Create(&p).Error)
	return p
}

func (env *testEnv) stockOf(productID uint) int {
	var p models.Product
	require.NoError(env.T, env.DB.First(&p, productID).Error)
	return p.StockQuantity
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) Response {
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
	return resp
}

func shippingAddressBody() map[string]interface{} {
	return map[string]interface{}{
		"name":     "Tran Thi B",
		"phone":    "0987654321",
		"address":  "5 Nguyen Hue",
		"city":     "Ho Chi Minh",
		"district": "Quan 1",
		"ward":     "Ben Nghe",
	}
}
