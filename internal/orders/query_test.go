package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vmhuong/dacsan_shop/internal/models"
)

func TestGetOrderWithLiveProductFields(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	query := NewQuery(db)
	p := seedProduct(t, db, "banh dau xanh", 45000, 10)

	order, err := engine.CreateOrder(context.Background(), CreateOrderCommand{
		UserID:          3,
		Items:           []CreateOrderItem{{ProductID: p.ID, Quantity: 2}},
		ShippingAddress: testAddress(),
		PaymentMethod:   models.PaymentMethodCOD,
	})
	require.NoError(t, err)

	// rename the product after the order exists: the line item keeps its
	// frozen price while the joined product shows the current name
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", p.ID).
		Updates(map[string]interface{}{"name": "banh dau xanh rong vang", "price": 60000}).Error)

	got, err := query.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Equal(t, float64(45000), got.Items[0].Price)
	require.Equal(t, float64(90000), got.Total)
	require.NotNil(t, got.Items[0].Product)
	require.Equal(t, "banh dau xanh rong vang", got.Items[0].Product.Name)
	require.Equal(t, float64(60000), got.Items[0].Product.Price)
}

func TestGetOrderNotFound(t *testing.T) {
	db := newTestDB(t)
	query := NewQuery(db)

	_, err := query.GetOrder(context.Background(), 12345)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersFilterAndPagination(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db)
	query := NewQuery(db)
	p := seedProduct(t, db, "ruou can", 150000, 100)

	var created []*models.Order
	for i := 0; i < 5; i++ {
		userID := uint(1)
		if i%2 == 1 {
			userID = 2
		}
		o, err := engine.CreateOrder(context.Background(), CreateOrderCommand{
			UserID:          userID,
			Items:           []CreateOrderItem{{ProductID: p.ID, Quantity: 1}},
			ShippingAddress: testAddress(),
			PaymentMethod:   models.PaymentMethodCOD,
		})
		require.NoError(t, err)
		created = append(created, o)
	}

	_, err := engine.CancelOrder(context.Background(), created[0].ID, 1, false)
	require.NoError(t, err)

	// owner filter
	list, total, err := query.ListOrders(context.Background(), ListFilter{UserID: 1}, 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, list, 3)
	for _, o := range list {
		require.Equal(t, uint(1), o.UserID)
	}

	// status filter
	list, total, err = query.ListOrders(context.Background(), ListFilter{Status: models.OrderStatusCancelled}, 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, created[0].ID, list[0].ID)

	// newest first across all orders
	list, total, err = query.ListOrders(context.Background(), ListFilter{}, 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 5, total)
	for i := 1; i < len(list); i++ {
		require.GreaterOrEqual(t, list[i-1].ID, list[i].ID)
	}

	// page size caps the result while total stays whole
	list, total, err = query.ListOrders(context.Background(), ListFilter{}, 0, 2)
	require.NoError(t, err)
	require.EqualValues(t, 5, total)
	require.Len(t, list, 2)
}
