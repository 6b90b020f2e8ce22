package orders

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vmhuong/dacsan_shop/internal/models"
)

// Query is the read side: orders assembled with their line items and the
// referenced products' live display fields. No side effects.
type Query struct {
	DB *gorm.DB
}

func NewQuery(db *gorm.DB) *Query {
	return &Query{DB: db}
}

func (q *Query) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := q.DB.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

type ListFilter struct {
	UserID uint
	Status models.OrderStatus
}

func (f ListFilter) apply(q *gorm.DB) *gorm.DB {
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

// ListOrders returns a newest-first page plus the total count for
// pagination. Offset and limit are already normalized by util.Calculate at
// the handler boundary.
func (q *Query) ListOrders(ctx context.Context, f ListFilter, offset, limit int) ([]models.Order, int64, error) {
	var total int64
	if err := f.apply(q.DB.WithContext(ctx).Model(&models.Order{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := f.apply(q.DB.WithContext(ctx).Model(&models.Order{})).
		Preload("Items").
		Preload("Items.Product").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
