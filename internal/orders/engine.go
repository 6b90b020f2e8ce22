package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vmhuong/dacsan_shop/internal/models"
)

// Engine runs every order mutation as one database transaction. It holds no
// state of its own between requests; the store's transaction isolation is
// the only concurrency control.
type Engine struct {
	DB *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{DB: db}
}

// lockForUpdate adds a row lock on dialects that support it. The sqlite
// driver used in tests has no FOR UPDATE; there the guarded stock update
// still enforces the floor.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// CreateOrder validates the command, then atomically: locks and reads each
// product, rejects on missing product or insufficient stock, computes the
// total from the prices read under lock, inserts the order header and line
// items with those prices frozen, and decrements stock. Any failure rolls
// the whole transaction back.
func (e *Engine) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*models.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var order models.Order
	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total float64
		items := make([]models.OrderItem, 0, len(cmd.Items))

		for _, it := range cmd.Items {
			var p models.Product
			if err := lockForUpdate(tx).First(&p, it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ProductNotFoundError{ProductID: it.ProductID}
				}
				return err
			}
			if p.StockQuantity < it.Quantity {
				return &InsufficientStockError{
					ProductID: p.ID,
					Name:      p.Name,
					Requested: it.Quantity,
					Available: p.StockQuantity,
				}
			}

			total += p.Price * float64(it.Quantity)
			items = append(items, models.OrderItem{
				ProductID: p.ID,
				Quantity:  it.Quantity,
				Price:     p.Price,
			})
		}

		order = models.Order{
			Code:            uuid.NewString(),
			UserID:          cmd.UserID,
			Total:           total,
			Status:          models.OrderStatusPending,
			ShippingAddress: cmd.ShippingAddress,
			PaymentMethod:   cmd.PaymentMethod,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		for _, it := range cmd.Items {
			if err := decrementStock(tx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}

		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder flips a pending order to cancelled and restores the stock each
// line item consumed, in one transaction. Non-owners (unless admin) get
// ErrForbidden; any status other than pending gets InvalidTransitionError,
// so a second cancel can never restore stock twice.
func (e *Engine) CancelOrder(ctx context.Context, orderID, userID uint, admin bool) (*models.Order, error) {
	var order models.Order
	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !admin && order.UserID != userID {
			return ErrForbidden
		}
		if order.Status != models.OrderStatusPending {
			return &InvalidTransitionError{From: order.Status, To: models.OrderStatusCancelled}
		}

		order.Status = models.OrderStatusCancelled
		if err := tx.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
			return err
		}

		for _, it := range order.Items {
			if err := incrementStock(tx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus applies an administrative status transition. Moves along the
// fulfilment chain are plain field writes; a transition to cancelled goes
// through the same stock restoration as CancelOrder.
func (e *Engine) UpdateStatus(ctx context.Context, orderID uint, next models.OrderStatus) (*models.Order, error) {
	if next == models.OrderStatusCancelled {
		return e.CancelOrder(ctx, orderID, 0, true)
	}

	var order models.Order
	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := Transition(order.Status, next); err != nil {
			return err
		}

		order.Status = next
		return tx.Model(&order).Update("status", next).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
