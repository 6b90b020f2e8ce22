package orders

import (
	"errors"
	"fmt"

	"github.com/vmhuong/dacsan_shop/internal/models"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("order not found")
	ErrForbidden  = errors.New("forbidden")
)

type ProductNotFoundError struct {
	ProductID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

type InsufficientStockError struct {
	ProductID uint
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("product %d", e.ProductID)
	}
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", name, e.Requested, e.Available)
}

type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	if e.To == models.OrderStatusCancelled && e.From != models.OrderStatusPending {
		return fmt.Sprintf("only pending orders can be cancelled (current status %q)", e.From)
	}
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}
