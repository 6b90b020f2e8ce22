package orders

import (
	"fmt"

	"github.com/vmhuong/dacsan_shop/internal/models"
)

type CreateOrderItem struct {
	ProductID uint
	Quantity  int
}

// CreateOrderCommand carries no prices: the engine reads them from the store
// inside the transaction, so client-supplied prices can never leak into an
// order.
type CreateOrderCommand struct {
	UserID          uint
	Items           []CreateOrderItem
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
}

func (cmd CreateOrderCommand) Validate() error {
	if cmd.UserID == 0 {
		return fmt.Errorf("%w: user_id required", ErrValidation)
	}
	if len(cmd.Items) == 0 {
		return fmt.Errorf("%w: items required", ErrValidation)
	}
	for i := range cmd.Items {
		if cmd.Items[i].ProductID == 0 {
			return fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if cmd.Items[i].Quantity < 1 {
			return fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
		}
	}
	switch cmd.PaymentMethod {
	case models.PaymentMethodCOD, models.PaymentMethodBankTransfer:
	default:
		return fmt.Errorf("%w: payment_method must be %q or %q",
			ErrValidation, models.PaymentMethodCOD, models.PaymentMethodBankTransfer)
	}
	addr := cmd.ShippingAddress
	if addr.Name == "" || addr.Phone == "" || addr.Address == "" {
		return fmt.Errorf("%w: shipping_address name, phone and address required", ErrValidation)
	}
	return nil
}
