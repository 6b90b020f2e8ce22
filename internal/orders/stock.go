package orders

import (
	"gorm.io/gorm"

	"github.com/vmhuong/dacsan_shop/internal/models"
)

// Stock ledger operations. Both take the enclosing transaction handle and
// must never be called on a bare connection, otherwise the order mutation
// and the stock mutation stop being atomic.

// decrementStock refuses to take stock below zero: the WHERE predicate makes
// the decrement and the floor check a single statement, so two committed
// orders can never both consume the last unit.
func decrementStock(tx *gorm.DB, productID uint, qty int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &InsufficientStockError{ProductID: productID, Requested: qty}
	}
	return nil
}

func incrementStock(tx *gorm.DB, productID uint, qty int) error {
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", qty)).Error
}
