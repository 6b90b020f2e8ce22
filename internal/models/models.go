package models

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

const (
	PaymentMethodCOD          = "cod"
	PaymentMethodBankTransfer = "bank_transfer"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Email        string `gorm:"unique;not null"           json:"email"`
	PasswordHash string `gorm:"not null"                  json:"-"`
	Name         string `gorm:"not null"                  json:"name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Role         string `gorm:"not null;default:customer" json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	Role      string `gorm:"not null"            json:"role"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}

type Product struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"not null"                 json:"name"`
	Description   string    `json:"description"`
	Price         float64   `gorm:"not null"                 json:"price"`
	OriginalPrice *float64  `json:"original_price,omitempty"`
	Image         string    `json:"image"`
	Images        []string  `gorm:"serializer:json"          json:"images"`
	Category      string    `gorm:"index"                    json:"category"`
	StockQuantity int       `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	Rating        float64   `json:"rating"`
	ReviewCount   uint      `json:"review_count"`
	Tags          []string  `gorm:"serializer:json"          json:"tags"`
	Origin        string    `json:"origin"`
	Weight        string    `json:"weight"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                  json:"id"`
	UserID    uint `gorm:"index;not null"              json:"user_id"`
	ProductID uint `gorm:"not null"                    json:"product_id"`
	Quantity  int  `gorm:"default:1;check:quantity>0"  json:"quantity"`
}

// ShippingAddress is stored on the order as an immutable snapshot, so later
// profile edits never change where an existing order ships.
type ShippingAddress struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	District string `json:"district"`
	Ward     string `json:"ward"`
}

type Order struct {
	ID              uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Code            string          `gorm:"uniqueIndex;not null"     json:"code"`
	UserID          uint            `gorm:"index;not null"           json:"user_id"`
	Total           float64         `gorm:"not null"                 json:"total"`
	Status          OrderStatus     `gorm:"not null;default:pending" json:"status"`
	ShippingAddress ShippingAddress `gorm:"serializer:json"          json:"shipping_address"`
	PaymentMethod   string          `gorm:"not null"                 json:"payment_method"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID"       json:"items,omitempty"`
}

// OrderItem.Price is the unit price frozen at order creation. The Product
// association only supplies live display fields (name, image) on reads.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey"                json:"id"`
	OrderID   uint      `gorm:"index;not null"            json:"order_id"`
	ProductID uint      `gorm:"not null"                  json:"product_id"`
	Quantity  int       `gorm:"not null;check:quantity>0" json:"quantity"`
	Price     float64   `gorm:"not null"                  json:"price"`
	CreatedAt time.Time `json:"created_at"`
	Product   *Product  `gorm:"foreignKey:ProductID"      json:"product,omitempty"`
}
