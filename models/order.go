package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"   // order placed, awaiting payment/confirmation
	OrderStatusConfirmed OrderStatus = "CONFIRMED" // payment succeeded or COD accepted
	OrderStatusShipped   OrderStatus = "SHIPPED"   // dispatched
	OrderStatusDelivered OrderStatus = "DELIVERED" // received by customer
	OrderStatusCompleted OrderStatus = "COMPLETED" // closed
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// ValidOrderStatus reports whether s is a known lifecycle value.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderRef    string      `gorm:"uniqueIndex" json:"order_ref"`
	UserID      uint        `gorm:"index;not null" json:"user_id"`
	User        *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount float64     `gorm:"type:numeric(10,2)" json:"total_amount"` // fixed at checkout
	Status      OrderStatus `gorm:"type:VARCHAR(20);default:'PENDING'" json:"status"`

	// Shipping snapshot, duplicated on purpose so later profile edits
	// do not rewrite order history.
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"index" json:"order_id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"` // snapshot
	Price       float64 `gorm:"type:numeric(10,2)" json:"price"` // snapshot
	Quantity    int     `json:"quantity"`
}
