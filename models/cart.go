package models

import "time"

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    uint       `gorm:"uniqueIndex"` // one cart per user, enforced by the DB
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CartID      uint      `gorm:"index;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID   uint      `gorm:"uniqueIndex:idx_cart_product" json:"product_id"`
	ProductName string    `json:"product_name"`
	Price       float64   `gorm:"type:numeric(10,2)" json:"price"` // snapshot taken at add-time
	Quantity    int       `json:"quantity"`
	AddedAt     time.Time `json:"added_at"`
}
