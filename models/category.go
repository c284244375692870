package models

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	Active      bool      `gorm:"default:true" json:"active"`
	Products    []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}
