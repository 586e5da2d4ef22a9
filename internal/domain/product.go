package domain

import "time"

// CrmProduct represents a catalog product. Products carry no uniqueness
// constraint: two identical create calls yield two distinct rows.
type CrmProduct struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Price     float64   `json:"price" form:"price"` // price in main currency units, always > 0
	Stock     int       `json:"stock" form:"stock"` // on-hand quantity, never negative
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (CrmProduct) TableName() string {
	return "crm_product"
}
