package domain

import "time"

// CrmOrder links one customer to one or more products.
// TotalAmount is fixed at creation time from the product prices of that
// moment and is never recomputed.
type CrmOrder struct {
	ID          int64        `json:"id,string" form:"id"`
	CustomerID  int64        `gorm:"index;not null" json:"customer_id,string" form:"customer_id"`
	Customer    *CrmCustomer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Products    []CrmProduct `gorm:"many2many:crm_order_products" json:"products,omitempty"`
	TotalAmount float64      `json:"total_amount" form:"total_amount"`
	OrderDate   time.Time    `gorm:"index" json:"order_date" form:"order_date"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TableName Specify table name
func (CrmOrder) TableName() string {
	return "crm_order"
}
