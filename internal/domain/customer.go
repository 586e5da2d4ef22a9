package domain

import "time"

// CrmCustomer represents a CRM customer contact.
// Email carries the unique index that is the authoritative uniqueness
// guard; the mutation-level existence check is advisory only.
type CrmCustomer struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Email     string    `gorm:"size:255;uniqueIndex" json:"email" form:"email"`
	Phone     string    `gorm:"size:32" json:"phone" form:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (CrmCustomer) TableName() string {
	return "crm_customer"
}
