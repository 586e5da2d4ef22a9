package crm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/abderrahmaneOU/alx-backend-graphql-crm/internal/domain"
)

// PageQuery carries pagination and sorting shared by all list filters.
// OrderBy is matched against a per-repository whitelist; unknown columns
// fall back to id.
type PageQuery struct {
	Page     int
	PageSize int
	OrderBy  string
	Desc     bool
}

// CustomerFilter narrows customer listings. Name and Email match as
// case-insensitive substrings, Phone as a prefix.
type CustomerFilter struct {
	PageQuery
	Name       string
	Email      string
	Phone      string
	CreatedGte *time.Time
	CreatedLte *time.Time
}

type ProductFilter struct {
	PageQuery
	Name     string
	PriceGte *float64
	PriceLte *float64
	StockGte *int
	StockLte *int
}

// OrderFilter narrows order listings. Customer and product fields filter
// through the respective joins.
type OrderFilter struct {
	PageQuery
	TotalGte      *float64
	TotalLte      *float64
	DateGte       *time.Time
	DateLte       *time.Time
	CustomerName  string
	CustomerEmail string
	ProductName   string
}

// CustomerRepository handles database operations for customers
type CustomerRepository interface {
	// Create inserts a new customer row
	Create(ctx context.Context, c *domain.CrmCustomer) error

	// FindByID retrieves a customer by ID
	FindByID(ctx context.Context, id int64) (*domain.CrmCustomer, error)

	// ExistsByEmail reports whether a customer with this email exists.
	// Advisory only; the unique index is the authoritative guard.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// List retrieves customers with pagination, returning the total count
	List(ctx context.Context, filter CustomerFilter) ([]domain.CrmCustomer, int64, error)

	// Count returns the number of customer rows
	Count(ctx context.Context) (int64, error)
}

// ProductRepository handles database operations for products
type ProductRepository interface {
	Create(ctx context.Context, p *domain.CrmProduct) error

	FindByID(ctx context.Context, id int64) (*domain.CrmProduct, error)

	// FindByIDs retrieves all products whose id is in ids. Missing ids are
	// simply absent from the result; resolution order is up to the caller.
	FindByIDs(ctx context.Context, ids []int64) ([]domain.CrmProduct, error)

	List(ctx context.Context, filter ProductFilter) ([]domain.CrmProduct, int64, error)

	// RestockBelow adds amount to the stock of every product whose stock is
	// below threshold and returns the updated rows.
	RestockBelow(ctx context.Context, threshold, amount int) ([]domain.CrmProduct, error)
}

// OrderRepository handles database operations for orders
type OrderRepository interface {
	// Create inserts the order row and its product associations
	Create(ctx context.Context, o *domain.CrmOrder, products []domain.CrmProduct) error

	// FindByID retrieves an order with customer and products preloaded
	FindByID(ctx context.Context, id int64) (*domain.CrmOrder, error)

	List(ctx context.Context, filter OrderFilter) ([]domain.CrmOrder, int64, error)

	// Since retrieves orders with order_date >= t, customer preloaded
	Since(ctx context.Context, t time.Time) ([]domain.CrmOrder, error)

	// Amounts returns the total_amount of every order, for report rollups
	Amounts(ctx context.Context) ([]float64, error)
}

// OprLogRepository handles the audit log rows
type OprLogRepository interface {
	Create(ctx context.Context, log *domain.CrmOprLog) error

	// DeleteOlderThan removes audit rows older than the given number of days
	DeleteOlderThan(ctx context.Context, days int) error
}

// Store bundles the repositories with a transaction scope. Inside
// WithTransaction the callback receives a Store bound to the transaction;
// nested calls open savepoints.
type Store interface {
	Customers() CustomerRepository
	Products() ProductRepository
	Orders() OrderRepository
	OprLogs() OprLogRepository

	WithTransaction(ctx context.Context, fn func(Store) error) error
}

// IsNotFound reports whether err means the referenced row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err is a storage-level unique constraint
// violation, e.g. a duplicate email surfacing under race.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
