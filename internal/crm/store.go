package crm

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/abderrahmaneOU/alx-backend-graphql-crm/internal/domain"
)

// GormStore is the GORM implementation of Store
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Customers() CustomerRepository { return &gormCustomerRepository{db: s.db} }
func (s *GormStore) Products() ProductRepository   { return &gormProductRepository{db: s.db} }
func (s *GormStore) Orders() OrderRepository       { return &gormOrderRepository{db: s.db} }
func (s *GormStore) OprLogs() OprLogRepository     { return &gormOprLogRepository{db: s.db} }

// WithTransaction runs fn against a transaction-bound store. A nested call
// opens a savepoint, so an inner failure can be rolled back without
// aborting the outer scope.
func (s *GormStore) WithTransaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}

func (pq *PageQuery) normalize() {
	if pq.Page <= 0 {
		pq.Page = 1
	}
	if pq.PageSize <= 0 || pq.PageSize > 500 {
		pq.PageSize = 20
	}
}

// orderClause maps the requested sort key through the whitelist to avoid
// SQL injection, defaulting to id.
func orderClause(allowed map[string]string, pq PageQuery) string {
	col, ok := allowed[pq.OrderBy]
	if !ok || col == "" {
		col = allowed["id"]
	}
	direction := "ASC"
	if pq.Desc {
		direction = "DESC"
	}
	return col + " " + direction
}

// likeInsensitive applies a case-insensitive substring match on column.
func likeInsensitive(db *gorm.DB, column, value string) *gorm.DB {
	if strings.EqualFold(db.Name(), "postgres") {
		return db.Where(column+" ILIKE ?", "%"+value+"%")
	}
	return db.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(value)+"%")
}

// ---------------------------------------------------------------- customers

type gormCustomerRepository struct {
	db *gorm.DB
}

func (r *gormCustomerRepository) Create(ctx context.Context, c *domain.CrmCustomer) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return errors.Wrap(err, "create customer")
	}
	return nil
}

func (r *gormCustomerRepository) FindByID(ctx context.Context, id int64) (*domain.CrmCustomer, error) {
	var c domain.CrmCustomer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *gormCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.CrmCustomer{}).
		Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "query customer email")
	}
	return count > 0, nil
}

var customerSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"email":      "email",
	"created_at": "created_at",
}

func (r *gormCustomerRepository) List(ctx context.Context, filter CustomerFilter) ([]domain.CrmCustomer, int64, error) {
	filter.normalize()
	q := r.db.WithContext(ctx).Model(&domain.CrmCustomer{})
	if filter.Name != "" {
		q = likeInsensitive(q, "name", filter.Name)
	}
	if filter.Email != "" {
		q = likeInsensitive(q, "email", filter.Email)
	}
	if filter.Phone != "" {
		q = q.Where("phone LIKE ?", filter.Phone+"%")
	}
	if filter.CreatedGte != nil {
		q = q.Where("created_at >= ?", *filter.CreatedGte)
	}
	if filter.CreatedLte != nil {
		q = q.Where("created_at <= ?", *filter.CreatedLte)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count customers")
	}
	var rows []domain.CrmCustomer
	err := q.Order(orderClause(customerSortColumns, filter.PageQuery)).
		Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list customers")
	}
	return rows, total, nil
}

func (r *gormCustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.CrmCustomer{}).Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "count customers")
	}
	return count, nil
}

// ---------------------------------------------------------------- products

type gormProductRepository struct {
	db *gorm.DB
}

func (r *gormProductRepository) Create(ctx context.Context, p *domain.CrmProduct) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return errors.Wrap(err, "create product")
	}
	return nil
}

func (r *gormProductRepository) FindByID(ctx context.Context, id int64) (*domain.CrmProduct, error) {
	var p domain.CrmProduct
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormProductRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.CrmProduct, error) {
	var rows []domain.CrmProduct
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "query products by ids")
	}
	return rows, nil
}

var productSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
	"created_at": "created_at",
}

func (r *gormProductRepository) List(ctx context.Context, filter ProductFilter) ([]domain.CrmProduct, int64, error) {
	filter.normalize()
	q := r.db.WithContext(ctx).Model(&domain.CrmProduct{})
	if filter.Name != "" {
		q = likeInsensitive(q, "name", filter.Name)
	}
	if filter.PriceGte != nil {
		q = q.Where("price >= ?", *filter.PriceGte)
	}
	if filter.PriceLte != nil {
		q = q.Where("price <= ?", *filter.PriceLte)
	}
	if filter.StockGte != nil {
		q = q.Where("stock >= ?", *filter.StockGte)
	}
	if filter.StockLte != nil {
		q = q.Where("stock <= ?", *filter.StockLte)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}
	var rows []domain.CrmProduct
	err := q.Order(orderClause(productSortColumns, filter.PageQuery)).
		Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list products")
	}
	return rows, total, nil
}

func (r *gormProductRepository) RestockBelow(ctx context.Context, threshold, amount int) ([]domain.CrmProduct, error) {
	var updated []domain.CrmProduct
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		if err := tx.Model(&domain.CrmProduct{}).
			Where("stock < ?", threshold).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Model(&domain.CrmProduct{}).Where("id IN ?", ids).
			Update("stock", gorm.Expr("stock + ?", amount)).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Order("id ASC").Find(&updated).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "restock products")
	}
	return updated, nil
}

// ---------------------------------------------------------------- orders

type gormOrderRepository struct {
	db *gorm.DB
}

func (r *gormOrderRepository) Create(ctx context.Context, o *domain.CrmOrder, products []domain.CrmProduct) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Products").Create(o).Error; err != nil {
			return err
		}
		return tx.Model(o).Association("Products").Append(products)
	})
	if err != nil {
		return errors.Wrap(err, "create order")
	}
	return nil
}

func (r *gormOrderRepository) FindByID(ctx context.Context, id int64) (*domain.CrmOrder, error) {
	var o domain.CrmOrder
	err := r.db.WithContext(ctx).Preload("Customer").Preload("Products").
		Where("id = ?", id).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

var orderSortColumns = map[string]string{
	"id":           "crm_order.id",
	"total_amount": "crm_order.total_amount",
	"order_date":   "crm_order.order_date",
	"created_at":   "crm_order.created_at",
}

func (r *gormOrderRepository) List(ctx context.Context, filter OrderFilter) ([]domain.CrmOrder, int64, error) {
	filter.normalize()
	q := r.db.WithContext(ctx).Model(&domain.CrmOrder{})
	if filter.TotalGte != nil {
		q = q.Where("crm_order.total_amount >= ?", *filter.TotalGte)
	}
	if filter.TotalLte != nil {
		q = q.Where("crm_order.total_amount <= ?", *filter.TotalLte)
	}
	if filter.DateGte != nil {
		q = q.Where("crm_order.order_date >= ?", *filter.DateGte)
	}
	if filter.DateLte != nil {
		q = q.Where("crm_order.order_date <= ?", *filter.DateLte)
	}
	if filter.CustomerName != "" || filter.CustomerEmail != "" {
		q = q.Joins("JOIN crm_customer ON crm_customer.id = crm_order.customer_id")
		if filter.CustomerName != "" {
			q = likeInsensitive(q, "crm_customer.name", filter.CustomerName)
		}
		if filter.CustomerEmail != "" {
			q = likeInsensitive(q, "crm_customer.email", filter.CustomerEmail)
		}
	}
	if filter.ProductName != "" {
		// subquery keeps Count correct and yields each order once even
		// when several of its products match
		sub := r.db.Model(&domain.CrmProduct{}).
			Select("crm_order_products.crm_order_id").
			Joins("JOIN crm_order_products ON crm_order_products.crm_product_id = crm_product.id")
		sub = likeInsensitive(sub, "crm_product.name", filter.ProductName)
		q = q.Where("crm_order.id IN (?)", sub)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count orders")
	}
	var rows []domain.CrmOrder
	err := q.Preload("Customer").Preload("Products").
		Order(orderClause(orderSortColumns, filter.PageQuery)).
		Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list orders")
	}
	return rows, total, nil
}

func (r *gormOrderRepository) Since(ctx context.Context, t time.Time) ([]domain.CrmOrder, error) {
	var rows []domain.CrmOrder
	err := r.db.WithContext(ctx).Preload("Customer").
		Where("order_date >= ?", t).Order("order_date ASC").Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "query recent orders")
	}
	return rows, nil
}

func (r *gormOrderRepository) Amounts(ctx context.Context) ([]float64, error) {
	var amounts []float64
	err := r.db.WithContext(ctx).Model(&domain.CrmOrder{}).
		Pluck("total_amount", &amounts).Error
	if err != nil {
		return nil, errors.Wrap(err, "query order amounts")
	}
	return amounts, nil
}

// ---------------------------------------------------------------- audit log

type gormOprLogRepository struct {
	db *gorm.DB
}

func (r *gormOprLogRepository) Create(ctx context.Context, log *domain.CrmOprLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return errors.Wrap(err, "create opr log")
	}
	return nil
}

func (r *gormOprLogRepository) DeleteOlderThan(ctx context.Context, days int) error {
	err := r.db.WithContext(ctx).
		Where("opt_time < ?", time.Now().Add(-time.Hour*24*time.Duration(days))).
		Delete(&domain.CrmOprLog{}).Error
	return errors.Wrap(err, "clean opr log")
}
