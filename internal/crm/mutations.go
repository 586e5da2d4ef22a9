package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/asaskevich/EventBus"

	"github.com/abderrahmaneOU/alx-backend-graphql-crm/internal/domain"
	"github.com/abderrahmaneOU/alx-backend-graphql-crm/pkg/common"
)

// Event topics published after a successful commit.
const (
	EventCustomerCreated = "crm.customer.created"
	EventProductCreated  = "crm.product.created"
	EventOrderCreated    = "crm.order.created"
)

// LowStockThreshold is the stock level below which RestockLowStock tops a
// product up, and LowStockIncrement is the amount added.
const (
	LowStockThreshold = 10
	LowStockIncrement = 10
)

// CustomerInput is the wire input for createCustomer and each bulk row.
type CustomerInput struct {
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
	Phone string `json:"phone" form:"phone"`
}

type ProductInput struct {
	Name  string  `json:"name" form:"name"`
	Price float64 `json:"price" form:"price"`
	Stock *int    `json:"stock" form:"stock"`
}

type OrderInput struct {
	CustomerID int64      `json:"customer_id,string" form:"customer_id"`
	ProductIDs []int64    `json:"product_ids" form:"product_ids"`
	OrderDate  *time.Time `json:"order_date" form:"order_date"`
}

// Payload types: on success the entity is set and Errors is nil, on
// validation failure the entity is nil and Errors lists every failing
// check. Bulk is the exception and reports partial success.

type CustomerPayload struct {
	Customer *domain.CrmCustomer `json:"customer"`
	Message  string              `json:"message,omitempty"`
	Errors   []string            `json:"errors"`
}

type BulkCustomersPayload struct {
	Customers []domain.CrmCustomer `json:"customers"`
	Errors    []string             `json:"errors"`
}

type ProductPayload struct {
	Product *domain.CrmProduct `json:"product"`
	Errors  []string           `json:"errors"`
}

type OrderPayload struct {
	Order  *domain.CrmOrder `json:"order"`
	Errors []string         `json:"errors"`
}

type RestockPayload struct {
	Success  bool                `json:"success"`
	Products []domain.CrmProduct `json:"products"`
}

// MutationService orchestrates validation and persistence for the write
// operations. It is stateless: all state lives in the injected store.
// Validation failures become payload errors, never Go errors; a non-nil
// error from a handler is a system fault for the transport to report.
type MutationService struct {
	store Store
	bus   EventBus.Bus
}

// NewMutationService creates a mutation service. bus may be nil when no
// subscriber cares about entity-created events.
func NewMutationService(store Store, bus EventBus.Bus) *MutationService {
	return &MutationService{store: store, bus: bus}
}

func (s *MutationService) publish(topic string, id int64, desc string) {
	if s.bus != nil {
		s.bus.Publish(topic, id, desc)
	}
}

// validateCustomerInput runs the three customer checks in order without
// short-circuiting, so the caller sees every failure at once.
func validateCustomerInput(ctx context.Context, repo CustomerRepository, in CustomerInput) ([]string, error) {
	var errs []string
	if !ValidateEmail(in.Email) {
		errs = append(errs, "Invalid email format.")
	}
	exists, err := repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		errs = append(errs, "Email already exists.")
	}
	if !ValidatePhone(in.Phone) {
		errs = append(errs, "Invalid phone format.")
	}
	return errs, nil
}

// CreateCustomer validates and persists a single customer. All-or-nothing:
// any failing check leaves the store untouched.
func (s *MutationService) CreateCustomer(ctx context.Context, in CustomerInput) (*CustomerPayload, error) {
	errs, err := validateCustomerInput(ctx, s.store.Customers(), in)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return &CustomerPayload{Errors: errs}, nil
	}

	c := &domain.CrmCustomer{
		ID:    common.UUIDint64(),
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
	}
	if err := s.store.Customers().Create(ctx, c); err != nil {
		if IsDuplicate(err) {
			// lost the race against a concurrent insert; the unique index
			// is authoritative, so report it as the same validation error
			return &CustomerPayload{Errors: []string{"Email already exists."}}, nil
		}
		return nil, err
	}
	s.publish(EventCustomerCreated, c.ID, c.Email)
	return &CustomerPayload{Customer: c, Message: "Customer created successfully!"}, nil
}

// BulkCreateCustomers processes rows in order inside one transaction.
// Rows failing validation are skipped with 1-based row-tagged errors and
// do not block their siblings; any persistence-level failure rolls the
// whole batch back and surfaces as a fault. A per-row duplicate slipping
// past the advisory check is confined to a savepoint and reported as that
// row's validation error.
func (s *MutationService) BulkCreateCustomers(ctx context.Context, inputs []CustomerInput) (*BulkCustomersPayload, error) {
	out := &BulkCustomersPayload{
		Customers: []domain.CrmCustomer{},
		Errors:    []string{},
	}

	err := s.store.WithTransaction(ctx, func(tx Store) error {
		for idx, in := range inputs {
			row := idx + 1

			var entryErrs []string
			if !ValidateEmail(in.Email) {
				entryErrs = append(entryErrs, fmt.Sprintf("Row %d: Invalid email format.", row))
			}
			exists, err := tx.Customers().ExistsByEmail(ctx, in.Email)
			if err != nil {
				return err
			}
			if exists {
				entryErrs = append(entryErrs, fmt.Sprintf("Row %d: Email already exists.", row))
			}
			if !ValidatePhone(in.Phone) {
				entryErrs = append(entryErrs, fmt.Sprintf("Row %d: Invalid phone format.", row))
			}
			if len(entryErrs) > 0 {
				out.Errors = append(out.Errors, entryErrs...)
				continue
			}

			c := domain.CrmCustomer{
				ID:    common.UUIDint64(),
				Name:  in.Name,
				Email: in.Email,
				Phone: in.Phone,
			}
			createErr := tx.WithTransaction(ctx, func(rowTx Store) error {
				return rowTx.Customers().Create(ctx, &c)
			})
			if createErr != nil {
				if IsDuplicate(createErr) {
					out.Errors = append(out.Errors, fmt.Sprintf("Row %d: Email already exists.", row))
					continue
				}
				return createErr
			}
			out.Customers = append(out.Customers, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range out.Customers {
		s.publish(EventCustomerCreated, out.Customers[i].ID, out.Customers[i].Email)
	}
	return out, nil
}

// CreateProduct validates and persists a product. Price and stock checks
// accumulate; stock defaults to 0 when absent.
func (s *MutationService) CreateProduct(ctx context.Context, in ProductInput) (*ProductPayload, error) {
	var errs []string
	if !ValidatePrice(in.Price) {
		errs = append(errs, "Price must be positive.")
	}
	if !ValidateStock(in.Stock) {
		errs = append(errs, "Stock cannot be negative.")
	}
	if len(errs) > 0 {
		return &ProductPayload{Errors: errs}, nil
	}

	stock := 0
	if in.Stock != nil {
		stock = *in.Stock
	}
	p := &domain.CrmProduct{
		Name:  in.Name,
		Price: in.Price,
		Stock: stock,
	}
	if err := s.store.Products().Create(ctx, p); err != nil {
		return nil, err
	}
	s.publish(EventProductCreated, p.ID, p.Name)
	return &ProductPayload{Product: p}, nil
}

// CreateOrder mixes fail-fast and accumulate phases: the customer lookup
// and the empty-product check return immediately, while product resolution
// collects every bad id before aborting. No order row is written unless
// every product resolved.
func (s *MutationService) CreateOrder(ctx context.Context, in OrderInput) (*OrderPayload, error) {
	customer, err := s.store.Customers().FindByID(ctx, in.CustomerID)
	if err != nil {
		if IsNotFound(err) {
			return &OrderPayload{Errors: []string{"Invalid customer ID."}}, nil
		}
		return nil, err
	}

	if len(in.ProductIDs) == 0 {
		return &OrderPayload{Errors: []string{"At least one product must be selected."}}, nil
	}

	found, err := s.store.Products().FindByIDs(ctx, in.ProductIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.CrmProduct, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	var errs []string
	var resolved []domain.CrmProduct
	for _, pid := range in.ProductIDs {
		p, ok := byID[pid]
		if !ok {
			errs = append(errs, fmt.Sprintf("Invalid product ID: %d", pid))
			continue
		}
		resolved = append(resolved, p)
	}
	if len(errs) > 0 {
		return &OrderPayload{Errors: errs}, nil
	}

	// total counts every listed id, duplicates included; the association
	// stores each product once
	var total float64
	unique := make([]domain.CrmProduct, 0, len(resolved))
	seen := make(map[int64]bool, len(resolved))
	for _, p := range resolved {
		total += p.Price
		if !seen[p.ID] {
			seen[p.ID] = true
			unique = append(unique, p)
		}
	}

	orderDate := time.Now()
	if in.OrderDate != nil {
		orderDate = *in.OrderDate
	}
	o := &domain.CrmOrder{
		ID:          common.UUIDint64(),
		CustomerID:  customer.ID,
		TotalAmount: total,
		OrderDate:   orderDate,
	}
	if err := s.store.Orders().Create(ctx, o, unique); err != nil {
		return nil, err
	}
	o.Customer = customer
	o.Products = unique
	s.publish(EventOrderCreated, o.ID, customer.Email)
	return &OrderPayload{Order: o}, nil
}

// RestockLowStock tops up every product with stock below the threshold.
// This backs the low-stock cron job.
func (s *MutationService) RestockLowStock(ctx context.Context) (*RestockPayload, error) {
	updated, err := s.store.Products().RestockBelow(ctx, LowStockThreshold, LowStockIncrement)
	if err != nil {
		return nil, err
	}
	return &RestockPayload{Success: true, Products: updated}, nil
}
