package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abderrahmaneOU/alx-backend-graphql-crm/internal/crm"
	"github.com/abderrahmaneOU/alx-backend-graphql-crm/internal/domain"
	"github.com/abderrahmaneOU/alx-backend-graphql-crm/pkg/common"
)

// checkSeedData initializes a small demo dataset on an empty database:
// three customers, two products and one order.
func (a *Application) checkSeedData() {
	ctx := context.Background()

	seedCustomers := []domain.CrmCustomer{
		{Name: "Alice", Email: "alice@example.com", Phone: "+1234567890"},
		{Name: "Bob", Email: "bob@example.com", Phone: "123-456-7890"},
		{Name: "Carol", Email: "carol@example.com"},
	}
	for _, c := range seedCustomers {
		var count int64
		a.gormDB.Model(&domain.CrmCustomer{}).Where("email = ?", c.Email).Count(&count)
		if count == 0 {
			c.ID = common.UUIDint64()
			if err := a.gormDB.Create(&c).Error; err != nil {
				zap.L().Error("failed to create seed customer", zap.String("email", c.Email), zap.Error(err))
			} else {
				zap.L().Info("initialized seed customer", zap.String("email", c.Email))
			}
		}
	}

	seedProducts := []domain.CrmProduct{
		{Name: "Laptop", Price: 999.99, Stock: 10},
		{Name: "Phone", Price: 499.99, Stock: 20},
	}
	for _, p := range seedProducts {
		var count int64
		a.gormDB.Model(&domain.CrmProduct{}).Where("name = ?", p.Name).Count(&count)
		if count == 0 {
			if err := a.gormDB.Create(&p).Error; err != nil {
				zap.L().Error("failed to create seed product", zap.String("name", p.Name), zap.Error(err))
			} else {
				zap.L().Info("initialized seed product", zap.String("name", p.Name))
			}
		}
	}

	var orderCount int64
	a.gormDB.Model(&domain.CrmOrder{}).Count(&orderCount)
	if orderCount > 0 {
		return
	}

	var alice domain.CrmCustomer
	if err := a.gormDB.Where("email = ?", "alice@example.com").First(&alice).Error; err != nil {
		return
	}
	var rows []domain.CrmProduct
	if err := a.gormDB.Where("name IN ?", []string{"Laptop", "Phone"}).Find(&rows).Error; err != nil || len(rows) == 0 {
		return
	}

	var total float64
	for _, p := range rows {
		total += p.Price
	}
	order := &domain.CrmOrder{
		ID:          common.UUIDint64(),
		CustomerID:  alice.ID,
		TotalAmount: total,
		OrderDate:   time.Now(),
	}
	if err := a.store.Orders().Create(ctx, order, rows); err != nil {
		zap.L().Error("failed to create seed order", zap.Error(err))
		return
	}
	zap.L().Info("initialized seed order", zap.Float64("total", total))
}

// initAuditSubscriber records entity-created events in the audit log.
func (a *Application) initAuditSubscriber() {
	record := func(action string) func(id int64, desc string) {
		return func(id int64, desc string) {
			err := a.store.OprLogs().Create(context.Background(), &domain.CrmOprLog{
				ID:        common.UUIDint64(),
				OptAction: action,
				OptDesc:   desc,
				OptTime:   time.Now(),
			})
			if err != nil {
				zap.L().Error("failed to write audit log", zap.String("action", action), zap.Error(err))
			}
		}
	}

	_ = a.bus.Subscribe(crm.EventCustomerCreated, record("customer_created"))
	_ = a.bus.Subscribe(crm.EventProductCreated, record("product_created"))
	_ = a.bus.Subscribe(crm.EventOrderCreated, record("order_created"))
}
