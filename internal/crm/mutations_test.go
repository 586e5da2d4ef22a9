package crm

import (
	"context"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomerSuccess(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	payload, err := svc.CreateCustomer(ctx, CustomerInput{
		Name:  "Alice",
		Email: "alice@example.com",
		Phone: "+1234567890",
	})
	require.NoError(t, err)
	require.NotNil(t, payload.Customer)
	assert.Empty(t, payload.Errors)
	assert.Equal(t, "Customer created successfully!", payload.Message)
	assert.Equal(t, "Alice", payload.Customer.Name)
	assert.NotZero(t, payload.Customer.ID)

	count, err := store.Customers().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCreateCustomerAllowsEmptyPhone(t *testing.T) {
	svc, _ := newTestService(t)
	payload, err := svc.CreateCustomer(context.Background(), CustomerInput{
		Name:  "Carol",
		Email: "carol@example.com",
	})
	require.NoError(t, err)
	assert.Empty(t, payload.Errors)
	require.NotNil(t, payload.Customer)
	assert.Equal(t, "", payload.Customer.Phone)
}

func TestCreateCustomerAccumulatesErrors(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	mustCreateCustomer(t, svc, "Alice", "alice@example.com", "")

	// duplicate email plus bad phone reports both, in check order
	payload, err := svc.CreateCustomer(ctx, CustomerInput{
		Name:  "Mallory",
		Email: "alice@example.com",
		Phone: "12345",
	})
	require.NoError(t, err)
	assert.Nil(t, payload.Customer)
	assert.Equal(t, []string{"Email already exists.", "Invalid phone format."}, payload.Errors)

	// bad email plus bad phone
	payload, err = svc.CreateCustomer(ctx, CustomerInput{
		Name:  "Trent",
		Email: "not-an-email",
		Phone: "12345",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Invalid email format.", "Invalid phone format."}, payload.Errors)

	count, err := store.Customers().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	mustCreateCustomer(t, svc, "Alice", "alice@example.com", "")

	payload, err := svc.CreateCustomer(ctx, CustomerInput{
		Name:  "Alice Again",
		Email: "alice@example.com",
	})
	require.NoError(t, err)
	assert.Nil(t, payload.Customer)
	assert.Equal(t, []string{"Email already exists."}, payload.Errors)

	count, err := store.Customers().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCreateCustomerPublishesEvent(t *testing.T) {
	store := newTestStore(t)
	bus := EventBus.New()
	svc := NewMutationService(store, bus)

	var gotID int64
	var gotDesc string
	require.NoError(t, bus.Subscribe(EventCustomerCreated, func(id int64, desc string) {
		gotID = id
		gotDesc = desc
	}))

	payload, err := svc.CreateCustomer(context.Background(), CustomerInput{
		Name:  "Alice",
		Email: "alice@example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, payload.Customer)
	assert.Equal(t, payload.Customer.ID, gotID)
	assert.Equal(t, "alice@example.com", gotDesc)
}

func TestBulkCreateCustomersPartialSuccess(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	mustCreateCustomer(t, svc, "Bob", "bob@example.com", "")

	payload, err := svc.BulkCreateCustomers(ctx, []CustomerInput{
		{Name: "Alice", Email: "alice@example.com", Phone: "+1234567890"},
		{Name: "Bob Again", Email: "bob@example.com"},
		{Name: "Carol", Email: "carol@example.com", Phone: "123-456-7890"},
	})
	require.NoError(t, err)
	require.Len(t, payload.Customers, 2)
	assert.Equal(t, "Alice", payload.Customers[0].Name)
	assert.Equal(t, "Carol", payload.Customers[1].Name)
	assert.Equal(t, []string{"Row 2: Email already exists."}, payload.Errors)

	// valid rows survive the failing sibling; a single create with the
	// same duplicate would have persisted nothing
	count, err := store.Customers().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestBulkCreateCustomersRowErrorsAccumulate(t *testing.T) {
	svc, _ := newTestService(t)

	payload, err := svc.BulkCreateCustomers(context.Background(), []CustomerInput{
		{Name: "Alice", Email: "alice@example.com"},
		{Name: "Bad", Email: "nope", Phone: "12345"},
	})
	require.NoError(t, err)
	require.Len(t, payload.Customers, 1)
	assert.Equal(t, []string{
		"Row 2: Invalid email format.",
		"Row 2: Invalid phone format.",
	}, payload.Errors)
}

func TestBulkCreateCustomersDuplicateWithinBatch(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	payload, err := svc.BulkCreateCustomers(ctx, []CustomerInput{
		{Name: "Alice", Email: "alice@example.com"},
		{Name: "Alice Clone", Email: "alice@example.com"},
	})
	require.NoError(t, err)
	require.Len(t, payload.Customers, 1)
	assert.Equal(t, "Alice", payload.Customers[0].Name)
	assert.Equal(t, []string{"Row 2: Email already exists."}, payload.Errors)

	count, err := store.Customers().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestBulkCreateCustomersEmptyInput(t *testing.T) {
	svc, _ := newTestService(t)
	payload, err := svc.BulkCreateCustomers(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, payload.Customers)
	assert.NotNil(t, payload.Errors)
	assert.Empty(t, payload.Customers)
	assert.Empty(t, payload.Errors)
}

func TestCreateProductSuccess(t *testing.T) {
	svc, _ := newTestService(t)
	stock := 10
	payload, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:  "Laptop",
		Price: 999.99,
		Stock: &stock,
	})
	require.NoError(t, err)
	assert.Empty(t, payload.Errors)
	require.NotNil(t, payload.Product)
	assert.Equal(t, 999.99, payload.Product.Price)
	assert.Equal(t, 10, payload.Product.Stock)
	assert.NotZero(t, payload.Product.ID)
}

func TestCreateProductStockDefaultsToZero(t *testing.T) {
	svc, _ := newTestService(t)
	payload, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:  "Cable",
		Price: 4.99,
	})
	require.NoError(t, err)
	require.NotNil(t, payload.Product)
	assert.Equal(t, 0, payload.Product.Stock)
}

func TestCreateProductAccumulatesErrors(t *testing.T) {
	svc, _ := newTestService(t)
	neg := -5
	payload, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:  "Broken",
		Price: 0,
		Stock: &neg,
	})
	require.NoError(t, err)
	assert.Nil(t, payload.Product)
	assert.Equal(t, []string{"Price must be positive.", "Stock cannot be negative."}, payload.Errors)
}

func TestCreateProductNoNameDedup(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	mustCreateProduct(t, svc, "Laptop", 999.99, 10)
	mustCreateProduct(t, svc, "Laptop", 999.99, 10)

	rows, total, err := store.Products().List(ctx, ProductFilter{Name: "laptop"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)
}

func TestCreateOrderSuccess(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	alice := mustCreateCustomer(t, svc, "Alice", "alice@example.com", "+1234567890")
	laptop := mustCreateProduct(t, svc, "Laptop", 10.00, 5)
	phone := mustCreateProduct(t, svc, "Phone", 5.00, 5)

	when := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	payload, err := svc.CreateOrder(ctx, OrderInput{
		CustomerID: alice.ID,
		ProductIDs: []int64{laptop.ID, phone.ID},
		OrderDate:  &when,
	})
	require.NoError(t, err)
	assert.Empty(t, payload.Errors)
	require.NotNil(t, payload.Order)
	assert.Equal(t, 15.00, payload.Order.TotalAmount)
	assert.Equal(t, alice.ID, payload.Order.CustomerID)
	require.NotNil(t, payload.Order.Customer)
	assert.Equal(t, "alice@example.com", payload.Order.Customer.Email)
	assert.Len(t, payload.Order.Products, 2)
	assert.True(t, when.Equal(payload.Order.OrderDate))

	got, err := store.Orders().FindByID(ctx, payload.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, 15.00, got.TotalAmount)
	assert.Len(t, got.Products, 2)
}

func TestCreateOrderDefaultsOrderDate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	alice := mustCreateCustomer(t, svc, "Alice", "alice@example.com", "")
	laptop := mustCreateProduct(t, svc, "Laptop", 10.00, 5)

	before := time.Now().Add(-time.Second)
	payload, err := svc.CreateOrder(ctx, OrderInput{
		CustomerID: alice.ID,
		ProductIDs: []int64{laptop.ID},
	})
	require.NoError(t, err)
	require.NotNil(t, payload.Order)
	assert.False(t, payload.Order.OrderDate.Before(before))
}

func TestCreateOrderInvalidCustomer(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	// the bogus product ids never get checked; the customer lookup fails first
	payload, err := svc.CreateOrder(ctx, OrderInput{
		CustomerID: 424242,
		ProductIDs: []int64{999999},
	})
	require.NoError(t, err)
	assert.Nil(t, payload.Order)
	assert.Equal(t, []string{"Invalid customer ID."}, payload.Errors)

	amounts, err := store.Orders().Amounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, amounts)
}

func TestCreateOrderEmptyProducts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	alice := mustCreateCustomer(t, svc, "Alice", "alice@example.com", "")

	payload, err := svc.CreateOrder(ctx, OrderInput{CustomerID: alice.ID})
	require.NoError(t, err)
	assert.Nil(t, payload.Order)
	assert.Equal(t, []string{"At least one product must be selected."}, payload.Errors)
}

func TestCreateOrderMissingProducts(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	alice := mustCreateCustomer(t, svc, "Alice", "alice@example.com", "")
	laptop := mustCreateProduct(t, svc, "Laptop", 10.00, 5)

	payload, err := svc.CreateOrder(ctx, OrderInput{
		CustomerID: alice.ID,
		ProductIDs: []int64{laptop.ID, 888888, 999999},
	})
	require.NoError(t, err)
	assert.Nil(t, payload.Order)
	assert.Equal(t, []string{
		"Invalid product ID: 888888",
		"Invalid product ID: 999999",
	}, payload.Errors)

	// one unresolved id aborts the whole order, valid ids included
	amounts, err := store.Orders().Amounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, amounts)
}

func TestCreateOrderDuplicateProductIDs(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	alice := mustCreateCustomer(t, svc, "Alice", "alice@example.com", "")
	laptop := mustCreateProduct(t, svc, "Laptop", 10.00, 5)

	payload, err := svc.CreateOrder(ctx, OrderInput{
		CustomerID: alice.ID,
		ProductIDs: []int64{laptop.ID, laptop.ID},
	})
	require.NoError(t, err)
	require.NotNil(t, payload.Order)
	assert.Equal(t, 20.00, payload.Order.TotalAmount)

	got, err := store.Orders().FindByID(ctx, payload.Order.ID)
	require.NoError(t, err)
	assert.Len(t, got.Products, 1)
}

func TestRestockLowStock(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	low := mustCreateProduct(t, svc, "Cable", 4.99, 5)
	edge := mustCreateProduct(t, svc, "Mouse", 19.99, 9)
	high := mustCreateProduct(t, svc, "Laptop", 999.99, 15)

	payload, err := svc.RestockLowStock(ctx)
	require.NoError(t, err)
	assert.True(t, payload.Success)
	require.Len(t, payload.Products, 2)

	byID := map[int64]int{}
	for _, p := range payload.Products {
		byID[p.ID] = p.Stock
	}
	assert.Equal(t, 15, byID[low.ID])
	assert.Equal(t, 19, byID[edge.ID])

	untouched, err := store.Products().FindByID(ctx, high.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, untouched.Stock)

	// second run finds nothing below the threshold
	payload, err = svc.RestockLowStock(ctx)
	require.NoError(t, err)
	assert.True(t, payload.Success)
	assert.Empty(t, payload.Products)
}
