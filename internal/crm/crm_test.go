package crm

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/abderrahmaneOU/alx-backend-graphql-crm/internal/domain"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	dbfile := filepath.Join(t.TempDir(), "crm_test.db")
	db, err := gorm.Open(sqlite.Open(dbfile), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return NewGormStore(db)
}

func newTestService(t *testing.T) (*MutationService, *GormStore) {
	t.Helper()
	store := newTestStore(t)
	return NewMutationService(store, nil), store
}

func mustCreateCustomer(t *testing.T, s *MutationService, name, email, phone string) *domain.CrmCustomer {
	t.Helper()
	payload, err := s.CreateCustomer(context.Background(), CustomerInput{Name: name, Email: email, Phone: phone})
	require.NoError(t, err)
	require.Empty(t, payload.Errors)
	require.NotNil(t, payload.Customer)
	return payload.Customer
}

func mustCreateProduct(t *testing.T, s *MutationService, name string, price float64, stock int) *domain.CrmProduct {
	t.Helper()
	payload, err := s.CreateProduct(context.Background(), ProductInput{Name: name, Price: price, Stock: &stock})
	require.NoError(t, err)
	require.Empty(t, payload.Errors)
	require.NotNil(t, payload.Product)
	return payload.Product
}
