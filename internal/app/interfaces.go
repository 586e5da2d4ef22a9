package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/abderrahmaneOU/alx-backend-graphql-crm/config"
	"github.com/abderrahmaneOU/alx-backend-graphql-crm/internal/crm"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// StoreProvider provides the CRM repositories
type StoreProvider interface {
	Store() crm.Store
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	StoreProvider
	SchedulerProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
	// RunJobNow triggers a named background job immediately
	RunJobNow(name string) error
}
