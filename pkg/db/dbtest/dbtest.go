// Package dbtest provides an in-memory database for store tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"

	"github.com/openshift/videa/pkg/db"
)

// New returns a migrated, empty sqlite database private to the calling test.
func New(tb testing.TB) *db.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	dbc, err := db.Open(sqlite.Open(dsn), logger.Silent)
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := dbc.DB.DB()
	if err != nil {
		tb.Fatalf("failed to get test db handle: %v", err)
	}
	// One connection keeps every statement on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := dbc.UpdateSchema(); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	return dbc
}
