// Package dbtest поднимает in-memory SQLite со всей схемой для тестов.
package dbtest

import (
	"testing"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Leganyst/dj-booking/internal/config"
	"github.com/Leganyst/dj-booking/internal/db"
	"github.com/Leganyst/dj-booking/internal/model"
)

// Open возвращает мигрированную пустую БД. Одно соединение, иначе
// каждое новое соединение видит свою :memory: базу.
func Open(tb testing.TB) *gorm.DB {
	tb.Helper()

	gdb, err := db.NewGormDB(&config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: ":memory:",
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	gdb.Logger = gormlogger.Default.LogMode(gormlogger.Silent)

	if err := model.AutoMigrate(gdb); err != nil {
		tb.Fatalf("migrate: %v", err)
	}

	tb.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}
