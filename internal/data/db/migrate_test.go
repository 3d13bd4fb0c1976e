package db

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func TestAutoMigrateAllOnSqlite(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormLogger.Default.LogMode(gormLogger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := gdb.DB()
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	if err := AutoMigrateAll(gdb); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	for _, table := range []string{"symptom_entry", "user_profile", "disease_activity_state", "disease_activity_history"} {
		if !gdb.Migrator().HasTable(table) {
			t.Fatalf("table %s not created", table)
		}
	}
	// idempotent
	if err := AutoMigrateAll(gdb); err != nil {
		t.Fatalf("AutoMigrateAll (second run): %v", err)
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: "5432", User: "ibd", Password: "p@ss word", Name: "ibdtrack"}
	want := "postgres://ibd:p%40ss%20word@db:5432/ibdtrack?sslmode=disable"
	if got := cfg.dsn(); got != want {
		t.Fatalf("dsn: want=%s got=%s", want, got)
	}
	cfg.DSN = "postgres://override"
	if got := cfg.dsn(); got != "postgres://override" {
		t.Fatalf("dsn override: got=%s", got)
	}
}
