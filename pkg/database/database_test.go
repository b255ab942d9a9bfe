package database

import "testing"

func TestConnectSQLite(t *testing.T) {
	db, err := ConnectDB(Options{Driver: DriverSQLite, DSN: "file::memory:"})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	defer sqlDB.Close()
	if err := sqlDB.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("want 1 open connection for sqlite got %d", got)
	}
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	if _, err := ConnectDB(Options{Driver: "mysql"}); err == nil {
		t.Fatalf("want error for unknown driver")
	}
}
