package db

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:db-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := Open(dsn, nil)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func TestMigrateCreatesTables(t *testing.T) {
	gdb := openTestDB(t)

	for _, table := range []string{"users", "articles", "comments", "tags", "articletags", "follows", "favourite"} {
		if !gdb.Migrator().HasTable(table) {
			t.Fatalf("expected table %q to exist", table)
		}
	}
}

func TestDuplicateUsernameIsTranslated(t *testing.T) {
	gdb := openTestDB(t)

	if err := gdb.Create(&User{Username: "alice", Email: "alice@example.com", Password: "x"}).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	err := gdb.Create(&User{Username: "alice", Email: "other@example.com", Password: "x"}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key error, got %v", err)
	}
}

func TestDuplicateFollowIsUniqueViolation(t *testing.T) {
	gdb := openTestDB(t)

	if err := gdb.Create(&Follow{FollowerID: 1, FollowedID: 2}).Error; err != nil {
		t.Fatalf("create follow: %v", err)
	}
	err := gdb.Create(&Follow{FollowerID: 1, FollowedID: 2}).Error
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "translated", err: fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "primary key message", err: errors.New("UNIQUE constraint failed: favourite.article_id, favourite.user_id"), want: true},
		{name: "other", err: errors.New("database is locked"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "conduit.db")
	gdb, err := Open(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	_ = sqlDB.Close()
}

func TestWithPragmas(t *testing.T) {
	if got := withPragmas("conduit.db"); got != "conduit.db?_busy_timeout=5000&_foreign_keys=on&_txlock=immediate&_journal_mode=WAL" {
		t.Fatalf("unexpected dsn %q", got)
	}
	if got := withPragmas("file:x?mode=memory"); got != "file:x?mode=memory&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate" {
		t.Fatalf("unexpected dsn %q", got)
	}
}
