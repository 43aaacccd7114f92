package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultPath is used when no database path is configured.
const DefaultPath = "conduit.db"

// Open connects to the SQLite database at path. Unique constraint failures
// surface as gorm.ErrDuplicatedKey.
func Open(path string, log logger.Interface) (*gorm.DB, error) {
	dsn := strings.TrimSpace(path)
	if dsn == "" {
		dsn = DefaultPath
	}

	if !strings.HasPrefix(dsn, "file:") {
		if err := ensureParentDir(dsn); err != nil {
			return nil, err
		}
	}

	if log == nil {
		log = logger.Default.LogMode(logger.Silent)
	}

	return gorm.Open(sqlite.Open(withPragmas(dsn)), &gorm.Config{
		Logger:         log,
		TranslateError: true,
	})
}

// Migrate creates or updates every table the services query.
func Migrate(gdb *gorm.DB) error {
	if gdb == nil {
		return errors.New("database not initialized")
	}
	return gdb.AutoMigrate(
		&User{},
		&Article{},
		&Tag{},
		&ArticleTag{},
		&Comment{},
		&Follow{},
		&Favorite{},
	)
}

// IsUniqueViolation reports whether err comes from a UNIQUE or PRIMARY KEY
// constraint, translated or not.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// withPragmas makes every transaction take the write lock at BEGIN so that
// read-then-write transactions queue on the busy timeout instead of failing
// with SQLITE_BUSY on lock upgrade. File databases also switch to WAL.
func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	pragmas := "_busy_timeout=5000&_foreign_keys=on&_txlock=immediate"
	if !strings.Contains(dsn, "mode=memory") && !strings.Contains(dsn, ":memory:") {
		pragmas += "&_journal_mode=WAL"
	}
	return dsn + sep + pragmas
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
