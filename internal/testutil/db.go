package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"eventdesk/internal/event"
	"eventdesk/internal/planner"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB creates a file-backed SQLite database in a temp directory. A file
// keeps one shared state across every connection in the pool, which the
// concurrent aggregation queries need.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eventdesk_test.db")
	gdb, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000&_journal_mode=WAL"), &gorm.Config{
		Logger:  logger.Discard,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return gdb
}

// NewDB opens a test database with planners, events and the given models migrated.
func NewDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()
	gdb := OpenDB(t)
	all := append([]any{&planner.Planner{}, &event.Event{}}, models...)
	require.NoError(t, gdb.AutoMigrate(all...))
	return gdb
}
