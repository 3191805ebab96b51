package db

import (
	"testing"

	"eventdesk/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoMigrateAndIndexesIsRepeatable(t *testing.T) {
	gdb := testutil.OpenDB(t)

	require.NoError(t, AutoMigrateAndIndexes(gdb))
	require.NoError(t, AutoMigrateAndIndexes(gdb))

	for _, table := range []string{"planners", "events", "guests", "menu_items", "event_tables", "ushers", "vendors", "jobs"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}
	assert.True(t, gdb.Migrator().HasIndex("guests", "idx_guests_event_name"))
}
