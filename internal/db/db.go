package db

import (
	"fmt"
	"time"

	"eventdesk/internal/event"
	"eventdesk/internal/guest"
	"eventdesk/internal/jobs"
	"eventdesk/internal/menu"
	"eventdesk/internal/planner"
	"eventdesk/internal/seating"
	"eventdesk/internal/staff"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
}

// Connect opens the one process-wide pool. Callers share the returned handle.
func Connect(dsn string, opts Options, log zerolog.Logger) (*gorm.DB, error) {
	slow := opts.SlowThreshold
	if slow <= 0 {
		slow = 500 * time.Millisecond
	}
	gormLog := log.With().Str("component", "gorm").Logger()

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger: logger.New(&gormLog, logger.Config{
			SlowThreshold:             slow,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	return gdb, nil
}

func Models() []any {
	return []any{
		&planner.Planner{},
		&event.Event{},
		&guest.Guest{},
		&menu.Item{},
		&seating.Table{},
		&staff.Usher{},
		&staff.Vendor{},
		&jobs.Job{},
	}
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(Models()...); err != nil {
		return err
	}

	stmts := []string{
		// import dedup loads every guest of one event
		`create index if not exists idx_guests_event_name on guests(event_id, lower(first_name), lower(last_name));`,
		`create index if not exists idx_guests_event_phone on guests(event_id, phone);`,
		`create index if not exists idx_guests_event_rsvp on guests(event_id, rsvp_at);`,
		`create index if not exists idx_events_planner_date on events(planner_id, date);`,
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
