package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"eventdesk/internal/apperr"
	"eventdesk/internal/guard"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StaleAfter is how long a RUNNING job may hold its lock before it is
// considered abandoned.
const StaleAfter = 5 * time.Minute

type Repo struct {
	DB  *gorm.DB
	Now func() time.Time
}

func (r *Repo) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

func (r *Repo) EnqueueInviteBroadcast(ctx context.Context, sc guard.Scope, message string) (*Job, error) {
	payload, err := json.Marshal(invitePayload{Message: message})
	if err != nil {
		return nil, err
	}
	j := Job{
		PlannerID:   sc.Planner.ID,
		EventID:     sc.Event.ID,
		Type:        TypeInviteBroadcast,
		Payload:     string(payload),
		RunAt:       r.now(),
		Status:      StatusPending,
		MaxAttempts: 1,
	}
	if err := r.DB.WithContext(ctx).Create(&j).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

// Get returns a job only to the planner that enqueued it.
func (r *Repo) Get(ctx context.Context, plannerID, id uint64) (*Job, error) {
	var j Job
	err := r.DB.WithContext(ctx).Where("id = ? AND planner_id = ?", id, plannerID).First(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("job")
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// Claim one due job. On Postgres the row lock uses SKIP LOCKED so two
// workers never take the same job.
func (r *Repo) Claim(ctx context.Context, workerID string) (*Job, error) {
	var job Job
	now := r.now()

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// abandoned jobs are failed, not requeued: a broadcast is never sent twice
		stale := "worker lock expired"
		if err := tx.Model(&Job{}).
			Where("status = ? AND locked_at < ?", StatusRunning, now.Add(-StaleAfter)).
			Updates(map[string]any{"status": StatusFailed, "last_error": stale, "locked_by": nil}).Error; err != nil {
			return err
		}

		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ? AND run_at <= ?", StatusPending, now).
			Order("run_at asc").Order("id asc").
			Take(&job).Error
		if err != nil {
			return err
		}

		res := tx.Model(&Job{}).
			Where("id = ? AND status = ?", job.ID, StatusPending).
			Updates(map[string]any{
				"status":    StatusRunning,
				"locked_by": workerID,
				"locked_at": now,
				"attempts":  gorm.Expr("attempts + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		job.Status = StatusRunning
		job.Attempts++
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *Repo) finish(ctx context.Context, id uint64, st Status, sent, failed int, lastErr *string) error {
	return r.DB.WithContext(ctx).Model(&Job{}).Where("id = ?", id).Updates(map[string]any{
		"status":     st,
		"sent":       sent,
		"failed":     failed,
		"last_error": lastErr,
		"locked_by":  nil,
	}).Error
}
