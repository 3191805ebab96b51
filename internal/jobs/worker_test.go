package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"eventdesk/internal/guard"
	"eventdesk/internal/guest"
	"eventdesk/internal/planner"
	"eventdesk/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSender struct {
	to     []string
	bodies []string
	failOn map[string]bool
}

func (f *fakeSender) Send(_ context.Context, _ *planner.Planner, to, body string, test bool) (string, error) {
	if test {
		return "", errors.New("broadcast must not use test sends")
	}
	if f.failOn[to] {
		return "", errors.New("provider rejected " + to)
	}
	f.to = append(f.to, to)
	f.bodies = append(f.bodies, body)
	return "wamid", nil
}

func setup(t *testing.T) (*gorm.DB, guard.Scope, *Repo) {
	t.Helper()
	db := testutil.NewDB(t, &Job{}, &guest.Guest{})
	p := testutil.NewPlanner(t, db, "planner@example.com")
	ev := testutil.NewEvent(t, db, p.ID, testutil.WithName("Ada & Tunde"))
	sc, err := (&guard.Guard{DB: db}).Event(context.Background(), testutil.SessionFor(p), ev.ID)
	require.NoError(t, err)
	return db, sc, &Repo{DB: db}
}

func addGuest(t *testing.T, db *gorm.DB, eventID uint64, name string, phone *string, status guest.RSVPStatus) guest.Guest {
	t.Helper()
	g := guest.Guest{EventID: eventID, FirstName: name, LastName: "X", Phone: phone, RSVPStatus: status, InviteChannel: guest.ChannelManual}
	require.NoError(t, db.Create(&g).Error)
	return g
}

func ptr(s string) *string { return &s }

func TestClaimTakesEachJobOnce(t *testing.T) {
	_, sc, repo := setup(t)
	ctx := context.Background()

	j, err := repo.EnqueueInviteBroadcast(ctx, sc, "")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, j.Status)

	claimed, err := repo.Claim(ctx, "w1")
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, j.ID, claimed.ID)
	assert.Equal(t, StatusRunning, claimed.Status)
	assert.Equal(t, 1, claimed.Attempts)

	again, err := repo.Claim(ctx, "w2")
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestClaimFailsStaleRunningJobs(t *testing.T) {
	_, sc, repo := setup(t)
	ctx := context.Background()

	j, err := repo.EnqueueInviteBroadcast(ctx, sc, "")
	require.NoError(t, err)
	_, err = repo.Claim(ctx, "w1")
	require.NoError(t, err)

	repo.Now = func() time.Time { return time.Now().Add(StaleAfter + time.Minute) }
	next, err := repo.Claim(ctx, "w2")
	require.NoError(t, err)
	assert.Nil(t, next)

	got, err := repo.Get(ctx, sc.Planner.ID, j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	require.NotNil(t, got.LastError)
}

func TestGetIsPlannerScoped(t *testing.T) {
	db, sc, repo := setup(t)
	ctx := context.Background()
	j, err := repo.EnqueueInviteBroadcast(ctx, sc, "")
	require.NoError(t, err)

	other := testutil.NewPlanner(t, db, "other@example.com")
	_, err = repo.Get(ctx, other.ID, j.ID)
	assert.EqualError(t, err, "job not found")
}

func TestInviteBroadcastSendsToPendingGuestsWithPhones(t *testing.T) {
	db, sc, repo := setup(t)
	ctx := context.Background()

	ada := addGuest(t, db, sc.Event.ID, "Ada", ptr("08011111111"), guest.RSVPPending)
	addGuest(t, db, sc.Event.ID, "NoPhone", nil, guest.RSVPPending)
	addGuest(t, db, sc.Event.ID, "Done", ptr("08022222222"), guest.RSVPConfirmed)
	bad := addGuest(t, db, sc.Event.ID, "Bad", ptr("08033333333"), guest.RSVPPending)

	sender := &fakeSender{failOn: map[string]bool{"08033333333": true}}
	w := &Worker{ID: "w1", Repo: repo, DB: db, Sender: sender, PublicBaseURL: "https://rsvp.example.com/", Log: zerolog.Nop()}

	j, err := repo.EnqueueInviteBroadcast(ctx, sc, "")
	require.NoError(t, err)
	ran, err := w.RunOnce(ctx)
	require.NoError(t, err)
	assert.True(t, ran)

	assert.Equal(t, []string{"08011111111"}, sender.to)
	assert.True(t, strings.HasPrefix(sender.bodies[0], "Hello Ada X,\n\n"))
	assert.Contains(t, sender.bodies[0], "Ada & Tunde")
	assert.True(t, strings.HasSuffix(sender.bodies[0], fmt.Sprintf("/events/%d/rsvp", sc.Event.ID)))

	got, err := repo.Get(ctx, sc.Planner.ID, j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, got.Status)
	assert.Equal(t, 1, got.Sent)
	assert.Equal(t, 1, got.Failed)
	require.NotNil(t, got.LastError)

	var reloaded guest.Guest
	require.NoError(t, db.First(&reloaded, ada.ID).Error)
	assert.Equal(t, guest.ChannelWhatsApp, reloaded.InviteChannel)
	assert.NotNil(t, reloaded.InvitedAt)

	require.NoError(t, db.First(&reloaded, bad.ID).Error)
	assert.Nil(t, reloaded.InvitedAt)

	// A second broadcast only reaches guests not yet invited.
	sender.failOn = nil
	_, err = repo.EnqueueInviteBroadcast(ctx, sc, "Custom words")
	require.NoError(t, err)
	_, err = w.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"08011111111", "08033333333"}, sender.to)
	assert.Contains(t, sender.bodies[1], "Custom words")
}

func TestInviteBroadcastAllFailedMarksJobFailed(t *testing.T) {
	db, sc, repo := setup(t)
	ctx := context.Background()
	addGuest(t, db, sc.Event.ID, "Bad", ptr("0803"), guest.RSVPPending)

	w := &Worker{ID: "w1", Repo: repo, DB: db, Sender: &fakeSender{failOn: map[string]bool{"0803": true}}, Log: zerolog.Nop()}
	j, err := repo.EnqueueInviteBroadcast(ctx, sc, "")
	require.NoError(t, err)
	_, err = w.RunOnce(ctx)
	require.NoError(t, err)

	got, err := repo.Get(ctx, sc.Planner.ID, j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, 1, got.Attempts)
}

func TestInviteBroadcastForDeletedEventCompletes(t *testing.T) {
	db, sc, repo := setup(t)
	ctx := context.Background()

	j, err := repo.EnqueueInviteBroadcast(ctx, sc, "")
	require.NoError(t, err)
	require.NoError(t, db.Exec("DELETE FROM events WHERE id = ?", sc.Event.ID).Error)

	w := &Worker{ID: "w1", Repo: repo, DB: db, Sender: &fakeSender{}, Log: zerolog.Nop()}
	_, err = w.RunOnce(ctx)
	require.NoError(t, err)

	got, err := repo.Get(ctx, sc.Planner.ID, j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, got.Status)
}

func TestRunOnceWithoutJobs(t *testing.T) {
	db, _, repo := setup(t)
	w := &Worker{ID: "w1", Repo: repo, DB: db, Sender: &fakeSender{}, Log: zerolog.Nop()}
	ran, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)
}

// cancelingSender stops the worker's context right after its first delivery.
type cancelingSender struct {
	cancel context.CancelFunc
	to     []string
}

func (c *cancelingSender) Send(_ context.Context, _ *planner.Planner, to, _ string, _ bool) (string, error) {
	c.to = append(c.to, to)
	c.cancel()
	return "wamid", nil
}

func TestInviteBroadcastRecordsProgressWhenStopped(t *testing.T) {
	db, sc, repo := setup(t)

	first := addGuest(t, db, sc.Event.ID, "Ada", ptr("08011111111"), guest.RSVPPending)
	second := addGuest(t, db, sc.Event.ID, "Chika", ptr("08022222222"), guest.RSVPPending)

	j, err := repo.EnqueueInviteBroadcast(context.Background(), sc, "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sender := &cancelingSender{cancel: cancel}
	w := &Worker{ID: "w1", Repo: repo, DB: db, Sender: sender, Log: zerolog.Nop()}

	ran, err := w.RunOnce(ctx)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, []string{"08011111111"}, sender.to)

	got, err := repo.Get(context.Background(), sc.Planner.ID, j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, got.Status)
	assert.Equal(t, 1, got.Sent)
	require.NotNil(t, got.LastError)
	assert.Contains(t, *got.LastError, "stopped after 1 of 2")

	var reloaded guest.Guest
	require.NoError(t, db.First(&reloaded, first.ID).Error)
	assert.NotNil(t, reloaded.InvitedAt)
	require.NoError(t, db.First(&reloaded, second.ID).Error)
	assert.Nil(t, reloaded.InvitedAt)
}
