package staff

import (
	"context"
	"errors"
	"testing"

	"eventdesk/internal/apperr"
	"eventdesk/internal/guard"
	"eventdesk/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

func setup(t *testing.T) (*gorm.DB, guard.Scope) {
	t.Helper()
	db := testutil.NewDB(t, &Usher{}, &Vendor{})
	p := testutil.NewPlanner(t, db, "planner@example.com")
	ev := testutil.NewEvent(t, db, p.ID)
	sc, err := (&guard.Guard{DB: db}).Event(context.Background(), testutil.SessionFor(p), ev.ID)
	require.NoError(t, err)
	return db, sc
}

func TestUsherListOrdersByRoleThenCreated(t *testing.T) {
	db, sc := setup(t)
	svc := &UsherService{DB: db}
	ctx := context.Background()

	for _, in := range []UsherInput{
		{Name: "Sade", Role: UsherRoleUsher},
		{Name: "Bayo", Role: UsherRoleHeadUsher},
		{Name: "Ife"},
	} {
		_, err := svc.Create(ctx, sc, in)
		require.NoError(t, err)
	}

	got, err := svc.List(ctx, sc)
	require.NoError(t, err)
	names := []string{}
	for _, u := range got {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"Bayo", "Sade", "Ife"}, names)
	assert.Equal(t, UsherRoleUsher, got[2].Role)
}

func TestUsherValidation(t *testing.T) {
	db, sc := setup(t)
	svc := &UsherService{DB: db}
	ctx := context.Background()

	_, err := svc.Create(ctx, sc, UsherInput{Name: "  "})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	_, err = svc.Create(ctx, sc, UsherInput{Name: "Sade", Role: "bouncer"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
}

func TestUsherUpdateAndDelete(t *testing.T) {
	db, sc := setup(t)
	svc := &UsherService{DB: db}
	ctx := context.Background()

	u, err := svc.Create(ctx, sc, UsherInput{Name: "Sade", Phone: ptr("0803")})
	require.NoError(t, err)

	out, err := svc.Update(ctx, sc, u.ID, UsherPatch{Role: ptr(UsherRoleProtocol)})
	require.NoError(t, err)
	assert.Equal(t, UsherRoleProtocol, out.Role)
	assert.Equal(t, "Sade", out.Name)
	require.NotNil(t, out.Phone)
	assert.Equal(t, "0803", *out.Phone)

	out, err = svc.Update(ctx, sc, u.ID, UsherPatch{Phone: ptr(" ")})
	require.NoError(t, err)
	assert.Nil(t, out.Phone)

	require.NoError(t, svc.Delete(ctx, sc, u.ID))
	err = svc.Delete(ctx, sc, u.ID)
	assert.True(t, errors.Is(err, apperr.NotFound("usher")))
}

func TestUsherForeignEventIsNotFound(t *testing.T) {
	db, sc := setup(t)
	svc := &UsherService{DB: db}
	ctx := context.Background()

	u, err := svc.Create(ctx, sc, UsherInput{Name: "Sade"})
	require.NoError(t, err)

	other := testutil.NewEvent(t, db, sc.Planner.ID)
	otherScope, err := (&guard.Guard{DB: db}).OwnedEvent(ctx, sc.Planner, other.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, otherScope, u.ID, UsherPatch{Name: ptr("Hijack")})
	assert.True(t, errors.Is(err, apperr.NotFound("usher")))
}

func TestVendorListNewestFirst(t *testing.T) {
	db, sc := setup(t)
	svc := &VendorService{DB: db}
	ctx := context.Background()

	first, err := svc.Create(ctx, sc, VendorInput{Name: "Chops Ltd", Role: VendorCaterer})
	require.NoError(t, err)
	second, err := svc.Create(ctx, sc, VendorInput{Name: "DJ Spinall", Role: VendorDJ, CanOverrideCapacity: true})
	require.NoError(t, err)

	got, err := svc.List(ctx, sc)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
	assert.True(t, got[0].CanOverrideCapacity)
}

func TestVendorCreateDefaultsAndValidation(t *testing.T) {
	db, sc := setup(t)
	svc := &VendorService{DB: db}
	ctx := context.Background()

	v, err := svc.Create(ctx, sc, VendorInput{Name: "Blooms", ContactName: ptr("  "), Email: ptr("hello@blooms.ng")})
	require.NoError(t, err)
	assert.Equal(t, VendorOther, v.Role)
	assert.Nil(t, v.ContactName)
	require.NotNil(t, v.Email)

	_, err = svc.Create(ctx, sc, VendorInput{Name: "Blooms", Email: ptr("not-an-email")})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	_, err = svc.Create(ctx, sc, VendorInput{Name: "Blooms", Role: "juggler"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
}

func TestVendorPartialUpdate(t *testing.T) {
	db, sc := setup(t)
	svc := &VendorService{DB: db}
	ctx := context.Background()

	v, err := svc.Create(ctx, sc, VendorInput{Name: "Lens", Role: VendorPhotographer, Notes: ptr("two shooters")})
	require.NoError(t, err)

	out, err := svc.Update(ctx, sc, v.ID, VendorPatch{CanOverrideCapacity: ptr(true)})
	require.NoError(t, err)
	assert.True(t, out.CanOverrideCapacity)
	assert.Equal(t, VendorPhotographer, out.Role)
	require.NotNil(t, out.Notes)
	assert.Equal(t, "two shooters", *out.Notes)

	out, err = svc.Update(ctx, sc, v.ID, VendorPatch{CanOverrideCapacity: ptr(false)})
	require.NoError(t, err)
	assert.False(t, out.CanOverrideCapacity)

	require.NoError(t, svc.Delete(ctx, sc, v.ID))
	_, err = svc.Update(ctx, sc, v.ID, VendorPatch{Name: ptr("x")})
	assert.True(t, errors.Is(err, apperr.NotFound("vendor")))
}
