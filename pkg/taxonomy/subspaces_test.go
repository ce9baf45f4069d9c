package taxonomy

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intranet-portal-backend/pkg/apperrors"
	"intranet-portal-backend/pkg/database"
	"intranet-portal-backend/pkg/logger"
	"intranet-portal-backend/pkg/models"
)

func newService(t *testing.T) *SubspaceService {
	t.Helper()
	db, err := database.NewSQLiteDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSubspaceService(db, logger.Nop())
}

func strp(s string) *string { return &s }

func idp(v int64) *int64 { return &v }

func TestFindAllEnsuresRoot(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	list, err := svc.FindAll(ctx, models.SubspaceFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsDefaultRoot())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.FindAll(ctx, models.SubspaceFilter{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	roots, err := svc.FindAll(ctx, models.SubspaceFilter{Parent: models.ParentFilter{Set: true}})
	require.NoError(t, err)
	assert.Len(t, roots, 1)
}

func TestCreateAttachesToRoot(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	hr, err := svc.Create(ctx, SubspaceInput{Name: strp(" HR ")})
	require.NoError(t, err)
	root, err := svc.Root(ctx)
	require.NoError(t, err)
	require.NotNil(t, hr.ParentSubspaceID)
	assert.Equal(t, root.ID, *hr.ParentSubspaceID)
	assert.Equal(t, "HR", hr.Name)
	assert.Equal(t, "public", hr.Visibility)

	benefits, err := svc.Create(ctx, SubspaceInput{
		Name:   strp("Benefits"),
		Parent: models.ParentFilter{Set: true, ID: idp(hr.ID)},
	})
	require.NoError(t, err)
	assert.Equal(t, hr.ID, *benefits.ParentSubspaceID)

	children, err := svc.FindAll(ctx, models.SubspaceFilter{Parent: models.ParentFilter{Set: true, ID: idp(hr.ID)}})
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Benefits", children[0].Name)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Create(ctx, SubspaceInput{Name: strp("  ")})
	var missing *apperrors.MissingRequiredFieldError
	assert.ErrorAs(t, err, &missing)

	_, err = svc.Create(ctx, SubspaceInput{Name: strp("orphan"), Parent: models.ParentFilter{Set: true, ID: idp(404)}})
	var invalid *apperrors.InvalidFieldError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "parentSubspaceId", invalid.Field)
}

func TestUpdateRejectsCycles(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	a, err := svc.Create(ctx, SubspaceInput{Name: strp("A")})
	require.NoError(t, err)
	b, err := svc.Create(ctx, SubspaceInput{Name: strp("B"), Parent: models.ParentFilter{Set: true, ID: idp(a.ID)}})
	require.NoError(t, err)
	c, err := svc.Create(ctx, SubspaceInput{Name: strp("C"), Parent: models.ParentFilter{Set: true, ID: idp(b.ID)}})
	require.NoError(t, err)

	var cycle *apperrors.CycleError
	_, err = svc.Update(ctx, a.ID, SubspaceInput{Parent: models.ParentFilter{Set: true, ID: idp(c.ID)}})
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, a.ID, cycle.ID)
	assert.Equal(t, 409, apperrors.HTTPStatus(err))

	_, err = svc.Update(ctx, a.ID, SubspaceInput{Parent: models.ParentFilter{Set: true, ID: idp(a.ID)}})
	assert.ErrorAs(t, err, &cycle)

	moved, err := svc.Update(ctx, c.ID, SubspaceInput{Parent: models.ParentFilter{Set: true, ID: idp(a.ID)}, Name: strp("C2")})
	require.NoError(t, err)
	assert.Equal(t, a.ID, *moved.ParentSubspaceID)
	assert.Equal(t, "C2", moved.Name)

	_, err = svc.Update(ctx, c.ID, SubspaceInput{Parent: models.ParentFilter{Set: true}})
	var invalid *apperrors.InvalidFieldError
	assert.ErrorAs(t, err, &invalid)
}

func TestRootIsProtected(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	root, err := svc.Root(ctx)
	require.NoError(t, err)

	var conflict *apperrors.ConflictError
	assert.ErrorAs(t, svc.Delete(ctx, root.ID), &conflict)

	_, err = svc.Update(ctx, root.ID, SubspaceInput{Name: strp("Renamed")})
	assert.ErrorAs(t, err, &conflict)

	updated, err := svc.Update(ctx, root.ID, SubspaceInput{Description: strp("company root")})
	require.NoError(t, err)
	assert.Equal(t, "company root", *updated.Description)
}

func TestDeleteOnlyLeaves(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	parent, err := svc.Create(ctx, SubspaceInput{Name: strp("Parent")})
	require.NoError(t, err)
	child, err := svc.Create(ctx, SubspaceInput{Name: strp("Child"), Parent: models.ParentFilter{Set: true, ID: idp(parent.ID)}})
	require.NoError(t, err)

	var conflict *apperrors.ConflictError
	assert.ErrorAs(t, svc.Delete(ctx, parent.ID), &conflict)

	require.NoError(t, svc.Delete(ctx, child.ID))
	require.NoError(t, svc.Delete(ctx, parent.ID))
	assert.True(t, apperrors.IsNotFound(svc.Delete(ctx, parent.ID)))
}
