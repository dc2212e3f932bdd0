package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotekit/cpq/internal/contract"
	"github.com/quotekit/cpq/internal/repository"
)

func TestVersionService_Create_AssignsUUIDAndDraftFlags(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v, err := env.versions.Create(ctx, contract.SaveVersion{Name: "2026 Catalog"})
	require.NoError(t, err)
	assert.NotZero(t, v.ID)
	assert.NotEmpty(t, v.UUID)
	assert.False(t, v.IsLocked)
	assert.False(t, v.IsActive)

	fetched, err := env.versions.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026 Catalog", fetched.Name)
	assert.Equal(t, v.UUID, fetched.UUID)
}

func TestVersionService_Create_RejectsEmptyName(t *testing.T) {
	env := newEnv(t)

	_, err := env.versions.Create(context.Background(), contract.SaveVersion{})
	require.Error(t, err)
}

func TestVersionService_List_PaginatesNewestFirst(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		env.mustVersion(t, fmt.Sprintf("v%d", i))
	}

	page, err := env.versions.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	require.Len(t, page.Versions, 20)
	assert.Equal(t, "v25", page.Versions[0].Name)

	page, err = env.versions.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, page.Versions, 5)
	assert.Equal(t, "v5", page.Versions[0].Name)
}

func TestVersionService_Update_GatedByLock(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "draft")
	_, err := env.versions.Lock(ctx, v.ID)
	require.NoError(t, err)

	_, err = env.versions.Update(ctx, v.ID, contract.SaveVersion{Name: "renamed"})
	require.ErrorIs(t, err, ErrNotEditable)

	fetched, err := env.versions.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", fetched.Name)
}

func TestVersionService_LifecycleGates(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "lifecycle")

	// A draft cannot be activated or unlocked.
	_, err := env.versions.Activate(ctx, v.ID)
	require.ErrorIs(t, err, ErrNotActivable)
	_, err = env.versions.Unlock(ctx, v.ID)
	require.ErrorIs(t, err, ErrNotUnlockable)

	locked, err := env.versions.Lock(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, locked.IsLocked)

	_, err = env.versions.Lock(ctx, v.ID)
	require.ErrorIs(t, err, ErrNotLockable)

	active, err := env.versions.Activate(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, active.IsActive)

	// Activation is terminal: no unlock, no re-activate.
	_, err = env.versions.Unlock(ctx, v.ID)
	require.ErrorIs(t, err, ErrNotUnlockable)
	_, err = env.versions.Activate(ctx, v.ID)
	require.ErrorIs(t, err, ErrNotActivable)
}

func TestVersionService_Delete_CascadesWholeSubtree(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "doomed")
	p := env.mustProduct(t, v.ID, "Widget")

	_, err := env.factors.Create(ctx, p.ID, contract.SaveFactor{
		Name:       "Color",
		IsOptional: true,
		Options:    []contract.SaveOption{{Name: "Red"}, {Name: "Blue"}},
	})
	require.NoError(t, err)
	ct, err := env.costs.Create(ctx, p.ID, contract.SaveCost{
		Title: "Base",
		Code:  "BASE",
		Rules: []contract.SaveRule{{Action: "10.0"}},
	})
	require.NoError(t, err)
	_, err = env.leadtimes.Create(ctx, p.ID, contract.SaveLeadtime{Title: "standard", Days: 14})
	require.NoError(t, err)

	require.NoError(t, env.versions.Delete(ctx, v.ID))

	_, err = env.versions.GetByID(ctx, v.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = env.products.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	rules := repository.NewSQLiteRuleRepo(env.db)
	left, err := rules.ListByCost(ctx, ct.Cost.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestVersionService_Delete_GatedByLock(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "kept")
	_, err := env.versions.Lock(ctx, v.ID)
	require.NoError(t, err)

	err = env.versions.Delete(ctx, v.ID)
	require.ErrorIs(t, err, ErrNotDeletable)

	_, err = env.versions.GetByID(ctx, v.ID)
	require.NoError(t, err)
}

func TestVersionService_Replicate_FreshUUIDAndResetFlags(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "source")
	p := env.mustProduct(t, v.ID, "Widget")
	_, err := env.factors.Create(ctx, p.ID, contract.SaveFactor{
		Name:       "Size",
		IsOptional: true,
		Options:    []contract.SaveOption{{Name: "S"}, {Name: "M"}},
	})
	require.NoError(t, err)
	_, err = env.costs.Create(ctx, p.ID, contract.SaveCost{
		Title: "Base",
		Code:  "BASE",
		Rules: []contract.SaveRule{{Condition: "qty > 1", Action: "qty * 2.0"}},
	})
	require.NoError(t, err)

	// Lock and activate the source; replication must still work.
	_, err = env.versions.Lock(ctx, v.ID)
	require.NoError(t, err)
	_, err = env.versions.Activate(ctx, v.ID)
	require.NoError(t, err)

	copyTree, err := env.versions.Replicate(ctx, v.ID)
	require.NoError(t, err)

	src, err := env.versions.GetByID(ctx, v.ID)
	require.NoError(t, err)

	assert.NotEqual(t, src.ID, copyTree.Version.ID)
	assert.NotEqual(t, src.UUID, copyTree.Version.UUID)
	assert.Equal(t, "source", copyTree.Version.Name)
	assert.False(t, copyTree.Version.IsLocked)
	assert.False(t, copyTree.Version.IsActive)

	// Source is untouched.
	assert.True(t, src.IsLocked)
	assert.True(t, src.IsActive)

	require.Len(t, copyTree.Products, 1)
	copied := copyTree.Products[0]
	assert.NotEqual(t, p.ID, copied.Product.ID)
	assert.Equal(t, "Widget", copied.Product.Name)
	require.Len(t, copied.Factors, 1)
	assert.Len(t, copied.Factors[0].Options, 2)
	require.Len(t, copied.Costs, 1)
	require.Len(t, copied.Costs[0].Rules, 1)
	assert.Equal(t, "qty * 2.0", copied.Costs[0].Rules[0].Action)

	// The copy is an editable draft: writes go through.
	_, err = env.versions.Update(ctx, copyTree.Version.ID, contract.SaveVersion{Name: "source v2"})
	require.NoError(t, err)
}

func TestVersionService_Replicate_MissingSource(t *testing.T) {
	env := newEnv(t)

	_, err := env.versions.Replicate(context.Background(), 999)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestVersionService_GetTree_LoadsFullSubtree(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	v := env.mustVersion(t, "tree")
	p1 := env.mustProduct(t, v.ID, "A")
	env.mustProduct(t, v.ID, "B")
	_, err := env.leadtimes.Create(ctx, p1.ID, contract.SaveLeadtime{Title: "fast", Days: 3})
	require.NoError(t, err)

	tree, err := env.versions.GetTree(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, tree.Products, 2)
	assert.Len(t, tree.Products[0].Leadtimes, 1)
	assert.Empty(t, tree.Products[1].Leadtimes)
}
